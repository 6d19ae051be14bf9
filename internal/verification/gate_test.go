package verification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Insert(ctx context.Context, rec *Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockStore) LatestApproved(ctx context.Context, userID uuid.UUID) (*Record, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Record), args.Error(1)
}

func validAadhaarData() map[string]string {
	return map[string]string{
		"number": "1234 5678 9012", "name": "Asha Rao", "dob": "1991-04-02",
		"gender": "female", "address": "12 Lake Rd", "state": "Karnataka",
		"pincode": "560001",
		"front_image_url": "https://cdn.example.com/front.jpg",
		"back_image_url":  "https://cdn.example.com/back.jpg",
	}
}

func TestSubmit_ApproveValidDocument(t *testing.T) {
	store := new(MockStore)
	store.On("Insert", mock.Anything, mock.MatchedBy(func(r *Record) bool {
		return r.Status == StatusApproved && r.VerifiedAt != nil
	})).Return(nil)

	svc := NewService(store)
	svc.clock = func() time.Time { return time.Unix(1700000000, 0) }

	userID := uuid.New()
	rec, err := svc.Submit(context.Background(), SubmitInput{
		UserID:       userID,
		DocumentType: "aadhaar",
		DocumentData: validAadhaarData(),
		Decision:     DecisionApprove,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, rec.Status)
	assert.NotNil(t, rec.VerifiedAt)
	store.AssertExpectations(t)
}

func TestSubmit_ApproveIncompleteDocumentRejected(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store)

	data := validAadhaarData()
	delete(data, "pincode")
	delete(data, "back_image_url")

	_, err := svc.Submit(context.Background(), SubmitInput{
		UserID:       uuid.New(),
		DocumentType: "aadhaar",
		DocumentData: data,
		Decision:     DecisionApprove,
	})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.ElementsMatch(t, []string{"pincode", "back_image_url"}, ve.Missing)
	store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestSubmit_RejectSkipsSchemaValidation(t *testing.T) {
	// A rejection may be recorded even for incomplete data; the review message
	// tells the guest what to fix.
	store := new(MockStore)
	store.On("Insert", mock.Anything, mock.MatchedBy(func(r *Record) bool {
		return r.Status == StatusRejected && r.VerifiedAt == nil
	})).Return(nil)

	svc := NewService(store)
	rec, err := svc.Submit(context.Background(), SubmitInput{
		UserID:        uuid.New(),
		DocumentType:  "pan",
		DocumentData:  map[string]string{"number": "ABCDE1234F"},
		Decision:      DecisionReject,
		ReviewMessage: "photo unreadable, please re-upload",
	})
	require.NoError(t, err)
	assert.Equal(t, "photo unreadable, please re-upload", rec.ReviewMessage)
}

func TestSubmit_UnknownTypeAndDecision(t *testing.T) {
	svc := NewService(new(MockStore))

	_, err := svc.Submit(context.Background(), SubmitInput{
		UserID: uuid.New(), DocumentType: "ration_card", Decision: DecisionApprove,
	})
	assert.Error(t, err)

	_, err = svc.Submit(context.Background(), SubmitInput{
		UserID: uuid.New(), DocumentType: "pan", Decision: Decision("maybe"),
	})
	assert.Error(t, err)
}

func TestGateCheck(t *testing.T) {
	userID := uuid.New()

	t.Run("approved record exists", func(t *testing.T) {
		store := new(MockStore)
		store.On("LatestApproved", mock.Anything, userID).Return(&Record{Status: StatusApproved}, nil)

		ok, err := NewService(store).GateCheck(context.Background(), userID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("no approved record", func(t *testing.T) {
		store := new(MockStore)
		store.On("LatestApproved", mock.Anything, userID).Return(nil, ErrNotFound)

		ok, err := NewService(store).GateCheck(context.Background(), userID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
