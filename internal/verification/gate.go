package verification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Store is the persistence surface for verification records.
type Store interface {
	Insert(ctx context.Context, rec *Record) error
	LatestApproved(ctx context.Context, userID uuid.UUID) (*Record, error)
}

// Service is the document verification gate: bookings may only be confirmed
// for users it reports approved.
type Service struct {
	store Store
	clock func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, clock: time.Now}
}

type Decision string

const (
	DecisionApprove Decision = "approved"
	DecisionReject  Decision = "rejected"
)

type SubmitInput struct {
	UserID        uuid.UUID
	BookingID     *int64
	DocumentType  string
	DocumentData  map[string]string
	Decision      Decision
	ReviewMessage string
}

// Submit records one verification attempt. Approval requires the document data
// to satisfy the type's full schema; rejection is recorded as-is so the review
// message can explain what was wrong.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*Record, error) {
	docType, err := ParseDocumentType(in.DocumentType)
	if err != nil {
		return nil, err
	}

	var status VerificationStatus
	switch in.Decision {
	case DecisionApprove:
		status = StatusApproved
	case DecisionReject:
		status = StatusRejected
	default:
		return nil, fmt.Errorf("unknown decision: %s", in.Decision)
	}

	if status == StatusApproved {
		if err := ValidateData(docType, in.DocumentData); err != nil {
			return nil, err
		}
	}

	now := s.clock()
	rec := &Record{
		ID:            uuid.New(),
		UserID:        in.UserID,
		BookingID:     in.BookingID,
		DocumentType:  docType,
		DocumentData:  in.DocumentData,
		Status:        status,
		ReviewMessage: in.ReviewMessage,
		CreatedAt:     now,
	}
	if status == StatusApproved {
		rec.VerifiedAt = &now
	}

	if err := s.store.Insert(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// LatestApproved returns the most recent approved record for reuse across
// bookings ("use existing document"), or ErrNotFound.
func (s *Service) LatestApproved(ctx context.Context, userID uuid.UUID) (*Record, error) {
	return s.store.LatestApproved(ctx, userID)
}

// GateCheck satisfies booking.Gate.
func (s *Service) GateCheck(ctx context.Context, userID uuid.UUID) (bool, error) {
	_, err := s.store.LatestApproved(ctx, userID)
	if err != nil {
		if err == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
