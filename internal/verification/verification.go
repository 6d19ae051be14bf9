package verification

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type VerificationStatus string

const (
	StatusInProgress VerificationStatus = "in_progress"
	StatusApproved   VerificationStatus = "approved"
	StatusRejected   VerificationStatus = "rejected"
)

type Record struct {
	ID            uuid.UUID          `json:"id"`
	UserID        uuid.UUID          `json:"userId"`
	BookingID     *int64             `json:"bookingId,omitempty"`
	DocumentType  DocumentType       `json:"documentType"`
	DocumentData  map[string]string  `json:"documentData"`
	Status        VerificationStatus `json:"status"`
	ReviewMessage string             `json:"reviewMessage,omitempty"`
	VerifiedAt    *time.Time         `json:"verifiedAt,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// ValidationError carries the full list of missing required fields so the
// admin form can mark every one of them at once.
type ValidationError struct {
	DocumentType DocumentType
	Missing      []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: missing required fields: %s", e.DocumentType, strings.Join(e.Missing, ", "))
}

var ErrNotFound = errors.New("verification record not found")
