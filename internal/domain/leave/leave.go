package leave

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	TypePaid   = "paid"
	TypeSick   = "sick"
	TypeUnpaid = "unpaid"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

var ErrNotFound = errors.New("leave request not found")

func ValidType(t string) bool {
	return t == TypePaid || t == TypeSick || t == TypeUnpaid
}

// ValidReviewStatus: an admin review can only approve or reject.
func ValidReviewStatus(s string) bool {
	return s == StatusApproved || s == StatusRejected
}

type Leave struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	LeaveType    string     `json:"leave_type"`
	StartDate    string     `json:"start_date"`
	EndDate      string     `json:"end_date"`
	Reason       string     `json:"reason"`
	Status       string     `json:"status"`
	AdminComment string     `json:"admin_comment"`
	AppliedAt    time.Time  `json:"applied_at"`
	ReviewedAt   *time.Time `json:"reviewed_at"`
}

// NewFromApplication builds a pending leave request for an employee.
func NewFromApplication(userID, leaveType, startDate, endDate, reason string, now time.Time) Leave {
	if leaveType == "" {
		leaveType = TypePaid
	}

	return Leave{
		ID:        uuid.NewString(),
		UserID:    userID,
		LeaveType: leaveType,
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    reason,
		Status:    StatusPending,
		AppliedAt: now.UTC(),
	}
}
