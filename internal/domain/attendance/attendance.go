package attendance

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent = "present"
	StatusLate    = "late"
	StatusAbsent  = "absent"
	StatusHalfDay = "half_day"
	StatusLeave   = "leave"
)

// LateHour is the fixed check-in threshold: checking in at or after
// this local hour counts as late.
const LateHour = 9

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	ErrNotFound         = errors.New("attendance record not found")
	ErrAlreadyCheckedIn = errors.New("already checked in for today")
)

type Record struct {
	ID       string  `json:"id"`
	UserID   string  `json:"user_id"`
	Date     string  `json:"date"`
	CheckIn  string  `json:"check_in"`
	CheckOut *string `json:"check_out"`
	Status   string  `json:"status"`
}

// StatusForHour derives the check-in status from the local wall-clock hour.
func StatusForHour(hour int) string {
	if hour < LateHour {
		return StatusPresent
	}

	return StatusLate
}

// NewCheckIn builds the attendance record for a check-in happening at now.
func NewCheckIn(userID string, now time.Time) Record {
	return Record{
		ID:      uuid.NewString(),
		UserID:  userID,
		Date:    now.Format(DateLayout),
		CheckIn: now.Format(TimeLayout),
		Status:  StatusForHour(now.Hour()),
	}
}
