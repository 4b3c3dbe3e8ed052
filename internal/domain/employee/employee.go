package employee

import "errors"

var ErrNotFound = errors.New("employee not found")

// Profile is the 1:1 employee record joined with its user identity.
type Profile struct {
	UserID         string `json:"user_id"`
	EmployeeCode   string `json:"employee_code"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	JobTitle       string `json:"job_title"`
	Department     string `json:"department"`
	DateOfJoining  string `json:"date_of_joining"`
	ProfilePicture string `json:"profile_picture"`
}

// Update carries the mutable profile attributes. Nil means "leave as is".
// The authorization guard decides which of these a caller may set; the
// repo applies whatever is non-nil.
type Update struct {
	FirstName      *string
	LastName       *string
	Phone          *string
	Address        *string
	JobTitle       *string
	Department     *string
	DateOfJoining  *string
	ProfilePicture *string
	Role           *string
}

// Stats is the on-demand directory aggregate (not cached).
type Stats struct {
	TotalEmployees int            `json:"total_employees"`
	PresentToday   int            `json:"present_today"`
	Departments    map[string]int `json:"departments"`
}
