package authz

import "errors"

var (
	// role/ownership mismatch, maps to 403
	ErrForbidden = errors.New("unauthorized access")
	// admins may delete anyone but themselves
	ErrSelfDelete = errors.New("cannot delete your own account")
)

// Identity is the decoded caller identity, passed explicitly from the
// request boundary into every authorization decision.
type Identity struct {
	UserID string
	Role   string
}

func (i Identity) IsAdmin() bool {
	return i.Role == "admin"
}

// CanAccessUser reports whether the caller may read or act on the
// given user's resources: admins always, everyone else only on self.
func CanAccessUser(caller Identity, targetUserID string) bool {
	if caller.IsAdmin() {
		return true
	}

	return caller.UserID == targetUserID
}

// RequireAdmin is the gate for admin-only operations (role changes,
// employee deletion, payroll writes, cross-employee reads).
func RequireAdmin(caller Identity) error {
	if !caller.IsAdmin() {
		return ErrForbidden
	}

	return nil
}

// CanDeleteUser: admin only, and explicitly never the admin's own account.
func CanDeleteUser(caller Identity, targetUserID string) error {
	if !caller.IsAdmin() {
		return ErrForbidden
	}

	if caller.UserID == targetUserID {
		return ErrSelfDelete
	}

	return nil
}

// employee-updatable profile attributes
var employeeProfileFields = map[string]bool{
	"phone":           true,
	"address":         true,
	"profile_picture": true,
}

// ProfileFieldAllowed reports whether a role may mutate the named
// profile attribute. Admins may touch the full set; employees only
// the contact subset.
func ProfileFieldAllowed(caller Identity, field string) bool {
	if caller.IsAdmin() {
		return true
	}

	return employeeProfileFields[field]
}
