package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/hrhub/internal/authz"
	"github.com/geocoder89/hrhub/internal/config"
	"github.com/geocoder89/hrhub/internal/domain/employee"
	"github.com/geocoder89/hrhub/internal/domain/user"
	"github.com/geocoder89/hrhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (employee.Profile, error)
	List(ctx context.Context) ([]employee.Profile, error)
	UpdateProfile(ctx context.Context, userID string, upd employee.Update) (employee.Profile, error)
	Stats(ctx context.Context) (employee.Stats, error)
}

type UserDeleter interface {
	Delete(ctx context.Context, id string) error
}

type EmployeesHandler struct {
	profiles ProfileStore
	users    UserDeleter
}

func NewEmployeesHandler(profiles ProfileStore, users UserDeleter) *EmployeesHandler {
	return &EmployeesHandler{
		profiles: profiles,
		users:    users,
	}
}

// UpdateProfileRequest covers the full mutable attribute set; the
// authorization guard decides per caller which fields actually apply.
type UpdateProfileRequest struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
	JobTitle       *string `json:"job_title"`
	Department     *string `json:"department"`
	DateOfJoining  *string `json:"date_of_joining" binding:"omitempty,datetime=2006-01-02"`
	ProfilePicture *string `json:"profile_picture"`
	Role           *string `json:"role"`
}

// toUpdate filters the request down to what the caller's role may
// touch. Disallowed fields are dropped, not errored, matching the
// whitelist semantics of the profile endpoint.
func (req UpdateProfileRequest) toUpdate(caller authz.Identity) employee.Update {
	var upd employee.Update

	allow := func(field string, src *string, dst **string) {
		if src == nil {
			return
		}

		if !authz.ProfileFieldAllowed(caller, field) {
			return
		}

		*dst = src
	}

	allow("first_name", req.FirstName, &upd.FirstName)
	allow("last_name", req.LastName, &upd.LastName)
	allow("phone", req.Phone, &upd.Phone)
	allow("address", req.Address, &upd.Address)
	allow("job_title", req.JobTitle, &upd.JobTitle)
	allow("department", req.Department, &upd.Department)
	allow("date_of_joining", req.DateOfJoining, &upd.DateOfJoining)
	allow("profile_picture", req.ProfilePicture, &upd.ProfilePicture)

	if req.Role != nil && authz.ProfileFieldAllowed(caller, "role") {
		if user.ValidRole(*req.Role) {
			upd.Role = req.Role
		} else {
			// bad role value is a no-op on that field, not an error
			slog.Default().Warn("ignoring invalid role value in profile update", "role", *req.Role)
		}
	}

	return upd
}

// GET /employee/profile
func (h *EmployeesHandler) GetMyProfile(ctx *gin.Context) {
	caller, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	profile, err := h.profiles.GetProfile(cctx, caller.UserID)

	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			RespondNotFound(ctx, "Employee not found")
			return
		}
		RespondInternal(ctx, "Could not fetch profile")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"profile": profile,
	})
}

// PUT /employee/profile
func (h *EmployeesHandler) UpdateMyProfile(ctx *gin.Context) {
	caller, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	var req UpdateProfileRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	profile, err := h.profiles.UpdateProfile(cctx, caller.UserID, req.toUpdate(caller))

	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			RespondNotFound(ctx, "Employee not found")
			return
		}
		RespondInternal(ctx, "Could not update profile")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"profile": profile,
	})
}

// GET /employee/all (admin)
func (h *EmployeesHandler) ListEmployees(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	employees, err := h.profiles.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list employees")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":   true,
		"employees": employees,
		"count":     len(employees),
	})
}

// GET /employee/:id (admin, or the employee themselves)
func (h *EmployeesHandler) GetEmployee(ctx *gin.Context) {
	caller, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	targetID := ctx.Param("id")

	if !authz.CanAccessUser(caller, targetID) {
		RespondForbidden(ctx, "Unauthorized access")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	profile, err := h.profiles.GetProfile(cctx, targetID)

	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			RespondNotFound(ctx, "Employee not found")
			return
		}
		RespondInternal(ctx, "Could not fetch employee")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":  true,
		"employee": profile,
	})
}

// PUT /employee/:id (admin)
func (h *EmployeesHandler) UpdateEmployee(ctx *gin.Context) {
	caller, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	var req UpdateProfileRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	profile, err := h.profiles.UpdateProfile(cctx, ctx.Param("id"), req.toUpdate(caller))

	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			RespondNotFound(ctx, "Employee not found")
			return
		}
		RespondInternal(ctx, "Could not update employee")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Employee updated",
		"employee": profile,
	})
}

// DELETE /employee/:id (admin, never self)
func (h *EmployeesHandler) DeleteEmployee(ctx *gin.Context) {
	caller, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	targetID := ctx.Param("id")

	if err := authz.CanDeleteUser(caller, targetID); err != nil {
		if errors.Is(err, authz.ErrSelfDelete) {
			RespondForbidden(ctx, "Cannot delete your own account")
			return
		}
		RespondForbidden(ctx, "Unauthorized access")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.users.Delete(cctx, targetID)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "Employee not found")
			return
		}
		RespondInternal(ctx, "Could not delete employee")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Employee deleted",
	})
}

// GET /employee/stats (admin)
func (h *EmployeesHandler) GetStats(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	stats, err := h.profiles.Stats(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not compute stats")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}
