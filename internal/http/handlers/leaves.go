package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/hrhub/internal/config"
	"github.com/geocoder89/hrhub/internal/domain/leave"
	"github.com/geocoder89/hrhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type LeaveStore interface {
	Create(ctx context.Context, l leave.Leave) error
	ListByUser(ctx context.Context, userID string) ([]leave.Leave, error)
	ListAll(ctx context.Context) ([]leave.Leave, error)
	Review(ctx context.Context, id, status, comment string, reviewedAt time.Time) error
}

type LeavesHandler struct {
	store LeaveStore
}

func NewLeavesHandler(store LeaveStore) *LeavesHandler {
	return &LeavesHandler{store: store}
}

type ApplyLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"omitempty,oneof=paid sick unpaid"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" binding:"required"`
}

type ReviewLeaveRequest struct {
	Status       string `json:"status" binding:"required,oneof=approved rejected"`
	AdminComment string `json:"admin_comment"`
}

// POST /leave/leaves
func (h *LeavesHandler) Apply(ctx *gin.Context) {
	caller, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	var req ApplyLeaveRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if req.EndDate < req.StartDate {
		RespondBadRequest(ctx, "end_date must not be before start_date")
		return
	}

	l := leave.NewFromApplication(caller.UserID, req.LeaveType, req.StartDate, req.EndDate, req.Reason, time.Now())

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if err := h.store.Create(cctx, l); err != nil {
		RespondInternal(ctx, "Could not apply for leave")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Leave applied",
	})
}

// GET /leave/leaves: own requests for employees, everything for admins.
func (h *LeavesHandler) List(ctx *gin.Context) {
	caller, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	var leaves []leave.Leave
	var err error

	if caller.IsAdmin() {
		leaves, err = h.store.ListAll(cctx)
	} else {
		leaves, err = h.store.ListByUser(cctx, caller.UserID)
	}

	if err != nil {
		RespondInternal(ctx, "Could not list leave requests")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"leaves":  leaves,
	})
}

// PUT /leave/:id/review (admin)
func (h *LeavesHandler) Review(ctx *gin.Context) {
	var req ReviewLeaveRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.store.Review(cctx, ctx.Param("id"), req.Status, req.AdminComment, time.Now().UTC())

	if err != nil {
		if errors.Is(err, leave.ErrNotFound) {
			RespondNotFound(ctx, "Leave request not found")
			return
		}
		RespondInternal(ctx, "Could not review leave request")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Leave " + req.Status,
	})
}
