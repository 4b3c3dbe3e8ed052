package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/hrhub/internal/authz"
	"github.com/geocoder89/hrhub/internal/config"
	"github.com/geocoder89/hrhub/internal/domain/attendance"
	"github.com/geocoder89/hrhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type AttendanceStore interface {
	CheckIn(ctx context.Context, rec attendance.Record) error
	CheckOut(ctx context.Context, userID, date, checkOut string) error
	ListByUser(ctx context.Context, userID, month string) ([]attendance.Record, error)
	ListByDate(ctx context.Context, date string) ([]attendance.Record, error)
}

type AttendanceHandler struct {
	store AttendanceStore

	// injectable clock so the late-threshold path is testable
	now func() time.Time
}

func NewAttendanceHandler(store AttendanceStore) *AttendanceHandler {
	return &AttendanceHandler{
		store: store,
		now:   time.Now,
	}
}

type CheckInRequest struct {
	UserID string `json:"user_id"`
}

type CheckOutRequest struct {
	UserID string `json:"user_id"`
	Date   string `json:"date" binding:"required,datetime=2006-01-02"`
}

// POST /attendance/checkin
func (h *AttendanceHandler) CheckIn(ctx *gin.Context) {
	caller, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	var req CheckInRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// default to the caller; admins may check in someone else
	userID := req.UserID

	if userID == "" {
		userID = caller.UserID
	}

	if !authz.CanAccessUser(caller, userID) {
		RespondForbidden(ctx, "Unauthorized access")
		return
	}

	rec := attendance.NewCheckIn(userID, h.now())

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.store.CheckIn(cctx, rec)

	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			RespondConflict(ctx, "Already checked in for today")
			return
		}
		RespondInternal(ctx, "Could not record check-in")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Checked in",
		"status":  rec.Status,
	})
}

// POST /attendance/checkout
func (h *AttendanceHandler) CheckOut(ctx *gin.Context) {
	caller, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	var req CheckOutRequest

	if !BindJSON(ctx, &req) {
		return
	}

	userID := req.UserID

	if userID == "" {
		userID = caller.UserID
	}

	if !authz.CanAccessUser(caller, userID) {
		RespondForbidden(ctx, "Unauthorized access")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.store.CheckOut(cctx, userID, req.Date, h.now().Format(attendance.TimeLayout))

	if err != nil {
		if errors.Is(err, attendance.ErrNotFound) {
			RespondNotFound(ctx, "No check-in record found for this date")
			return
		}
		RespondInternal(ctx, "Could not record check-out")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Checked out",
	})
}

// GET /attendance/my?month=YYYY-MM
func (h *AttendanceHandler) ListMine(ctx *gin.Context) {
	caller, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	records, err := h.store.ListByUser(cctx, caller.UserID, ctx.Query("month"))

	if err != nil {
		RespondInternal(ctx, "Could not list attendance")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"records": records,
	})
}

// GET /attendance/all?date=YYYY-MM-DD (admin)
func (h *AttendanceHandler) ListByDate(ctx *gin.Context) {
	date := ctx.Query("date")

	if date == "" {
		date = h.now().Format(attendance.DateLayout)
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	records, err := h.store.ListByDate(cctx, date)

	if err != nil {
		RespondInternal(ctx, "Could not list attendance")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"records": records,
		"date":    date,
	})
}
