package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/hrhub/internal/authz"
	"github.com/geocoder89/hrhub/internal/config"
	"github.com/geocoder89/hrhub/internal/domain/payroll"
	"github.com/geocoder89/hrhub/internal/domain/user"
	"github.com/geocoder89/hrhub/internal/http/middlewares"
	"github.com/geocoder89/hrhub/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PayrollStore interface {
	Upsert(ctx context.Context, rec payroll.Record) (payroll.Record, error)
	GetForMonth(ctx context.Context, userID, month string) (payroll.Record, error)
	MonthsForUser(ctx context.Context, userID string) ([]string, error)
	ListByMonth(ctx context.Context, month string) ([]postgres.PayrollEntry, error)
	HistoryForUser(ctx context.Context, userID string) ([]payroll.Record, string, error)
	Delete(ctx context.Context, userID, month string) error
}

type UserGetter interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type PayrollHandler struct {
	store PayrollStore
	users UserGetter
}

func NewPayrollHandler(store PayrollStore, users UserGetter) *PayrollHandler {
	return &PayrollHandler{
		store: store,
		users: users,
	}
}

type UpsertPayrollRequest struct {
	BaseSalary decimal.Decimal `json:"base_salary" binding:"required"`
	Allowances decimal.Decimal `json:"allowances"`
	Deductions decimal.Decimal `json:"deductions"`
	Month      string          `json:"month" binding:"omitempty,datetime=2006-01"`
}

func currentMonth() string {
	return time.Now().Format(payroll.MonthLayout)
}

// GET /payroll/my-salary?month=YYYY-MM
func (h *PayrollHandler) MySalary(ctx *gin.Context) {
	caller, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	month := ctx.Query("month")

	if month == "" {
		month = currentMonth()
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	months, err := h.store.MonthsForUser(cctx, caller.UserID)

	if err != nil {
		RespondInternal(ctx, "Could not fetch salary")
		return
	}

	rec, err := h.store.GetForMonth(cctx, caller.UserID, month)

	if err != nil {
		if errors.Is(err, payroll.ErrNotFound) {
			// not an error: just no record for that period yet
			ctx.JSON(http.StatusOK, gin.H{
				"success":          true,
				"salary":           nil,
				"message":          "No salary record found for this month",
				"available_months": months,
			})
			return
		}
		RespondInternal(ctx, "Could not fetch salary")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":          true,
		"salary":           rec,
		"available_months": months,
	})
}

// GET /payroll/all?month=YYYY-MM (admin)
func (h *PayrollHandler) ListByMonth(ctx *gin.Context) {
	month := ctx.Query("month")

	if month == "" {
		month = currentMonth()
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	entries, err := h.store.ListByMonth(cctx, month)

	if err != nil {
		RespondInternal(ctx, "Could not list payroll")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"payroll": entries,
		"month":   month,
	})
}

// GET /payroll/employee/:id (admin)
func (h *PayrollHandler) EmployeeHistory(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	records, name, err := h.store.HistoryForUser(cctx, ctx.Param("id"))

	if err != nil {
		if errors.Is(err, payroll.ErrNotFound) {
			RespondNotFound(ctx, "Employee not found")
			return
		}
		RespondInternal(ctx, "Could not fetch payroll history")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":       true,
		"employee_name": name,
		"payroll":       records,
	})
}

// POST|PUT /payroll/update/:id (admin)
func (h *PayrollHandler) Upsert(ctx *gin.Context) {
	caller, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	// payroll writes are admin-only regardless of routing
	if err := authz.RequireAdmin(caller); err != nil {
		RespondForbidden(ctx, "Unauthorized access")
		return
	}

	var req UpsertPayrollRequest

	if !BindJSON(ctx, &req) {
		return
	}

	month := req.Month

	if month == "" {
		month = currentMonth()
	}

	targetID := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if _, err := h.users.GetByID(cctx, targetID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "Employee not found")
			return
		}
		RespondInternal(ctx, "Could not update payroll")
		return
	}

	rec := payroll.New(targetID, month, req.BaseSalary, req.Allowances, req.Deductions, time.Now())

	stored, err := h.store.Upsert(cctx, rec)

	if err != nil {
		RespondInternal(ctx, "Could not update payroll")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payroll saved",
		"payroll": stored,
	})
}

// DELETE /payroll/delete/:id/:month (admin)
func (h *PayrollHandler) Delete(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.store.Delete(cctx, ctx.Param("id"), ctx.Param("month"))

	if err != nil {
		if errors.Is(err, payroll.ErrNotFound) {
			RespondNotFound(ctx, "Payroll record not found")
			return
		}
		RespondInternal(ctx, "Could not delete payroll")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payroll record deleted",
	})
}
