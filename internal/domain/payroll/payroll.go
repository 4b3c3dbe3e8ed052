package payroll

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthLayout labels one pay period, e.g. "2024-03".
const MonthLayout = "2006-01"

var ErrNotFound = errors.New("payroll record not found")

type Record struct {
	ID         string          `json:"-"`
	UserID     string          `json:"user_id,omitempty"`
	Month      string          `json:"month"`
	BaseSalary decimal.Decimal `json:"base_salary"`
	Allowances decimal.Decimal `json:"allowances"`
	Deductions decimal.Decimal `json:"deductions"`
	NetSalary  decimal.Decimal `json:"net_salary"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ComputeNet is the whole payroll calculation: base + allowances - deductions.
// No rounding and no floor; negative inputs pass through as-is.
func ComputeNet(base, allowances, deductions decimal.Decimal) decimal.Decimal {
	return base.Add(allowances).Sub(deductions)
}

// New builds the record for an upsert; net salary is always derived,
// never taken from the caller.
func New(userID, month string, base, allowances, deductions decimal.Decimal, now time.Time) Record {
	return Record{
		ID:         uuid.NewString(),
		UserID:     userID,
		Month:      month,
		BaseSalary: base,
		Allowances: allowances,
		Deductions: deductions,
		NetSalary:  ComputeNet(base, allowances, deductions),
		UpdatedAt:  now.UTC(),
	}
}
