package payroll_test

import (
	"testing"
	"time"

	"github.com/geocoder89/hrhub/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeNet(t *testing.T) {
	tests := []struct {
		name       string
		base       string
		allowances string
		deductions string
		want       string
	}{
		{name: "typical", base: "50000", allowances: "2000", deductions: "500", want: "51500"},
		{name: "zero_extras", base: "30000", allowances: "0", deductions: "0", want: "30000"},
		{name: "deductions_exceed_income", base: "1000", allowances: "0", deductions: "1500", want: "-500"},
		{name: "fractional_cents", base: "1000.50", allowances: "0.25", deductions: "0.75", want: "1000"},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			got := payroll.ComputeNet(d(tt.base), d(tt.allowances), d(tt.deductions))

			assert.True(t, got.Equal(d(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestNewDerivesNetSalary(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rec := payroll.New("user-1", "2025-06", d("50000"), d("2000"), d("500"), now)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "user-1", rec.UserID)
	assert.Equal(t, "2025-06", rec.Month)
	assert.True(t, rec.NetSalary.Equal(d("51500")))
	assert.Equal(t, now, rec.UpdatedAt)
}
