package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/hrhub/internal/domain/payroll"
	"github.com/geocoder89/hrhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PayrollRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewPayrollRepo(pool *pgxpool.Pool, prom *observability.Prom) *PayrollRepo {
	return &PayrollRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *PayrollRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

// PayrollEntry is one payroll line joined with employee identity, as
// served by the admin month listing.
type PayrollEntry struct {
	ID           string          `json:"id"`
	EmployeeCode string          `json:"employee_id"`
	Name         string          `json:"name"`
	Department   string          `json:"department"`
	JobTitle     string          `json:"job_title"`
	BaseSalary   decimal.Decimal `json:"base_salary"`
	Allowances   decimal.Decimal `json:"allowances"`
	Deductions   decimal.Decimal `json:"deductions"`
	NetSalary    decimal.Decimal `json:"net_salary"`
	Month        string          `json:"month"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Upsert creates or overwrites the (user, month) record in place. The
// unique constraint keeps concurrent upserts down to a single row.
func (r *PayrollRepo) Upsert(ctx context.Context, rec payroll.Record) (out payroll.Record, err error) {
	out = rec

	err = r.observe("payroll.upsert", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO payroll (id, user_id, month, base_salary, allowances, deductions, net_salary, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT ON CONSTRAINT payroll_user_month_uniq DO UPDATE
			SET base_salary = EXCLUDED.base_salary,
				allowances  = EXCLUDED.allowances,
				deductions  = EXCLUDED.deductions,
				net_salary  = EXCLUDED.net_salary,
				updated_at  = EXCLUDED.updated_at
			RETURNING id, updated_at`,
			rec.ID, rec.UserID, rec.Month, rec.BaseSalary, rec.Allowances, rec.Deductions, rec.NetSalary, rec.UpdatedAt,
		).Scan(&out.ID, &out.UpdatedAt)
	})

	return
}

func (r *PayrollRepo) GetForMonth(ctx context.Context, userID, month string) (payroll.Record, error) {
	var rec payroll.Record

	err := r.observe("payroll.get_for_month", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, user_id, month, base_salary, allowances, deductions, net_salary, updated_at
			FROM payroll
			WHERE user_id = $1 AND month = $2`,
			userID, month,
		).Scan(
			&rec.ID,
			&rec.UserID,
			&rec.Month,
			&rec.BaseSalary,
			&rec.Allowances,
			&rec.Deductions,
			&rec.NetSalary,
			&rec.UpdatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Record{}, payroll.ErrNotFound
		}

		return payroll.Record{}, err
	}

	return rec, nil
}

// MonthsForUser lists the pay periods a user has records for, newest first.
func (r *PayrollRepo) MonthsForUser(ctx context.Context, userID string) (months []string, err error) {
	var rows pgx.Rows

	err = r.observe("payroll.months_for_user", func() error {
		var e error
		rows, e = r.pool.Query(ctx,
			`SELECT month FROM payroll WHERE user_id = $1 ORDER BY month DESC`,
			userID,
		)
		return e
	})

	if err != nil {
		return
	}

	defer rows.Close()

	months = make([]string, 0)

	for rows.Next() {
		var m string

		if scanErr := rows.Scan(&m); scanErr != nil {
			err = scanErr
			return
		}
		months = append(months, m)
	}

	err = rows.Err()

	return
}

// ListByMonth is the admin month view: every employee's line for one period.
func (r *PayrollRepo) ListByMonth(ctx context.Context, month string) (entries []PayrollEntry, err error) {
	var rows pgx.Rows

	err = r.observe("payroll.list_by_month", func() error {
		var e error
		rows, e = r.pool.Query(ctx,
			`SELECT
				p.id, u.employee_code,
				e.first_name || ' ' || e.last_name AS name,
				e.department, e.job_title,
				p.base_salary, p.allowances, p.deductions, p.net_salary,
				p.month, p.updated_at
			FROM payroll p
			JOIN users u ON u.id = p.user_id
			JOIN employees e ON e.user_id = p.user_id
			WHERE p.month = $1
			ORDER BY e.first_name ASC`,
			month,
		)
		return e
	})

	if err != nil {
		return
	}

	defer rows.Close()

	entries = make([]PayrollEntry, 0)

	for rows.Next() {
		var en PayrollEntry

		scanErr := rows.Scan(
			&en.ID,
			&en.EmployeeCode,
			&en.Name,
			&en.Department,
			&en.JobTitle,
			&en.BaseSalary,
			&en.Allowances,
			&en.Deductions,
			&en.NetSalary,
			&en.Month,
			&en.UpdatedAt,
		)

		if scanErr != nil {
			err = scanErr
			return
		}
		entries = append(entries, en)
	}

	err = rows.Err()

	return
}

// HistoryForUser returns the user's full payroll history plus their
// display name (admin per-employee view).
func (r *PayrollRepo) HistoryForUser(ctx context.Context, userID string) (records []payroll.Record, name string, err error) {
	err = r.observe("payroll.history.name", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT first_name || ' ' || last_name FROM employees WHERE user_id = $1`,
			userID,
		).Scan(&name)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = payroll.ErrNotFound
		}
		return
	}

	var rows pgx.Rows

	err = r.observe("payroll.history.records", func() error {
		var e error
		rows, e = r.pool.Query(ctx,
			`SELECT id, user_id, month, base_salary, allowances, deductions, net_salary, updated_at
			FROM payroll
			WHERE user_id = $1
			ORDER BY month DESC`,
			userID,
		)
		return e
	})

	if err != nil {
		return
	}

	defer rows.Close()

	records = make([]payroll.Record, 0)

	for rows.Next() {
		var rec payroll.Record

		scanErr := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.Month,
			&rec.BaseSalary,
			&rec.Allowances,
			&rec.Deductions,
			&rec.NetSalary,
			&rec.UpdatedAt,
		)

		if scanErr != nil {
			err = scanErr
			return
		}
		records = append(records, rec)
	}

	err = rows.Err()

	return
}

// Delete reports not-found distinctly so the caller can tell
// found-and-deleted from nothing-to-delete.
func (r *PayrollRepo) Delete(ctx context.Context, userID, month string) (err error) {
	var tag pgconn.CommandTag

	err = r.observe("payroll.delete", func() error {
		var e error
		tag, e = r.pool.Exec(ctx, `DELETE FROM payroll WHERE user_id = $1 AND month = $2`, userID, month)

		return e
	})

	if err != nil {
		return
	}

	if tag.RowsAffected() == 0 {
		err = payroll.ErrNotFound

		return
	}

	return
}
