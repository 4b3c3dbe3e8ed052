package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/hrhub/internal/domain/attendance"
	"github.com/geocoder89/hrhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AttendanceRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewAttendanceRepo(pool *pgxpool.Pool, prom *observability.Prom) *AttendanceRepo {
	return &AttendanceRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *AttendanceRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

// CheckIn inserts the day's record. The (user_id, date) unique
// constraint is the backstop against concurrent duplicate check-ins; a
// second insert for the same day comes back as ErrAlreadyCheckedIn.
func (r *AttendanceRepo) CheckIn(ctx context.Context, rec attendance.Record) (err error) {
	err = r.observe("attendance.check_in", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO attendance (id, user_id, date, check_in, status)
			VALUES ($1, $2, $3::date, $4, $5)`,
			rec.ID, rec.UserID, rec.Date, rec.CheckIn, rec.Status,
		)
		return e
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "attendance_user_date_uniq" {
			err = attendance.ErrAlreadyCheckedIn
			return
		}
		return
	}

	return
}

// CheckOut stamps the check-out time on the day's record; there must
// already be a check-in for that date.
func (r *AttendanceRepo) CheckOut(ctx context.Context, userID, date, checkOut string) (err error) {
	var tag pgconn.CommandTag

	err = r.observe("attendance.check_out", func() error {
		var e error
		tag, e = r.pool.Exec(ctx,
			`UPDATE attendance SET check_out = $3 WHERE user_id = $1 AND date = $2::date`,
			userID, date, checkOut,
		)
		return e
	})

	if err != nil {
		return
	}

	if tag.RowsAffected() == 0 {
		err = attendance.ErrNotFound

		return
	}

	return
}

const attendanceColumns = `
	id,
	user_id,
	to_char(date, 'YYYY-MM-DD') AS date,
	check_in,
	check_out,
	status
`

func scanAttendance(rows pgx.Rows) ([]attendance.Record, error) {
	out := make([]attendance.Record, 0)

	for rows.Next() {
		var rec attendance.Record

		err := rows.Scan(&rec.ID, &rec.UserID, &rec.Date, &rec.CheckIn, &rec.CheckOut, &rec.Status)

		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	return out, rows.Err()
}

// ListByUser returns a user's history, optionally narrowed to one
// month label ("YYYY-MM").
func (r *AttendanceRepo) ListByUser(ctx context.Context, userID, month string) (records []attendance.Record, err error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance WHERE user_id = $1`
	args := []interface{}{userID}

	if month != "" {
		query += ` AND to_char(date, 'YYYY-MM') = $2`
		args = append(args, month)
	}

	query += ` ORDER BY date DESC`

	var rows pgx.Rows

	err = r.observe("attendance.list_by_user", func() error {
		var e error
		rows, e = r.pool.Query(ctx, query, args...)
		return e
	})

	if err != nil {
		return
	}

	defer rows.Close()

	records, err = scanAttendance(rows)

	return
}

// ListByDate returns every record for one calendar day (admin view).
func (r *AttendanceRepo) ListByDate(ctx context.Context, date string) (records []attendance.Record, err error) {
	var rows pgx.Rows

	err = r.observe("attendance.list_by_date", func() error {
		var e error
		rows, e = r.pool.Query(ctx,
			`SELECT `+attendanceColumns+` FROM attendance WHERE date = $1::date ORDER BY check_in ASC`,
			date,
		)
		return e
	})

	if err != nil {
		return
	}

	defer rows.Close()

	records, err = scanAttendance(rows)

	return
}
