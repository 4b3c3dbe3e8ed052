package postgres

import (
	"context"
	"time"

	"github.com/geocoder89/hrhub/internal/domain/leave"
	"github.com/geocoder89/hrhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LeavesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewLeavesRepo(pool *pgxpool.Pool, prom *observability.Prom) *LeavesRepo {
	return &LeavesRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *LeavesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *LeavesRepo) Create(ctx context.Context, l leave.Leave) (err error) {
	err = r.observe("leaves.create", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO leaves (id, user_id, leave_type, start_date, end_date, reason, status, applied_at)
			VALUES ($1, $2, $3, $4::date, $5::date, $6, $7, $8)`,
			l.ID, l.UserID, l.LeaveType, l.StartDate, l.EndDate, l.Reason, l.Status, l.AppliedAt,
		)
		return e
	})

	return
}

const leaveColumns = `
	id,
	user_id,
	leave_type,
	to_char(start_date, 'YYYY-MM-DD') AS start_date,
	to_char(end_date, 'YYYY-MM-DD') AS end_date,
	reason,
	status,
	admin_comment,
	applied_at,
	reviewed_at
`

func scanLeaves(rows pgx.Rows) ([]leave.Leave, error) {
	out := make([]leave.Leave, 0)

	for rows.Next() {
		var l leave.Leave

		err := rows.Scan(
			&l.ID,
			&l.UserID,
			&l.LeaveType,
			&l.StartDate,
			&l.EndDate,
			&l.Reason,
			&l.Status,
			&l.AdminComment,
			&l.AppliedAt,
			&l.ReviewedAt,
		)

		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}

	return out, rows.Err()
}

func (r *LeavesRepo) ListByUser(ctx context.Context, userID string) (leaves []leave.Leave, err error) {
	var rows pgx.Rows

	err = r.observe("leaves.list_by_user", func() error {
		var e error
		rows, e = r.pool.Query(ctx,
			`SELECT `+leaveColumns+` FROM leaves WHERE user_id = $1 ORDER BY applied_at DESC`,
			userID,
		)
		return e
	})

	if err != nil {
		return
	}

	defer rows.Close()

	leaves, err = scanLeaves(rows)

	return
}

func (r *LeavesRepo) ListAll(ctx context.Context) (leaves []leave.Leave, err error) {
	var rows pgx.Rows

	err = r.observe("leaves.list_all", func() error {
		var e error
		rows, e = r.pool.Query(ctx,
			`SELECT `+leaveColumns+` FROM leaves ORDER BY applied_at DESC`,
		)
		return e
	})

	if err != nil {
		return
	}

	defer rows.Close()

	leaves, err = scanLeaves(rows)

	return
}

// Review records the admin decision. Only pending fields move; the
// reviewed timestamp is stamped here.
func (r *LeavesRepo) Review(ctx context.Context, id, status, comment string, reviewedAt time.Time) (err error) {
	var tag pgconn.CommandTag

	err = r.observe("leaves.review", func() error {
		var e error
		tag, e = r.pool.Exec(ctx,
			`UPDATE leaves SET status = $2, admin_comment = $3, reviewed_at = $4 WHERE id = $1`,
			id, status, comment, reviewedAt,
		)
		return e
	})

	if err != nil {
		return
	}

	if tag.RowsAffected() == 0 {
		err = leave.ErrNotFound

		return
	}

	return
}
