package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/hrhub/internal/domain/user"
	"github.com/geocoder89/hrhub/internal/observability"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

// Create inserts the identity row and its empty employee profile in one
// transaction, so a half-registered user can never exist.
func (r *UsersRepo) Create(ctx context.Context, email, passwordHash, firstName, lastName, role string) (u user.User, err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})

	if err != nil {
		return
	}

	defer func() { _ = tx.Rollback(ctx) }()

	u = user.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	err = r.observe("users.create.insert_user", func() error {
		return tx.QueryRow(ctx,
			`INSERT INTO users (id, employee_code, email, password_hash, role, created_at)
			VALUES ($1, 'EMP-' || lpad(nextval('employee_code_seq')::text, 4, '0'), $2, $3, $4, $5)
			RETURNING employee_code`,
			u.ID, u.Email, u.PasswordHash, u.Role, u.CreatedAt,
		).Scan(&u.EmployeeCode)
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			err = user.ErrEmailTaken
		}
		return
	}

	err = r.observe("users.create.insert_profile", func() error {
		_, e := tx.Exec(ctx,
			`INSERT INTO employees (user_id, first_name, last_name, date_of_joining)
			VALUES ($1, $2, $3, CURRENT_DATE)`,
			u.ID, firstName, lastName,
		)
		return e
	})

	if err != nil {
		return
	}

	err = tx.Commit(ctx)

	return
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_email", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, employee_code, email, password_hash, role, created_at
			FROM users
			WHERE email = $1`,
			email,
		).Scan(
			&u.ID,
			&u.EmployeeCode,
			&u.Email,
			&u.PasswordHash,
			&u.Role,
			&u.CreatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_id", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, employee_code, email, password_hash, role, created_at
			FROM users
			WHERE id = $1`,
			id,
		).Scan(
			&u.ID,
			&u.EmployeeCode,
			&u.Email,
			&u.PasswordHash,
			&u.Role,
			&u.CreatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

// Delete removes a user; profile, attendance, leave and payroll rows go
// with it via ON DELETE CASCADE.
func (r *UsersRepo) Delete(ctx context.Context, id string) (err error) {
	var tag pgconn.CommandTag

	err = r.observe("users.delete", func() error {
		var e error
		tag, e = r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)

		return e
	})

	if err != nil {
		return
	}

	if tag.RowsAffected() == 0 {
		err = user.ErrNotFound

		return
	}

	return
}
