package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/geocoder89/hrhub/internal/config"
	"github.com/geocoder89/hrhub/internal/domain/user"
	"github.com/geocoder89/hrhub/internal/security"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureAdminUser seeds the bootstrap admin account (user + empty
// profile) from config. A no-op when the email already exists or the
// seed credentials are unset.
func EnsureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	// check if the user exists

	var dummy string

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, cfg.AdminEmail).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return err
	}

	now := time.Now().UTC()
	id := uuid.NewString()

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})

	if err != nil {
		return err
	}

	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO users (id, employee_code, email, password_hash, role, created_at)
		VALUES ($1, 'EMP-' || lpad(nextval('employee_code_seq')::text, 4, '0'), $2, $3, $4, $5)
		`,
		id, cfg.AdminEmail, hash, user.RoleAdmin, now,
	)

	if err != nil {
		return err
	}

	first, last := splitName(cfg.AdminName)

	_, err = tx.Exec(ctx,
		`INSERT INTO employees (user_id, first_name, last_name, job_title, department, date_of_joining)
		VALUES ($1, $2, $3, 'Administrator', 'Management', $4)
		`,
		id, first, last, now,
	)

	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)

	if len(parts) == 0 {
		return "", ""
	}

	return parts[0], strings.Join(parts[1:], " ")
}
