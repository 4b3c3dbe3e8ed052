package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/geocoder89/hrhub/internal/domain/attendance"
	"github.com/geocoder89/hrhub/internal/domain/employee"
	"github.com/geocoder89/hrhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EmployeesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewEmployeesRepo(pool *pgxpool.Pool, prom *observability.Prom) *EmployeesRepo {
	return &EmployeesRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *EmployeesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

const profileColumns = `
	u.id,
	u.employee_code,
	u.email,
	u.role,
	e.first_name,
	e.last_name,
	e.phone,
	e.address,
	e.job_title,
	e.department,
	COALESCE(to_char(e.date_of_joining, 'YYYY-MM-DD'), '') AS date_of_joining,
	e.profile_picture
`

func scanProfile(row pgx.Row) (employee.Profile, error) {
	var p employee.Profile

	err := row.Scan(
		&p.UserID,
		&p.EmployeeCode,
		&p.Email,
		&p.Role,
		&p.FirstName,
		&p.LastName,
		&p.Phone,
		&p.Address,
		&p.JobTitle,
		&p.Department,
		&p.DateOfJoining,
		&p.ProfilePicture,
	)

	return p, err
}

func (r *EmployeesRepo) GetProfile(ctx context.Context, userID string) (employee.Profile, error) {
	var p employee.Profile
	var err error

	obsErr := r.observe("employees.get_profile", func() error {
		p, err = scanProfile(r.pool.QueryRow(ctx,
			`SELECT `+profileColumns+`
			FROM users u
			JOIN employees e ON e.user_id = u.id
			WHERE u.id = $1`,
			userID,
		))
		return err
	})

	if obsErr != nil {
		if errors.Is(obsErr, pgx.ErrNoRows) {
			return employee.Profile{}, employee.ErrNotFound
		}

		return employee.Profile{}, obsErr
	}

	return p, nil
}

func (r *EmployeesRepo) List(ctx context.Context) (profiles []employee.Profile, err error) {
	var rows pgx.Rows

	err = r.observe("employees.list", func() error {
		var e error
		rows, e = r.pool.Query(ctx,
			`SELECT `+profileColumns+`
			FROM users u
			JOIN employees e ON e.user_id = u.id
			ORDER BY e.first_name ASC, u.id ASC`,
		)
		return e
	})

	if err != nil {
		return
	}

	defer rows.Close()

	profiles = make([]employee.Profile, 0)

	for rows.Next() {
		p, scanErr := scanProfile(rows)

		if scanErr != nil {
			err = scanErr
			return
		}
		profiles = append(profiles, p)
	}

	err = rows.Err()

	return
}

// UpdateProfile applies the non-nil fields of upd. The handler has
// already filtered the set down to what the caller's role permits, so
// this just builds one UPDATE per touched table.
func (r *EmployeesRepo) UpdateProfile(ctx context.Context, userID string, upd employee.Update) (employee.Profile, error) {
	sets := []string{}
	args := []interface{}{userID}

	argsPosition := 2

	addSet := func(col string, val *string) {
		if val == nil {
			return
		}

		sets = append(sets, fmt.Sprintf("%s = $%d", col, argsPosition))
		args = append(args, *val)
		argsPosition++
	}

	addSet("first_name", upd.FirstName)
	addSet("last_name", upd.LastName)
	addSet("phone", upd.Phone)
	addSet("address", upd.Address)
	addSet("job_title", upd.JobTitle)
	addSet("department", upd.Department)
	addSet("profile_picture", upd.ProfilePicture)

	if upd.DateOfJoining != nil {
		sets = append(sets, fmt.Sprintf("date_of_joining = $%d::date", argsPosition))
		args = append(args, *upd.DateOfJoining)
		argsPosition++
	}

	if len(sets) > 0 {
		query := `UPDATE employees SET ` + strings.Join(sets, ", ") + ` WHERE user_id = $1`

		err := r.observe("employees.update_profile", func() error {
			tag, e := r.pool.Exec(ctx, query, args...)

			if e != nil {
				return e
			}

			if tag.RowsAffected() == 0 {
				return employee.ErrNotFound
			}

			return nil
		})

		if err != nil {
			return employee.Profile{}, err
		}
	}

	if upd.Role != nil {
		err := r.observe("employees.update_role", func() error {
			tag, e := r.pool.Exec(ctx, `UPDATE users SET role = $2 WHERE id = $1`, userID, *upd.Role)

			if e != nil {
				return e
			}

			if tag.RowsAffected() == 0 {
				return employee.ErrNotFound
			}

			return nil
		})

		if err != nil {
			return employee.Profile{}, err
		}
	}

	return r.GetProfile(ctx, userID)
}

// Stats computes the directory aggregate on demand: headcount,
// who checked in today, and per-department counts.
func (r *EmployeesRepo) Stats(ctx context.Context) (stats employee.Stats, err error) {
	stats.Departments = make(map[string]int)

	err = r.observe("employees.stats.total", func() error {
		return r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&stats.TotalEmployees)
	})

	if err != nil {
		return
	}

	err = r.observe("employees.stats.present_today", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM attendance
			WHERE date = CURRENT_DATE AND status IN ($1, $2)`,
			attendance.StatusPresent, attendance.StatusLate,
		).Scan(&stats.PresentToday)
	})

	if err != nil {
		return
	}

	var rows pgx.Rows

	err = r.observe("employees.stats.departments", func() error {
		var e error
		rows, e = r.pool.Query(ctx,
			`SELECT department, COUNT(*)
			FROM employees
			WHERE department <> ''
			GROUP BY department`,
		)
		return e
	})

	if err != nil {
		return
	}

	defer rows.Close()

	for rows.Next() {
		var dept string
		var count int

		if scanErr := rows.Scan(&dept, &count); scanErr != nil {
			err = scanErr
			return
		}
		stats.Departments[dept] = count
	}

	err = rows.Err()

	return
}
