package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/hrsoft/internal/directory/domain"
	"github.com/aussiebroadwan/hrsoft/internal/directory/store"
)

type employeesRepo struct {
	db dbtx
}

const employeeColumns = `id, employee_number, first_name, last_name, email, phone, date_of_birth, address,
	department_id, position, hire_date, salary_cents, manager_id, is_active, created_at, updated_at`

var employeeUnique = map[string]error{
	"employees.employee_number": store.ErrEmployeeNumberExists,
	"employees.email":           store.ErrEmployeeEmailExists,
}

func scanEmployee(row rowScanner) (domain.Employee, error) {
	var (
		e             domain.Employee
		dob, hire     sql.NullString
		dept, manager sql.NullString
		salary        sql.NullInt64
	)
	err := row.Scan(
		&e.ID, &e.EmployeeNumber, &e.FirstName, &e.LastName, &e.Email, &e.Phone, &dob, &e.Address,
		&dept, &e.Position, &hire, &salary, &manager, &e.Active, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return domain.Employee{}, mapNotFound(err)
	}

	if e.DateOfBirth, err = datePtr(dob); err != nil {
		return domain.Employee{}, fmt.Errorf("employee %s date_of_birth: %w", e.ID, err)
	}
	if e.HireDate, err = datePtr(hire); err != nil {
		return domain.Employee{}, fmt.Errorf("employee %s hire_date: %w", e.ID, err)
	}
	e.DepartmentID = stringPtr(dept)
	e.ManagerID = stringPtr(manager)
	e.SalaryCents = intPtr(salary)
	return e, nil
}

func (r *employeesRepo) CreateEmployee(ctx context.Context, e domain.Employee) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO employees (`+employeeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.EmployeeNumber, e.FirstName, e.LastName, e.Email, e.Phone, nullDate(e.DateOfBirth), e.Address,
		nullString(e.DepartmentID), e.Position, nullDate(e.HireDate), nullInt(e.SalaryCents), nullString(e.ManagerID),
		e.Active, now, now,
	)
	return mapWriteError(err, employeeUnique)
}

func (r *employeesRepo) GetEmployee(ctx context.Context, id string) (domain.Employee, error) {
	return scanEmployee(r.db.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id))
}

// likeEscaper makes user input literal inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *employeesRepo) ListEmployees(ctx context.Context, f domain.EmployeeFilter) ([]domain.Employee, int, error) {
	var (
		where []string
		args  []any
	)
	if f.DepartmentID != "" {
		where = append(where, `department_id = ?`)
		args = append(args, f.DepartmentID)
	}
	if f.Active != nil {
		where = append(where, `is_active = ?`)
		args = append(args, *f.Active)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		// LIKE is case-insensitive for ASCII in sqlite.
		pattern := "%" + likeEscaper.Replace(s) + "%"
		where = append(where, `(first_name LIKE ? ESCAPE '\' OR last_name LIKE ? ESCAPE '\'
			OR email LIKE ? ESCAPE '\' OR employee_number LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern, pattern)
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+employeeColumns+` FROM employees`+clause+
			` ORDER BY last_name, first_name, id LIMIT ? OFFSET ?`,
		append(args, f.PageSize, f.Offset())...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []domain.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *employeesRepo) UpdateEmployee(ctx context.Context, e domain.Employee) error {
	err := execOne(ctx, r.db,
		`UPDATE employees SET first_name = ?, last_name = ?, email = ?, phone = ?, date_of_birth = ?, address = ?,
			department_id = ?, position = ?, hire_date = ?, salary_cents = ?, manager_id = ?, is_active = ?, updated_at = ?
		 WHERE id = ?`,
		e.FirstName, e.LastName, e.Email, e.Phone, nullDate(e.DateOfBirth), e.Address,
		nullString(e.DepartmentID), e.Position, nullDate(e.HireDate), nullInt(e.SalaryCents), nullString(e.ManagerID),
		e.Active, time.Now().UTC(), e.ID,
	)
	return mapWriteError(err, employeeUnique)
}

var _ store.Employees = (*employeesRepo)(nil)
