package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/hrsoft/internal/directory/domain"
	"github.com/aussiebroadwan/hrsoft/internal/directory/store"
)

type departmentsRepo struct {
	db dbtx
}

const departmentColumns = `id, name, description, manager_id, budget_cents, is_active, created_at, updated_at`

var departmentUnique = map[string]error{
	"departments.name": store.ErrDepartmentNameExists,
}

func scanDepartment(row rowScanner) (domain.Department, error) {
	var (
		d       domain.Department
		manager sql.NullString
		budget  sql.NullInt64
	)
	if err := row.Scan(&d.ID, &d.Name, &d.Description, &manager, &budget, &d.Active, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return domain.Department{}, mapNotFound(err)
	}
	d.ManagerID = stringPtr(manager)
	d.BudgetCents = intPtr(budget)
	return d, nil
}

func (r *departmentsRepo) CreateDepartment(ctx context.Context, d domain.Department) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO departments (`+departmentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.Description, nullString(d.ManagerID), nullInt(d.BudgetCents), d.Active, now, now,
	)
	return mapWriteError(err, departmentUnique)
}

func (r *departmentsRepo) GetDepartment(ctx context.Context, id string) (domain.Department, error) {
	return scanDepartment(r.db.QueryRowContext(ctx,
		`SELECT `+departmentColumns+` FROM departments WHERE id = ?`, id))
}

func (r *departmentsRepo) ListDepartments(ctx context.Context, active *bool) ([]domain.Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM departments`
	var args []any
	if active != nil {
		query += ` WHERE is_active = ?`
		args = append(args, *active)
	}
	query += ` ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Department{}
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *departmentsRepo) UpdateDepartment(ctx context.Context, d domain.Department) error {
	err := execOne(ctx, r.db,
		`UPDATE departments SET name = ?, description = ?, manager_id = ?, budget_cents = ?, is_active = ?, updated_at = ?
		 WHERE id = ?`,
		d.Name, d.Description, nullString(d.ManagerID), nullInt(d.BudgetCents), d.Active, time.Now().UTC(), d.ID,
	)
	return mapWriteError(err, departmentUnique)
}

var _ store.Departments = (*departmentsRepo)(nil)
