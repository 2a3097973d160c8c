package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/hrsoft/internal/directory/domain"
	"github.com/aussiebroadwan/hrsoft/internal/directory/store"
	"github.com/aussiebroadwan/hrsoft/pkg/idx"
	"github.com/aussiebroadwan/hrsoft/pkg/slogx"
)

func checkBudget(cents *int64) error {
	if cents != nil && *cents < 0 {
		return fmt.Errorf("%w: budget must not be negative", ErrInvalidInput)
	}
	return nil
}

func (s *DirectoryService) CreateDepartment(ctx context.Context, d domain.Department) (domain.Department, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return domain.Department{}, fmt.Errorf("%w: department name is required", ErrInvalidInput)
	}
	if err := checkBudget(d.BudgetCents); err != nil {
		return domain.Department{}, err
	}
	d.ID = idx.New().String()
	d.Active = true

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := checkManager(ctx, tx, d.ManagerID); err != nil {
			return err
		}
		return mapConflict(tx.Departments().CreateDepartment(ctx, d))
	})
	if err != nil {
		return domain.Department{}, err
	}

	slogx.FromContext(ctx).Info("department created",
		slog.String("department_id", d.ID),
		slog.String("name", d.Name),
	)
	return s.GetDepartment(ctx, d.ID)
}

func (s *DirectoryService) GetDepartment(ctx context.Context, id string) (domain.Department, error) {
	d, err := s.Store.Departments().GetDepartment(ctx, id)
	if err != nil {
		return domain.Department{}, notFound(err, ErrDepartmentNotFound)
	}
	return d, nil
}

// ListDepartments returns every department, or only those matching active
// when it is non-nil.
func (s *DirectoryService) ListDepartments(ctx context.Context, active *bool) ([]domain.Department, error) {
	return s.Store.Departments().ListDepartments(ctx, active)
}

func (s *DirectoryService) UpdateDepartment(ctx context.Context, id string, patch domain.DepartmentPatch) (domain.Department, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return domain.Department{}, fmt.Errorf("%w: department name must not be empty", ErrInvalidInput)
		}
		patch.Name = &name
	}
	if err := checkBudget(patch.BudgetCents); err != nil {
		return domain.Department{}, err
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		d, err := tx.Departments().GetDepartment(ctx, id)
		if err != nil {
			return notFound(err, ErrDepartmentNotFound)
		}
		if err := checkManager(ctx, tx, patch.ManagerID); err != nil {
			return err
		}
		patch.Apply(&d)
		return mapConflict(tx.Departments().UpdateDepartment(ctx, d))
	})
	if err != nil {
		return domain.Department{}, err
	}

	slogx.FromContext(ctx).Info("department updated", slog.String("department_id", id))
	return s.GetDepartment(ctx, id)
}
