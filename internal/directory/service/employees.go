package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/aussiebroadwan/hrsoft/internal/directory/domain"
	"github.com/aussiebroadwan/hrsoft/internal/directory/store"
	"github.com/aussiebroadwan/hrsoft/pkg/idx"
	"github.com/aussiebroadwan/hrsoft/pkg/slogx"
)

// EmployeeDetail is an employee with its department and profile, when set.
type EmployeeDetail struct {
	domain.Employee
	Department *domain.Department
	Profile    *domain.Profile
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: email is invalid", ErrInvalidInput)
	}
	return email, nil
}

// CreateEmployee adds an active employee. The department and manager, when
// given, must already exist.
func (s *DirectoryService) CreateEmployee(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	e.EmployeeNumber = strings.TrimSpace(e.EmployeeNumber)
	e.FirstName = strings.TrimSpace(e.FirstName)
	e.LastName = strings.TrimSpace(e.LastName)
	if e.EmployeeNumber == "" || e.FirstName == "" || e.LastName == "" {
		return domain.Employee{}, fmt.Errorf("%w: employee number, first name and last name are required", ErrInvalidInput)
	}
	email, err := normalizeEmail(e.Email)
	if err != nil {
		return domain.Employee{}, err
	}
	e.Email = email
	e.ID = idx.New().String()
	e.Active = true

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := checkDepartment(ctx, tx, e.DepartmentID); err != nil {
			return err
		}
		if err := checkManager(ctx, tx, e.ManagerID); err != nil {
			return err
		}
		return mapConflict(tx.Employees().CreateEmployee(ctx, e))
	})
	if err != nil {
		return domain.Employee{}, err
	}

	slogx.FromContext(ctx).Info("employee created",
		slog.String("employee_id", e.ID),
		slog.String("employee_number", e.EmployeeNumber),
	)
	return s.GetEmployee(ctx, e.ID)
}

func (s *DirectoryService) GetEmployee(ctx context.Context, id string) (domain.Employee, error) {
	e, err := s.Store.Employees().GetEmployee(ctx, id)
	if err != nil {
		return domain.Employee{}, notFound(err, ErrEmployeeNotFound)
	}
	return e, nil
}

// GetEmployeeDetail loads the employee together with its department and
// profile.
func (s *DirectoryService) GetEmployeeDetail(ctx context.Context, id string) (EmployeeDetail, error) {
	e, err := s.GetEmployee(ctx, id)
	if err != nil {
		return EmployeeDetail{}, err
	}
	detail := EmployeeDetail{Employee: e}

	if e.DepartmentID != nil {
		d, err := s.Store.Departments().GetDepartment(ctx, *e.DepartmentID)
		if err != nil {
			return EmployeeDetail{}, err
		}
		detail.Department = &d
	}

	p, err := s.Store.Profiles().GetProfileByEmployee(ctx, id)
	switch {
	case err == nil:
		detail.Profile = &p
	case !errors.Is(err, store.ErrNotFound):
		return EmployeeDetail{}, err
	}
	return detail, nil
}

// ListEmployees returns one page of employees. Page defaults to 1 and page
// size to DefaultPageSize.
func (s *DirectoryService) ListEmployees(ctx context.Context, f domain.EmployeeFilter) (domain.EmployeePage, error) {
	if f.Page == 0 {
		f.Page = 1
	}
	if f.PageSize == 0 {
		f.PageSize = DefaultPageSize
	}
	if f.Page < 1 {
		return domain.EmployeePage{}, fmt.Errorf("%w: page must be at least 1", ErrInvalidInput)
	}
	if f.PageSize < 1 || f.PageSize > MaxPageSize {
		return domain.EmployeePage{}, fmt.Errorf("%w: page_size must be between 1 and %d", ErrInvalidInput, MaxPageSize)
	}

	employees, total, err := s.Store.Employees().ListEmployees(ctx, f)
	if err != nil {
		return domain.EmployeePage{}, err
	}
	return domain.EmployeePage{
		Employees: employees,
		Total:     total,
		Page:      f.Page,
		PageSize:  f.PageSize,
	}, nil
}

// UpdateEmployee applies a partial update. An empty department or manager ID
// clears the reference.
func (s *DirectoryService) UpdateEmployee(ctx context.Context, id string, patch domain.EmployeePatch) (domain.Employee, error) {
	if patch.Email != nil {
		email, err := normalizeEmail(*patch.Email)
		if err != nil {
			return domain.Employee{}, err
		}
		patch.Email = &email
	}
	for _, f := range []*string{patch.FirstName, patch.LastName} {
		if f != nil {
			*f = strings.TrimSpace(*f)
			if *f == "" {
				return domain.Employee{}, fmt.Errorf("%w: names must not be empty", ErrInvalidInput)
			}
		}
	}
	if patch.ManagerID != nil && *patch.ManagerID == id {
		return domain.Employee{}, fmt.Errorf("%w: an employee cannot manage themselves", ErrInvalidInput)
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		e, err := tx.Employees().GetEmployee(ctx, id)
		if err != nil {
			return notFound(err, ErrEmployeeNotFound)
		}
		if err := checkDepartment(ctx, tx, patch.DepartmentID); err != nil {
			return err
		}
		if err := checkManager(ctx, tx, patch.ManagerID); err != nil {
			return err
		}

		patch.Apply(&e)
		return mapConflict(tx.Employees().UpdateEmployee(ctx, e))
	})
	if err != nil {
		return domain.Employee{}, err
	}

	slogx.FromContext(ctx).Info("employee updated", slog.String("employee_id", id))
	return s.GetEmployee(ctx, id)
}

// DeleteEmployee is a soft delete: the record stays and is marked inactive.
func (s *DirectoryService) DeleteEmployee(ctx context.Context, id string) error {
	inactive := false
	if _, err := s.UpdateEmployee(ctx, id, domain.EmployeePatch{Active: &inactive}); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("employee deactivated", slog.String("employee_id", id))
	return nil
}
