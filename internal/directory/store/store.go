package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/hrsoft/internal/directory/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	// ErrReference is returned when a department or manager reference points
	// at a row that does not exist.
	ErrReference = errors.New("store: dangling reference")

	// Column specific conflicts, all match ErrAlreadyExists.
	ErrEmployeeNumberExists = fmt.Errorf("%w: employee number", ErrAlreadyExists)
	ErrEmployeeEmailExists  = fmt.Errorf("%w: employee email", ErrAlreadyExists)
	ErrDepartmentNameExists = fmt.Errorf("%w: department name", ErrAlreadyExists)
	ErrProfileExists        = fmt.Errorf("%w: profile", ErrAlreadyExists)
)

// Store is the directory data access root; see the auth store for the
// same shape.
type Store interface {
	Employees() Employees
	Departments() Departments
	Profiles() Profiles

	ApplyMigrations() error

	// WithTx runs fn inside a transaction, rolling back when fn returns an
	// error and committing otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx exposes the repos bound to one transaction.
type Tx interface {
	Employees() Employees
	Departments() Departments
	Profiles() Profiles
}

type Employees interface {
	CreateEmployee(ctx context.Context, e domain.Employee) error
	GetEmployee(ctx context.Context, id string) (domain.Employee, error)
	ListEmployees(ctx context.Context, f domain.EmployeeFilter) ([]domain.Employee, int, error)
	// UpdateEmployee replaces every mutable column of the row with e.
	UpdateEmployee(ctx context.Context, e domain.Employee) error
}

type Departments interface {
	CreateDepartment(ctx context.Context, d domain.Department) error
	GetDepartment(ctx context.Context, id string) (domain.Department, error)
	// ListDepartments returns departments by name, optionally only those
	// whose active flag matches.
	ListDepartments(ctx context.Context, active *bool) ([]domain.Department, error)
	UpdateDepartment(ctx context.Context, d domain.Department) error
}

type Profiles interface {
	CreateProfile(ctx context.Context, p domain.Profile) error
	GetProfileByEmployee(ctx context.Context, employeeID string) (domain.Profile, error)
	UpdateProfile(ctx context.Context, p domain.Profile) error
}
