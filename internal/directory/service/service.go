// Package service implements the employee directory: employees, their
// profiles and departments. Permission checks happen at the HTTP edge.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/hrsoft/internal/directory/store"
)

var (
	ErrNotFound           = errors.New("not_found")
	ErrEmployeeNotFound   = fmt.Errorf("%w: employee not found", ErrNotFound)
	ErrDepartmentNotFound = fmt.Errorf("%w: department not found", ErrNotFound)
	ErrManagerNotFound    = fmt.Errorf("%w: manager not found", ErrNotFound)
	ErrProfileNotFound    = fmt.Errorf("%w: employee profile not found", ErrNotFound)

	ErrConflict            = errors.New("conflict")
	ErrEmployeeNumberTaken = fmt.Errorf("%w: employee number already exists", ErrConflict)
	ErrEmailTaken          = fmt.Errorf("%w: email already exists", ErrConflict)
	ErrDepartmentNameTaken = fmt.Errorf("%w: department name already exists", ErrConflict)
	ErrProfileExists       = fmt.Errorf("%w: employee profile already exists", ErrConflict)

	ErrInvalidInput = errors.New("invalid_input")
)

// Listing bounds.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type DirectoryService struct {
	Store store.Store
}

// mapConflict turns store uniqueness errors into service errors.
func mapConflict(err error) error {
	switch {
	case errors.Is(err, store.ErrEmployeeNumberExists):
		return ErrEmployeeNumberTaken
	case errors.Is(err, store.ErrEmployeeEmailExists):
		return ErrEmailTaken
	case errors.Is(err, store.ErrDepartmentNameExists):
		return ErrDepartmentNameTaken
	case errors.Is(err, store.ErrProfileExists):
		return ErrProfileExists
	case errors.Is(err, store.ErrAlreadyExists):
		return ErrConflict
	case errors.Is(err, store.ErrReference):
		return fmt.Errorf("%w: referenced record no longer exists", ErrNotFound)
	}
	return err
}

func notFound(err, as error) error {
	if errors.Is(err, store.ErrNotFound) {
		return as
	}
	return err
}

// checkDepartment and checkManager report a dangling reference. An empty or
// nil ID means the reference is being cleared and always passes.
func checkDepartment(ctx context.Context, tx store.Tx, id *string) error {
	if id == nil || *id == "" {
		return nil
	}
	_, err := tx.Departments().GetDepartment(ctx, *id)
	return notFound(err, ErrDepartmentNotFound)
}

func checkManager(ctx context.Context, tx store.Tx, id *string) error {
	if id == nil || *id == "" {
		return nil
	}
	_, err := tx.Employees().GetEmployee(ctx, *id)
	return notFound(err, ErrManagerNotFound)
}
