package service

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/hrsoft/internal/directory/domain"
	"github.com/aussiebroadwan/hrsoft/internal/directory/store"
	"github.com/aussiebroadwan/hrsoft/pkg/idx"
	"github.com/aussiebroadwan/hrsoft/pkg/slogx"
)

// CreateProfile attaches a profile to an existing employee. An employee has
// at most one profile.
func (s *DirectoryService) CreateProfile(ctx context.Context, employeeID string, p domain.Profile) (domain.Profile, error) {
	p.ID = idx.New().String()
	p.EmployeeID = employeeID

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Employees().GetEmployee(ctx, employeeID); err != nil {
			return notFound(err, ErrEmployeeNotFound)
		}
		return mapConflict(tx.Profiles().CreateProfile(ctx, p))
	})
	if err != nil {
		return domain.Profile{}, err
	}

	slogx.FromContext(ctx).Info("employee profile created",
		slog.String("employee_id", employeeID),
		slog.String("profile_id", p.ID),
	)
	return s.GetProfile(ctx, employeeID)
}

func (s *DirectoryService) GetProfile(ctx context.Context, employeeID string) (domain.Profile, error) {
	p, err := s.Store.Profiles().GetProfileByEmployee(ctx, employeeID)
	if err != nil {
		return domain.Profile{}, notFound(err, ErrProfileNotFound)
	}
	return p, nil
}

func (s *DirectoryService) UpdateProfile(ctx context.Context, employeeID string, patch domain.ProfilePatch) (domain.Profile, error) {
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		p, err := tx.Profiles().GetProfileByEmployee(ctx, employeeID)
		if err != nil {
			return notFound(err, ErrProfileNotFound)
		}
		patch.Apply(&p)
		return tx.Profiles().UpdateProfile(ctx, p)
	})
	if err != nil {
		return domain.Profile{}, err
	}
	return s.GetProfile(ctx, employeeID)
}
