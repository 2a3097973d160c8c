package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/hrsoft/internal/directory/domain"
	"github.com/aussiebroadwan/hrsoft/internal/directory/store"
)

type profilesRepo struct {
	db dbtx
}

const profileColumns = `id, employee_id, bio, skills, emergency_contact_name, emergency_contact_phone,
	emergency_contact_relationship, created_at, updated_at`

var profileUnique = map[string]error{
	"employee_profiles.employee_id": store.ErrProfileExists,
}

func (r *profilesRepo) CreateProfile(ctx context.Context, p domain.Profile) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO employee_profiles (`+profileColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.EmployeeID, p.Bio, p.Skills, p.EmergencyContactName, p.EmergencyContactPhone,
		p.EmergencyContactRelationship, now, now,
	)
	return mapWriteError(err, profileUnique)
}

func (r *profilesRepo) GetProfileByEmployee(ctx context.Context, employeeID string) (domain.Profile, error) {
	var p domain.Profile
	err := r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM employee_profiles WHERE employee_id = ?`, employeeID,
	).Scan(&p.ID, &p.EmployeeID, &p.Bio, &p.Skills, &p.EmergencyContactName, &p.EmergencyContactPhone,
		&p.EmergencyContactRelationship, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}
	return p, nil
}

func (r *profilesRepo) UpdateProfile(ctx context.Context, p domain.Profile) error {
	return execOne(ctx, r.db,
		`UPDATE employee_profiles SET bio = ?, skills = ?, emergency_contact_name = ?, emergency_contact_phone = ?,
			emergency_contact_relationship = ?, updated_at = ?
		 WHERE employee_id = ?`,
		p.Bio, p.Skills, p.EmergencyContactName, p.EmergencyContactPhone, p.EmergencyContactRelationship,
		time.Now().UTC(), p.EmployeeID,
	)
}

var _ store.Profiles = (*profilesRepo)(nil)
