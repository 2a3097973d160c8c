package domain

import "time"

// Profile is the free-form part of an employee record. Each employee has at
// most one.
type Profile struct {
	ID                           string
	EmployeeID                   string
	Bio                          string
	Skills                       string
	EmergencyContactName         string
	EmergencyContactPhone        string
	EmergencyContactRelationship string
	CreatedAt                    time.Time
	UpdatedAt                    time.Time
}

type ProfilePatch struct {
	Bio                          *string
	Skills                       *string
	EmergencyContactName         *string
	EmergencyContactPhone        *string
	EmergencyContactRelationship *string
}

func (p ProfilePatch) Apply(pr *Profile) {
	setIf(&pr.Bio, p.Bio)
	setIf(&pr.Skills, p.Skills)
	setIf(&pr.EmergencyContactName, p.EmergencyContactName)
	setIf(&pr.EmergencyContactPhone, p.EmergencyContactPhone)
	setIf(&pr.EmergencyContactRelationship, p.EmergencyContactRelationship)
}
