package domain

import "time"

type Department struct {
	ID          string
	Name        string // unique
	Description string
	ManagerID   *string // employee
	BudgetCents *int64
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DepartmentPatch carries a partial update. Nil fields are left unchanged.
type DepartmentPatch struct {
	Name        *string
	Description *string
	ManagerID   *string
	BudgetCents *int64
	Active      *bool
}

func (p DepartmentPatch) Apply(d *Department) {
	setIf(&d.Name, p.Name)
	setIf(&d.Description, p.Description)
	setIf(&d.Active, p.Active)
	if p.ManagerID != nil {
		d.ManagerID = p.ManagerID
	}
	if p.BudgetCents != nil {
		d.BudgetCents = p.BudgetCents
	}
}
