// Package domain holds the directory records: employees, their profiles and
// the departments they belong to.
package domain

import "time"

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = time.DateOnly

type Employee struct {
	ID             string
	EmployeeNumber string // business identifier, unique
	FirstName      string
	LastName       string
	Email          string // unique, lower case
	Phone          string
	DateOfBirth    *time.Time
	Address        string
	DepartmentID   *string
	Position       string
	HireDate       *time.Time
	SalaryCents    *int64
	ManagerID      *string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EmployeeFilter narrows ListEmployees. Zero values mean no filter.
type EmployeeFilter struct {
	DepartmentID string
	Active       *bool
	// Search matches first name, last name, email or employee number,
	// case-insensitively.
	Search string

	Page     int // 1-based
	PageSize int
}

// Offset is the number of rows skipped before the current page.
func (f EmployeeFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// EmployeePage is one page of a filtered employee listing.
type EmployeePage struct {
	Employees []Employee
	Total     int
	Page      int
	PageSize  int
}

// TotalPages rounds up; an empty result has zero pages.
func (p EmployeePage) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// EmployeePatch carries a partial update. Nil fields are left unchanged.
type EmployeePatch struct {
	FirstName    *string
	LastName     *string
	Email        *string
	Phone        *string
	DateOfBirth  *time.Time
	Address      *string
	DepartmentID *string
	Position     *string
	HireDate     *time.Time
	SalaryCents  *int64
	ManagerID    *string
	Active       *bool
}

// Apply copies the set fields of p onto e.
func (p EmployeePatch) Apply(e *Employee) {
	setIf(&e.FirstName, p.FirstName)
	setIf(&e.LastName, p.LastName)
	setIf(&e.Email, p.Email)
	setIf(&e.Phone, p.Phone)
	setIf(&e.Address, p.Address)
	setIf(&e.Position, p.Position)
	setIf(&e.Active, p.Active)
	if p.DateOfBirth != nil {
		e.DateOfBirth = p.DateOfBirth
	}
	if p.HireDate != nil {
		e.HireDate = p.HireDate
	}
	if p.SalaryCents != nil {
		e.SalaryCents = p.SalaryCents
	}
	if p.DepartmentID != nil {
		e.DepartmentID = p.DepartmentID
	}
	if p.ManagerID != nil {
		e.ManagerID = p.ManagerID
	}
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
