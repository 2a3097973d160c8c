package http

import (
	"time"

	"github.com/aussiebroadwan/hrsoft/internal/directory/domain"
	"github.com/aussiebroadwan/hrsoft/internal/directory/service"
	"github.com/aussiebroadwan/hrsoft/pkg/authsdk"
)

// Money fields (salary, budget) are integer minor units. Dates are
// YYYY-MM-DD strings.

type CreateEmployeeRequest struct {
	EmployeeNumber string  `json:"employee_number" validate:"required,max=20"`
	FirstName      string  `json:"first_name" validate:"required,max=50"`
	LastName       string  `json:"last_name" validate:"required,max=50"`
	Email          string  `json:"email" validate:"required,email,max=254"`
	Phone          string  `json:"phone,omitempty" validate:"max=20"`
	DateOfBirth    *string `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Address        string  `json:"address,omitempty" validate:"max=500"`
	DepartmentID   *string `json:"department_id,omitempty"`
	Position       string  `json:"position,omitempty" validate:"max=100"`
	HireDate       *string `json:"hire_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Salary         *int64  `json:"salary,omitempty" validate:"omitempty,gte=0"`
	ManagerID      *string `json:"manager_id,omitempty"`
}

// UpdateEmployeeRequest is a partial update. An empty department_id or
// manager_id clears the reference.
type UpdateEmployeeRequest struct {
	FirstName    *string `json:"first_name,omitempty" validate:"omitempty,max=50"`
	LastName     *string `json:"last_name,omitempty" validate:"omitempty,max=50"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	DateOfBirth  *string `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Address      *string `json:"address,omitempty" validate:"omitempty,max=500"`
	DepartmentID *string `json:"department_id,omitempty"`
	Position     *string `json:"position,omitempty" validate:"omitempty,max=100"`
	HireDate     *string `json:"hire_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Salary       *int64  `json:"salary,omitempty" validate:"omitempty,gte=0"`
	ManagerID    *string `json:"manager_id,omitempty"`
	Active       *bool   `json:"is_active,omitempty"`
}

type EmployeeResponse struct {
	ID             string  `json:"id"`
	EmployeeNumber string  `json:"employee_number"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	DateOfBirth    *string `json:"date_of_birth"`
	Address        string  `json:"address"`
	DepartmentID   *string `json:"department_id"`
	Position       string  `json:"position"`
	HireDate       *string `json:"hire_date"`
	Salary         *int64  `json:"salary"`
	ManagerID      *string `json:"manager_id"`
	Active         bool    `json:"is_active"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// EmployeeDetailResponse adds the department and profile, null when unset.
type EmployeeDetailResponse struct {
	EmployeeResponse
	Department *DepartmentResponse `json:"department"`
	Profile    *ProfileResponse    `json:"profile"`
}

type EmployeeListResponse struct {
	Employees  []EmployeeResponse `json:"employees"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

type CreateDepartmentRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description,omitempty" validate:"max=500"`
	ManagerID   *string `json:"manager_id,omitempty"`
	Budget      *int64  `json:"budget,omitempty" validate:"omitempty,gte=0"`
}

type UpdateDepartmentRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	ManagerID   *string `json:"manager_id,omitempty"`
	Budget      *int64  `json:"budget,omitempty" validate:"omitempty,gte=0"`
	Active      *bool   `json:"is_active,omitempty"`
}

type DepartmentResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ManagerID   *string `json:"manager_id"`
	Budget      *int64  `json:"budget"`
	Active      bool    `json:"is_active"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type ProfileRequest struct {
	Bio                          *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
	Skills                       *string `json:"skills,omitempty" validate:"omitempty,max=1000"`
	EmergencyContactName         *string `json:"emergency_contact_name,omitempty" validate:"omitempty,max=100"`
	EmergencyContactPhone        *string `json:"emergency_contact_phone,omitempty" validate:"omitempty,max=20"`
	EmergencyContactRelationship *string `json:"emergency_contact_relationship,omitempty" validate:"omitempty,max=50"`
}

type ProfileResponse struct {
	ID                           string `json:"id"`
	EmployeeID                   string `json:"employee_id"`
	Bio                          string `json:"bio"`
	Skills                       string `json:"skills"`
	EmergencyContactName         string `json:"emergency_contact_name"`
	EmergencyContactPhone        string `json:"emergency_contact_phone"`
	EmergencyContactRelationship string `json:"emergency_contact_relationship"`
	CreatedAt                    string `json:"created_at"`
	UpdatedAt                    string `json:"updated_at"`
}

func (r CreateEmployeeRequest) Validate() map[string]string   { return authsdk.Struct(r) }
func (r UpdateEmployeeRequest) Validate() map[string]string   { return authsdk.Struct(r) }
func (r CreateDepartmentRequest) Validate() map[string]string { return authsdk.Struct(r) }
func (r UpdateDepartmentRequest) Validate() map[string]string { return authsdk.Struct(r) }
func (r ProfileRequest) Validate() map[string]string          { return authsdk.Struct(r) }

// parseDate assumes s was already checked by the datetime validator.
func parseDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(domain.DateLayout, *s)
	if err != nil {
		return nil
	}
	return &t
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateLayout)
	return &s
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func (r CreateEmployeeRequest) employee() domain.Employee {
	return domain.Employee{
		EmployeeNumber: r.EmployeeNumber,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		Phone:          r.Phone,
		DateOfBirth:    parseDate(r.DateOfBirth),
		Address:        r.Address,
		DepartmentID:   r.DepartmentID,
		Position:       r.Position,
		HireDate:       parseDate(r.HireDate),
		SalaryCents:    r.Salary,
		ManagerID:      r.ManagerID,
	}
}

func (r UpdateEmployeeRequest) patch() domain.EmployeePatch {
	return domain.EmployeePatch{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		Phone:        r.Phone,
		DateOfBirth:  parseDate(r.DateOfBirth),
		Address:      r.Address,
		DepartmentID: r.DepartmentID,
		Position:     r.Position,
		HireDate:     parseDate(r.HireDate),
		SalaryCents:  r.Salary,
		ManagerID:    r.ManagerID,
		Active:       r.Active,
	}
}

func (r ProfileRequest) profile() domain.Profile {
	var p domain.Profile
	r.patch().Apply(&p)
	return p
}

func (r ProfileRequest) patch() domain.ProfilePatch {
	return domain.ProfilePatch{
		Bio:                          r.Bio,
		Skills:                       r.Skills,
		EmergencyContactName:         r.EmergencyContactName,
		EmergencyContactPhone:        r.EmergencyContactPhone,
		EmergencyContactRelationship: r.EmergencyContactRelationship,
	}
}

func employeeResponse(e domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:             e.ID,
		EmployeeNumber: e.EmployeeNumber,
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		Email:          e.Email,
		Phone:          e.Phone,
		DateOfBirth:    formatDate(e.DateOfBirth),
		Address:        e.Address,
		DepartmentID:   e.DepartmentID,
		Position:       e.Position,
		HireDate:       formatDate(e.HireDate),
		Salary:         e.SalaryCents,
		ManagerID:      e.ManagerID,
		Active:         e.Active,
		CreatedAt:      formatTime(e.CreatedAt),
		UpdatedAt:      formatTime(e.UpdatedAt),
	}
}

func employeeDetailResponse(d service.EmployeeDetail) EmployeeDetailResponse {
	out := EmployeeDetailResponse{EmployeeResponse: employeeResponse(d.Employee)}
	if d.Department != nil {
		dept := departmentResponse(*d.Department)
		out.Department = &dept
	}
	if d.Profile != nil {
		p := profileResponse(*d.Profile)
		out.Profile = &p
	}
	return out
}

func employeeListResponse(p domain.EmployeePage) EmployeeListResponse {
	out := EmployeeListResponse{
		Employees:  make([]EmployeeResponse, 0, len(p.Employees)),
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages(),
	}
	for _, e := range p.Employees {
		out.Employees = append(out.Employees, employeeResponse(e))
	}
	return out
}

func departmentResponse(d domain.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		ManagerID:   d.ManagerID,
		Budget:      d.BudgetCents,
		Active:      d.Active,
		CreatedAt:   formatTime(d.CreatedAt),
		UpdatedAt:   formatTime(d.UpdatedAt),
	}
}

func profileResponse(p domain.Profile) ProfileResponse {
	return ProfileResponse{
		ID:                           p.ID,
		EmployeeID:                   p.EmployeeID,
		Bio:                          p.Bio,
		Skills:                       p.Skills,
		EmergencyContactName:         p.EmergencyContactName,
		EmergencyContactPhone:        p.EmergencyContactPhone,
		EmergencyContactRelationship: p.EmergencyContactRelationship,
		CreatedAt:                    formatTime(p.CreatedAt),
		UpdatedAt:                    formatTime(p.UpdatedAt),
	}
}
