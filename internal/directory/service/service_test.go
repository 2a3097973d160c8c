package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/hrsoft/internal/directory/domain"
	"github.com/aussiebroadwan/hrsoft/internal/directory/store/drivers/sqlite"
	"github.com/aussiebroadwan/hrsoft/pkg/sqlitex"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *DirectoryService {
	t.Helper()
	s, err := sqlite.NewStore(sqlitex.DSN(filepath.Join(t.TempDir(), "directory.db")))
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return &DirectoryService{Store: s}
}

func ptr[T any](v T) *T { return &v }

func hire(t *testing.T, svc *DirectoryService, number, first, last string) domain.Employee {
	t.Helper()
	e, err := svc.CreateEmployee(context.Background(), domain.Employee{
		EmployeeNumber: number,
		FirstName:      first,
		LastName:       last,
		Email:          first + "." + last + "@example.com",
	})
	require.NoError(t, err)
	return e
}

func TestCreateEmployee(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	dept, err := svc.CreateDepartment(ctx, domain.Department{Name: "Engineering"})
	require.NoError(t, err)
	boss := hire(t, svc, "E001", "grace", "hopper")

	e, err := svc.CreateEmployee(ctx, domain.Employee{
		EmployeeNumber: " E002 ",
		FirstName:      " Alan ",
		LastName:       "Turing",
		Email:          " Alan.Turing@Example.COM ",
		DepartmentID:   &dept.ID,
		ManagerID:      &boss.ID,
		SalaryCents:    ptr(int64(12_000_000)),
	})
	require.NoError(t, err)
	require.NotEmpty(t, e.ID)
	require.Equal(t, "E002", e.EmployeeNumber)
	require.Equal(t, "Alan", e.FirstName)
	require.Equal(t, "alan.turing@example.com", e.Email)
	require.True(t, e.Active)
	require.Equal(t, dept.ID, *e.DepartmentID)
	require.Equal(t, boss.ID, *e.ManagerID)
	require.False(t, e.CreatedAt.IsZero())

	t.Run("conflicts", func(t *testing.T) {
		_, err := svc.CreateEmployee(ctx, domain.Employee{EmployeeNumber: "E002", FirstName: "a", LastName: "b", Email: "x@example.com"})
		require.ErrorIs(t, err, ErrEmployeeNumberTaken)
		require.ErrorIs(t, err, ErrConflict)

		_, err = svc.CreateEmployee(ctx, domain.Employee{EmployeeNumber: "E003", FirstName: "a", LastName: "b", Email: "ALAN.turing@example.com"})
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("dangling references", func(t *testing.T) {
		_, err := svc.CreateEmployee(ctx, domain.Employee{EmployeeNumber: "E004", FirstName: "a", LastName: "b", Email: "d@example.com", DepartmentID: ptr("missing")})
		require.ErrorIs(t, err, ErrDepartmentNotFound)
		require.ErrorIs(t, err, ErrNotFound)

		_, err = svc.CreateEmployee(ctx, domain.Employee{EmployeeNumber: "E004", FirstName: "a", LastName: "b", Email: "d@example.com", ManagerID: ptr("missing")})
		require.ErrorIs(t, err, ErrManagerNotFound)
	})

	t.Run("invalid input", func(t *testing.T) {
		cases := map[string]domain.Employee{
			"missing number": {FirstName: "a", LastName: "b", Email: "e@example.com"},
			"blank name":     {EmployeeNumber: "E005", FirstName: "  ", LastName: "b", Email: "e@example.com"},
			"bad email":      {EmployeeNumber: "E005", FirstName: "a", LastName: "b", Email: "not-an-email"},
			"display email":  {EmployeeNumber: "E005", FirstName: "a", LastName: "b", Email: "A <a@example.com>"},
		}
		for name, c := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := svc.CreateEmployee(ctx, c)
				require.ErrorIs(t, err, ErrInvalidInput)
			})
		}
	})
}

func TestGetEmployeeDetail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	bare := hire(t, svc, "E001", "ada", "lovelace")
	detail, err := svc.GetEmployeeDetail(ctx, bare.ID)
	require.NoError(t, err)
	require.Equal(t, bare.ID, detail.ID)
	require.Nil(t, detail.Department)
	require.Nil(t, detail.Profile)

	dept, err := svc.CreateDepartment(ctx, domain.Department{Name: "Research"})
	require.NoError(t, err)
	_, err = svc.UpdateEmployee(ctx, bare.ID, domain.EmployeePatch{DepartmentID: &dept.ID})
	require.NoError(t, err)
	_, err = svc.CreateProfile(ctx, bare.ID, domain.Profile{Bio: "Analyst"})
	require.NoError(t, err)

	detail, err = svc.GetEmployeeDetail(ctx, bare.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Department)
	require.Equal(t, "Research", detail.Department.Name)
	require.NotNil(t, detail.Profile)
	require.Equal(t, "Analyst", detail.Profile.Bio)

	_, err = svc.GetEmployeeDetail(ctx, "missing")
	require.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestListEmployees(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	for i, name := range []string{"adams", "baker", "clark", "davis", "evans"} {
		hire(t, svc, "E00"+string(rune('1'+i)), "pat", name)
	}

	page, err := svc.ListEmployees(ctx, domain.EmployeeFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, page.Page)
	require.Equal(t, DefaultPageSize, page.PageSize)
	require.Equal(t, 5, page.Total)
	require.Len(t, page.Employees, 5)
	require.Equal(t, 1, page.TotalPages())

	page, err = svc.ListEmployees(ctx, domain.EmployeeFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, 5, page.Total)
	require.Equal(t, 3, page.TotalPages())
	require.Len(t, page.Employees, 2)
	require.Equal(t, "clark", page.Employees[0].LastName)

	for name, f := range map[string]domain.EmployeeFilter{
		"negative page":  {Page: -1},
		"page too large": {PageSize: MaxPageSize + 1},
		"negative size":  {PageSize: -5},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ListEmployees(ctx, f)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUpdateEmployee(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	boss := hire(t, svc, "E001", "grace", "hopper")
	e := hire(t, svc, "E002", "alan", "turing")

	updated, err := svc.UpdateEmployee(ctx, e.ID, domain.EmployeePatch{
		Position:  ptr("Cryptanalyst"),
		Email:     ptr(" Alan@Bletchley.UK "),
		ManagerID: &boss.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "Cryptanalyst", updated.Position)
	require.Equal(t, "alan@bletchley.uk", updated.Email)
	require.Equal(t, boss.ID, *updated.ManagerID)
	require.Equal(t, "turing", updated.LastName)

	cleared, err := svc.UpdateEmployee(ctx, e.ID, domain.EmployeePatch{ManagerID: ptr("")})
	require.NoError(t, err)
	require.Nil(t, cleared.ManagerID)

	_, err = svc.UpdateEmployee(ctx, e.ID, domain.EmployeePatch{ManagerID: &e.ID})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateEmployee(ctx, e.ID, domain.EmployeePatch{ManagerID: ptr("missing")})
	require.ErrorIs(t, err, ErrManagerNotFound)

	_, err = svc.UpdateEmployee(ctx, e.ID, domain.EmployeePatch{DepartmentID: ptr("missing")})
	require.ErrorIs(t, err, ErrDepartmentNotFound)

	_, err = svc.UpdateEmployee(ctx, e.ID, domain.EmployeePatch{Email: ptr("grace.hopper@example.com")})
	require.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.UpdateEmployee(ctx, "missing", domain.EmployeePatch{Position: ptr("x")})
	require.ErrorIs(t, err, ErrEmployeeNotFound)

	t.Run("soft delete", func(t *testing.T) {
		require.NoError(t, svc.DeleteEmployee(ctx, e.ID))

		got, err := svc.GetEmployee(ctx, e.ID)
		require.NoError(t, err)
		require.False(t, got.Active)

		active, err := svc.ListEmployees(ctx, domain.EmployeeFilter{Active: ptr(true)})
		require.NoError(t, err)
		require.Equal(t, 1, active.Total)

		require.ErrorIs(t, svc.DeleteEmployee(ctx, "missing"), ErrEmployeeNotFound)
	})
}

func TestDepartmentsService(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	head := hire(t, svc, "E001", "grace", "hopper")
	d, err := svc.CreateDepartment(ctx, domain.Department{
		Name:        " Engineering ",
		Description: "Builds things",
		ManagerID:   &head.ID,
		BudgetCents: ptr(int64(100_000_00)),
	})
	require.NoError(t, err)
	require.Equal(t, "Engineering", d.Name)
	require.True(t, d.Active)
	require.Equal(t, head.ID, *d.ManagerID)

	_, err = svc.CreateDepartment(ctx, domain.Department{Name: "Engineering"})
	require.ErrorIs(t, err, ErrDepartmentNameTaken)

	_, err = svc.CreateDepartment(ctx, domain.Department{Name: ""})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateDepartment(ctx, domain.Department{Name: "Sales", BudgetCents: ptr(int64(-1))})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateDepartment(ctx, domain.Department{Name: "Sales", ManagerID: ptr("missing")})
	require.ErrorIs(t, err, ErrManagerNotFound)

	sales, err := svc.CreateDepartment(ctx, domain.Department{Name: "Sales"})
	require.NoError(t, err)

	_, err = svc.UpdateDepartment(ctx, sales.ID, domain.DepartmentPatch{Name: ptr("Engineering")})
	require.ErrorIs(t, err, ErrDepartmentNameTaken)

	closed, err := svc.UpdateDepartment(ctx, sales.ID, domain.DepartmentPatch{Active: ptr(false), Description: ptr("Closed")})
	require.NoError(t, err)
	require.False(t, closed.Active)
	require.Equal(t, "Sales", closed.Name)
	require.Equal(t, "Closed", closed.Description)

	_, err = svc.UpdateDepartment(ctx, "missing", domain.DepartmentPatch{})
	require.ErrorIs(t, err, ErrDepartmentNotFound)

	all, err := svc.ListDepartments(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "Engineering", all[0].Name)

	active, err := svc.ListDepartments(ctx, ptr(true))
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, d.ID, active[0].ID)

	_, err = svc.GetDepartment(ctx, "missing")
	require.ErrorIs(t, err, ErrDepartmentNotFound)
}

func TestProfilesService(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)
	e := hire(t, svc, "E001", "ada", "lovelace")

	_, err := svc.GetProfile(ctx, e.ID)
	require.ErrorIs(t, err, ErrProfileNotFound)

	p, err := svc.CreateProfile(ctx, e.ID, domain.Profile{Bio: "Mathematician", Skills: "analysis"})
	require.NoError(t, err)
	require.Equal(t, e.ID, p.EmployeeID)
	require.Equal(t, "Mathematician", p.Bio)

	_, err = svc.CreateProfile(ctx, e.ID, domain.Profile{})
	require.ErrorIs(t, err, ErrProfileExists)

	_, err = svc.CreateProfile(ctx, "missing", domain.Profile{})
	require.ErrorIs(t, err, ErrEmployeeNotFound)

	p, err = svc.UpdateProfile(ctx, e.ID, domain.ProfilePatch{
		EmergencyContactName:  ptr("Charles Babbage"),
		EmergencyContactPhone: ptr("+44 20 0000 0000"),
	})
	require.NoError(t, err)
	require.Equal(t, "Mathematician", p.Bio)
	require.Equal(t, "Charles Babbage", p.EmergencyContactName)

	_, err = svc.UpdateProfile(ctx, "missing", domain.ProfilePatch{Bio: ptr("x")})
	require.ErrorIs(t, err, ErrProfileNotFound)
}
