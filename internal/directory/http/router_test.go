package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/hrsoft/internal/directory/service"
	"github.com/aussiebroadwan/hrsoft/internal/directory/store/drivers/sqlite"
	"github.com/aussiebroadwan/hrsoft/pkg/authsdk"
	"github.com/aussiebroadwan/hrsoft/pkg/authz"
	"github.com/aussiebroadwan/hrsoft/pkg/httpx"
	"github.com/aussiebroadwan/hrsoft/pkg/jwtx"
	"github.com/aussiebroadwan/hrsoft/pkg/sqlitex"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router *Router
	codec  *jwtx.Codec
	hr     string
	user   string
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("database is locked") }

func newTestServer(t *testing.T, db Pinger) *testServer {
	t.Helper()

	s, err := sqlite.NewStore(sqlitex.DSN(filepath.Join(t.TempDir(), "directory.db")))
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	if db == nil {
		db = s
	}

	codec, err := jwtx.NewCodec([]byte("directory-test-secret-0123456789abcd"), jwtx.WithIssuer("hrsoft-test"))
	require.NoError(t, err)

	r := NewRouter(codec, "test", db, httpx.DefaultRateLimits(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	r.Service = &service.DirectoryService{Store: s}
	r.ApplyRoutes()

	ts := &testServer{router: r, codec: codec}
	ts.hr = ts.token(t, "hr-officer", authz.PermHR, authz.PermAdmin, authz.PermUser)
	ts.user = ts.token(t, "staff", authz.PermUser)
	return ts
}

func (ts *testServer) token(t *testing.T, subject string, perms ...string) string {
	t.Helper()
	tok, _, err := ts.codec.Issue(subject, jwtx.KindAccess, perms, time.Minute)
	require.NoError(t, err)
	return tok
}

func (ts *testServer) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func requireAPIError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) authsdk.APIError {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	got := decode[authsdk.APIError](t, rec)
	require.Equal(t, code, got.Code)
	return got
}

func (ts *testServer) createEmployee(t *testing.T, req CreateEmployeeRequest) EmployeeResponse {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/v1/employees", ts.hr, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[EmployeeResponse](t, rec)
}

func ptr[T any](v T) *T { return &v }

func TestEmployeeEndpoints(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodPost, "/v1/departments", ts.hr, CreateDepartmentRequest{Name: "Engineering", Budget: ptr(int64(500000))})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	dept := decode[DepartmentResponse](t, rec)

	e := ts.createEmployee(t, CreateEmployeeRequest{
		EmployeeNumber: "E001",
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "Ada@Example.com",
		DateOfBirth:    ptr("1815-12-10"),
		DepartmentID:   &dept.ID,
		Salary:         ptr(int64(9_000_000)),
	})
	require.Equal(t, "ada@example.com", e.Email)
	require.Equal(t, "1815-12-10", *e.DateOfBirth)
	require.Nil(t, e.HireDate)
	require.True(t, e.Active)

	t.Run("staff cannot create", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/v1/employees", ts.user, CreateEmployeeRequest{EmployeeNumber: "E999", FirstName: "a", LastName: "b", Email: "x@example.com"})
		requireAPIError(t, rec, http.StatusForbidden, authsdk.ErrorCodeInsufficientPermissions)
	})

	t.Run("hr without admin cannot create", func(t *testing.T) {
		hrOnly := ts.token(t, "hr-clerk", authz.PermHR, authz.PermUser)
		rec := ts.do(t, http.MethodPost, "/v1/employees", hrOnly, CreateEmployeeRequest{EmployeeNumber: "E998", FirstName: "a", LastName: "b", Email: "y@example.com"})
		requireAPIError(t, rec, http.StatusForbidden, authsdk.ErrorCodeInsufficientPermissions)
	})

	t.Run("anonymous rejected", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/v1/employees", "", nil)
		requireAPIError(t, rec, http.StatusUnauthorized, authsdk.ErrorCodeAuthenticationFailed)
	})

	t.Run("validation", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/v1/employees", ts.hr, CreateEmployeeRequest{
			FirstName: "a",
			LastName:  "b",
			Email:     "nope",
			HireDate:  ptr("10/12/2020"),
			Salary:    ptr(int64(-1)),
		})
		got := requireAPIError(t, rec, http.StatusBadRequest, authsdk.ErrorCodeValidation)
		require.Equal(t, "required", got.Details["employee_number"])
		require.Equal(t, "must be a valid email address", got.Details["email"])
		require.Equal(t, "must be a date formatted 2006-01-02", got.Details["hire_date"])
		require.Equal(t, "must be at least 0", got.Details["salary"])
	})

	t.Run("conflict and dangling reference", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/v1/employees", ts.hr, CreateEmployeeRequest{EmployeeNumber: "E001", FirstName: "a", LastName: "b", Email: "other@example.com"})
		got := requireAPIError(t, rec, http.StatusConflict, authsdk.ErrorCodeConflict)
		require.Equal(t, "employee number already exists", got.Description)

		rec = ts.do(t, http.MethodPost, "/v1/employees", ts.hr, CreateEmployeeRequest{EmployeeNumber: "E002", FirstName: "a", LastName: "b", Email: "b@example.com", ManagerID: ptr("missing")})
		got = requireAPIError(t, rec, http.StatusNotFound, authsdk.ErrorCodeNotFound)
		require.Equal(t, "manager not found", got.Description)
	})

	t.Run("detail", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/v1/employees/"+e.ID, ts.user, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		d := decode[EmployeeDetailResponse](t, rec)
		require.Equal(t, e.ID, d.ID)
		require.NotNil(t, d.Department)
		require.Equal(t, "Engineering", d.Department.Name)
		require.Nil(t, d.Profile)

		rec = ts.do(t, http.MethodGet, "/v1/employees/missing", ts.user, nil)
		requireAPIError(t, rec, http.StatusNotFound, authsdk.ErrorCodeNotFound)
	})

	t.Run("update and delete", func(t *testing.T) {
		rec := ts.do(t, http.MethodPut, "/v1/employees/"+e.ID, ts.hr, UpdateEmployeeRequest{Position: ptr("Analyst"), DepartmentID: ptr("")})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		up := decode[EmployeeResponse](t, rec)
		require.Equal(t, "Analyst", up.Position)
		require.Nil(t, up.DepartmentID)
		require.Equal(t, "Ada", up.FirstName)

		rec = ts.do(t, http.MethodPut, "/v1/employees/"+e.ID, ts.hr, UpdateEmployeeRequest{ManagerID: &e.ID})
		requireAPIError(t, rec, http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest)

		rec = ts.do(t, http.MethodDelete, "/v1/employees/"+e.ID, ts.user, nil)
		requireAPIError(t, rec, http.StatusForbidden, authsdk.ErrorCodeInsufficientPermissions)

		rec = ts.do(t, http.MethodDelete, "/v1/employees/"+e.ID, ts.hr, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = ts.do(t, http.MethodGet, "/v1/employees/"+e.ID, ts.user, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.False(t, decode[EmployeeDetailResponse](t, rec).Active)
	})
}

func TestListEmployeesEndpoint(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, nil)

	for i, last := range []string{"Adams", "Baker", "Clark"} {
		ts.createEmployee(t, CreateEmployeeRequest{
			EmployeeNumber: "E10" + string(rune('0'+i)),
			FirstName:      "Pat",
			LastName:       last,
			Email:          last + "@example.com",
		})
	}

	rec := ts.do(t, http.MethodGet, "/v1/employees?page=2&page_size=2", ts.user, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := decode[EmployeeListResponse](t, rec)
	require.Equal(t, 3, page.Total)
	require.Equal(t, 2, page.TotalPages)
	require.Equal(t, 2, page.Page)
	require.Len(t, page.Employees, 1)
	require.Equal(t, "Clark", page.Employees[0].LastName)

	rec = ts.do(t, http.MethodGet, "/v1/employees?search=BAK", ts.user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode[EmployeeListResponse](t, rec)
	require.Equal(t, 1, page.Total)
	require.Equal(t, "Baker", page.Employees[0].LastName)

	rec = ts.do(t, http.MethodGet, "/v1/employees?is_active=false", ts.user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode[EmployeeListResponse](t, rec)
	require.Zero(t, page.Total)
	require.NotNil(t, page.Employees)

	rec = ts.do(t, http.MethodGet, "/v1/employees?page=abc&is_active=maybe", ts.user, nil)
	got := requireAPIError(t, rec, http.StatusBadRequest, authsdk.ErrorCodeValidation)
	require.Contains(t, got.Details, "page")
	require.Contains(t, got.Details, "is_active")

	rec = ts.do(t, http.MethodGet, "/v1/employees?page_size=101", ts.user, nil)
	requireAPIError(t, rec, http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest)
}

func TestProfileEndpoints(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, nil)
	e := ts.createEmployee(t, CreateEmployeeRequest{EmployeeNumber: "E001", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"})
	path := "/v1/employees/" + e.ID + "/profile"

	rec := ts.do(t, http.MethodGet, path, ts.user, nil)
	requireAPIError(t, rec, http.StatusNotFound, authsdk.ErrorCodeNotFound)

	rec = ts.do(t, http.MethodPost, path, ts.user, ProfileRequest{Bio: ptr("Mathematician")})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	p := decode[ProfileResponse](t, rec)
	require.Equal(t, e.ID, p.EmployeeID)

	rec = ts.do(t, http.MethodPost, path, ts.user, ProfileRequest{})
	requireAPIError(t, rec, http.StatusConflict, authsdk.ErrorCodeConflict)

	rec = ts.do(t, http.MethodPut, path, ts.user, ProfileRequest{Skills: ptr("analysis")})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p = decode[ProfileResponse](t, rec)
	require.Equal(t, "Mathematician", p.Bio)
	require.Equal(t, "analysis", p.Skills)

	rec = ts.do(t, http.MethodPost, "/v1/employees/missing/profile", ts.user, ProfileRequest{})
	requireAPIError(t, rec, http.StatusNotFound, authsdk.ErrorCodeNotFound)
}

func TestDepartmentEndpoints(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodPost, "/v1/departments", ts.user, CreateDepartmentRequest{Name: "Sales"})
	requireAPIError(t, rec, http.StatusForbidden, authsdk.ErrorCodeInsufficientPermissions)

	rec = ts.do(t, http.MethodPost, "/v1/departments", ts.hr, CreateDepartmentRequest{Name: "Sales"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sales := decode[DepartmentResponse](t, rec)

	rec = ts.do(t, http.MethodPost, "/v1/departments", ts.hr, CreateDepartmentRequest{Name: "Sales"})
	got := requireAPIError(t, rec, http.StatusConflict, authsdk.ErrorCodeConflict)
	require.Equal(t, "department name already exists", got.Description)

	rec = ts.do(t, http.MethodPut, "/v1/departments/"+sales.ID, ts.hr, UpdateDepartmentRequest{Active: ptr(false)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.False(t, decode[DepartmentResponse](t, rec).Active)

	rec = ts.do(t, http.MethodPost, "/v1/departments", ts.hr, CreateDepartmentRequest{Name: "Research"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodGet, "/v1/departments", ts.user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]DepartmentResponse](t, rec), 2)

	rec = ts.do(t, http.MethodGet, "/v1/departments?is_active=true", ts.user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	active := decode[[]DepartmentResponse](t, rec)
	require.Len(t, active, 1)
	require.Equal(t, "Research", active[0].Name)

	rec = ts.do(t, http.MethodGet, "/v1/departments/"+sales.ID, ts.user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Sales", decode[DepartmentResponse](t, rec).Name)

	rec = ts.do(t, http.MethodGet, "/v1/departments/missing", ts.user, nil)
	requireAPIError(t, rec, http.StatusNotFound, authsdk.ErrorCodeNotFound)

	rec = ts.do(t, http.MethodPut, "/v1/departments/"+sales.ID, ts.hr, map[string]any{"name": "Sales", "colour": "red"})
	requireAPIError(t, rec, http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest)
}

func TestDirectoryHealth(t *testing.T) {
	t.Parallel()

	t.Run("ready", func(t *testing.T) {
		t.Parallel()
		ts := newTestServer(t, nil)
		rec := ts.do(t, http.MethodGet, "/readyz", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "ok", decode[authsdk.HealthResponse](t, rec).Checks["database"])

		rec = ts.do(t, http.MethodGet, "/livez", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "test", decode[authsdk.HealthResponse](t, rec).Version)
	})

	t.Run("degraded", func(t *testing.T) {
		t.Parallel()
		ts := newTestServer(t, failingPinger{})
		rec := ts.do(t, http.MethodGet, "/readyz", "", nil)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		resp := decode[authsdk.HealthResponse](t, rec)
		require.Equal(t, "degraded", resp.Status)
		require.Equal(t, "error: database is locked", resp.Checks["database"])
	})
}
