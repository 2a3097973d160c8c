package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/hrsoft/internal/directory/domain"
	"github.com/aussiebroadwan/hrsoft/internal/directory/service"
	"github.com/aussiebroadwan/hrsoft/pkg/authsdk"
	"github.com/aussiebroadwan/hrsoft/pkg/httpx"
)

// EmployeesHandler serves employee records and their profiles.
type EmployeesHandler struct {
	Service *service.DirectoryService
}

// HandleCreate adds an employee. HR only.
func (h *EmployeesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	e, err := h.Service.CreateEmployee(r.Context(), req.employee())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, employeeResponse(e))
}

// HandleList serves GET /v1/employees?page=&page_size=&department_id=&is_active=&search=
func (h *EmployeesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	f, problems := parseEmployeeFilter(r)
	if problems != nil {
		authsdk.NewValidationError(problems).WriteError(w)
		return
	}

	page, err := h.Service.ListEmployees(r.Context(), f)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, employeeListResponse(page))
}

func parseEmployeeFilter(r *http.Request) (domain.EmployeeFilter, map[string]string) {
	q := r.URL.Query()
	f := domain.EmployeeFilter{
		DepartmentID: q.Get("department_id"),
		Search:       q.Get("search"),
	}
	problems := map[string]string{}

	for key, dst := range map[string]*int{"page": &f.Page, "page_size": &f.PageSize} {
		if v := q.Get(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				problems[key] = "must be an integer"
				continue
			}
			*dst = n
		}
	}
	if v := q.Get("is_active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			problems["is_active"] = "must be true or false"
		} else {
			f.Active = &b
		}
	}

	if len(problems) > 0 {
		return f, problems
	}
	return f, nil
}

// HandleGet returns the employee with department and profile.
func (h *EmployeesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	d, err := h.Service.GetEmployeeDetail(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, employeeDetailResponse(d))
}

// HandleUpdate applies a partial update. HR only.
func (h *EmployeesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req UpdateEmployeeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	e, err := h.Service.UpdateEmployee(r.Context(), r.PathValue("id"), req.patch())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, employeeResponse(e))
}

// HandleDelete deactivates the employee. The record is kept.
func (h *EmployeesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteEmployee(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "employee deleted successfully"})
}

func (h *EmployeesHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.GetProfile(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, profileResponse(p))
}

func (h *EmployeesHandler) HandleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := h.Service.CreateProfile(r.Context(), r.PathValue("id"), req.profile())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, profileResponse(p))
}

func (h *EmployeesHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := h.Service.UpdateProfile(r.Context(), r.PathValue("id"), req.patch())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, profileResponse(p))
}
