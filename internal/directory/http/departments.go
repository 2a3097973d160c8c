package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/hrsoft/internal/directory/domain"
	"github.com/aussiebroadwan/hrsoft/internal/directory/service"
	"github.com/aussiebroadwan/hrsoft/pkg/authsdk"
	"github.com/aussiebroadwan/hrsoft/pkg/httpx"
)

type DepartmentsHandler struct {
	Service *service.DirectoryService
}

func (h *DepartmentsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateDepartmentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	d, err := h.Service.CreateDepartment(r.Context(), domain.Department{
		Name:        req.Name,
		Description: req.Description,
		ManagerID:   req.ManagerID,
		BudgetCents: req.Budget,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, departmentResponse(d))
}

// HandleList serves GET /v1/departments?is_active=
func (h *DepartmentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var active *bool
	if v := r.URL.Query().Get("is_active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			authsdk.NewValidationError(map[string]string{"is_active": "must be true or false"}).WriteError(w)
			return
		}
		active = &b
	}

	depts, err := h.Service.ListDepartments(r.Context(), active)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]DepartmentResponse, 0, len(depts))
	for _, d := range depts {
		out = append(out, departmentResponse(d))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *DepartmentsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	d, err := h.Service.GetDepartment(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, departmentResponse(d))
}

func (h *DepartmentsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req UpdateDepartmentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	d, err := h.Service.UpdateDepartment(r.Context(), r.PathValue("id"), domain.DepartmentPatch{
		Name:        req.Name,
		Description: req.Description,
		ManagerID:   req.ManagerID,
		BudgetCents: req.Budget,
		Active:      req.Active,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, departmentResponse(d))
}
