package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/middleware"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) CreatePatient(c *gin.Context) {
	var cmd patient.CreatePatientCommand
	if !bindJSON(c, &cmd) {
		return
	}
	p, err := h.svc.Patients.Create(c.Request.Context(), &cmd, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, p)
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.Patients.Get(c.Request.Context(), id, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

// ListPatients points a patient at their own profile instead of the list.
func (h *Handler) ListPatients(c *gin.Context) {
	caller := middleware.Caller(c)
	q := &patient.ListPatientsQuery{
		Search:   strings.TrimSpace(c.Query("search")),
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}

	result, err := h.svc.Patients.List(c.Request.Context(), q, caller)
	if err == nil {
		respondOK(c, result)
		return
	}
	if errors.Is(err, service.ErrForbidden) && caller.Role == domain.RolePatient {
		ownID, ownErr := h.svc.Patients.OwnID(c.Request.Context(), caller)
		if ownErr == nil {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Error:   "access denied",
				Details: map[string]string{"self": "/api/v1/patients/" + ownID.String()},
			})
			return
		}
		h.log.Warn("patient account has no profile",
			zap.String("user_id", caller.UserID.String()),
			zap.Error(ownErr),
		)
	}
	respondServiceError(c, err)
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var cmd patient.UpdatePatientCommand
	if !bindJSON(c, &cmd) {
		return
	}
	p, err := h.svc.Patients.Update(c.Request.Context(), id, &cmd, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

func (h *Handler) DeletePatient(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Patients.Delete(c.Request.Context(), id, middleware.Caller(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondNoContent(c)
}

// Patient requests, admin side

func (h *Handler) ListPendingPatientRequests(c *gin.Context) {
	list, err := h.svc.PatientRequests.ListPending(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

func (h *Handler) GetPatientRequest(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	req, err := h.svc.PatientRequests.Get(c.Request.Context(), id, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, req)
}

func (h *Handler) ApprovePatientRequest(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	req, err := h.svc.PatientRequests.Approve(c.Request.Context(), id, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, req)
}

func (h *Handler) RejectPatientRequest(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	req, err := h.svc.PatientRequests.Reject(c.Request.Context(), id, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, req)
}
