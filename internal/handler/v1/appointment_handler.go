package v1

import (
	"net/http"
	"time"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/middleware"
	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateAppointment(c *gin.Context) {
	var cmd appointment.CreateAppointmentCommand
	if !bindJSON(c, &cmd) {
		return
	}
	a, err := h.svc.Appointments.Schedule(c.Request.Context(), &cmd, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, a)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	a, err := h.svc.Appointments.Get(c.Request.Context(), id, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

// ListAppointments filters on patient_id, doctor_id, status and an
// appointment date range; the service narrows it further by role.
func (h *Handler) ListAppointments(c *gin.Context) {
	q := &appointment.ListAppointmentsQuery{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}
	var ok bool
	if q.PatientID, ok = parseQueryUUID(c, "patient_id"); !ok {
		return
	}
	if q.DoctorID, ok = parseQueryUUID(c, "doctor_id"); !ok {
		return
	}
	if raw := c.Query("status"); raw != "" {
		status := appointment.AppointmentStatus(raw)
		q.Status = &status
	}
	if q.DateFrom, ok = parseQueryTime(c, "date_from"); !ok {
		return
	}
	if q.DateTo, ok = parseQueryTime(c, "date_to"); !ok {
		return
	}

	result, err := h.svc.Appointments.List(c.Request.Context(), q, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, result)
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var cmd appointment.UpdateAppointmentCommand
	if !bindJSON(c, &cmd) {
		return
	}
	a, err := h.svc.Appointments.Update(c.Request.Context(), id, &cmd, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

// CancelAppointment accepts an empty body; the reason is optional.
func (h *Handler) CancelAppointment(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var cmd appointment.CancelAppointmentCommand
	if c.Request.ContentLength > 0 && !bindJSON(c, &cmd) {
		return
	}
	a, err := h.svc.Appointments.Cancel(c.Request.Context(), id, &cmd, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

func (h *Handler) CompleteAppointment(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	a, err := h.svc.Appointments.Complete(c.Request.Context(), id, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Appointments.Delete(c.Request.Context(), id, middleware.Caller(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondNoContent(c)
}

// parseQueryTime accepts RFC 3339 or a bare date.
func parseQueryTime(c *gin.Context, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, true
		}
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + key + ": expected RFC 3339 or YYYY-MM-DD"})
	return nil, false
}
