package v1

import (
	"net/http"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/shift"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/middleware"
	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateShift(c *gin.Context) {
	var cmd shift.CreateShiftCommand
	if !bindJSON(c, &cmd) {
		return
	}
	sh, err := h.svc.Shifts.Create(c.Request.Context(), &cmd, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, sh)
}

func (h *Handler) GetShift(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	sh, err := h.svc.Shifts.Get(c.Request.Context(), id, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, sh)
}

func (h *Handler) ListShifts(c *gin.Context) {
	list, err := h.svc.Shifts.List(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

func (h *Handler) ListStaffShifts(c *gin.Context) {
	staffID, ok := parseUUID(c, "staffId")
	if !ok {
		return
	}
	list, err := h.svc.Shifts.ListByStaff(c.Request.Context(), staffID, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

func (h *Handler) ListRoleShifts(c *gin.Context) {
	role, ok := domain.ParseRole(c.Param("role"))
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid role: "+c.Param("role"))
		return
	}
	list, err := h.svc.Shifts.ListByRole(c.Request.Context(), role, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

func (h *Handler) ActiveNurseShifts(c *gin.Context) {
	list, err := h.svc.Shifts.ActiveNurseShifts(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

func (h *Handler) UpdateShift(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var cmd shift.UpdateShiftCommand
	if !bindJSON(c, &cmd) {
		return
	}
	sh, err := h.svc.Shifts.Update(c.Request.Context(), id, &cmd, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, sh)
}

func (h *Handler) DeleteShift(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Shifts.Delete(c.Request.Context(), id, middleware.Caller(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondNoContent(c)
}

type urgentAlertResponse struct {
	NurseID    string `json:"nurse_id"`
	NurseEmail string `json:"nurse_email"`
	ShiftID    string `json:"shift_id"`
}

// SendUrgentAlert answers 404 when no nurse is on duty and 503 when the
// nurse could not be reached.
func (h *Handler) SendUrgentAlert(c *gin.Context) {
	var cmd shift.UrgentAlertCommand
	if !bindJSON(c, &cmd) {
		return
	}
	sh, err := h.svc.Shifts.SendUrgentAlert(c.Request.Context(), &cmd, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse[urgentAlertResponse]{
		Data: urgentAlertResponse{
			NurseID:    sh.StaffID.String(),
			NurseEmail: sh.Staff.Email,
			ShiftID:    sh.ID.String(),
		},
		Message: "alert sent",
	})
}
