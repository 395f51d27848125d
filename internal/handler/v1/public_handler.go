package v1

import (
	"net/http"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/faq"
	pr "github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/patient_request"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/middleware"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *Handler) ListFAQs(c *gin.Context) {
	entries, err := h.svc.FAQs.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, entries)
}

func (h *Handler) GetFAQ(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	entry, err := h.svc.FAQs.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, entry)
}

func (h *Handler) CreateFAQ(c *gin.Context) {
	var cmd faq.CreateEntryCommand
	if !bindJSON(c, &cmd) {
		return
	}
	entry, err := h.svc.FAQs.Create(c.Request.Context(), &cmd, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, entry)
}

func (h *Handler) UpdateFAQ(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var cmd faq.UpdateEntryCommand
	if !bindJSON(c, &cmd) {
		return
	}
	entry, err := h.svc.FAQs.Update(c.Request.Context(), id, &cmd, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, entry)
}

func (h *Handler) DeleteFAQ(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.FAQs.Delete(c.Request.Context(), id, middleware.Caller(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondNoContent(c)
}

// SubmitPatientRequest is the anonymous registration form.
func (h *Handler) SubmitPatientRequest(c *gin.Context) {
	var cmd pr.SubmitRequestCommand
	if !bindJSON(c, &cmd) {
		return
	}
	req, err := h.svc.PatientRequests.Submit(c.Request.Context(), &cmd, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, APIResponse[*pr.PatientRequest]{
		Data:    req,
		Message: "registration request received",
	})
}

func (h *Handler) SubmitContact(c *gin.Context) {
	var msg service.ContactMessage
	if !bindJSON(c, &msg) {
		return
	}
	if err := h.svc.Contact.Submit(c.Request.Context(), &msg, middleware.Caller(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse[any]{Message: "message sent"})
}
