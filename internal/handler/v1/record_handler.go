package v1

import (
	mr "github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/medical_record"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/prescription"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/middleware"
	"github.com/gin-gonic/gin"
)

// PatientRecord returns the one record the caller may see for a patient:
// a doctor's own record, or the most recent one for anyone else allowed.
func (h *Handler) PatientRecord(c *gin.Context) {
	patientID, ok := parseUUID(c, "patientId")
	if !ok {
		return
	}
	rec, err := h.svc.MedicalRecords.VisibleForPatient(c.Request.Context(), patientID, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, rec)
}

// ListPatientRecords serves /patients/:id/medical-records.
func (h *Handler) ListPatientRecords(c *gin.Context) {
	patientID, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	records, err := h.svc.MedicalRecords.ListByPatient(c.Request.Context(), patientID, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, records)
}

func (h *Handler) CreateMedicalRecord(c *gin.Context) {
	var cmd mr.CreateRecordCommand
	if !bindJSON(c, &cmd) {
		return
	}
	rec, err := h.svc.MedicalRecords.Create(c.Request.Context(), &cmd, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, rec)
}

func (h *Handler) GetMedicalRecord(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	rec, err := h.svc.MedicalRecords.Get(c.Request.Context(), id, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, rec)
}

func (h *Handler) UpdateMedicalRecord(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var cmd mr.UpdateRecordCommand
	if !bindJSON(c, &cmd) {
		return
	}
	rec, err := h.svc.MedicalRecords.Update(c.Request.Context(), id, &cmd, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, rec)
}

func (h *Handler) DeleteMedicalRecord(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.MedicalRecords.Delete(c.Request.Context(), id, middleware.Caller(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondNoContent(c)
}

func (h *Handler) ListRecordPrescriptions(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	list, err := h.svc.Prescriptions.ListByMedicalRecord(c.Request.Context(), id, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

// Prescriptions

func (h *Handler) CreatePrescription(c *gin.Context) {
	var cmd prescription.CreatePrescriptionCommand
	if !bindJSON(c, &cmd) {
		return
	}
	p, err := h.svc.Prescriptions.Create(c.Request.Context(), &cmd, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, p)
}

func (h *Handler) GetPrescription(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.Prescriptions.Get(c.Request.Context(), id, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

func (h *Handler) ListPrescriptions(c *gin.Context) {
	list, err := h.svc.Prescriptions.List(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

func (h *Handler) UpdatePrescription(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var cmd prescription.UpdatePrescriptionCommand
	if !bindJSON(c, &cmd) {
		return
	}
	p, err := h.svc.Prescriptions.Update(c.Request.Context(), id, &cmd, middleware.Caller(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

func (h *Handler) DeletePrescription(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Prescriptions.Delete(c.Request.Context(), id, middleware.Caller(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondNoContent(c)
}
