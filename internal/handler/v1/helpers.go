package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/department"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/doctor"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/faq"
	mr "github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/medical_record"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/nurse"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/patient"
	pr "github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/patient_request"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/prescription"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/room"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/shift"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/identity"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

func respondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

var notFound = []error{
	domain.ErrUserNotFound,
	domain.ErrAuditLogNotFound,
	patient.ErrPatientNotFound,
	doctor.ErrDoctorNotFound,
	doctor.ErrAssignmentNotFound,
	nurse.ErrNurseNotFound,
	department.ErrDepartmentNotFound,
	room.ErrRoomNotFound,
	appointment.ErrAppointmentNotFound,
	mr.ErrRecordNotFound,
	prescription.ErrPrescriptionNotFound,
	shift.ErrShiftNotFound,
	pr.ErrRequestNotFound,
	faq.ErrEntryNotFound,
}

var conflicts = []error{
	domain.ErrUserExists,
	patient.ErrPatientAlreadyExists,
	doctor.ErrDoctorAlreadyExists,
	doctor.ErrAlreadyAssigned,
	nurse.ErrNurseAlreadyExists,
	department.ErrDuplicateName,
	appointment.ErrAppointmentConflict,
	mr.ErrRecordConflict,
	pr.ErrRequestAlreadyApproved,
	pr.ErrRequestAlreadyDecided,
}

var badRequests = []error{
	service.ErrIDMismatch,
	appointment.ErrInvalidDuration,
	appointment.ErrInvalidStatus,
	appointment.ErrInvalidStatusTransition,
	patient.ErrInvalidGender,
	patient.ErrInvalidBloodType,
	patient.ErrInvalidDateOfBirth,
	doctor.ErrInvalidExperience,
	mr.ErrDiagnosisRequired,
	room.ErrRoomNumberMissing,
	shift.ErrInvalidTimeOfDay,
	shift.ErrInvalidWindow,
	shift.ErrNoDays,
	shift.ErrNoNurseOnDuty,
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: validErr.Fields,
		})
		return
	}
	var rejected *identity.RejectedError
	if errors.As(err, &rejected) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "account could not be created",
			Fields: rejected.Reasons,
		})
		return
	}

	switch {
	case isAny(err, notFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case isAny(err, conflicts):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case isAny(err, badRequests):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "access denied"})

	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})

	case errors.Is(err, service.ErrAccountInactive):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "account is inactive", Code: "ACCOUNT_INACTIVE"})

	case errors.Is(err, service.ErrAccountLocked):
		c.JSON(http.StatusTooManyRequests, ErrorResponse{
			Error: "account temporarily locked",
			Code:  "ACCOUNT_LOCKED",
		})

	case errors.Is(err, service.ErrNotificationFailed):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "notification could not be delivered",
			Code:  "NOTIFICATION_FAILED",
		})

	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}

	return true
}

func parseUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + param + ": must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}

// parseQueryUUID returns nil for an absent parameter and false for a bad one.
func parseQueryUUID(c *gin.Context, key string) (*uuid.UUID, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + key + ": must be a valid UUID"})
		return nil, false
	}
	return &id, true
}
