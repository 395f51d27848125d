package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/department"
	mr "github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/medical_record"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/patient"
	pr "github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/patient_request"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/shift"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/identity"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"patient not found", patient.ErrPatientNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("loading: %w", department.ErrDepartmentNotFound), http.StatusNotFound},
		{"no nurse on duty", shift.ErrNoNurseOnDuty, http.StatusBadRequest},
		{"audit log not found", domain.ErrAuditLogNotFound, http.StatusNotFound},
		{"appointment conflict", appointment.ErrAppointmentConflict, http.StatusConflict},
		{"record conflict", mr.ErrRecordConflict, http.StatusConflict},
		{"reject approved request", pr.ErrRequestAlreadyApproved, http.StatusConflict},
		{"duplicate department", department.ErrDuplicateName, http.StatusConflict},
		{"id mismatch", fmt.Errorf("%w: a != b", service.ErrIDMismatch), http.StatusBadRequest},
		{"invalid transition", appointment.ErrInvalidStatusTransition, http.StatusBadRequest},
		{"validation", &service.ValidationError{Fields: []string{"name is required"}}, http.StatusBadRequest},
		{"identity rejected", &identity.RejectedError{Reasons: []string{"duplicate user name"}}, http.StatusBadRequest},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"inactive", service.ErrAccountInactive, http.StatusForbidden},
		{"locked", service.ErrAccountLocked, http.StatusTooManyRequests},
		{"notification", fmt.Errorf("%w: relay down", service.ErrNotificationFailed), http.StatusServiceUnavailable},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondServiceError(c, tt.err)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRespondServiceError_ValidationFields(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondServiceError(c, &service.ValidationError{Fields: []string{"dosage is required", "frequency is required"}})

	var body ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"dosage is required", "frequency is required"}, body.Fields)
}

func TestRespondServiceError_InternalHidesCause(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondServiceError(c, errors.New("pq: password authentication failed"))

	assert.NotContains(t, w.Body.String(), "pq:")
	assert.Len(t, c.Errors, 1)
}

func TestParseQueryHelpers(t *testing.T) {
	t.Run("int falls back on garbage", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/?page=abc&page_size=-3", nil)

		assert.Equal(t, 1, parseQueryInt(c, "page", 1))
		assert.Equal(t, 20, parseQueryInt(c, "page_size", 20))
	})

	t.Run("uuid absent and malformed", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/?doctor_id=nope", nil)

		id, ok := parseQueryUUID(c, "patient_id")
		assert.True(t, ok)
		assert.Nil(t, id)

		_, ok = parseQueryUUID(c, "doctor_id")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("time accepts date or timestamp", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/?from=2024-03-01&to=2024-03-02T10:00:00Z", nil)

		from, ok := parseQueryTime(c, "from")
		require.True(t, ok)
		assert.Equal(t, 1, from.Day())

		to, ok := parseQueryTime(c, "to")
		require.True(t, ok)
		assert.Equal(t, 10, to.Hour())
	})

	t.Run("time rejects other layouts", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/?from=03/01/2024", nil)

		_, ok := parseQueryTime(c, "from")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
