package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector_ServesRegisteredMetrics(t *testing.T) {
	c := NewCollector("usalclinic-api", prometheus.NewRegistry())

	c.NotificationsTotal.WithLabelValues("urgent_alert", "sent").Inc()
	c.AuditBufferDropped.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(c.NotificationsTotal.WithLabelValues("urgent_alert", "sent")))

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "usalclinic_api_notify_messages_total")
	assert.Contains(t, rec.Body.String(), "usalclinic_api_audit_buffer_dropped_total 1")
}

func TestNotificationOutcome(t *testing.T) {
	assert.Equal(t, "sent", NotificationOutcome(nil))
	assert.Equal(t, "failed", NotificationOutcome(assert.AnError))
}
