package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/config"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func relayConfig(url string) config.MailConfig {
	return config.MailConfig{
		RelayURL:         url,
		APIKey:           "relay-key",
		From:             "no-reply@clinic.com",
		Timeout:          2 * time.Second,
		BreakerFailures:  2,
		BreakerOpenDelay: time.Minute,
	}
}

func TestRelaySender_Send(t *testing.T) {
	var got message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "Bearer relay-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewRelaySender(relayConfig(srv.URL), zap.NewNop())
	err := s.Send(context.Background(), "johndoe@clinic.com", "Emergency Alert", "Room 101")
	require.NoError(t, err)

	assert.Equal(t, "no-reply@clinic.com", got.From)
	assert.Equal(t, "johndoe@clinic.com", got.To)
	assert.Equal(t, "Emergency Alert", got.Subject)
	assert.Equal(t, "Room 101", got.Text)
}

func TestRelaySender_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	s := NewRelaySender(relayConfig(srv.URL), zap.NewNop())
	for i := 0; i < 3; i++ {
		err := s.Send(context.Background(), "x@clinic.com", "s", "b")
		assert.ErrorIs(t, err, ErrRelayRejected)
	}
	// Client errors do not count against the relay.
	assert.Equal(t, gobreaker.StateClosed, s.State())
}

func TestRelaySender_BreakerOpens(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewRelaySender(relayConfig(srv.URL), zap.NewNop())
	ctx := context.Background()

	assert.ErrorIs(t, s.Send(ctx, "x@clinic.com", "s", "b"), ErrRelayUnavailable)
	assert.ErrorIs(t, s.Send(ctx, "x@clinic.com", "s", "b"), ErrRelayUnavailable)
	assert.Equal(t, gobreaker.StateOpen, s.State())

	err := s.Send(ctx, "x@clinic.com", "s", "b")
	assert.ErrorIs(t, err, ErrRelayUnavailable)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestNew_PicksLogSenderWithoutRelay(t *testing.T) {
	s := New(config.MailConfig{}, zap.NewNop())
	_, ok := s.(*LogSender)
	require.True(t, ok)
	assert.NoError(t, s.Send(context.Background(), "a@clinic.com", "s", "b"))

	_, ok = New(relayConfig("http://relay.invalid"), zap.NewNop()).(*RelaySender)
	assert.True(t, ok)
}
