package service

import (
	"context"
	"testing"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAuditService_PersistsCaller(t *testing.T) {
	repo := &memAuditRepo{}
	m := metrics.NewCollector("test", prometheus.NewRegistry())
	svc := NewAuditService(repo, m, zap.NewNop())

	userID := uuid.New()
	c := Caller{UserID: userID, Role: domain.RoleDoctor, IP: "10.1.1.1"}
	svc.LogAsync(context.Background(), c.entry(domain.ActionRead, "patient", "p-1"))
	svc.Shutdown()

	require.Len(t, repo.entries, 1)
	got := repo.entries[0]
	assert.Equal(t, userID, got.UserID)
	assert.NotEqual(t, userID, got.ID)
	assert.Equal(t, domain.RoleDoctor, got.UserRole)
	assert.Equal(t, "10.1.1.1", got.IPAddress)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuditEntriesTotal))
}

func TestAuditService_DropsWhenFull(t *testing.T) {
	m := metrics.NewCollector("test", prometheus.NewRegistry())
	// No worker: the one-slot buffer fills on the first entry.
	svc := &AuditService{
		repo:    &memAuditRepo{},
		metrics: m,
		log:     zap.NewNop(),
		entries: make(chan *domain.AuditLog, 1),
		done:    make(chan struct{}),
	}

	c := adminCaller()
	svc.LogAsync(context.Background(), c.entry(domain.ActionCreate, "room", "r-1"))
	svc.LogAsync(context.Background(), c.entry(domain.ActionCreate, "room", "r-2"))

	assert.Len(t, svc.entries, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuditBufferDropped))
}

func TestAuditService_AfterShutdown(t *testing.T) {
	repo := &memAuditRepo{}
	m := metrics.NewCollector("test", prometheus.NewRegistry())
	svc := NewAuditService(repo, m, zap.NewNop())
	svc.Shutdown()
	svc.Shutdown()

	svc.LogAsync(context.Background(), adminCaller().entry(domain.ActionDelete, "room", "r-1"))
	assert.Empty(t, repo.entries)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuditBufferDropped))
}

func TestAuditService_ListIsAdminOnly(t *testing.T) {
	svc := NewAuditService(&memAuditRepo{}, metrics.NewCollector("test", prometheus.NewRegistry()), zap.NewNop())
	defer svc.Shutdown()

	_, err := svc.List(context.Background(), &domain.ListAuditLogsQuery{}, Caller{UserID: uuid.New(), Role: domain.RoleNurse})
	assert.ErrorIs(t, err, ErrForbidden)
}
