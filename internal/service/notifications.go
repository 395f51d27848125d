package service

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/notify"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/metrics"
	"go.uber.org/zap"
)

// mailer sends one kind of email and records the outcome.
type mailer struct {
	sender  notify.Sender
	metrics *metrics.Collector
	log     *zap.Logger
}

func (m mailer) send(ctx context.Context, kind, to, subject, body string) error {
	err := m.sender.Send(ctx, to, subject, body)
	m.metrics.NotificationsTotal.WithLabelValues(kind, metrics.NotificationOutcome(err)).Inc()
	if err != nil {
		m.log.Warn("notification failed",
			zap.String("kind", kind),
			zap.String("to", to),
			zap.Error(err),
		)
	}
	return err
}

// bestEffort sends after a committed write; a failure is logged and dropped.
func (m mailer) bestEffort(ctx context.Context, kind, to, subject, body string) {
	if to == "" {
		m.log.Warn("notification skipped, no recipient", zap.String("kind", kind))
		return
	}
	_ = m.send(ctx, kind, to, subject, body)
}
