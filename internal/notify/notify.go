// Package notify delivers outbound email through an HTTP mail relay.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/config"
	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

var (
	ErrRelayUnavailable = errors.New("mail relay unavailable")
	ErrRelayRejected    = errors.New("mail relay rejected message")
)

type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// RelaySender posts messages to the relay's /messages endpoint. Consecutive
// failures open a circuit breaker so a dead relay fails fast.
type RelaySender struct {
	client  *resty.Client
	from    string
	breaker *gobreaker.CircuitBreaker[*resty.Response]
	log     *zap.Logger
}

func NewRelaySender(cfg config.MailConfig, log *zap.Logger) *RelaySender {
	client := resty.New().
		SetBaseURL(cfg.RelayURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	failures := uint32(cfg.BreakerFailures)
	if failures == 0 {
		failures = 5
	}

	breaker := gobreaker.NewCircuitBreaker[*resty.Response](gobreaker.Settings{
		Name:        "mail-relay",
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenDelay,
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrRelayRejected)
		},
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &RelaySender{client: client, from: cfg.From, breaker: breaker, log: log}
}

func (s *RelaySender) Send(ctx context.Context, to, subject, body string) error {
	_, err := s.breaker.Execute(func() (*resty.Response, error) {
		resp, err := s.client.R().
			SetContext(ctx).
			SetBody(message{From: s.from, To: to, Subject: subject, Text: body}).
			Post("/messages")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRelayUnavailable, err)
		}
		if resp.StatusCode() >= http.StatusInternalServerError {
			return resp, fmt.Errorf("%w: status %d", ErrRelayUnavailable, resp.StatusCode())
		}
		if resp.IsError() {
			return resp, fmt.Errorf("%w: status %d", ErrRelayRejected, resp.StatusCode())
		}
		return resp, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = fmt.Errorf("%w: %v", ErrRelayUnavailable, err)
	}
	if err != nil {
		s.log.Error("mail delivery failed",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return err
	}

	s.log.Info("mail sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// State exposes the breaker state for health reporting.
func (s *RelaySender) State() gobreaker.State {
	return s.breaker.State()
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, to, subject, body string) error {
	s.log.Info("mail (log only)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_bytes", len(body)),
	)
	return nil
}

// New picks the relay sender when a relay is configured.
func New(cfg config.MailConfig, log *zap.Logger) Sender {
	if cfg.RelayURL == "" {
		return NewLogSender(log)
	}
	return NewRelaySender(cfg, log)
}
