package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/notify"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/metrics"
	"go.uber.org/zap"
)

type ContactMessage struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Comment string `json:"comment" binding:"required"`
}

// ContactService forwards the public contact form to the clinic inbox.
type ContactService struct {
	inbox string
	mail  mailer
	log   *zap.Logger
}

func NewContactService(inbox string, sender notify.Sender, m *metrics.Collector, log *zap.Logger) *ContactService {
	return &ContactService{
		inbox: inbox,
		mail:  mailer{sender: sender, metrics: m, log: log},
		log:   log,
	}
}

func (s *ContactService) Submit(ctx context.Context, msg *ContactMessage, c Caller) error {
	var errs []string
	if strings.TrimSpace(msg.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(msg.Email) == "" {
		errs = append(errs, "email is required")
	}
	if strings.TrimSpace(msg.Comment) == "" {
		errs = append(errs, "comment is required")
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}

	body := fmt.Sprintf("Name: %s\nEmail: %s\nMessage:\n%s", msg.Name, msg.Email, msg.Comment)
	if err := s.mail.send(ctx, "contact", s.inbox, "New Contact Form Submission", body); err != nil {
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}

	s.log.Info("contact form forwarded", zap.String("ip", c.IP))
	return nil
}
