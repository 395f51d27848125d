package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/access"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/faq"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/uow"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FAQService struct {
	uow      uow.UnitOfWork
	auditSvc *AuditService
	log      *zap.Logger
}

func NewFAQService(u uow.UnitOfWork, auditSvc *AuditService, log *zap.Logger) *FAQService {
	return &FAQService{uow: u, auditSvc: auditSvc, log: log}
}

func (s *FAQService) List(ctx context.Context) ([]*faq.Entry, error) {
	return s.uow.FAQs().List(ctx)
}

func (s *FAQService) Get(ctx context.Context, id uuid.UUID) (*faq.Entry, error) {
	return s.uow.FAQs().GetByID(ctx, id)
}

func (s *FAQService) Create(ctx context.Context, cmd *faq.CreateEntryCommand, c Caller) (*faq.Entry, error) {
	if _, err := check(basicPrincipal(c), access.FAQ, access.Create, access.Target{}); err != nil {
		return nil, err
	}
	var errs []string
	if strings.TrimSpace(cmd.Question) == "" {
		errs = append(errs, "question is required")
	}
	if strings.TrimSpace(cmd.Answer) == "" {
		errs = append(errs, "answer is required")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	e := &faq.Entry{
		ID:       uuid.New(),
		Question: strings.TrimSpace(cmd.Question),
		Answer:   strings.TrimSpace(cmd.Answer),
	}
	if err := s.uow.FAQs().Create(ctx, e); err != nil {
		s.log.Error("failed to create faq entry", zap.Error(err))
		return nil, fmt.Errorf("creating faq entry: %w", err)
	}

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionCreate, "faq", e.ID.String()))
	s.log.Info("faq entry created", zap.String("faq_id", e.ID.String()))
	return e, nil
}

func (s *FAQService) Update(ctx context.Context, id uuid.UUID, cmd *faq.UpdateEntryCommand, c Caller) (*faq.Entry, error) {
	if err := checkPathID(id, cmd.ID); err != nil {
		return nil, err
	}
	if _, err := check(basicPrincipal(c), access.FAQ, access.Update, access.Target{}); err != nil {
		return nil, err
	}

	e, err := s.uow.FAQs().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cmd.Question != nil {
		e.Question = strings.TrimSpace(*cmd.Question)
	}
	if cmd.Answer != nil {
		e.Answer = strings.TrimSpace(*cmd.Answer)
	}
	if e.Question == "" || e.Answer == "" {
		return nil, &ValidationError{Fields: []string{"question and answer cannot be empty"}}
	}
	if err := s.uow.FAQs().Update(ctx, e); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionUpdate, "faq", id.String()))
	s.log.Info("faq entry updated", zap.String("faq_id", id.String()))
	return e, nil
}

func (s *FAQService) Delete(ctx context.Context, id uuid.UUID, c Caller) error {
	if _, err := check(basicPrincipal(c), access.FAQ, access.Delete, access.Target{}); err != nil {
		return err
	}
	if err := s.uow.FAQs().Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionDelete, "faq", id.String()))
	s.log.Info("faq entry deleted", zap.String("faq_id", id.String()))
	return nil
}
