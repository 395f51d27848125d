package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/access"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/prescription"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/uow"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PrescriptionService gates every prescription through the medical record
// it belongs to: doctors act on their own records, patients read theirs.
type PrescriptionService struct {
	uow      uow.UnitOfWork
	auditSvc *AuditService
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewPrescriptionService(u uow.UnitOfWork, auditSvc *AuditService, m *metrics.Collector, log *zap.Logger) *PrescriptionService {
	return &PrescriptionService{uow: u, auditSvc: auditSvc, metrics: m, log: log}
}

func (s *PrescriptionService) Create(ctx context.Context, cmd *prescription.CreatePrescriptionCommand, c Caller) (*prescription.Prescription, error) {
	if err := s.authorizeOnRecord(ctx, cmd.MedicalRecordID, c, access.Create); err != nil {
		return nil, err
	}
	if err := validateCreatePrescriptionCommand(cmd); err != nil {
		return nil, err
	}

	p := &prescription.Prescription{
		ID:              uuid.New(),
		MedicalRecordID: cmd.MedicalRecordID,
		MedicationName:  strings.TrimSpace(cmd.MedicationName),
		Dosage:          strings.TrimSpace(cmd.Dosage),
		Frequency:       strings.TrimSpace(cmd.Frequency),
		Duration:        cmd.Duration,
		Instructions:    cmd.Instructions,
	}
	if err := s.uow.Prescriptions().Create(ctx, p); err != nil {
		s.log.Error("failed to create prescription", zap.Error(err))
		return nil, fmt.Errorf("creating prescription: %w", err)
	}

	s.metrics.PrescriptionsIssued.Inc()
	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionCreate, "prescription", p.ID.String()))
	s.log.Info("prescription issued",
		zap.String("prescription_id", p.ID.String()),
		zap.String("record_id", p.MedicalRecordID.String()),
	)
	return p, nil
}

func (s *PrescriptionService) Get(ctx context.Context, id uuid.UUID, c Caller) (*prescription.Prescription, error) {
	p, err := s.uow.Prescriptions().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOnRecord(ctx, p.MedicalRecordID, c, access.Read); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns every prescription; only admins may list across records.
func (s *PrescriptionService) List(ctx context.Context, c Caller) ([]*prescription.Prescription, error) {
	if _, err := check(basicPrincipal(c), access.Prescription, access.List, access.Target{}); err != nil {
		return nil, err
	}
	return s.uow.Prescriptions().List(ctx)
}

func (s *PrescriptionService) ListByMedicalRecord(ctx context.Context, recordID uuid.UUID, c Caller) ([]*prescription.Prescription, error) {
	if err := s.authorizeOnRecord(ctx, recordID, c, access.Read); err != nil {
		return nil, err
	}
	return s.uow.Prescriptions().ListByMedicalRecord(ctx, recordID)
}

func (s *PrescriptionService) Update(ctx context.Context, id uuid.UUID, cmd *prescription.UpdatePrescriptionCommand, c Caller) (*prescription.Prescription, error) {
	if err := checkPathID(id, cmd.ID); err != nil {
		return nil, err
	}
	p, err := s.uow.Prescriptions().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOnRecord(ctx, p.MedicalRecordID, c, access.Update); err != nil {
		return nil, err
	}

	var errs []string
	set := func(dst *string, src *string, field string) {
		if src == nil {
			return
		}
		if strings.TrimSpace(*src) == "" {
			errs = append(errs, field+" cannot be empty")
			return
		}
		*dst = strings.TrimSpace(*src)
	}
	set(&p.MedicationName, cmd.MedicationName, "medication_name")
	set(&p.Dosage, cmd.Dosage, "dosage")
	set(&p.Frequency, cmd.Frequency, "frequency")
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	if cmd.Duration != nil {
		p.Duration = *cmd.Duration
	}
	if cmd.Instructions != nil {
		p.Instructions = *cmd.Instructions
	}

	if err := s.uow.Prescriptions().Update(ctx, p); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionUpdate, "prescription", id.String()))
	s.log.Info("prescription updated", zap.String("prescription_id", id.String()))
	return p, nil
}

func (s *PrescriptionService) Delete(ctx context.Context, id uuid.UUID, c Caller) error {
	p, err := s.uow.Prescriptions().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorizeOnRecord(ctx, p.MedicalRecordID, c, access.Delete); err != nil {
		return err
	}
	if err := s.uow.Prescriptions().Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionDelete, "prescription", id.String()))
	s.log.Info("prescription deleted", zap.String("prescription_id", id.String()))
	return nil
}

func (s *PrescriptionService) authorizeOnRecord(ctx context.Context, recordID uuid.UUID, c Caller, act access.Action) error {
	p, err := resolvePrincipal(ctx, s.uow, c)
	if err != nil {
		return err
	}
	rec, err := s.uow.MedicalRecords().GetByID(ctx, recordID)
	if err != nil {
		return err
	}
	_, err = check(p, access.Prescription, act, recordTarget(rec))
	return err
}

func validateCreatePrescriptionCommand(cmd *prescription.CreatePrescriptionCommand) error {
	var errs []string

	if strings.TrimSpace(cmd.MedicationName) == "" {
		errs = append(errs, "medication_name is required")
	}
	if strings.TrimSpace(cmd.Dosage) == "" {
		errs = append(errs, "dosage is required")
	}
	if strings.TrimSpace(cmd.Frequency) == "" {
		errs = append(errs, "frequency is required")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
