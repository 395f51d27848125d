package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/access"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	mr "github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/medical_record"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/uow"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MedicalRecordService struct {
	uow      uow.UnitOfWork
	auditSvc *AuditService
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewMedicalRecordService(u uow.UnitOfWork, auditSvc *AuditService, m *metrics.Collector, log *zap.Logger) *MedicalRecordService {
	return &MedicalRecordService{uow: u, auditSvc: auditSvc, metrics: m, log: log}
}

// VisibleForPatient picks the one record of patientID the caller may see: a
// doctor sees the record they authored, everyone else the most recent one.
// A patient asking about someone else is refused before any record lookup.
func (s *MedicalRecordService) VisibleForPatient(ctx context.Context, patientID uuid.UUID, c Caller) (*mr.MedicalRecord, error) {
	p, err := resolvePrincipal(ctx, s.uow, c)
	if err != nil {
		return nil, err
	}
	t := access.Target{PatientID: ref(patientID)}
	if p.Role == domain.RolePatient {
		if _, err := check(p, access.MedicalRecord, access.Read, t); err != nil {
			s.log.Warn("patient asked for another patient's record",
				zap.String("patient_id", patientID.String()),
				zap.String("user_id", c.UserID.String()),
			)
			return nil, err
		}
	}

	records, err := s.uow.MedicalRecords().ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	if len(records) == 0 {
		s.log.Warn("no medical records for patient", zap.String("patient_id", patientID.String()))
		return nil, mr.ErrRecordNotFound
	}

	d, err := check(p, access.MedicalRecord, access.Read, t)
	if err != nil {
		return nil, err
	}

	var rec *mr.MedicalRecord
	if d.Effect == access.AllowScoped && d.Scope == access.ScopeOwnDoctor {
		rec = mr.AuthoredBy(records, *p.DoctorID)
		if rec == nil {
			return nil, fmt.Errorf("%w: no record authored by caller", ErrForbidden)
		}
	} else {
		rec = mr.Latest(records)
	}

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionRead, "medical_record", rec.ID.String()))
	return rec, nil
}

// Create writes the single record a doctor keeps for a patient. A doctor
// always authors as themselves; an admin names the doctor.
func (s *MedicalRecordService) Create(ctx context.Context, cmd *mr.CreateRecordCommand, c Caller) (*mr.MedicalRecord, error) {
	p, d, err := authorize(ctx, s.uow, c, access.MedicalRecord, access.Create, access.Target{PatientID: ref(cmd.PatientID)})
	if err != nil {
		return nil, err
	}
	if d.Effect == access.AllowScoped && d.Scope == access.ScopeOwnDoctor {
		cmd.DoctorID = *p.DoctorID
	}
	if err := validateCreateRecordCommand(cmd); err != nil {
		return nil, err
	}

	if _, err := s.uow.Patients().GetByID(ctx, cmd.PatientID); err != nil {
		return nil, err
	}
	if _, err := s.uow.Doctors().GetByID(ctx, cmd.DoctorID); err != nil {
		return nil, err
	}

	rec := &mr.MedicalRecord{
		ID:            uuid.New(),
		PatientID:     cmd.PatientID,
		DoctorID:      cmd.DoctorID,
		AppointmentID: cmd.AppointmentID,
		Diagnosis:     strings.TrimSpace(cmd.Diagnosis),
		Prescription:  cmd.Prescription,
		Notes:         cmd.Notes,
	}

	err = s.uow.Do(ctx, func(tx uow.UnitOfWork) error {
		_, err := tx.MedicalRecords().GetByDoctorAndPatient(ctx, rec.DoctorID, rec.PatientID)
		switch {
		case err == nil:
			return mr.ErrRecordConflict
		case !errors.Is(err, mr.ErrRecordNotFound):
			return fmt.Errorf("checking existing record: %w", err)
		}
		return tx.MedicalRecords().Create(ctx, rec)
	})
	if err != nil {
		if errors.Is(err, mr.ErrRecordConflict) {
			s.log.Warn("medical record already exists",
				zap.String("doctor_id", rec.DoctorID.String()),
				zap.String("patient_id", rec.PatientID.String()),
			)
			return nil, err
		}
		s.log.Error("failed to create medical record", zap.Error(err))
		return nil, fmt.Errorf("creating record: %w", err)
	}

	s.metrics.MedicalRecordsCreated.Inc()
	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionCreate, "medical_record", rec.ID.String()))
	s.log.Info("medical record created",
		zap.String("record_id", rec.ID.String()),
		zap.String("patient_id", rec.PatientID.String()),
		zap.String("doctor_id", rec.DoctorID.String()),
	)
	return rec, nil
}

func (s *MedicalRecordService) Get(ctx context.Context, id uuid.UUID, c Caller) (*mr.MedicalRecord, error) {
	p, err := resolvePrincipal(ctx, s.uow, c)
	if err != nil {
		return nil, err
	}
	rec, err := s.uow.MedicalRecords().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := check(p, access.MedicalRecord, access.Read, recordTarget(rec)); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionRead, "medical_record", id.String()))
	return rec, nil
}

// ListByPatient returns a patient's records newest first, narrowed to the
// caller's own records for doctors.
func (s *MedicalRecordService) ListByPatient(ctx context.Context, patientID uuid.UUID, c Caller) ([]*mr.MedicalRecord, error) {
	p, d, err := authorize(ctx, s.uow, c, access.MedicalRecord, access.Read, access.Target{PatientID: ref(patientID)})
	if err != nil {
		return nil, err
	}
	records, err := s.uow.MedicalRecords().ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	if d.Effect == access.AllowScoped && d.Scope == access.ScopeOwnDoctor {
		if own := mr.AuthoredBy(records, *p.DoctorID); own != nil {
			return []*mr.MedicalRecord{own}, nil
		}
		return []*mr.MedicalRecord{}, nil
	}
	return records, nil
}

func (s *MedicalRecordService) Update(ctx context.Context, id uuid.UUID, cmd *mr.UpdateRecordCommand, c Caller) (*mr.MedicalRecord, error) {
	if err := checkPathID(id, cmd.ID); err != nil {
		return nil, err
	}
	p, err := resolvePrincipal(ctx, s.uow, c)
	if err != nil {
		return nil, err
	}
	rec, err := s.uow.MedicalRecords().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := check(p, access.MedicalRecord, access.Update, recordTarget(rec)); err != nil {
		return nil, err
	}

	if cmd.Diagnosis != nil {
		if strings.TrimSpace(*cmd.Diagnosis) == "" {
			return nil, &ValidationError{Fields: []string{mr.ErrDiagnosisRequired.Error()}}
		}
		rec.Diagnosis = strings.TrimSpace(*cmd.Diagnosis)
	}
	if cmd.AppointmentID != nil {
		rec.AppointmentID = cmd.AppointmentID
	}
	if cmd.Prescription != nil {
		rec.Prescription = *cmd.Prescription
	}
	if cmd.Notes != nil {
		rec.Notes = *cmd.Notes
	}
	if err := s.uow.MedicalRecords().Update(ctx, rec); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionUpdate, "medical_record", id.String()))
	s.log.Info("medical record updated", zap.String("record_id", id.String()))
	return rec, nil
}

func (s *MedicalRecordService) Delete(ctx context.Context, id uuid.UUID, c Caller) error {
	p, err := resolvePrincipal(ctx, s.uow, c)
	if err != nil {
		return err
	}
	rec, err := s.uow.MedicalRecords().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := check(p, access.MedicalRecord, access.Delete, recordTarget(rec)); err != nil {
		return err
	}
	if err := s.uow.MedicalRecords().Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionDelete, "medical_record", id.String()))
	s.log.Info("medical record deleted", zap.String("record_id", id.String()))
	return nil
}

func recordTarget(rec *mr.MedicalRecord) access.Target {
	return access.Target{PatientID: ref(rec.PatientID), DoctorID: ref(rec.DoctorID)}
}

func validateCreateRecordCommand(cmd *mr.CreateRecordCommand) error {
	var errs []string

	if cmd.PatientID == uuid.Nil {
		errs = append(errs, "patient_id is required")
	}
	if cmd.DoctorID == uuid.Nil {
		errs = append(errs, "doctor_id is required")
	}
	if strings.TrimSpace(cmd.Diagnosis) == "" {
		errs = append(errs, mr.ErrDiagnosisRequired.Error())
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
