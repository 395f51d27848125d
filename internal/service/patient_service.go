package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/access"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/uow"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PatientService struct {
	uow          uow.UnitOfWork
	provisioning *ProvisioningService
	auditSvc     *AuditService
	metrics      *metrics.Collector
	log          *zap.Logger
}

func NewPatientService(u uow.UnitOfWork, provisioning *ProvisioningService, auditSvc *AuditService, m *metrics.Collector, log *zap.Logger) *PatientService {
	return &PatientService{
		uow:          u,
		provisioning: provisioning,
		auditSvc:     auditSvc,
		metrics:      m,
		log:          log,
	}
}

// Create provisions the patient's login and profile together.
func (s *PatientService) Create(ctx context.Context, cmd *patient.CreatePatientCommand, c Caller) (*patient.Patient, error) {
	if _, err := check(basicPrincipal(c), access.Patient, access.Create, access.Target{}); err != nil {
		return nil, err
	}
	if err := validateCreatePatientCommand(cmd); err != nil {
		return nil, err
	}

	var p *patient.Patient
	u, err := s.provisioning.Provision(ctx, cmd.FullName, domain.RolePatient, func(userID uuid.UUID) error {
		cmd.UserID = userID
		var err error
		p, err = s.createProfile(ctx, s.uow, cmd)
		return err
	})
	if err != nil {
		return nil, err
	}
	p.User = u

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionCreate, "patient", p.ID.String()))
	s.log.Info("patient created",
		zap.String("patient_id", p.ID.String()),
		zap.String("created_by", c.UserID.String()),
	)
	return p, nil
}

// createProfile writes the patient row for an identity that has none yet.
func (s *PatientService) createProfile(ctx context.Context, u uow.UnitOfWork, cmd *patient.CreatePatientCommand) (*patient.Patient, error) {
	exists, err := u.Patients().ExistsByUserID(ctx, cmd.UserID)
	if err != nil {
		s.log.Error("failed to check patient uniqueness", zap.Error(err))
		return nil, fmt.Errorf("checking uniqueness: %w", err)
	}
	if exists {
		return nil, patient.ErrPatientAlreadyExists
	}

	bloodType := cmd.BloodType
	if bloodType == "" {
		bloodType = patient.BloodTypeUnknown
	}
	p := &patient.Patient{
		ID:          uuid.New(),
		UserID:      cmd.UserID,
		DateOfBirth: cmd.DateOfBirth,
		Gender:      cmd.Gender,
		Address:     strings.TrimSpace(cmd.Address),
		Major:       strings.TrimSpace(cmd.Major),
		BloodType:   bloodType,
	}
	if err := u.Patients().Create(ctx, p); err != nil {
		s.log.Error("failed to create patient", zap.Error(err))
		return nil, fmt.Errorf("creating patient: %w", err)
	}
	s.metrics.PatientsCreatedTotal.Inc()
	return p, nil
}

// Get lets a patient read only their own profile.
func (s *PatientService) Get(ctx context.Context, id uuid.UUID, c Caller) (*patient.Patient, error) {
	if _, _, err := authorize(ctx, s.uow, c, access.Patient, access.Read, access.Target{PatientID: ref(id)}); err != nil {
		return nil, err
	}

	p, err := s.uow.Patients().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionRead, "patient", id.String()))
	return p, nil
}

// OwnID returns the patient profile id of the caller, for redirecting a
// patient away from the list.
func (s *PatientService) OwnID(ctx context.Context, c Caller) (uuid.UUID, error) {
	p, err := s.uow.Patients().GetByUserID(ctx, c.UserID)
	if err != nil {
		return uuid.Nil, err
	}
	return p.ID, nil
}

// List returns every patient to admins and nurses, and to a doctor only the
// patients with a record or appointment by that doctor.
func (s *PatientService) List(ctx context.Context, q *patient.ListPatientsQuery, c Caller) (*patient.PagedPatients, error) {
	_, d, err := authorize(ctx, s.uow, c, access.Patient, access.List, access.Target{})
	if err != nil {
		return nil, err
	}
	if d.Effect == access.AllowScoped && d.Scope == access.ScopeOwnDoctor {
		q.VisibleToDoctorUserID = ref(c.UserID)
	} else {
		q.VisibleToDoctorUserID = nil
	}
	return s.uow.Patients().List(ctx, q)
}

func (s *PatientService) Update(ctx context.Context, id uuid.UUID, cmd *patient.UpdatePatientCommand, c Caller) (*patient.Patient, error) {
	if err := checkPathID(id, cmd.ID); err != nil {
		return nil, err
	}
	if _, err := check(basicPrincipal(c), access.Patient, access.Update, access.Target{PatientID: ref(id)}); err != nil {
		return nil, err
	}

	p, err := s.uow.Patients().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var errs []string
	if cmd.DateOfBirth != nil {
		if cmd.DateOfBirth.After(time.Now()) {
			errs = append(errs, patient.ErrInvalidDateOfBirth.Error())
		}
		p.DateOfBirth = *cmd.DateOfBirth
	}
	if cmd.Gender != nil {
		if !cmd.Gender.IsValid() {
			errs = append(errs, patient.ErrInvalidGender.Error())
		}
		p.Gender = *cmd.Gender
	}
	if cmd.BloodType != nil {
		if !cmd.BloodType.IsValid() {
			errs = append(errs, patient.ErrInvalidBloodType.Error())
		}
		p.BloodType = *cmd.BloodType
	}
	if cmd.Address != nil {
		p.Address = strings.TrimSpace(*cmd.Address)
	}
	if cmd.Major != nil {
		p.Major = strings.TrimSpace(*cmd.Major)
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	if err := s.uow.Patients().Update(ctx, p); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionUpdate, "patient", id.String()))
	s.log.Info("patient updated", zap.String("patient_id", id.String()))
	return p, nil
}

func (s *PatientService) Delete(ctx context.Context, id uuid.UUID, c Caller) error {
	if _, err := check(basicPrincipal(c), access.Patient, access.Delete, access.Target{PatientID: ref(id)}); err != nil {
		return err
	}
	if err := s.uow.Patients().Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionDelete, "patient", id.String()))
	s.log.Info("patient deleted", zap.String("patient_id", id.String()))
	return nil
}

func validateCreatePatientCommand(cmd *patient.CreatePatientCommand) error {
	var errs []string

	if strings.TrimSpace(cmd.FullName) == "" {
		errs = append(errs, "full_name is required")
	}
	if cmd.DateOfBirth.IsZero() {
		errs = append(errs, "date_of_birth is required")
	}
	if cmd.DateOfBirth.After(time.Now()) {
		errs = append(errs, patient.ErrInvalidDateOfBirth.Error())
	}
	if !cmd.Gender.IsValid() {
		errs = append(errs, patient.ErrInvalidGender.Error())
	}
	if cmd.BloodType != "" && !cmd.BloodType.IsValid() {
		errs = append(errs, patient.ErrInvalidBloodType.Error())
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
