package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/access"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/patient"
	pr "github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/patient_request"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/uow"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/notify"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PatientRequestService handles self-registration: anyone submits, an admin
// approves into a patient account or rejects.
type PatientRequestService struct {
	uow          uow.UnitOfWork
	patients     *PatientService
	provisioning *ProvisioningService
	auditSvc     *AuditService
	mail         mailer
	log          *zap.Logger
	now          func() time.Time
}

func NewPatientRequestService(
	u uow.UnitOfWork,
	patients *PatientService,
	provisioning *ProvisioningService,
	auditSvc *AuditService,
	sender notify.Sender,
	m *metrics.Collector,
	log *zap.Logger,
) *PatientRequestService {
	return &PatientRequestService{
		uow:          u,
		patients:     patients,
		provisioning: provisioning,
		auditSvc:     auditSvc,
		mail:         mailer{sender: sender, metrics: m, log: log},
		log:          log,
		now:          time.Now,
	}
}

func (s *PatientRequestService) Submit(ctx context.Context, cmd *pr.SubmitRequestCommand, c Caller) (*pr.PatientRequest, error) {
	if _, err := check(basicPrincipal(c), access.PatientRequest, access.Create, access.Target{}); err != nil {
		return nil, err
	}
	if err := validateSubmitRequestCommand(cmd, s.now()); err != nil {
		return nil, err
	}

	req := &pr.PatientRequest{
		ID:          uuid.New(),
		FullName:    strings.TrimSpace(cmd.FullName),
		UserName:    strings.TrimSpace(cmd.UserName),
		DateOfBirth: cmd.DateOfBirth,
		Gender:      cmd.Gender,
		Address:     strings.TrimSpace(cmd.Address),
		Major:       strings.TrimSpace(cmd.Major),
		BloodType:   cmd.BloodType,
		Status:      pr.StatusPending,
	}
	if err := s.uow.PatientRequests().Create(ctx, req); err != nil {
		s.log.Error("failed to store patient request", zap.Error(err))
		return nil, fmt.Errorf("creating patient request: %w", err)
	}

	s.log.Info("patient request submitted",
		zap.String("request_id", req.ID.String()),
		zap.String("ip", c.IP),
	)
	return req, nil
}

func (s *PatientRequestService) ListPending(ctx context.Context, c Caller) ([]*pr.PatientRequest, error) {
	if _, err := check(basicPrincipal(c), access.PatientRequest, access.List, access.Target{}); err != nil {
		return nil, err
	}
	return s.uow.PatientRequests().ListPending(ctx)
}

func (s *PatientRequestService) Get(ctx context.Context, id uuid.UUID, c Caller) (*pr.PatientRequest, error) {
	if _, err := check(basicPrincipal(c), access.PatientRequest, access.Read, access.Target{}); err != nil {
		return nil, err
	}
	return s.uow.PatientRequests().GetByID(ctx, id)
}

// Approve turns a pending request into a patient account. Approving twice
// returns the request unchanged.
func (s *PatientRequestService) Approve(ctx context.Context, id uuid.UUID, c Caller) (*pr.PatientRequest, error) {
	if _, err := check(basicPrincipal(c), access.PatientRequest, access.Update, access.Target{}); err != nil {
		return nil, err
	}
	req, err := s.uow.PatientRequests().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch req.Status {
	case pr.StatusApproved:
		s.log.Info("patient request already approved", zap.String("request_id", id.String()))
		return req, nil
	case pr.StatusRejected:
		return nil, pr.ErrRequestAlreadyDecided
	}

	cmd := &patient.CreatePatientCommand{
		FullName:    req.FullName,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		Address:     req.Address,
		Major:       req.Major,
		BloodType:   req.BloodType,
	}
	u, err := s.provisioning.Provision(ctx, req.FullName, domain.RolePatient, func(userID uuid.UUID) error {
		cmd.UserID = userID
		return s.uow.Do(ctx, func(tx uow.UnitOfWork) error {
			p, err := s.patients.createProfile(ctx, tx, cmd)
			if err != nil {
				return err
			}
			if err := req.Approve(c.UserID, p.ID, s.now()); err != nil {
				return err
			}
			return tx.PatientRequests().Update(ctx, req)
		})
	})
	if err != nil {
		if !errors.Is(err, pr.ErrRequestAlreadyDecided) {
			s.log.Error("failed to approve patient request",
				zap.String("request_id", id.String()),
				zap.Error(err),
			)
		}
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       c.UserID,
		UserRole:     c.Role,
		Action:       domain.ActionApprove,
		ResourceType: "patient_request",
		ResourceID:   id.String(),
		IPAddress:    c.IP,
		Details:      fmt.Sprintf(`{"patient_id":%q}`, req.PatientID.String()),
	})
	s.log.Info("patient request approved",
		zap.String("request_id", id.String()),
		zap.String("login", u.Email),
	)

	body := fmt.Sprintf("Dear %s,\n\nYour patient request has been approved. You can now log in using the username: %s and the default password: %s\n\nPlease change your password after first login.",
		req.FullName, u.Email, s.provisioning.DefaultPassword())
	s.mail.bestEffort(ctx, "request_approved", u.Email, "Your USAL Clinic Account Has Been Approved", body)
	return req, nil
}

// Reject declines a pending request. Rejecting twice is a no-op; an
// approved request cannot be rejected.
func (s *PatientRequestService) Reject(ctx context.Context, id uuid.UUID, c Caller) (*pr.PatientRequest, error) {
	if _, err := check(basicPrincipal(c), access.PatientRequest, access.Update, access.Target{}); err != nil {
		return nil, err
	}
	req, err := s.uow.PatientRequests().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status == pr.StatusRejected {
		return req, nil
	}
	if err := req.Reject(c.UserID, s.now()); err != nil {
		return nil, err
	}
	if err := s.uow.PatientRequests().Update(ctx, req); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionReject, "patient_request", id.String()))
	s.log.Info("patient request rejected", zap.String("request_id", id.String()))

	body := fmt.Sprintf("Dear %s,\n\nWe regret to inform you that your patient request has been rejected.\n\nFor further inquiries, please contact support.",
		req.FullName)
	s.mail.bestEffort(ctx, "request_rejected", req.UserName, "Your USAL Clinic Account Request Has Been Rejected", body)
	return req, nil
}

func validateSubmitRequestCommand(cmd *pr.SubmitRequestCommand, now time.Time) error {
	var errs []string

	if strings.TrimSpace(cmd.FullName) == "" {
		errs = append(errs, "full_name is required")
	}
	if strings.TrimSpace(cmd.UserName) == "" {
		errs = append(errs, "user_name is required")
	}
	if cmd.DateOfBirth.IsZero() {
		errs = append(errs, "date_of_birth is required")
	} else if cmd.DateOfBirth.After(now) {
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
