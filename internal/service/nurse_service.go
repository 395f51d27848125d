package service

import (
	"context"
	"fmt"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/access"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/nurse"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/uow"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NurseService struct {
	uow          uow.UnitOfWork
	provisioning *ProvisioningService
	auditSvc     *AuditService
	log          *zap.Logger
}

func NewNurseService(u uow.UnitOfWork, provisioning *ProvisioningService, auditSvc *AuditService, log *zap.Logger) *NurseService {
	return &NurseService{uow: u, provisioning: provisioning, auditSvc: auditSvc, log: log}
}

// Create provisions the nurse's login and profile together.
func (s *NurseService) Create(ctx context.Context, cmd *nurse.CreateNurseCommand, c Caller) (*nurse.Nurse, error) {
	if _, err := check(basicPrincipal(c), access.Nurse, access.Create, access.Target{}); err != nil {
		return nil, err
	}
	if cmd.YearsOfExperience < 0 {
		return nil, &ValidationError{Fields: []string{"years_of_experience cannot be negative"}}
	}

	n := &nurse.Nurse{
		ID:                uuid.New(),
		Gender:            cmd.Gender,
		DateOfBirth:       cmd.DateOfBirth,
		Address:           cmd.Address,
		PhoneNumber:       cmd.PhoneNumber,
		YearsOfExperience: cmd.YearsOfExperience,
	}
	u, err := s.provisioning.Provision(ctx, cmd.FullName, domain.RoleNurse, func(userID uuid.UUID) error {
		n.UserID = userID
		cmd.UserID = userID
		if err := s.uow.Nurses().Create(ctx, n); err != nil {
			s.log.Error("failed to create nurse", zap.Error(err))
			return fmt.Errorf("creating nurse: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	n.User = u

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionCreate, "nurse", n.ID.String()))
	s.log.Info("nurse created", zap.String("nurse_id", n.ID.String()), zap.String("user_id", u.ID.String()))
	return n, nil
}

func (s *NurseService) Get(ctx context.Context, id uuid.UUID, c Caller) (*nurse.Nurse, error) {
	if _, err := check(basicPrincipal(c), access.Nurse, access.Read, access.Target{}); err != nil {
		return nil, err
	}
	return s.uow.Nurses().GetByID(ctx, id)
}

func (s *NurseService) GetByUserID(ctx context.Context, userID uuid.UUID, c Caller) (*nurse.Nurse, error) {
	if _, err := check(basicPrincipal(c), access.Nurse, access.Read, access.Target{}); err != nil {
		return nil, err
	}
	return s.uow.Nurses().GetByUserID(ctx, userID)
}

func (s *NurseService) List(ctx context.Context, c Caller) ([]*nurse.Nurse, error) {
	if _, err := check(basicPrincipal(c), access.Nurse, access.List, access.Target{}); err != nil {
		return nil, err
	}
	return s.uow.Nurses().List(ctx)
}

func (s *NurseService) Update(ctx context.Context, id uuid.UUID, cmd *nurse.UpdateNurseCommand, c Caller) (*nurse.Nurse, error) {
	if err := checkPathID(id, cmd.ID); err != nil {
		return nil, err
	}
	if _, err := check(basicPrincipal(c), access.Nurse, access.Update, access.Target{}); err != nil {
		return nil, err
	}

	n, err := s.uow.Nurses().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cmd.Gender != nil {
		n.Gender = *cmd.Gender
	}
	if cmd.DateOfBirth != nil {
		n.DateOfBirth = *cmd.DateOfBirth
	}
	if cmd.Address != nil {
		n.Address = *cmd.Address
	}
	if cmd.PhoneNumber != nil {
		n.PhoneNumber = *cmd.PhoneNumber
	}
	if cmd.YearsOfExperience != nil {
		if *cmd.YearsOfExperience < 0 {
			return nil, &ValidationError{Fields: []string{"years_of_experience cannot be negative"}}
		}
		n.YearsOfExperience = *cmd.YearsOfExperience
	}
	if err := s.uow.Nurses().Update(ctx, n); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionUpdate, "nurse", id.String()))
	s.log.Info("nurse updated", zap.String("nurse_id", id.String()))
	return n, nil
}

func (s *NurseService) Delete(ctx context.Context, id uuid.UUID, c Caller) error {
	if _, err := check(basicPrincipal(c), access.Nurse, access.Delete, access.Target{}); err != nil {
		return err
	}
	if err := s.uow.Nurses().Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionDelete, "nurse", id.String()))
	s.log.Info("nurse deleted", zap.String("nurse_id", id.String()))
	return nil
}
