package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/access"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/doctor"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/uow"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DoctorService struct {
	uow          uow.UnitOfWork
	provisioning *ProvisioningService
	auditSvc     *AuditService
	log          *zap.Logger
}

func NewDoctorService(u uow.UnitOfWork, provisioning *ProvisioningService, auditSvc *AuditService, log *zap.Logger) *DoctorService {
	return &DoctorService{uow: u, provisioning: provisioning, auditSvc: auditSvc, log: log}
}

// Create provisions the doctor's login and profile together.
func (s *DoctorService) Create(ctx context.Context, cmd *doctor.CreateDoctorCommand, c Caller) (*doctor.Doctor, error) {
	if _, err := check(basicPrincipal(c), access.Doctor, access.Create, access.Target{}); err != nil {
		return nil, err
	}
	if err := validateCreateDoctorCommand(cmd); err != nil {
		return nil, err
	}

	d := &doctor.Doctor{
		ID:                uuid.New(),
		Profession:        strings.TrimSpace(cmd.Profession),
		YearsOfExperience: cmd.YearsOfExperience,
		Address:           cmd.Address,
		Gender:            cmd.Gender,
		DateOfBirth:       cmd.DateOfBirth,
	}
	u, err := s.provisioning.Provision(ctx, cmd.FullName, domain.RoleDoctor, func(userID uuid.UUID) error {
		d.UserID = userID
		cmd.UserID = userID
		if err := s.uow.Doctors().Create(ctx, d); err != nil {
			s.log.Error("failed to create doctor", zap.Error(err))
			return fmt.Errorf("creating doctor: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	d.User = u

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionCreate, "doctor", d.ID.String()))
	s.log.Info("doctor created", zap.String("doctor_id", d.ID.String()), zap.String("user_id", u.ID.String()))
	return d, nil
}

func (s *DoctorService) Get(ctx context.Context, id uuid.UUID, c Caller) (*doctor.Doctor, error) {
	if _, err := check(basicPrincipal(c), access.Doctor, access.Read, access.Target{}); err != nil {
		return nil, err
	}
	return s.uow.Doctors().GetByID(ctx, id)
}

func (s *DoctorService) GetByUserID(ctx context.Context, userID uuid.UUID, c Caller) (*doctor.Doctor, error) {
	if _, err := check(basicPrincipal(c), access.Doctor, access.Read, access.Target{}); err != nil {
		return nil, err
	}
	return s.uow.Doctors().GetByUserID(ctx, userID)
}

func (s *DoctorService) List(ctx context.Context, c Caller) ([]*doctor.Doctor, error) {
	if _, err := check(basicPrincipal(c), access.Doctor, access.List, access.Target{}); err != nil {
		return nil, err
	}
	return s.uow.Doctors().List(ctx)
}

func (s *DoctorService) Update(ctx context.Context, id uuid.UUID, cmd *doctor.UpdateDoctorCommand, c Caller) (*doctor.Doctor, error) {
	if err := checkPathID(id, cmd.ID); err != nil {
		return nil, err
	}
	if _, err := check(basicPrincipal(c), access.Doctor, access.Update, access.Target{}); err != nil {
		return nil, err
	}

	d, err := s.uow.Doctors().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cmd.Profession != nil {
		if strings.TrimSpace(*cmd.Profession) == "" {
			return nil, &ValidationError{Fields: []string{"profession cannot be empty"}}
		}
		d.Profession = strings.TrimSpace(*cmd.Profession)
	}
	if cmd.YearsOfExperience != nil {
		if *cmd.YearsOfExperience < 0 {
			return nil, &ValidationError{Fields: []string{doctor.ErrInvalidExperience.Error()}}
		}
		d.YearsOfExperience = *cmd.YearsOfExperience
	}
	if cmd.Address != nil {
		d.Address = *cmd.Address
	}
	if cmd.Gender != nil {
		d.Gender = *cmd.Gender
	}
	if cmd.DateOfBirth != nil {
		d.DateOfBirth = *cmd.DateOfBirth
	}
	if err := s.uow.Doctors().Update(ctx, d); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionUpdate, "doctor", id.String()))
	s.log.Info("doctor updated", zap.String("doctor_id", id.String()))
	return d, nil
}

func (s *DoctorService) Delete(ctx context.Context, id uuid.UUID, c Caller) error {
	if _, err := check(basicPrincipal(c), access.Doctor, access.Delete, access.Target{}); err != nil {
		return err
	}
	if err := s.uow.Doctors().Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionDelete, "doctor", id.String()))
	s.log.Info("doctor deleted", zap.String("doctor_id", id.String()))
	return nil
}

func (s *DoctorService) AssignDepartment(ctx context.Context, doctorID, departmentID uuid.UUID, c Caller) error {
	if _, err := check(basicPrincipal(c), access.Doctor, access.Update, access.Target{}); err != nil {
		return err
	}
	err := s.uow.Do(ctx, func(tx uow.UnitOfWork) error {
		if _, err := tx.Doctors().GetByID(ctx, doctorID); err != nil {
			return err
		}
		if _, err := tx.Departments().GetByID(ctx, departmentID); err != nil {
			return err
		}
		return tx.Doctors().AssignDepartment(ctx, &doctor.DoctorDepartment{DoctorID: doctorID, DepartmentID: departmentID})
	})
	if err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       c.UserID,
		UserRole:     c.Role,
		Action:       domain.ActionUpdate,
		ResourceType: "doctor",
		ResourceID:   doctorID.String(),
		IPAddress:    c.IP,
		Details:      fmt.Sprintf(`{"assigned_department":%q}`, departmentID),
	})
	s.log.Info("doctor assigned to department",
		zap.String("doctor_id", doctorID.String()),
		zap.String("department_id", departmentID.String()),
	)
	return nil
}

func (s *DoctorService) UnassignDepartment(ctx context.Context, doctorID, departmentID uuid.UUID, c Caller) error {
	if _, err := check(basicPrincipal(c), access.Doctor, access.Update, access.Target{}); err != nil {
		return err
	}
	if err := s.uow.Doctors().UnassignDepartment(ctx, doctorID, departmentID); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       c.UserID,
		UserRole:     c.Role,
		Action:       domain.ActionUpdate,
		ResourceType: "doctor",
		ResourceID:   doctorID.String(),
		IPAddress:    c.IP,
		Details:      fmt.Sprintf(`{"unassigned_department":%q}`, departmentID),
	})
	s.log.Info("doctor unassigned from department",
		zap.String("doctor_id", doctorID.String()),
		zap.String("department_id", departmentID.String()),
	)
	return nil
}

func validateCreateDoctorCommand(cmd *doctor.CreateDoctorCommand) error {
	var errs []string

	if strings.TrimSpace(cmd.FullName) == "" {
		errs = append(errs, "full_name is required")
	}
	if strings.TrimSpace(cmd.Profession) == "" {
		errs = append(errs, "profession is required")
	}
	if cmd.YearsOfExperience < 0 {
		errs = append(errs, doctor.ErrInvalidExperience.Error())
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
