package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/access"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/department"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/room"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/uow"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DepartmentService struct {
	uow      uow.UnitOfWork
	auditSvc *AuditService
	log      *zap.Logger
}

func NewDepartmentService(u uow.UnitOfWork, auditSvc *AuditService, log *zap.Logger) *DepartmentService {
	return &DepartmentService{uow: u, auditSvc: auditSvc, log: log}
}

func (s *DepartmentService) Create(ctx context.Context, cmd *department.CreateDepartmentCommand, c Caller) (*department.Department, error) {
	if _, err := check(basicPrincipal(c), access.Department, access.Create, access.Target{}); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, &ValidationError{Fields: []string{"name is required"}}
	}

	d := &department.Department{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(cmd.Name),
		Description: cmd.Description,
	}
	if err := s.uow.Departments().Create(ctx, d); err != nil {
		if errors.Is(err, department.ErrDuplicateName) {
			return nil, err
		}
		s.log.Error("failed to create department", zap.Error(err))
		return nil, fmt.Errorf("creating department: %w", err)
	}

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionCreate, "department", d.ID.String()))
	s.log.Info("department created", zap.String("department_id", d.ID.String()), zap.String("name", d.Name))
	return d, nil
}

func (s *DepartmentService) Get(ctx context.Context, id uuid.UUID, c Caller) (*department.Department, error) {
	if _, err := check(basicPrincipal(c), access.Department, access.Read, access.Target{}); err != nil {
		return nil, err
	}
	return s.uow.Departments().GetByID(ctx, id)
}

func (s *DepartmentService) List(ctx context.Context, c Caller) ([]*department.Department, error) {
	if _, err := check(basicPrincipal(c), access.Department, access.List, access.Target{}); err != nil {
		return nil, err
	}
	return s.uow.Departments().List(ctx)
}

func (s *DepartmentService) Update(ctx context.Context, id uuid.UUID, cmd *department.UpdateDepartmentCommand, c Caller) (*department.Department, error) {
	if err := checkPathID(id, cmd.ID); err != nil {
		return nil, err
	}
	if _, err := check(basicPrincipal(c), access.Department, access.Update, access.Target{}); err != nil {
		return nil, err
	}

	d, err := s.uow.Departments().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cmd.Name != nil {
		if strings.TrimSpace(*cmd.Name) == "" {
			return nil, &ValidationError{Fields: []string{"name cannot be empty"}}
		}
		d.Name = strings.TrimSpace(*cmd.Name)
	}
	if cmd.Description != nil {
		d.Description = *cmd.Description
	}
	if err := s.uow.Departments().Update(ctx, d); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionUpdate, "department", id.String()))
	s.log.Info("department updated", zap.String("department_id", id.String()))
	return d, nil
}

func (s *DepartmentService) Delete(ctx context.Context, id uuid.UUID, c Caller) error {
	if _, err := check(basicPrincipal(c), access.Department, access.Delete, access.Target{}); err != nil {
		return err
	}
	if err := s.uow.Departments().Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionDelete, "department", id.String()))
	s.log.Info("department deleted", zap.String("department_id", id.String()))
	return nil
}

// ListRooms returns the rooms of an existing department.
func (s *DepartmentService) ListRooms(ctx context.Context, id uuid.UUID, c Caller) ([]*room.Room, error) {
	if _, err := check(basicPrincipal(c), access.Room, access.List, access.Target{}); err != nil {
		return nil, err
	}
	if _, err := s.uow.Departments().GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.uow.Rooms().ListByDepartment(ctx, id)
}
