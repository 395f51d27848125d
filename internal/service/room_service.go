package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/access"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/room"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/uow"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RoomService struct {
	uow      uow.UnitOfWork
	auditSvc *AuditService
	log      *zap.Logger
}

func NewRoomService(u uow.UnitOfWork, auditSvc *AuditService, log *zap.Logger) *RoomService {
	return &RoomService{uow: u, auditSvc: auditSvc, log: log}
}

func (s *RoomService) Create(ctx context.Context, cmd *room.CreateRoomCommand, c Caller) (*room.Room, error) {
	if _, err := check(basicPrincipal(c), access.Room, access.Create, access.Target{}); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cmd.RoomNumber) == "" {
		return nil, &ValidationError{Fields: []string{room.ErrRoomNumberMissing.Error()}}
	}
	if _, err := s.uow.Departments().GetByID(ctx, cmd.DepartmentID); err != nil {
		return nil, err
	}

	r := &room.Room{
		ID:           uuid.New(),
		DepartmentID: cmd.DepartmentID,
		RoomNumber:   strings.TrimSpace(cmd.RoomNumber),
		RoomType:     cmd.RoomType,
		IsAvailable:  true,
		Description:  cmd.Description,
	}
	if cmd.IsAvailable != nil {
		r.IsAvailable = *cmd.IsAvailable
	}
	if err := s.uow.Rooms().Create(ctx, r); err != nil {
		s.log.Error("failed to create room", zap.Error(err))
		return nil, fmt.Errorf("creating room: %w", err)
	}

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionCreate, "room", r.ID.String()))
	s.log.Info("room created", zap.String("room_id", r.ID.String()), zap.String("room_number", r.RoomNumber))
	return r, nil
}

func (s *RoomService) Get(ctx context.Context, id uuid.UUID, c Caller) (*room.Room, error) {
	if _, err := check(basicPrincipal(c), access.Room, access.Read, access.Target{}); err != nil {
		return nil, err
	}
	return s.uow.Rooms().GetByID(ctx, id)
}

func (s *RoomService) List(ctx context.Context, c Caller) ([]*room.Room, error) {
	if _, err := check(basicPrincipal(c), access.Room, access.List, access.Target{}); err != nil {
		return nil, err
	}
	return s.uow.Rooms().List(ctx)
}

func (s *RoomService) ListByDepartment(ctx context.Context, departmentID uuid.UUID, c Caller) ([]*room.Room, error) {
	if _, err := check(basicPrincipal(c), access.Room, access.List, access.Target{}); err != nil {
		return nil, err
	}
	return s.uow.Rooms().ListByDepartment(ctx, departmentID)
}

// CheckAvailability reports whether the room is free for use.
func (s *RoomService) CheckAvailability(ctx context.Context, id uuid.UUID, c Caller) (bool, error) {
	r, err := s.Get(ctx, id, c)
	if err != nil {
		return false, err
	}
	return r.IsAvailable, nil
}

func (s *RoomService) Update(ctx context.Context, id uuid.UUID, cmd *room.UpdateRoomCommand, c Caller) (*room.Room, error) {
	if err := checkPathID(id, cmd.ID); err != nil {
		return nil, err
	}
	if _, err := check(basicPrincipal(c), access.Room, access.Update, access.Target{}); err != nil {
		return nil, err
	}

	r, err := s.uow.Rooms().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cmd.DepartmentID != nil && *cmd.DepartmentID != r.DepartmentID {
		if _, err := s.uow.Departments().GetByID(ctx, *cmd.DepartmentID); err != nil {
			return nil, err
		}
		r.DepartmentID = *cmd.DepartmentID
	}
	if cmd.RoomNumber != nil {
		if strings.TrimSpace(*cmd.RoomNumber) == "" {
			return nil, &ValidationError{Fields: []string{room.ErrRoomNumberMissing.Error()}}
		}
		r.RoomNumber = strings.TrimSpace(*cmd.RoomNumber)
	}
	if cmd.RoomType != nil {
		r.RoomType = *cmd.RoomType
	}
	if cmd.IsAvailable != nil {
		r.IsAvailable = *cmd.IsAvailable
	}
	if cmd.Description != nil {
		r.Description = *cmd.Description
	}
	if err := s.uow.Rooms().Update(ctx, r); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionUpdate, "room", id.String()))
	s.log.Info("room updated", zap.String("room_id", id.String()))
	return r, nil
}

func (s *RoomService) Delete(ctx context.Context, id uuid.UUID, c Caller) error {
	if _, err := check(basicPrincipal(c), access.Room, access.Delete, access.Target{}); err != nil {
		return err
	}
	if err := s.uow.Rooms().Delete(ctx, id); err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			s.log.Warn("room not found for delete", zap.String("room_id", id.String()))
		}
		return err
	}

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionDelete, "room", id.String()))
	s.log.Info("room deleted", zap.String("room_id", id.String()))
	return nil
}
