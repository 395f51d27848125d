package service

import (
	"context"
	"fmt"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/access"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/department"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/uow"
	"go.uber.org/zap"
)

// Dashboard is the admin landing page summary.
type Dashboard struct {
	Appointments int64                    `json:"appointments"`
	Patients     int64                    `json:"patients"`
	Doctors      int64                    `json:"doctors"`
	Nurses       int64                    `json:"nurses"`
	Departments  []*department.Department `json:"departments"`
}

type DashboardService struct {
	uow uow.UnitOfWork
	log *zap.Logger
}

func NewDashboardService(u uow.UnitOfWork, log *zap.Logger) *DashboardService {
	return &DashboardService{uow: u, log: log}
}

func (s *DashboardService) Summary(ctx context.Context, c Caller) (*Dashboard, error) {
	if _, err := check(basicPrincipal(c), access.Dashboard, access.Read, access.Target{}); err != nil {
		return nil, err
	}

	var (
		d   Dashboard
		err error
	)
	if d.Appointments, err = s.uow.Appointments().Count(ctx); err != nil {
		return nil, fmt.Errorf("counting appointments: %w", err)
	}
	if d.Patients, err = s.uow.Patients().Count(ctx); err != nil {
		return nil, fmt.Errorf("counting patients: %w", err)
	}
	if d.Doctors, err = s.uow.Doctors().Count(ctx); err != nil {
		return nil, fmt.Errorf("counting doctors: %w", err)
	}
	if d.Nurses, err = s.uow.Nurses().Count(ctx); err != nil {
		return nil, fmt.Errorf("counting nurses: %w", err)
	}
	if d.Departments, err = s.uow.Departments().List(ctx); err != nil {
		return nil, fmt.Errorf("listing departments: %w", err)
	}

	s.log.Debug("dashboard built",
		zap.Int64("appointments", d.Appointments),
		zap.Int64("patients", d.Patients),
	)
	return &d, nil
}
