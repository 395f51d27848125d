package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/access"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/shift"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/uow"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/notify"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserLookup resolves the staff identity a shift belongs to.
type UserLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// someoneElse is a shift owner no caller can be, so only admins pass.
var someoneElse = access.Target{UserID: ref(uuid.Nil)}

type ShiftService struct {
	uow      uow.UnitOfWork
	users    UserLookup
	auditSvc *AuditService
	mail     mailer
	metrics  *metrics.Collector
	log      *zap.Logger
	loc      *time.Location
	now      func() time.Time
}

// NewShiftService evaluates shift coverage on the clinic's wall clock in loc.
func NewShiftService(
	u uow.UnitOfWork,
	users UserLookup,
	auditSvc *AuditService,
	sender notify.Sender,
	m *metrics.Collector,
	loc *time.Location,
	log *zap.Logger,
) *ShiftService {
	return &ShiftService{
		uow:      u,
		users:    users,
		auditSvc: auditSvc,
		mail:     mailer{sender: sender, metrics: m, log: log},
		metrics:  m,
		log:      log,
		loc:      loc,
		now:      time.Now,
	}
}

func (s *ShiftService) Create(ctx context.Context, cmd *shift.CreateShiftCommand, c Caller) (*shift.Shift, error) {
	if _, err := check(basicPrincipal(c), access.Shift, access.Create, someoneElse); err != nil {
		return nil, err
	}
	sh := &shift.Shift{
		ID:                uuid.New(),
		StaffID:           cmd.StaffID,
		DaysOfWeek:        cmd.DaysOfWeek,
		StartTime:         cmd.StartTime,
		EndTime:           cmd.EndTime,
		IsRepeatingWeekly: cmd.IsRepeatingWeekly,
		Role:              cmd.Role,
	}
	if err := validateShift(sh); err != nil {
		return nil, err
	}
	staff, err := s.users.FindByID(ctx, sh.StaffID)
	if err != nil {
		return nil, err
	}

	if err := s.uow.Shifts().Create(ctx, sh); err != nil {
		s.log.Error("failed to create shift", zap.Error(err))
		return nil, fmt.Errorf("creating shift: %w", err)
	}
	sh.Staff = staff

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionCreate, "shift", sh.ID.String()))
	s.log.Info("shift created",
		zap.String("shift_id", sh.ID.String()),
		zap.String("staff_id", sh.StaffID.String()),
		zap.String("window", sh.StartTime.String()+"-"+sh.EndTime.String()),
	)
	return sh, nil
}

func (s *ShiftService) Get(ctx context.Context, id uuid.UUID, c Caller) (*shift.Shift, error) {
	sh, err := s.uow.Shifts().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := check(basicPrincipal(c), access.Shift, access.Read, access.Target{UserID: ref(sh.StaffID)}); err != nil {
		return nil, err
	}
	return sh, nil
}

// List returns every shift to admins and their own shifts to other staff.
func (s *ShiftService) List(ctx context.Context, c Caller) ([]*shift.Shift, error) {
	d, err := check(basicPrincipal(c), access.Shift, access.List, access.Target{})
	if err != nil {
		return nil, err
	}
	if d.Effect == access.AllowScoped && d.Scope == access.ScopeOwnStaff {
		return s.uow.Shifts().ListByStaff(ctx, c.UserID)
	}
	return s.uow.Shifts().List(ctx)
}

func (s *ShiftService) ListByStaff(ctx context.Context, staffID uuid.UUID, c Caller) ([]*shift.Shift, error) {
	if _, err := check(basicPrincipal(c), access.Shift, access.List, access.Target{UserID: ref(staffID)}); err != nil {
		return nil, err
	}
	return s.uow.Shifts().ListByStaff(ctx, staffID)
}

func (s *ShiftService) ListByRole(ctx context.Context, role domain.Role, c Caller) ([]*shift.Shift, error) {
	if _, err := check(basicPrincipal(c), access.Shift, access.List, someoneElse); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, &ValidationError{Fields: []string{fmt.Sprintf("role %q is unknown", role)}}
	}
	return s.uow.Shifts().ListByRole(ctx, role)
}

// ActiveNurseShifts returns the nurse shifts covering the current clinic
// time, earliest start first.
func (s *ShiftService) ActiveNurseShifts(ctx context.Context, c Caller) ([]*shift.Shift, error) {
	if _, err := check(basicPrincipal(c), access.Shift, access.List, someoneElse); err != nil {
		return nil, err
	}
	return s.activeNurseShifts(ctx)
}

func (s *ShiftService) activeNurseShifts(ctx context.Context) ([]*shift.Shift, error) {
	shifts, err := s.uow.Shifts().ListByRole(ctx, domain.RoleNurse)
	if err != nil {
		return nil, fmt.Errorf("listing nurse shifts: %w", err)
	}
	return shift.ActiveAt(shifts, s.now().In(s.loc)), nil
}

// SendUrgentAlert emails the nurse whose covering shift started earliest.
// The department and room must exist; it then fails with
// shift.ErrNoNurseOnDuty when no nurse shift covers now.
func (s *ShiftService) SendUrgentAlert(ctx context.Context, cmd *shift.UrgentAlertCommand, c Caller) (*shift.Shift, error) {
	if _, err := check(basicPrincipal(c), access.Alert, access.Create, access.Target{}); err != nil {
		return nil, err
	}

	dept, err := s.uow.Departments().GetByID(ctx, cmd.DepartmentID)
	if err != nil {
		return nil, err
	}
	rm, err := s.uow.Rooms().GetByID(ctx, cmd.RoomID)
	if err != nil {
		return nil, err
	}

	active, err := s.activeNurseShifts(ctx)
	if err != nil {
		return nil, err
	}
	var onDuty *shift.Shift
	for _, sh := range active {
		if sh.Staff != nil && sh.Staff.Email != "" {
			onDuty = sh
			break
		}
	}
	if onDuty == nil {
		s.metrics.UrgentAlertsTotal.WithLabelValues("no_nurse").Inc()
		s.log.Warn("urgent alert with no nurse on duty",
			zap.String("reported_by", c.Email),
			zap.Time("at", s.now().In(s.loc)),
		)
		return nil, shift.ErrNoNurseOnDuty
	}

	body := fmt.Sprintf("Urgent Emergency!\n\nDepartment: %s\nRoom: %s\nReported by: %s",
		dept.Name, rm.RoomNumber, c.Email)
	if err := s.mail.send(ctx, "urgent_alert", onDuty.Staff.Email, "Emergency Alert", body); err != nil {
		s.metrics.UrgentAlertsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}

	s.metrics.UrgentAlertsTotal.WithLabelValues("sent").Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       c.UserID,
		UserRole:     c.Role,
		Action:       domain.ActionAlert,
		ResourceType: "room",
		ResourceID:   rm.ID.String(),
		IPAddress:    c.IP,
		Details:      fmt.Sprintf(`{"nurse":%q,"department":%q}`, onDuty.Staff.Email, dept.Name),
	})
	s.log.Info("urgent alert sent",
		zap.String("nurse_id", onDuty.StaffID.String()),
		zap.String("room", rm.RoomNumber),
		zap.String("reported_by", c.Email),
	)
	return onDuty, nil
}

func (s *ShiftService) Update(ctx context.Context, id uuid.UUID, cmd *shift.UpdateShiftCommand, c Caller) (*shift.Shift, error) {
	if err := checkPathID(id, cmd.ID); err != nil {
		return nil, err
	}
	if _, err := check(basicPrincipal(c), access.Shift, access.Update, someoneElse); err != nil {
		return nil, err
	}

	sh, err := s.uow.Shifts().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cmd.StaffID != nil && *cmd.StaffID != sh.StaffID {
		staff, err := s.users.FindByID(ctx, *cmd.StaffID)
		if err != nil {
			return nil, err
		}
		sh.StaffID = staff.ID
		sh.Staff = staff
	}
	if cmd.DaysOfWeek != nil {
		sh.DaysOfWeek = *cmd.DaysOfWeek
	}
	if cmd.StartTime != nil {
		sh.StartTime = *cmd.StartTime
	}
	if cmd.EndTime != nil {
		sh.EndTime = *cmd.EndTime
	}
	if cmd.IsRepeatingWeekly != nil {
		sh.IsRepeatingWeekly = *cmd.IsRepeatingWeekly
	}
	if cmd.Role != nil {
		sh.Role = *cmd.Role
	}
	if err := validateShift(sh); err != nil {
		return nil, err
	}

	if err := s.uow.Shifts().Update(ctx, sh); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionUpdate, "shift", id.String()))
	s.log.Info("shift updated", zap.String("shift_id", id.String()))
	return sh, nil
}

func (s *ShiftService) Delete(ctx context.Context, id uuid.UUID, c Caller) error {
	if _, err := check(basicPrincipal(c), access.Shift, access.Delete, someoneElse); err != nil {
		return err
	}
	if err := s.uow.Shifts().Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionDelete, "shift", id.String()))
	s.log.Info("shift deleted", zap.String("shift_id", id.String()))
	return nil
}

func validateShift(sh *shift.Shift) error {
	var errs []string

	if sh.StaffID == uuid.Nil {
		errs = append(errs, "staff_id is required")
	}
	if len(sh.DaysOfWeek) == 0 {
		errs = append(errs, shift.ErrNoDays.Error())
	}
	for _, d := range sh.DaysOfWeek {
		if d < time.Sunday || d > time.Saturday {
			errs = append(errs, fmt.Sprintf("weekday %d is out of range", d))
		}
	}
	if !sh.StartTime.IsValid() || !sh.EndTime.IsValid() {
		errs = append(errs, shift.ErrInvalidTimeOfDay.Error())
	} else if sh.EndTime <= sh.StartTime {
		errs = append(errs, shift.ErrInvalidWindow.Error())
	}
	if !sh.Role.IsValid() {
		errs = append(errs, fmt.Sprintf("role %q is unknown", sh.Role))
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
