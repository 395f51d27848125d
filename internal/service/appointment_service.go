package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/access"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/uow"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/notify"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	minDurationMins = 5
	maxDurationMins = 480
)

type AppointmentService struct {
	uow      uow.UnitOfWork
	auditSvc *AuditService
	mail     mailer
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewAppointmentService(
	u uow.UnitOfWork,
	auditSvc *AuditService,
	sender notify.Sender,
	m *metrics.Collector,
	log *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		uow:      u,
		auditSvc: auditSvc,
		mail:     mailer{sender: sender, metrics: m, log: log},
		metrics:  m,
		log:      log,
	}
}

// Schedule books an appointment and emails the patient a confirmation. The
// email is sent after the commit; a delivery failure never fails the booking.
func (s *AppointmentService) Schedule(ctx context.Context, cmd *appointment.CreateAppointmentCommand, c Caller) (*appointment.Appointment, error) {
	t := access.Target{}
	if cmd.DoctorID != uuid.Nil {
		t.DoctorID = ref(cmd.DoctorID)
	}
	if cmd.PatientID != uuid.Nil {
		t.PatientID = ref(cmd.PatientID)
	}
	p, d, err := authorize(ctx, s.uow, c, access.Appointment, access.Create, t)
	if err != nil {
		return nil, err
	}
	if d.Effect == access.AllowScoped {
		switch d.Scope {
		case access.ScopeOwnDoctor:
			cmd.DoctorID = *p.DoctorID
		case access.ScopeOwnPatient:
			cmd.PatientID = *p.PatientID
		}
	}
	if cmd.DurationMins == 0 {
		cmd.DurationMins = appointment.DefaultDurationMins
	}
	if err := validateScheduleCommand(cmd); err != nil {
		return nil, err
	}

	pt, err := s.uow.Patients().GetByID(ctx, cmd.PatientID)
	if err != nil {
		return nil, err
	}
	doc, err := s.uow.Doctors().GetByID(ctx, cmd.DoctorID)
	if err != nil {
		return nil, err
	}

	a := &appointment.Appointment{
		ID:              uuid.New(),
		DoctorID:        cmd.DoctorID,
		PatientID:       cmd.PatientID,
		AppointmentDate: cmd.AppointmentDate,
		DurationMins:    cmd.DurationMins,
		Status:          appointment.StatusScheduled,
		Notes:           cmd.Notes,
	}

	err = s.uow.Do(ctx, func(tx uow.UnitOfWork) error {
		conflict, err := tx.Appointments().HasConflict(ctx, a.DoctorID, a.AppointmentDate, a.EndsAt(), nil)
		if err != nil {
			return fmt.Errorf("checking conflicts: %w", err)
		}
		if conflict {
			return appointment.ErrAppointmentConflict
		}
		return tx.Appointments().Create(ctx, a)
	})
	if err != nil {
		if !errors.Is(err, appointment.ErrAppointmentConflict) {
			s.log.Error("failed to create appointment", zap.Error(err))
		}
		return nil, err
	}

	s.metrics.AppointmentsTotal.WithLabelValues(string(a.Status)).Inc()
	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionCreate, "appointment", a.ID.String()))
	s.log.Info("appointment scheduled",
		zap.String("appointment_id", a.ID.String()),
		zap.String("doctor_id", a.DoctorID.String()),
		zap.String("patient_id", a.PatientID.String()),
	)

	if pt.User != nil {
		body := fmt.Sprintf("Hello %s,\n\n"+
			"Your appointment has been scheduled with %s.\n"+
			"Date & Time: %s\n"+
			"Status: %s\n"+
			"Notes: %s\n\n"+
			"Thank you,\nUSAL Clinic",
			pt.User.FullName, doc.DisplayName(), a.AppointmentDate.Format("Monday, January 2, 2006 3:04 PM"), a.Status, a.Notes)
		s.mail.bestEffort(ctx, "appointment_confirmation", pt.User.Email, "Appointment Confirmation - USAL Clinic", body)
	}

	return a, nil
}

func (s *AppointmentService) Get(ctx context.Context, id uuid.UUID, c Caller) (*appointment.Appointment, error) {
	p, err := resolvePrincipal(ctx, s.uow, c)
	if err != nil {
		return nil, err
	}
	a, err := s.uow.Appointments().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := check(p, access.Appointment, access.Read, appointmentTarget(a)); err != nil {
		return nil, err
	}
	return a, nil
}

// List narrows the query to the caller's own appointments for doctors and patients.
func (s *AppointmentService) List(ctx context.Context, q *appointment.ListAppointmentsQuery, c Caller) (*appointment.PagedAppointments, error) {
	p, d, err := authorize(ctx, s.uow, c, access.Appointment, access.List, access.Target{})
	if err != nil {
		return nil, err
	}
	if d.Effect == access.AllowScoped {
		switch d.Scope {
		case access.ScopeOwnDoctor:
			q.DoctorID = p.DoctorID
		case access.ScopeOwnPatient:
			q.PatientID = p.PatientID
		}
	}
	return s.uow.Appointments().List(ctx, q)
}

func (s *AppointmentService) Update(ctx context.Context, id uuid.UUID, cmd *appointment.UpdateAppointmentCommand, c Caller) (*appointment.Appointment, error) {
	if err := checkPathID(id, cmd.ID); err != nil {
		return nil, err
	}
	p, err := resolvePrincipal(ctx, s.uow, c)
	if err != nil {
		return nil, err
	}

	var a *appointment.Appointment
	err = s.uow.Do(ctx, func(tx uow.UnitOfWork) error {
		var err error
		a, err = tx.Appointments().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if _, err := check(p, access.Appointment, access.Update, appointmentTarget(a)); err != nil {
			return err
		}

		rescheduled := false
		if cmd.AppointmentDate != nil {
			a.AppointmentDate = *cmd.AppointmentDate
			rescheduled = true
		}
		if cmd.DurationMins != nil {
			if *cmd.DurationMins < minDurationMins || *cmd.DurationMins > maxDurationMins {
				return appointment.ErrInvalidDuration
			}
			a.DurationMins = *cmd.DurationMins
			rescheduled = true
		}
		if cmd.Notes != nil {
			a.Notes = *cmd.Notes
		}
		if cmd.Status != nil && *cmd.Status != a.Status {
			if !cmd.Status.IsValid() {
				return appointment.ErrInvalidStatus
			}
			if err := applyStatus(a, *cmd.Status); err != nil {
				return err
			}
		}

		if rescheduled {
			conflict, err := tx.Appointments().HasConflict(ctx, a.DoctorID, a.AppointmentDate, a.EndsAt(), &a.ID)
			if err != nil {
				return fmt.Errorf("checking conflicts: %w", err)
			}
			if conflict {
				return appointment.ErrAppointmentConflict
			}
		}
		return tx.Appointments().Update(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionUpdate, "appointment", id.String()))
	s.log.Info("appointment updated", zap.String("appointment_id", id.String()))
	return a, nil
}

func (s *AppointmentService) Cancel(ctx context.Context, id uuid.UUID, cmd *appointment.CancelAppointmentCommand, c Caller) (*appointment.Appointment, error) {
	return s.transition(ctx, id, c, access.Cancel, func(a *appointment.Appointment) error {
		return a.Cancel(cmd.Reason)
	})
}

func (s *AppointmentService) Complete(ctx context.Context, id uuid.UUID, c Caller) (*appointment.Appointment, error) {
	return s.transition(ctx, id, c, access.Complete, func(a *appointment.Appointment) error {
		return a.Complete()
	})
}

func (s *AppointmentService) transition(ctx context.Context, id uuid.UUID, c Caller, act access.Action, apply func(*appointment.Appointment) error) (*appointment.Appointment, error) {
	p, err := resolvePrincipal(ctx, s.uow, c)
	if err != nil {
		return nil, err
	}
	a, err := s.uow.Appointments().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := check(p, access.Appointment, act, appointmentTarget(a)); err != nil {
		return nil, err
	}
	if err := apply(a); err != nil {
		return nil, err
	}
	if err := s.uow.Appointments().Update(ctx, a); err != nil {
		s.log.Error("failed to update appointment status", zap.Error(err))
		return nil, fmt.Errorf("updating appointment status: %w", err)
	}

	s.metrics.AppointmentsTotal.WithLabelValues(string(a.Status)).Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       c.UserID,
		UserRole:     c.Role,
		Action:       domain.ActionUpdate,
		ResourceType: "appointment",
		ResourceID:   id.String(),
		IPAddress:    c.IP,
		Details:      fmt.Sprintf(`{"status":%q}`, a.Status),
	})
	s.log.Info("appointment status changed",
		zap.String("appointment_id", id.String()),
		zap.String("status", string(a.Status)),
	)
	return a, nil
}

func (s *AppointmentService) Delete(ctx context.Context, id uuid.UUID, c Caller) error {
	p, err := resolvePrincipal(ctx, s.uow, c)
	if err != nil {
		return err
	}
	a, err := s.uow.Appointments().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := check(p, access.Appointment, access.Delete, appointmentTarget(a)); err != nil {
		return err
	}
	if err := s.uow.Appointments().Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, c.entry(domain.ActionDelete, "appointment", id.String()))
	s.log.Info("appointment deleted", zap.String("appointment_id", id.String()))
	return nil
}

func appointmentTarget(a *appointment.Appointment) access.Target {
	return access.Target{PatientID: ref(a.PatientID), DoctorID: ref(a.DoctorID)}
}

// applyStatus moves a to next, stamping the cancel and completion times.
func applyStatus(a *appointment.Appointment, next appointment.AppointmentStatus) error {
	switch next {
	case appointment.StatusCancelled:
		return a.Cancel(a.CancellationReason)
	case appointment.StatusCompleted:
		return a.Complete()
	}
	if !a.CanTransitionTo(next) {
		return appointment.ErrInvalidStatusTransition
	}
	a.Status = next
	return nil
}

func validateScheduleCommand(cmd *appointment.CreateAppointmentCommand) error {
	var errs []string

	if cmd.DoctorID == uuid.Nil {
		errs = append(errs, "doctor_id is required")
	}
	if cmd.PatientID == uuid.Nil {
		errs = append(errs, "patient_id is required")
	}
	if cmd.AppointmentDate.IsZero() {
		errs = append(errs, "appointment_date is required")
	}
	if cmd.DurationMins < minDurationMins || cmd.DurationMins > maxDurationMins {
		errs = append(errs, appointment.ErrInvalidDuration.Error())
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
