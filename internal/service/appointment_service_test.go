package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/appointment"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSchedule_ConfirmationFailureKeepsAppointment(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAppointmentService(env.uow, env.audit, env.sender, env.metrics, env.log)
	doc, _ := env.addDoctor("house")
	pt, _ := env.addPatient("ana")

	env.sender.On("Send", mock.Anything, "ana@clinic.com", "Appointment Confirmation - USAL Clinic", mock.Anything).
		Return(errors.New("relay down")).Once()

	a, err := svc.Schedule(context.Background(), &appointment.CreateAppointmentCommand{
		DoctorID:        doc.ID,
		PatientID:       pt.ID,
		AppointmentDate: time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC),
	}, adminCaller())
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusScheduled, a.Status)
	assert.Equal(t, appointment.DefaultDurationMins, a.DurationMins)
	assert.Len(t, env.uow.appointments.items, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.NotificationsTotal.WithLabelValues("appointment_confirmation", "failed")))
	env.sender.AssertExpectations(t)
}

func TestSchedule_Conflict(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAppointmentService(env.uow, env.audit, env.sender, env.metrics, env.log)
	doc, _ := env.addDoctor("house")
	pt, _ := env.addPatient("ana")
	env.sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	first := &appointment.CreateAppointmentCommand{
		DoctorID: doc.ID, PatientID: pt.ID,
		AppointmentDate: time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC),
	}
	_, err := svc.Schedule(context.Background(), first, adminCaller())
	require.NoError(t, err)

	overlapping := &appointment.CreateAppointmentCommand{
		DoctorID: doc.ID, PatientID: pt.ID,
		AppointmentDate: time.Date(2024, 3, 6, 10, 15, 0, 0, time.UTC),
	}
	_, err = svc.Schedule(context.Background(), overlapping, adminCaller())
	assert.ErrorIs(t, err, appointment.ErrAppointmentConflict)

	adjacent := &appointment.CreateAppointmentCommand{
		DoctorID: doc.ID, PatientID: pt.ID,
		AppointmentDate: time.Date(2024, 3, 6, 10, 30, 0, 0, time.UTC),
	}
	_, err = svc.Schedule(context.Background(), adjacent, adminCaller())
	assert.NoError(t, err)
	assert.Len(t, env.uow.appointments.items, 2)
}

func TestSchedule_PatientBooksForSelf(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAppointmentService(env.uow, env.audit, env.sender, env.metrics, env.log)
	doc, _ := env.addDoctor("house")
	pt, caller := env.addPatient("ana")
	other, _ := env.addPatient("bea")
	env.sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	a, err := svc.Schedule(context.Background(), &appointment.CreateAppointmentCommand{
		DoctorID:        doc.ID,
		AppointmentDate: time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC),
	}, caller)
	require.NoError(t, err)
	assert.Equal(t, pt.ID, a.PatientID)

	_, err = svc.Schedule(context.Background(), &appointment.CreateAppointmentCommand{
		DoctorID:        doc.ID,
		PatientID:       other.ID,
		AppointmentDate: time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC),
	}, caller)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSchedule_InvalidDuration(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAppointmentService(env.uow, env.audit, env.sender, env.metrics, env.log)
	doc, _ := env.addDoctor("house")
	pt, _ := env.addPatient("ana")

	_, err := svc.Schedule(context.Background(), &appointment.CreateAppointmentCommand{
		DoctorID: doc.ID, PatientID: pt.ID,
		AppointmentDate: time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC),
		DurationMins:    600,
	}, adminCaller())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, appointment.ErrInvalidDuration.Error())
}

func TestComplete_FromScheduled(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAppointmentService(env.uow, env.audit, env.sender, env.metrics, env.log)
	doc, docCaller := env.addDoctor("house")
	pt, _ := env.addPatient("ana")
	env.sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	a, err := svc.Schedule(context.Background(), &appointment.CreateAppointmentCommand{
		DoctorID: doc.ID, PatientID: pt.ID,
		AppointmentDate: time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC),
	}, adminCaller())
	require.NoError(t, err)

	done, err := svc.Complete(context.Background(), a.ID, docCaller)
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)

	_, err = svc.Cancel(context.Background(), a.ID, &appointment.CancelAppointmentCommand{Reason: "late"}, docCaller)
	assert.ErrorIs(t, err, appointment.ErrInvalidStatusTransition)
}
