package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/department"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/room"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/shift"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var weekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

func nurseShift(email string, start, end shift.TimeOfDay) *shift.Shift {
	id := uuid.New()
	return &shift.Shift{
		ID:         uuid.New(),
		StaffID:    id,
		Staff:      &domain.User{ID: id, Email: email, Role: domain.RoleNurse},
		DaysOfWeek: weekdays,
		StartTime:  start,
		EndTime:    end,
		Role:       domain.RoleNurse,
	}
}

type alertFixture struct {
	env    *testEnv
	svc    *ShiftService
	deptID uuid.UUID
	roomID uuid.UUID
}

func newAlertFixture(t *testing.T, at time.Time) *alertFixture {
	env := newTestEnv(t)
	dept := &department.Department{ID: uuid.New(), Name: "Cardiology"}
	rm := &room.Room{ID: uuid.New(), DepartmentID: dept.ID, RoomNumber: "101"}
	env.uow.departments.byID[dept.ID] = dept
	env.uow.rooms.byID[rm.ID] = rm
	env.uow.shifts.items = []*shift.Shift{
		nurseShift("late@clinic.com", shift.NewTimeOfDay(12, 0, 0), shift.NewTimeOfDay(20, 0, 0)),
		nurseShift("early@clinic.com", shift.NewTimeOfDay(8, 0, 0), shift.NewTimeOfDay(16, 0, 0)),
	}

	svc := NewShiftService(env.uow, env.identities, env.audit, env.sender, env.metrics, time.UTC, env.log)
	svc.now = func() time.Time { return at }
	return &alertFixture{env: env, svc: svc, deptID: dept.ID, roomID: rm.ID}
}

func (f *alertFixture) alert() (*shift.Shift, error) {
	reporter := Caller{UserID: uuid.New(), Role: domain.RoleDoctor, Email: "house@clinic.com"}
	return f.svc.SendUrgentAlert(context.Background(), &shift.UrgentAlertCommand{DepartmentID: f.deptID, RoomID: f.roomID}, reporter)
}

// 2024-03-06 is a Wednesday.
func wednesdayAt(hour, minute int) time.Time {
	return time.Date(2024, 3, 6, hour, minute, 0, 0, time.UTC)
}

func TestSendUrgentAlert_EarliestStartWins(t *testing.T) {
	f := newAlertFixture(t, wednesdayAt(15, 59))
	f.env.sender.On("Send", mock.Anything, "early@clinic.com", "Emergency Alert", mock.MatchedBy(func(body string) bool {
		return strings.Contains(body, "Department: Cardiology") &&
			strings.Contains(body, "Room: 101") &&
			strings.Contains(body, "Reported by: house@clinic.com")
	})).Return(nil).Once()

	onDuty, err := f.alert()
	require.NoError(t, err)
	assert.Equal(t, "early@clinic.com", onDuty.Staff.Email)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.env.metrics.UrgentAlertsTotal.WithLabelValues("sent")))
	f.env.sender.AssertExpectations(t)
}

func TestSendUrgentAlert_AfterEarlyShiftEnds(t *testing.T) {
	f := newAlertFixture(t, wednesdayAt(16, 1))
	f.env.sender.On("Send", mock.Anything, "late@clinic.com", "Emergency Alert", mock.Anything).Return(nil).Once()

	onDuty, err := f.alert()
	require.NoError(t, err)
	assert.Equal(t, "late@clinic.com", onDuty.Staff.Email)
	f.env.sender.AssertExpectations(t)
}

func TestSendUrgentAlert_NoNurseOnDuty(t *testing.T) {
	f := newAlertFixture(t, wednesdayAt(21, 0))

	_, err := f.alert()
	assert.ErrorIs(t, err, shift.ErrNoNurseOnDuty)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.env.metrics.UrgentAlertsTotal.WithLabelValues("no_nurse")))
	f.env.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendUrgentAlert_UnknownLocationBeforeRoster(t *testing.T) {
	f := newAlertFixture(t, wednesdayAt(21, 0))
	reporter := Caller{UserID: uuid.New(), Role: domain.RoleNurse, Email: "desk@clinic.com"}

	_, err := f.svc.SendUrgentAlert(context.Background(), &shift.UrgentAlertCommand{DepartmentID: f.deptID, RoomID: uuid.New()}, reporter)
	assert.ErrorIs(t, err, room.ErrRoomNotFound)

	_, err = f.svc.SendUrgentAlert(context.Background(), &shift.UrgentAlertCommand{DepartmentID: uuid.New(), RoomID: f.roomID}, reporter)
	assert.ErrorIs(t, err, department.ErrDepartmentNotFound)

	assert.Equal(t, 0.0, testutil.ToFloat64(f.env.metrics.UrgentAlertsTotal.WithLabelValues("no_nurse")))
}

func TestSendUrgentAlert_Weekend(t *testing.T) {
	f := newAlertFixture(t, time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC))

	_, err := f.alert()
	assert.ErrorIs(t, err, shift.ErrNoNurseOnDuty)
}

func TestSendUrgentAlert_DeliveryFailure(t *testing.T) {
	f := newAlertFixture(t, wednesdayAt(9, 0))
	f.env.sender.On("Send", mock.Anything, "early@clinic.com", "Emergency Alert", mock.Anything).
		Return(errors.New("relay down")).Once()

	_, err := f.alert()
	assert.ErrorIs(t, err, ErrNotificationFailed)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.env.metrics.UrgentAlertsTotal.WithLabelValues("failed")))
}

func TestSendUrgentAlert_ClinicClock(t *testing.T) {
	// 15:30 UTC is 16:30 on a UTC+1 clinic clock, after the early shift.
	f := newAlertFixture(t, wednesdayAt(15, 30))
	f.svc.loc = time.FixedZone("CET", 60*60)
	f.env.sender.On("Send", mock.Anything, "late@clinic.com", "Emergency Alert", mock.Anything).Return(nil).Once()

	onDuty, err := f.alert()
	require.NoError(t, err)
	assert.Equal(t, "late@clinic.com", onDuty.Staff.Email)
}

func TestShiftService_Create_Validation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewShiftService(env.uow, env.identities, env.audit, env.sender, env.metrics, time.UTC, env.log)

	tests := []struct {
		name string
		cmd  shift.CreateShiftCommand
		want string
	}{
		{
			name: "ends before start",
			cmd: shift.CreateShiftCommand{
				StaffID: uuid.New(), DaysOfWeek: weekdays, Role: domain.RoleNurse,
				StartTime: shift.NewTimeOfDay(16, 0, 0), EndTime: shift.NewTimeOfDay(8, 0, 0),
			},
			want: shift.ErrInvalidWindow.Error(),
		},
		{
			name: "no days",
			cmd: shift.CreateShiftCommand{
				StaffID: uuid.New(), Role: domain.RoleNurse,
				StartTime: shift.NewTimeOfDay(8, 0, 0), EndTime: shift.NewTimeOfDay(16, 0, 0),
			},
			want: shift.ErrNoDays.Error(),
		},
		{
			name: "unknown role",
			cmd: shift.CreateShiftCommand{
				StaffID: uuid.New(), DaysOfWeek: weekdays, Role: domain.Role("janitor"),
				StartTime: shift.NewTimeOfDay(8, 0, 0), EndTime: shift.NewTimeOfDay(16, 0, 0),
			},
			want: `role "janitor" is unknown`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), &tt.cmd, adminCaller())
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.want)
		})
	}
}

func TestShiftService_ActiveNurseShifts_AdminOnly(t *testing.T) {
	f := newAlertFixture(t, wednesdayAt(13, 0))

	_, err := f.svc.ActiveNurseShifts(context.Background(), Caller{UserID: uuid.New(), Role: domain.RoleNurse})
	assert.ErrorIs(t, err, ErrForbidden)

	active, err := f.svc.ActiveNurseShifts(context.Background(), adminCaller())
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "early@clinic.com", active[0].Staff.Email)
}
