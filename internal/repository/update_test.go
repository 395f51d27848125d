package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/department"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/doctor"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/faq"
	mr "github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/medical_record"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/nurse"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/prescription"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/room"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/shift"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newRecordingDB keeps every statement gorm sends so a test can inspect the
// full SQL text.
func newRecordingDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *[]string) {
	t.Helper()
	var sent []string
	matcher := sqlmock.QueryMatcherFunc(func(expected, actual string) error {
		sent = append(sent, actual)
		return sqlmock.QueryMatcherRegexp.Match(expected, actual)
	})
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(matcher))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	return gdb, mock, &sent
}

type updateCase struct {
	name     string
	table    string
	notFound error
	update   func(db *gorm.DB, createdAt time.Time) error
}

func updateCases() []updateCase {
	return []updateCase{
		{"room", "rooms", room.ErrRoomNotFound, func(db *gorm.DB, at time.Time) error {
			return NewRoomRepository(db).Update(context.Background(), &room.Room{ID: uuid.New(), CreatedAt: at, DepartmentID: uuid.New(), RoomNumber: "101"})
		}},
		{"nurse", "nurses", nurse.ErrNurseNotFound, func(db *gorm.DB, at time.Time) error {
			return NewNurseRepository(db).Update(context.Background(), &nurse.Nurse{ID: uuid.New(), CreatedAt: at, UserID: uuid.New()})
		}},
		{"faq", "faq_entries", faq.ErrEntryNotFound, func(db *gorm.DB, at time.Time) error {
			return NewFAQRepository(db).Update(context.Background(), &faq.Entry{ID: uuid.New(), CreatedAt: at, Question: "Hours?", Answer: "9 to 5"})
		}},
		{"prescription", "prescriptions", prescription.ErrPrescriptionNotFound, func(db *gorm.DB, at time.Time) error {
			return NewPrescriptionRepository(db).Update(context.Background(), &prescription.Prescription{ID: uuid.New(), CreatedAt: at, MedicalRecordID: uuid.New()})
		}},
		{"medical record", "medical_records", mr.ErrRecordNotFound, func(db *gorm.DB, at time.Time) error {
			return NewMedicalRecordRepository(db).Update(context.Background(), &mr.MedicalRecord{ID: uuid.New(), CreatedAt: at, PatientID: uuid.New(), DoctorID: uuid.New(), Diagnosis: "flu"})
		}},
		{"appointment", "appointments", appointment.ErrAppointmentNotFound, func(db *gorm.DB, at time.Time) error {
			return NewAppointmentRepository(db).Update(context.Background(), &appointment.Appointment{ID: uuid.New(), CreatedAt: at, DoctorID: uuid.New(), PatientID: uuid.New()})
		}},
		{"doctor", "doctors", doctor.ErrDoctorNotFound, func(db *gorm.DB, at time.Time) error {
			return NewDoctorRepository(db).Update(context.Background(), &doctor.Doctor{ID: uuid.New(), CreatedAt: at, UserID: uuid.New()})
		}},
		{"patient", "patients", patient.ErrPatientNotFound, func(db *gorm.DB, at time.Time) error {
			return NewPatientRepository(db).Update(context.Background(), &patient.Patient{ID: uuid.New(), CreatedAt: at, UserID: uuid.New(), Gender: patient.GenderMale})
		}},
		{"department", "departments", department.ErrDepartmentNotFound, func(db *gorm.DB, at time.Time) error {
			return NewDepartmentRepository(db).Update(context.Background(), &department.Department{ID: uuid.New(), CreatedAt: at, Name: "Cardiology"})
		}},
		{"shift", "shifts", shift.ErrShiftNotFound, func(db *gorm.DB, at time.Time) error {
			return NewShiftRepository(db).Update(context.Background(), &shift.Shift{
				ID: uuid.New(), CreatedAt: at, StaffID: uuid.New(),
				DaysOfWeek: []time.Weekday{time.Monday}, StartTime: shift.NewTimeOfDay(8, 0, 0), EndTime: shift.NewTimeOfDay(16, 0, 0),
				Role: domain.RoleNurse,
			})
		}},
	}
}

func TestUpdate_NeverWritesCreatedAt(t *testing.T) {
	forged := time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, tc := range updateCases() {
		t.Run(tc.name, func(t *testing.T) {
			gdb, mock, sent := newRecordingDB(t)
			mock.ExpectExec(`UPDATE "clinical"."` + tc.table + `" SET .* WHERE .*"id" = `).
				WillReturnResult(sqlmock.NewResult(0, 1))

			require.NoError(t, tc.update(gdb, forged))
			require.NotEmpty(t, *sent)
			for _, stmt := range *sent {
				assert.NotContains(t, stmt, "created_at")
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUpdate_MissingRowIsNotFound(t *testing.T) {
	for _, tc := range updateCases() {
		t.Run(tc.name, func(t *testing.T) {
			gdb, mock, sent := newRecordingDB(t)
			mock.ExpectExec(`UPDATE "clinical"."` + tc.table + `"`).
				WillReturnResult(sqlmock.NewResult(0, 0))

			err := tc.update(gdb, time.Now())
			assert.ErrorIs(t, err, tc.notFound)
			for _, stmt := range *sent {
				assert.NotContains(t, stmt, "INSERT")
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
