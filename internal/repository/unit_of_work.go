package repository

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/department"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/doctor"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/faq"
	mr "github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/medical_record"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/nurse"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/patient"
	pr "github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/patient_request"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/prescription"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/room"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/shift"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/uow"
	"gorm.io/gorm"
)

// UnitOfWork hands out repositories bound to one *gorm.DB. Inside Do that
// handle is the transaction.
type UnitOfWork struct {
	db *gorm.DB
}

var _ uow.UnitOfWork = (*UnitOfWork)(nil)

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

func (u *UnitOfWork) Appointments() appointment.Repository   { return NewAppointmentRepository(u.db) }
func (u *UnitOfWork) Departments() department.Repository     { return NewDepartmentRepository(u.db) }
func (u *UnitOfWork) Doctors() doctor.Repository             { return NewDoctorRepository(u.db) }
func (u *UnitOfWork) Patients() patient.Repository           { return NewPatientRepository(u.db) }
func (u *UnitOfWork) MedicalRecords() mr.Repository          { return NewMedicalRecordRepository(u.db) }
func (u *UnitOfWork) Prescriptions() prescription.Repository { return NewPrescriptionRepository(u.db) }
func (u *UnitOfWork) Rooms() room.Repository                 { return NewRoomRepository(u.db) }
func (u *UnitOfWork) Nurses() nurse.Repository               { return NewNurseRepository(u.db) }
func (u *UnitOfWork) Shifts() shift.Repository               { return NewShiftRepository(u.db) }
func (u *UnitOfWork) PatientRequests() pr.Repository         { return NewPatientRequestRepository(u.db) }
func (u *UnitOfWork) FAQs() faq.Repository                   { return NewFAQRepository(u.db) }

func (u *UnitOfWork) Do(ctx context.Context, fn func(tx uow.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UnitOfWork{db: tx})
	})
}
