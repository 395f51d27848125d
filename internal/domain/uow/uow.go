// Package uow declares the unit of work that aggregates every repository
// behind one transactional save boundary.
package uow

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
)

type UnitOfWork interface {
	Appointments() appointment.Repository
	Departments() department.Repository
	Doctors() doctor.Repository
	Patients() patient.Repository
	MedicalRecords() mr.Repository
	Prescriptions() prescription.Repository
	Rooms() room.Repository
	Nurses() nurse.Repository
	Shifts() shift.Repository
	PatientRequests() pr.Repository
	FAQs() faq.Repository

	// Do runs fn in a single transaction. Repositories reached through tx
	// share it; fn returning an error rolls everything back.
	Do(ctx context.Context, fn func(tx UnitOfWork) error) error
}
