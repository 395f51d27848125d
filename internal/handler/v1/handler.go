package v1

import (
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/service"
	"go.uber.org/zap"
)

// Services is everything the v1 API dispatches to.
type Services struct {
	Auth            *service.AuthService
	Audit           *service.AuditService
	Appointments    *service.AppointmentService
	Contact         *service.ContactService
	Dashboard       *service.DashboardService
	Departments     *service.DepartmentService
	Doctors         *service.DoctorService
	FAQs            *service.FAQService
	MedicalRecords  *service.MedicalRecordService
	Nurses          *service.NurseService
	PatientRequests *service.PatientRequestService
	Patients        *service.PatientService
	Prescriptions   *service.PrescriptionService
	Rooms           *service.RoomService
	Shifts          *service.ShiftService
}

type Handler struct {
	svc Services
	log *zap.Logger
}

func NewHandler(svc Services, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}
