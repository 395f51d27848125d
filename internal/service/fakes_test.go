package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/config"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
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
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/identity"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/pkg/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// The fakes embed the repository interface; calling a method a test did not
// expect panics on the nil embedded value.

type fakeUoW struct {
	appointments *fakeAppointments
	departments  *fakeDepartments
	doctors      *fakeDoctors
	patients     *fakePatients
	records      *fakeRecords
	rooms        *fakeRooms
	shifts       *fakeShifts
	requests     *fakeRequests
}

func newFakeUoW() *fakeUoW {
	return &fakeUoW{
		appointments: &fakeAppointments{},
		departments:  &fakeDepartments{byID: map[uuid.UUID]*department.Department{}},
		doctors:      &fakeDoctors{byID: map[uuid.UUID]*doctor.Doctor{}},
		patients:     &fakePatients{byID: map[uuid.UUID]*patient.Patient{}},
		records:      &fakeRecords{},
		rooms:        &fakeRooms{byID: map[uuid.UUID]*room.Room{}},
		shifts:       &fakeShifts{},
		requests:     &fakeRequests{byID: map[uuid.UUID]*pr.PatientRequest{}},
	}
}

func (u *fakeUoW) Appointments() appointment.Repository   { return u.appointments }
func (u *fakeUoW) Departments() department.Repository     { return u.departments }
func (u *fakeUoW) Doctors() doctor.Repository             { return u.doctors }
func (u *fakeUoW) Patients() patient.Repository           { return u.patients }
func (u *fakeUoW) MedicalRecords() mr.Repository          { return u.records }
func (u *fakeUoW) Prescriptions() prescription.Repository { return nil }
func (u *fakeUoW) Rooms() room.Repository                 { return u.rooms }
func (u *fakeUoW) Nurses() nurse.Repository               { return nil }
func (u *fakeUoW) Shifts() shift.Repository               { return u.shifts }
func (u *fakeUoW) PatientRequests() pr.Repository         { return u.requests }
func (u *fakeUoW) FAQs() faq.Repository                   { return nil }

func (u *fakeUoW) Do(_ context.Context, fn func(tx uow.UnitOfWork) error) error {
	return fn(u)
}

type fakeAppointments struct {
	appointment.Repository
	items []*appointment.Appointment
}

func (f *fakeAppointments) Create(_ context.Context, a *appointment.Appointment) error {
	f.items = append(f.items, a)
	return nil
}

func (f *fakeAppointments) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	for _, a := range f.items {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, appointment.ErrAppointmentNotFound
}

func (f *fakeAppointments) Update(context.Context, *appointment.Appointment) error {
	return nil
}

func (f *fakeAppointments) HasConflict(_ context.Context, doctorID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	for _, a := range f.items {
		if a.DoctorID != doctorID || (excludeID != nil && a.ID == *excludeID) {
			continue
		}
		if a.Status == appointment.StatusCancelled || a.Status == appointment.StatusNoShow {
			continue
		}
		if a.AppointmentDate.Before(end) && start.Before(a.EndsAt()) {
			return true, nil
		}
	}
	return false, nil
}

type fakeDepartments struct {
	department.Repository
	byID map[uuid.UUID]*department.Department
}

// Create stamps CreatedAt the way gorm's autoCreateTime does.
func (f *fakeDepartments) Create(_ context.Context, d *department.Department) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	stored := *d
	f.byID[d.ID] = &stored
	return nil
}

func (f *fakeDepartments) GetByID(_ context.Context, id uuid.UUID) (*department.Department, error) {
	if d, ok := f.byID[id]; ok {
		out := *d
		return &out, nil
	}
	return nil, department.ErrDepartmentNotFound
}

// Update keeps the stored CreatedAt, as the gorm repository omits the column.
func (f *fakeDepartments) Update(_ context.Context, d *department.Department) error {
	existing, ok := f.byID[d.ID]
	if !ok {
		return department.ErrDepartmentNotFound
	}
	stored := *d
	stored.CreatedAt = existing.CreatedAt
	f.byID[d.ID] = &stored
	return nil
}

type fakeRooms struct {
	room.Repository
	byID map[uuid.UUID]*room.Room
}

func (f *fakeRooms) GetByID(_ context.Context, id uuid.UUID) (*room.Room, error) {
	if r, ok := f.byID[id]; ok {
		return r, nil
	}
	return nil, room.ErrRoomNotFound
}

type fakeDoctors struct {
	doctor.Repository
	byID map[uuid.UUID]*doctor.Doctor
}

func (f *fakeDoctors) add(d *doctor.Doctor) *doctor.Doctor {
	f.byID[d.ID] = d
	return d
}

func (f *fakeDoctors) GetByID(_ context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	if d, ok := f.byID[id]; ok {
		return d, nil
	}
	return nil, doctor.ErrDoctorNotFound
}

func (f *fakeDoctors) GetByUserID(_ context.Context, userID uuid.UUID) (*doctor.Doctor, error) {
	for _, d := range f.byID {
		if d.UserID == userID {
			return d, nil
		}
	}
	return nil, doctor.ErrDoctorNotFound
}

type fakePatients struct {
	patient.Repository
	byID      map[uuid.UUID]*patient.Patient
	lastQuery *patient.ListPatientsQuery
}

func (f *fakePatients) add(p *patient.Patient) *patient.Patient {
	f.byID[p.ID] = p
	return p
}

func (f *fakePatients) Create(_ context.Context, p *patient.Patient) error {
	f.byID[p.ID] = p
	return nil
}

func (f *fakePatients) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, patient.ErrPatientNotFound
}

func (f *fakePatients) GetByUserID(_ context.Context, userID uuid.UUID) (*patient.Patient, error) {
	for _, p := range f.byID {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, patient.ErrPatientNotFound
}

func (f *fakePatients) List(_ context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	f.lastQuery = q
	return &patient.PagedPatients{}, nil
}

func (f *fakePatients) ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error) {
	_, err := f.GetByUserID(ctx, userID)
	return err == nil, nil
}

type fakeRecords struct {
	mr.Repository
	items []*mr.MedicalRecord
}

func (f *fakeRecords) Create(_ context.Context, r *mr.MedicalRecord) error {
	f.items = append(f.items, r)
	return nil
}

func (f *fakeRecords) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*mr.MedicalRecord, error) {
	var out []*mr.MedicalRecord
	for _, r := range f.items {
		if r.PatientID == patientID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecords) GetByDoctorAndPatient(_ context.Context, doctorID, patientID uuid.UUID) (*mr.MedicalRecord, error) {
	for _, r := range f.items {
		if r.DoctorID == doctorID && r.PatientID == patientID {
			return r, nil
		}
	}
	return nil, mr.ErrRecordNotFound
}

type fakeShifts struct {
	shift.Repository
	items []*shift.Shift
}

func (f *fakeShifts) ListByRole(_ context.Context, role domain.Role) ([]*shift.Shift, error) {
	var out []*shift.Shift
	for _, s := range f.items {
		if s.Role == role {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeRequests struct {
	pr.Repository
	byID map[uuid.UUID]*pr.PatientRequest
}

func (f *fakeRequests) Create(_ context.Context, r *pr.PatientRequest) error {
	f.byID[r.ID] = r
	return nil
}

func (f *fakeRequests) GetByID(_ context.Context, id uuid.UUID) (*pr.PatientRequest, error) {
	if r, ok := f.byID[id]; ok {
		return r, nil
	}
	return nil, pr.ErrRequestNotFound
}

func (f *fakeRequests) Update(_ context.Context, r *pr.PatientRequest) error {
	f.byID[r.ID] = r
	return nil
}

// memUsers backs both the identity provider and the auth service.
type memUsers struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*domain.User
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[uuid.UUID]*domain.User{}}
}

func (m *memUsers) Create(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return domain.ErrUserExists
		}
	}
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) UpdateRole(_ context.Context, id uuid.UUID, role domain.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (m *memUsers) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memUsers) UpdateLoginAttempt(_ context.Context, id uuid.UUID, success bool, lockUntil *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.byID[id]
	if success {
		u.FailedLoginCount = 0
		u.LockedUntil = nil
		return nil
	}
	u.FailedLoginCount++
	if lockUntil != nil {
		u.LockedUntil = lockUntil
	}
	return nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.byID[id]
	u.PasswordHash = hash
	u.MustChangePassword = false
	return nil
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

type memAuditRepo struct {
	AuditRepository
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (r *memAuditRepo) Create(_ context.Context, e *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, to, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
}

// testEnv wires services over the fakes the way the server does over gorm.
type testEnv struct {
	uow          *fakeUoW
	users        *memUsers
	identities   *identity.Provider
	audit        *AuditService
	auditRepo    *memAuditRepo
	sender       *mockSender
	metrics      *metrics.Collector
	provisioning *ProvisioningService
	log          *zap.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zap.NewNop()
	m := metrics.NewCollector("test", prometheus.NewRegistry())
	users := newMemUsers()
	ids := identity.NewProvider(users, log).WithCost(bcrypt.MinCost)
	auditRepo := &memAuditRepo{}
	audit := NewAuditService(auditRepo, m, log)
	t.Cleanup(audit.Shutdown)

	return &testEnv{
		uow:        newFakeUoW(),
		users:      users,
		identities: ids,
		audit:      audit,
		auditRepo:  auditRepo,
		sender:     &mockSender{},
		metrics:    m,
		provisioning: NewProvisioningService(ids, config.ProvisioningConfig{
			EmailDomain:     "clinic.com",
			DefaultPassword: "U@u123456",
		}, m, log),
		log: log,
	}
}

func adminCaller() Caller {
	return Caller{UserID: uuid.New(), Role: domain.RoleAdmin, Email: "admin@clinic.com", IP: "10.0.0.1"}
}

func (e *testEnv) addDoctor(name string) (*doctor.Doctor, Caller) {
	userID := uuid.New()
	d := e.uow.doctors.add(&doctor.Doctor{
		ID:     uuid.New(),
		UserID: userID,
		User:   &domain.User{ID: userID, FullName: name, Email: name + "@clinic.com", Role: domain.RoleDoctor},
	})
	return d, Caller{UserID: userID, Role: domain.RoleDoctor, Email: d.User.Email}
}

func (e *testEnv) addPatient(name string) (*patient.Patient, Caller) {
	userID := uuid.New()
	p := e.uow.patients.add(&patient.Patient{
		ID:     uuid.New(),
		UserID: userID,
		User:   &domain.User{ID: userID, FullName: name, Email: name + "@clinic.com", Role: domain.RolePatient},
		Gender: patient.GenderFemale,
	})
	return p, Caller{UserID: userID, Role: domain.RolePatient, Email: p.User.Email}
}
