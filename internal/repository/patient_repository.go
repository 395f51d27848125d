package repository

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/patient"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Doctor visibility: the patient has a record or an appointment with the
// doctor owning the given identity.
const visibleToDoctorClause = `EXISTS (
	SELECT 1 FROM clinical.medical_records mr
	JOIN clinical.doctors d ON d.id = mr.doctor_id
	WHERE mr.patient_id = clinical.patients.id AND d.user_id = ?
) OR EXISTS (
	SELECT 1 FROM clinical.appointments a
	JOIN clinical.doctors d ON d.id = a.doctor_id
	WHERE a.patient_id = clinical.patients.id AND d.user_id = ?
)`

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) Create(ctx context.Context, p *patient.Patient) error {
	err := r.db.WithContext(ctx).Omit("User").Create(p).Error
	if isDuplicate(err) {
		return patient.ErrPatientAlreadyExists
	}
	return err
}

func (r *PatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	var p patient.Patient
	err := r.db.WithContext(ctx).Preload("User").First(&p, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, patient.ErrPatientNotFound)
	}
	return &p, nil
}

func (r *PatientRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*patient.Patient, error) {
	var p patient.Patient
	err := r.db.WithContext(ctx).Preload("User").First(&p, "user_id = ?", userID).Error
	if err != nil {
		return nil, translate(err, patient.ErrPatientNotFound)
	}
	return &p, nil
}

func (r *PatientRepository) Update(ctx context.Context, p *patient.Patient) error {
	return save(r.db.WithContext(ctx), p, patient.ErrPatientNotFound)
}

func (r *PatientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &patient.Patient{}, id, patient.ErrPatientNotFound)
}

func (r *PatientRepository) List(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	page, size := normalizePage(q.Page, q.PageSize)

	tx := r.db.WithContext(ctx).Model(&patient.Patient{})
	if q.VisibleToDoctorUserID != nil {
		tx = tx.Where(visibleToDoctorClause, *q.VisibleToDoctorUserID, *q.VisibleToDoctorUserID)
	}
	if q.Search != "" {
		tx = tx.Where("user_id IN (SELECT id FROM auth.users WHERE full_name ILIKE ?)", "%"+q.Search+"%")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []*patient.Patient
	err := tx.Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return &patient.PagedPatients{
		Patients:   items,
		TotalCount: total,
		Page:       page,
		PageSize:   size,
		TotalPages: domain.TotalPages(total, size),
	}, nil
}

func (r *PatientRepository) ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&patient.Patient{}).Where("user_id = ?", userID).Count(&n).Error
	return n > 0, err
}

func (r *PatientRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&patient.Patient{}).Count(&n).Error
	return n, err
}
