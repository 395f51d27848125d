package repository

import (
	"context"

	mr "github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/medical_record"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MedicalRecordRepository struct {
	db *gorm.DB
}

func NewMedicalRecordRepository(db *gorm.DB) *MedicalRecordRepository {
	return &MedicalRecordRepository{db: db}
}

func (r *MedicalRecordRepository) Create(ctx context.Context, rec *mr.MedicalRecord) error {
	err := r.db.WithContext(ctx).Omit("Prescriptions").Create(rec).Error
	if isDuplicate(err) {
		return mr.ErrRecordConflict
	}
	return err
}

func (r *MedicalRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*mr.MedicalRecord, error) {
	var rec mr.MedicalRecord
	err := r.db.WithContext(ctx).
		Preload("Prescriptions", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&rec, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, mr.ErrRecordNotFound)
	}
	return &rec, nil
}

func (r *MedicalRecordRepository) Update(ctx context.Context, rec *mr.MedicalRecord) error {
	return save(r.db.WithContext(ctx), rec, mr.ErrRecordNotFound)
}

func (r *MedicalRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &mr.MedicalRecord{}, id, mr.ErrRecordNotFound)
}

func (r *MedicalRecordRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*mr.MedicalRecord, error) {
	var recs []*mr.MedicalRecord
	err := r.db.WithContext(ctx).
		Preload("Prescriptions").
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&recs).Error
	return recs, err
}

func (r *MedicalRecordRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*mr.MedicalRecord, error) {
	var recs []*mr.MedicalRecord
	err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("created_at DESC").
		Find(&recs).Error
	return recs, err
}

func (r *MedicalRecordRepository) GetByDoctorAndPatient(ctx context.Context, doctorID, patientID uuid.UUID) (*mr.MedicalRecord, error) {
	var rec mr.MedicalRecord
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND patient_id = ?", doctorID, patientID).
		First(&rec).Error
	if err != nil {
		return nil, translate(err, mr.ErrRecordNotFound)
	}
	return &rec, nil
}
