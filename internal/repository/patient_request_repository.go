package repository

import (
	"context"

	pr "github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/patient_request"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRequestRepository struct {
	db *gorm.DB
}

func NewPatientRequestRepository(db *gorm.DB) *PatientRequestRepository {
	return &PatientRequestRepository{db: db}
}

func (r *PatientRequestRepository) Create(ctx context.Context, req *pr.PatientRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *PatientRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*pr.PatientRequest, error) {
	var req pr.PatientRequest
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, translate(err, pr.ErrRequestNotFound)
	}
	return &req, nil
}

func (r *PatientRequestRepository) Update(ctx context.Context, req *pr.PatientRequest) error {
	return r.db.WithContext(ctx).Omit("requested_at").Save(req).Error
}

func (r *PatientRequestRepository) ListPending(ctx context.Context) ([]*pr.PatientRequest, error) {
	var items []*pr.PatientRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", pr.StatusPending).
		Order("requested_at ASC").
		Find(&items).Error
	return items, err
}
