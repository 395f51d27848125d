package repository

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/domain/faq"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FAQRepository struct {
	db *gorm.DB
}

func NewFAQRepository(db *gorm.DB) *FAQRepository {
	return &FAQRepository{db: db}
}

func (r *FAQRepository) Create(ctx context.Context, e *faq.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *FAQRepository) GetByID(ctx context.Context, id uuid.UUID) (*faq.Entry, error) {
	var e faq.Entry
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, translate(err, faq.ErrEntryNotFound)
	}
	return &e, nil
}

func (r *FAQRepository) Update(ctx context.Context, e *faq.Entry) error {
	return save(r.db.WithContext(ctx), e, faq.ErrEntryNotFound)
}

func (r *FAQRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &faq.Entry{}, id, faq.ErrEntryNotFound)
}

func (r *FAQRepository) List(ctx context.Context) ([]*faq.Entry, error) {
	var items []*faq.Entry
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&items).Error
	return items, err
}
