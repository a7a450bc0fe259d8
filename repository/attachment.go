package repository

import (
	"context"

	"github.com/yeremiapane/projectflow/models"
	"gorm.io/gorm"
)

type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) Create(ctx context.Context, a *models.Attachment) error {
	return translate(r.db.WithContext(ctx).Create(a).Error)
}

func (r *AttachmentRepository) Update(ctx context.Context, a *models.Attachment) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *AttachmentRepository) GetByID(ctx context.Context, id uint) (*models.Attachment, error) {
	var a models.Attachment
	if err := r.db.WithContext(ctx).Preload("UploadedBy").First(&a, id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *AttachmentRepository) ListByProject(ctx context.Context, projectID uint) ([]models.Attachment, error) {
	var list []models.Attachment
	err := r.db.WithContext(ctx).Preload("UploadedBy").
		Where("project_id = ?", projectID).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

func (r *AttachmentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Attachment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
