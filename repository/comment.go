package repository

import (
	"context"

	"github.com/yeremiapane/projectflow/models"
	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *models.Comment) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *CommentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var c models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// ListByReference pages through the comments on one project or task, oldest first.
func (r *CommentRepository) ListByReference(ctx context.Context, typ models.CommentType, refID uint, req PageRequest) (Page[models.Comment], error) {
	query := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("type = ? AND reference_id = ?", typ, refID)
	return paginate[models.Comment](query, req, "created_at ASC, id ASC", "User")
}

// Delete removes a comment together with every reply below it.
func (r *CommentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Comment
		if err := tx.Select("id").First(&c, id).Error; err != nil {
			return translate(err)
		}
		ids, err := collectReplies(tx, []uint{id})
		if err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.Comment{}).Error
	})
}

// collectReplies walks the reply tree breadth first and returns roots plus descendants.
func collectReplies(tx *gorm.DB, roots []uint) ([]uint, error) {
	all := append([]uint(nil), roots...)
	frontier := roots
	for len(frontier) > 0 {
		var next []uint
		if err := tx.Model(&models.Comment{}).Where("parent_id IN ?", frontier).Pluck("id", &next).Error; err != nil {
			return nil, err
		}
		all = append(all, next...)
		frontier = next
	}
	return all, nil
}

func deleteCommentsByReference(tx *gorm.DB, typ models.CommentType, refIDs []uint) error {
	if len(refIDs) == 0 {
		return nil
	}
	var roots []uint
	if err := tx.Model(&models.Comment{}).Where("type = ? AND reference_id IN ?", typ, refIDs).Pluck("id", &roots).Error; err != nil {
		return err
	}
	if len(roots) == 0 {
		return nil
	}
	ids, err := collectReplies(tx, roots)
	if err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&models.Comment{}).Error
}
