package repository

import (
	"context"

	"github.com/yeremiapane/projectflow/models"
	"gorm.io/gorm"
)

type SubtaskRepository struct {
	db *gorm.DB
}

func NewSubtaskRepository(db *gorm.DB) *SubtaskRepository {
	return &SubtaskRepository{db: db}
}

func (r *SubtaskRepository) Create(ctx context.Context, s *models.Subtask) error {
	if s.Version == 0 {
		s.Version = 1
	}
	return translate(r.db.WithContext(ctx).Create(s).Error)
}

func (r *SubtaskRepository) GetByID(ctx context.Context, id uint) (*models.Subtask, error) {
	var s models.Subtask
	if err := r.db.WithContext(ctx).Preload("Assignee").First(&s, id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *SubtaskRepository) ListByTask(ctx context.Context, taskID uint) ([]models.Subtask, error) {
	var subtasks []models.Subtask
	err := r.db.WithContext(ctx).Preload("Assignee").Where("task_id = ?", taskID).Order("id ASC").Find(&subtasks).Error
	return subtasks, err
}

// Update writes the subtask's columns if its version still matches, then bumps the version.
func (r *SubtaskRepository) Update(ctx context.Context, s *models.Subtask) error {
	res := r.db.WithContext(ctx).Model(&models.Subtask{}).
		Where("id = ? AND version = ?", s.ID, s.Version).
		Updates(map[string]interface{}{
			"name":        s.Name,
			"completed":   s.Completed,
			"assignee_id": s.AssigneeID,
			"due_date":    s.DueDate,
			"version":     gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.missingOrConflict(ctx, s.ID)
	}
	s.Version++
	return nil
}

func (r *SubtaskRepository) SetCompleted(ctx context.Context, id uint, version int64, completed bool) error {
	res := r.db.WithContext(ctx).Model(&models.Subtask{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"completed": completed,
			"version":   gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.missingOrConflict(ctx, id)
	}
	return nil
}

func (r *SubtaskRepository) missingOrConflict(ctx context.Context, id uint) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Subtask{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrConflict
}

func (r *SubtaskRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Subtask{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
