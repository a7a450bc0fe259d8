package repository

import (
	"context"

	"github.com/yeremiapane/projectflow/models"
	"gorm.io/gorm"
)

// WorkloadRow is the per-user subtask tally used by the dashboard.
type WorkloadRow struct {
	UserID    uint   `json:"user_id"`
	Name      string `json:"name"`
	Assigned  int64  `json:"assigned"`
	Completed int64  `json:"completed"`
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) List(ctx context.Context, keyword string, req PageRequest) (Page[models.User], error) {
	query := r.db.WithContext(ctx).Model(&models.User{})
	if keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("(name LIKE ? OR email LIKE ?)", like, like)
	}
	return paginate[models.User](query, req, "id ASC")
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Save(user).Error)
}

// Delete removes the user, detaching it from projects, tasks and subtasks first.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Exec("DELETE FROM project_users WHERE user_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Project{}).Where("manager_id = ?", id).Update("manager_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Task{}).Where("created_by_id = ?", id).Update("created_by_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Subtask{}).Where("assignee_id = ?", id).Update("assignee_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", id).Delete(&models.Notification{}).Error
	})
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

// Workloads returns assigned and completed subtask counts for the first limit users.
func (r *UserRepository) Workloads(ctx context.Context, limit int) ([]WorkloadRow, error) {
	var rows []WorkloadRow
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.id AS user_id, users.name AS name, COUNT(subtasks.id) AS assigned, "+
			"COALESCE(SUM(CASE WHEN subtasks.completed = ? THEN 1 ELSE 0 END), 0) AS completed", true).
		Joins("LEFT JOIN subtasks ON subtasks.assignee_id = users.id").
		Group("users.id, users.name").
		Order("users.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
