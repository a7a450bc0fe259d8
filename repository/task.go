package repository

import (
	"context"
	"time"

	"github.com/yeremiapane/projectflow/models"
	"gorm.io/gorm"
)

// TaskFilter narrows task listings. Zero values mean "any".
type TaskFilter struct {
	Status   models.Status
	Priority models.Priority
	Keyword  string
}

// TaskCounts is the total and completed task tally of one project.
type TaskCounts struct {
	ProjectID uint
	Total     int64
	Completed int64
}

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *models.Task) error {
	if t.Version == 0 {
		t.Version = 1
	}
	return translate(r.db.WithContext(ctx).Create(t).Error)
}

// GetByID loads a task with the named relations preloaded, e.g. "Project.Users", "CreatedBy".
func (r *TaskRepository) GetByID(ctx context.Context, id uint, preloads ...string) (*models.Task, error) {
	var t models.Task
	query := r.db.WithContext(ctx)
	for _, rel := range preloads {
		query = query.Preload(rel)
	}
	if err := query.First(&t, id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID uint, filter TaskFilter, req PageRequest) (Page[models.Task], error) {
	query := r.db.WithContext(ctx).Model(&models.Task{}).Where("project_id = ?", projectID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("(name LIKE ? OR description LIKE ?)", like, like)
	}
	return paginate[models.Task](query, req, "id ASC", "CreatedBy")
}

// AllByProject returns every task of a project, oldest first.
func (r *TaskRepository) AllByProject(ctx context.Context, projectID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("id ASC").Find(&tasks).Error
	return tasks, err
}

// Update writes the task's columns if its version still matches, then bumps the version.
func (r *TaskRepository) Update(ctx context.Context, t *models.Task) error {
	res := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ? AND version = ?", t.ID, t.Version).
		Updates(map[string]interface{}{
			"name":        t.Name,
			"description": t.Description,
			"status":      t.Status,
			"priority":    t.Priority,
			"start_date":  t.StartDate,
			"due_date":    t.DueDate,
			"project_id":  t.ProjectID,
			"version":     gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.missingOrConflict(ctx, t.ID)
	}
	t.Version++
	return nil
}

// UpdateStatus is the versioned status write used by toggles.
func (r *TaskRepository) UpdateStatus(ctx context.Context, id uint, version int64, status models.Status) error {
	res := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"status":  status,
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.missingOrConflict(ctx, id)
	}
	return nil
}

func (r *TaskRepository) missingOrConflict(ctx context.Context, id uint) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrConflict
}

// Delete removes a task with its subtasks and comments in one transaction.
func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t models.Task
		if err := tx.Select("id").First(&t, id).Error; err != nil {
			return translate(err)
		}
		return deleteTasks(tx, []uint{id})
	})
}

func (r *TaskRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Task{}).Count(&n).Error
	return n, err
}

func (r *TaskRepository) CountByStatus(ctx context.Context) (map[models.Status]int64, error) {
	return countByStatus(r.db.WithContext(ctx).Model(&models.Task{}))
}

// FindOverdue returns tasks past their due date that are not completed.
func (r *TaskRepository) FindOverdue(ctx context.Context, now time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Where("due_date < ? AND status <> ?", now, models.StatusCompleted).
		Find(&tasks).Error
	return tasks, err
}

// MarkOverdue sets status OVER_DUE and stamps updated_at with now. The
// version is bumped so an in-flight toggle based on the old status fails.
// Rows that are COMPLETED or already OVER_DUE by the time of the write are
// left alone and reported as unchanged.
func (r *TaskRepository) MarkOverdue(ctx context.Context, id uint, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ? AND status NOT IN ?", id, []models.Status{models.StatusCompleted, models.StatusOverDue}).
		UpdateColumns(map[string]interface{}{
			"status":     models.StatusOverDue,
			"updated_at": now,
			"version":    gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpcomingDeadlines returns non-completed tasks with a due date, nearest first.
func (r *TaskRepository) UpcomingDeadlines(ctx context.Context, limit int) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Preload("Project").
		Where("due_date IS NOT NULL AND status <> ?", models.StatusCompleted).
		Order("due_date ASC").
		Limit(limit).
		Find(&tasks).Error
	return tasks, err
}

// CountsByProject returns total and completed task counts keyed by project id.
// Projects without tasks are absent from the map.
func (r *TaskRepository) CountsByProject(ctx context.Context, projectIDs []uint) (map[uint]TaskCounts, error) {
	counts := make(map[uint]TaskCounts, len(projectIDs))
	if len(projectIDs) == 0 {
		return counts, nil
	}
	var rows []TaskCounts
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Select("project_id, COUNT(*) AS total, COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed", models.StatusCompleted).
		Where("project_id IN ?", projectIDs).
		Group("project_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ProjectID] = row
	}
	return counts, nil
}

// deleteTasks removes the given tasks and everything hanging off them.
func deleteTasks(tx *gorm.DB, taskIDs []uint) error {
	if len(taskIDs) == 0 {
		return nil
	}
	if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.Subtask{}).Error; err != nil {
		return err
	}
	if err := deleteCommentsByReference(tx, models.CommentTypeTask, taskIDs); err != nil {
		return err
	}
	if err := tx.Model(&models.Attachment{}).Where("task_id IN ?", taskIDs).Update("task_id", nil).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", taskIDs).Delete(&models.Task{}).Error
}
