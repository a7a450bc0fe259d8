package repository

import (
	"context"
	"time"

	"github.com/yeremiapane/projectflow/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProjectFilter narrows project listings. Zero values mean "any".
type ProjectFilter struct {
	Status   models.Status
	Keyword  string
	MemberID *uint
}

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

// GetByID loads a project with the named relations preloaded, e.g. "Manager", "Users", "Tags".
func (r *ProjectRepository) GetByID(ctx context.Context, id uint, preloads ...string) (*models.Project, error) {
	var p models.Project
	query := r.db.WithContext(ctx)
	for _, rel := range preloads {
		query = query.Preload(rel)
	}
	if err := query.First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *ProjectRepository) List(ctx context.Context, filter ProjectFilter, req PageRequest) (Page[models.Project], error) {
	query := r.db.WithContext(ctx).Model(&models.Project{})
	if filter.Status != "" {
		query = query.Where("projects.status = ?", filter.Status)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("(projects.name LIKE ? OR projects.description LIKE ?)", like, like)
	}
	if filter.MemberID != nil {
		query = query.Where("(projects.manager_id = ? OR projects.id IN (?))", *filter.MemberID,
			r.db.Table("project_users").Select("project_id").Where("user_id = ?", *filter.MemberID))
	}
	return paginate[models.Project](query, req, "projects.updated_at DESC", "Manager", "Tags")
}

// Update writes scalar columns only; membership and tags go through the Replace* methods.
func (r *ProjectRepository) Update(ctx context.Context, p *models.Project) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error)
}

func (r *ProjectRepository) ReplaceUsers(ctx context.Context, p *models.Project, users []models.User) error {
	return r.db.WithContext(ctx).Model(p).Association("Users").Replace(users)
}

func (r *ProjectRepository) AddUsers(ctx context.Context, p *models.Project, users []models.User) error {
	if len(users) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(p).Association("Users").Append(users)
}

func (r *ProjectRepository) RemoveUser(ctx context.Context, p *models.Project, userID uint) error {
	return r.db.WithContext(ctx).Model(p).Association("Users").Delete(&models.User{ID: userID})
}

func (r *ProjectRepository) ReplaceTags(ctx context.Context, p *models.Project, tags []models.Tag) error {
	return r.db.WithContext(ctx).Model(p).Association("Tags").Replace(tags)
}

// Delete removes a project and everything it owns in one transaction, in
// dependency order: subtasks, task comments, tasks, project comments,
// attachments, join rows, then the project. It returns the storage keys of
// the removed attachments so the caller can clean up object storage.
func (r *ProjectRepository) Delete(ctx context.Context, id uint) ([]string, error) {
	var keys []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Project
		if err := tx.Select("id").First(&p, id).Error; err != nil {
			return translate(err)
		}

		var taskIDs []uint
		if err := tx.Model(&models.Task{}).Where("project_id = ?", id).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}
		if err := deleteTasks(tx, taskIDs); err != nil {
			return err
		}
		if err := deleteCommentsByReference(tx, models.CommentTypeProject, []uint{id}); err != nil {
			return err
		}

		if err := tx.Model(&models.Attachment{}).Where("project_id = ?", id).Pluck("storage_key", &keys).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}

		if err := tx.Exec("DELETE FROM project_users WHERE project_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM project_tags WHERE project_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *ProjectRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Count(&n).Error
	return n, err
}

func (r *ProjectRepository) CountByStatus(ctx context.Context) (map[models.Status]int64, error) {
	return countByStatus(r.db.WithContext(ctx).Model(&models.Project{}))
}

// FindOverdue returns projects past their due date that are not completed.
func (r *ProjectRepository) FindOverdue(ctx context.Context, now time.Time) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).
		Where("due_date < ? AND status <> ?", now, models.StatusCompleted).
		Find(&projects).Error
	return projects, err
}

// MarkOverdue sets status OVER_DUE and stamps updated_at with now. Rows that
// are COMPLETED or already OVER_DUE by the time of the write are left alone
// and reported as unchanged.
func (r *ProjectRepository) MarkOverdue(ctx context.Context, id uint, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ? AND status NOT IN ?", id, []models.Status{models.StatusCompleted, models.StatusOverDue}).
		UpdateColumns(map[string]interface{}{
			"status":     models.StatusOverDue,
			"updated_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ProjectRepository) RecentlyModified(ctx context.Context, limit int) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).Order("updated_at DESC").Order("id DESC").Limit(limit).Find(&projects).Error
	return projects, err
}

// UpcomingDeadlines returns non-completed projects with a due date, nearest first.
func (r *ProjectRepository) UpcomingDeadlines(ctx context.Context, limit int) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).
		Where("due_date IS NOT NULL AND status <> ?", models.StatusCompleted).
		Order("due_date ASC").
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

type statusCount struct {
	Status models.Status
	Total  int64
}

func countByStatus(query *gorm.DB) (map[models.Status]int64, error) {
	var rows []statusCount
	if err := query.Select("status, COUNT(*) AS total").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[models.Status]int64, len(models.AllStatuses))
	for _, s := range models.AllStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
