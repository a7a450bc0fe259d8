package services

import (
	"context"
	"io"
	"time"

	"github.com/casdoor/oss"
	"github.com/yeremiapane/projectflow/models"
	"github.com/yeremiapane/projectflow/repository"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	List(ctx context.Context, keyword string, req repository.PageRequest) (repository.Page[models.User], error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	Workloads(ctx context.Context, limit int) ([]repository.WorkloadRow, error)
}

type ProjectStore interface {
	Create(ctx context.Context, p *models.Project) error
	GetByID(ctx context.Context, id uint, preloads ...string) (*models.Project, error)
	List(ctx context.Context, filter repository.ProjectFilter, req repository.PageRequest) (repository.Page[models.Project], error)
	Update(ctx context.Context, p *models.Project) error
	ReplaceUsers(ctx context.Context, p *models.Project, users []models.User) error
	AddUsers(ctx context.Context, p *models.Project, users []models.User) error
	RemoveUser(ctx context.Context, p *models.Project, userID uint) error
	ReplaceTags(ctx context.Context, p *models.Project, tags []models.Tag) error
	Delete(ctx context.Context, id uint) ([]string, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[models.Status]int64, error)
	RecentlyModified(ctx context.Context, limit int) ([]models.Project, error)
	UpcomingDeadlines(ctx context.Context, limit int) ([]models.Project, error)
	ProjectOverdueStore
}

type TaskStore interface {
	Create(ctx context.Context, t *models.Task) error
	GetByID(ctx context.Context, id uint, preloads ...string) (*models.Task, error)
	ListByProject(ctx context.Context, projectID uint, filter repository.TaskFilter, req repository.PageRequest) (repository.Page[models.Task], error)
	AllByProject(ctx context.Context, projectID uint) ([]models.Task, error)
	Update(ctx context.Context, t *models.Task) error
	UpdateStatus(ctx context.Context, id uint, version int64, status models.Status) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[models.Status]int64, error)
	UpcomingDeadlines(ctx context.Context, limit int) ([]models.Task, error)
	CountsByProject(ctx context.Context, projectIDs []uint) (map[uint]repository.TaskCounts, error)
	TaskOverdueStore
}

// ProjectOverdueStore is the slice of project storage the overdue sweep needs.
type ProjectOverdueStore interface {
	FindOverdue(ctx context.Context, now time.Time) ([]models.Project, error)
	MarkOverdue(ctx context.Context, id uint, now time.Time) (bool, error)
}

// TaskOverdueStore is the slice of task storage the overdue sweep needs.
type TaskOverdueStore interface {
	FindOverdue(ctx context.Context, now time.Time) ([]models.Task, error)
	MarkOverdue(ctx context.Context, id uint, now time.Time) (bool, error)
}

type SubtaskStore interface {
	Create(ctx context.Context, s *models.Subtask) error
	GetByID(ctx context.Context, id uint) (*models.Subtask, error)
	ListByTask(ctx context.Context, taskID uint) ([]models.Subtask, error)
	Update(ctx context.Context, s *models.Subtask) error
	SetCompleted(ctx context.Context, id uint, version int64, completed bool) error
	Delete(ctx context.Context, id uint) error
}

type CommentStore interface {
	Create(ctx context.Context, c *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByReference(ctx context.Context, typ models.CommentType, refID uint, req repository.PageRequest) (repository.Page[models.Comment], error)
	Delete(ctx context.Context, id uint) error
}

type NotificationStore interface {
	CreateBatch(ctx context.Context, notifs []models.Notification) error
	GetByID(ctx context.Context, id uint) (*models.Notification, error)
	ListByUser(ctx context.Context, userID uint, status models.NotificationStatus, req repository.PageRequest) (repository.Page[models.Notification], error)
	MarkRead(ctx context.Context, id uint, at time.Time) error
	MarkAllRead(ctx context.Context, userID uint, at time.Time) (int64, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	Delete(ctx context.Context, id uint) error
}

type TagStore interface {
	Create(ctx context.Context, tag *models.Tag) error
	List(ctx context.Context) ([]models.Tag, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Tag, error)
}

type AttachmentStore interface {
	Create(ctx context.Context, a *models.Attachment) error
	Update(ctx context.Context, a *models.Attachment) error
	GetByID(ctx context.Context, id uint) (*models.Attachment, error)
	ListByProject(ctx context.Context, projectID uint) ([]models.Attachment, error)
	Delete(ctx context.Context, id uint) error
}

// Notifier persists notifications and hands them on for delivery.
type Notifier interface {
	Notify(ctx context.Context, notifs []models.Notification) error
}

// Pusher delivers a realtime event to a connected user.
type Pusher interface {
	Push(userID uint, event string, data interface{})
}

// ObjectStore is the part of oss.StorageInterface attachments use.
type ObjectStore interface {
	Put(path string, r io.Reader) (*oss.Object, error)
	GetStream(path string) (io.ReadCloser, error)
	Delete(path string) error
	GetURL(path string) (string, error)
}
