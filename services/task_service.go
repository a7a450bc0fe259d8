package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yeremiapane/projectflow/models"
	"github.com/yeremiapane/projectflow/repository"
	"github.com/yeremiapane/projectflow/utils"
)

type TaskInput struct {
	Name        string
	Description string
	Status      models.Status
	Priority    models.Priority
	StartDate   *time.Time
	DueDate     *time.Time
	ProjectID   *uint
	// Version is the version the caller last read; zero skips the check.
	Version int64
}

type TaskService struct {
	tasks    TaskStore
	projects ProjectStore
}

func NewTaskService(tasks TaskStore, projects ProjectStore) *TaskService {
	return &TaskService{tasks: tasks, projects: projects}
}

func (in *TaskInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return invalid("task name is required")
	}
	if in.Status == "" {
		in.Status = models.StatusNotStarted
	}
	if !in.Status.Valid() {
		return invalid("unknown status %q", in.Status)
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !in.Priority.Valid() {
		return invalid("unknown priority %q", in.Priority)
	}
	if in.StartDate != nil && in.DueDate != nil && in.DueDate.Before(*in.StartDate) {
		return invalid("due date is before start date")
	}
	return nil
}

// requireMember checks the actor belongs to the project (or is admin).
func (s *TaskService) requireMember(ctx context.Context, actor Actor, projectID *uint) error {
	if projectID == nil || actor.IsAdmin() {
		if projectID != nil {
			_, err := s.projects.GetByID(ctx, *projectID)
			return fromRepo("project", err)
		}
		return nil
	}
	p, err := s.projects.GetByID(ctx, *projectID, "Users")
	if err != nil {
		return fromRepo("project", err)
	}
	if !p.HasMember(actor.ID) {
		return ErrForbidden
	}
	return nil
}

func (s *TaskService) Create(ctx context.Context, actor Actor, in TaskInput) (*models.Task, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, actor, in.ProjectID); err != nil {
		return nil, err
	}
	creator := actor.ID
	t := &models.Task{
		Name:        in.Name,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		StartDate:   in.StartDate,
		DueDate:     in.DueDate,
		ProjectID:   in.ProjectID,
		CreatedByID: &creator,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, fromRepo("task", err)
	}
	utils.InfoLogger.Printf("Task %d created by user %d", t.ID, actor.ID)
	return s.Get(ctx, t.ID)
}

func (s *TaskService) Get(ctx context.Context, id uint) (*models.Task, error) {
	t, err := s.tasks.GetByID(ctx, id, "CreatedBy", "Subtasks", "Subtasks.Assignee")
	return t, fromRepo("task", err)
}

func (s *TaskService) ListByProject(ctx context.Context, projectID uint, filter repository.TaskFilter, req repository.PageRequest) (repository.Page[models.Task], error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return repository.Page[models.Task]{}, fromRepo("project", err)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return repository.Page[models.Task]{}, invalid("unknown status %q", filter.Status)
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		return repository.Page[models.Task]{}, invalid("unknown priority %q", filter.Priority)
	}
	page, err := s.tasks.ListByProject(ctx, projectID, filter, req)
	return page, fromRepo("task", err)
}

func (s *TaskService) Update(ctx context.Context, actor Actor, id uint, in TaskInput) (*models.Task, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo("task", err)
	}
	if err := s.requireMember(ctx, actor, t.ProjectID); err != nil {
		return nil, err
	}
	if in.ProjectID != nil && (t.ProjectID == nil || *in.ProjectID != *t.ProjectID) {
		if err := s.requireMember(ctx, actor, in.ProjectID); err != nil {
			return nil, err
		}
		t.ProjectID = in.ProjectID
	}
	if in.Version != 0 {
		t.Version = in.Version
	}

	t.Name = in.Name
	t.Description = in.Description
	t.Status = in.Status
	t.Priority = in.Priority
	t.StartDate = in.StartDate
	t.DueDate = in.DueDate
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, fromRepo("task", err)
	}
	return s.Get(ctx, id)
}

// Delete removes the task with its subtasks and comments.
func (s *TaskService) Delete(ctx context.Context, actor Actor, id uint) error {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return fromRepo("task", err)
	}
	if err := s.requireMember(ctx, actor, t.ProjectID); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return fromRepo("task", err)
	}
	utils.InfoLogger.Printf("Task %d deleted by user %d", id, actor.ID)
	return nil
}

// Toggle flips COMPLETED to IN_PROGRESS and anything else to COMPLETED.
// version is the version the caller last saw; zero uses the current one.
// A concurrent change in between yields ErrConflict.
func (s *TaskService) Toggle(ctx context.Context, actor Actor, id uint, version int64) (*models.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo("task", err)
	}
	if err := s.requireMember(ctx, actor, t.ProjectID); err != nil {
		return nil, err
	}
	if version == 0 {
		version = t.Version
	}
	next := models.StatusCompleted
	if t.Status == models.StatusCompleted {
		next = models.StatusInProgress
	}
	if err := s.tasks.UpdateStatus(ctx, id, version, next); err != nil {
		return nil, fromRepo("task", err)
	}
	return s.Get(ctx, id)
}

// projectTasks returns all tasks of a project after checking it exists.
func (s *TaskService) projectTasks(ctx context.Context, projectID uint) (*models.Project, []models.Task, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, nil, fromRepo("project", err)
	}
	tasks, err := s.tasks.AllByProject(ctx, projectID)
	if err != nil {
		return nil, nil, fromRepo("task", err)
	}
	return p, tasks, nil
}

func wrapRow(row int, err error) error {
	return fmt.Errorf("row %d: %w", row, err)
}
