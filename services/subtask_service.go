package services

import (
	"context"
	"strings"
	"time"

	"github.com/yeremiapane/projectflow/models"
)

type SubtaskInput struct {
	Name       string
	TaskID     uint
	AssigneeID *uint
	DueDate    *time.Time
	Completed  bool
	Version    int64
}

type SubtaskService struct {
	subtasks SubtaskStore
	tasks    TaskStore
	users    UserStore
	access   *TaskService
}

func NewSubtaskService(subtasks SubtaskStore, tasks TaskStore, users UserStore, access *TaskService) *SubtaskService {
	return &SubtaskService{subtasks: subtasks, tasks: tasks, users: users, access: access}
}

// authorize loads the parent task and checks the actor may change it.
func (s *SubtaskService) authorize(ctx context.Context, actor Actor, taskID uint) error {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return fromRepo("task", err)
	}
	return s.access.requireMember(ctx, actor, t.ProjectID)
}

func (s *SubtaskService) checkAssignee(ctx context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	_, err := s.users.GetByID(ctx, *id)
	return fromRepo("assignee", err)
}

func (s *SubtaskService) Create(ctx context.Context, actor Actor, in SubtaskInput) (*models.Subtask, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, invalid("subtask name is required")
	}
	if err := s.authorize(ctx, actor, in.TaskID); err != nil {
		return nil, err
	}
	if err := s.checkAssignee(ctx, in.AssigneeID); err != nil {
		return nil, err
	}
	st := &models.Subtask{
		Name:       in.Name,
		TaskID:     in.TaskID,
		AssigneeID: in.AssigneeID,
		DueDate:    in.DueDate,
		Completed:  in.Completed,
	}
	if err := s.subtasks.Create(ctx, st); err != nil {
		return nil, fromRepo("subtask", err)
	}
	return s.Get(ctx, st.ID)
}

func (s *SubtaskService) Get(ctx context.Context, id uint) (*models.Subtask, error) {
	st, err := s.subtasks.GetByID(ctx, id)
	return st, fromRepo("subtask", err)
}

func (s *SubtaskService) ListByTask(ctx context.Context, taskID uint) ([]models.Subtask, error) {
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		return nil, fromRepo("task", err)
	}
	list, err := s.subtasks.ListByTask(ctx, taskID)
	return list, fromRepo("subtask", err)
}

func (s *SubtaskService) Update(ctx context.Context, actor Actor, id uint, in SubtaskInput) (*models.Subtask, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, invalid("subtask name is required")
	}
	st, err := s.subtasks.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo("subtask", err)
	}
	if err := s.authorize(ctx, actor, st.TaskID); err != nil {
		return nil, err
	}
	if err := s.checkAssignee(ctx, in.AssigneeID); err != nil {
		return nil, err
	}
	if in.Version != 0 {
		st.Version = in.Version
	}
	st.Name = in.Name
	st.AssigneeID = in.AssigneeID
	st.DueDate = in.DueDate
	st.Completed = in.Completed
	if err := s.subtasks.Update(ctx, st); err != nil {
		return nil, fromRepo("subtask", err)
	}
	return s.Get(ctx, id)
}

func (s *SubtaskService) Delete(ctx context.Context, actor Actor, id uint) error {
	st, err := s.subtasks.GetByID(ctx, id)
	if err != nil {
		return fromRepo("subtask", err)
	}
	if err := s.authorize(ctx, actor, st.TaskID); err != nil {
		return err
	}
	return fromRepo("subtask", s.subtasks.Delete(ctx, id))
}

// Toggle flips completed. version works as in TaskService.Toggle.
func (s *SubtaskService) Toggle(ctx context.Context, actor Actor, id uint, version int64) (*models.Subtask, error) {
	st, err := s.subtasks.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo("subtask", err)
	}
	if err := s.authorize(ctx, actor, st.TaskID); err != nil {
		return nil, err
	}
	if version == 0 {
		version = st.Version
	}
	if err := s.subtasks.SetCompleted(ctx, id, version, !st.Completed); err != nil {
		return nil, fromRepo("subtask", err)
	}
	return s.Get(ctx, id)
}
