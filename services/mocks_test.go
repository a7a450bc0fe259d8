package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/yeremiapane/projectflow/models"
)

type mockProjectOverdue struct {
	mock.Mock
}

func (m *mockProjectOverdue) FindOverdue(ctx context.Context, now time.Time) ([]models.Project, error) {
	args := m.Called(ctx, now)
	projects, _ := args.Get(0).([]models.Project)
	return projects, args.Error(1)
}

func (m *mockProjectOverdue) MarkOverdue(ctx context.Context, id uint, now time.Time) (bool, error) {
	args := m.Called(ctx, id, now)
	return args.Bool(0), args.Error(1)
}

type mockTaskOverdue struct {
	mock.Mock
}

func (m *mockTaskOverdue) FindOverdue(ctx context.Context, now time.Time) ([]models.Task, error) {
	args := m.Called(ctx, now)
	tasks, _ := args.Get(0).([]models.Task)
	return tasks, args.Error(1)
}

func (m *mockTaskOverdue) MarkOverdue(ctx context.Context, id uint, now time.Time) (bool, error) {
	args := m.Called(ctx, id, now)
	return args.Bool(0), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, notifs []models.Notification) error {
	return m.Called(ctx, notifs).Error(0)
}

type recordingPusher struct {
	pushed []uint
}

func (p *recordingPusher) Push(userID uint, event string, data interface{}) {
	p.pushed = append(p.pushed, userID)
}

type recordingSender struct {
	to []string
}

func (s *recordingSender) Send(_ context.Context, to, subject, body string) error {
	s.to = append(s.to, to)
	return nil
}
