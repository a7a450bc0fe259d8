package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/projectflow/models"
	"github.com/yeremiapane/projectflow/repository"
	"github.com/yeremiapane/projectflow/testutil"
	"gorm.io/gorm"
)

func TestReconcilerMarksOverdueOnceAndSkipsCompleted(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	projects := repository.NewProjectRepository(db)
	tasks := repository.NewTaskRepository(db)

	owner := testutil.SeedUser(t, db, "owner", models.RoleUser)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	late := testutil.SeedProject(t, db, "late", owner)
	require.NoError(t, db.Model(late).Updates(map[string]interface{}{"due_date": yesterday, "status": models.StatusInProgress}).Error)
	onTime := testutil.SeedProject(t, db, "on time", owner)
	require.NoError(t, db.Model(onTime).Update("due_date", tomorrow).Error)

	lateTask := testutil.SeedTask(t, db, "late task", late, owner, models.StatusNotStarted, &yesterday)
	doneTask := testutil.SeedTask(t, db, "done task", late, owner, models.StatusCompleted, &yesterday)

	r := NewStatusReconciler(projects, tasks)
	r.now = func() time.Time { return now }

	first, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ProjectsUpdated)
	assert.Equal(t, 1, first.TasksUpdated)
	assert.Equal(t, 0, first.Failures)
	assert.True(t, now.Equal(first.RanAt))

	p, err := projects.GetByID(ctx, late.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOverDue, p.Status)
	assert.True(t, now.Equal(p.UpdatedAt), "updated_at should be the captured now, got %s", p.UpdatedAt)

	p, err = projects.GetByID(ctx, onTime.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, p.Status)

	lt, err := tasks.GetByID(ctx, lateTask.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOverDue, lt.Status)
	assert.True(t, now.Equal(lt.UpdatedAt))

	dt, err := tasks.GetByID(ctx, doneTask.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, dt.Status)

	second, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, second.ProjectsUpdated)
	assert.Zero(t, second.TasksUpdated)
}

func TestReconcilerSecondRunWritesNothing(t *testing.T) {
	now := time.Now()
	projects := new(mockProjectOverdue)
	tasks := new(mockTaskOverdue)
	projects.On("FindOverdue", mock.Anything, now).Return([]models.Project{{ID: 1, Status: models.StatusOverDue}}, nil)
	tasks.On("FindOverdue", mock.Anything, now).Return([]models.Task{{ID: 2, Status: models.StatusOverDue}}, nil)

	r := NewStatusReconciler(projects, tasks)
	r.now = func() time.Time { return now }

	result, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.ProjectsUpdated+result.TasksUpdated)
	projects.AssertNotCalled(t, "MarkOverdue", mock.Anything, mock.Anything, mock.Anything)
	tasks.AssertNotCalled(t, "MarkOverdue", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcilerContinuesPastFailedRow(t *testing.T) {
	now := time.Now()
	projects := new(mockProjectOverdue)
	tasks := new(mockTaskOverdue)
	projects.On("FindOverdue", mock.Anything, now).Return([]models.Project{
		{ID: 1, Status: models.StatusInProgress},
		{ID: 2, Status: models.StatusNotStarted},
	}, nil)
	projects.On("MarkOverdue", mock.Anything, uint(1), now).Return(false, errors.New("deadlock"))
	projects.On("MarkOverdue", mock.Anything, uint(2), now).Return(true, nil)
	tasks.On("FindOverdue", mock.Anything, now).Return([]models.Task{{ID: 9, Status: models.StatusOnHold}}, nil)
	tasks.On("MarkOverdue", mock.Anything, uint(9), now).Return(true, nil)

	r := NewStatusReconciler(projects, tasks)
	r.now = func() time.Time { return now }

	result, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.ProjectsUpdated)
	assert.Equal(t, 1, result.TasksUpdated)
	assert.Equal(t, 1, result.Failures)
	projects.AssertExpectations(t)
	tasks.AssertExpectations(t)
}

func TestReconcilerRunsTaskPassWhenProjectQueryFails(t *testing.T) {
	now := time.Now()
	projects := new(mockProjectOverdue)
	tasks := new(mockTaskOverdue)
	projects.On("FindOverdue", mock.Anything, now).Return(nil, errors.New("connection reset"))
	tasks.On("FindOverdue", mock.Anything, now).Return([]models.Task{{ID: 3, Status: models.StatusInProgress}}, nil)
	tasks.On("MarkOverdue", mock.Anything, uint(3), now).Return(true, nil)

	r := NewStatusReconciler(projects, tasks)
	r.now = func() time.Time { return now }

	result, err := r.Run(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 1, result.TasksUpdated)
}

// completingTaskStore completes every row it hands out, so the sweep's write
// lands after the row has turned COMPLETED.
type completingTaskStore struct {
	*repository.TaskRepository
	db *gorm.DB
}

func (s completingTaskStore) FindOverdue(ctx context.Context, now time.Time) ([]models.Task, error) {
	tasks, err := s.TaskRepository.FindOverdue(ctx, now)
	for _, t := range tasks {
		s.db.Model(&models.Task{}).Where("id = ?", t.ID).Update("status", models.StatusCompleted)
	}
	return tasks, err
}

func TestReconcilerDoesNotOverwriteTaskCompletedMidSweep(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, db, "owner", models.RoleUser)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	task := testutil.SeedTask(t, db, "racing", nil, owner, models.StatusInProgress, &yesterday)

	tasks := repository.NewTaskRepository(db)
	r := NewStatusReconciler(repository.NewProjectRepository(db), completingTaskStore{TaskRepository: tasks, db: db})
	r.now = func() time.Time { return now }

	result, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.TasksUpdated)
	assert.Zero(t, result.Failures)

	got, err := tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
}

func TestReconcilerSkipsRowChangedBeforeWrite(t *testing.T) {
	now := time.Now()
	projects := new(mockProjectOverdue)
	tasks := new(mockTaskOverdue)
	projects.On("FindOverdue", mock.Anything, now).Return([]models.Project{{ID: 4, Status: models.StatusInProgress}}, nil)
	projects.On("MarkOverdue", mock.Anything, uint(4), now).Return(false, nil)
	tasks.On("FindOverdue", mock.Anything, now).Return(nil, nil)

	r := NewStatusReconciler(projects, tasks)
	r.now = func() time.Time { return now }

	result, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.ProjectsUpdated)
	assert.Zero(t, result.Failures)
	projects.AssertExpectations(t)
}
