package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/projectflow/models"
	"github.com/yeremiapane/projectflow/repository"
	"github.com/yeremiapane/projectflow/testutil"
)

func TestProgress(t *testing.T) {
	assert.Equal(t, 0.0, progress(0, 0))
	assert.Equal(t, 75.0, progress(3, 4))
	assert.Equal(t, 100.0, progress(2, 2))
}

func TestDashboard(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := NewDashboardService(
		repository.NewProjectRepository(db),
		repository.NewTaskRepository(db),
		repository.NewUserRepository(db),
	)

	owner := testutil.SeedUser(t, db, "owner", models.RoleUser)
	base := time.Now().Add(48 * time.Hour)
	day := func(n int) *time.Time { return testutil.TimePtr(base.Add(time.Duration(n) * 24 * time.Hour)) }

	busy := testutil.SeedProject(t, db, "busy", owner)
	empty := testutil.SeedProject(t, db, "empty", owner)
	require.NoError(t, db.Model(busy).Update("due_date", day(2)).Error)
	require.NoError(t, db.Model(empty).Update("due_date", day(4)).Error)

	testutil.SeedTask(t, db, "done1", busy, owner, models.StatusCompleted, day(0))
	testutil.SeedTask(t, db, "done2", busy, owner, models.StatusCompleted, nil)
	testutil.SeedTask(t, db, "done3", busy, owner, models.StatusCompleted, nil)
	testutil.SeedTask(t, db, "open", busy, owner, models.StatusInProgress, day(1))
	testutil.SeedTask(t, db, "loose1", nil, owner, models.StatusNotStarted, day(3))
	testutil.SeedTask(t, db, "loose2", nil, owner, models.StatusNotStarted, day(5))
	testutil.SeedTask(t, db, "loose3", nil, owner, models.StatusNotStarted, day(6))

	d, err := svc.Get(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), d.Counts.Projects)
	assert.Equal(t, int64(7), d.Counts.Tasks)
	assert.Equal(t, int64(1), d.Counts.Users)
	assert.Equal(t, int64(3), d.TaskStatus[models.StatusCompleted])
	assert.Equal(t, int64(2), d.ProjectStatus[models.StatusInProgress])
	assert.Equal(t, int64(0), d.ProjectStatus[models.StatusOverDue])

	progressByName := map[string]float64{}
	for _, p := range d.RecentProjects {
		progressByName[p.Name] = p.Progress
	}
	assert.Equal(t, 75.0, progressByName["busy"])
	assert.Equal(t, 0.0, progressByName["empty"])

	// 3 nearest open tasks (open, loose1, loose2) + 2 projects (busy, empty), by due date
	require.Len(t, d.UpcomingDeadlines, 5)
	names := make([]string, 0, 5)
	for i, dl := range d.UpcomingDeadlines {
		names = append(names, dl.Name)
		if i > 0 {
			assert.False(t, dl.DueDate.Before(d.UpcomingDeadlines[i-1].DueDate))
		}
	}
	assert.Equal(t, []string{"open", "busy", "loose1", "empty", "loose2"}, names)

	require.Len(t, d.Workload, 1)
	assert.Equal(t, owner.ID, d.Workload[0].UserID)
}

func TestDashboardCapsWorkloadAtFiveUsers(t *testing.T) {
	db := testutil.NewDB(t)
	for i := 0; i < 7; i++ {
		testutil.SeedUser(t, db, "u", models.RoleUser)
	}
	svc := NewDashboardService(repository.NewProjectRepository(db), repository.NewTaskRepository(db), repository.NewUserRepository(db))

	d, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, d.Workload, 5)
	assert.Empty(t, d.RecentProjects)
	assert.Empty(t, d.UpcomingDeadlines)
}
