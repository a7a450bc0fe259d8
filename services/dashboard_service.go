package services

import (
	"context"
	"slices"
	"time"

	"github.com/yeremiapane/projectflow/models"
	"github.com/yeremiapane/projectflow/repository"
)

const (
	recentProjectLimit   = 5
	taskDeadlineLimit    = 3
	projectDeadlineLimit = 2
	deadlineLimit        = 5
	workloadLimit        = 5
)

type DashboardCounts struct {
	Projects int64 `json:"projects"`
	Tasks    int64 `json:"tasks"`
	Users    int64 `json:"users"`
}

type ProjectProgress struct {
	ID             uint          `json:"id"`
	Name           string        `json:"name"`
	Status         models.Status `json:"status"`
	DueDate        *time.Time    `json:"due_date,omitempty"`
	UpdatedAt      time.Time     `json:"updated_at"`
	TotalTasks     int64         `json:"total_tasks"`
	CompletedTasks int64         `json:"completed_tasks"`
	Progress       float64       `json:"progress"`
}

// Deadline is one entry of the merged task/project deadline list.
type Deadline struct {
	Kind      string        `json:"kind"` // TASK or PROJECT
	ID        uint          `json:"id"`
	Name      string        `json:"name"`
	Status    models.Status `json:"status"`
	DueDate   time.Time     `json:"due_date"`
	ProjectID *uint         `json:"project_id,omitempty"`
}

type Dashboard struct {
	Counts            DashboardCounts          `json:"counts"`
	ProjectStatus     map[models.Status]int64  `json:"project_status"`
	TaskStatus        map[models.Status]int64  `json:"task_status"`
	RecentProjects    []ProjectProgress        `json:"recent_projects"`
	UpcomingDeadlines []Deadline               `json:"upcoming_deadlines"`
	Workload          []repository.WorkloadRow `json:"workload"`
}

type DashboardService struct {
	projects ProjectStore
	tasks    TaskStore
	users    UserStore
}

func NewDashboardService(projects ProjectStore, tasks TaskStore, users UserStore) *DashboardService {
	return &DashboardService{projects: projects, tasks: tasks, users: users}
}

// progress is completed/total as a percentage, 0 for a project without tasks.
func progress(completed, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

// Get builds the dashboard. Any failing query fails the whole call.
func (s *DashboardService) Get(ctx context.Context) (*Dashboard, error) {
	var (
		d   = &Dashboard{}
		err error
	)
	if d.Counts.Projects, err = s.projects.Count(ctx); err != nil {
		return nil, fromRepo("project count", err)
	}
	if d.Counts.Tasks, err = s.tasks.Count(ctx); err != nil {
		return nil, fromRepo("task count", err)
	}
	if d.Counts.Users, err = s.users.Count(ctx); err != nil {
		return nil, fromRepo("user count", err)
	}
	if d.ProjectStatus, err = s.projects.CountByStatus(ctx); err != nil {
		return nil, fromRepo("project status", err)
	}
	if d.TaskStatus, err = s.tasks.CountByStatus(ctx); err != nil {
		return nil, fromRepo("task status", err)
	}
	if d.RecentProjects, err = s.recentProjects(ctx); err != nil {
		return nil, err
	}
	if d.UpcomingDeadlines, err = s.deadlines(ctx); err != nil {
		return nil, err
	}
	if d.Workload, err = s.users.Workloads(ctx, workloadLimit); err != nil {
		return nil, fromRepo("workload", err)
	}
	if d.Workload == nil {
		d.Workload = []repository.WorkloadRow{}
	}
	return d, nil
}

func (s *DashboardService) recentProjects(ctx context.Context) ([]ProjectProgress, error) {
	projects, err := s.projects.RecentlyModified(ctx, recentProjectLimit)
	if err != nil {
		return nil, fromRepo("recent projects", err)
	}
	ids := make([]uint, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	counts, err := s.tasks.CountsByProject(ctx, ids)
	if err != nil {
		return nil, fromRepo("project progress", err)
	}

	out := make([]ProjectProgress, 0, len(projects))
	for _, p := range projects {
		c := counts[p.ID]
		out = append(out, ProjectProgress{
			ID:             p.ID,
			Name:           p.Name,
			Status:         p.Status,
			DueDate:        p.DueDate,
			UpdatedAt:      p.UpdatedAt,
			TotalTasks:     c.Total,
			CompletedTasks: c.Completed,
			Progress:       progress(c.Completed, c.Total),
		})
	}
	return out, nil
}

// deadlines merges the 3 nearest open tasks with the 2 nearest open projects,
// sorted by due date and capped at 5.
func (s *DashboardService) deadlines(ctx context.Context) ([]Deadline, error) {
	tasks, err := s.tasks.UpcomingDeadlines(ctx, taskDeadlineLimit)
	if err != nil {
		return nil, fromRepo("task deadlines", err)
	}
	projects, err := s.projects.UpcomingDeadlines(ctx, projectDeadlineLimit)
	if err != nil {
		return nil, fromRepo("project deadlines", err)
	}

	out := make([]Deadline, 0, len(tasks)+len(projects))
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		out = append(out, Deadline{Kind: "TASK", ID: t.ID, Name: t.Name, Status: t.Status, DueDate: *t.DueDate, ProjectID: t.ProjectID})
	}
	for _, p := range projects {
		if p.DueDate == nil {
			continue
		}
		id := p.ID
		out = append(out, Deadline{Kind: "PROJECT", ID: p.ID, Name: p.Name, Status: p.Status, DueDate: *p.DueDate, ProjectID: &id})
	}
	slices.SortStableFunc(out, func(a, b Deadline) int {
		return a.DueDate.Compare(b.DueDate)
	})
	if len(out) > deadlineLimit {
		out = out[:deadlineLimit]
	}
	return out, nil
}
