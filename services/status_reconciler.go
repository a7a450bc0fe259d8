package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yeremiapane/projectflow/models"
	"github.com/yeremiapane/projectflow/utils"
)

// ReconcileResult counts the rows one sweep actually changed.
type ReconcileResult struct {
	ProjectsUpdated int       `json:"projects_updated"`
	TasksUpdated    int       `json:"tasks_updated"`
	Failures        int       `json:"failures"`
	RanAt           time.Time `json:"ran_at"`
}

// StatusReconciler moves projects and tasks past their due date to OVER_DUE.
type StatusReconciler struct {
	projects ProjectOverdueStore
	tasks    TaskOverdueStore
	now      func() time.Time
}

func NewStatusReconciler(projects ProjectOverdueStore, tasks TaskOverdueStore) *StatusReconciler {
	return &StatusReconciler{projects: projects, tasks: tasks, now: time.Now}
}

// Run performs one sweep with a single captured now: all projects first,
// then all tasks. COMPLETED rows are never selected and rows already
// OVER_DUE are skipped without a write. A row that turns COMPLETED between
// the read and the write is left untouched and not counted. Each row is written on its own; a
// failed row is counted and logged and the sweep carries on. The returned
// error is non-nil only when a pass could not load its rows.
func (r *StatusReconciler) Run(ctx context.Context) (ReconcileResult, error) {
	now := r.now()
	result := ReconcileResult{RanAt: now}
	utils.InfoLogger.Printf("Starting overdue status sweep at %s", now.Format(time.RFC3339))

	var errs []error

	projects, err := r.projects.FindOverdue(ctx, now)
	if err != nil {
		errs = append(errs, fmt.Errorf("load overdue projects: %w", err))
	}
	for _, p := range projects {
		if p.Status == models.StatusOverDue {
			continue
		}
		changed, err := r.projects.MarkOverdue(ctx, p.ID, now)
		if err != nil {
			utils.ErrorLogger.Printf("Failed to mark project %d overdue: %v", p.ID, err)
			result.Failures++
			continue
		}
		if !changed {
			continue
		}
		utils.InfoLogger.Printf("Project %d status %s -> %s", p.ID, p.Status, models.StatusOverDue)
		result.ProjectsUpdated++
	}

	tasks, err := r.tasks.FindOverdue(ctx, now)
	if err != nil {
		errs = append(errs, fmt.Errorf("load overdue tasks: %w", err))
	}
	for _, t := range tasks {
		if t.Status == models.StatusOverDue {
			continue
		}
		changed, err := r.tasks.MarkOverdue(ctx, t.ID, now)
		if err != nil {
			utils.ErrorLogger.Printf("Failed to mark task %d overdue: %v", t.ID, err)
			result.Failures++
			continue
		}
		if !changed {
			continue
		}
		utils.InfoLogger.Printf("Task %d status %s -> %s", t.ID, t.Status, models.StatusOverDue)
		result.TasksUpdated++
	}

	utils.InfoLogger.Printf("Overdue status sweep completed. Updated %d projects and %d tasks (%d failures)",
		result.ProjectsUpdated, result.TasksUpdated, result.Failures)
	return result, errors.Join(errs...)
}
