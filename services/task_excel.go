package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/yeremiapane/projectflow/models"
	"github.com/yeremiapane/projectflow/utils"
)

const (
	taskSheet  = "Tasks"
	dateLayout = "2006-01-02"
)

var taskColumns = []interface{}{"ID", "Name", "Description", "Status", "Priority", "Start Date", "Due Date"}

// ImportResult reports how many rows became tasks and why the others did not.
type ImportResult struct {
	Created int      `json:"created"`
	Errors  []string `json:"errors"`
}

// ExportExcel writes every task of the project as one spreadsheet row.
func (s *TaskService) ExportExcel(ctx context.Context, projectID uint, w io.Writer) (string, error) {
	p, tasks, err := s.projectTasks(ctx, projectID)
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), taskSheet); err != nil {
		return "", fmt.Errorf("prepare sheet: %w", err)
	}
	if err := f.SetSheetRow(taskSheet, "A1", &taskColumns); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for i, t := range tasks {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		row := []interface{}{t.ID, t.Name, t.Description, string(t.Status), string(t.Priority), formatDate(t.StartDate), formatDate(t.DueDate)}
		if err := f.SetSheetRow(taskSheet, cell, &row); err != nil {
			return "", fmt.Errorf("write task %d: %w", t.ID, err)
		}
	}
	if err := f.Write(w); err != nil {
		return "", fmt.Errorf("write workbook: %w", err)
	}
	return fmt.Sprintf("project-%d-%s-tasks.xlsx", p.ID, slug(p.Name)), nil
}

// ImportExcel creates one task per data row of the first sheet. The layout
// matches ExportExcel; the ID column is ignored. Rows with bad values are
// reported and skipped, the rest are created.
func (s *TaskService) ImportExcel(ctx context.Context, actor Actor, projectID uint, r io.Reader) (*ImportResult, error) {
	pid := projectID
	if err := s.requireMember(ctx, actor, &pid); err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, invalid("not a spreadsheet: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, invalid("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	result := &ImportResult{Errors: []string{}}
	creator := actor.ID
	for i, row := range rows {
		if i == 0 {
			continue
		}
		in, err := taskFromRow(row)
		if err != nil {
			result.Errors = append(result.Errors, wrapRow(i+1, err).Error())
			continue
		}
		if in == nil {
			continue
		}
		in.ProjectID = &pid
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
			result.Errors = append(result.Errors, wrapRow(i+1, fromRepo("task", err)).Error())
			continue
		}
		result.Created++
	}
	utils.InfoLogger.Printf("Imported %d tasks into project %d (%d rejected)", result.Created, projectID, len(result.Errors))
	return result, nil
}

// taskFromRow parses one spreadsheet row. Blank rows yield nil.
func taskFromRow(row []string) (*TaskInput, error) {
	col := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	if col(1) == "" && col(2) == "" {
		return nil, nil
	}
	in := &TaskInput{
		Name:        col(1),
		Description: col(2),
		Status:      models.Status(strings.ToUpper(col(3))),
		Priority:    models.Priority(strings.ToUpper(col(4))),
	}
	var err error
	if in.StartDate, err = parseDate(col(5)); err != nil {
		return nil, err
	}
	if in.DueDate, err = parseDate(col(6)); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	return in, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, invalid("date %q is not YYYY-MM-DD", s)
	}
	return &t, nil
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case b.Len() > 0 && !strings.HasSuffix(b.String(), "-"):
			b.WriteByte('-')
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
