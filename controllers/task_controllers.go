package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/projectflow/models"
	"github.com/yeremiapane/projectflow/repository"
	"github.com/yeremiapane/projectflow/services"
	"github.com/yeremiapane/projectflow/utils"
)

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type TaskController struct {
	Service *services.TaskService
}

func NewTaskController(service *services.TaskService) *TaskController {
	return &TaskController{Service: service}
}

type taskRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Status      models.Status   `json:"status"`
	Priority    models.Priority `json:"priority"`
	StartDate   *Date           `json:"start_date"`
	DueDate     *Date           `json:"due_date"`
	ProjectID   *uint           `json:"project_id"`
	Version     int64           `json:"version"`
}

func (r taskRequest) input() services.TaskInput {
	return services.TaskInput{
		Name:        r.Name,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		StartDate:   timePtr(r.StartDate),
		DueDate:     timePtr(r.DueDate),
		ProjectID:   r.ProjectID,
		Version:     r.Version,
	}
}

func (tc *TaskController) CreateTask(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	task, err := tc.Service.Create(c.Request.Context(), a, req.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Task created", task)
}

func (tc *TaskController) GetTask(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	task, err := tc.Service.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Task detail", task)
}

// GetProjectTasks lists one project's tasks with ?status=, ?priority= and ?keyword= filters
func (tc *TaskController) GetProjectTasks(c *gin.Context) {
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}
	filter := repository.TaskFilter{
		Status:   models.Status(c.Query("status")),
		Priority: models.Priority(c.Query("priority")),
		Keyword:  c.Query("keyword"),
	}
	page, err := tc.Service.ListByProject(c.Request.Context(), projectID, filter, pageRequest(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tasks", paged(page))
}

func (tc *TaskController) UpdateTask(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	task, err := tc.Service.Update(c.Request.Context(), a, id, req.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Task updated", task)
}

func (tc *TaskController) DeleteTask(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := tc.Service.Delete(c.Request.Context(), a, id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Task deleted", gin.H{"id": id})
}

// ToggleTask flips completion. ?version= pins the version the client last read.
func (tc *TaskController) ToggleTask(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	version, ok := versionParam(c)
	if !ok {
		return
	}
	task, err := tc.Service.Toggle(c.Request.Context(), a, id, version)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Task toggled", task)
}

func (tc *TaskController) ExportTasks(c *gin.Context) {
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var buf bytes.Buffer
	filename, err := tc.Service.ExportExcel(c.Request.Context(), projectID, &buf)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, excelContentType, buf.Bytes())
}

// ImportTasks reads tasks from the multipart "file" field
func (tc *TaskController) ImportTasks(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("file is required"))
		return
	}
	f, err := header.Open()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	defer f.Close()

	result, err := tc.Service.ImportExcel(c.Request.Context(), a, projectID, f)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Imported %d tasks", result.Created), result)
}
