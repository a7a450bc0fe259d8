package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/projectflow/services"
	"github.com/yeremiapane/projectflow/utils"
)

type SubtaskController struct {
	Service *services.SubtaskService
}

func NewSubtaskController(service *services.SubtaskService) *SubtaskController {
	return &SubtaskController{Service: service}
}

type subtaskRequest struct {
	Name       string `json:"name"`
	TaskID     uint   `json:"task_id"`
	AssigneeID *uint  `json:"assignee_id"`
	DueDate    *Date  `json:"due_date"`
	Completed  bool   `json:"completed"`
	Version    int64  `json:"version"`
}

func (r subtaskRequest) input() services.SubtaskInput {
	return services.SubtaskInput{
		Name:       r.Name,
		TaskID:     r.TaskID,
		AssigneeID: r.AssigneeID,
		DueDate:    timePtr(r.DueDate),
		Completed:  r.Completed,
		Version:    r.Version,
	}
}

func (sc *SubtaskController) GetTaskSubtasks(c *gin.Context) {
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}
	subtasks, err := sc.Service.ListByTask(c.Request.Context(), taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Subtasks", subtasks)
}

func (sc *SubtaskController) CreateSubtask(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req subtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	subtask, err := sc.Service.Create(c.Request.Context(), a, req.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Subtask created", subtask)
}

func (sc *SubtaskController) UpdateSubtask(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req subtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	subtask, err := sc.Service.Update(c.Request.Context(), a, id, req.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Subtask updated", subtask)
}

func (sc *SubtaskController) DeleteSubtask(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := sc.Service.Delete(c.Request.Context(), a, id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Subtask deleted", gin.H{"id": id})
}

func (sc *SubtaskController) ToggleSubtask(c *gin.Context) {
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
	subtask, err := sc.Service.Toggle(c.Request.Context(), a, id, version)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Subtask toggled", subtask)
}
