package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/projectflow/models"
	"github.com/yeremiapane/projectflow/repository"
	"github.com/yeremiapane/projectflow/services"
	"github.com/yeremiapane/projectflow/utils"
)

type ProjectController struct {
	Service *services.ProjectService
}

func NewProjectController(service *services.ProjectService) *ProjectController {
	return &ProjectController{Service: service}
}

type projectRequest struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	StartDate   *Date         `json:"start_date"`
	DueDate     *Date         `json:"due_date"`
	Status      models.Status `json:"status"`
	ManagerID   *uint         `json:"manager_id"`
	MemberIDs   []uint        `json:"member_ids"`
	TagIDs      []uint        `json:"tag_ids"`
}

func (r projectRequest) input() services.ProjectInput {
	return services.ProjectInput{
		Name:        r.Name,
		Description: r.Description,
		StartDate:   timePtr(r.StartDate),
		DueDate:     timePtr(r.DueDate),
		Status:      r.Status,
		ManagerID:   r.ManagerID,
		MemberIDs:   r.MemberIDs,
		TagIDs:      r.TagIDs,
	}
}

// GetProjects lists projects with ?status=, ?keyword= and ?mine=true filters
func (pc *ProjectController) GetProjects(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	filter := repository.ProjectFilter{
		Status:  models.Status(c.Query("status")),
		Keyword: c.Query("keyword"),
	}
	if c.Query("mine") == "true" {
		filter.MemberID = &a.ID
	}

	page, err := pc.Service.List(c.Request.Context(), filter, pageRequest(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Projects", paged(page))
}

func (pc *ProjectController) CreateProject(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	project, err := pc.Service.Create(c.Request.Context(), a, req.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Project created", project)
}

func (pc *ProjectController) GetProject(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	project, err := pc.Service.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Project detail", project)
}

func (pc *ProjectController) UpdateProject(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	project, err := pc.Service.Update(c.Request.Context(), a, id, req.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Project updated", project)
}

func (pc *ProjectController) DeleteProject(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := pc.Service.Delete(c.Request.Context(), a, id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Project deleted", gin.H{"id": id})
}

func (pc *ProjectController) AddMembers(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		UserIDs []uint `json:"user_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	project, err := pc.Service.AddMembers(c.Request.Context(), a, id, req.UserIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Members added", project)
}

func (pc *ProjectController) RemoveMember(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	if err := pc.Service.RemoveMember(c.Request.Context(), a, id, userID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Member removed", gin.H{"project_id": id, "user_id": userID})
}
