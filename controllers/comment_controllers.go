package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/projectflow/models"
	"github.com/yeremiapane/projectflow/services"
	"github.com/yeremiapane/projectflow/utils"
)

type CommentController struct {
	Service *services.CommentService
}

func NewCommentController(service *services.CommentService) *CommentController {
	return &CommentController{Service: service}
}

// CreateComment posts a comment or, with parentId, a reply
func (cc *CommentController) CreateComment(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req struct {
		Content     string             `json:"content"`
		Type        models.CommentType `json:"type"`
		ReferenceID uint               `json:"referenceId"`
		ParentID    *uint              `json:"parentId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	comment, err := cc.Service.Create(c.Request.Context(), a, services.CommentInput{
		Content:     req.Content,
		Type:        models.CommentType(strings.ToUpper(string(req.Type))),
		ReferenceID: req.ReferenceID,
		ParentID:    req.ParentID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Comment created", comment)
}

// GetComments lists the thread of ?type= and ?referenceId= oldest first
func (cc *CommentController) GetComments(c *gin.Context) {
	refID, ok := queryID(c, "referenceId")
	if !ok {
		return
	}
	typ := models.CommentType(strings.ToUpper(c.Query("type")))
	page, err := cc.Service.ListByReference(c.Request.Context(), typ, refID, pageRequest(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Comments", paged(page))
}

func (cc *CommentController) DeleteComment(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := cc.Service.Delete(c.Request.Context(), a, id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Comment deleted", gin.H{"id": id})
}
