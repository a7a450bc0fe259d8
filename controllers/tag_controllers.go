package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/projectflow/services"
	"github.com/yeremiapane/projectflow/utils"
)

type TagController struct {
	Service *services.TagService
}

func NewTagController(service *services.TagService) *TagController {
	return &TagController{Service: service}
}

func (tc *TagController) GetTags(c *gin.Context) {
	tags, err := tc.Service.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tags", tags)
}

func (tc *TagController) CreateTag(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required"`
		Color string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	tag, err := tc.Service.Create(c.Request.Context(), req.Name, req.Color)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Tag created", tag)
}
