package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/projectflow/services"
	"github.com/yeremiapane/projectflow/utils"
)

type AttachmentController struct {
	Service *services.AttachmentService
}

func NewAttachmentController(service *services.AttachmentService) *AttachmentController {
	return &AttachmentController{Service: service}
}

// UploadFile stores the multipart "file" field against a project and optional ?task_id=
func (ac *AttachmentController) UploadFile(c *gin.Context) {
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
	in := services.UploadInput{
		ProjectID:   projectID,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}
	if raw := c.PostForm("task_id"); raw != "" {
		taskID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid task_id"))
			return
		}
		id := uint(taskID)
		in.TaskID = &id
	}

	f, err := header.Open()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	defer f.Close()
	in.Body = f

	attachment, err := ac.Service.Upload(c.Request.Context(), a, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "File uploaded", attachment)
}

func (ac *AttachmentController) GetProjectFiles(c *gin.Context) {
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}
	files, err := ac.Service.List(c.Request.Context(), projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Project files", files)
}

func (ac *AttachmentController) DownloadFile(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	attachment, body, err := ac.Service.Open(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer body.Close()

	contentType := attachment.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, attachment.Size, contentType, body, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", attachment.FileName),
	})
}

func (ac *AttachmentController) DeleteFile(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ac.Service.Delete(c.Request.Context(), a, id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "File deleted", gin.H{"id": id})
}
