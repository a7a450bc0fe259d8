package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/projectflow/scheduler"
	"github.com/yeremiapane/projectflow/services"
	"github.com/yeremiapane/projectflow/utils"
)

type AdminController struct {
	Dashboard *services.DashboardService
	Scheduler *scheduler.Manager
}

func NewAdminController(dashboard *services.DashboardService, manager *scheduler.Manager) *AdminController {
	return &AdminController{Dashboard: dashboard, Scheduler: manager}
}

// GetDashboard returns counts, recent project progress and the nearest deadlines
func (ac *AdminController) GetDashboard(c *gin.Context) {
	dashboard, err := ac.Dashboard.Get(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard", dashboard)
}

// TriggerStatusUpdate runs the overdue sweep now
func (ac *AdminController) TriggerStatusUpdate(c *gin.Context) {
	result, err := ac.Scheduler.RunNow(c.Request.Context())
	if errors.Is(err, scheduler.ErrSweepRunning) {
		utils.RespondError(c, http.StatusConflict, err)
		return
	}
	if err != nil {
		utils.ErrorLogger.Printf("Manual status sweep failed: %v", err)
		utils.RespondJSON(c, http.StatusInternalServerError, "Status update finished with errors", result)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Status update completed", result)
}

// GetLastStatusUpdate reports the result of the most recent sweep, if any
func (ac *AdminController) GetLastStatusUpdate(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Last status update", ac.Scheduler.LastResult())
}
