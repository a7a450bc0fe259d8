package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/projectflow/middlewares"
	"github.com/yeremiapane/projectflow/repository"
	"github.com/yeremiapane/projectflow/services"
	"github.com/yeremiapane/projectflow/utils"
)

// respondServiceError maps service sentinels onto HTTP status codes.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrInvalidInput):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrConflict):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrForbidden):
		utils.RespondError(c, http.StatusForbidden, err)
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.RespondError(c, http.StatusUnauthorized, err)
	default:
		utils.ErrorLogger.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
	}
}

// actor reads the authenticated caller. It writes a 401 and returns false when absent.
func actor(c *gin.Context) (services.Actor, bool) {
	id, role, ok := middlewares.CurrentUser(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return services.Actor{}, false
	}
	return services.Actor{ID: id, Role: role}, true
}

// paramID parses a positive integer path parameter. It writes a 400 and returns false on failure.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

func queryID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid or missing %s", name))
		return 0, false
	}
	return uint(id), true
}

func pageRequest(c *gin.Context) repository.PageRequest {
	pageNo, pageSize := utils.PageParams(c)
	return repository.PageRequest{PageNo: pageNo, PageSize: pageSize}
}

func paged[T any](page repository.Page[T]) utils.PagedResponse[T] {
	return utils.NewPagedResponse(page.Items, page.PageNo, page.PageSize, page.Total)
}

// Date accepts "2006-01-02" or RFC 3339 in JSON bodies.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("date must be a string")
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

// timePtr converts an optional Date into the *time.Time the services take.
func timePtr(d *Date) *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// versionParam reads the optional ?version= used for optimistic toggles.
func versionParam(c *gin.Context) (int64, bool) {
	raw := c.Query("version")
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 1 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid version"))
		return 0, false
	}
	return v, true
}
