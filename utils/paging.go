package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageParams reads pageNo and pageSize from the query string, clamping both
// to sane values. Pages start at 1.
func PageParams(c *gin.Context) (pageNo, pageSize int) {
	pageNo, err := strconv.Atoi(c.DefaultQuery("pageNo", "1"))
	if err != nil || pageNo < 1 {
		pageNo = 1
	}
	pageSize, err = strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(DefaultPageSize)))
	if err != nil || pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return pageNo, pageSize
}
