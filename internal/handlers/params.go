package handlers

import (
	"net/http"
	"strconv"
	"time"

	"fitclub_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// parsePagination validates page and limit query parameters. Non-numeric or
// non-positive values are rejected here, before any query is composed.
func parsePagination(c *gin.Context) (page int, limit int, ok bool) {
	page, errPage := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, errLimit := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if errPage != nil || errLimit != nil || page <= 0 || limit <= 0 {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid pagination parameters.", "page and limit must be positive integers"))
		return 0, 0, false
	}
	return page, limit, true
}

// parseIDParam parses the :id path parameter as an int64.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := utils.StrToInt64(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid ID format.", err.Error()))
		return 0, false
	}
	return id, true
}

// parseQueryInt64 parses a required numeric query parameter.
func parseQueryInt64(c *gin.Context, name string) (int64, bool) {
	v, err := utils.StrToInt64(c.Query(name))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid "+name+" parameter.", err.Error()))
		return 0, false
	}
	return v, true
}

// queryString returns a pointer to the named query parameter, or nil when absent.
func queryString(c *gin.Context, name string) *string {
	if v := c.Query(name); v != "" {
		return &v
	}
	return nil
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(c *gin.Context, name string) (*time.Time, bool) {
	v := c.Query(name)
	if v == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid "+name+" date, expected YYYY-MM-DD.", err.Error()))
		return nil, false
	}
	return &t, true
}

func listResponse(c *gin.Context, result interface{}, totalItems int) {
	c.JSON(http.StatusOK, gin.H{
		"result":     result,
		"totalItems": totalItems,
	})
}
