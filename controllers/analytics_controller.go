package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/truong-nd12/milktea-order-api/config"
	"github.com/truong-nd12/milktea-order-api/services"
)

// parseDateRange reads optional start_date/end_date query params in
// YYYY-MM-DD form. The end date is inclusive: it extends to the last
// instant of that day in UTC.
func parseDateRange(c *gin.Context) (*time.Time, *time.Time, bool) {
	var start, end *time.Time

	if raw := c.Query("start_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   gin.H{"code": "VALIDATION_ERROR", "message": "start_date must be YYYY-MM-DD"},
			})
			return nil, nil, false
		}
		start = &parsed
	}

	if raw := c.Query("end_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   gin.H{"code": "VALIDATION_ERROR", "message": "end_date must be YYYY-MM-DD"},
			})
			return nil, nil, false
		}
		endOfDay := parsed.Add(24*time.Hour - time.Nanosecond)
		end = &endOfDay
	}

	return start, end, true
}

// requireAdmin writes a 403 and returns false unless the caller is an admin
func requireAdmin(c *gin.Context) bool {
	user, ok := getCurrentUser(c)
	if !ok {
		return false
	}
	if !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only admins can view analytics",
			},
		})
		return false
	}
	return true
}

// GetReport handles GET /api/v1/analytics/report - sales statistics over an
// optional inclusive date range (admins only)
func GetReport(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}

	svc := services.NewAnalyticsService(config.GetDB(), config.GetLogger())
	report, err := svc.GetReport(start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   gin.H{"code": "DATABASE_ERROR", "message": "Failed to compute report"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    report,
	})
}

// GetTopSellingItems handles GET /api/v1/analytics/top-selling (admins only)
func GetTopSellingItems(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	svc := services.NewAnalyticsService(config.GetDB(), config.GetLogger())
	items, err := svc.GetTopSellingItems(start, end, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   gin.H{"code": "DATABASE_ERROR", "message": "Failed to compute top selling items"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
	})
}
