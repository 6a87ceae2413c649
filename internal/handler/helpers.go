package handler

import (
	"fmt"
	"strconv"
	"time"

	"bizbook/internal/middleware"

	"github.com/gin-gonic/gin"
)

// accountID returns the data-owning account for the request: the caller's own
// ID for owners and admins, the owner's ID for subusers.
func accountID(c *gin.Context) (int, bool) {
	val, exists := c.Get(middleware.AuthAccountKey)
	if !exists {
		return 0, false
	}
	id, ok := val.(int)
	return id, ok
}

// userID returns the authenticated caller's own ID.
func userID(c *gin.Context) (int, bool) {
	val, exists := c.Get(middleware.AuthUserKey)
	if !exists {
		return 0, false
	}
	id, ok := val.(int)
	return id, ok
}

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// parseDateRange reads the required start_date and end_date query parameters
// in YYYY-MM-DD form.
func parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	startParam := c.Query("start_date")
	endParam := c.Query("end_date")
	if startParam == "" || endParam == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date and end_date are required")
	}
	start, err := time.Parse("2006-01-02", startParam)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date, expected YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", endParam)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date, expected YYYY-MM-DD")
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date must not be after end_date")
	}
	return start, end, nil
}
