package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/aklinic/internal/auth"
)

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// optionalID treats an empty value as absent.
func optionalID(raw string) (*uint, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, true
	}
	id, ok := parseID(raw)
	if !ok {
		return nil, false
	}
	return &id, true
}

var scheduleLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// parseSchedule accepts datetime-local values in the clinic zone, or RFC 3339.
func parseSchedule(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	for _, layout := range scheduleLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func identity(c *gin.Context) *auth.Identity {
	id, _ := auth.CurrentIdentity(c)
	return id
}

func actorID(c *gin.Context) *uint {
	if id := identity(c); id != nil {
		v := id.ID
		return &v
	}
	return nil
}
