package httputil

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// ParsePagination parses offset and limit query parameters.
// Defaults are offset=0 and limit=50; limit cannot exceed 100.
func ParsePagination(c *gin.Context) (offset, limit int, err error) {
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return 0, 0, fmt.Errorf("invalid offset parameter: must be a non-negative integer")
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 100 {
		return 0, 0, fmt.Errorf("invalid limit parameter: must be between 1 and 100")
	}

	return offset, limit, nil
}

// ParseTimeRange parses the optional RFC3339 created_at_from and created_at_to
// query parameters. Missing parameters yield nil bounds.
func ParseTimeRange(c *gin.Context) (from, to *time.Time, err error) {
	from, err = parseOptionalTime(c.Query("created_at_from"))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid created_at_from parameter: must be RFC3339")
	}

	to, err = parseOptionalTime(c.Query("created_at_to"))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid created_at_to parameter: must be RFC3339")
	}

	if from != nil && to != nil && from.After(*to) {
		return nil, nil, fmt.Errorf("created_at_from must not be after created_at_to")
	}

	return from, to, nil
}

func parseOptionalTime(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}
