package httpapi

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

const dayLayout = "2006-01-02"

// DateRange parses the optional "from" and "to" query params (YYYY-MM-DD).
// "from" defaults to the zero time, "to" to now. A given "to" day is treated
// inclusively by extending it to the end of that day.
func DateRange(c *gin.Context) (time.Time, time.Time, error) {
	var from, to time.Time

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(dayLayout, raw)
		if err != nil {
			return from, to, fmt.Errorf("invalid from date %q: %w", raw, err)
		}
		from = parsed
	}

	to = time.Now()
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(dayLayout, raw)
		if err != nil {
			return from, to, fmt.Errorf("invalid to date %q: %w", raw, err)
		}
		to = parsed.Add(24 * time.Hour)
	}
	return from, to, nil
}
