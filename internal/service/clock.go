package service

import (
	"strings"
	"time"

	"github.com/noah-isme/academy-admin-api/internal/models"
)

// Clock resolves "today" in the academy's timezone.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// NewClock builds a clock over time.Now in loc.
func NewClock(loc *time.Location) Clock {
	return Clock{Now: time.Now, Location: loc}
}

// Today returns the current calendar day.
func (c Clock) Today() models.Date {
	now := c.Now
	if now == nil {
		now = time.Now
	}
	return models.Today(now(), c.Location)
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
