package service

import (
	"time"
)

func fixedClock(t time.Time) Clock {
	return Clock{Now: func() time.Time { return t }, Location: time.UTC}
}

func strPtr(s string) *string { return &s }
