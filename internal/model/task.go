package model

import (
	"fmt"
	"image"
	"time"
)

// ChartResult is a successfully fetched chart
type ChartResult struct {
	Image  image.Image
	Format string // decoder name, e.g. "png"
	URL    string
}

// FetchTask tracks a single chart fetch issued by the fetch service
type FetchTask struct {
	ID         string
	Request    ChartRequest
	URL        string // the exact URL attempted
	Status     FetchStatus
	Result     *ChartResult
	Err        error  // classified error when Status is FetchStatusError
	LastError  string // Err rendered for display
	StartedAt  time.Time
	FinishedAt time.Time
}

// Elapsed returns how long the fetch took, or has been running so far
func (ft *FetchTask) Elapsed() time.Duration {
	if ft.StartedAt.IsZero() {
		return 0
	}
	if ft.FinishedAt.IsZero() {
		return time.Since(ft.StartedAt)
	}
	return ft.FinishedAt.Sub(ft.StartedAt)
}

// Summary returns a one-line description used in logs and the history list
func (ft *FetchTask) Summary() string {
	summary := fmt.Sprintf("%s %s %s", ft.Request.Locations, ft.Request.Attribute, ft.Request.Range)
	if ft.Status == FetchStatusError && ft.LastError != "" {
		return summary + ": " + ft.LastError
	}
	return summary + ": " + ft.Status.String()
}
