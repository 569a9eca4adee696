package fetch

import (
	"context"

	"github.com/cmbt/covid19-webclient/internal/model"
)

// ChartClient is the part of chart.Client the service depends on.
type ChartClient interface {
	BuildURL(req model.ChartRequest) string
	FetchChart(ctx context.Context, req model.ChartRequest) (*model.ChartResult, error)
}

// Fetcher defines the interface for the fetch service.
type Fetcher interface {
	SetUpdateCallback(func(*model.FetchTask))

	// SetClient replaces the chart client used by subsequent submissions
	SetClient(client ChartClient)

	// Submit starts a fetch for req, cancelling the one in flight
	Submit(req model.ChartRequest) *model.FetchTask
	Cancel()
	Current() (*model.FetchTask, bool)
	History() []*model.FetchTask
}
