package model

import (
	"testing"
	"time"
)

func TestFetchTask_Elapsed(t *testing.T) {
	start := time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC)

	task := &FetchTask{}
	if task.Elapsed() != 0 {
		t.Errorf("Elapsed() of unstarted task = %v, expected 0", task.Elapsed())
	}

	task.StartedAt = start
	task.FinishedAt = start.Add(1500 * time.Millisecond)
	if task.Elapsed() != 1500*time.Millisecond {
		t.Errorf("Elapsed() = %v, expected 1.5s", task.Elapsed())
	}
}

func TestFetchTask_Summary(t *testing.T) {
	tests := []struct {
		task     FetchTask
		expected string
	}{
		{
			task: FetchTask{
				Request: ChartRequest{Locations: "DE,FR", Attribute: "Cases", Range: AllData()},
				Status:  FetchStatusCompleted,
			},
			expected: "DE,FR Cases all: Completed",
		},
		{
			task: FetchTask{
				Request:   ChartRequest{Locations: "DE", Attribute: "DailyDeaths7", Range: LastNDays(14)},
				Status:    FetchStatusError,
				LastError: "no response",
			},
			expected: "DE DailyDeaths7 last(14): no response",
		},
	}

	for _, test := range tests {
		result := test.task.Summary()
		if result != test.expected {
			t.Errorf("Summary() = %q, expected %q", result, test.expected)
		}
	}
}
