package model

import "testing"

func TestFetchStatus_IsActive(t *testing.T) {
	tests := []struct {
		status   FetchStatus
		expected bool
	}{
		{FetchStatusPending, true},
		{FetchStatusFetching, true},
		{FetchStatusCancelled, false},
		{FetchStatusCompleted, false},
		{FetchStatusError, false},
	}

	for _, test := range tests {
		result := test.status.IsActive()
		if result != test.expected {
			t.Errorf("FetchStatus(%s).IsActive() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestFetchStatus_IsFinished(t *testing.T) {
	tests := []struct {
		status   FetchStatus
		expected bool
	}{
		{FetchStatusPending, false},
		{FetchStatusFetching, false},
		{FetchStatusCancelled, true},
		{FetchStatusCompleted, true},
		{FetchStatusError, true},
	}

	for _, test := range tests {
		result := test.status.IsFinished()
		if result != test.expected {
			t.Errorf("FetchStatus(%s).IsFinished() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestFetchStatus_String(t *testing.T) {
	if FetchStatusFetching.String() != "Fetching" {
		t.Errorf("FetchStatus.String() = %s, expected Fetching", FetchStatusFetching.String())
	}
}
