package model

// FetchStatus represents the state of a chart fetch
type FetchStatus string

const (
	// FetchStatusPending means the fetch is created but not started
	FetchStatusPending FetchStatus = "Pending"

	// FetchStatusFetching means the request is in flight
	FetchStatusFetching FetchStatus = "Fetching"

	// FetchStatusCancelled means a newer request or the user cancelled the fetch
	FetchStatusCancelled FetchStatus = "Cancelled"

	// FetchStatusCompleted means a chart image was received and decoded
	FetchStatusCompleted FetchStatus = "Completed"

	// FetchStatusError means the fetch failed with a classified error
	FetchStatusError FetchStatus = "Error"
)

// String returns the string representation of FetchStatus
func (fs FetchStatus) String() string {
	return string(fs)
}

// IsActive returns true while the fetch has not reached a final state
func (fs FetchStatus) IsActive() bool {
	return fs == FetchStatusPending || fs == FetchStatusFetching
}

// IsFinished returns true if the fetch is completed, cancelled, or failed
func (fs FetchStatus) IsFinished() bool {
	return fs == FetchStatusCompleted || fs == FetchStatusCancelled || fs == FetchStatusError
}
