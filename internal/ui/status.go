package ui

import (
	"errors"

	"github.com/cmbt/covid19-webclient/internal/chart"
	"github.com/cmbt/covid19-webclient/internal/fetch"
	"github.com/cmbt/covid19-webclient/internal/model"
)

// StatusMessage renders the status line for a fetch task
func StatusMessage(loc *Localization, server string, task *model.FetchTask) string {
	data := map[string]string{"Server": server, "URL": task.URL}

	switch task.Status {
	case model.FetchStatusPending, model.FetchStatusFetching:
		return loc.Format(KeyStatusFetching, data)
	case model.FetchStatusCancelled:
		return loc.GetText(KeyStatusCancelled)
	case model.FetchStatusCompleted:
		return loc.Format(KeyStatusConnected, data)
	}

	if task.Err == nil {
		return task.LastError
	}
	return ErrorMessage(loc, server, task.URL, task.Err)
}

// ErrorMessage renders a fetch or connect error for the status line
func ErrorMessage(loc *Localization, server, url string, err error) string {
	if u := chart.URLOf(err); u != "" {
		url = u
	}
	data := map[string]string{"Server": server, "URL": url}

	if errors.Is(err, fetch.ErrNoClient) {
		return loc.Format(KeyStatusNoClient, data)
	}

	var unreachable *chart.UnreachableError
	if errors.As(err, &unreachable) {
		return loc.Format(KeyStatusUnreachable, map[string]string{"Server": unreachable.Host})
	}

	var msg string
	switch chart.KindOf(err) {
	case chart.KindInvalidURL:
		msg = loc.Format(KeyStatusInvalidURL, data)
	case chart.KindInvalidResponse:
		msg = loc.Format(KeyStatusInvalidReply, data)
	case chart.KindNoResponse:
		msg = loc.Format(KeyStatusNoResponse, data)
	default:
		if err == nil {
			return ""
		}
		return err.Error()
	}

	var fe *chart.Error
	if errors.As(err, &fe) && fe.Detail != "" {
		msg += " " + loc.Format(KeyStatusServerDetail, map[string]string{"Detail": fe.Detail})
	}
	return msg
}
