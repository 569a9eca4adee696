package model

import (
	"fmt"
	"strings"
)

// DateRangeKind selects which part of the time series the server plots
type DateRangeKind int

const (
	// RangeAll plots all data since the start of the records
	RangeAll DateRangeKind = iota
	// RangeSinceNCases starts the plot once the cumulative case count exceeds N
	RangeSinceNCases
	// RangeLastNDays plots the most recent N days only
	RangeLastNDays
)

// String returns the name of the range kind
func (k DateRangeKind) String() string {
	switch k {
	case RangeAll:
		return "all"
	case RangeSinceNCases:
		return "since"
	case RangeLastNDays:
		return "last"
	default:
		return "unknown"
	}
}

// DateRangeMode is the active date range of a request. Exactly one kind is
// active; N is ignored for RangeAll.
type DateRangeMode struct {
	Kind DateRangeKind
	N    uint
}

// AllData returns the mode plotting all available data
func AllData() DateRangeMode {
	return DateRangeMode{Kind: RangeAll}
}

// SinceNCases returns the mode starting at the n-th cumulative case
func SinceNCases(n uint) DateRangeMode {
	return DateRangeMode{Kind: RangeSinceNCases, N: n}
}

// LastNDays returns the mode covering the last n days
func LastNDays(n uint) DateRangeMode {
	return DateRangeMode{Kind: RangeLastNDays, N: n}
}

// String renders the mode as used in logs, e.g. "last(14)"
func (m DateRangeMode) String() string {
	if m.Kind == RangeAll {
		return m.Kind.String()
	}
	return fmt.Sprintf("%s(%d)", m.Kind, m.N)
}

// PlotStyle holds the two independent plot toggles
type PlotStyle struct {
	Logarithmic bool
	BarGraph    bool
}

// DataSource selects the upstream data set on servers that offer more than one.
// The empty value omits the selector from the request.
type DataSource string

const (
	DataSourceDefault DataSource = ""
	DataSourceWHO     DataSource = "WHO"
	DataSourceOWID    DataSource = "OWID"
)

// ParseDataSource maps user input to a DataSource, case-insensitively
func ParseDataSource(s string) (DataSource, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return DataSourceDefault, nil
	case string(DataSourceWHO):
		return DataSourceWHO, nil
	case string(DataSourceOWID):
		return DataSourceOWID, nil
	default:
		return DataSourceDefault, fmt.Errorf("unknown data source: %q", s)
	}
}

// ChartRequest is everything needed to build one chart URL. Locations is the
// free-text, comma separated GeoID list as typed by the user; Attribute is the
// server-side field identifier (not the display label).
type ChartRequest struct {
	Locations string
	Attribute string
	Range     DateRangeMode
	Style     PlotStyle
	Source    DataSource
}
