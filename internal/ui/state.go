package ui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/cmbt/covid19-webclient/internal/catalog"
	"github.com/cmbt/covid19-webclient/internal/model"
)

// Default values of the n entries
const (
	DefaultSinceN = "100"
	DefaultLastN  = "30"
)

// Form validation errors
var (
	ErrNoLocations    = errors.New("no locations entered")
	ErrNoAttribute    = errors.New("no attribute selected")
	ErrInvalidN       = errors.New("n must be a positive integer")
	ErrInvalidTimeout = errors.New("timeout must be a positive number of seconds")
)

// FormState is the raw content of the request form, independent of widgets
type FormState struct {
	Locations      string
	AttributeLabel string
	RangeKind      model.DateRangeKind
	SinceN         string
	LastN          string
	Logarithmic    bool
	BarGraph       bool
	Source         model.DataSource
}

// ToRequest validates the form and projects it onto a ChartRequest. Only the
// n entry of the active range kind is read.
func (fs FormState) ToRequest(cat *catalog.Catalog) (model.ChartRequest, error) {
	if !CanSubmit(fs.Locations) {
		return model.ChartRequest{}, ErrNoLocations
	}

	field, ok := cat.Field(fs.AttributeLabel)
	if !ok {
		return model.ChartRequest{}, ErrNoAttribute
	}

	var rng model.DateRangeMode
	switch fs.RangeKind {
	case model.RangeSinceNCases:
		n, err := parseN(fs.SinceN)
		if err != nil {
			return model.ChartRequest{}, err
		}
		rng = model.SinceNCases(n)
	case model.RangeLastNDays:
		n, err := parseN(fs.LastN)
		if err != nil {
			return model.ChartRequest{}, err
		}
		rng = model.LastNDays(n)
	default:
		rng = model.AllData()
	}

	source := fs.Source
	if !cat.SupportsDataSource(source) {
		source = model.DataSourceDefault
	}

	return model.ChartRequest{
		Locations: fs.Locations,
		Attribute: field,
		Range:     rng,
		Style:     model.PlotStyle{Logarithmic: fs.Logarithmic, BarGraph: fs.BarGraph},
		Source:    source,
	}, nil
}

// EnabledInputs reports which n entries accept input for kind
func EnabledInputs(kind model.DateRangeKind) (sinceN, lastN bool) {
	return kind == model.RangeSinceNCases, kind == model.RangeLastNDays
}

// CanSubmit reports whether the locations entry holds anything to request
func CanSubmit(locations string) bool {
	return strings.TrimSpace(locations) != ""
}

func parseN(s string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil || n == 0 {
		return 0, ErrInvalidN
	}
	return uint(n), nil
}
