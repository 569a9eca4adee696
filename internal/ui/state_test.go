package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmbt/covid19-webclient/internal/catalog"
	"github.com/cmbt/covid19-webclient/internal/model"
)

func TestFormStateToRequest(t *testing.T) {
	cat, err := catalog.Builtin(catalog.VersionExtended)
	require.NoError(t, err)

	tests := []struct {
		name     string
		state    FormState
		expected model.ChartRequest
	}{
		{
			name:  "all data",
			state: FormState{Locations: "DE, FR", AttributeLabel: "Cumulative cases", SinceN: "abc", LastN: ""},
			expected: model.ChartRequest{
				Locations: "DE, FR",
				Attribute: "Cases",
				Range:     model.AllData(),
			},
		},
		{
			name: "last n days reads only the last entry",
			state: FormState{
				Locations:      "DE",
				AttributeLabel: "Daily Deaths, 7 day average",
				RangeKind:      model.RangeLastNDays,
				SinceN:         "not a number",
				LastN:          " 14 ",
				Logarithmic:    true,
			},
			expected: model.ChartRequest{
				Locations: "DE",
				Attribute: "DailyDeaths7",
				Range:     model.LastNDays(14),
				Style:     model.PlotStyle{Logarithmic: true},
			},
		},
		{
			name: "since n cases with bar graph and source",
			state: FormState{
				Locations:      "US",
				AttributeLabel: "Daily cases",
				RangeKind:      model.RangeSinceNCases,
				SinceN:         DefaultSinceN,
				BarGraph:       true,
				Source:         model.DataSourceOWID,
			},
			expected: model.ChartRequest{
				Locations: "US",
				Attribute: "DailyCases",
				Range:     model.SinceNCases(100),
				Style:     model.PlotStyle{BarGraph: true},
				Source:    model.DataSourceOWID,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := tt.state.ToRequest(cat)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, req)
		})
	}
}

func TestFormStateToRequest_Errors(t *testing.T) {
	cat, err := catalog.Builtin(catalog.VersionClassic)
	require.NoError(t, err)

	_, err = FormState{Locations: "  ", AttributeLabel: "Daily cases"}.ToRequest(cat)
	assert.ErrorIs(t, err, ErrNoLocations)

	_, err = FormState{Locations: "DE", AttributeLabel: "Unknown"}.ToRequest(cat)
	assert.ErrorIs(t, err, ErrNoAttribute)

	for _, n := range []string{"", "0", "-5", "1.5", "x"} {
		_, err = FormState{Locations: "DE", AttributeLabel: "Daily cases", RangeKind: model.RangeLastNDays, LastN: n}.ToRequest(cat)
		assert.ErrorIs(t, err, ErrInvalidN, "n=%q", n)
	}
}

func TestFormStateToRequest_UnsupportedSourceDropped(t *testing.T) {
	cat, err := catalog.Builtin(catalog.VersionClassic)
	require.NoError(t, err)

	req, err := FormState{Locations: "DE", AttributeLabel: "Daily cases", Source: model.DataSourceWHO}.ToRequest(cat)
	require.NoError(t, err)
	assert.Equal(t, model.DataSourceDefault, req.Source)
}

func TestEnabledInputs(t *testing.T) {
	since, last := EnabledInputs(model.RangeAll)
	assert.False(t, since)
	assert.False(t, last)

	since, last = EnabledInputs(model.RangeSinceNCases)
	assert.True(t, since)
	assert.False(t, last)

	since, last = EnabledInputs(model.RangeLastNDays)
	assert.False(t, since)
	assert.True(t, last)
}

func TestCanSubmit(t *testing.T) {
	assert.False(t, CanSubmit(""))
	assert.False(t, CanSubmit(" \t"))
	assert.True(t, CanSubmit("DE"))
}
