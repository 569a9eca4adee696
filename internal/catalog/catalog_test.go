package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmbt/covid19-webclient/internal/model"
)

func TestBuiltinClassic(t *testing.T) {
	c, err := Builtin(VersionClassic)
	require.NoError(t, err)

	assert.Equal(t, VersionClassic, c.Version())
	assert.Equal(t, 12, c.Len())
	assert.Empty(t, c.DataSources())

	labels := c.Labels()
	assert.Equal(t, "Daily cases", labels[0])
	assert.Equal(t, "Reproduction rate R", labels[len(labels)-1])

	field, ok := c.Field("Daily cases, 7 day average")
	assert.True(t, ok)
	assert.Equal(t, "DailyCases7", field)
}

func TestBuiltinExtendedIsSupersetOfClassic(t *testing.T) {
	classic, err := Builtin(VersionClassic)
	require.NoError(t, err)
	extended, err := Builtin(VersionExtended)
	require.NoError(t, err)

	for _, a := range classic.Attributes() {
		field, ok := extended.Field(a.Label)
		assert.True(t, ok, "extended catalog misses %q", a.Label)
		assert.Equal(t, a.Field, field)
	}

	for _, field := range []string{"R0", "VaccineDosesAdministered", "PeopleReceivedFirstDose"} {
		_, ok := extended.Label(field)
		assert.True(t, ok, "extended catalog misses field %s", field)
	}

	assert.Equal(t, []model.DataSource{model.DataSourceWHO, model.DataSourceOWID}, extended.DataSources())
	assert.True(t, extended.SupportsDataSource(model.DataSourceOWID))
	assert.False(t, classic.SupportsDataSource(model.DataSourceOWID))
	assert.True(t, classic.SupportsDataSource(model.DataSourceDefault))
}

func TestBuiltinDefaultAndUnknown(t *testing.T) {
	c, err := Builtin("")
	require.NoError(t, err)
	assert.Equal(t, DefaultVersion, c.Version())

	_, err = Builtin("ecdc-2020")
	assert.ErrorIs(t, err, ErrUnknownVersion)
}

func TestParseRejectsInvalidTables(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{
			name: "empty",
			yaml: "version: x\nattributes: []\n",
			want: ErrEmptyCatalog,
		},
		{
			name: "duplicate label",
			yaml: "version: x\nattributes:\n  - {label: A, field: F1}\n  - {label: A, field: F2}\n",
			want: ErrDuplicateLabel,
		},
		{
			name: "duplicate field",
			yaml: "version: x\nattributes:\n  - {label: A, field: F}\n  - {label: B, field: F}\n",
			want: ErrDuplicateField,
		},
		{
			name: "missing field",
			yaml: "version: x\nattributes:\n  - {label: A}\n",
			want: ErrIncompleteEntry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseRejectsUnknownDataSource(t *testing.T) {
	_, err := Parse([]byte("version: x\ndata_sources: [ECDC]\nattributes:\n  - {label: A, field: F}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown data source")
}

func TestResolve(t *testing.T) {
	c, err := Builtin(VersionClassic)
	require.NoError(t, err)

	field, err := c.Resolve("Cumulative cases")
	require.NoError(t, err)
	assert.Equal(t, "Cases", field)

	field, err = c.Resolve("DailyDeaths7")
	require.NoError(t, err)
	assert.Equal(t, "DailyDeaths7", field)

	_, err = c.Resolve("Hospitalisations")
	assert.ErrorIs(t, err, ErrUnsupportedField)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := strings.Join([]string{
		"version: lab",
		"attributes:",
		"  - label: Tests per day",
		"    field: DailyTests",
		"  - label: Positivity rate",
		"    field: PositiveRate",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "lab", c.Version())
	assert.Equal(t, []string{"Tests per day", "Positivity rate"}, c.Labels())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestAttributesReturnsCopy(t *testing.T) {
	c, err := Builtin(VersionClassic)
	require.NoError(t, err)

	attrs := c.Attributes()
	attrs[0].Field = "Changed"

	field, _ := c.Field("Daily cases")
	assert.Equal(t, "DailyCases", field)
}
