package ui

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmbt/covid19-webclient/internal/catalog"
	"github.com/cmbt/covid19-webclient/internal/config"
)

func TestParseSeconds(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"10", 10 * time.Second, false},
		{" 2.5 ", 2500 * time.Millisecond, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"ten", 0, true},
		{"", 0, true},
	}

	for _, test := range tests {
		result, err := parseSeconds(test.input)
		if (err != nil) != test.wantErr {
			t.Errorf("parseSeconds(%q) error = %v, wantErr %v", test.input, err, test.wantErr)
			continue
		}
		if result != test.expected {
			t.Errorf("parseSeconds(%q) = %v, expected %v", test.input, result, test.expected)
		}
	}

	if got := formatSeconds(1500 * time.Millisecond); got != "1.5" {
		t.Errorf("formatSeconds(1.5s) = %q, expected %q", got, "1.5")
	}
}

func TestSettingsDialog_Save(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	settings := config.NewSettings(app)
	loc := NewLocalization()
	loc.SetLanguage("en")
	window := app.NewWindow("test")

	saved := false
	sd := NewSettingsDialog(settings, loc, window, func() { saved = true })
	sd.loadCurrentSettings()

	assert.Equal(t, config.DefaultServer, sd.serverEntry.Text)
	assert.False(t, sd.localhostCheck.Checked)

	sd.localhostCheck.SetChecked(true)
	assert.Equal(t, "localhost", sd.serverEntry.Text)
	assert.True(t, sd.serverEntry.Disabled())

	sd.httpsCheck.SetChecked(true)
	sd.timeoutEntry.SetText("3")
	sd.encodeCheck.SetChecked(true)
	sd.catalogSelect.SetSelected(catalog.VersionClassic)

	sd.onSave(true)

	require.True(t, saved)
	assert.Equal(t, "localhost", settings.GetServer())
	assert.True(t, settings.GetUseHTTPS())
	assert.Equal(t, 3*time.Second, settings.GetTimeout())
	assert.True(t, settings.GetEncodePath())
	assert.Equal(t, catalog.VersionClassic, settings.GetCatalogVersion())
	assert.Equal(t, "localhost", settings.ServerConfig().Host)
}

func TestSettingsDialog_CancelKeepsSettings(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	settings := config.NewSettings(app)
	loc := NewLocalization()
	sd := NewSettingsDialog(settings, loc, app.NewWindow("test"), func() {
		t.Error("onSaved called on cancel")
	})
	sd.loadCurrentSettings()

	sd.serverEntry.SetText("other.example.org")
	sd.onSave(false)

	assert.Equal(t, config.DefaultServer, settings.GetServer())
}
