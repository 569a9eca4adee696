package ui

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/cmbt/covid19-webclient/internal/catalog"
	"github.com/cmbt/covid19-webclient/internal/chart"
	"github.com/cmbt/covid19-webclient/internal/config"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// UI components
	serverEntry    *widget.Entry
	localhostCheck *widget.Check
	httpsCheck     *widget.Check
	timeoutEntry   *widget.Entry
	probeCheck     *widget.Check
	encodeCheck    *widget.Check
	catalogSelect  *widget.Select
	languageSelect *widget.Select

	languageCodes map[string]string // display name -> code
}

// ShowSettingsDialog creates and shows the settings dialog. onSaved runs after
// the settings were stored.
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, localization *Localization, onSaved func()) {
	NewSettingsDialog(settings, localization, window, onSaved).Show()
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	t := sd.localization.GetText

	sd.serverEntry = widget.NewEntry()
	sd.serverEntry.SetPlaceHolder(config.DefaultServer)

	sd.localhostCheck = widget.NewCheck(t(KeyUseLocalhost), func(on bool) {
		if on {
			sd.serverEntry.SetText(chart.LocalhostName)
			sd.serverEntry.Disable()
		} else {
			if sd.serverEntry.Text == chart.LocalhostName {
				sd.serverEntry.SetText(config.DefaultServer)
			}
			sd.serverEntry.Enable()
		}
	})

	sd.httpsCheck = widget.NewCheck(t(KeyUseHTTPS), nil)

	sd.timeoutEntry = widget.NewEntry()
	sd.timeoutEntry.Validator = validateTimeout

	sd.probeCheck = widget.NewCheck(t(KeyProbeServer), nil)
	sd.encodeCheck = widget.NewCheck(t(KeyEncodePath), nil)

	sd.catalogSelect = widget.NewSelect(catalog.Versions(), nil)

	// Language selection, sorted by display name
	sd.languageCodes = map[string]string{}
	for code, name := range sd.settings.GetLanguageOptions() {
		sd.languageCodes[name] = code
	}
	names := make([]string, 0, len(sd.languageCodes))
	for name := range sd.languageCodes {
		names = append(names, name)
	}
	sort.Strings(names)
	sd.languageSelect = widget.NewSelect(names, nil)

	form := widget.NewForm(
		widget.NewFormItem(t(KeyServer), sd.serverEntry),
		widget.NewFormItem("", sd.localhostCheck),
		widget.NewFormItem("", sd.httpsCheck),
		widget.NewFormItem(t(KeyTimeout), sd.timeoutEntry),
		widget.NewFormItem("", sd.probeCheck),
		widget.NewFormItem("", sd.encodeCheck),
		widget.NewFormItem(t(KeyCatalogVersion), sd.catalogSelect),
		widget.NewFormItem(t(KeyLanguage), sd.languageSelect),
	)

	sd.dialog = dialog.NewCustomConfirm(
		t(KeySettings),
		t(KeySave),
		t(KeyCancel),
		container.NewPadded(form),
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogW, SettingsDialogH))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	server := sd.settings.GetServer()
	sd.serverEntry.SetText(server)
	sd.localhostCheck.SetChecked(server == chart.LocalhostName)
	sd.httpsCheck.SetChecked(sd.settings.GetUseHTTPS())
	sd.timeoutEntry.SetText(formatSeconds(sd.settings.GetTimeout()))
	sd.probeCheck.SetChecked(sd.settings.GetProbeServer())
	sd.encodeCheck.SetChecked(sd.settings.GetEncodePath())
	sd.catalogSelect.SetSelected(sd.settings.GetCatalogVersion())

	lang := sd.settings.GetLanguage()
	for name, code := range sd.languageCodes {
		if code == lang {
			sd.languageSelect.SetSelected(name)
		}
	}
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	sd.settings.SetServer(strings.TrimSpace(sd.serverEntry.Text))
	sd.settings.SetUseHTTPS(sd.httpsCheck.Checked)
	if timeout, err := parseSeconds(sd.timeoutEntry.Text); err == nil {
		sd.settings.SetTimeout(timeout)
	}
	sd.settings.SetProbeServer(sd.probeCheck.Checked)
	sd.settings.SetEncodePath(sd.encodeCheck.Checked)
	if sd.catalogSelect.Selected != "" {
		sd.settings.SetCatalogVersion(sd.catalogSelect.Selected)
	}
	if code, ok := sd.languageCodes[sd.languageSelect.Selected]; ok {
		sd.settings.SetLanguage(code)
	}

	if sd.onSaved != nil {
		sd.onSaved()
	}
}

func validateTimeout(s string) error {
	_, err := parseSeconds(s)
	return err
}

func parseSeconds(s string) (time.Duration, error) {
	secs, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || secs <= 0 {
		return 0, ErrInvalidTimeout
	}
	return time.Duration(secs * float64(time.Second)), nil
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
