package ui

import (
	"errors"
	"net/url"
	"path/filepath"
	"sort"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/cmbt/covid19-webclient/internal/catalog"
	"github.com/cmbt/covid19-webclient/internal/chart"
	"github.com/cmbt/covid19-webclient/internal/config"
	"github.com/cmbt/covid19-webclient/internal/fetch"
	"github.com/cmbt/covid19-webclient/internal/model"
	"github.com/cmbt/covid19-webclient/internal/platform"
)

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	app          fyne.App
	settings     *config.Settings
	localization *Localization
	fetcher      fetch.Fetcher
	log          logrus.FieldLogger

	client     *chart.Client
	cat        *catalog.Catalog
	connectGen int
	favourites config.Favourites

	currentTaskID string
	lastURL       string
	lastResult    *model.ChartResult
	lastRequest   model.ChartRequest

	// Request form
	favouritesLabel  *widget.Label
	favouritesSelect *widget.Select
	addFavBtn        *widget.Button
	removeFavBtn     *widget.Button
	locationsLabel   *widget.Label
	locationsEntry   *widget.Entry
	attributeLabel   *widget.Label
	attributeSelect  *widget.Select
	rangeRadio       *widget.RadioGroup
	sinceNEntry      *widget.Entry
	lastNEntry       *widget.Entry
	axisRadio        *widget.RadioGroup
	plotRadio        *widget.RadioGroup
	sourceLabel      *widget.Label
	sourceSelect     *widget.Select
	sourceRow        *fyne.Container
	getDataBtn       *widget.Button

	// Chart and status
	chartBackground *canvas.Rectangle
	chartImage      *canvas.Image
	statusLabel     *widget.Label
	statusSpinner   *widget.ProgressBarInfinite
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, settings *config.Settings, fetcher fetch.Fetcher, log logrus.FieldLogger) *RootUI {
	if log == nil {
		log = logrus.StandardLogger()
	}

	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		app:          app,
		settings:     settings,
		localization: localization,
		fetcher:      fetcher,
		log:          log,
		favourites:   settings.GetFavourites(),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))
	window.SetIcon(LogoResource)

	ui.fetcher.SetUpdateCallback(ui.onTaskUpdate)

	ui.setupUI()
	ui.connect()

	window.SetCloseIntercept(func() {
		ui.Shutdown()
		window.Close()
	})
	// File→Quit and Cmd+Q stop the app without the close intercept
	app.Lifecycle().SetOnStopped(ui.Shutdown)

	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	t := ui.localization.GetText

	ui.createMenu()

	// Favourites
	ui.favouritesLabel = widget.NewLabel(t(KeyFavourites))
	ui.favouritesSelect = widget.NewSelect(ui.favourites, ui.onFavouriteSelected)
	ui.favouritesSelect.PlaceHolder = t(KeyFavouritesHint)
	ui.addFavBtn = widget.NewButton(t(KeyAddFavourite), ui.onAddFavourite)
	ui.removeFavBtn = widget.NewButton(t(KeyRemoveFavourite), ui.onRemoveFavourite)
	favouritesRow := container.NewBorder(nil, nil, nil,
		container.NewHBox(ui.addFavBtn, ui.removeFavBtn), ui.favouritesSelect)

	// Locations
	ui.locationsLabel = widget.NewLabel(t(KeySelectedCountries))
	ui.locationsEntry = widget.NewEntry()
	ui.locationsEntry.SetPlaceHolder(t(KeyLocationsPlaceholder))
	ui.locationsEntry.OnChanged = ui.onLocationsChanged
	ui.locationsEntry.OnSubmitted = func(string) {
		ui.onGetData()
	}

	// Attribute
	ui.attributeLabel = widget.NewLabel(t(KeyAttribute))
	ui.attributeSelect = widget.NewSelect(nil, nil)

	// Date range with the n entries of the inactive modes disabled
	ui.sinceNEntry = widget.NewEntry()
	ui.sinceNEntry.SetText(DefaultSinceN)
	ui.lastNEntry = widget.NewEntry()
	ui.lastNEntry.SetText(DefaultLastN)
	ui.rangeRadio = widget.NewRadioGroup(ui.rangeOptions(), ui.onRangeChanged)
	ui.rangeRadio.Required = true
	ui.rangeRadio.SetSelected(ui.rangeRadio.Options[model.RangeAll])
	nEntries := container.NewGridWrap(fyne.NewSize(NEntryWidth, ui.sinceNEntry.MinSize().Height),
		widget.NewLabel(""), ui.sinceNEntry, ui.lastNEntry)
	rangeRow := container.NewBorder(nil, nil, nil, container.NewVBox(nEntries), ui.rangeRadio)

	// Plot style
	ui.axisRadio = widget.NewRadioGroup(ui.axisOptions(), nil)
	ui.axisRadio.Required = true
	ui.axisRadio.SetSelected(ui.axisRadio.Options[0])
	ui.plotRadio = widget.NewRadioGroup(ui.plotOptions(), nil)
	ui.plotRadio.Required = true
	ui.plotRadio.SetSelected(ui.plotRadio.Options[0])

	// Data source, hidden for catalogs without a selector
	ui.sourceLabel = widget.NewLabel(t(KeyDataSource))
	ui.sourceSelect = widget.NewSelect(nil, ui.onSourceChanged)
	ui.sourceRow = container.NewVBox(ui.sourceLabel, ui.sourceSelect)

	ui.getDataBtn = widget.NewButton(t(KeyGetData), ui.onGetData)
	ui.getDataBtn.Importance = widget.HighImportance
	ui.getDataBtn.Disable()

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	logo := canvas.NewImageFromResource(LogoResource)
	logo.SetMinSize(fyne.NewSize(LogoSize, LogoSize))
	logo.FillMode = canvas.ImageFillContain

	form := container.NewVBox(
		container.NewBorder(nil, nil, logo, settingsBtn),
		ui.favouritesLabel,
		favouritesRow,
		ui.locationsLabel,
		ui.locationsEntry,
		ui.attributeLabel,
		ui.attributeSelect,
		widget.NewSeparator(),
		rangeRow,
		widget.NewSeparator(),
		ui.axisRadio,
		ui.plotRadio,
		ui.sourceRow,
		widget.NewSeparator(),
		ui.getDataBtn,
	)
	leftPanel := container.NewGridWrap(fyne.NewSize(FavouritesWidth+NEntryWidth, form.MinSize().Height), form)

	// Chart area
	ui.chartImage = canvas.NewImageFromImage(nil)
	ui.chartImage.FillMode = canvas.ImageFillContain
	ui.chartImage.SetMinSize(fyne.NewSize(ChartMinWidth, ChartMinHeight))
	ui.chartBackground = canvas.NewRectangle(chartBackgroundColor)
	chartArea := container.NewStack(ui.chartBackground, ui.chartImage)

	// Status line
	ui.statusLabel = widget.NewLabel(t(KeyNotConnected))
	ui.statusLabel.Truncation = fyne.TextTruncateEllipsis
	ui.statusSpinner = widget.NewProgressBarInfinite()
	ui.statusSpinner.Hide()
	copyBtn := widget.NewButton(IconCopy, ui.onCopyURL)
	copyBtn.Importance = widget.LowImportance
	statusBar := container.NewBorder(widget.NewSeparator(), nil, nil,
		container.NewHBox(ui.statusSpinner, copyBtn), ui.statusLabel)

	content := container.NewBorder(
		nil,                             // top
		statusBar,                       // bottom
		container.NewVScroll(leftPanel), // left
		nil,                             // right
		container.NewPadded(chartArea),  // center
	)

	ui.window.SetContent(content)
	ui.onRangeChanged(ui.rangeRadio.Selected)
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	t := ui.localization.GetText

	fileMenu := fyne.NewMenu(t(KeyFile),
		fyne.NewMenuItem(t(KeySavePlot), ui.onSavePlot),
		fyne.NewMenuItem(t(KeySettings), ui.onShowSettings),
	)

	editMenu := fyne.NewMenu(t(KeyEdit),
		fyne.NewMenuItem(t(KeyCopyURL), ui.onCopyURL),
	)

	// Language submenu
	languages := ui.localization.GetAvailableLanguages()
	codes := make([]string, 0, len(languages))
	for code := range languages {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	languageMenu := fyne.NewMenu(t(KeyLanguage))
	for _, code := range codes {
		langCode := code // Capture for closure
		langItem := fyne.NewMenuItem(languages[code], func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	helpMenu := fyne.NewMenu(t(KeyHelp),
		fyne.NewMenuItem(t(KeyRESTAPIDocs), func() { ui.openLink(RESTAPIDocsURL) }),
		fyne.NewMenuItem(t(KeyGeoIDList), func() { ui.openLink(GeoIDListURL) }),
	)

	ui.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, languageMenu, helpMenu))
}

// connect builds a chart client from the current settings. With the
// reachability probe enabled this may block, so it runs off the UI goroutine.
func (ui *RootUI) connect() {
	cfg := ui.settings.ServerConfig()

	cat, err := ui.settings.Catalog()
	if err != nil {
		ui.log.WithError(err).Warn("falling back to default catalog")
		cat, _ = catalog.Builtin(catalog.DefaultVersion)
	}
	ui.setCatalog(cat)

	ui.connectGen++
	gen := ui.connectGen

	if !cfg.Probe {
		client, err := chart.New(cfg, cat, chart.WithLogger(ui.log))
		ui.applyClient(gen, cfg.Host, client, err)
		return
	}

	ui.setStatus(ui.localization.GetText(KeyNotConnected), true)
	go func() {
		client, err := chart.New(cfg, cat, chart.WithLogger(ui.log))
		fyne.Do(func() {
			ui.applyClient(gen, cfg.Host, client, err)
		})
	}()
}

// applyClient installs the client of connect attempt gen unless a newer
// attempt has started since
func (ui *RootUI) applyClient(gen int, host string, client *chart.Client, err error) {
	if gen != ui.connectGen {
		return
	}
	if err != nil {
		ui.client = nil
		ui.fetcher.SetClient(nil)
		ui.setStatus(ErrorMessage(ui.localization, host, "", err), false)
		return
	}
	ui.client = client
	ui.fetcher.SetClient(client)
	ui.setStatus(ui.localization.GetText(KeyNotConnected), false)
}

// setCatalog refreshes the attribute and data source choices, keeping the
// current selections where the new catalog has them
func (ui *RootUI) setCatalog(cat *catalog.Catalog) {
	ui.cat = cat

	previous := ui.attributeSelect.Selected
	ui.attributeSelect.Options = cat.Labels()
	if _, ok := cat.Field(previous); ok {
		ui.attributeSelect.SetSelected(previous)
	} else if cat.Len() > 0 {
		ui.attributeSelect.SetSelectedIndex(0)
	}
	ui.attributeSelect.Refresh()

	sources := cat.DataSources()
	if len(sources) == 0 {
		ui.sourceRow.Hide()
		return
	}
	options := []string{ui.localization.GetText(KeyDataSourceDefault)}
	for _, ds := range sources {
		options = append(options, string(ds))
	}
	ui.sourceSelect.Options = options
	if ds := ui.settings.GetDataSource(); ds != model.DataSourceDefault && cat.SupportsDataSource(ds) {
		ui.sourceSelect.SetSelected(string(ds))
	} else {
		ui.sourceSelect.SetSelectedIndex(0)
	}
	ui.sourceSelect.Refresh()
	ui.sourceRow.Show()
}

func (ui *RootUI) rangeOptions() []string {
	t := ui.localization.GetText
	// indexed by model.DateRangeKind
	return []string{t(KeyAllData), t(KeySinceNCases), t(KeyLastNDays)}
}

func (ui *RootUI) axisOptions() []string {
	return []string{ui.localization.GetText(KeyLinearAxis), ui.localization.GetText(KeyLogAxis)}
}

func (ui *RootUI) plotOptions() []string {
	return []string{ui.localization.GetText(KeyLinePlot), ui.localization.GetText(KeyBarGraph)}
}

// rangeKind returns the date range kind of the selected radio option
func (ui *RootUI) rangeKind() model.DateRangeKind {
	return model.DateRangeKind(indexOf(ui.rangeRadio.Options, ui.rangeRadio.Selected))
}

// formState reads the request form
func (ui *RootUI) formState() FormState {
	source := model.DataSourceDefault
	if ui.sourceRow.Visible() && ui.sourceSelect.SelectedIndex() > 0 {
		source = model.DataSource(ui.sourceSelect.Selected)
	}

	return FormState{
		Locations:      ui.locationsEntry.Text,
		AttributeLabel: ui.attributeSelect.Selected,
		RangeKind:      ui.rangeKind(),
		SinceN:         ui.sinceNEntry.Text,
		LastN:          ui.lastNEntry.Text,
		Logarithmic:    indexOf(ui.axisRadio.Options, ui.axisRadio.Selected) == 1,
		BarGraph:       indexOf(ui.plotRadio.Options, ui.plotRadio.Selected) == 1,
		Source:         source,
	}
}

// onGetData validates the form and submits the request
func (ui *RootUI) onGetData() {
	req, err := ui.formState().ToRequest(ui.cat)
	if err != nil {
		ui.setStatus(ui.validationMessage(err), false)
		return
	}

	task := ui.fetcher.Submit(req)
	ui.currentTaskID = task.ID
	ui.log.WithFields(logrus.Fields{"task": task.ID, "url": task.URL}).Debug("chart requested")
	ui.applyTask(task)
}

// onTaskUpdate handles task updates from the fetch service
func (ui *RootUI) onTaskUpdate(task *model.FetchTask) {
	fyne.Do(func() {
		ui.applyTask(task)
	})
}

// applyTask reflects the state of the current task. Updates of superseded
// tasks are ignored; on errors the previous chart stays visible.
func (ui *RootUI) applyTask(task *model.FetchTask) {
	if task.ID != ui.currentTaskID {
		return
	}

	if task.URL != "" {
		ui.lastURL = task.URL
	}
	ui.setStatus(StatusMessage(ui.localization, ui.serverName(), task), task.Status.IsActive())

	if task.Status == model.FetchStatusCompleted && task.Result != nil {
		ui.lastResult = task.Result
		ui.lastRequest = task.Request
		ui.chartImage.Image = task.Result.Image
		ui.chartImage.Refresh()
	}
}

func (ui *RootUI) serverName() string {
	if ui.client != nil {
		return ui.client.Host()
	}
	return ui.settings.GetServer()
}

func (ui *RootUI) validationMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoLocations):
		return ui.localization.GetText(KeyErrorNoLocations)
	case errors.Is(err, ErrNoAttribute):
		return ui.localization.GetText(KeyErrorNoAttribute)
	case errors.Is(err, ErrInvalidN):
		return ui.localization.GetText(KeyErrorInvalidN)
	default:
		return err.Error()
	}
}

// setStatus shows message in the status line. When busy is true, a spinner
// indicates the running request.
func (ui *RootUI) setStatus(message string, busy bool) {
	ui.statusLabel.SetText(message)
	if busy {
		ui.statusSpinner.Show()
		ui.statusSpinner.Start()
	} else {
		ui.statusSpinner.Stop()
		ui.statusSpinner.Hide()
	}
}

func (ui *RootUI) onLocationsChanged(text string) {
	if CanSubmit(text) {
		ui.getDataBtn.Enable()
	} else {
		ui.getDataBtn.Disable()
	}
}

func (ui *RootUI) onRangeChanged(string) {
	sinceN, lastN := EnabledInputs(ui.rangeKind())
	setEnabled(ui.sinceNEntry, sinceN)
	setEnabled(ui.lastNEntry, lastN)
}

func (ui *RootUI) onSourceChanged(string) {
	if ui.sourceSelect.SelectedIndex() > 0 {
		ui.settings.SetDataSource(model.DataSource(ui.sourceSelect.Selected))
	} else {
		ui.settings.SetDataSource(model.DataSourceDefault)
	}
}

func (ui *RootUI) onFavouriteSelected(locations string) {
	if locations != "" {
		ui.locationsEntry.SetText(locations)
	}
}

func (ui *RootUI) onAddFavourite() {
	favs, changed := ui.favourites.Add(ui.locationsEntry.Text)
	if !changed {
		return
	}
	ui.favourites = favs
	ui.settings.SetFavourites(favs)
	ui.favouritesSelect.Options = favs
	ui.favouritesSelect.Refresh()
	ui.favouritesSelect.SetSelected(favs[len(favs)-1])
}

func (ui *RootUI) onRemoveFavourite() {
	favs, changed := ui.favourites.Remove(ui.favouritesSelect.Selected)
	if !changed {
		return
	}
	ui.favourites = favs
	ui.settings.SetFavourites(favs)
	ui.favouritesSelect.ClearSelected()
	ui.favouritesSelect.Options = favs
	ui.favouritesSelect.Refresh()
}

// onSavePlot saves the displayed chart as PNG
func (ui *RootUI) onSavePlot() {
	if ui.lastResult == nil || ui.lastResult.Image == nil {
		dialog.ShowInformation(ui.localization.GetText(KeySavePlot), ui.localization.GetText(KeyNoChart), ui.window)
		return
	}
	result := ui.lastResult

	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, ui.window)
			return
		}
		if writer == nil {
			return // cancelled
		}

		path := writer.URI().Path()
		err = platform.EncodePNG(writer, result.Image)
		if closeErr := writer.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			ui.log.WithField("path", path).WithError(err).Error("saving chart failed")
			dialog.ShowError(errors.New(ui.localization.Format(KeyErrorSaving, map[string]string{"Path": path})), ui.window)
			return
		}

		ui.log.WithField("path", path).Info("chart saved")
		ui.settings.SetSaveDirectory(filepath.Dir(path))
		ui.showSavedToast(path)
	}, ui.window)

	save.SetFileName(platform.PlotFileName(ui.lastRequest))
	save.SetFilter(storage.NewExtensionFileFilter([]string{platform.PNGExtension}))
	if dir := ui.settings.GetSaveDirectory(); dir != "" {
		if err := platform.CreateDirectoryIfNotExists(dir); err == nil {
			if lister, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
				save.SetLocation(lister)
			}
		}
	}
	save.Show()
}

// showSavedToast shows an in-app notification with reveal and open actions
func (ui *RootUI) showSavedToast(path string) {
	message := widget.NewLabel(ui.localization.Format(KeyChartSaved, map[string]string{"Path": filepath.Base(path)}))
	message.Truncation = fyne.TextTruncateEllipsis

	revealBtn := widget.NewButton(IconFolder, func() {
		if err := platform.OpenFileInManager(path); err != nil {
			ui.log.WithError(err).Warn("reveal failed")
		}
	})
	openBtn := widget.NewButton(ui.localization.GetText(KeyOpen), func() {
		if err := platform.OpenFileWithDefaultApp(path); err != nil {
			ui.log.WithError(err).Warn("open failed")
		}
	})
	openBtn.Importance = widget.HighImportance

	var toast *widget.PopUp
	closeBtn := widget.NewButton(IconClose, func() {
		toast.Hide()
	})
	closeBtn.Importance = widget.LowImportance

	content := container.NewVBox(
		container.NewBorder(nil, nil, nil, closeBtn, message),
		container.NewHBox(revealBtn, openBtn),
	)
	toast = widget.NewPopUp(content, ui.window.Canvas())

	canvasSize := ui.window.Canvas().Size()
	toast.Resize(fyne.NewSize(ToastWidth, ToastHeight))
	toast.Move(fyne.NewPos(canvasSize.Width-ToastWidth-ToastMargin, ToastMargin))
	toast.Show()

	time.AfterFunc(ToastAutoHide, func() {
		fyne.Do(toast.Hide)
	})
}

// onCopyURL copies the last request URL, or the URL the form would request
func (ui *RootUI) onCopyURL() {
	u := ui.lastURL
	if u == "" && ui.client != nil {
		if req, err := ui.formState().ToRequest(ui.cat); err == nil {
			u = ui.client.BuildURL(req)
		}
	}
	if u == "" {
		return
	}
	ui.app.Clipboard().SetContent(u)
	ui.setStatus(ui.localization.GetText(KeyURLCopied), false)
}

func (ui *RootUI) openLink(raw string) {
	u, err := url.Parse(raw)
	if err != nil {
		return
	}
	if err := ui.app.OpenURL(u); err != nil {
		ui.log.WithField("url", raw).WithError(err).Warn("opening link failed")
	}
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, func() {
		ui.localization.SetLanguage(ui.settings.GetLanguage())
		ui.refreshUITexts()
		ui.createMenu()
		ui.connect()
		dialog.ShowInformation(ui.localization.GetText(KeySettings), ui.localization.GetText(KeySettingsSaved), ui.window)
	})
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)

	ui.refreshUITexts()

	// Recreate menu to update checkmarks
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	t := ui.localization.GetText

	ui.window.SetTitle(t(KeyAppTitle))
	ui.favouritesLabel.SetText(t(KeyFavourites))
	ui.favouritesSelect.PlaceHolder = t(KeyFavouritesHint)
	ui.favouritesSelect.Refresh()
	ui.addFavBtn.SetText(t(KeyAddFavourite))
	ui.removeFavBtn.SetText(t(KeyRemoveFavourite))
	ui.locationsLabel.SetText(t(KeySelectedCountries))
	ui.locationsEntry.SetPlaceHolder(t(KeyLocationsPlaceholder))
	ui.attributeLabel.SetText(t(KeyAttribute))
	ui.sourceLabel.SetText(t(KeyDataSource))
	ui.getDataBtn.SetText(t(KeyGetData))

	relabel(ui.rangeRadio, ui.rangeOptions())
	relabel(ui.axisRadio, ui.axisOptions())
	relabel(ui.plotRadio, ui.plotOptions())

	if len(ui.sourceSelect.Options) > 0 {
		selected := ui.sourceSelect.SelectedIndex()
		ui.sourceSelect.Options[0] = t(KeyDataSourceDefault)
		ui.sourceSelect.SetSelectedIndex(selected)
		ui.sourceSelect.Refresh()
	}
}

// Shutdown cancels the running fetch and stores the favourites
func (ui *RootUI) Shutdown() {
	ui.fetcher.Cancel()
	ui.settings.SetFavourites(ui.favourites)
	ui.log.WithField("favourites", len(ui.favourites)).Debug("favourites saved")
}

// relabel replaces the options of group, keeping the selected position
func relabel(group *widget.RadioGroup, options []string) {
	selected := indexOf(group.Options, group.Selected)
	group.Options = options
	if selected >= 0 && selected < len(options) {
		group.Selected = options[selected]
	}
	group.Refresh()
}

func setEnabled(w fyne.Disableable, enabled bool) {
	if enabled {
		w.Enable()
	} else {
		w.Disable()
	}
}

func indexOf(options []string, value string) int {
	for i, o := range options {
		if o == value {
			return i
		}
	}
	return -1
}
