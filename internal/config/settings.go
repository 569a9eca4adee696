package config

import (
	"time"

	"fyne.io/fyne/v2"

	"github.com/cmbt/covid19-webclient/internal/catalog"
	"github.com/cmbt/covid19-webclient/internal/chart"
	"github.com/cmbt/covid19-webclient/internal/model"
	"github.com/cmbt/covid19-webclient/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyServer         = "server"
	KeyUseHTTPS       = "use_https"
	KeyTimeoutMillis  = "timeout_ms"
	KeyFavourites     = "favourites"
	KeyHasDefaults    = "has_defaults"
	KeyCatalogVersion = "catalog_version"
	KeyDataSource     = "data_source"
	KeyLanguage       = "app_language"
	KeyProbeServer    = "probe_server"
	KeyEncodePath     = "encode_path"
	KeySaveDir        = "save_directory"
)

// Default values
const (
	DefaultServer         = "mb.cmbt.de"
	DefaultUseHTTPS       = false
	DefaultTimeout        = chart.DefaultTimeout
	DefaultCatalogVersion = catalog.DefaultVersion
	DefaultLanguage       = "system"
	DefaultProbeServer    = false
	DefaultEncodePath     = false

	MinTimeout = 500 * time.Millisecond
	MaxTimeout = 2 * time.Minute
)

// DefaultFavourites seeds the favourites list on first start
var DefaultFavourites = []string{
	"DE, FR, IT, ES, UK, CH",
	"US, BR, MX, PE, CO, RU, IN",
	"SE, NO, FI, DK",
	"AT, HR, SI, ME, BA, XK",
	"KR, JP, SG, TW, VN, PH, MY, TH",
}

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// EnsureDefaults seeds the favourites the first time the application runs.
// A user who later empties the list keeps an empty list.
func (s *Settings) EnsureDefaults() {
	prefs := s.app.Preferences()
	if prefs.Bool(KeyHasDefaults) {
		return
	}
	prefs.SetStringList(KeyFavourites, DefaultFavourites)
	prefs.SetBool(KeyHasDefaults, true)
}

// GetServer returns the chart server host
func (s *Settings) GetServer() string {
	return s.app.Preferences().StringWithFallback(KeyServer, DefaultServer)
}

// SetServer sets the chart server host. An empty host restores the default.
func (s *Settings) SetServer(host string) {
	if host == "" {
		host = DefaultServer
	}
	s.app.Preferences().SetString(KeyServer, host)
}

// GetUseHTTPS returns whether requests use https
func (s *Settings) GetUseHTTPS() bool {
	return s.app.Preferences().BoolWithFallback(KeyUseHTTPS, DefaultUseHTTPS)
}

// SetUseHTTPS sets whether requests use https
func (s *Settings) SetUseHTTPS(useHTTPS bool) {
	s.app.Preferences().SetBool(KeyUseHTTPS, useHTTPS)
}

// GetTimeout returns the request timeout
func (s *Settings) GetTimeout() time.Duration {
	ms := s.app.Preferences().Int(KeyTimeoutMillis)
	if ms <= 0 {
		return DefaultTimeout
	}
	return time.Duration(ms) * time.Millisecond
}

// SetTimeout sets the request timeout, clamped to MinTimeout..MaxTimeout
func (s *Settings) SetTimeout(timeout time.Duration) {
	if timeout < MinTimeout {
		timeout = MinTimeout
	}
	if timeout > MaxTimeout {
		timeout = MaxTimeout
	}
	s.app.Preferences().SetInt(KeyTimeoutMillis, int(timeout/time.Millisecond))
}

// GetFavourites returns the saved favourite location lists
func (s *Settings) GetFavourites() Favourites {
	return Favourites(s.app.Preferences().StringList(KeyFavourites))
}

// SetFavourites stores the favourite location lists
func (s *Settings) SetFavourites(favs Favourites) {
	s.app.Preferences().SetStringList(KeyFavourites, []string(favs))
}

// GetCatalogVersion returns the attribute catalog version
func (s *Settings) GetCatalogVersion() string {
	version := s.app.Preferences().String(KeyCatalogVersion)
	if version == "" {
		return DefaultCatalogVersion
	}
	if _, err := catalog.Builtin(version); err != nil {
		return DefaultCatalogVersion
	}
	return version
}

// SetCatalogVersion sets the attribute catalog version
func (s *Settings) SetCatalogVersion(version string) {
	s.app.Preferences().SetString(KeyCatalogVersion, version)
}

// GetDataSource returns the preferred data source. Unknown stored values
// fall back to the server default.
func (s *Settings) GetDataSource() model.DataSource {
	ds, err := model.ParseDataSource(s.app.Preferences().String(KeyDataSource))
	if err != nil {
		return model.DataSourceDefault
	}
	return ds
}

// SetDataSource sets the preferred data source
func (s *Settings) SetDataSource(ds model.DataSource) {
	s.app.Preferences().SetString(KeyDataSource, string(ds))
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"de":     "Deutsch",
	}
}

// GetProbeServer returns whether the server is probed when the client is built
func (s *Settings) GetProbeServer() bool {
	return s.app.Preferences().BoolWithFallback(KeyProbeServer, DefaultProbeServer)
}

// SetProbeServer sets whether the server is probed when the client is built
func (s *Settings) SetProbeServer(probe bool) {
	s.app.Preferences().SetBool(KeyProbeServer, probe)
}

// GetEncodePath returns whether URL path segments are percent-encoded
func (s *Settings) GetEncodePath() bool {
	return s.app.Preferences().BoolWithFallback(KeyEncodePath, DefaultEncodePath)
}

// SetEncodePath sets whether URL path segments are percent-encoded
func (s *Settings) SetEncodePath(encode bool) {
	s.app.Preferences().SetBool(KeyEncodePath, encode)
}

// GetSaveDirectory returns the directory offered when saving a chart
func (s *Settings) GetSaveDirectory() string {
	dir := s.app.Preferences().String(KeySaveDir)
	if dir == "" {
		defaultDir, err := platform.GetHomePicturesDir()
		if err != nil {
			return ""
		}
		return defaultDir
	}
	return dir
}

// SetSaveDirectory remembers the directory of the last saved chart
func (s *Settings) SetSaveDirectory(dir string) {
	s.app.Preferences().SetString(KeySaveDir, dir)
}

// ServerConfig returns the chart client configuration
func (s *Settings) ServerConfig() chart.ServerConfig {
	return chart.ServerConfig{
		Host:       s.GetServer(),
		UseHTTPS:   s.GetUseHTTPS(),
		Timeout:    s.GetTimeout(),
		Probe:      s.GetProbeServer(),
		EncodePath: s.GetEncodePath(),
	}
}

// Catalog returns the configured built-in attribute catalog
func (s *Settings) Catalog() (*catalog.Catalog, error) {
	return catalog.Builtin(s.GetCatalogVersion())
}
