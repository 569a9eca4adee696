package ui

import (
	"embed"
	"sort"

	"fyne.io/fyne/v2/lang"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// LanguageSystem selects the operating system locale
const LanguageSystem = "system"

// Text keys for localization
const (
	KeyAppTitle             = "app_title"
	KeyGetData              = "get_data"
	KeyLocationsPlaceholder = "locations_placeholder"
	KeySelectedCountries    = "selected_countries"
	KeyFavourites           = "favourites"
	KeyFavouritesHint       = "favourites_placeholder"
	KeyAddFavourite         = "add_favourite"
	KeyRemoveFavourite      = "remove_favourite"
	KeyAttribute            = "attribute"
	KeyAllData              = "all_data"
	KeySinceNCases          = "since_n_cases"
	KeyLastNDays            = "last_n_days"
	KeyLinearAxis           = "linear_axis"
	KeyLogAxis              = "log_axis"
	KeyLinePlot             = "line_plot"
	KeyBarGraph             = "bar_graph"
	KeyDataSource           = "data_source"
	KeyDataSourceDefault    = "data_source_default"
	KeyFile                 = "file"
	KeyEdit                 = "edit"
	KeyHelp                 = "help"
	KeySettings             = "settings"
	KeyLanguage             = "language"
	KeySavePlot             = "save_plot"
	KeyCopyURL              = "copy_url"
	KeyRESTAPIDocs          = "rest_api_docs"
	KeyGeoIDList            = "geoid_list"
	KeyServer               = "server"
	KeyUseLocalhost         = "use_localhost"
	KeyUseHTTPS             = "use_https"
	KeyTimeout              = "timeout"
	KeyProbeServer          = "probe_server"
	KeyEncodePath           = "encode_path"
	KeyCatalogVersion       = "catalog_version"
	KeySave                 = "save"
	KeyCancel               = "cancel"
	KeySettingsSaved        = "settings_saved"
	KeyNotConnected         = "not_connected"
	KeyStatusFetching       = "status_fetching"
	KeyStatusConnected      = "status_connected"
	KeyStatusInvalidURL     = "status_invalid_url"
	KeyStatusInvalidReply   = "status_invalid_response"
	KeyStatusNoResponse     = "status_no_response"
	KeyStatusUnreachable    = "status_unreachable"
	KeyStatusCancelled      = "status_cancelled"
	KeyStatusServerDetail   = "status_server_detail"
	KeyStatusNoClient       = "status_no_client"
	KeyErrorNoLocations     = "error_no_locations"
	KeyErrorNoAttribute     = "error_no_attribute"
	KeyErrorInvalidN        = "error_invalid_n"
	KeyURLCopied            = "url_copied"
	KeyNoChart              = "no_chart"
	KeyChartSaved           = "chart_saved"
	KeyErrorSaving          = "error_saving"
	KeyOpen                 = "open"
)

// Localization manages UI text translations
type Localization struct {
	bundle          *i18n.Bundle
	localizer       *i18n.Localizer
	currentLanguage string
	languages       []string
}

// NewLocalization creates a new localization manager with the embedded
// message files loaded. English is the fallback language.
func NewLocalization() *Localization {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	entries, _ := localeFS.ReadDir("locales")
	for _, entry := range entries {
		// embedded files; a parse error is a build defect
		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+entry.Name()); err != nil {
			panic(err)
		}
	}

	var languages []string
	for _, tag := range bundle.LanguageTags() {
		languages = append(languages, tag.String())
	}
	sort.Strings(languages)

	l := &Localization{bundle: bundle, languages: languages}
	l.SetLanguage(language.English.String())
	return l
}

// SetLanguage sets the current language. "system" follows the OS locale;
// unsupported languages fall back to English.
func (l *Localization) SetLanguage(lang string) {
	requested := lang
	if lang == LanguageSystem || lang == "" {
		requested = systemLanguage()
	}

	matcher := language.NewMatcher(l.bundle.LanguageTags())
	_, index, confidence := matcher.Match(language.Make(requested))
	if confidence == language.No {
		index = 0
	}
	tag := l.bundle.LanguageTags()[index]

	l.currentLanguage = tag.String()
	l.localizer = i18n.NewLocalizer(l.bundle, l.currentLanguage)
}

// GetText returns localized text for the given key, or the key itself when
// no translation exists
func (l *Localization) GetText(key string) string {
	return l.Format(key, nil)
}

// Format returns the localized template for key executed with data
func (l *Localization) Format(key string, data map[string]string) string {
	msg, err := l.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil || msg == "" {
		return key
	}
	return msg
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	names := map[string]string{
		"en": "English",
		"de": "Deutsch",
	}
	out := make(map[string]string, len(l.languages))
	for _, code := range l.languages {
		if name, ok := names[code]; ok {
			out[code] = name
		} else {
			out[code] = code
		}
	}
	return out
}

func systemLanguage() string {
	return lang.SystemLocale().LanguageString()
}
