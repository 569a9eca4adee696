package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconCopy     = "📋"
	IconFolder   = "📁"
	IconClose    = "×"
)

// Help links
const (
	RESTAPIDocsURL = "http://mb.cmbt.de/covid-19-analysis/the-rest-api/"
	GeoIDListURL   = "http://mb.cmbt.de/covid-19-analysis/list-of-geoids-and-countries/"
)

// Layout sizing
const (
	ChartMinWidth  float32 = 640
	ChartMinHeight float32 = 420

	NEntryWidth     float32 = 70
	FavouritesWidth float32 = 260
	SettingsDialogW float32 = 480
	SettingsDialogH float32 = 420
	LogoSize        float32 = 32
)

// Toast notification sizing and behavior
const (
	ToastWidth    float32 = 320
	ToastHeight   float32 = 110
	ToastMargin   float32 = 20
	ToastAutoHide         = 5 * time.Second
)
