package ui

import (
	_ "embed"

	"fyne.io/fyne/v2"
)

const (
	AppIcon = "covid19-webclient.svg"
)

//go:embed assets/icon.svg
var iconSVG []byte

// LogoResource is the application icon
var LogoResource = fyne.NewStaticResource(AppIcon, iconSVG)
