package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	log "github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/cmbt/covid19-webclient/internal/config"
	"github.com/cmbt/covid19-webclient/internal/fetch"
	"github.com/cmbt/covid19-webclient/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "de.cmbt.covid19-webclient"
	AppName = "COVID-19 Charts"

	WindowWidth  = 1100
	WindowHeight = 720

	// logLevelEnv selects the log level, e.g. COVIDCHART_LOG_LEVEL=debug
	logLevelEnv = "COVIDCHART_LOG_LEVEL"
)

func initLog() {
	logLevel, err := log.ParseLevel(os.Getenv(logLevelEnv))
	if err != nil {
		log.SetLevel(log.InfoLevel)
	} else {
		log.SetLevel(logLevel)
	}

	log.SetOutput(os.Stdout)

	log.SetFormatter(&prefixed.TextFormatter{
		ForceFormatting: true,
		FullTimestamp:   true,
	})
}

func main() {
	initLog()
	log.WithField("version", version).Infof("%s starting", AppName)

	// Create new Fyne app
	myApp := app.NewWithID(AppID)

	// Apply compact theme
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	windowTitle := fmt.Sprintf("%s v%s", AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	// Initialize services
	settings := config.NewSettings(myApp)
	settings.EnsureDefaults()

	logger := log.StandardLogger()
	fetchSvc := fetch.NewService(nil, fetch.WithLogger(logger))

	// Create and setup UI
	ui.NewRootUI(myWindow, myApp, settings, fetchSvc, logger)

	// Show and run
	myWindow.ShowAndRun()
}
