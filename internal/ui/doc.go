// Package ui contains the Fyne-based desktop user interface. It turns the
// request form into chart requests for the fetch service, shows the returned
// chart and keeps favourites and settings. All UI strings are localized via
// Localization.
package ui
