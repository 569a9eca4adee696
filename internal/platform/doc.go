// Package platform contains OS integration: default directories, chart export
// as PNG, and opening saved files with the system tools.
package platform
