// Package fetch runs chart requests off the UI goroutine. It keeps at most one
// fetch in flight, cancels it when a newer request arrives, and reports task
// state changes through a callback.
package fetch
