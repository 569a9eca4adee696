// Package chart is the client for the COVID-19 charting REST API. It builds
// request URLs from a model.ChartRequest, fetches the rendered chart and
// classifies every failure as InvalidUrl, NoResponse or InvalidResponse while
// keeping the attempted URL for diagnostics.
package chart
