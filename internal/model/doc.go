package model

// Package model defines the domain data shared by the chart client, the fetch
// service and the UI: chart requests with their date-range and plot options,
// fetch results, and the fetch task lifecycle.
