package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmbt/covid19-webclient/internal/chart"
)

// execute runs chartfetch with args in an empty working directory
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func pngServer(t *testing.T) *httptest.Server {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/data/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(buf.Bytes())
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestURLCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "all data",
			args: []string{"url", "DE"},
			want: "http://mb.cmbt.de/api/data/DE/Cases?",
		},
		{
			name: "label and last n days",
			args: []string{"url", "DE, FR", "-a", "Daily Deaths, 7 day average", "--last", "14", "--log"},
			want: "http://mb.cmbt.de/api/data/DE,FR/DailyDeaths7?lastN=14&log=True",
		},
		{
			name: "since n cases with data source",
			args: []string{"url", "US", "-a", "Cases", "--since", "100", "--bar", "--source", "owid"},
			want: "http://mb.cmbt.de/api/data/US/Cases?sinceN=100&bar=True&dataSource=OWID",
		},
		{
			name: "https and localhost",
			args: []string{"--server", "localhost", "--https", "url", "IT"},
			want: "https://localhost:8000/api/data/IT/Cases?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestURLCommand_ServerFromEnvironment(t *testing.T) {
	t.Setenv("COVIDCHART_SERVER", "charts.example.org")

	out, err := execute(t, "url", "SE")
	require.NoError(t, err)
	assert.Equal(t, "http://charts.example.org/api/data/SE/Cases?\n", out)
}

func TestURLCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"since and last", []string{"url", "DE", "--since", "10", "--last", "10"}},
		{"zero n", []string{"url", "DE", "--last", "0"}},
		{"unknown attribute", []string{"url", "DE", "-a", "Hospitalisations"}},
		{"unknown source", []string{"url", "DE", "--source", "RKI"}},
		{"unsupported source", []string{"--catalog", "classic", "url", "DE", "--source", "WHO"}},
		{"blank locations", []string{"url", "  "}},
		{"unknown catalog", []string{"--catalog", "modern", "url", "DE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestFetchCommand(t *testing.T) {
	ts := pngServer(t)
	host := strings.TrimPrefix(ts.URL, "http://")
	target := filepath.Join(t.TempDir(), "chart.png")

	out, err := execute(t, "--server", host, "fetch", "DE,FR", "-a", "DailyCases7", "--last", "30", "-o", target)
	require.NoError(t, err)
	assert.Equal(t, target+"\n", out)

	f, err := os.Open(target)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
}

func TestFetchCommand_DefaultFileName(t *testing.T) {
	ts := pngServer(t)
	host := strings.TrimPrefix(ts.URL, "http://")

	out, err := execute(t, "--server", host, "fetch", "US", "--since", "100", "--log", "--bar")
	require.NoError(t, err)
	assert.Equal(t, "US-Cases-since100-log-bar.png\n", out)

	_, err = os.Stat("US-Cases-since100-log-bar.png")
	assert.NoError(t, err)
}

func TestFetchCommand_InvalidResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "unknown country"}`))
	}))
	defer ts.Close()
	host := strings.TrimPrefix(ts.URL, "http://")

	_, err := execute(t, "--server", host, "fetch", "XX")
	require.Error(t, err)
	assert.ErrorIs(t, err, chart.ErrInvalidResponse)
	assert.Contains(t, err.Error(), "InvalidResponse")
	assert.Contains(t, err.Error(), "unknown country")
}

func TestAttributesCommand(t *testing.T) {
	out, err := execute(t, "--catalog", "classic", "attributes")
	require.NoError(t, err)
	assert.Contains(t, out, "FIELD")
	assert.Contains(t, out, "Reproduction rate R")
	assert.Contains(t, out, "DailyDeaths7")
	assert.NotContains(t, out, "data sources")

	out, err = execute(t, "attributes")
	require.NoError(t, err)
	assert.Contains(t, out, "data sources: WHO, OWID")
}

func TestURLCommand_NoReachabilityCheck(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	host := strings.TrimPrefix(ts.URL, "http://")
	ts.Close()

	out, err := execute(t, "--server", host, "--probe", "url", "DE")
	require.NoError(t, err)
	assert.Equal(t, "http://"+host+"/api/data/DE/Cases?\n", out)

	_, err = execute(t, "--server", host, "--probe", "fetch", "DE")
	assert.ErrorIs(t, err, chart.ErrServerUnreachable)
}

func TestDescribeFetchError_Interrupted(t *testing.T) {
	const url = "http://mb.cmbt.de/api/data/DE/Cases?"
	err := describeFetchError(&chart.Error{Kind: chart.KindNoResponse, URL: url, Err: context.Canceled})

	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, chart.ErrNoResponse)
	assert.Contains(t, err.Error(), "interrupted")
	assert.Contains(t, err.Error(), url)
}
