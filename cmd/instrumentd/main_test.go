package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/Aleph-Alpha/fxinstrument/v1/config"
	"github.com/Aleph-Alpha/fxinstrument/v1/health"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.HTTP.Address = ""
	cfg.Metrics.Address = ""
	cfg.Logger.Level = "error"
	return cfg
}

func TestOptionsValidate(t *testing.T) {
	require.NoError(t, fx.ValidateApp(options(config.Default())))
}

func TestRouter(t *testing.T) {
	var (
		router *mux.Router
		checks *health.Registry
	)
	app := fxtest.New(t,
		options(testConfig()),
		fx.Populate(&router, &checks),
	)
	app.RequireStart()
	defer app.RequireStop()

	assert.Equal(t, []string{"heartbeat"}, checks.Names())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/heartbeat", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/observables", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var names []string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&names))
	assert.Contains(t, names, "instrumentd.Heartbeat.Beat")
	assert.Contains(t, names, "instrumentd.Heartbeat.beats")
	assert.Contains(t, names, "instrumentd.Heartbeat.uptime.seconds")
	assert.Contains(t, names, "instrumentd.requestStats.hits[method=POST,operation=heartbeat,resource=/heartbeat]")
	assert.Contains(t, names, "instrumentd.requestStats.hits[method=GET,operation=observables,resource=/observables]")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "instrumentd_Heartbeat_beats_total 1")
}

func TestHeartbeatGoesStale(t *testing.T) {
	h := &Heartbeat{}
	assert.ErrorIs(t, h.Check(context.Background()), errStale)
}

func TestValidateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instrumentd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logger:\n  level: error\n"), 0o600))

	var out bytes.Buffer
	app := createApp()
	app.Writer = &out
	require.NoError(t, app.Run(context.Background(), []string{"instrumentd", "--config", path, "validate"}))
	assert.Equal(t, "configuration ok\n", out.String())

	app = createApp()
	app.Writer = &out
	err := app.Run(context.Background(), []string{"instrumentd", "--config", "instrumentd.toml", "validate"})
	assert.ErrorIs(t, err, config.ErrUnsupportedFormat)
}
