package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shopstack/catalogd/internal/api"
	"github.com/shopstack/catalogd/internal/app"
	"github.com/shopstack/catalogd/internal/cache"
	sharedtestutil "github.com/shopstack/catalogd/internal/database/testutil"
	"github.com/shopstack/catalogd/internal/services"
	"github.com/shopstack/catalogd/pkg/response"
)

// Env encapsulates a fully-wired API instance backed by an in-memory database
// and cache for handler tests.
type Env struct {
	T       *testing.T
	DB      *gorm.DB
	Store   cache.Store
	Catalog *services.CatalogService
	Router  *gin.Engine
}

// NewEnv provisions a fresh handler test environment with migrations applied.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db := sharedtestutil.MustOpenTestDB(t)

	store := cache.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	catalog, err := services.NewCatalogService(db, store, 0)
	require.NoError(t, err)

	cfg := &app.Config{
		Server: app.ServerConfig{
			Port: 8000,
			RateLimit: app.RateLimitConfig{
				Enabled:     false,
				MaxRequests: 100,
				Window:      time.Minute,
			},
		},
		Monitoring: app.MonitoringConfig{
			Prometheus: app.PrometheusConfig{Enabled: true, Endpoint: "/metrics"},
			Health:     app.HealthConfig{Enabled: true, Timeout: time.Second},
		},
	}

	router, err := api.NewRouter(db, store, catalog, cfg)
	require.NoError(t, err)

	return &Env{
		T:       t,
		DB:      db,
		Store:   store,
		Catalog: catalog,
		Router:  router,
	}
}

// Request performs an HTTP request against the wired router.
func (e *Env) Request(method, path string, body any) *httptest.ResponseRecorder {
	e.T.Helper()

	var buf *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.T, err)
		buf = bytes.NewBuffer(data)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(e.T, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

// APIResponse represents the canonical API envelope returned by handlers.
type APIResponse struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
}

// DecodeResponse decodes the recorder body into the canonical envelope.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// DecodeInto unmarshals a raw data payload into the destination value.
func DecodeInto[T any](t *testing.T, raw json.RawMessage, dest *T) {
	t.Helper()
	if dest == nil {
		t.Fatal("destination must not be nil")
	}
	require.NoError(t, json.Unmarshal(raw, dest))
}
