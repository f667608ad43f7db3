package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AnshRaj112/phonebook-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Environment:    "development",
		Port:           "0",
		Host:           "http://localhost:8080",
		AllowedOrigins: []string{"http://localhost:3000"},
		StoreDriver:    config.StoreMemory,
		AvatarBackend:  config.AvatarLocal,
		PublicDir:      dir,
		TmpDir:         dir,
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestOpenStores_Memory(t *testing.T) {
	stores, err := OpenStores(context.Background(), memoryConfig(t))
	require.NoError(t, err)
	defer stores.Close()

	assert.NotNil(t, stores.Users)
	assert.NotNil(t, stores.Contacts)
}

func TestOpenStores_UnknownDriver(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.StoreDriver = "sqlite"
	_, err := OpenStores(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNew_ServesHealthAndSecurityHeaders(t *testing.T) {
	srv, err := New(context.Background(), memoryConfig(t))
	require.NoError(t, err)
	defer srv.stores.Close()

	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestNew_ProductionChecksHost(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Environment = "production"
	cfg.Host = "https://api.example.com"
	cfg.JWTSecret = "prod-secret"

	srv, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer srv.stores.Close()

	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://api.example.com/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))

	rec = httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://evil.example.com/health", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
