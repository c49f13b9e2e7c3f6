package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/logs"
	"storefront/internal/media"
)

func TestNewApp_HealthAndRoutes(t *testing.T) {
	cfg := &config.Config{
		JWTSecret:   "test_jwt_secret",
		BodyLimitMB: 4,
		Database:    config.DatabaseConfig{Driver: "sqlite", DSN: "file:" + uuid.NewString() + "?mode=memory&cache=shared"},
	}
	db, err := database.Open(cfg.Database, logs.Discard(), false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	host := media.NewBucketHost(memblob.OpenBucket(nil), "https://cdn.example.com")
	defer host.Close()

	app := newApp(cfg, db, host, nil, logs.Discard())

	t.Run("HealthCheck", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("StoreStatusAnonymous", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/store/create", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("SellerProductsUnauthenticated", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/store/product", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAuditEvent(t *testing.T) {
	var buf bytes.Buffer
	handler := auditEvent(slog.New(slog.NewJSONHandler(&buf, nil)))

	err := handler(amqp.Delivery{RoutingKey: "store.applied", Body: []byte(`{"storeId":"s1"}`)})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"routing_key":"store.applied"`)
	assert.Contains(t, buf.String(), `"storeId":"s1"`)

	err = handler(amqp.Delivery{RoutingKey: "product.created", Body: []byte("not json")})
	assert.ErrorContains(t, err, "malformed product.created event")
}
