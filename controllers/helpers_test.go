package controllers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mcmanyika/Musika/board"
	"github.com/mcmanyika/Musika/commodities"
	"github.com/mcmanyika/Musika/config"
	"github.com/mcmanyika/Musika/db/dbtest"
	"github.com/mcmanyika/Musika/market"
	"github.com/mcmanyika/Musika/middlewares"
	"github.com/mcmanyika/Musika/realtime"
	"github.com/mcmanyika/Musika/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testSecret = []byte("controllers-test-secret-0123456789")

type testEnv struct {
	app *fiber.App
	svc *market.Service
	db  *gorm.DB
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	require.NoError(t, middlewares.InitAuth(&config.Config{
		JWTTestMode: true,
		JWTSecret:   base64.StdEncoding.EncodeToString(testSecret),
	}))

	gdb := dbtest.Open(t)
	hub := realtime.NewHub()
	t.Cleanup(hub.Close)

	store, err := storage.NewLocal(t.TempDir(), "http://test/storage")
	require.NoError(t, err)

	svc := market.NewService(gdb, market.WithUploader(store), market.WithPublisher(hub))
	b := board.New(svc)
	require.NoError(t, b.Refresh(context.Background()))
	b.Attach(hub)
	t.Cleanup(b.Detach)

	feed := commodities.NewFeed(gdb, hub, commodities.NewSeedSource())
	_, err = feed.Refresh(context.Background())
	require.NoError(t, err)

	app := fiber.New()
	v1 := app.Group("/v1")
	InitCommodityRoutes(v1, feed)
	InitYieldRoutes(v1, svc, b)
	InitOrderRoutes(v1, svc, b)
	InitListingRoutes(v1, svc, b)
	InitTransactionRoutes(v1, svc)
	InitRatingRoutes(v1, svc)
	InitProfileRoutes(v1, svc)

	return &testEnv{app: app, svc: svc, db: gdb}
}

func token(t *testing.T, userID, email string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

// call sends a request as userID ("" for anonymous) and decodes the envelope.
func (e *testEnv) call(t *testing.T, method, path, userID string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+token(t, userID, userID+"@example.com"))
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out), string(env.Data))
	return out
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}
