package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"room-occupancy-backend/config"
	"room-occupancy-backend/internal/dashboard"
	"room-occupancy-backend/internal/db"
	"room-occupancy-backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router *gin.Engine
	svc    *dashboard.Service
	subs   store.SubscriptionStore
}

func newTestEnv(t *testing.T, webpushOptions *webpush.Options) *testEnv {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gormDB, err := db.Init(&config.DatabaseConfig{
		DSN:          "sqlite:file:" + name + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	cfg := config.Config{}
	cfg.ApplyDefaults()
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000

	svc := dashboard.NewService(store.NewGormStore(gormDB, cfg.Unit.Name), cfg.Unit.Name, zap.NewNop())
	subs := store.NewSubscriptionStore(gormDB)
	h := NewHandler(svc, subs, webpushOptions, zap.NewNop())
	return &testEnv{router: NewRouter(h, &cfg.Server, zap.NewNop()), svc: svc, subs: subs}
}

func (e *testEnv) do(method, target string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func occupationBody(room, weekday, shift, start, end string) map[string]string {
	return map[string]string{
		"room":        room,
		"course":      "Técnico em Logística",
		"class_group": "LOG01",
		"instructor":  "Paulo Reis",
		"shift":       shift,
		"weekday":     weekday,
		"start_time":  "19:00",
		"end_time":    "22:00",
		"start_date":  start,
		"end_date":    end,
	}
}

func mustStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}
