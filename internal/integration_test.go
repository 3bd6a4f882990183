package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"room-occupancy-backend/config"
	"room-occupancy-backend/internal/api"
	"room-occupancy-backend/internal/dashboard"
	"room-occupancy-backend/internal/db"
	"room-occupancy-backend/internal/model"
	"room-occupancy-backend/internal/notification"
	"room-occupancy-backend/internal/store"
)

type recordingSender struct {
	mu       sync.Mutex
	payloads map[string][]string
}

func (s *recordingSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads[sub.Endpoint] = append(s.payloads[sub.Endpoint], string(payload))
	return &http.Response{StatusCode: http.StatusCreated, Body: io.NopCloser(bytes.NewReader(nil))}, nil
}

func (s *recordingSender) sent(endpoint string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.payloads[endpoint]...)
}

// TestConflictLifecycle drives the HTTP API from an empty collection to a
// conflict, checks the period filter on the conflict view and the alert sent
// to the browser watching the room.
func TestConflictLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.ApplyDefaults()
	cfg.Database.DSN = "sqlite:file:integration?mode=memory&cache=shared"
	cfg.Database.MaxOpenConns = 1
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000

	gormDB, err := db.Init(&cfg.Database, zap.NewNop())
	require.NoError(t, err)
	sqlDB, _ := gormDB.DB()
	defer sqlDB.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := dashboard.NewService(store.NewGormStore(gormDB, cfg.Unit.Name), cfg.Unit.Name, zap.NewNop())
	subs := store.NewSubscriptionStore(gormDB)

	options := &webpush.Options{VAPIDPublicKey: "pub", VAPIDPrivateKey: "priv"}
	sender := &recordingSender{payloads: make(map[string][]string)}
	pool := notification.NewWorkerPool(1, subs, options, zap.NewNop())
	pool.SetSender(sender)
	pool.Start(ctx)
	svc.SetAlertDispatcher(pool)

	router := api.NewRouter(api.NewHandler(svc, subs, options, zap.NewNop()), &cfg.Server, zap.NewNop())

	call := func(method, target string, body any) *httptest.ResponseRecorder {
		raw, _ := json.Marshal(body)
		req := httptest.NewRequest(method, target, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}
	occupation := func(course, start, end string) map[string]string {
		return map[string]string{
			"room": "Sala 204", "course": course, "class_group": "T1", "instructor": "Rita",
			"shift": "Tarde", "weekday": "Quarta", "start_time": "13:30", "end_time": "17:30",
			"start_date": start, "end_date": end,
		}
	}

	// --- A browser watches Sala 204 ---
	w := call(http.MethodPut, "/api/subscriptions", map[string]any{
		"endpoint": "https://push.example/browser", "p256dh": "k", "auth": "a", "rooms": []string{"Sala 204"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// --- First occupation: no conflict ---
	w = call(http.MethodPost, "/api/occupations", occupation("Design Gráfico", "2024-02-01", "2024-02-29"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(http.MethodGet, "/api/conflicts", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `[]`, w.Body.String())

	// --- Second occupation on the same slot, in March ---
	w = call(http.MethodPost, "/api/occupations", occupation("Fotografia", "2024-03-01", "2024-03-31"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var conflicts []model.Conflict
	w = call(http.MethodGet, "/api/conflicts", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &conflicts))
	require.Len(t, conflicts, 1)
	assert.Equal(t, "Sala 204", conflicts[0].Room)
	assert.Equal(t, model.Wednesday, conflicts[0].Weekday)
	assert.Equal(t, "Múltiplos cursos no turno da tarde", conflicts[0].Reason)

	// Week 5 of February reaches into March, but the month window keeps the
	// March occupation out.
	w = call(http.MethodGet, "/api/conflicts?month=2&year=2024&week=5", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `[]`, w.Body.String())

	w = call(http.MethodGet, "/api/conflicts?month=3&year=2024&week=1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `[]`, w.Body.String())

	// --- The watcher was alerted ---
	assert.Eventually(t, func() bool {
		return len(sender.sent("https://push.example/browser")) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"Conflito de ocupação na Sala 204"}, sender.sent("https://push.example/browser"))

	// --- Stats reflect the conflict ---
	var stats dashboard.Stats
	w = call(http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, dashboard.Stats{TotalRooms: 45, OccupiedRooms: 1, FreeRooms: 44, Conflicts: 1}, stats)
}
