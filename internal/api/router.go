package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"room-occupancy-backend/config"
	"room-occupancy-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg *config.ServerConfig, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(mw.RequestID(), mw.Logger(logger), mw.Recovery(logger))

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	// Cached reads are dropped after every successful write.
	responses := mw.NewResponseCache(time.Duration(cfg.CacheTTLSeconds) * time.Second)
	h.svc.OnChange(responses.Flush)
	caching := responses.Middleware()

	r.GET("/healthz", Health)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/rooms", caching, h.GetRooms)

		api.GET("/occupations", caching, h.ListOccupations)
		api.POST("/occupations", h.CreateOccupation)
		api.GET("/occupations/:id/occurrences", caching, h.GetOccurrences)

		api.GET("/export", h.ExportJSON)
		api.GET("/export.xlsx", h.ExportXLSX)
		api.GET("/export.ics", h.ExportICS)
		api.POST("/import", h.Import)

		api.GET("/conflicts", caching, h.GetConflicts)
		api.GET("/map", caching, h.GetRoomMap)
		api.GET("/stats", caching, h.GetStats)

		api.GET("/subscriptions", h.GetSubscription)
		api.PUT("/subscriptions", h.PutSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
	}

	return r
}
