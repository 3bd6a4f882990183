package api

import (
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"room-occupancy-backend/internal/dashboard"
	"room-occupancy-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	svc     *dashboard.Service
	subs    store.SubscriptionStore
	webpush *webpush.Options
	logger  *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(svc *dashboard.Service, subs store.SubscriptionStore, webpushOptions *webpush.Options, logger *zap.Logger) *Handler {
	return &Handler{
		svc:     svc,
		subs:    subs,
		webpush: webpushOptions,
		logger:  logger,
	}
}

// internalError logs err and answers 500 without leaking storage details.
func (h *Handler) internalError(c *gin.Context, err error) {
	h.logger.Error("request failed",
		zap.Error(err),
		zap.String("path", c.FullPath()),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// Health answers the liveness probe.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
