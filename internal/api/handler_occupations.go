package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"room-occupancy-backend/internal/dashboard"
	"room-occupancy-backend/internal/parse"
	"room-occupancy-backend/internal/schedule"
)

// GetRooms handles GET /api/rooms.
func (h *Handler) GetRooms(c *gin.Context) {
	c.JSON(http.StatusOK, parse.Catalog(c.Query("q")))
}

// ListOccupations handles GET /api/occupations.
func (h *Handler) ListOccupations(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	occs, err := h.svc.List(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, occs)
}

// CreateOccupation handles POST /api/occupations.
func (h *Handler) CreateOccupation(c *gin.Context) {
	var in dashboard.OccupationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	o, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, dashboard.ErrInvalidOccupation) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

// GetOccurrences handles GET /api/occupations/:id/occurrences.
func (h *Handler) GetOccurrences(c *gin.Context) {
	from := time.Time{}
	to := time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
	for _, q := range []struct {
		key string
		dst *time.Time
	}{{"from", &from}, {"to", &to}} {
		raw := c.Query(q.key)
		if raw == "" {
			continue
		}
		t, err := schedule.ParseDate(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + q.key + " date"})
			return
		}
		*q.dst = t
	}

	dates, err := h.svc.Occurrences(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		if errors.Is(err, dashboard.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "occupation not found"})
			return
		}
		h.internalError(c, err)
		return
	}

	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(schedule.DateLayout)
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "dates": out})
}
