package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"room-occupancy-backend/internal/model"
	"room-occupancy-backend/internal/schedule"
)

var errPeriodIncomplete = errors.New("month, year and week must be given together")

// periodQuery reads the optional month/year/week query parameters. No
// parameters means no period.
func periodQuery(c *gin.Context) (*schedule.Period, error) {
	rawMonth, rawYear, rawWeek := c.Query("month"), c.Query("year"), c.Query("week")
	if rawMonth == "" && rawYear == "" && rawWeek == "" {
		return nil, nil
	}
	if rawMonth == "" || rawYear == "" || rawWeek == "" {
		return nil, errPeriodIncomplete
	}

	month, err := strconv.Atoi(rawMonth)
	if err != nil {
		return nil, schedule.ErrInvalidPeriod
	}
	year, err := strconv.Atoi(rawYear)
	if err != nil {
		return nil, schedule.ErrInvalidPeriod
	}
	week, err := strconv.Atoi(rawWeek)
	if err != nil {
		return nil, schedule.ErrInvalidPeriod
	}

	p, err := schedule.NewPeriod(year, time.Month(month), week)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetConflicts handles GET /api/conflicts.
func (h *Handler) GetConflicts(c *gin.Context) {
	p, err := periodQuery(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conflicts, err := h.svc.Conflicts(c.Request.Context(), p)
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, conflicts)
}

// GetRoomMap handles GET /api/map.
func (h *Handler) GetRoomMap(c *gin.Context) {
	weekday := model.Weekday(c.Query("weekday"))
	if !weekday.Valid() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid weekday"})
		return
	}
	p, err := periodQuery(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	floors, err := h.svc.RoomMap(c.Request.Context(), weekday, p, c.Query("q"))
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, floors)
}

// GetStats handles GET /api/stats.
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
