package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"room-occupancy-backend/internal/exchange"
)

const maxImportBytes = 10 << 20

func (h *Handler) download(c *gin.Context, contentType, filename string, write func(context.Context, io.Writer) error) {
	var buf bytes.Buffer
	if err := write(c.Request.Context(), &buf); err != nil {
		h.internalError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// ExportJSON handles GET /api/export.
func (h *Handler) ExportJSON(c *gin.Context) {
	h.download(c, "application/json; charset=utf-8", exchange.BackupFileName, h.svc.ExportJSON)
}

// ExportXLSX handles GET /api/export.xlsx.
func (h *Handler) ExportXLSX(c *gin.Context) {
	h.download(c, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", exchange.SpreadsheetFileName, h.svc.ExportXLSX)
}

// ExportICS handles GET /api/export.ics.
func (h *Handler) ExportICS(c *gin.Context) {
	h.download(c, "text/calendar; charset=utf-8", exchange.CalendarFileName, h.svc.ExportICS)
}

// Import handles POST /api/import. The backup is read from the "file" form
// field of a multipart upload, or from the raw request body.
func (h *Handler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)

	var body io.Reader = c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			h.internalError(c, err)
			return
		}
		defer f.Close()
		body = f
	}

	occs, err := h.svc.Import(c.Request.Context(), body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, exchange.ErrInvalidFormat):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid file format"})
		case errors.As(err, &tooLarge):
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		default:
			h.internalError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": len(occs)})
}
