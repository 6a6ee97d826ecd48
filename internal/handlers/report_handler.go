package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *HandlerManager) ActivityReport(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	rows, err := h.Reports.Last30Days(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"days": int(h.Reports.Window().Hours() / 24),
		"rows": rows,
	})
}

// ExportActivityReport serves the activity report as an .xlsx download
func (h *HandlerManager) ExportActivityReport(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.Reports.ExportXLSX(c.Request.Context(), userID, &buf); err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("activity-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
