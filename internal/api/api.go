package api

import (
	"net/http"
	"strings"

	"github.com/mj8star/cn-stock-monitor/internal/models"
	"github.com/mj8star/cn-stock-monitor/internal/services"
	"github.com/mj8star/cn-stock-monitor/internal/store"

	"github.com/gin-gonic/gin"
)

type APIHandler struct {
	store       *store.Store
	sync        *services.SyncService
	instruments []models.Instrument
}

func SetupRoutes(r *gin.RouterGroup, st *store.Store, syncSvc *services.SyncService, instruments []models.Instrument) *APIHandler {
	handler := &APIHandler{
		store:       st,
		sync:        syncSvc,
		instruments: instruments,
	}

	r.GET("/records", handler.GetRecords)
	r.GET("/instruments", handler.ListInstruments)
	r.POST("/sync", handler.RunSync)

	return handler
}

// GetRecords serves the viewer's date-range query. The optional names
// filter is a viewer-side concern; the store itself only knows dates.
func (h *APIHandler) GetRecords(c *gin.Context) {
	start := c.Query("start_date")
	end := c.Query("end_date")
	if start == "" || end == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date and end_date are required"})
		return
	}

	records, err := h.store.Query(start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if names := c.Query("names"); names != "" {
		wanted := make(map[string]bool)
		for _, n := range strings.Split(names, ",") {
			wanted[strings.TrimSpace(n)] = true
		}
		filtered := make([]models.DailyRecord, 0, len(records))
		for _, r := range records {
			if wanted[r.Name] {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(records),
		"records": records,
	})
}

func (h *APIHandler) ListInstruments(c *gin.Context) {
	out := make([]gin.H, 0, len(h.instruments))
	for _, inst := range h.instruments {
		out = append(out, gin.H{
			"code":     inst.Code,
			"name":     inst.Name,
			"category": inst.Category.String(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"instruments": out})
}

// RunSync triggers one synchronous sync cycle and returns the
// per-instrument report. The cycle blocks the request for its whole
// duration, pacing delays included.
func (h *APIHandler) RunSync(c *gin.Context) {
	results := h.sync.Run()
	c.JSON(http.StatusOK, gin.H{"results": results})
}
