package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"divtrack/internal/services"
)

// PipelineHandler handles endpoints called by scheduled jobs rather than
// interactive clients.
type PipelineHandler struct {
	marketDataService services.MarketDataServicer
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(marketDataService services.MarketDataServicer) *PipelineHandler {
	return &PipelineHandler{marketDataService: marketDataService}
}

// RefreshQuotes fetches fresh quotes and the USD/CAD rate for every symbol
// held in the ledger and writes them to the cache.
func (h *PipelineHandler) RefreshQuotes(c *gin.Context) {
	refreshed, err := h.marketDataService.Refresh(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "quote cache refreshed",
		"refreshed": refreshed,
	})
}
