package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"divtrack/internal/services"
)

// PortfolioHandler handles replay and valuation requests.
type PortfolioHandler struct {
	portfolioService services.PortfolioServicer
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService services.PortfolioServicer) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

// GetPositions returns positions and cash balances reconstructed from
// the ledger, optionally scoped to one account (?account_id=) and
// bounded by a date (?as_of=YYYY-MM-DD).
func (h *PortfolioHandler) GetPositions(c *gin.Context) {
	asOf, err := parseDateParam(c, "as_of")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.portfolioService.Replay(accountIDParam(c), asOf)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSummary returns the market-valued portfolio overview in CAD.
func (h *PortfolioHandler) GetSummary(c *gin.Context) {
	summary, err := h.portfolioService.Summary(c.Request.Context(), accountIDParam(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
