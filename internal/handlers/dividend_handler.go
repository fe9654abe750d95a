package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "divtrack/internal/errors"
	"divtrack/internal/services"
)

// DividendHandler handles dividend projection requests.
type DividendHandler struct {
	dividendService services.DividendServicer
}

// NewDividendHandler creates a new DividendHandler.
func NewDividendHandler(dividendService services.DividendServicer) *DividendHandler {
	return &DividendHandler{dividendService: dividendService}
}

// GetProjections returns per-symbol dividend projections and the monthly
// forecast for a target year (?year=, default current), optionally
// scoped to one account.
func (h *DividendHandler) GetProjections(c *gin.Context) {
	year := 0
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1900 || parsed > 2200 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid year"))
			return
		}
		year = parsed
	}

	result, err := h.dividendService.Projections(accountIDParam(c), year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
