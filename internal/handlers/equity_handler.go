package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"divtrack/internal/equity"
	apperrors "divtrack/internal/errors"
	"divtrack/internal/services"
)

// EquityHandler handles equity-curve requests.
type EquityHandler struct {
	equityService services.EquityServicer
}

// NewEquityHandler creates a new EquityHandler.
func NewEquityHandler(equityService services.EquityServicer) *EquityHandler {
	return &EquityHandler{equityService: equityService}
}

// equityCurveQuery binds the equity curve query parameters.
type equityCurveQuery struct {
	Period string `form:"period" binding:"omitempty,equity_period"`
}

// GetEquityCurve returns the equity time series for a period token
// (?period=15d|1m|3m|6m|1y|inception, default inception), optionally
// scoped to one account.
func (h *EquityHandler) GetEquityCurve(c *gin.Context) {
	var query equityCurveQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidPeriod, err.Error()))
		return
	}
	if query.Period == "" {
		query.Period = string(equity.PeriodInception)
	}

	period, err := equity.ParsePeriod(query.Period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	points, err := h.equityService.Curve(c.Request.Context(), accountIDParam(c), period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if points == nil {
		points = []equity.Point{}
	}
	c.JSON(http.StatusOK, gin.H{"period": period, "points": points})
}
