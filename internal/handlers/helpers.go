package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "divtrack/internal/errors"
	"divtrack/internal/logger"
)

// dateLayouts are the accepted date formats for query parameters, most
// specific first.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// parseDateParam parses an optional date query parameter. A bare date is
// widened to the end of that day so "as of 2024-03-01" includes rows
// settling on the 1st.
func parseDateParam(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			if layout == "2006-01-02" {
				t = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
			}
			return &t, nil
		}
	}
	return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
		"Invalid "+name+": expected YYYY-MM-DD or RFC3339")
}

// accountIDParam returns the optional account_id query parameter.
func accountIDParam(c *gin.Context) *string {
	if id := c.Query("account_id"); id != "" {
		return &id
	}
	return nil
}

// respondWithError writes a consistent JSON error response. If the error
// is an *AppError it uses the error's status code, code, and message.
// Otherwise it logs the unexpected error and returns a generic internal
// server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}
