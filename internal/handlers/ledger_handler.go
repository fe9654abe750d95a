package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "divtrack/internal/errors"
	"divtrack/internal/models"
	"divtrack/internal/pagination"
	"divtrack/internal/services"
)

// LedgerHandler handles read-only ledger browsing.
type LedgerHandler struct {
	ledgerService services.LedgerServicer
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerService services.LedgerServicer) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// GetAccounts returns all active accounts.
func (h *LedgerHandler) GetAccounts(c *gin.Context) {
	accounts, err := h.ledgerService.ListAccounts()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// listTransactionsQuery binds the transaction list query parameters.
type listTransactionsQuery struct {
	pagination.PageRequest
	Action   string `form:"action" binding:"omitempty,ledger_action"`
	Symbol   string `form:"symbol"`
	Currency string `form:"currency" binding:"omitempty,ledger_currency"`
}

// GetTransactions returns a filtered, paginated page of ledger rows.
func (h *LedgerHandler) GetTransactions(c *gin.Context) {
	var query listTransactionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fromDate, err := parseDateParam(c, "from_date")
	if err != nil {
		respondWithError(c, err)
		return
	}
	toDate, err := parseDateParam(c, "to_date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter := services.TransactionFilter{
		AccountID: accountIDParam(c),
		FromDate:  fromDate,
		ToDate:    toDate,
	}
	if query.Action != "" {
		action := models.Action(query.Action)
		filter.Action = &action
	}
	if query.Symbol != "" {
		filter.Symbol = &query.Symbol
	}
	if query.Currency != "" {
		filter.Currency = &query.Currency
	}

	result, err := h.ledgerService.ListTransactions(query.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
