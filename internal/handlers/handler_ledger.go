package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/plutoken/plubot_backend/internal/apperrors"
	portssvc "github.com/plutoken/plubot_backend/internal/core/ports/services"
	"github.com/plutoken/plubot_backend/internal/dto"
	"github.com/plutoken/plubot_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// ledgerHandler handles balance queries, transfers and withdrawals.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{
		ledgerService: ls,
	}
}

// registerLedgerRoutes registers the user-facing ledger routes.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	accounts := rg.Group("/accounts/:id")
	{
		accounts.GET("/balance", h.getBalance)
		accounts.GET("/ledger", h.listEntries)
	}
	rg.POST("/transfers", h.transfer)
	rg.POST("/withdrawals", h.withdraw)
}

// registerModLedgerRoutes registers the moderator balance adjustment route.
func registerModLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	rg.POST("/accounts/:id/adjust", h.adjustBalance)
}

// adjustBalanceRequest is the moderator give/take payload.
type adjustBalanceRequest struct {
	Delta  decimal.Decimal `json:"delta" binding:"required"`
	Reason string          `json:"reason" binding:"required"`
}

// getBalance godoc
// @Summary Get an account balance
// @Tags ledger
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.BalanceResponse
// @Failure 404 {object} map[string]string "Account not registered"
// @Router /accounts/{id}/balance [get]
func (h *ledgerHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	balance, err := h.ledgerService.GetBalance(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrNotRegistered) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found", "messageKey": "not_registered"})
		} else {
			logger.Error("Failed to get balance", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve balance"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{AccountID: accountID, Balance: balance})
}

// transfer godoc
// @Summary Transfer between accounts
// @Description Debits one account and credits another atomically
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   transfer body dto.TransferRequest true "Transfer details"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Account not registered"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Router /transfers [post]
func (h *ledgerHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	err := h.ledgerService.TransferPair(c.Request.Context(), req.FromAccountID, req.ToAccountID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotRegistered):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "messageKey": "not_registered"})
		case errors.Is(err, apperrors.ErrInsufficientFunds):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "messageKey": "insufficient_funds"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to transfer", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to transfer"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"messageKey": "transfer_successful"})
}

// withdraw godoc
// @Summary Withdraw to a fiat rail
// @Description Debits the requested amount; the fee is deducted from it and the user receives the net
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   withdrawal body dto.WithdrawRequest true "Withdrawal details"
// @Success 200 {object} dto.WithdrawResponse
// @Failure 404 {object} map[string]string "Account not registered"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Router /withdrawals [post]
func (h *ledgerHandler) withdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Withdraw", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.ledgerService.Withdraw(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotRegistered):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "messageKey": "not_registered"})
		case errors.Is(err, apperrors.ErrInsufficientFunds):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "messageKey": "insufficient_funds"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to withdraw", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to withdraw"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listEntries godoc
// @Summary List ledger entries
// @Description Retrieves an account's balance mutation history, newest first
// @Tags ledger
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   limit query int false "Page size"
// @Param   offset query int false "Page offset"
// @Success 200 {object} dto.ListLedgerEntriesResponse
// @Router /accounts/{id}/ledger [get]
func (h *ledgerHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination parameters: " + err.Error()})
		return
	}

	entries, err := h.ledgerService.ListEntries(c.Request.Context(), accountID, params.Limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list ledger entries", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list ledger entries"})
		return
	}

	resp := dto.ListLedgerEntriesResponse{Entries: make([]dto.LedgerEntryResponse, 0, len(entries))}
	for _, entry := range entries {
		resp.Entries = append(resp.Entries, dto.ToLedgerEntryResponse(entry))
	}
	c.JSON(http.StatusOK, resp)
}

// adjustBalance godoc
// @Summary Adjust an account balance
// @Description Applies a signed moderator adjustment with an audit reason
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   adjustment body adjustBalanceRequest true "Adjustment details"
// @Success 200 {object} dto.BalanceResponse
// @Failure 404 {object} map[string]string "Account not registered"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Security BearerAuth
// @Router /mod/accounts/{id}/adjust [post]
func (h *ledgerHandler) adjustBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var req adjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AdjustBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	newBalance, err := h.ledgerService.ApplyDelta(c.Request.Context(), accountID, req.Delta, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotRegistered):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "messageKey": "not_registered"})
		case errors.Is(err, apperrors.ErrInsufficientFunds):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "messageKey": "insufficient_funds"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to adjust balance", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to adjust balance"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{AccountID: accountID, Balance: newBalance})
}
