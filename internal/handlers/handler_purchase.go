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
)

// purchaseHandler handles purchase intents from quote to settlement.
type purchaseHandler struct {
	purchaseService portssvc.PurchaseSvcFacade
}

func newPurchaseHandler(ps portssvc.PurchaseSvcFacade) *purchaseHandler {
	return &purchaseHandler{
		purchaseService: ps,
	}
}

// registerPurchaseRoutes registers the purchase intent routes.
func registerPurchaseRoutes(rg *gin.RouterGroup, purchaseService portssvc.PurchaseSvcFacade) {
	h := newPurchaseHandler(purchaseService)

	purchases := rg.Group("/purchases")
	{
		purchases.POST("", h.createIntents)
		purchases.POST("/confirm", h.confirmPurchase)
	}
	rg.GET("/accounts/:id/purchases", h.listPurchases)
}

// createIntents godoc
// @Summary Create purchase intents
// @Description Quotes the buy once and creates one pending intent per payment channel
// @Tags purchases
// @Accept  json
// @Produce  json
// @Param   purchase body dto.CreatePurchaseRequest true "Purchase details"
// @Success 201 {object} dto.CreatePurchaseResponse
// @Failure 404 {object} map[string]string "Account not registered"
// @Failure 409 {object} map[string]string "Open intent already exists for a channel"
// @Failure 502 {object} map[string]string "Price feed unavailable"
// @Failure 504 {object} map[string]string "Price feed timed out"
// @Router /purchases [post]
func (h *purchaseHandler) createIntents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateIntents", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	intents, err := h.purchaseService.CreateIntents(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotRegistered):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "messageKey": "not_registered"})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "messageKey": "purchase_already_open"})
		case errors.Is(err, apperrors.ErrPriceUnavailable):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "messageKey": "price_unavailable"})
		case errors.Is(err, apperrors.ErrExternalTimeout):
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error(), "messageKey": "price_feed_timeout"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create purchase intents", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create purchase intents"})
		}
		return
	}

	resp := dto.CreatePurchaseResponse{Intents: make([]dto.PurchaseIntentResponse, 0, len(intents))}
	for i := range intents {
		resp.Intents = append(resp.Intents, dto.ToPurchaseIntentResponse(&intents[i]))
	}
	c.JSON(http.StatusCreated, resp)
}

// confirmPurchase godoc
// @Summary Confirm a pending purchase
// @Description Verifies the payment with the provider, then settles the intent and credits the balance once
// @Tags purchases
// @Accept  json
// @Produce  json
// @Param   confirmation body dto.ConfirmPurchaseRequest true "Confirmation details"
// @Success 200 {object} dto.ConfirmPurchaseResponse
// @Failure 402 {object} map[string]string "Payment not verified"
// @Failure 404 {object} map[string]string "No pending intent"
// @Failure 409 {object} map[string]string "Already confirmed"
// @Failure 504 {object} map[string]string "Provider timed out"
// @Router /purchases/confirm [post]
func (h *purchaseHandler) confirmPurchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ConfirmPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ConfirmPurchase", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	confirmed, newBalance, err := h.purchaseService.ConfirmPurchase(c.Request.Context(), req.AccountID, req.Channel)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNoPendingIntent):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "messageKey": "no_pending_purchase"})
		case errors.Is(err, apperrors.ErrAlreadyConfirmed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "messageKey": "purchase_already_confirmed"})
		case errors.Is(err, apperrors.ErrPaymentNotVerified):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error(), "messageKey": "payment_not_verified"})
		case errors.Is(err, apperrors.ErrExternalTimeout):
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error(), "messageKey": "payment_verification_timeout"})
		default:
			logger.Error("Failed to confirm purchase", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm purchase"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ConfirmPurchaseResponse{
		PurchaseIntentResponse: dto.ToPurchaseIntentResponse(confirmed),
		NewBalance:             newBalance,
		MessageKey:             "purchase_successful",
	})
}

// listPurchases godoc
// @Summary List purchase intents
// @Tags purchases
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   limit query int false "Page size"
// @Param   offset query int false "Page offset"
// @Success 200 {object} dto.CreatePurchaseResponse
// @Router /accounts/{id}/purchases [get]
func (h *purchaseHandler) listPurchases(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination parameters: " + err.Error()})
		return
	}

	purchases, err := h.purchaseService.ListPurchases(c.Request.Context(), accountID, params.Limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list purchase intents", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list purchase intents"})
		return
	}

	resp := dto.CreatePurchaseResponse{Intents: make([]dto.PurchaseIntentResponse, 0, len(purchases))}
	for i := range purchases {
		resp.Intents = append(resp.Intents, dto.ToPurchaseIntentResponse(&purchases[i]))
	}
	c.JSON(http.StatusOK, resp)
}
