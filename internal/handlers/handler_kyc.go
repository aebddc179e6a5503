package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/plutoken/plubot_backend/internal/apperrors"
	"github.com/plutoken/plubot_backend/internal/core/domain"
	portssvc "github.com/plutoken/plubot_backend/internal/core/ports/services"
	"github.com/plutoken/plubot_backend/internal/dto"
	"github.com/plutoken/plubot_backend/internal/middleware"
)

// kycHandler handles HTTP requests for the verification workflow.
type kycHandler struct {
	kycService portssvc.KycSvcFacade
}

func newKycHandler(ks portssvc.KycSvcFacade) *kycHandler {
	return &kycHandler{
		kycService: ks,
	}
}

// registerKycRoutes registers the user-facing verification routes.
func registerKycRoutes(rg *gin.RouterGroup, kycService portssvc.KycSvcFacade) {
	h := newKycHandler(kycService)

	accounts := rg.Group("/accounts/:id/kyc")
	{
		accounts.POST("", h.submitKyc)
		accounts.GET("", h.getKyc)
	}
}

// registerModKycRoutes registers the moderator-only verification routes.
func registerModKycRoutes(rg *gin.RouterGroup, kycService portssvc.KycSvcFacade) {
	h := newKycHandler(kycService)

	kyc := rg.Group("/kyc")
	{
		kyc.GET("", h.listKyc)
		kyc.POST("/:id/decision", h.decideKyc)
		kyc.PUT("/:id/status", h.forceKycStatus)
		kyc.DELETE("/:id", h.resetKyc)
	}
}

// submitKyc godoc
// @Summary Submit verification details
// @Description Runs one submission through the verification state machine; approved accounts get a single edit
// @Tags kyc
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   submission body dto.SubmitKycRequest true "Verification details"
// @Success 202 {object} dto.SubmitKycResponse
// @Failure 400 {object} map[string]string "Invalid name or date format"
// @Failure 403 {object} map[string]string "Attempt or edit limit reached"
// @Failure 404 {object} map[string]string "Account not registered"
// @Router /accounts/{id}/kyc [post]
func (h *kycHandler) submitKyc(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var req dto.SubmitKycRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SubmitKyc", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	outcome, rec, err := h.kycService.SubmitKyc(c.Request.Context(), accountID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotRegistered):
			logger.Warn("KYC submission for unregistered account", slog.String("account_id", accountID))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "messageKey": "not_registered"})
		case errors.Is(err, apperrors.ErrAttemptsExceeded):
			logger.Warn("KYC attempt limit reached", slog.String("account_id", accountID))
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "messageKey": "kyc_attempts_exceeded"})
		case errors.Is(err, apperrors.ErrEditLimitExceeded):
			logger.Warn("KYC edit limit reached", slog.String("account_id", accountID))
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "messageKey": "kyc_edit_limit_exceeded"})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("KYC submission validation failed", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "messageKey": "kyc_invalid_details"})
		default:
			logger.Error("Failed to submit KYC", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit verification details"})
		}
		return
	}

	messageKey := "kyc_request_sent"
	if outcome == domain.OutcomeEdited {
		messageKey = "kyc_details_updated"
	}
	c.JSON(http.StatusAccepted, dto.SubmitKycResponse{
		Outcome:    outcome,
		Status:     rec.Status,
		Attempts:   rec.Attempts,
		MessageKey: messageKey,
	})
}

// getKyc godoc
// @Summary Get verification status
// @Tags kyc
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.KycResponse
// @Failure 404 {object} map[string]string "No verification record"
// @Router /accounts/{id}/kyc [get]
func (h *kycHandler) getKyc(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	rec, err := h.kycService.GetKycByAccountID(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No verification record", "messageKey": "no_kyc_details"})
		} else {
			logger.Error("Failed to get KYC record", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve verification record"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToKycResponse(rec, h.kycService.MaxAttempts()))
}

// decideKyc godoc
// @Summary Approve or reject a pending submission
// @Tags kyc
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   decision body dto.KycDecisionRequest true "Decision"
// @Success 200 {object} dto.KycDecisionResponse
// @Failure 400 {object} map[string]string "Record is not pending"
// @Failure 404 {object} map[string]string "No verification record"
// @Security BearerAuth
// @Router /mod/kyc/{id}/decision [post]
func (h *kycHandler) decideKyc(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var req dto.KycDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for DecideKyc", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	rec, remaining, err := h.kycService.DecideKyc(c.Request.Context(), accountID, req.Approve)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotRegistered), errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "messageKey": "no_kyc_details"})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("KYC decision on non-pending record", slog.String("account_id", accountID))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to decide KYC", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record decision"})
		}
		return
	}

	messageKey := "kyc_approved"
	if rec.Status == domain.KycRejected {
		messageKey = "kyc_rejected"
	}
	c.JSON(http.StatusOK, dto.KycDecisionResponse{
		Status:            rec.Status,
		RemainingAttempts: remaining,
		MessageKey:        messageKey,
	})
}

// forceKycStatus godoc
// @Summary Force a verification status
// @Description Sets the status directly, bypassing transition rules, for manual corrections
// @Tags kyc
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   status body dto.ForceKycStatusRequest true "Target status"
// @Success 200 {object} dto.KycResponse
// @Security BearerAuth
// @Router /mod/kyc/{id}/status [put]
func (h *kycHandler) forceKycStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var req dto.ForceKycStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ForceKycStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	rec, err := h.kycService.ForceKycStatus(c.Request.Context(), accountID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotRegistered):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "messageKey": "not_registered"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to force KYC status", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set verification status"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToKycResponse(rec, h.kycService.MaxAttempts()))
}

// resetKyc godoc
// @Summary Reset a verification record
// @Description Deletes the record, restoring a fresh attempt budget
// @Tags kyc
// @Param   id path string true "Account ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "No verification record"
// @Security BearerAuth
// @Router /mod/kyc/{id} [delete]
func (h *kycHandler) resetKyc(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	if err := h.kycService.ResetKyc(c.Request.Context(), accountID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No verification record", "messageKey": "no_kyc_details"})
		} else {
			logger.Error("Failed to reset KYC record", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset verification record"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// listKyc godoc
// @Summary List verification records
// @Tags kyc
// @Produce  json
// @Param   limit query int false "Page size"
// @Param   offset query int false "Page offset"
// @Success 200 {object} dto.ListKycResponse
// @Security BearerAuth
// @Router /mod/kyc [get]
func (h *kycHandler) listKyc(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination parameters: " + err.Error()})
		return
	}

	records, err := h.kycService.ListKycRecords(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list KYC records", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list verification records"})
		return
	}

	resp := dto.ListKycResponse{Records: make([]dto.KycResponse, 0, len(records))}
	for i := range records {
		resp.Records = append(resp.Records, dto.ToKycResponse(&records[i], h.kycService.MaxAttempts()))
	}
	c.JSON(http.StatusOK, resp)
}
