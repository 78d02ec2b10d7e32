package apipay

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Gamenter95/weoo/internal/auth"
	"github.com/Gamenter95/weoo/internal/ledger"
	"github.com/Gamenter95/weoo/internal/logger"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// GetSettings godoc
// @Summary      Get the caller's payment API settings
// @Tags         api-settings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  SettingsView
// @Router       /api-settings [get]
func (h *Handler) GetSettings(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	settings, err := h.svc.GetSettings(c.Request.Context(), userID)
	if err != nil {
		logger.Errorf("get api settings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load API settings"})
		return
	}
	c.JSON(http.StatusOK, settings.View())
}

// Toggle godoc
// @Summary      Enable or disable the payment API
// @Tags         api-settings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      ToggleRequest  true  "Desired state"
// @Success      200      {object}  SettingsView
// @Router       /api-settings/toggle [post]
func (h *Handler) Toggle(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.svc.Toggle(c.Request.Context(), userID, req.Enabled)
	if err != nil {
		logger.Errorf("toggle api: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update API settings"})
		return
	}
	c.JSON(http.StatusOK, settings.View())
}

// GenerateToken godoc
// @Summary      Generate a new API token, replacing any existing one
// @Tags         api-settings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  SettingsView
// @Router       /api-settings/generate-token [post]
func (h *Handler) GenerateToken(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	settings, err := h.svc.GenerateToken(c.Request.Context(), userID)
	if err != nil {
		logger.Errorf("generate api token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate API token"})
		return
	}
	c.JSON(http.StatusOK, settings.View())
}

// RevokeToken godoc
// @Summary      Revoke the API token and disable the API
// @Tags         api-settings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  SettingsView
// @Router       /api-settings/revoke-token [post]
func (h *Handler) RevokeToken(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	settings, err := h.svc.RevokeToken(c.Request.Context(), userID)
	if err != nil {
		logger.Errorf("revoke api token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke API token"})
		return
	}
	c.JSON(http.StatusOK, settings.View())
}

// UpdateDomain godoc
// @Summary      Set the webhook callback URL for API payments
// @Tags         api-settings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      UpdateDomainRequest  true  "Callback URL"
// @Success      200      {object}  SettingsView
// @Router       /api-settings/update-domain [post]
func (h *Handler) UpdateDomain(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req UpdateDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.svc.UpdateDomain(c.Request.Context(), userID, req.CallbackDomain)
	if err != nil {
		logger.Errorf("update callback domain: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update callback domain"})
		return
	}
	c.JSON(http.StatusOK, settings.View())
}

// Pay godoc
// @Summary      Pay a user via the public payment API
// @Description  Query-string payment endpoint authenticated by an API token instead of a session.
// @Tags         payment-api
// @Produce      json
// @Param        type    query     string  true  "Must be \"wallet\""
// @Param        token   query     string  true  "API token"
// @Param        wwid    query     string  true  "Recipient WWID"
// @Param        amount  query     number  true  "Amount in rupees"
// @Success      200     {object}  map[string]interface{}
// @Failure      400     {object}  api.ErrorResponse
// @Failure      401     {object}  api.ErrorResponse
// @Failure      403     {object}  api.ErrorResponse
// @Router       /api/wallet [get]
func (h *Handler) Pay(c *gin.Context) {
	if c.Query("type") != "wallet" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported type"})
		return
	}

	token := c.Query("token")
	wwid := c.Query("wwid")
	if token == "" || wwid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token and wwid are required"})
		return
	}

	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil || !amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
		return
	}

	result, err := h.svc.Pay(c.Request.Context(), PayRequest{
		Token:         token,
		RecipientWWID: wwid,
		Amount:        amount.Round(2),
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidToken):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API token"})
		case errors.Is(err, ErrAPIDisabled):
			c.JSON(http.StatusForbidden, gin.H{"error": "Payment API is disabled"})
		case errors.Is(err, ledger.ErrRecipientNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipient not found"})
		case errors.Is(err, ledger.ErrSelfTransfer):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot pay to yourself"})
		case errors.Is(err, ledger.ErrInsufficientBalance):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient balance"})
		default:
			logger.Errorf("api payment: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment successful",
		"payment": result,
	})
}
