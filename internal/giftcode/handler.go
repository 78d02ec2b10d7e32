package giftcode

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

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

// Create godoc
// @Summary      Create a gift code
// @Description  Debits slots × amount from the creator; a random 7-character code is generated when none is supplied.
// @Tags         gift-codes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateRequest  true  "Slots, amount per slot, optional custom code and comment"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  api.ErrorResponse
// @Router       /gift-codes/create [post]
func (h *Handler) Create(c *gin.Context) {
	creatorID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gc, err := h.svc.Create(c.Request.Context(), creatorID, req)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInsufficientBalance):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient balance"})
		case errors.Is(err, ErrCodeTaken), errors.Is(err, ErrInvalidCustomCode):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Errorf("create gift code: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create gift code"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Gift code created successfully",
		"giftCode": gc,
	})
}

// Claim godoc
// @Summary      Claim a gift code
// @Tags         gift-codes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      ClaimRequest  true  "The code to claim"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /gift-codes/claim [post]
func (h *Handler) Claim(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gc, claim, err := h.svc.Claim(c.Request.Context(), userID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, ErrCodeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Gift code not found"})
		case errors.Is(err, ErrCodeInactive), errors.Is(err, ErrCodeExhausted), errors.Is(err, ErrAlreadyClaimed):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Errorf("claim gift code: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to claim gift code"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Gift code claimed successfully",
		"amount":  claim.Amount,
		"code":    gc.Code,
	})
}

// Stop godoc
// @Summary      Stop a gift code and refund unclaimed slots
// @Tags         gift-codes
// @Security     BearerAuth
// @Produce      json
// @Param        code  path      string  true  "Gift code"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  api.ErrorResponse
// @Failure      403   {object}  api.ErrorResponse
// @Failure      404   {object}  api.ErrorResponse
// @Router       /gift-codes/{code}/stop [post]
func (h *Handler) Stop(c *gin.Context) {
	creatorID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	refund, err := h.svc.Stop(c.Request.Context(), creatorID, c.Param("code"))
	if err != nil {
		switch {
		case errors.Is(err, ErrCodeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Gift code not found"})
		case errors.Is(err, ErrNotCodeOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, ErrCodeInactive):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Errorf("stop gift code: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to stop gift code"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Gift code stopped",
		"refund":  refund,
	})
}

// ListMine godoc
// @Summary      List the caller's gift codes
// @Tags         gift-codes
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  GiftCode
// @Router       /gift-codes/my-codes [get]
func (h *Handler) ListMine(c *gin.Context) {
	creatorID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	codes, err := h.svc.ListMine(c.Request.Context(), creatorID)
	if err != nil {
		logger.Errorf("list gift codes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch gift codes"})
		return
	}

	c.JSON(http.StatusOK, codes)
}

// ListClaims godoc
// @Summary      List claims of one of the caller's gift codes
// @Tags         gift-codes
// @Security     BearerAuth
// @Produce      json
// @Param        code  path      string  true  "Gift code"
// @Success      200   {array}   ClaimWithUser
// @Failure      403   {object}  api.ErrorResponse
// @Failure      404   {object}  api.ErrorResponse
// @Router       /gift-codes/{code}/claims [get]
func (h *Handler) ListClaims(c *gin.Context) {
	creatorID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	claims, err := h.svc.ListClaims(c.Request.Context(), creatorID, c.Param("code"))
	if err != nil {
		switch {
		case errors.Is(err, ErrCodeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Gift code not found"})
		case errors.Is(err, ErrNotCodeOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logger.Errorf("list gift code claims: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch claims"})
		}
		return
	}

	c.JSON(http.StatusOK, claims)
}
