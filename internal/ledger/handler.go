package ledger

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Gamenter95/weoo/internal/auth"
	"github.com/Gamenter95/weoo/internal/logger"
	"github.com/Gamenter95/weoo/internal/user"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// PayToUser godoc
// @Summary      Pay another user
// @Description  Transfers the amount to the recipient WWID; the S-PIN is re-proved per payment.
// @Tags         transactions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      TransferRequest  true  "Recipient WWID, amount and S-PIN"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /transactions/pay-to-user [post]
func (h *Handler) PayToUser(c *gin.Context) {
	senderID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.svc.Transfer(c.Request.Context(), senderID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrRecipientNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipient not found"})
		case errors.Is(err, ErrSelfTransfer):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot pay to yourself"})
		case errors.Is(err, ErrInvalidSPIN):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid S-PIN"})
		case errors.Is(err, ErrInsufficientBalance):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient balance"})
		case errors.Is(err, ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Errorf("pay to user: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Payment successful",
		"transaction": result.Transaction,
		"newBalance":  result.NewBalance,
	})
}

// ListTransactions godoc
// @Summary      Transaction history
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query     int  false  "Page size"
// @Param        offset  query     int  false  "Offset"
// @Success      200     {array}   TransactionWithParties
// @Failure      401     {object}  api.ErrorResponse
// @Router       /transactions [get]
func (h *Handler) ListTransactions(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txs, err := h.svc.History(c.Request.Context(), userID, limit, offset)
	if err != nil {
		logger.Errorf("list transactions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	c.JSON(http.StatusOK, txs)
}

// AdjustBalance godoc
// @Summary      Manually adjust a user balance
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      user.AdjustBalanceRequest  true  "User id and signed delta"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /admin/update-balance [post]
func (h *Handler) AdjustBalance(c *gin.Context) {
	var req user.AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	delta := decimal.NewFromFloat(req.Change).Round(2)

	newBalance, err := h.svc.AdminAdjust(c.Request.Context(), req.UserID, delta)
	if err != nil {
		switch {
		case errors.Is(err, ErrAccountNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, ErrInsufficientBalance):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Adjustment would make balance negative"})
		default:
			logger.Errorf("adjust balance: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update balance"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "newBalance": newBalance})
}
