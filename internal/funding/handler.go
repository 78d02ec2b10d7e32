package funding

import (
	"context"
	"errors"
	"net/http"
	"strings"

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

// AddFund godoc
// @Summary      Submit a deposit request
// @Description  Records a pending fund request with the bank UTR; balance is credited only on admin approval.
// @Tags         transactions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      AddFundRequest  true  "Amount and 12-digit UTR"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  api.ErrorResponse
// @Router       /transactions/add-fund [post]
func (h *Handler) AddFund(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req AddFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fundReq, err := h.svc.RequestDeposit(c.Request.Context(), userID, req)
	if err != nil {
		if strings.HasPrefix(err.Error(), "minimum deposit") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Errorf("add fund: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit fund request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Fund request submitted successfully",
		"request": fundReq,
	})
}

// Withdraw godoc
// @Summary      Submit a withdrawal request
// @Description  Immediately holds the full amount; the fee-adjusted payout goes to the UPI id on approval.
// @Tags         transactions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      WithdrawFundsRequest  true  "Amount and UPI id"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  api.ErrorResponse
// @Router       /transactions/withdraw [post]
func (h *Handler) Withdraw(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req WithdrawFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	withdrawReq, newBalance, err := h.svc.RequestWithdraw(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInsufficientBalance):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient balance"})
		case strings.HasPrefix(err.Error(), "minimum withdrawal"):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Errorf("withdraw: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Withdrawal failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Withdrawal request submitted successfully",
		"request":    withdrawReq,
		"newBalance": newBalance,
	})
}

// MyFundRequests godoc
// @Summary      List the caller's fund requests
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  FundRequest
// @Router       /transactions/fund-requests [get]
func (h *Handler) MyFundRequests(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	reqs, err := h.svc.ListUserFundRequests(c.Request.Context(), userID)
	if err != nil {
		logger.Errorf("list own fund requests: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch fund requests"})
		return
	}

	c.JSON(http.StatusOK, reqs)
}

// MyWithdrawRequests godoc
// @Summary      List the caller's withdraw requests
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  WithdrawRequest
// @Router       /transactions/withdraw-requests [get]
func (h *Handler) MyWithdrawRequests(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	reqs, err := h.svc.ListUserWithdrawRequests(c.Request.Context(), userID)
	if err != nil {
		logger.Errorf("list own withdraw requests: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch withdraw requests"})
		return
	}

	c.JSON(http.StatusOK, reqs)
}

// ListFundRequests godoc
// @Summary      List all fund requests
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  FundRequest
// @Router       /admin/fund-requests [get]
func (h *Handler) ListFundRequests(c *gin.Context) {
	reqs, err := h.svc.ListFundRequests(c.Request.Context())
	if err != nil {
		logger.Errorf("list fund requests: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch fund requests"})
		return
	}

	c.JSON(http.StatusOK, reqs)
}

// ListWithdrawRequests godoc
// @Summary      List all withdraw requests
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  WithdrawRequest
// @Router       /admin/withdraw-requests [get]
func (h *Handler) ListWithdrawRequests(c *gin.Context) {
	reqs, err := h.svc.ListWithdrawRequests(c.Request.Context())
	if err != nil {
		logger.Errorf("list withdraw requests: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch withdraw requests"})
		return
	}

	c.JSON(http.StatusOK, reqs)
}

// ApproveFund godoc
// @Summary      Approve a fund request
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Request id"
// @Success      200  {object}  api.MessageResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ErrorResponse
// @Router       /admin/approve-fund/{id} [post]
func (h *Handler) ApproveFund(c *gin.Context) {
	h.decide(c, h.svc.ApproveDeposit)
}

// DeclineFund godoc
// @Summary      Decline a fund request
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Request id"
// @Success      200  {object}  api.MessageResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ErrorResponse
// @Router       /admin/decline-fund/{id} [post]
func (h *Handler) DeclineFund(c *gin.Context) {
	h.decide(c, h.svc.DeclineDeposit)
}

// ApproveWithdraw godoc
// @Summary      Approve a withdraw request
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Request id"
// @Success      200  {object}  api.MessageResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ErrorResponse
// @Router       /admin/approve-withdraw/{id} [post]
func (h *Handler) ApproveWithdraw(c *gin.Context) {
	h.decide(c, h.svc.ApproveWithdraw)
}

// DeclineWithdraw godoc
// @Summary      Decline a withdraw request and refund the hold
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Request id"
// @Success      200  {object}  api.MessageResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ErrorResponse
// @Router       /admin/decline-withdraw/{id} [post]
func (h *Handler) DeclineWithdraw(c *gin.Context) {
	h.decide(c, h.svc.DeclineWithdraw)
}

func (h *Handler) decide(c *gin.Context, decision func(ctx context.Context, id string) error) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request id required"})
		return
	}

	if err := decision(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrRequestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		case errors.Is(err, ErrAlreadyDecided):
			c.JSON(http.StatusConflict, gin.H{"error": "Request already decided"})
		default:
			logger.Errorf("decide request %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
