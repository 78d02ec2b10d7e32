package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gamenter95/weoo/internal/auth"
	"github.com/Gamenter95/weoo/internal/logger"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// List godoc
// @Summary      List notifications for the current user
// @Tags         notifications
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Notification
// @Failure      401  {object}  api.ErrorResponse
// @Router       /notifications [get]
func (h *Handler) List(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	notifs, err := h.repo.ListForUser(c.Request.Context(), userID)
	if err != nil {
		logger.Errorf("list notifications: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, notifs)
}
