package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gamenter95/weoo/internal/auth"
	"github.com/Gamenter95/weoo/internal/logger"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Register godoc
// @Summary      Start registration
// @Description  Validates username/phone, hashes the password and opens a short-lived registration session.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "Basic account info"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  api.ErrorResponse
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.svc.StartRegistration(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrPhoneTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Errorf("start registration: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start registration"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"message":           "Registration data saved",
		"registrationToken": token,
	})
}

// SetupWWID godoc
// @Summary      Registration step 2: choose WWID
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      SetupWWIDRequest  true  "Registration token and handle"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  api.ErrorResponse
// @Router       /auth/setup-wwid [post]
func (h *Handler) SetupWWID(c *gin.Context) {
	var req SetupWWIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wwid, err := h.svc.SetupWWID(c.Request.Context(), req.Token, req.WWID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionExpired):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":          "Registration session expired. Please start registration again.",
				"sessionExpired": true,
			})
		case errors.Is(err, ErrInvalidWWID), errors.Is(err, ErrWWIDTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Errorf("setup wwid: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set WWID"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "wwid": wwid})
}

// SetupSPIN godoc
// @Summary      Registration step 3: set S-PIN and create the account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      SetupSPINRequest  true  "Registration token and 4-digit S-PIN"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  api.ErrorResponse
// @Router       /auth/setup-spin [post]
func (h *Handler) SetupSPIN(c *gin.Context) {
	var req SetupSPINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.svc.CompleteRegistration(c.Request.Context(), req.Token, req.SPIN)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionExpired):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":          "Registration session expired. Please start registration again.",
				"sessionExpired": true,
			})
		case errors.Is(err, ErrInvalidSPINFormat):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Errorf("complete registration: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Account created successfully",
		"user": gin.H{
			"id":       u.ID,
			"username": u.Username,
			"wwid":     u.WWID,
		},
	})
}

// Login godoc
// @Summary      Login phase 1: password
// @Description  Returns a pin-phase token; the caller must verify the S-PIN next.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Username or phone plus password"
// @Success      200      {object}  map[string]interface{}
// @Failure      401      {object}  api.ErrorResponse
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, u, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		logger.Errorf("login: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":                true,
		"requiresPinVerification": true,
		"username":               u.Username,
		"pinToken":               token,
	})
}

// VerifyPin godoc
// @Summary      Login phase 2: S-PIN
// @Tags         auth
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      VerifyPinRequest  true  "4-digit S-PIN"
// @Success      200      {object}  map[string]interface{}
// @Failure      401      {object}  api.ErrorResponse
// @Router       /auth/verify-pin [post]
func (h *Handler) VerifyPin(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":          "Login session expired. Please login again.",
			"sessionExpired": true,
		})
		return
	}

	var req VerifyPinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, u, err := h.svc.VerifyPin(c.Request.Context(), userID, req.SPIN)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSPIN):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid S-PIN"})
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		default:
			logger.Errorf("verify pin: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "PIN verification failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"accessToken": token,
		"user": gin.H{
			"id":       u.ID,
			"username": u.Username,
			"wwid":     u.WWID,
			"balance":  u.Balance,
		},
	})
}

// ForgotPassword godoc
// @Summary      Recover a session by proving the S-PIN
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      ForgotPasswordRequest  true  "Identifier and S-PIN"
// @Success      200      {object}  map[string]interface{}
// @Failure      401      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /auth/forgot-password [post]
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, u, err := h.svc.RecoverBySPIN(c.Request.Context(), req.UsernameOrPhone, req.SPIN)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, ErrInvalidSPIN):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid S-PIN"})
		default:
			logger.Errorf("forgot password: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Password recovery failed"})
		}
		return
	}

	c.JSON(http.StatusOK, recoveryResponse(token, u))
}

// ForgotSPIN godoc
// @Summary      Recover a session by proving the password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      ForgotSPINRequest  true  "Identifier and password"
// @Success      200      {object}  map[string]interface{}
// @Failure      401      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /auth/forgot-spin [post]
func (h *Handler) ForgotSPIN(c *gin.Context) {
	var req ForgotSPINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, u, err := h.svc.RecoverByPassword(c.Request.Context(), req.UsernameOrPhone, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, ErrInvalidPassword):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		default:
			logger.Errorf("forgot spin: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "S-PIN recovery failed"})
		}
		return
	}

	c.JSON(http.StatusOK, recoveryResponse(token, u))
}

func recoveryResponse(token string, u *User) gin.H {
	return gin.H{
		"success":     true,
		"accessToken": token,
		"user": gin.H{
			"id":       u.ID,
			"username": u.Username,
			"wwid":     u.WWID,
			"balance":  u.Balance,
		},
	}
}

// GetMe godoc
// @Summary      Current user profile
// @Tags         user
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  User
// @Failure      401  {object}  api.ErrorResponse
// @Router       /me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	u, err := h.svc.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, u)
}

// UpdateProfile godoc
// @Summary      Update a profile field
// @Description  phone/password/wwid changes are verified by S-PIN, S-PIN changes by password. WWID changes cost ₹10.
// @Tags         user
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      UpdateProfileRequest  true  "Field, new value and verifying secret"
// @Success      200      {object}  api.MessageResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /profile/update [post]
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.svc.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSPIN):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid S-PIN"})
		case errors.Is(err, ErrInvalidPassword):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		case errors.Is(err, ErrInsufficientBalance):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient balance. Need ₹10 to change WWID."})
		case errors.Is(err, ErrPhoneTaken), errors.Is(err, ErrWWIDTaken),
			errors.Is(err, ErrInvalidWWID), errors.Is(err, ErrInvalidSPINFormat), errors.Is(err, ErrUnknownField):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			logger.Errorf("update profile: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg})
}

// ListUsers godoc
// @Summary      List all users
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   User
// @Failure      403  {object}  api.ErrorResponse
// @Router       /admin/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		logger.Errorf("list users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, users)
}
