package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"estimapp/internal/domain"
	"estimapp/internal/service"
)

// Codigo tipado para derivar el login hacia el flujo OTP sin comparar
// mensajes de error.
const codeNeedsVerification = "NEEDS_VERIFICATION"

// AuthHandler mantiene dependencias para los endpoints de autenticacion.
type AuthHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
	jwtServ  *service.JWTService
}

// NewAuthHandler crea una instancia de AuthHandler con dependencias necesarias.
func NewAuthHandler(logger *zap.Logger, userServ *service.UserService, jwtServ *service.JWTService) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		userServ: userServ,
		jwtServ:  jwtServ,
	}
}

// Login maneja POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.userServ.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		case errors.Is(err, service.ErrEmailNotVerified):
			c.JSON(http.StatusForbidden, gin.H{"error": "email not verified", "code": codeNeedsVerification})
			return
		default:
			h.logger.Error("login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not login"})
			return
		}
	}

	h.respondWithSession(c, user)
}

// Signup maneja POST /auth/start-signup (pre-registro del estimador).
func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		FirstName string `json:"firstName" binding:"required"`
		LastName  string `json:"lastName" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Phone     string `json:"phone"`
		Role      string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid signup request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	_, err := h.userServ.StartSignup(c.Request.Context(), service.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      domain.Role(req.Role),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoleInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": "role not allowed"})
			return
		case errors.Is(err, service.ErrEmailSendFailure):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "email delivery unavailable"})
			return
		case errors.Is(err, service.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		default:
			h.logger.Error("signup failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start signup"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "verification code sent"})
}

// SendOTP maneja POST /auth/send-otp.
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid otp request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	_, err := h.userServ.RequestOTP(c.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		case errors.Is(err, service.ErrEmailSendFailure):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "email delivery unavailable"})
			return
		case errors.Is(err, service.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		default:
			h.logger.Error("request otp failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not request otp"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "verification code sent"})
}

// VerifyOTP maneja POST /auth/verify-signup. Un codigo valido emite tokens.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		OTP   string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid otp verify request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.userServ.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		case errors.Is(err, service.ErrOTPNotRequested),
			errors.Is(err, service.ErrOTPExpired),
			errors.Is(err, service.ErrOTPInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		default:
			h.logger.Error("verify otp failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not verify otp"})
			return
		}
	}

	h.respondWithSession(c, user)
}

// CompleteSignup maneja POST /auth/complete-signup.
func (h *AuthHandler) CompleteSignup(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid complete signup request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.userServ.CompleteSignup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		case errors.Is(err, service.ErrEmailNotVerified):
			c.JSON(http.StatusForbidden, gin.H{"error": "email not verified", "code": codeNeedsVerification})
			return
		case errors.Is(err, service.ErrPasswordTooShort):
			c.JSON(http.StatusBadRequest, gin.H{"error": "password too short"})
			return
		default:
			h.logger.Error("complete signup failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete signup"})
			return
		}
	}

	h.respondWithSession(c, user)
}

// OAuthLogin maneja POST /auth/oauth.
func (h *AuthHandler) OAuthLogin(c *gin.Context) {
	var req struct {
		Provider  string `json:"provider" binding:"required"`
		Subject   string `json:"subject" binding:"required"`
		Email     string `json:"email" binding:"email"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid oauth request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.userServ.UpsertOAuthUser(c.Request.Context(), service.OAuthInput{
		Provider:  req.Provider,
		Subject:   req.Subject,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		if errors.Is(err, service.ErrOAuthInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth data"})
			return
		}
		h.logger.Error("oauth login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete oauth"})
		return
	}

	h.respondWithSession(c, user)
}

// RefreshToken maneja POST /auth/refresh.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid refresh request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if h.jwtServ == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt not configured"})
		return
	}
	tokens, err := h.jwtServ.RefreshPair(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// Logout maneja POST /auth/logout: revoca el refresh token entregado.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid logout request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if h.jwtServ == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt not configured"})
		return
	}
	_ = h.jwtServ.RevokeRefresh(req.RefreshToken)
	c.Status(http.StatusNoContent)
}

// respondWithSession entrega la forma documentada del contrato:
// access_token y user al nivel superior.
func (h *AuthHandler) respondWithSession(c *gin.Context, user domain.User) {
	if h.jwtServ == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt not configured"})
		return
	}
	tokens, err := h.jwtServ.GeneratePair(user)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue tokens"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_in":    tokens.ExpiresIn,
		"user":          user,
	})
}
