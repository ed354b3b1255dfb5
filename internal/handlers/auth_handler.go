package handlers

import (
	"net/http"

	"gymflow/internal/audit"
	"gymflow/internal/middleware"
	"gymflow/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
	audit       *audit.Logger
}

func NewAuthHandler(authService services.AuthService, auditLog *audit.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, audit: auditLog}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input services.LoginInput
	if !bind(c, &input) {
		return
	}
	result, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "Login successful", result, nil)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var input services.SignupInput
	if !bind(c, &input) {
		return
	}
	result, err := h.authService.Signup(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusCreated, "Account created successfully", result, nil)
}

func (h *AuthHandler) Verify(c *gin.Context) {
	user, err := h.authService.Verify(c.Request.Context(), middleware.Claims(c))
	if err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "Token is valid", nil, gin.H{"user": user})
}

type sessionRequest struct {
	SessionID string `json:"sessionId"`
}

// sessionID reads the session id from the query string or a JSON body.
func sessionID(c *gin.Context) (string, bool) {
	if id := c.Query("sessionId"); id != "" {
		return id, true
	}
	if c.Request.ContentLength == 0 {
		return "", true
	}
	var req sessionRequest
	if !bind(c, &req) {
		return "", false
	}
	return req.SessionID, true
}

func (h *AuthHandler) Logout(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if err := h.authService.Logout(c.Request.Context(), middleware.Claims(c), id); err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "Logged out successfully", nil, nil)
}

func (h *AuthHandler) Session(c *gin.Context) {
	sess, err := h.authService.GetSession(c.Request.Context(), middleware.Claims(c), c.Query("sessionId"))
	if err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "", sess, nil)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if !bind(c, &req) {
		return
	}
	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err, h.audit)
		return
	}
	respond(c, http.StatusOK, "Password reset instructions sent to your email", gin.H{"email": req.Email}, nil)
}
