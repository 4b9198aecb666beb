package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"restman-system/internal/gateway/clients"
	"restman-system/internal/gateway/middleware"
	"restman-system/internal/session"
	"restman-system/internal/utils"
)

type AuthHTTPHandler struct {
	backend    *clients.BackendClient
	sessions   session.Store
	secret     []byte
	sessionTTL time.Duration
}

func NewAuthHTTPHandler(backend *clients.BackendClient, sessions session.Store, secret []byte, sessionTTL time.Duration) *AuthHTTPHandler {
	return &AuthHTTPHandler{
		backend:    backend,
		sessions:   sessions,
		secret:     secret,
		sessionTTL: sessionTTL,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SignupRequest struct {
	FullName        string `json:"fullName" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	Phone           string `json:"phone" binding:"required"`
	HotelName       string `json:"hotelName" binding:"required"`
	Address         string `json:"address" binding:"required"`
	Role            string `json:"role" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type UpdateProfileRequest struct {
	FullName  string `json:"fullName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	HotelName string `json:"hotelName,omitempty"`
	Address   string `json:"address,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// issueSession stores the upstream credential and hands the client a
// gateway token referencing it.
func (h *AuthHTTPHandler) issueSession(c *gin.Context, resp *clients.AuthResponse, user []byte) (gin.H, bool) {
	sess := session.New(resp.Token, user)
	if err := h.sessions.Create(c.Request.Context(), sess); err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to create session"))
		return nil, false
	}

	token, exp, err := utils.GenerateSessionToken(h.secret, sess.ID, h.sessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to create session"))
		return nil, false
	}

	return gin.H{
		"token":      token,
		"expires_at": exp,
		"user":       rawOrNil(user),
	}, true
}

func (h *AuthHTTPHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	resp, err := h.backend.Login(ctx, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	if !resp.Success {
		c.JSON(http.StatusUnauthorized, errorResponse(messageOr(resp.Message, "Invalid credentials")))
		return
	}

	data, ok := h.issueSession(c, resp, resp.User)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, successResponse(messageOr(resp.Message, "Login successful"), data))
}

func (h *AuthHTTPHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, errorResponse("Passwords do not match"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	resp, err := h.backend.Signup(ctx, clients.SignupPayload{
		FullName:  req.FullName,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		HotelName: req.HotelName,
		Address:   req.Address,
		Role:      req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if !resp.Success {
		c.JSON(http.StatusBadRequest, errorResponse(messageOr(resp.Message, "Signup failed")))
		return
	}

	// Signup responses carry the profile under "data" rather than "user".
	data, ok := h.issueSession(c, resp, resp.Data)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, successResponse(messageOr(resp.Message, "Account created successfully"), data))
}

func (h *AuthHTTPHandler) Logout(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}

	if err := h.sessions.Delete(c.Request.Context(), sess.ID); err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to clear session"))
		return
	}
	c.JSON(http.StatusOK, successResponse("Logged out successfully", nil))
}

func (h *AuthHTTPHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	resp, err := h.backend.ForgotPassword(ctx, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	if !resp.Success {
		c.JSON(http.StatusBadRequest, errorResponse(messageOr(resp.Message, "Could not start password reset")))
		return
	}

	// Deliberately vague so the endpoint cannot be used to probe accounts.
	c.JSON(http.StatusOK, successResponse("If an account exists with this email, a reset link will be sent.", nil))
}

func (h *AuthHTTPHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	resp, err := h.backend.ResetPassword(ctx, req.Token, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(messageOr(resp.Message, "Password reset successfully"), nil))
}

func (h *AuthHTTPHandler) GetProfile(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	profile, err := h.backend.Profile(ctx, sess.BackendToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Profile retrieved successfully", profile))
}

func (h *AuthHTTPHandler) UpdateProfile(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	profile, err := h.backend.UpdateProfile(ctx, sess.BackendToken, clients.ProfilePayload{
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     req.Phone,
		HotelName: req.HotelName,
		Address:   req.Address,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Profile updated successfully", profile))
}

func (h *AuthHTTPHandler) ChangePassword(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, errorResponse("Passwords do not match"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	resp, err := h.backend.ChangePassword(ctx, sess.BackendToken, req.CurrentPassword, req.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}
	if !resp.Success {
		c.JSON(http.StatusBadRequest, errorResponse(messageOr(resp.Message, "Failed to change password")))
		return
	}

	// The backend rotates the credential on password change; keep the
	// session pointing at the fresh one.
	if resp.Token != "" {
		sess.BackendToken = resp.Token
		if err := h.sessions.Update(c.Request.Context(), sess); err != nil {
			c.JSON(http.StatusInternalServerError, errorResponse("Failed to update session"))
			return
		}
		middleware.SetSession(c, sess)
	}

	c.JSON(http.StatusOK, successResponse(messageOr(resp.Message, "Password changed successfully"), nil))
}

func messageOr(message, fallback string) string {
	if message != "" {
		return message
	}
	return fallback
}

func rawOrNil(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return json.RawMessage(raw)
}
