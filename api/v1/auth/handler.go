package auth

import (
	"errors"
	"time"

	"go_attendance/internal/auth"
	"go_attendance/internal/config"
	"go_attendance/internal/httpx"
	"go_attendance/internal/model"
	"go_attendance/internal/ratelimit"
	"go_attendance/internal/user"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LoginRequest represents the login request body. Username matches either the
// username or the email of an active account.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents login response data
type LoginResponse struct {
	Token    string      `json:"token"`
	ExpireAt string      `json:"expireAt"`
	User     *model.User `json:"user"`
}

// ChangePasswordRequest represents the change-password request body
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// Handler handles authentication endpoints
type Handler struct {
	users    *user.Service
	cfg      *config.Config
	limiter  *ratelimit.Limiter
	denylist *auth.Denylist
}

// NewHandler creates an auth handler
func NewHandler(users *user.Service, cfg *config.Config, limiter *ratelimit.Limiter, denylist *auth.Denylist) *Handler {
	return &Handler{users: users, cfg: cfg, limiter: limiter, denylist: denylist}
}

// Login handles POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	// Rate limit before touching the credential store
	if !h.limiter.Allow(c.Request.Context(), c.ClientIP()) {
		httpx.FailErr(c, httpx.ErrRateLimited("too many login attempts, please try again later"))
		return
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing("username and password are required"))
		return
	}

	u, err := h.users.FindByIdentifier(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same error for unknown user and wrong password
			httpx.FailErr(c, httpx.ErrUnauthorized("invalid credentials"))
			return
		}
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
		return
	}

	if err := auth.ComparePassword(u.PasswordHash, req.Password); err != nil {
		httpx.FailErr(c, httpx.ErrUnauthorized("invalid credentials"))
		return
	}

	expireAt := time.Now().Add(time.Duration(h.cfg.JWT.ExpireMinutes) * time.Minute)
	token, err := auth.GenerateToken(u.ID, u.Username, u.Role, u.EmployeeID, expireAt, h.cfg.JWT.Issuer)
	if err != nil {
		httpx.FailErr(c, httpx.ErrInternalError("failed to generate token", err))
		return
	}

	httpx.OKMsg(c, "login successful", LoginResponse{
		Token:    token,
		ExpireAt: expireAt.Format(time.RFC3339),
		User:     u,
	})
}

// Logout handles POST /api/v1/auth/logout. The token's jti is denylisted
// until its natural expiry.
func (h *Handler) Logout(c *gin.Context) {
	jti := c.GetString("jti")
	expires, _ := c.Get("token_expires")
	expireAt, _ := expires.(time.Time)

	if err := h.denylist.Revoke(c.Request.Context(), jti, expireAt); err != nil {
		httpx.FailErr(c, httpx.ErrInternalError("could not log out", err))
		return
	}

	httpx.OKMsg(c, "logout successful", nil)
}

// Me handles GET /api/v1/auth/me
func (h *Handler) Me(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), c.GetInt("uid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.FailErr(c, httpx.ErrNotFound("user not found"))
			return
		}
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
		return
	}

	if !u.IsActive {
		httpx.FailErr(c, httpx.ErrNotFound("user not found"))
		return
	}

	httpx.OK(c, gin.H{"user": u})
}

// ChangePassword handles POST /api/v1/auth/change-password
func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing("current password and new password are required"))
		return
	}

	err := h.users.ChangePassword(c.Request.Context(), c.GetInt("uid"), req.CurrentPassword, req.NewPassword)
	switch {
	case err == nil:
		httpx.OKMsg(c, "password changed successfully", nil)
	case errors.Is(err, user.ErrWrongPassword):
		httpx.FailErr(c, httpx.ErrUnauthorized("current password is incorrect"))
	case errors.Is(err, auth.ErrPasswordTooShort):
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
	case errors.Is(err, gorm.ErrRecordNotFound):
		httpx.FailErr(c, httpx.ErrNotFound("user not found"))
	default:
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
	}
}
