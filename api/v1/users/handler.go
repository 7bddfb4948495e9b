package users

import (
	"errors"
	"strconv"

	"go_attendance/internal/auth"
	"go_attendance/internal/httpx"
	"go_attendance/internal/model"
	"go_attendance/internal/user"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateRequest represents the create-user request body
type CreateRequest struct {
	EmployeeID string `json:"employeeId" binding:"required"`
	Username   string `json:"username" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	FirstName  string `json:"firstName" binding:"required"`
	LastName   string `json:"lastName" binding:"required"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Position   string `json:"position"`
	HireDate   string `json:"hireDate"`
}

// UpdateRequest represents the update-user request body. Absent fields are
// left untouched.
type UpdateRequest struct {
	EmployeeID *string `json:"employeeId"`
	Username   *string `json:"username"`
	Email      *string `json:"email"`
	Password   *string `json:"password"`
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Role       *string `json:"role"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
	HireDate   *string `json:"hireDate"`
	IsActive   *bool   `json:"isActive"`
}

// Handler handles user management endpoints
type Handler struct {
	users *user.Service
}

// NewHandler creates a users handler
func NewHandler(users *user.Service) *Handler {
	return &Handler{users: users}
}

// List handles GET /api/v1/users
func (h *Handler) List(c *gin.Context) {
	list, err := h.users.List(c.Request.Context())
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
		return
	}
	httpx.OK(c, gin.H{"users": list, "total": len(list)})
}

// Get handles GET /api/v1/users/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid user id"))
		return
	}

	u, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.FailErr(c, httpx.ErrNotFound("user not found"))
			return
		}
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
		return
	}
	httpx.OK(c, gin.H{"user": u})
}

// Create handles POST /api/v1/users
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing("employee id, username, email, password and name are required"))
		return
	}

	if req.Role == "" {
		req.Role = model.RoleEmployee
	}
	if req.Role != model.RoleAdmin && req.Role != model.RoleEmployee {
		httpx.FailErr(c, httpx.ErrParamInvalid("role must be admin or employee"))
		return
	}

	u, err := h.users.Create(c.Request.Context(), user.CreateParams{
		EmployeeID: req.EmployeeID,
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Role:       req.Role,
		Department: req.Department,
		Position:   req.Position,
		HireDate:   req.HireDate,
	})
	if err != nil {
		var conflict *user.ConflictError
		switch {
		case errors.As(err, &conflict):
			httpx.FailErr(c, httpx.ErrAlreadyExists(conflict.Message))
		case errors.Is(err, auth.ErrPasswordTooShort):
			httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
		default:
			httpx.FailErr(c, httpx.ErrDatabaseError("", err))
		}
		return
	}

	httpx.Created(c, "user created successfully", gin.H{"user": u})
}

// Update handles PUT /api/v1/users/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid user id"))
		return
	}

	// Plain employees can only edit their own profile
	if c.GetString("role") != model.RoleAdmin && id != c.GetInt("uid") {
		httpx.FailErr(c, httpx.ErrForbidden("cannot edit another user's profile"))
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
		return
	}

	if req.Role != nil && *req.Role != model.RoleAdmin && *req.Role != model.RoleEmployee {
		httpx.FailErr(c, httpx.ErrParamInvalid("role must be admin or employee"))
		return
	}

	err = h.users.Update(c.Request.Context(), id, c.GetInt("uid"), c.GetString("role"), user.UpdateParams{
		EmployeeID: req.EmployeeID,
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Role:       req.Role,
		Department: req.Department,
		Position:   req.Position,
		HireDate:   req.HireDate,
		IsActive:   req.IsActive,
	})
	if err != nil {
		var conflict *user.ConflictError
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			httpx.FailErr(c, httpx.ErrNotFound("user not found"))
		case errors.Is(err, user.ErrNoFields):
			httpx.FailErr(c, httpx.ErrParamMissing("no fields to update"))
		case errors.Is(err, user.ErrSelfDeactivate):
			httpx.FailErr(c, httpx.ErrStateConflict("cannot deactivate your own account"))
		case errors.As(err, &conflict):
			httpx.FailErr(c, httpx.ErrAlreadyExists(conflict.Message))
		case errors.Is(err, auth.ErrPasswordTooShort):
			httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
		default:
			httpx.FailErr(c, httpx.ErrDatabaseError("", err))
		}
		return
	}

	httpx.OKMsg(c, "user updated successfully", nil)
}

// Delete handles DELETE /api/v1/users/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid user id"))
		return
	}

	err = h.users.Delete(c.Request.Context(), id, c.GetInt("uid"))
	switch {
	case err == nil:
		httpx.OKMsg(c, "user deleted successfully", nil)
	case errors.Is(err, gorm.ErrRecordNotFound):
		httpx.FailErr(c, httpx.ErrNotFound("user not found"))
	case errors.Is(err, user.ErrSelfDelete):
		httpx.FailErr(c, httpx.ErrStateConflict("cannot delete your own account"))
	default:
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
	}
}
