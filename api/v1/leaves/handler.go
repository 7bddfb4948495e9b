package leaves

import (
	"errors"
	"strconv"
	"time"

	"go_attendance/internal/httpx"
	"go_attendance/internal/leave"
	"go_attendance/internal/model"

	"github.com/gin-gonic/gin"
)

// CreateRequest represents the create-leave request body
type CreateRequest struct {
	LeaveType string `json:"leaveType" binding:"required"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
	Reason    string `json:"reason"`
}

// UpdateRequest represents the update-leave request body
type UpdateRequest struct {
	LeaveType *string `json:"leaveType"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Reason    *string `json:"reason"`
}

// StatusRequest represents the approve/reject request body
type StatusRequest struct {
	Status          string `json:"status" binding:"required"`
	RejectionReason string `json:"rejectionReason"`
}

// Handler handles leave request endpoints
type Handler struct {
	svc *leave.Service
}

// NewHandler creates a leaves handler
func NewHandler(svc *leave.Service) *Handler {
	return &Handler{svc: svc}
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// Create handles POST /api/v1/leaves
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing("leave type, start date and end date are required"))
		return
	}
	if !validDate(req.StartDate) || !validDate(req.EndDate) {
		httpx.FailErr(c, httpx.ErrParamInvalid("dates must be in YYYY-MM-DD format"))
		return
	}

	request, err := h.svc.Create(c.Request.Context(), leave.CreateParams{
		UserID:    c.GetInt("uid"),
		LeaveType: req.LeaveType,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
	})
	switch {
	case err == nil:
		httpx.Created(c, "leave request submitted", gin.H{"leave": request})
	case errors.Is(err, leave.ErrInvalidType),
		errors.Is(err, leave.ErrStartAfterEnd),
		errors.Is(err, leave.ErrStartInPast):
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
	case errors.Is(err, leave.ErrOverlap):
		httpx.FailErr(c, httpx.ErrStateConflict(err.Error()))
	default:
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
	}
}

// List handles GET /api/v1/leaves. Non-admin callers only see their own
// requests regardless of the userId filter.
func (h *Handler) List(c *gin.Context) {
	params := leave.ListParams{
		Status:     c.Query("status"),
		StartDate:  c.Query("startDate"),
		EndDate:    c.Query("endDate"),
		CallerID:   c.GetInt("uid"),
		CallerRole: c.GetString("role"),
	}
	if v := c.Query("userId"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid userId filter"))
			return
		}
		params.UserID = id
	}

	rows, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
		return
	}
	httpx.OK(c, gin.H{"leaves": rows, "total": len(rows)})
}

// SetStatus handles PUT /api/v1/leaves/:id/status. Only pending requests can
// change status, and the transition is recorded against the calling admin.
func (h *Handler) SetStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid leave id"))
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing("status is required"))
		return
	}

	request, err := h.svc.SetStatus(c.Request.Context(), id, c.GetInt("uid"), req.Status, req.RejectionReason)
	switch {
	case err == nil:
		httpx.OKMsg(c, "leave request "+request.Status, gin.H{"leave": request})
	case errors.Is(err, leave.ErrInvalidStatus), errors.Is(err, leave.ErrReasonRequired):
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
	case errors.Is(err, leave.ErrNotPending):
		httpx.FailErr(c, httpx.ErrNotFound(err.Error()))
	default:
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
	}
}

// Update handles PUT /api/v1/leaves/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid leave id"))
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
		return
	}
	if req.StartDate != nil && !validDate(*req.StartDate) ||
		req.EndDate != nil && !validDate(*req.EndDate) {
		httpx.FailErr(c, httpx.ErrParamInvalid("dates must be in YYYY-MM-DD format"))
		return
	}

	err = h.svc.Update(c.Request.Context(), id, c.GetInt("uid"), c.GetString("role"), leave.UpdateParams{
		LeaveType: req.LeaveType,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
	})
	switch {
	case err == nil:
		httpx.OKMsg(c, "leave request updated successfully", nil)
	case errors.Is(err, leave.ErrNotFound), errors.Is(err, leave.ErrNotPending):
		httpx.FailErr(c, httpx.ErrNotFound("pending leave request not found"))
	case errors.Is(err, leave.ErrInvalidType),
		errors.Is(err, leave.ErrStartAfterEnd):
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
	case errors.Is(err, leave.ErrNoFields):
		httpx.FailErr(c, httpx.ErrParamMissing("no fields to update"))
	default:
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
	}
}

// Delete handles DELETE /api/v1/leaves/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid leave id"))
		return
	}

	err = h.svc.Delete(c.Request.Context(), id, c.GetInt("uid"), c.GetString("role"))
	switch {
	case err == nil:
		httpx.OKMsg(c, "leave request deleted successfully", nil)
	case errors.Is(err, leave.ErrNotFound):
		httpx.FailErr(c, httpx.ErrNotFound("leave request not found"))
	default:
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
	}
}

// Balance handles GET /api/v1/leaves/balance. Admins may inspect another
// user's balance via the userId filter.
func (h *Handler) Balance(c *gin.Context) {
	userID := c.GetInt("uid")
	if v := c.Query("userId"); v != "" && c.GetString("role") == model.RoleAdmin {
		id, err := strconv.Atoi(v)
		if err != nil {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid userId filter"))
			return
		}
		userID = id
	}

	year := time.Now().Year()
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid year"))
			return
		}
		year = y
	}

	entries, err := h.svc.Balance(c.Request.Context(), userID, year)
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
		return
	}
	httpx.OK(c, gin.H{"year": year, "balance": entries})
}
