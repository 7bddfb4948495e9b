package attendance

import (
	"errors"
	"strconv"
	"time"

	"go_attendance/internal/attendance"
	"go_attendance/internal/httpx"
	"go_attendance/internal/model"

	"github.com/gin-gonic/gin"
)

// UpdateRequest is the admin patch body for a ledger row
type UpdateRequest struct {
	CheckInTime    *string `json:"checkInTime"`
	CheckOutTime   *string `json:"checkOutTime"`
	BreakStartTime *string `json:"breakStartTime"`
	BreakEndTime   *string `json:"breakEndTime"`
	Status         *string `json:"status"`
	Notes          *string `json:"notes"`
}

func validTime(s string) bool {
	_, err := time.Parse("15:04:05", s)
	return err == nil
}

// Handler handles attendance endpoints
type Handler struct {
	svc *attendance.Service
}

// NewHandler creates an attendance handler
func NewHandler(svc *attendance.Service) *Handler {
	return &Handler{svc: svc}
}

// CheckIn handles POST /api/v1/attendance/check-in
func (h *Handler) CheckIn(c *gin.Context) {
	record, err := h.svc.CheckIn(c.Request.Context(), c.GetInt("uid"))
	switch {
	case err == nil:
		httpx.OKMsg(c, "checked in successfully", gin.H{"record": record})
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		httpx.FailErr(c, httpx.ErrStateConflict(err.Error()))
	default:
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
	}
}

// CheckOut handles POST /api/v1/attendance/check-out
func (h *Handler) CheckOut(c *gin.Context) {
	record, err := h.svc.CheckOut(c.Request.Context(), c.GetInt("uid"))
	switch {
	case err == nil:
		httpx.OKMsg(c, "checked out successfully", gin.H{"record": record})
	case errors.Is(err, attendance.ErrNotCheckedIn), errors.Is(err, attendance.ErrAlreadyCheckedOut):
		httpx.FailErr(c, httpx.ErrStateConflict(err.Error()))
	default:
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
	}
}

// Today handles GET /api/v1/attendance/today
func (h *Handler) Today(c *gin.Context) {
	status, err := h.svc.Today(c.Request.Context(), c.GetInt("uid"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
		return
	}
	httpx.OK(c, status)
}

// List handles GET /api/v1/attendance. Non-admin callers only see their own
// rows regardless of the userId filter.
func (h *Handler) List(c *gin.Context) {
	params := attendance.ListParams{
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
	httpx.OK(c, gin.H{"records": rows, "total": len(rows)})
}

// Update handles PUT /api/v1/attendance/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid record id"))
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
		return
	}

	if req.Status != nil {
		switch *req.Status {
		case model.AttendanceStatusPresent, model.AttendanceStatusAbsent,
			model.AttendanceStatusLate, model.AttendanceStatusHalfDay:
		default:
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid attendance status"))
			return
		}
	}
	for _, v := range []*string{req.CheckInTime, req.CheckOutTime, req.BreakStartTime, req.BreakEndTime} {
		if v != nil && !validTime(*v) {
			httpx.FailErr(c, httpx.ErrParamInvalid("times must be in HH:MM:SS format"))
			return
		}
	}

	err = h.svc.Update(c.Request.Context(), id, attendance.UpdateParams{
		CheckInTime:    req.CheckInTime,
		CheckOutTime:   req.CheckOutTime,
		BreakStartTime: req.BreakStartTime,
		BreakEndTime:   req.BreakEndTime,
		Status:         req.Status,
		Notes:          req.Notes,
	})
	switch {
	case err == nil:
		httpx.OKMsg(c, "attendance record updated successfully", nil)
	case errors.Is(err, attendance.ErrNotFound):
		httpx.FailErr(c, httpx.ErrNotFound("attendance record not found"))
	case errors.Is(err, attendance.ErrNoFields):
		httpx.FailErr(c, httpx.ErrParamMissing("no fields to update"))
	default:
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
	}
}

// Delete handles DELETE /api/v1/attendance/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid record id"))
		return
	}

	err = h.svc.Delete(c.Request.Context(), id)
	switch {
	case err == nil:
		httpx.OKMsg(c, "attendance record deleted successfully", nil)
	case errors.Is(err, attendance.ErrNotFound):
		httpx.FailErr(c, httpx.ErrNotFound("attendance record not found"))
	default:
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
	}
}
