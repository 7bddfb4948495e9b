package calendar

import (
	"errors"
	"strconv"
	"time"

	"go_attendance/internal/calendar"
	"go_attendance/internal/httpx"
	"go_attendance/internal/model"

	"github.com/gin-gonic/gin"
)

// CreateRequest represents the create-entry request body
type CreateRequest struct {
	Date         string `json:"date" binding:"required"`
	DayType      string `json:"dayType"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	IsWorkingDay *bool  `json:"isWorkingDay"`
}

// UpdateRequest represents the update-entry request body
type UpdateRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	DayType      *string `json:"dayType"`
	IsWorkingDay *bool   `json:"isWorkingDay"`
}

// Handler handles company calendar endpoints
type Handler struct {
	svc *calendar.Service
}

// NewHandler creates a calendar handler
func NewHandler(svc *calendar.Service) *Handler {
	return &Handler{svc: svc}
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func validDayType(t string) bool {
	switch t {
	case model.DayTypeWorkingDay, model.DayTypeWeekend,
		model.DayTypeHoliday, model.DayTypeCompanyEvent:
		return true
	}
	return false
}

// List handles GET /api/v1/calendar. Accepts either a startDate/endDate
// window or a month/year pair.
func (h *Handler) List(c *gin.Context) {
	params := calendar.ListParams{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}
	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			httpx.FailErr(c, httpx.ErrParamInvalid("month must be between 1 and 12"))
			return
		}
		params.Month = m
	}
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid year"))
			return
		}
		params.Year = y
	}

	entries, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
		return
	}
	httpx.OK(c, gin.H{"entries": entries, "total": len(entries)})
}

// Create handles POST /api/v1/calendar
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing("date is required"))
		return
	}

	if !validDate(req.Date) {
		httpx.FailErr(c, httpx.ErrParamInvalid("date must be in YYYY-MM-DD format"))
		return
	}
	if req.DayType != "" && !validDayType(req.DayType) {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid day type"))
		return
	}

	// Working-day defaults to true unless stated otherwise
	isWorking := true
	if req.IsWorkingDay != nil {
		isWorking = *req.IsWorkingDay
	}

	entry, err := h.svc.Create(c.Request.Context(), calendar.CreateParams{
		Date:         req.Date,
		DayType:      req.DayType,
		Title:        req.Title,
		Description:  req.Description,
		IsWorkingDay: isWorking,
	})
	switch {
	case err == nil:
		httpx.Created(c, "calendar entry created successfully", gin.H{"entry": entry})
	case errors.Is(err, calendar.ErrDuplicateDate):
		httpx.FailErr(c, httpx.ErrAlreadyExists(err.Error()))
	default:
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
	}
}

// Update handles PUT /api/v1/calendar/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid entry id"))
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
		return
	}

	if req.DayType != nil && !validDayType(*req.DayType) {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid day type"))
		return
	}

	err = h.svc.Update(c.Request.Context(), id, calendar.UpdateParams{
		Title:        req.Title,
		Description:  req.Description,
		DayType:      req.DayType,
		IsWorkingDay: req.IsWorkingDay,
	})
	switch {
	case err == nil:
		httpx.OKMsg(c, "calendar entry updated successfully", nil)
	case errors.Is(err, calendar.ErrNotFound):
		httpx.FailErr(c, httpx.ErrNotFound("calendar entry not found"))
	case errors.Is(err, calendar.ErrNoFields):
		httpx.FailErr(c, httpx.ErrParamMissing("no fields to update"))
	default:
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
	}
}

// Delete handles DELETE /api/v1/calendar/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid entry id"))
		return
	}

	err = h.svc.Delete(c.Request.Context(), id)
	switch {
	case err == nil:
		httpx.OKMsg(c, "calendar entry deleted successfully", nil)
	case errors.Is(err, calendar.ErrNotFound):
		httpx.FailErr(c, httpx.ErrNotFound("calendar entry not found"))
	default:
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
	}
}

// WorkingDays handles GET /api/v1/calendar/working-days
func (h *Handler) WorkingDays(c *gin.Context) {
	start, end := c.Query("startDate"), c.Query("endDate")
	if start == "" || end == "" {
		httpx.FailErr(c, httpx.ErrParamMissing("startDate and endDate are required"))
		return
	}
	if !validDate(start) || !validDate(end) {
		httpx.FailErr(c, httpx.ErrParamInvalid("dates must be in YYYY-MM-DD format"))
		return
	}

	result, err := h.svc.WorkingDays(c.Request.Context(), start, end)
	switch {
	case err == nil:
		httpx.OK(c, result)
	case errors.Is(err, calendar.ErrBadRange):
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
	default:
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
	}
}
