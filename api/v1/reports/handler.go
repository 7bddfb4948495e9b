package reports

import (
	"strconv"
	"time"

	"go_attendance/internal/httpx"
	"go_attendance/internal/report"

	"github.com/gin-gonic/gin"
)

// Handler handles admin reporting endpoints
type Handler struct {
	svc *report.Service
}

// NewHandler creates a reports handler
func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

// windowFilter reads the report window from the query, defaulting to the
// current month when absent.
func windowFilter(c *gin.Context) (report.Filter, bool) {
	now := time.Now()
	filter := report.Filter{
		StartDate:  c.Query("startDate"),
		EndDate:    c.Query("endDate"),
		Department: c.Query("department"),
	}
	if filter.StartDate == "" {
		filter.StartDate = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
	}
	if filter.EndDate == "" {
		filter.EndDate = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
			AddDate(0, 1, -1).Format("2006-01-02")
	}
	if v := c.Query("employeeId"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid employeeId filter"))
			return filter, false
		}
		filter.EmployeeID = id
	}
	return filter, true
}

// Stats handles GET /api/v1/reports/stats
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
		return
	}
	httpx.OK(c, stats)
}

// Attendance handles GET /api/v1/reports/attendance
func (h *Handler) Attendance(c *gin.Context) {
	filter, ok := windowFilter(c)
	if !ok {
		return
	}

	rep, err := h.svc.Attendance(c.Request.Context(), filter)
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
		return
	}
	httpx.OK(c, rep)
}

// Employees handles GET /api/v1/reports/employees
func (h *Handler) Employees(c *gin.Context) {
	rep, err := h.svc.Employees(c.Request.Context(), c.Query("department"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
		return
	}
	httpx.OK(c, rep)
}

// Leaves handles GET /api/v1/reports/leaves
func (h *Handler) Leaves(c *gin.Context) {
	filter, ok := windowFilter(c)
	if !ok {
		return
	}

	rep, err := h.svc.Leaves(c.Request.Context(), filter)
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("", err))
		return
	}
	httpx.OK(c, rep)
}
