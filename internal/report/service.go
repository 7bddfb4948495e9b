package report

import (
	"context"
	"fmt"
	"time"

	"go_attendance/internal/model"

	"gorm.io/gorm"
)

// Service produces read-only aggregations for the admin dashboards
type Service struct {
	db *gorm.DB
}

// NewService creates a report service
func NewService(gdb *gorm.DB) *Service {
	return &Service{db: gdb}
}

// Report is the uniform envelope for report endpoints
type Report struct {
	Title   string `json:"title"`
	Period  string `json:"period"`
	Data    any    `json:"data"`
	Summary any    `json:"summary"`
}

// Stats is the dashboard headline figure set
type Stats struct {
	Attendance StatsAttendance `json:"attendance"`
	Leaves     StatsLeaves     `json:"leaves"`
	Monthly    StatsMonthly    `json:"monthly"`
}

// StatsAttendance covers today's presence
type StatsAttendance struct {
	TotalEmployees int     `json:"totalEmployees"`
	PresentToday   int     `json:"presentToday"`
	AbsentToday    int     `json:"absentToday"`
	AvgHoursPerDay float64 `json:"avgHoursPerDay"`
}

// StatsLeaves covers this month's leave activity
type StatsLeaves struct {
	PendingRequests   int `json:"pendingRequests"`
	ApprovedThisMonth int `json:"approvedThisMonth"`
	TotalLeaveDays    int `json:"totalLeaveDays"`
}

// StatsMonthly compares logged hours against the standard-hours baseline
// (working days x 8 x active employees); overtime never goes negative.
type StatsMonthly struct {
	WorkingDays   int     `json:"workingDays"`
	TotalHours    float64 `json:"totalHours"`
	OvertimeHours float64 `json:"overtimeHours"`
}

// Stats aggregates today's presence and the current month's leave and hour
// totals
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	now := time.Now()
	today := now.Format("2006-01-02")

	var totalUsers int64
	err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("is_active = ?", true).
		Count(&totalUsers).Error
	if err != nil {
		return nil, err
	}

	var presence struct {
		PresentToday int
		TotalHours   float64
	}
	err = s.db.WithContext(ctx).Table("attendance_logs").
		Select("COUNT(*) AS present_today, COALESCE(SUM(total_hours), 0) AS total_hours").
		Where("date = ? AND check_in_time IS NOT NULL", today).
		Scan(&presence).Error
	if err != nil {
		return nil, err
	}

	avgHours := 0.0
	if presence.PresentToday > 0 {
		avgHours = presence.TotalHours / float64(presence.PresentToday)
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, -1)
	startStr := monthStart.Format("2006-01-02")
	endStr := monthEnd.Format("2006-01-02")

	type leaveStat struct {
		Status    string
		Count     int
		TotalDays int
	}
	var leaveStats []leaveStat
	err = s.db.WithContext(ctx).Table("leaves").
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_days), 0) AS total_days").
		Where("start_date >= ? AND end_date <= ?", startStr, endStr).
		Group("status").
		Scan(&leaveStats).Error
	if err != nil {
		return nil, err
	}

	leaves := StatsLeaves{}
	for _, stat := range leaveStats {
		switch stat.Status {
		case model.LeaveStatusPending:
			leaves.PendingRequests = stat.Count
		case model.LeaveStatusApproved:
			leaves.ApprovedThisMonth = stat.Count
			leaves.TotalLeaveDays = stat.TotalDays
		}
	}

	type dailyStat struct {
		WorkDate   string
		DailyHours float64
	}
	var daily []dailyStat
	err = s.db.WithContext(ctx).Table("attendance_logs").
		Select("date AS work_date, COALESCE(SUM(total_hours), 0) AS daily_hours").
		Where("date BETWEEN ? AND ? AND check_in_time IS NOT NULL", startStr, endStr).
		Group("date").
		Scan(&daily).Error
	if err != nil {
		return nil, err
	}

	workingDays := len(daily)
	totalHours := 0.0
	for _, d := range daily {
		totalHours += d.DailyHours
	}
	standardHours := float64(workingDays) * 8 * float64(totalUsers)
	overtime := totalHours - standardHours
	if overtime < 0 {
		overtime = 0
	}

	return &Stats{
		Attendance: StatsAttendance{
			TotalEmployees: int(totalUsers),
			PresentToday:   presence.PresentToday,
			AbsentToday:    int(totalUsers) - presence.PresentToday,
			AvgHoursPerDay: avgHours,
		},
		Leaves: leaves,
		Monthly: StatsMonthly{
			WorkingDays:   workingDays,
			TotalHours:    totalHours,
			OvertimeHours: overtime,
		},
	}, nil
}

// Filter narrows report rows to a window plus optional employee/department
type Filter struct {
	StartDate  string
	EndDate    string
	EmployeeID int
	Department string
}

// AttendanceRow is one line of the attendance report
type AttendanceRow struct {
	Date         string  `json:"date"`
	EmployeeID   string  `json:"employeeId"`
	EmployeeName string  `json:"employeeName"`
	Department   string  `json:"department"`
	CheckIn      string  `json:"checkIn"`
	CheckOut     string  `json:"checkOut"`
	TotalHours   float64 `json:"totalHours"`
	Status       string  `json:"status"`
}

// Attendance builds the attendance report for the window
func (s *Service) Attendance(ctx context.Context, filter Filter) (*Report, error) {
	type row struct {
		Date         *string
		EmployeeID   string
		FirstName    string
		LastName     string
		Department   string
		CheckInTime  *string
		CheckOutTime *string
		TotalHours   float64
	}

	query := s.db.WithContext(ctx).
		Table("users AS u").
		Select("u.employee_id, u.first_name, u.last_name, u.department, "+
			"a.date, a.check_in_time, a.check_out_time, a.total_hours").
		Joins("LEFT JOIN attendance_logs a ON u.id = a.user_id AND a.date >= ? AND a.date <= ?",
			filter.StartDate, filter.EndDate).
		Where("u.is_active = ?", true)

	if filter.EmployeeID != 0 {
		query = query.Where("u.id = ?", filter.EmployeeID)
	}
	if filter.Department != "" {
		query = query.Where("u.department = ?", filter.Department)
	}

	var rows []row
	err := query.Order("a.date DESC, u.last_name, u.first_name").Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	data := make([]AttendanceRow, 0, len(rows))
	presentDays, absentDays := 0, 0
	totalHours := 0.0

	for _, r := range rows {
		out := AttendanceRow{
			EmployeeID:   r.EmployeeID,
			EmployeeName: r.FirstName + " " + r.LastName,
			Department:   orNA(r.Department),
			Date:         "N/A",
			CheckIn:      "Not checked in",
			CheckOut:     "Not checked out",
			TotalHours:   r.TotalHours,
			Status:       "Absent",
		}
		if r.Date != nil {
			out.Date = *r.Date
		}
		if r.CheckInTime != nil {
			out.CheckIn = *r.CheckInTime
			out.Status = "Incomplete"
		}
		if r.CheckOutTime != nil {
			out.CheckOut = *r.CheckOutTime
			if r.CheckInTime != nil {
				out.Status = "Complete"
			}
		}

		if out.Status == "Absent" {
			absentDays++
		} else {
			presentDays++
		}
		totalHours += r.TotalHours
		data = append(data, out)
	}

	return &Report{
		Title:  "Attendance Report",
		Period: fmt.Sprintf("%s to %s", filter.StartDate, filter.EndDate),
		Data:   data,
		Summary: map[string]any{
			"totalRecords": len(data),
			"presentDays":  presentDays,
			"absentDays":   absentDays,
			"totalHours":   totalHours,
		},
	}, nil
}

// EmployeeRow is one line of the employee report
type EmployeeRow struct {
	EmployeeID string `json:"employeeId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Role       string `json:"role"`
	HireDate   string `json:"hireDate"`
	Status     string `json:"status"`
}

// Employees builds the employee roster report
func (s *Service) Employees(ctx context.Context, department string) (*Report, error) {
	query := s.db.WithContext(ctx).Model(&model.User{})
	if department != "" {
		query = query.Where("department = ?", department)
	}

	var users []model.User
	if err := query.Order("last_name, first_name").Find(&users).Error; err != nil {
		return nil, err
	}

	data := make([]EmployeeRow, 0, len(users))
	active := 0
	departments := map[string]struct{}{}

	for _, u := range users {
		status := "Inactive"
		if u.IsActive {
			status = "Active"
			active++
		}
		dept := orNA(u.Department)
		departments[dept] = struct{}{}

		data = append(data, EmployeeRow{
			EmployeeID: u.EmployeeID,
			Name:       u.FirstName + " " + u.LastName,
			Email:      u.Email,
			Department: dept,
			Position:   orNA(u.Position),
			Role:       u.Role,
			HireDate:   orNA(u.HireDate),
			Status:     status,
		})
	}

	return &Report{
		Title:  "Employee Report",
		Period: "Current",
		Data:   data,
		Summary: map[string]any{
			"totalEmployees":  len(data),
			"activeEmployees": active,
			"departments":     len(departments),
		},
	}, nil
}

// LeaveRow is one line of the leave report
type LeaveRow struct {
	EmployeeID   string `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	Department   string `json:"department"`
	LeaveType    string `json:"leaveType"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Days         int    `json:"days"`
	Reason       string `json:"reason"`
	Status       string `json:"status"`
	AppliedDate  string `json:"appliedDate"`
}

// Leaves builds the leave report for the window. Day figures come from the
// leave rows' total_days field.
func (s *Service) Leaves(ctx context.Context, filter Filter) (*Report, error) {
	type row struct {
		model.LeaveRequest
		EmployeeID string
		FirstName  string
		LastName   string
		Department string
	}

	query := s.db.WithContext(ctx).
		Table("leaves AS l").
		Select("l.*, u.employee_id, u.first_name, u.last_name, u.department").
		Joins("JOIN users u ON l.user_id = u.id").
		Where("l.start_date >= ? AND l.end_date <= ?", filter.StartDate, filter.EndDate)

	if filter.EmployeeID != 0 {
		query = query.Where("l.user_id = ?", filter.EmployeeID)
	}
	if filter.Department != "" {
		query = query.Where("u.department = ?", filter.Department)
	}

	var rows []row
	if err := query.Order("l.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	data := make([]LeaveRow, 0, len(rows))
	approved, pending, rejected, totalDays := 0, 0, 0, 0

	for _, r := range rows {
		data = append(data, LeaveRow{
			EmployeeID:   r.EmployeeID,
			EmployeeName: r.FirstName + " " + r.LastName,
			Department:   orNA(r.Department),
			LeaveType:    r.LeaveType,
			StartDate:    r.StartDate,
			EndDate:      r.EndDate,
			Days:         r.TotalDays,
			Reason:       r.Reason,
			Status:       r.Status,
			AppliedDate:  r.CreatedAt.Format("2006-01-02"),
		})

		switch r.Status {
		case model.LeaveStatusApproved:
			approved++
		case model.LeaveStatusPending:
			pending++
		case model.LeaveStatusRejected:
			rejected++
		}
		totalDays += r.TotalDays
	}

	return &Report{
		Title:  "Leave Report",
		Period: fmt.Sprintf("%s to %s", filter.StartDate, filter.EndDate),
		Data:   data,
		Summary: map[string]any{
			"totalRequests": len(data),
			"approved":      approved,
			"pending":       pending,
			"rejected":      rejected,
			"totalDays":     totalDays,
		},
	}, nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
