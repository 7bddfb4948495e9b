package report

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go_attendance/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := gdb.AutoMigrate(&model.User{}, &model.AttendanceRecord{}, &model.LeaveRequest{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, employeeID, username, department string, active bool) *model.User {
	t.Helper()

	u := &model.User{
		EmployeeID:   employeeID,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     username,
		Role:         model.RoleEmployee,
		Department:   department,
		IsActive:     active,
	}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedAttendance(t *testing.T, gdb *gorm.DB, userID int, date, in, out string, hours float64) {
	t.Helper()

	record := &model.AttendanceRecord{
		UserID:     userID,
		Date:       date,
		Status:     model.AttendanceStatusPresent,
		TotalHours: hours,
	}
	if in != "" {
		record.CheckInTime = &in
	}
	if out != "" {
		record.CheckOutTime = &out
	}
	if err := gdb.Create(record).Error; err != nil {
		t.Fatalf("seed attendance: %v", err)
	}
}

func TestStats(t *testing.T) {
	gdb := testDB(t)
	svc := NewService(gdb)
	ctx := context.Background()
	today := time.Now().Format("2006-01-02")

	present := seedUser(t, gdb, "EMP300", "shown", "Engineering", true)
	seedUser(t, gdb, "EMP301", "missing", "Engineering", true)
	seedUser(t, gdb, "EMP302", "former", "Engineering", false)

	seedAttendance(t, gdb, present.ID, today, "09:00:00", "17:00:00", 8)

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if stats.Attendance.TotalEmployees != 2 {
		t.Errorf("total employees = %d, want 2 (inactive excluded)", stats.Attendance.TotalEmployees)
	}
	if stats.Attendance.PresentToday != 1 {
		t.Errorf("present today = %d, want 1", stats.Attendance.PresentToday)
	}
	if stats.Attendance.AbsentToday != 1 {
		t.Errorf("absent today = %d, want 1", stats.Attendance.AbsentToday)
	}
	if stats.Attendance.AvgHoursPerDay != 8 {
		t.Errorf("avg hours = %v, want 8", stats.Attendance.AvgHoursPerDay)
	}
	if stats.Monthly.WorkingDays != 1 || stats.Monthly.TotalHours != 8 {
		t.Errorf("monthly = %+v, want 1 working day / 8 hours", stats.Monthly)
	}
	// 1 day x 8h x 2 users standard, 8 actual: no overtime
	if stats.Monthly.OvertimeHours != 0 {
		t.Errorf("overtime = %v, want 0", stats.Monthly.OvertimeHours)
	}
}

func TestStatsEmptyDatabase(t *testing.T) {
	svc := NewService(testDB(t))

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Attendance.PresentToday != 0 || stats.Attendance.AvgHoursPerDay != 0 {
		t.Errorf("empty stats = %+v, want zeros", stats.Attendance)
	}
}

func TestAttendanceReport(t *testing.T) {
	gdb := testDB(t)
	svc := NewService(gdb)
	ctx := context.Background()

	complete := seedUser(t, gdb, "EMP310", "done", "Engineering", true)
	partial := seedUser(t, gdb, "EMP311", "half", "Sales", true)
	seedUser(t, gdb, "EMP312", "away", "Sales", true)

	seedAttendance(t, gdb, complete.ID, "2026-01-05", "09:00:00", "17:30:00", 8.5)
	seedAttendance(t, gdb, partial.ID, "2026-01-05", "09:15:00", "", 0)

	report, err := svc.Attendance(ctx, Filter{StartDate: "2026-01-01", EndDate: "2026-01-31"})
	if err != nil {
		t.Fatalf("attendance report: %v", err)
	}

	rows, ok := report.Data.([]AttendanceRow)
	if !ok {
		t.Fatalf("data type = %T, want []AttendanceRow", report.Data)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3 (absent employee included)", len(rows))
	}

	byEmployee := make(map[string]AttendanceRow, len(rows))
	for _, r := range rows {
		byEmployee[r.EmployeeID] = r
	}
	if got := byEmployee["EMP310"]; got.Status != "Complete" || got.TotalHours != 8.5 {
		t.Errorf("complete row = %+v", got)
	}
	if got := byEmployee["EMP311"]; got.Status != "Incomplete" {
		t.Errorf("partial row status = %q, want Incomplete", got.Status)
	}
	if got := byEmployee["EMP312"]; got.Status != "Absent" || got.Date != "N/A" {
		t.Errorf("absent row = %+v", got)
	}

	summary := report.Summary.(map[string]any)
	if summary["presentDays"] != 2 || summary["absentDays"] != 1 {
		t.Errorf("summary = %+v", summary)
	}

	// Department filter narrows to Sales
	report, err = svc.Attendance(ctx, Filter{StartDate: "2026-01-01", EndDate: "2026-01-31", Department: "Sales"})
	if err != nil {
		t.Fatalf("filtered report: %v", err)
	}
	if rows := report.Data.([]AttendanceRow); len(rows) != 2 {
		t.Errorf("sales rows = %d, want 2", len(rows))
	}
}

func TestEmployeesReport(t *testing.T) {
	gdb := testDB(t)
	svc := NewService(gdb)
	ctx := context.Background()

	seedUser(t, gdb, "EMP320", "engineer", "Engineering", true)
	seedUser(t, gdb, "EMP321", "seller", "Sales", true)
	seedUser(t, gdb, "EMP322", "retired", "Sales", false)

	report, err := svc.Employees(ctx, "")
	if err != nil {
		t.Fatalf("employees report: %v", err)
	}

	summary := report.Summary.(map[string]any)
	if summary["totalEmployees"] != 3 || summary["activeEmployees"] != 2 || summary["departments"] != 2 {
		t.Errorf("summary = %+v", summary)
	}

	report, err = svc.Employees(ctx, "Engineering")
	if err != nil {
		t.Fatalf("filtered report: %v", err)
	}
	rows := report.Data.([]EmployeeRow)
	if len(rows) != 1 || rows[0].EmployeeID != "EMP320" {
		t.Errorf("engineering rows = %+v", rows)
	}
}

func TestLeavesReportUsesStoredTotals(t *testing.T) {
	gdb := testDB(t)
	svc := NewService(gdb)
	ctx := context.Background()

	u := seedUser(t, gdb, "EMP330", "resting", "Engineering", true)
	leaveRows := []*model.LeaveRequest{
		{
			UserID: u.ID, LeaveType: model.LeaveTypeVacation,
			StartDate: "2026-02-02", EndDate: "2026-02-06",
			TotalDays: 5, Status: model.LeaveStatusApproved,
		},
		{
			UserID: u.ID, LeaveType: model.LeaveTypeSick,
			StartDate: "2026-02-10", EndDate: "2026-02-10",
			TotalDays: 1, Status: model.LeaveStatusPending,
		},
	}
	for _, row := range leaveRows {
		if err := gdb.Create(row).Error; err != nil {
			t.Fatalf("seed leave: %v", err)
		}
	}

	report, err := svc.Leaves(ctx, Filter{StartDate: "2026-02-01", EndDate: "2026-02-28"})
	if err != nil {
		t.Fatalf("leaves report: %v", err)
	}

	rows := report.Data.([]LeaveRow)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	summary := report.Summary.(map[string]any)
	if summary["totalDays"] != 6 {
		t.Errorf("total days = %v, want 6", summary["totalDays"])
	}
	if summary["approved"] != 1 || summary["pending"] != 1 {
		t.Errorf("summary = %+v", summary)
	}
}
