package db

import (
	"fmt"
	"time"

	"go_attendance/internal/auth"
	"go_attendance/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migrate runs database migrations for all models
func Migrate(gdb *gorm.DB) error {
	models := []interface{}{
		&model.User{},
		&model.AttendanceRecord{},
		&model.CalendarEntry{},
		&model.LeaveRequest{},
		&model.DashboardEvent{},
	}

	if err := gdb.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	logrus.WithField("tables", len(models)).Info("database migration completed")
	return nil
}

// Seed inserts the bootstrap rows if absent: one admin, one sample employee
// and the fixed holiday calendar entries. Re-running is a no-op.
func Seed(gdb *gorm.DB) error {
	adminHash, err := auth.HashPassword("admin123")
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}
	employeeHash, err := auth.HashPassword("employee123")
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	today := time.Now().Format("2006-01-02")
	monthAgo := time.Now().AddDate(0, 0, -30).Format("2006-01-02")

	users := []model.User{
		{
			EmployeeID:   "EMP001",
			Username:     "admin",
			Email:        "admin@company.com",
			PasswordHash: adminHash,
			FirstName:    "Admin",
			LastName:     "User",
			Role:         model.RoleAdmin,
			Department:   "IT",
			Position:     "System Administrator",
			HireDate:     today,
			IsActive:     true,
		},
		{
			EmployeeID:   "EMP002",
			Username:     "jdoe",
			Email:        "john.doe@company.com",
			PasswordHash: employeeHash,
			FirstName:    "John",
			LastName:     "Doe",
			Role:         model.RoleEmployee,
			Department:   "Sales",
			Position:     "Sales Representative",
			HireDate:     monthAgo,
			IsActive:     true,
		},
	}

	for i := range users {
		res := gdb.Clauses(clause.OnConflict{DoNothing: true}).Create(&users[i])
		if res.Error != nil {
			return fmt.Errorf("failed to seed user %s: %w", users[i].Username, res.Error)
		}
	}

	holidays := []model.CalendarEntry{
		{Date: "2025-01-01", Title: "New Year's Day", DayType: model.DayTypeHoliday, IsWorkingDay: false},
		{Date: "2025-07-04", Title: "Independence Day", DayType: model.DayTypeHoliday, IsWorkingDay: false},
		{Date: "2025-12-25", Title: "Christmas Day", DayType: model.DayTypeHoliday, IsWorkingDay: false},
	}

	for i := range holidays {
		res := gdb.Clauses(clause.OnConflict{DoNothing: true}).Create(&holidays[i])
		if res.Error != nil {
			return fmt.Errorf("failed to seed holiday %s: %w", holidays[i].Date, res.Error)
		}
	}

	logrus.Info("seed data ensured")
	return nil
}
