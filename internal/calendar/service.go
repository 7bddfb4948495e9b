package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go_attendance/internal/db"
	"go_attendance/internal/model"

	"gorm.io/gorm"
)

// Calendar errors
var (
	ErrDuplicateDate = errors.New("calendar entry already exists for this date")
	ErrNoFields      = errors.New("no valid fields to update")
	ErrNotFound      = gorm.ErrRecordNotFound
	ErrBadRange      = errors.New("start date must not be after end date")
)

// Service manages the company calendar
type Service struct {
	db *gorm.DB
}

// NewService creates a calendar service
func NewService(gdb *gorm.DB) *Service {
	return &Service{db: gdb}
}

// ListParams selects entries either by an explicit inclusive date range or by
// month/year. Empty params list everything.
type ListParams struct {
	StartDate string
	EndDate   string
	Month     int
	Year      int
}

// List returns calendar entries in the window, ascending by date
func (s *Service) List(ctx context.Context, params ListParams) ([]model.CalendarEntry, error) {
	query := s.db.WithContext(ctx).Model(&model.CalendarEntry{})

	if params.StartDate != "" && params.EndDate != "" {
		query = query.Where("date BETWEEN ? AND ?", params.StartDate, params.EndDate)
	} else if params.Month >= 1 && params.Month <= 12 && params.Year > 0 {
		first := time.Date(params.Year, time.Month(params.Month), 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1)
		query = query.Where("date BETWEEN ? AND ?",
			first.Format("2006-01-02"), last.Format("2006-01-02"))
	}

	entries := []model.CalendarEntry{}
	err := query.Order("date ASC").Find(&entries).Error
	return entries, err
}

// CreateParams describes a new calendar entry
type CreateParams struct {
	Date         string
	DayType      string
	Title        string
	Description  string
	IsWorkingDay bool
}

// Create inserts a calendar entry; at most one entry may exist per date
func (s *Service) Create(ctx context.Context, params CreateParams) (*model.CalendarEntry, error) {
	entry := model.CalendarEntry{
		Date:         params.Date,
		DayType:      params.DayType,
		Title:        params.Title,
		Description:  params.Description,
		IsWorkingDay: params.IsWorkingDay,
	}
	if entry.DayType == "" {
		entry.DayType = model.DayTypeWorkingDay
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return nil, ErrDuplicateDate
		}
		return nil, err
	}
	return &entry, nil
}

// UpdateParams is a calendar entry patch; nil fields are untouched
type UpdateParams struct {
	Title        *string
	Description  *string
	DayType      *string
	IsWorkingDay *bool
}

// Update patches a calendar entry
func (s *Service) Update(ctx context.Context, id int, params UpdateParams) error {
	updates := map[string]any{}
	if params.Title != nil {
		updates["title"] = *params.Title
	}
	if params.Description != nil {
		updates["description"] = *params.Description
	}
	if params.DayType != nil {
		updates["day_type"] = *params.DayType
	}
	if params.IsWorkingDay != nil {
		updates["is_working_day"] = *params.IsWorkingDay
	}

	if len(updates) == 0 {
		return ErrNoFields
	}

	res := s.db.WithContext(ctx).Model(&model.CalendarEntry{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a calendar entry
func (s *Service) Delete(ctx context.Context, id int) error {
	res := s.db.WithContext(ctx).Delete(&model.CalendarEntry{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DayClassification labels one date in a working-days result
type DayClassification struct {
	Date         string `json:"date"`
	IsWorkingDay bool   `json:"is_working_day"`
}

// WorkingDaysResult summarizes the classification of an inclusive date range
type WorkingDaysResult struct {
	TotalDays      int                 `json:"totalDays"`
	WorkingDays    int                 `json:"workingDays"`
	NonWorkingDays int                 `json:"nonWorkingDays"`
	Dates          []DayClassification `json:"dates"`
}

// WorkingDays walks every date in [startDate, endDate] and classifies it:
// an explicit calendar entry wins, otherwise Saturday/Sunday are non-working
// and every other day is working. The walk is a plain loop, so year-long
// ranges cost one query plus one iteration per day.
func (s *Service) WorkingDays(ctx context.Context, startDate, endDate string) (*WorkingDaysResult, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date: %w", err)
	}
	if start.After(end) {
		return nil, ErrBadRange
	}

	var entries []model.CalendarEntry
	err = s.db.WithContext(ctx).
		Where("date BETWEEN ? AND ?", startDate, endDate).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	overrides := make(map[string]bool, len(entries))
	for _, e := range entries {
		overrides[e.Date] = e.IsWorkingDay
	}

	result := &WorkingDaysResult{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		working, ok := overrides[date]
		if !ok {
			wd := d.Weekday()
			working = wd != time.Saturday && wd != time.Sunday
		}

		result.TotalDays++
		if working {
			result.WorkingDays++
		} else {
			result.NonWorkingDays++
		}
		result.Dates = append(result.Dates, DayClassification{Date: date, IsWorkingDay: working})
	}

	return result, nil
}
