package attendance

import (
	"context"
	"errors"
	"math"
	"time"

	"go_attendance/internal/db"
	"go_attendance/internal/model"

	"gorm.io/gorm"
)

// Ledger state errors
var (
	ErrAlreadyCheckedIn  = errors.New("already checked in today")
	ErrAlreadyCheckedOut = errors.New("already checked out today")
	ErrNotCheckedIn      = errors.New("must check in before checking out")
	ErrNoFields          = errors.New("no valid fields to update")
	ErrNotFound          = gorm.ErrRecordNotFound
)

// EventPublisher broadcasts dashboard events. May be nil.
type EventPublisher interface {
	Publish(topic, eventType string, payload any)
}

// Service implements the attendance ledger
type Service struct {
	db     *gorm.DB
	events EventPublisher
}

// NewService creates an attendance service
func NewService(gdb *gorm.DB, events EventPublisher) *Service {
	return &Service{db: gdb, events: events}
}

// HoursBetween computes the hours between two "15:04:05" times of the same
// day, rounded to 2 decimals.
func HoursBetween(checkIn, checkOut string) (float64, error) {
	in, err := time.Parse("15:04:05", checkIn)
	if err != nil {
		return 0, err
	}
	out, err := time.Parse("15:04:05", checkOut)
	if err != nil {
		return 0, err
	}
	return math.Round(out.Sub(in).Hours()*100) / 100, nil
}

// CheckIn records the user's first check-in of the day. There is at most one
// ledger row per (user, date); a concurrent duplicate insert hits the unique
// index and is reported as an already-checked-in conflict.
func (s *Service) CheckIn(ctx context.Context, userID int) (*model.AttendanceRecord, error) {
	now := time.Now()
	today := now.Format("2006-01-02")
	currentTime := now.Format("15:04:05")

	var record model.AttendanceRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, today).
		First(&record).Error

	switch {
	case err == nil:
		if record.CheckInTime != nil {
			return nil, ErrAlreadyCheckedIn
		}
		updates := map[string]any{
			"check_in_time": currentTime,
			"status":        model.AttendanceStatusPresent,
		}
		if err := s.db.WithContext(ctx).Model(&record).Updates(updates).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		record = model.AttendanceRecord{
			UserID:      userID,
			Date:        today,
			CheckInTime: &currentTime,
			Status:      model.AttendanceStatusPresent,
		}
		if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
			if db.IsDuplicateKey(err) {
				return nil, ErrAlreadyCheckedIn
			}
			return nil, err
		}
	default:
		return nil, err
	}

	if s.events != nil {
		s.events.Publish(model.EventTopicAttendance, "checkin", record)
	}
	return &record, nil
}

// CheckOut closes today's ledger row and computes total hours
func (s *Service) CheckOut(ctx context.Context, userID int) (*model.AttendanceRecord, error) {
	now := time.Now()
	today := now.Format("2006-01-02")
	currentTime := now.Format("15:04:05")

	var record model.AttendanceRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, today).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotCheckedIn
	}
	if err != nil {
		return nil, err
	}

	if record.CheckInTime == nil {
		return nil, ErrNotCheckedIn
	}
	if record.CheckOutTime != nil {
		return nil, ErrAlreadyCheckedOut
	}

	totalHours, err := HoursBetween(*record.CheckInTime, currentTime)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"check_out_time": currentTime,
		"total_hours":    totalHours,
	}
	if err := s.db.WithContext(ctx).Model(&record).Updates(updates).Error; err != nil {
		return nil, err
	}
	record.CheckOutTime = &currentTime
	record.TotalHours = totalHours

	if s.events != nil {
		s.events.Publish(model.EventTopicAttendance, "checkout", record)
	}
	return &record, nil
}

// TodayStatus describes the caller's ledger state for the current date
type TodayStatus struct {
	HasCheckedIn  bool                    `json:"hasCheckedIn"`
	HasCheckedOut bool                    `json:"hasCheckedOut"`
	Record        *model.AttendanceRecord `json:"record"`
}

// Today returns the check-in/check-out state for the current date
func (s *Service) Today(ctx context.Context, userID int) (*TodayStatus, error) {
	today := time.Now().Format("2006-01-02")

	var record model.AttendanceRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, today).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &TodayStatus{}, nil
	}
	if err != nil {
		return nil, err
	}

	return &TodayStatus{
		HasCheckedIn:  record.CheckInTime != nil,
		HasCheckedOut: record.CheckOutTime != nil,
		Record:        &record,
	}, nil
}

// ListParams filters the ledger listing. CallerID/CallerRole enforce
// ownership: non-admin callers only ever see their own rows.
type ListParams struct {
	StartDate  string
	EndDate    string
	UserID     int
	CallerID   int
	CallerRole string
}

// ListRow is an attendance row joined with its owner's identity
type ListRow struct {
	model.AttendanceRecord
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	EmployeeID string `json:"employee_id"`
}

// List returns ledger rows ordered by date desc, then check-in desc
func (s *Service) List(ctx context.Context, params ListParams) ([]ListRow, error) {
	query := s.db.WithContext(ctx).
		Table("attendance_logs AS al").
		Select("al.*, u.first_name, u.last_name, u.employee_id").
		Joins("JOIN users u ON al.user_id = u.id")

	if params.CallerRole != model.RoleAdmin {
		query = query.Where("al.user_id = ?", params.CallerID)
	} else if params.UserID != 0 {
		query = query.Where("al.user_id = ?", params.UserID)
	}

	if params.StartDate != "" {
		query = query.Where("al.date >= ?", params.StartDate)
	}
	if params.EndDate != "" {
		query = query.Where("al.date <= ?", params.EndDate)
	}

	rows := []ListRow{}
	err := query.Order("al.date DESC, al.check_in_time DESC").Scan(&rows).Error
	return rows, err
}

// UpdateParams is the admin patch for a ledger row; nil fields are untouched
type UpdateParams struct {
	CheckInTime    *string
	CheckOutTime   *string
	BreakStartTime *string
	BreakEndTime   *string
	Status         *string
	Notes          *string
}

// Update patches a ledger row and recomputes total hours when both times are
// present after the edit
func (s *Service) Update(ctx context.Context, id int, params UpdateParams) error {
	var record model.AttendanceRecord
	err := s.db.WithContext(ctx).First(&record, id).Error
	if err != nil {
		return err
	}

	updates := map[string]any{}
	if params.CheckInTime != nil {
		updates["check_in_time"] = *params.CheckInTime
		record.CheckInTime = params.CheckInTime
	}
	if params.CheckOutTime != nil {
		updates["check_out_time"] = *params.CheckOutTime
		record.CheckOutTime = params.CheckOutTime
	}
	if params.BreakStartTime != nil {
		updates["break_start_time"] = *params.BreakStartTime
	}
	if params.BreakEndTime != nil {
		updates["break_end_time"] = *params.BreakEndTime
	}
	if params.Status != nil {
		updates["status"] = *params.Status
	}
	if params.Notes != nil {
		updates["notes"] = *params.Notes
	}

	if len(updates) == 0 {
		return ErrNoFields
	}

	if record.CheckInTime != nil && record.CheckOutTime != nil &&
		*record.CheckInTime != "" && *record.CheckOutTime != "" {
		totalHours, err := HoursBetween(*record.CheckInTime, *record.CheckOutTime)
		if err != nil {
			return err
		}
		updates["total_hours"] = totalHours
	}

	return s.db.WithContext(ctx).Model(&record).Updates(updates).Error
}

// Delete removes a ledger row
func (s *Service) Delete(ctx context.Context, id int) error {
	res := s.db.WithContext(ctx).Delete(&model.AttendanceRecord{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
