package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go_attendance/internal/model"

	"gorm.io/gorm"
)

// Leave lifecycle errors
var (
	ErrStartAfterEnd   = errors.New("end date cannot be before start date")
	ErrStartInPast     = errors.New("start date cannot be in the past")
	ErrOverlap         = errors.New("leave request overlaps with existing leave")
	ErrNotPending      = errors.New("pending leave request not found")
	ErrReasonRequired  = errors.New("rejection reason is required when rejecting leave")
	ErrInvalidStatus   = errors.New("valid status (approved or rejected) is required")
	ErrInvalidType     = errors.New("invalid leave type")
	ErrNoFields        = errors.New("no valid fields to update")
	ErrNotFound        = gorm.ErrRecordNotFound
)

// EventPublisher broadcasts dashboard events. May be nil.
type EventPublisher interface {
	Publish(topic, eventType string, payload any)
}

// Service implements the leave request lifecycle
type Service struct {
	db     *gorm.DB
	events EventPublisher
}

// NewService creates a leave service
func NewService(gdb *gorm.DB, events EventPublisher) *Service {
	return &Service{db: gdb, events: events}
}

// DayCount returns the inclusive number of days in [startDate, endDate]
func DayCount(startDate, endDate string) (int, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return 0, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return 0, fmt.Errorf("invalid end date: %w", err)
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}

// Overlaps reports whether two inclusive ISO date ranges share a day
func Overlaps(start1, end1, start2, end2 string) bool {
	return start1 <= end2 && end1 >= start2
}

// CreateParams describes a new leave request
type CreateParams struct {
	UserID    int
	LeaveType string
	StartDate string
	EndDate   string
	Reason    string
}

// Create validates and persists a new pending request. The overlap check and
// the insert run in one transaction so two racing requests cannot both pass.
func (s *Service) Create(ctx context.Context, params CreateParams) (*model.LeaveRequest, error) {
	if !model.ValidLeaveType(params.LeaveType) {
		return nil, ErrInvalidType
	}

	if _, err := time.Parse("2006-01-02", params.StartDate); err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}
	if _, err := time.Parse("2006-01-02", params.EndDate); err != nil {
		return nil, fmt.Errorf("invalid end date: %w", err)
	}

	if params.EndDate < params.StartDate {
		return nil, ErrStartAfterEnd
	}
	today := time.Now().Format("2006-01-02")
	if params.StartDate < today {
		return nil, ErrStartInPast
	}

	totalDays, err := DayCount(params.StartDate, params.EndDate)
	if err != nil {
		return nil, err
	}

	request := model.LeaveRequest{
		UserID:    params.UserID,
		LeaveType: params.LeaveType,
		StartDate: params.StartDate,
		EndDate:   params.EndDate,
		TotalDays: totalDays,
		Reason:    params.Reason,
		Status:    model.LeaveStatusPending,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&model.LeaveRequest{}).
			Where("user_id = ?", params.UserID).
			Where("status IN ?", []string{model.LeaveStatusPending, model.LeaveStatusApproved}).
			Where("start_date <= ? AND end_date >= ?", params.EndDate, params.StartDate).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrOverlap
		}
		return tx.Create(&request).Error
	})
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.Publish(model.EventTopicLeaves, "created", request)
	}
	return &request, nil
}

// SetStatus approves or rejects a pending request, recording the approver and
// the decision time. Leaving pending is one-way: a second call finds no
// pending row.
func (s *Service) SetStatus(ctx context.Context, leaveID, approverID int, status, rejectionReason string) (*model.LeaveRequest, error) {
	if status != model.LeaveStatusApproved && status != model.LeaveStatusRejected {
		return nil, ErrInvalidStatus
	}
	if status == model.LeaveStatusRejected && rejectionReason == "" {
		return nil, ErrReasonRequired
	}

	var request model.LeaveRequest
	err := s.db.WithContext(ctx).
		Where("id = ? AND status = ?", leaveID, model.LeaveStatusPending).
		First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotPending
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]any{
		"status":           status,
		"approved_by":      approverID,
		"approved_date":    now,
		"rejection_reason": rejectionReason,
	}
	if err := s.db.WithContext(ctx).Model(&request).Updates(updates).Error; err != nil {
		return nil, err
	}
	request.Status = status
	request.ApprovedBy = &approverID
	request.ApprovedDate = &now
	request.RejectionReason = rejectionReason

	if s.events != nil {
		s.events.Publish(model.EventTopicLeaves, status, request)
	}
	return &request, nil
}

// UpdateParams is a leave request patch; nil fields are untouched
type UpdateParams struct {
	LeaveType *string
	StartDate *string
	EndDate   *string
	Reason    *string
}

// Update edits a request that is still pending. Non-admin callers may only
// edit their own requests. Total days are recomputed when either date moves.
func (s *Service) Update(ctx context.Context, leaveID, callerID int, callerRole string, params UpdateParams) error {
	query := s.db.WithContext(ctx).
		Where("id = ? AND status = ?", leaveID, model.LeaveStatusPending)
	if callerRole != model.RoleAdmin {
		query = query.Where("user_id = ?", callerID)
	}

	var request model.LeaveRequest
	err := query.First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotPending
	}
	if err != nil {
		return err
	}

	updates := map[string]any{}
	if params.LeaveType != nil {
		if !model.ValidLeaveType(*params.LeaveType) {
			return ErrInvalidType
		}
		updates["leave_type"] = *params.LeaveType
	}
	if params.StartDate != nil {
		updates["start_date"] = *params.StartDate
		request.StartDate = *params.StartDate
	}
	if params.EndDate != nil {
		updates["end_date"] = *params.EndDate
		request.EndDate = *params.EndDate
	}
	if params.Reason != nil {
		updates["reason"] = *params.Reason
	}

	if len(updates) == 0 {
		return ErrNoFields
	}

	if params.StartDate != nil || params.EndDate != nil {
		if request.EndDate < request.StartDate {
			return ErrStartAfterEnd
		}
		totalDays, err := DayCount(request.StartDate, request.EndDate)
		if err != nil {
			return err
		}
		updates["total_days"] = totalDays
	}

	return s.db.WithContext(ctx).Model(&request).Updates(updates).Error
}

// Delete removes a request: owners only while pending, admins regardless
func (s *Service) Delete(ctx context.Context, leaveID, callerID int, callerRole string) error {
	query := s.db.WithContext(ctx).Where("id = ?", leaveID)
	if callerRole != model.RoleAdmin {
		query = query.Where("user_id = ? AND status = ?", callerID, model.LeaveStatusPending)
	}

	var request model.LeaveRequest
	if err := query.First(&request).Error; err != nil {
		return err
	}

	return s.db.WithContext(ctx).Delete(&request).Error
}

// ListParams filters the leave listing. Non-admin callers are always
// restricted to their own requests.
type ListParams struct {
	Status     string
	UserID     int
	StartDate  string
	EndDate    string
	CallerID   int
	CallerRole string
}

// ListRow is a leave request joined with requester and approver names
type ListRow struct {
	model.LeaveRequest
	FirstName         string  `json:"first_name"`
	LastName          string  `json:"last_name"`
	EmployeeID        string  `json:"employee_id"`
	ApproverFirstName *string `json:"approver_first_name"`
	ApproverLastName  *string `json:"approver_last_name"`
}

// List returns leave requests newest first
func (s *Service) List(ctx context.Context, params ListParams) ([]ListRow, error) {
	query := s.db.WithContext(ctx).
		Table("leaves AS l").
		Select("l.*, u.first_name, u.last_name, u.employee_id, " +
			"approver.first_name AS approver_first_name, approver.last_name AS approver_last_name").
		Joins("JOIN users u ON l.user_id = u.id").
		Joins("LEFT JOIN users approver ON l.approved_by = approver.id")

	if params.CallerRole != model.RoleAdmin {
		query = query.Where("l.user_id = ?", params.CallerID)
	} else if params.UserID != 0 {
		query = query.Where("l.user_id = ?", params.UserID)
	}

	if params.Status != "" {
		query = query.Where("l.status = ?", params.Status)
	}
	if params.StartDate != "" {
		query = query.Where("l.start_date >= ?", params.StartDate)
	}
	if params.EndDate != "" {
		query = query.Where("l.end_date <= ?", params.EndDate)
	}

	rows := []ListRow{}
	err := query.Order("l.created_at DESC").Scan(&rows).Error
	return rows, err
}

// BalanceEntry summarizes one leave type for a year
type BalanceEntry struct {
	LeaveType     string `json:"leave_type"`
	TotalRequests int    `json:"total_requests"`
	TotalDays     int    `json:"total_days"`
	ApprovedDays  int    `json:"approved_days"`
	PendingDays   int    `json:"pending_days"`
	RejectedDays  int    `json:"rejected_days"`
}

// Balance groups the user's requests for the year by leave type
func (s *Service) Balance(ctx context.Context, userID, year int) ([]BalanceEntry, error) {
	yearStart := fmt.Sprintf("%04d-01-01", year)
	yearEnd := fmt.Sprintf("%04d-12-31", year)

	entries := []BalanceEntry{}
	err := s.db.WithContext(ctx).
		Table("leaves").
		Select("leave_type, "+
			"COUNT(*) AS total_requests, "+
			"SUM(total_days) AS total_days, "+
			"SUM(CASE WHEN status = 'approved' THEN total_days ELSE 0 END) AS approved_days, "+
			"SUM(CASE WHEN status = 'pending' THEN total_days ELSE 0 END) AS pending_days, "+
			"SUM(CASE WHEN status = 'rejected' THEN total_days ELSE 0 END) AS rejected_days").
		Where("user_id = ? AND start_date BETWEEN ? AND ?", userID, yearStart, yearEnd).
		Group("leave_type").
		Scan(&entries).Error
	return entries, err
}
