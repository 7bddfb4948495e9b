package user

import (
	"context"
	"errors"
	"strings"

	"go_attendance/internal/auth"
	"go_attendance/internal/db"
	"go_attendance/internal/model"

	"gorm.io/gorm"
)

// User management errors
var (
	ErrSelfDelete     = errors.New("cannot delete your own account")
	ErrSelfDeactivate = errors.New("cannot deactivate your own account")
	ErrNoFields       = errors.New("no valid fields to update")
	ErrWrongPassword  = errors.New("current password is incorrect")
	ErrNotFound       = gorm.ErrRecordNotFound
)

// ConflictError reports a uniqueness violation, naming the violated column
// when the driver reports it
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Service implements user management
type Service struct {
	db *gorm.DB
}

// NewService creates a user service
func NewService(gdb *gorm.DB) *Service {
	return &Service{db: gdb}
}

// List returns all users, newest first
func (s *Service) List(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, err
}

// Get returns one user by id
func (s *Service) Get(ctx context.Context, id int) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByIdentifier looks up an active user by username or email
func (s *Service) FindByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).
		Where("(username = ? OR email = ?) AND is_active = ?", identifier, identifier, true).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateParams describes a new user account
type CreateParams struct {
	EmployeeID string
	Username   string
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Role       string
	Department string
	Position   string
	HireDate   string
}

// Create inserts a new user. Uniqueness of employee id, username and email is
// enforced by the store and surfaced as a single conflict error, with the
// violated column named when the driver reports it.
func (s *Service) Create(ctx context.Context, params CreateParams) (*model.User, error) {
	if err := auth.ValidatePassword(params.Password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	u := model.User{
		EmployeeID:   params.EmployeeID,
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: hash,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Role:         params.Role,
		Department:   params.Department,
		Position:     params.Position,
		HireDate:     params.HireDate,
		IsActive:     true,
	}
	if u.Role == "" {
		u.Role = model.RoleEmployee
	}

	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return nil, duplicateError(err)
		}
		return nil, err
	}
	return &u, nil
}

// UpdateParams is a user patch; nil fields are untouched. Role, IsActive,
// EmployeeID and Username are admin-only and ignored for other callers.
type UpdateParams struct {
	EmployeeID *string
	Username   *string
	Email      *string
	Password   *string
	FirstName  *string
	LastName   *string
	Role       *string
	Department *string
	Position   *string
	HireDate   *string
	IsActive   *bool
}

// Update patches a user record subject to the caller's role
func (s *Service) Update(ctx context.Context, id, callerID int, callerRole string, params UpdateParams) error {
	admin := callerRole == model.RoleAdmin

	updates := map[string]any{}
	if params.FirstName != nil {
		updates["first_name"] = *params.FirstName
	}
	if params.LastName != nil {
		updates["last_name"] = *params.LastName
	}
	if params.Email != nil {
		updates["email"] = *params.Email
	}
	if params.Department != nil {
		updates["department"] = *params.Department
	}
	if params.Position != nil {
		updates["position"] = *params.Position
	}
	if params.HireDate != nil {
		updates["hire_date"] = *params.HireDate
	}
	if params.Password != nil && strings.TrimSpace(*params.Password) != "" {
		if err := auth.ValidatePassword(*params.Password); err != nil {
			return err
		}
		hash, err := auth.HashPassword(*params.Password)
		if err != nil {
			return err
		}
		updates["password_hash"] = hash
	}

	if admin {
		if params.Role != nil {
			updates["role"] = *params.Role
		}
		if params.EmployeeID != nil {
			updates["employee_id"] = *params.EmployeeID
		}
		if params.Username != nil {
			updates["username"] = *params.Username
		}
		if params.IsActive != nil {
			if id == callerID && !*params.IsActive {
				return ErrSelfDeactivate
			}
			updates["is_active"] = *params.IsActive
		}
	}

	if len(updates) == 0 {
		return ErrNoFields
	}

	res := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		if db.IsDuplicateKey(res.Error) {
			return duplicateError(res.Error)
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a user and, via the cascade, their attendance and leave
// rows. Admins cannot delete their own account.
func (s *Service) Delete(ctx context.Context, id, callerID int) error {
	if id == callerID {
		return ErrSelfDelete
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		// Cascade for drivers that skip FK enforcement
		if err := tx.Where("user_id = ?", id).Delete(&model.AttendanceRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", id).Delete(&model.LeaveRequest{}).Error
	})
}

// ChangePassword rotates the user's password after verifying the current one
func (s *Service) ChangePassword(ctx context.Context, id int, current, next string) error {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return err
	}

	if err := auth.ComparePassword(u.PasswordHash, current); err != nil {
		return ErrWrongPassword
	}

	if err := auth.ValidatePassword(next); err != nil {
		return err
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(&u).Update("password_hash", hash).Error
}

// duplicateError keys the conflict message to the violated column when the
// driver names it
func duplicateError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "username"):
		return &ConflictError{Message: "username already exists"}
	case strings.Contains(msg, "email"):
		return &ConflictError{Message: "email already exists"}
	case strings.Contains(msg, "employee_id"):
		return &ConflictError{Message: "employee ID already exists"}
	}
	return &ConflictError{Message: "employee ID, username, or email already exists"}
}
