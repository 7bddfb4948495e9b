package model

// User roles
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// User represents an employee account in the system
type User struct {
	BaseModel
	EmployeeID   string `gorm:"type:varchar(50);uniqueIndex;not null" json:"employee_id"`
	Username     string `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	FirstName    string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName     string `gorm:"type:varchar(100);not null" json:"last_name"`
	Role         string `gorm:"type:varchar(20);default:'employee'" json:"role"`
	Department   string `gorm:"type:varchar(100)" json:"department"`
	Position     string `gorm:"type:varchar(100)" json:"position"`
	HireDate     string `gorm:"type:date" json:"hire_date"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
