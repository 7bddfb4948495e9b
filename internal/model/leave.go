package model

import "time"

// Leave types
const (
	LeaveTypeSick      = "sick"
	LeaveTypeVacation  = "vacation"
	LeaveTypePersonal  = "personal"
	LeaveTypeEmergency = "emergency"
	LeaveTypeMaternity = "maternity"
	LeaveTypePaternity = "paternity"
)

// Leave statuses
const (
	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
)

// ValidLeaveType reports whether t is a known leave type
func ValidLeaveType(t string) bool {
	switch t {
	case LeaveTypeSick, LeaveTypeVacation, LeaveTypePersonal,
		LeaveTypeEmergency, LeaveTypeMaternity, LeaveTypePaternity:
		return true
	}
	return false
}

// LeaveRequest is one leave application covering the inclusive range
// [StartDate, EndDate]. Status leaves pending exactly once, via an admin
// approve/reject decision.
type LeaveRequest struct {
	BaseModel
	UserID          int        `gorm:"not null;index" json:"user_id"`
	LeaveType       string     `gorm:"type:varchar(20);not null" json:"leave_type"`
	StartDate       string     `gorm:"type:date;not null" json:"start_date"`
	EndDate         string     `gorm:"type:date;not null" json:"end_date"`
	TotalDays       int        `gorm:"not null" json:"total_days"`
	Reason          string     `gorm:"type:text" json:"reason"`
	Status          string     `gorm:"type:varchar(20);default:'pending'" json:"status"`
	ApprovedBy      *int       `json:"approved_by"`
	ApprovedDate    *time.Time `json:"approved_date"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for LeaveRequest model
func (LeaveRequest) TableName() string {
	return "leaves"
}
