package model

// Attendance statuses
const (
	AttendanceStatusPresent = "present"
	AttendanceStatusAbsent  = "absent"
	AttendanceStatusLate    = "late"
	AttendanceStatusHalfDay = "half_day"
)

// AttendanceRecord is one check-in/check-out ledger row per user per calendar date.
// Dates are ISO "2006-01-02" strings, times-of-day "15:04:05" strings.
type AttendanceRecord struct {
	BaseModel
	UserID         int     `gorm:"not null;uniqueIndex:idx_attendance_user_date" json:"user_id"`
	Date           string  `gorm:"type:date;not null;uniqueIndex:idx_attendance_user_date" json:"date"`
	CheckInTime    *string `gorm:"type:time" json:"check_in_time"`
	CheckOutTime   *string `gorm:"type:time" json:"check_out_time"`
	BreakStartTime *string `gorm:"type:time" json:"break_start_time"`
	BreakEndTime   *string `gorm:"type:time" json:"break_end_time"`
	TotalHours     float64 `gorm:"type:decimal(4,2);default:0" json:"total_hours"`
	Status         string  `gorm:"type:varchar(20);default:'present'" json:"status"`
	Notes          string  `gorm:"type:text" json:"notes"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for AttendanceRecord model
func (AttendanceRecord) TableName() string {
	return "attendance_logs"
}
