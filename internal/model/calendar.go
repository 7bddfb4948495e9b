package model

// Calendar day types
const (
	DayTypeWorkingDay   = "working_day"
	DayTypeWeekend      = "weekend"
	DayTypeHoliday      = "holiday"
	DayTypeCompanyEvent = "company_event"
)

// CalendarEntry marks a special day in the company calendar. Dates without an
// entry default to working days, except Saturday/Sunday.
type CalendarEntry struct {
	BaseModel
	Date         string `gorm:"type:date;uniqueIndex;not null" json:"date"`
	DayType      string `gorm:"type:varchar(20);default:'working_day'" json:"day_type"`
	Title        string `gorm:"type:varchar(255)" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	IsWorkingDay bool   `gorm:"default:true" json:"is_working_day"`
}

// TableName specifies the table name for CalendarEntry model
func (CalendarEntry) TableName() string {
	return "calendar"
}
