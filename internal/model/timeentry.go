package model

import "time"

const (
	TimeEntryStatusActive        = "active"
	TimeEntryStatusCompleted     = "completed"
	TimeEntryStatusPendingReview = "pending_review"
)

// Allocation categories. "interntid" (internal time) is the default bucket a
// clock-in starts in before hours are split across projects.
const (
	AllocationCategorySupportService = "support_service"
	AllocationCategoryInstall        = "install"
	AllocationCategoryRental         = "rental"
	AllocationCategoryInternal       = "interntid"
)

// TimeEntry is one clock-in/out session for one employee on one date.
// ClockOutTime is nil while the session is active. TotalHours is the stored
// net figure: (clock out - clock in) minus break time. The lunch deduction is
// never applied here, only when hours are offered for allocation.
type TimeEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	EmployeeEmail string     `gorm:"type:varchar(255);index:idx_entry_employee_date" json:"employee_email"`
	Date          string     `gorm:"type:varchar(10);index:idx_entry_employee_date" json:"date"` // YYYY-MM-DD
	ClockInTime   time.Time  `json:"clock_in_time"`
	ClockOutTime  *time.Time `json:"clock_out_time,omitempty"`
	Status        string     `gorm:"type:varchar(20);index" json:"status"`

	Breaks            []Break `gorm:"foreignKey:TimeEntryID" json:"breaks"`
	TotalBreakMinutes int     `json:"total_break_minutes"`
	TotalHours        float64 `json:"total_hours"`

	Allocations []ProjectAllocation `gorm:"foreignKey:TimeEntryID" json:"project_allocations"`

	ClockInLatitude   *float64 `json:"clock_in_latitude,omitempty"`
	ClockInLongitude  *float64 `json:"clock_in_longitude,omitempty"`
	ClockInAddress    string   `gorm:"type:varchar(500)" json:"clock_in_address,omitempty"`
	ClockOutLatitude  *float64 `json:"clock_out_latitude,omitempty"`
	ClockOutLongitude *float64 `json:"clock_out_longitude,omitempty"`
	ClockOutAddress   string   `gorm:"type:varchar(500)" json:"clock_out_address,omitempty"`

	// Audit trail for post-hoc corrections.
	EditReason string     `gorm:"type:text" json:"edit_reason,omitempty"`
	EditedBy   string     `gorm:"type:varchar(255)" json:"edited_by,omitempty"`
	EditedAt   *time.Time `json:"edited_at,omitempty"`

	AnomalyFlag   bool   `json:"anomaly_flag"`
	AnomalyReason string `gorm:"type:varchar(255)" json:"anomaly_reason,omitempty"`
}

func (TimeEntry) TableName() string {
	return "time_entries"
}

// Break is a recorded pause within a time entry. EndTime is nil while the
// break is still running; DurationMinutes is set when it closes.
type Break struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	TimeEntryID     uint       `gorm:"index;not null" json:"time_entry_id"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (Break) TableName() string {
	return "time_entry_breaks"
}

// ProjectAllocation attributes a fragment of a time entry's worked hours to a
// project and category.
type ProjectAllocation struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	TimeEntryID uint    `gorm:"index;not null" json:"time_entry_id"`
	ProjectID   uint    `gorm:"index" json:"project_id"`
	Hours       float64 `json:"hours"`
	Category    string  `gorm:"type:varchar(32)" json:"category"`
	Notes       string  `gorm:"type:text" json:"notes,omitempty"`
}

func (ProjectAllocation) TableName() string {
	return "project_allocations"
}
