package model

import "time"

// Trip types keep the Swedish wire values: business, private, or not yet
// classified.
const (
	TripTypeBusiness = "tjänst"
	TripTypePrivate  = "privat"
	TripTypePending  = "väntar"
)

const (
	TripStatusPendingReview = "pending_review"
	TripStatusSubmitted     = "submitted"
	TripStatusApproved      = "approved"
	TripStatusRejected      = "rejected"
	TripStatusRequiresInfo  = "requires_info"
)

// Trip event change types. The event table is append-only; transitions write
// a new row and never touch prior ones.
const (
	TripEventCreated       = "created"
	TripEventClassified    = "classified"
	TripEventSubmitted     = "submitted"
	TripEventApproved      = "approved"
	TripEventRequiresInfo  = "requires_info"
	TripEventRejectedDraft = "rejected_draft"
	TripEventDeleted       = "deleted"
)

const (
	TripSourceGPS    = "gps"
	TripSourceManual = "manual"
)

// DrivingJournalEntry is one GPS-derived or manually entered vehicle trip.
// A trip with TripType väntar is always pending_review. Soft-deleted entries
// stay fetchable by id but are excluded from every list and aggregate.
type DrivingJournalEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	VehicleID          string `gorm:"type:varchar(64);index" json:"vehicle_id"`
	RegistrationNumber string `gorm:"type:varchar(20)" json:"registration_number"`
	DriverEmail        string `gorm:"type:varchar(255);index" json:"driver_email"`
	DriverName         string `gorm:"type:varchar(200)" json:"driver_name"`

	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DistanceKm      float64   `json:"distance_km"`
	DurationMinutes int       `json:"duration_minutes"`

	TripType string `gorm:"type:varchar(20);index" json:"trip_type"`
	Status   string `gorm:"type:varchar(20);index" json:"status"`

	Purpose     string `gorm:"type:text" json:"purpose,omitempty"`
	ProjectCode string `gorm:"type:varchar(50)" json:"project_code,omitempty"`
	ProjectID   *uint  `json:"project_id,omitempty"`
	Customer    string `gorm:"type:varchar(200)" json:"customer,omitempty"`

	// AI proposal. Lives outside the event log until accepted; rejecting a
	// suggestion just clears these fields.
	SuggestedTripType    string `gorm:"type:varchar(20)" json:"suggested_trip_type,omitempty"`
	SuggestedPurpose     string `gorm:"type:text" json:"suggested_purpose,omitempty"`
	SuggestedProjectCode string `gorm:"type:varchar(50)" json:"suggested_project_code,omitempty"`
	SuggestedCustomer    string `gorm:"type:varchar(200)" json:"suggested_customer,omitempty"`

	Source         string `gorm:"type:varchar(10)" json:"source"`
	ProviderTripID string `gorm:"type:varchar(64);uniqueIndex" json:"provider_trip_id,omitempty"`

	IsDeleted bool       `gorm:"index" json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy string     `gorm:"type:varchar(255)" json:"deleted_by,omitempty"`

	ReviewedBy    string     `gorm:"type:varchar(255)" json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	ReviewComment string     `gorm:"type:text" json:"review_comment,omitempty"`

	Events []TripEvent `gorm:"foreignKey:EntryID" json:"change_history,omitempty"`
}

func (DrivingJournalEntry) TableName() string {
	return "driving_journal_entries"
}

// TripEvent is one row of a journal entry's audit history.
type TripEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EntryID    uint      `gorm:"index;not null" json:"entry_id"`
	Timestamp  time.Time `json:"timestamp"`
	ChangedBy  string    `gorm:"type:varchar(255)" json:"changed_by"`
	ChangeType string    `gorm:"type:varchar(32)" json:"change_type"`
	Comment    string    `gorm:"type:text" json:"comment,omitempty"`
}

func (TripEvent) TableName() string {
	return "trip_events"
}
