package model

import "time"

const (
	NotificationKindApproval   = "approval"
	NotificationKindAnomaly    = "anomaly"
	NotificationKindBudget     = "budget"
	NotificationKindTripReview = "trip_review"
)

type Notification struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	RecipientEmail string    `gorm:"type:varchar(255);index" json:"recipient_email"`
	Kind           string    `gorm:"type:varchar(32)" json:"kind"`
	Title          string    `gorm:"type:varchar(200)" json:"title"`
	Message        string    `gorm:"type:text" json:"message"`
	IsRead         bool      `gorm:"index" json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
