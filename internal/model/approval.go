package model

import "time"

const (
	ApprovalStatusPending  = "pending"
	ApprovalStatusApproved = "approved"
	ApprovalStatusRejected = "rejected"
)

const ApprovalTypeTimeCorrection = "time_correction"

// ApprovalRequest is a generic envelope proposing a change to another entity.
// OriginalData and RequestedData are full field snapshots; approving copies
// RequestedData onto the related entity in the same database transaction that
// flips the request to approved.
type ApprovalRequest struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Type              string `gorm:"type:varchar(32);index" json:"type"`
	RequesterEmail    string `gorm:"type:varchar(255);index" json:"requester_email"`
	RelatedEntityID   uint   `gorm:"index" json:"related_entity_id"`
	RelatedEntityType string `gorm:"type:varchar(32)" json:"related_entity_type"`

	OriginalData  JSONMap `gorm:"type:json" json:"original_data"`
	RequestedData JSONMap `gorm:"type:json" json:"requested_data"`

	Reason string `gorm:"type:text;not null" json:"reason"`
	Status string `gorm:"type:varchar(20);index" json:"status"`

	ReviewedBy    string     `gorm:"type:varchar(255)" json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	ReviewComment string     `gorm:"type:text" json:"review_comment,omitempty"`
}

func (ApprovalRequest) TableName() string {
	return "approval_requests"
}
