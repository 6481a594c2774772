package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project statuses keep the Swedish values used by the planning UI.
const (
	ProjectStatusPlanned  = "planerat"
	ProjectStatusOngoing  = "pågående"
	ProjectStatusFinished = "avslutat"
	ProjectStatusPaused   = "pausat"
)

// Project is a cost center with optional budget tracking. BudgetHours and
// HourlyRate may be absent independently; cost and over-budget figures are
// only derived when the relevant field is present.
type Project struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string `gorm:"type:varchar(200);not null" json:"name"`
	ProjectCode string `gorm:"type:varchar(50);not null;unique" json:"project_code"`
	Status      string `gorm:"type:varchar(20);index" json:"status"`

	BudgetHours *float64         `json:"budget_hours,omitempty"`
	HourlyRate  *decimal.Decimal `gorm:"type:decimal(10,2)" json:"hourly_rate,omitempty"`

	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	ProjectManagerEmail string `gorm:"type:varchar(255)" json:"project_manager_email"`

	IsBillable    bool   `json:"is_billable"`
	IsInvoiced    bool   `json:"is_invoiced"`
	InvoiceNumber string `gorm:"type:varchar(64)" json:"invoice_number,omitempty"`
}

func (Project) TableName() string {
	return "projects"
}
