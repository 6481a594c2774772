package model

import "time"

// Employee is the personnel record behind a User account. Time entries and
// journal entries reference employees by email, which is the stable identity
// key across the imported payroll data.
type Employee struct {
	ID               string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID           string    `gorm:"type:varchar(36);index" json:"user_id"`
	Name             string    `gorm:"type:varchar(200);not null" json:"name"`
	Email            string    `gorm:"type:varchar(255);not null;unique;index" json:"email"`
	Phone            string    `gorm:"type:varchar(50)" json:"phone"`
	DefaultVehicleID string    `gorm:"type:varchar(64)" json:"default_vehicle_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}
