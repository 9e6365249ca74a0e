package model

import "time"

// Contractor links one profile (role CONTRACTOR) to its company data and
// trade specialization.
type Contractor struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	UserID         uint           `json:"user_id" gorm:"uniqueIndex;not null"`
	CompanyName    string         `json:"company_name" gorm:"type:varchar(100)"`
	Phone          string         `json:"phone" gorm:"type:varchar(30)"`
	Specialization Specialization `json:"specialization" gorm:"type:varchar(20);not null"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Membership tracks a contractor's paid subscription. Paid status is
// always computed as expires_at > now at evaluation time, never stored.
type Membership struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	Price     int64     `json:"price" gorm:"not null"` // minor currency units
	Currency  string    `json:"currency" gorm:"type:varchar(3);not null;default:'eur'"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	LastPaid  time.Time `json:"last_paid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
