package model

import "time"

// Building represents a managed building. Created by a representative
// during onboarding.
type Building struct {
	ID         uint      `json:"building_id" gorm:"primaryKey"`
	Address    string    `json:"address" gorm:"type:varchar(255);not null"`
	PostalCode string    `json:"postal_code" gorm:"type:varchar(20);not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BuildingUnit is a single unit (apartment) within a building. A ticket's
// building is always derived through its unit, never stored on the ticket.
type BuildingUnit struct {
	ID         uint      `json:"unit_id" gorm:"primaryKey"`
	BuildingID uint      `json:"building_id" gorm:"index;not null"`
	Label      string    `json:"label" gorm:"type:varchar(50)"`
	Floor      int       `json:"floor"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Building Building `json:"building,omitempty" gorm:"foreignKey:BuildingID"`
}

// Representative links one profile (role REPRESENTATIVE) to exactly one
// building; the representative's authority is scoped to that building.
type Representative struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	BuildingID uint      `json:"building_id" gorm:"index;not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Tenant links one profile (role TENANT) to exactly one unit.
type Tenant struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	UnitID    uint      `json:"unit_id" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
