package model

import "time"

// Profile represents the domain identity of an authenticated user.
// Exactly one profile exists per user_id; the role is chosen once at
// onboarding and is mutable only by an admin afterward.
type Profile struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	Role      Role      `json:"role" gorm:"type:varchar(20);not null"`
	FirstName string    `json:"first_name" gorm:"type:varchar(100)"`
	LastName  string    `json:"last_name" gorm:"type:varchar(100)"`
	Email     string    `json:"email" gorm:"type:varchar(100)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
