package model

import "time"

// Ticket is a reported maintenance issue tied to a building unit.
//
// Invariants: resolved_at is set iff status is RESOLVED; assigned_to, if
// set, references a contractor whose specialization is compatible with
// the issue category; created_by never changes after creation.
type Ticket struct {
	ID            uint          `json:"ticket_id" gorm:"primaryKey"`
	UnitID        uint          `json:"unit_id" gorm:"index;not null"`
	Title         string        `json:"title" gorm:"type:varchar(200);not null"`
	Description   string        `json:"description" gorm:"type:text;not null"`
	IssueCategory IssueCategory `json:"issue_category" gorm:"type:varchar(20);not null"`
	Status        TicketStatus  `json:"status" gorm:"type:varchar(20);not null;default:'OPEN'"`
	CreatedBy     uint          `json:"created_by" gorm:"index;not null"`
	AssignedTo    *uint         `json:"assigned_to" gorm:"index"`
	Comment       *string       `json:"comment" gorm:"type:text"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	ResolvedAt    *time.Time    `json:"resolved_at"`
}

// Photo is an append-only attachment on a ticket. The blob itself lives
// in external object storage; only the issued URL is persisted.
type Photo struct {
	ID        uint      `json:"photo_id" gorm:"primaryKey"`
	TicketID  uint      `json:"ticket_id" gorm:"index;not null"`
	PhotoURL  string    `json:"photo_url" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// Rating is the tenant's review of completed work. The unique index on
// ticket_id is what turns a duplicate-rating race into a storage
// conflict instead of a silent double insert.
type Rating struct {
	ID        uint      `json:"rating_id" gorm:"primaryKey"`
	TicketID  uint      `json:"ticket_id" gorm:"uniqueIndex;not null"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   *string   `json:"comment" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}

// Invitation is a pending tenant invite from a representative, deleted on
// completed signup or explicit cancellation.
type Invitation struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	FromID    uint      `json:"from_id" gorm:"index;not null"`
	ToEmail   string    `json:"to_email" gorm:"type:varchar(100);not null"`
	UnitID    uint      `json:"unit_id" gorm:"not null"`
	Token     string    `json:"token" gorm:"type:varchar(36);uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}
