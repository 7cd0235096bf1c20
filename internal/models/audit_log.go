package models

import "time"

// AuditLog records operational API events (logins, schedule edits,
// unavailability changes). Booking state transitions have their own
// transactional trail in BookingChangeLog.
type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ServiceID uint   `json:"service_id"`
	UserID    *uint  `json:"user_id"`
	Action    string `gorm:"size:50;not null" json:"action"`

	Entity   string `gorm:"size:50" json:"entity"`
	EntityID *uint  `json:"entity_id"`
	Metadata string `gorm:"type:text" json:"metadata"`

	CreatedAt time.Time `json:"created_at"`
}
