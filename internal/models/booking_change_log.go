package models

import "time"

// BookingChangeLog is the immutable audit row for one committed booking
// transition. It is written in the same transaction as the booking update and
// is never mutated or deleted afterwards.
type BookingChangeLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BookingID uint   `gorm:"index" json:"booking_id"`
	Action    string `gorm:"size:30;not null" json:"action"`

	UserID   *uint  `json:"user_id"`
	UserName string `gorm:"size:100" json:"user_name"`

	PreviousState string `gorm:"type:text" json:"previous_state"`
	NewState      string `gorm:"type:text" json:"new_state"`

	Timestamp time.Time `json:"timestamp"`
}
