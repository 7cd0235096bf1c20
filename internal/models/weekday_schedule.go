package models

import "time"

// WeekdaySchedule is one weekday row of a schedule. Rows belong either to a
// service (the default schedule) or to a single provider (an override that
// replaces the service rows entirely for that provider).
type WeekdaySchedule struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ServiceID         *uint `gorm:"index" json:"service_id"`
	ServiceProviderID *uint `gorm:"index" json:"service_provider_id"`

	Weekday int `json:"weekday"`

	OpenTime  string `gorm:"size:5" json:"open_time"`
	CloseTime string `gorm:"size:5" json:"close_time"`

	BreakStart string `gorm:"size:5" json:"break_start"`
	BreakEnd   string `gorm:"size:5" json:"break_end"`

	SlotDurationMin int  `gorm:"default:30" json:"slot_duration_min"`
	Capacity        int  `gorm:"default:1" json:"capacity"`
	Active          bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
