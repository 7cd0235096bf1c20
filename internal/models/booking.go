package models

import "time"

type Booking struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	UUID string `gorm:"size:36;uniqueIndex" json:"uuid"`

	ServiceID uint    `gorm:"index" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	// ServiceProviderID stays nil until a provider is assigned (accept or
	// auto-assignment on creation).
	ServiceProviderID *uint            `gorm:"index" json:"service_provider_id"`
	ServiceProvider   *ServiceProvider `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service_provider,omitempty"`

	StartDateTime time.Time `gorm:"index" json:"start_date_time"`
	EndDateTime   time.Time `json:"end_date_time"`

	Status string `gorm:"size:20;default:'pending_approval'" json:"status"`

	// Version backs the optimistic-concurrency conditional update. Every
	// committed state change increments it by exactly one.
	Version int64 `gorm:"default:1" json:"version"`

	CitizenName  string `gorm:"size:100" json:"citizen_name"`
	CitizenEmail string `gorm:"size:100" json:"citizen_email"`
	CitizenPhone string `gorm:"size:20" json:"citizen_phone"`
	Description  string `gorm:"size:255" json:"description"`

	OnHoldUntil *time.Time `json:"on_hold_until"`

	CreatorID *uint `json:"creator_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsHoldExpired reports whether an on-hold reservation has lapsed at now.
func (b *Booking) IsHoldExpired(now time.Time) bool {
	return b.OnHoldUntil != nil && now.After(*b.OnHoldUntil)
}
