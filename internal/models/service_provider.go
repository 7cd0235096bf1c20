package models

import "time"

type ServiceProvider struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ServiceID uint    `gorm:"index" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Email string `gorm:"size:100" json:"email"`
	Phone string `gorm:"size:20" json:"phone"`

	AutoAcceptBookings bool `gorm:"default:false" json:"auto_accept_bookings"`

	// ExpiryDate is the provider's licence expiry. An expired provider is
	// invisible to availability aggregation from that instant on.
	ExpiryDate *time.Time `json:"expiry_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsLicenceExpiredAt reports whether the provider can no longer serve a
// timeslot starting at t.
func (p *ServiceProvider) IsLicenceExpiredAt(t time.Time) bool {
	return p.ExpiryDate != nil && !p.ExpiryDate.After(t)
}
