package models

import "time"

// Unavailability blocks a time window for a whole service or for a specific
// set of its providers.
type Unavailability struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ServiceID uint `gorm:"index" json:"service_id"`

	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	AllProviders bool              `gorm:"default:false" json:"all_providers"`
	Providers    []ServiceProvider `gorm:"many2many:unavailable_providers;" json:"providers,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Overlaps reports whether the blocked window collides with [start, end).
func (u *Unavailability) Overlaps(start, end time.Time) bool {
	return start.Before(u.End) && end.After(u.Start)
}
