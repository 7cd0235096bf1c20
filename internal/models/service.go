package models

import "time"

type Service struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Slug     string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Timezone string `gorm:"size:50" json:"timezone"`

	// IsOnHold makes every new citizen booking start in the on-hold state
	// until explicitly validated.
	IsOnHold bool `gorm:"default:false" json:"is_on_hold"`

	MinAdvanceMinutes int `gorm:"default:0" json:"min_advance_minutes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
