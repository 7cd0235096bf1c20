package bookings

import (
	"encoding/json"
	"time"

	"github.com/alysesue/bookings-api-sub001/internal/models"
)

// bookingSnapshot is the change-log view of a booking: the fields a
// transition is allowed to touch, nothing else.
type bookingSnapshot struct {
	ServiceID         uint       `json:"service_id"`
	ServiceProviderID *uint      `json:"service_provider_id"`
	StartDateTime     time.Time  `json:"start_date_time"`
	EndDateTime       time.Time  `json:"end_date_time"`
	Status            string     `json:"status"`
	CitizenName       string     `json:"citizen_name"`
	CitizenEmail      string     `json:"citizen_email"`
	CitizenPhone      string     `json:"citizen_phone"`
	Description       string     `json:"description"`
	OnHoldUntil       *time.Time `json:"on_hold_until"`
	Version           int64      `json:"version"`
}

func snapshot(b *models.Booking) string {
	if b == nil {
		return "{}"
	}

	j, err := json.Marshal(bookingSnapshot{
		ServiceID:         b.ServiceID,
		ServiceProviderID: b.ServiceProviderID,
		StartDateTime:     b.StartDateTime,
		EndDateTime:       b.EndDateTime,
		Status:            b.Status,
		CitizenName:       b.CitizenName,
		CitizenEmail:      b.CitizenEmail,
		CitizenPhone:      b.CitizenPhone,
		Description:       b.Description,
		OnHoldUntil:       b.OnHoldUntil,
		Version:           b.Version,
	})
	if err != nil {
		return "{}"
	}
	return string(j)
}
