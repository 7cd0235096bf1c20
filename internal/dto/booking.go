package dto

import (
	"time"

	"github.com/alysesue/bookings-api-sub001/internal/models"
)

// ======================================================
// BOOKINGS
// ======================================================

type BookingResponse struct {
	ID   uint   `json:"id"`
	UUID string `json:"uuid"`

	ServiceID         uint  `json:"service_id"`
	ServiceProviderID *uint `json:"service_provider_id"`

	ServiceProviderName string `json:"service_provider_name,omitempty"`

	StartDateTime time.Time `json:"start_date_time"`
	EndDateTime   time.Time `json:"end_date_time"`

	Status  string `json:"status"`
	Version int64  `json:"version"`

	CitizenName  string `json:"citizen_name"`
	CitizenEmail string `json:"citizen_email"`
	CitizenPhone string `json:"citizen_phone"`
	Description  string `json:"description"`

	OnHoldUntil *time.Time `json:"on_hold_until,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromBooking(b *models.Booking) BookingResponse {
	resp := BookingResponse{
		ID:                b.ID,
		UUID:              b.UUID,
		ServiceID:         b.ServiceID,
		ServiceProviderID: b.ServiceProviderID,
		StartDateTime:     b.StartDateTime,
		EndDateTime:       b.EndDateTime,
		Status:            b.Status,
		Version:           b.Version,
		CitizenName:       b.CitizenName,
		CitizenEmail:      b.CitizenEmail,
		CitizenPhone:      b.CitizenPhone,
		Description:       b.Description,
		OnHoldUntil:       b.OnHoldUntil,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
	if b.ServiceProvider != nil {
		resp.ServiceProviderName = b.ServiceProvider.Name
	}
	return resp
}

func FromBookings(bs []*models.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bs))
	for _, b := range bs {
		out = append(out, FromBooking(b))
	}
	return out
}

type ChangeLogResponse struct {
	ID        uint      `json:"id"`
	BookingID uint      `json:"booking_id"`
	Action    string    `json:"action"`
	UserID    *uint     `json:"user_id"`
	UserName  string    `json:"user_name"`
	Previous  string    `json:"previous_state"`
	New       string    `json:"new_state"`
	Timestamp time.Time `json:"timestamp"`
}

func FromChangeLogs(logs []models.BookingChangeLog) []ChangeLogResponse {
	out := make([]ChangeLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, ChangeLogResponse{
			ID:        l.ID,
			BookingID: l.BookingID,
			Action:    l.Action,
			UserID:    l.UserID,
			UserName:  l.UserName,
			Previous:  l.PreviousState,
			New:       l.NewState,
			Timestamp: l.Timestamp,
		})
	}
	return out
}
