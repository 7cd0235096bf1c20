package dto

import (
	"time"

	"github.com/alysesue/bookings-api-sub001/internal/domain/timeslot"
	"github.com/alysesue/bookings-api-sub001/internal/usecase/timeslots"
)

// ======================================================
// TIMESLOTS
// ======================================================

type TimeslotEntryResponse struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	AvailabilityCount int `json:"availability_count"`

	AvailableProviderIDs []uint `json:"available_provider_ids"`

	PendingUnassigned int `json:"pending_unassigned"`
}

func FromBuckets(buckets []*timeslot.AvailableTimeslotProviders) []TimeslotEntryResponse {
	out := make([]TimeslotEntryResponse, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, TimeslotEntryResponse{
			StartTime:            b.StartTime,
			EndTime:              b.EndTime,
			AvailabilityCount:    b.AvailabilityCount(),
			AvailableProviderIDs: b.AvailableProviderIDs(),
			PendingUnassigned:    b.PendingUnassignedCount(),
		})
	}
	return out
}

type ProviderTimeslotResponse struct {
	ProviderID   uint   `json:"provider_id"`
	ProviderName string `json:"provider_name"`

	Capacity          int `json:"capacity"`
	AcceptedBookings  int `json:"accepted_bookings"`
	PendingBookings   int `json:"pending_bookings"`
	AvailabilityCount int `json:"availability_count"`
}

func FromProviderResults(results []timeslots.ProviderTimeslotResult) []ProviderTimeslotResponse {
	out := make([]ProviderTimeslotResponse, 0, len(results))
	for _, r := range results {
		out = append(out, ProviderTimeslotResponse{
			ProviderID:        r.Provider.ID,
			ProviderName:      r.Provider.Name,
			Capacity:          r.Capacity,
			AcceptedBookings:  len(r.AcceptedBookings),
			PendingBookings:   len(r.PendingBookings),
			AvailabilityCount: r.AvailabilityCount,
		})
	}
	return out
}
