package handlers

import (
	"time"

	"github.com/alysesue/bookings-api-sub001/internal/models"
	"github.com/alysesue/bookings-api-sub001/internal/timezone"
)

// locationFromService resolves the service's official timezone.
func locationFromService(svc *models.Service) *time.Location {
	if svc != nil {
		return timezone.Location(svc.Timezone)
	}
	return timezone.Location("")
}

func parseDateTimeInService(svc *models.Service, value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02T15:04", value, locationFromService(svc))
}

func parseDateInService(svc *models.Service, value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", value, locationFromService(svc))
}
