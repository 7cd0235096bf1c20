package handlers

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/alysesue/bookings-api-sub001/internal/domain/booking"
	"github.com/alysesue/bookings-api-sub001/internal/cache"
	"github.com/alysesue/bookings-api-sub001/internal/dto"
	"github.com/alysesue/bookings-api-sub001/internal/httperr"
	"github.com/alysesue/bookings-api-sub001/internal/httpresp"
	"github.com/alysesue/bookings-api-sub001/internal/middleware"
	"github.com/alysesue/bookings-api-sub001/internal/usecase/timeslots"
)

// ======================================================
// HANDLER
// ======================================================

type TimeslotHandler struct {
	timeslots *timeslots.Service
	directory domain.Directory
	cache     *cache.AvailabilityCache
}

func NewTimeslotHandler(ts *timeslots.Service, directory domain.Directory, c *cache.AvailabilityCache) *TimeslotHandler {
	return &TimeslotHandler{
		timeslots: ts,
		directory: directory,
		cache:     c,
	}
}

// ======================================================
// AGGREGATED AVAILABILITY
// ======================================================

// Aggregated serves GET /services/:serviceId/timeslots. Responses are cached
// per service and query; any booking mutation on the service drops the whole
// cached set.
func (h *TimeslotHandler) Aggregated(c *gin.Context) {
	serviceID, err := strconv.ParseUint(c.Param("serviceId"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service id.")
		return
	}

	svc, err := h.directory.GetService(c.Request.Context(), uint(serviceID))
	if err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	start, err := parseDateInService(svc, c.Query("from"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid from date.")
		return
	}
	end, err := parseDateInService(svc, c.Query("to"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid to date.")
		return
	}
	end = end.AddDate(0, 0, 1)

	visible := middleware.VisibleProviderIDs(c)

	cacheKey := fmt.Sprintf("%s:%s:%v", c.Query("from"), c.Query("to"), visible)
	if h.cache != nil {
		if payload, ok := h.cache.Get(c.Request.Context(), uint(serviceID), cacheKey); ok {
			c.Data(200, "application/json", payload)
			return
		}
	}

	buckets, err := h.timeslots.GetAggregatedTimeslots(c.Request.Context(), timeslots.AggregateInput{
		ServiceID:       uint(serviceID),
		Start:           start,
		End:             end,
		IncludeBookings: true,
		ProviderIDs:     visible,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	resp := httpresp.ListResponse[dto.TimeslotEntryResponse]{
		Data:  dto.FromBuckets(buckets),
		Total: len(buckets),
	}

	if h.cache != nil {
		if payload, err := json.Marshal(resp); err == nil {
			h.cache.Set(c.Request.Context(), uint(serviceID), cacheKey, payload)
		}
	}

	c.JSON(200, resp)
}

// ======================================================
// PER-SLOT AVAILABILITY
// ======================================================

// ProvidersForSlot serves GET /services/:serviceId/timeslots/providers: the
// per-provider breakdown of one exact timeslot.
func (h *TimeslotHandler) ProvidersForSlot(c *gin.Context) {
	serviceID, err := strconv.ParseUint(c.Param("serviceId"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service id.")
		return
	}

	svc, err := h.directory.GetService(c.Request.Context(), uint(serviceID))
	if err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	start, err := parseDateTimeInService(svc, c.Query("start"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid start datetime.")
		return
	}
	end, err := parseDateTimeInService(svc, c.Query("end"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid end datetime.")
		return
	}

	in := timeslots.TimeslotInput{
		ServiceID: uint(serviceID),
		Start:     start,
		End:       end,
	}
	if raw := c.Query("provider_id"); raw != "" {
		pid, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			httperr.BadRequest(c, "invalid_provider_id", "Invalid provider id.")
			return
		}
		id := uint(pid)
		in.ProviderID = &id
	}

	results, err := h.timeslots.GetAvailableProvidersForTimeslot(c.Request.Context(), in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, dto.FromProviderResults(results))
}
