package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/alysesue/bookings-api-sub001/internal/audit"
	"github.com/alysesue/bookings-api-sub001/internal/cache"
	"github.com/alysesue/bookings-api-sub001/internal/httperr"
	"github.com/alysesue/bookings-api-sub001/internal/httpresp"
	"github.com/alysesue/bookings-api-sub001/internal/middleware"
	"github.com/alysesue/bookings-api-sub001/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type UnavailabilityHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	cache *cache.AvailabilityCache
}

func NewUnavailabilityHandler(
	db *gorm.DB,
	dispatcher *audit.Dispatcher,
	availability *cache.AvailabilityCache,
) *UnavailabilityHandler {
	return &UnavailabilityHandler{db: db, audit: dispatcher, cache: availability}
}

func (h *UnavailabilityHandler) invalidate(c *gin.Context, serviceID uint) {
	if h.cache != nil {
		h.cache.InvalidateService(c.Request.Context(), serviceID)
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateUnavailabilityRequest struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`

	AllProviders bool   `json:"all_providers"`
	ProviderIDs  []uint `json:"provider_ids"`
}

// ======================================================
// HANDLERS
// ======================================================

func (h *UnavailabilityHandler) Create(c *gin.Context) {
	serviceID, err := strconv.ParseUint(c.Param("serviceId"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service id.")
		return
	}

	var svc models.Service
	if err := h.db.First(&svc, uint(serviceID)).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	var req CreateUnavailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if !req.AllProviders && len(req.ProviderIDs) == 0 {
		httperr.BadRequest(c, "providers_required", "Name providers or block all of them.")
		return
	}

	start, err := parseDateTimeInService(&svc, req.Start)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid start datetime.")
		return
	}
	end, err := parseDateTimeInService(&svc, req.End)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid end datetime.")
		return
	}
	if !start.Before(end) {
		httperr.BadRequest(c, "invalid_time_range", "Start must precede end.")
		return
	}

	u := models.Unavailability{
		ServiceID:    svc.ID,
		Start:        start,
		End:          end,
		AllProviders: req.AllProviders,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if !req.AllProviders {
			var providers []models.ServiceProvider
			if err := tx.
				Where("service_id = ? AND id IN ?", svc.ID, req.ProviderIDs).
				Find(&providers).Error; err != nil {
				return err
			}
			if len(providers) != len(req.ProviderIDs) {
				return httperr.ErrNotFound("service_provider_not_found")
			}
			u.Providers = providers
		}

		return tx.Create(&u).Error
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	h.invalidate(c, svc.ID)

	userID := c.MustGet(middleware.ContextUserID).(uint)
	h.audit.Dispatch(audit.Event{
		ServiceID: svc.ID,
		UserID:    &userID,
		Action:    "unavailability_created",
		Entity:    "unavailability",
		EntityID:  &u.ID,
	})

	c.JSON(201, u)
}

func (h *UnavailabilityHandler) List(c *gin.Context) {
	serviceID, err := strconv.ParseUint(c.Param("serviceId"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service id.")
		return
	}

	var list []models.Unavailability
	if err := h.db.
		Preload("Providers").
		Where("service_id = ?", uint(serviceID)).
		Order("start").
		Find(&list).Error; err != nil {
		httperr.Internal(c, "failed_to_list_unavailabilities", "Could not list unavailabilities.")
		return
	}

	httpresp.List(c, list)
}

func (h *UnavailabilityHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid unavailability id.")
		return
	}

	var u models.Unavailability
	if err := h.db.First(&u, uint(id)).Error; err != nil {
		httperr.NotFound(c, "unavailability_not_found", "Unavailability not found.")
		return
	}

	if err := h.db.Select("Providers").Delete(&u).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_unavailability", "Could not delete unavailability.")
		return
	}

	h.invalidate(c, u.ServiceID)

	userID := c.MustGet(middleware.ContextUserID).(uint)
	h.audit.Dispatch(audit.Event{
		ServiceID: u.ServiceID,
		UserID:    &userID,
		Action:    "unavailability_deleted",
		Entity:    "unavailability",
		EntityID:  &u.ID,
	})

	c.Status(204)
}
