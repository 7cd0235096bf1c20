package handlers

import (
	"strconv"
	"time"

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

type ProviderHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	cache *cache.AvailabilityCache
}

func NewProviderHandler(
	db *gorm.DB,
	dispatcher *audit.Dispatcher,
	availability *cache.AvailabilityCache,
) *ProviderHandler {
	return &ProviderHandler{db: db, audit: dispatcher, cache: availability}
}

func (h *ProviderHandler) invalidate(c *gin.Context, serviceID uint) {
	if h.cache != nil {
		h.cache.InvalidateService(c.Request.Context(), serviceID)
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateProviderRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
	Phone string `json:"phone"`

	AutoAcceptBookings bool   `json:"auto_accept_bookings"`
	ExpiryDate         string `json:"expiry_date"`
}

type ScheduleRowRequest struct {
	Weekday int `json:"weekday" binding:"min=0,max=6"`

	OpenTime  string `json:"open_time" binding:"required"`
	CloseTime string `json:"close_time" binding:"required"`

	BreakStart string `json:"break_start"`
	BreakEnd   string `json:"break_end"`

	SlotDurationMin int  `json:"slot_duration_min"`
	Capacity        int  `json:"capacity"`
	Active          bool `json:"active"`
}

type SetSchedulesRequest struct {
	Rows []ScheduleRowRequest `json:"rows" binding:"required"`
}

// ======================================================
// PROVIDERS
// ======================================================

func (h *ProviderHandler) Create(c *gin.Context) {
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

	var req CreateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	p := models.ServiceProvider{
		ServiceID:          svc.ID,
		Name:               req.Name,
		Email:              req.Email,
		Phone:              req.Phone,
		AutoAcceptBookings: req.AutoAcceptBookings,
	}

	if req.ExpiryDate != "" {
		expiry, err := parseDateInService(&svc, req.ExpiryDate)
		if err != nil {
			httperr.BadRequest(c, "invalid_date_or_time", "Invalid expiry date.")
			return
		}
		p.ExpiryDate = &expiry
	}

	if err := h.db.Create(&p).Error; err != nil {
		httperr.Internal(c, "failed_to_create_provider", "Could not create provider.")
		return
	}

	h.invalidate(c, svc.ID)

	userID := c.MustGet(middleware.ContextUserID).(uint)
	h.audit.Dispatch(audit.Event{
		ServiceID: svc.ID,
		UserID:    &userID,
		Action:    "provider_created",
		Entity:    "service_provider",
		EntityID:  &p.ID,
	})

	c.JSON(201, p)
}

func (h *ProviderHandler) List(c *gin.Context) {
	serviceID, err := strconv.ParseUint(c.Param("serviceId"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service id.")
		return
	}

	var providers []models.ServiceProvider
	if err := h.db.
		Where("service_id = ?", uint(serviceID)).
		Order("id").
		Find(&providers).Error; err != nil {
		httperr.Internal(c, "failed_to_list_providers", "Could not list providers.")
		return
	}

	httpresp.List(c, providers)
}

// ======================================================
// WEEKDAY SCHEDULES
// ======================================================

// SetSchedules replaces the provider's weekday rows in one transaction. An
// empty row set removes the override, falling back to the service schedule.
func (h *ProviderHandler) SetSchedules(c *gin.Context) {
	providerID, err := strconv.ParseUint(c.Param("providerId"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_provider_id", "Invalid provider id.")
		return
	}

	var provider models.ServiceProvider
	if err := h.db.First(&provider, uint(providerID)).Error; err != nil {
		httperr.NotFound(c, "service_provider_not_found", "Provider not found.")
		return
	}

	var req SetSchedulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	for _, row := range req.Rows {
		if !isValidClock(row.OpenTime) || !isValidClock(row.CloseTime) {
			httperr.BadRequest(c, "invalid_schedule_row", "open_time and close_time must be HH:MM.")
			return
		}
	}

	pid := uint(providerID)

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("service_provider_id = ?", pid).
			Delete(&models.WeekdaySchedule{}).Error; err != nil {
			return err
		}

		for _, row := range req.Rows {
			ws := models.WeekdaySchedule{
				ServiceProviderID: &pid,
				Weekday:           row.Weekday,
				OpenTime:          row.OpenTime,
				CloseTime:         row.CloseTime,
				BreakStart:        row.BreakStart,
				BreakEnd:          row.BreakEnd,
				SlotDurationMin:   row.SlotDurationMin,
				Capacity:          row.Capacity,
				Active:            row.Active,
			}
			if err := tx.Create(&ws).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		httperr.Internal(c, "failed_to_set_schedules", "Could not save schedules.")
		return
	}

	h.invalidate(c, provider.ServiceID)

	userID := c.MustGet(middleware.ContextUserID).(uint)
	h.audit.Dispatch(audit.Event{
		ServiceID: provider.ServiceID,
		UserID:    &userID,
		Action:    "schedules_replaced",
		Entity:    "weekday_schedule",
		EntityID:  &pid,
		Metadata:  gin.H{"rows": len(req.Rows)},
	})

	c.JSON(200, gin.H{"rows": len(req.Rows)})
}

func (h *ProviderHandler) ListSchedules(c *gin.Context) {
	providerID, err := strconv.ParseUint(c.Param("providerId"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_provider_id", "Invalid provider id.")
		return
	}

	var rows []models.WeekdaySchedule
	if err := h.db.
		Where("service_provider_id = ?", uint(providerID)).
		Order("weekday, open_time").
		Find(&rows).Error; err != nil {
		httperr.Internal(c, "failed_to_list_schedules", "Could not list schedules.")
		return
	}

	httpresp.List(c, rows)
}

func isValidClock(v string) bool {
	_, err := time.Parse("15:04", v)
	return err == nil
}
