package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/alysesue/bookings-api-sub001/internal/audit"
	"github.com/alysesue/bookings-api-sub001/internal/cache"
	"github.com/alysesue/bookings-api-sub001/internal/httperr"
	"github.com/alysesue/bookings-api-sub001/internal/httpresp"
	"github.com/alysesue/bookings-api-sub001/internal/middleware"
	"github.com/alysesue/bookings-api-sub001/internal/models"
	"github.com/alysesue/bookings-api-sub001/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type ServiceHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	cache *cache.AvailabilityCache
}

func NewServiceHandler(
	db *gorm.DB,
	dispatcher *audit.Dispatcher,
	availability *cache.AvailabilityCache,
) *ServiceHandler {
	return &ServiceHandler{db: db, audit: dispatcher, cache: availability}
}

func (h *ServiceHandler) invalidate(c *gin.Context, serviceID uint) {
	if h.cache != nil {
		h.cache.InvalidateService(c.Request.Context(), serviceID)
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateServiceRequest struct {
	Name     string `json:"name" binding:"required"`
	Slug     string `json:"slug" binding:"required"`
	Timezone string `json:"timezone"`

	IsOnHold          bool `json:"is_on_hold"`
	MinAdvanceMinutes int  `json:"min_advance_minutes"`
}

type UpdateServiceRequest struct {
	Name     *string `json:"name"`
	Timezone *string `json:"timezone"`

	IsOnHold          *bool `json:"is_on_hold"`
	MinAdvanceMinutes *int  `json:"min_advance_minutes"`
}

// ======================================================
// SERVICES
// ======================================================

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))

	var count int64
	h.db.Model(&models.Service{}).Where("slug = ?", slug).Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "slug_already_exists", "A service with this slug already exists.")
		return
	}

	tz := req.Timezone
	if tz == "" {
		tz = timezone.DefaultTimezone
	}
	if !timezone.IsValid(tz) {
		httperr.BadRequest(c, "invalid_timezone", "Unknown timezone.")
		return
	}

	svc := models.Service{
		Name:              req.Name,
		Slug:              slug,
		Timezone:          tz,
		IsOnHold:          req.IsOnHold,
		MinAdvanceMinutes: req.MinAdvanceMinutes,
	}

	if err := h.db.Create(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Could not create service.")
		return
	}

	userID := c.MustGet(middleware.ContextUserID).(uint)
	h.audit.Dispatch(audit.Event{
		ServiceID: svc.ID,
		UserID:    &userID,
		Action:    "service_created",
		Entity:    "service",
		EntityID:  &svc.ID,
	})

	c.JSON(201, svc)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("serviceId"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service id.")
		return
	}

	var svc models.Service
	if err := h.db.First(&svc, uint(id)).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}
	httpresp.OK(c, svc)
}

func (h *ServiceHandler) List(c *gin.Context) {
	var list []models.Service
	if err := h.db.Order("id").Find(&list).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Could not list services.")
		return
	}
	httpresp.List(c, list)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("serviceId"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service id.")
		return
	}

	var svc models.Service
	if err := h.db.First(&svc, uint(id)).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown timezone.")
			return
		}
		svc.Timezone = *req.Timezone
	}
	if req.IsOnHold != nil {
		svc.IsOnHold = *req.IsOnHold
	}
	if req.MinAdvanceMinutes != nil {
		svc.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}

	if err := h.db.Save(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Could not update service.")
		return
	}

	// A timezone change shifts every generated slot.
	h.invalidate(c, svc.ID)

	userID := c.MustGet(middleware.ContextUserID).(uint)
	h.audit.Dispatch(audit.Event{
		ServiceID: svc.ID,
		UserID:    &userID,
		Action:    "service_updated",
		Entity:    "service",
		EntityID:  &svc.ID,
	})

	httpresp.OK(c, svc)
}

// ======================================================
// WEEKDAY SCHEDULES (service defaults)
// ======================================================

func (h *ServiceHandler) SetSchedules(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("serviceId"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service id.")
		return
	}

	var svc models.Service
	if err := h.db.First(&svc, uint(id)).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
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

	sid := svc.ID

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("service_id = ?", sid).
			Delete(&models.WeekdaySchedule{}).Error; err != nil {
			return err
		}

		for _, row := range req.Rows {
			ws := models.WeekdaySchedule{
				ServiceID:       &sid,
				Weekday:         row.Weekday,
				OpenTime:        row.OpenTime,
				CloseTime:       row.CloseTime,
				BreakStart:      row.BreakStart,
				BreakEnd:        row.BreakEnd,
				SlotDurationMin: row.SlotDurationMin,
				Capacity:        row.Capacity,
				Active:          row.Active,
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

	h.invalidate(c, svc.ID)

	userID := c.MustGet(middleware.ContextUserID).(uint)
	h.audit.Dispatch(audit.Event{
		ServiceID: svc.ID,
		UserID:    &userID,
		Action:    "schedules_replaced",
		Entity:    "weekday_schedule",
		EntityID:  &sid,
		Metadata:  gin.H{"rows": len(req.Rows)},
	})

	c.JSON(200, gin.H{"rows": len(req.Rows)})
}

func (h *ServiceHandler) ListSchedules(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("serviceId"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service id.")
		return
	}

	var rows []models.WeekdaySchedule
	if err := h.db.
		Where("service_id = ?", uint(id)).
		Order("weekday, open_time").
		Find(&rows).Error; err != nil {
		httperr.Internal(c, "failed_to_list_schedules", "Could not list schedules.")
		return
	}

	httpresp.List(c, rows)
}
