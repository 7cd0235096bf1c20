package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/alysesue/bookings-api-sub001/internal/domain/booking"
	"github.com/alysesue/bookings-api-sub001/internal/dto"
	"github.com/alysesue/bookings-api-sub001/internal/httperr"
	"github.com/alysesue/bookings-api-sub001/internal/httpresp"
	"github.com/alysesue/bookings-api-sub001/internal/middleware"
	"github.com/alysesue/bookings-api-sub001/internal/usecase/bookings"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	bookings  *bookings.Service
	directory domain.Directory
}

func NewBookingHandler(svc *bookings.Service, directory domain.Directory) *BookingHandler {
	return &BookingHandler{
		bookings:  svc,
		directory: directory,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	ServiceID         uint  `json:"service_id" binding:"required"`
	ServiceProviderID *uint `json:"service_provider_id"`

	// Local wall-clock datetimes, interpreted in the service's timezone.
	StartDateTime string `json:"start_date_time" binding:"required"`
	EndDateTime   string `json:"end_date_time" binding:"required"`

	CitizenName  string `json:"citizen_name"`
	CitizenEmail string `json:"citizen_email"`
	CitizenPhone string `json:"citizen_phone"`
	Description  string `json:"description"`
}

type AcceptBookingRequest struct {
	ServiceProviderID uint `json:"service_provider_id" binding:"required"`
}

type UpdateBookingRequest struct {
	StartDateTime *string `json:"start_date_time"`
	EndDateTime   *string `json:"end_date_time"`

	CitizenName  *string `json:"citizen_name"`
	CitizenEmail *string `json:"citizen_email"`
	CitizenPhone *string `json:"citizen_phone"`
	Description  *string `json:"description"`
}

type RescheduleBookingRequest struct {
	StartDateTime string `json:"start_date_time" binding:"required"`
	EndDateTime   string `json:"end_date_time" binding:"required"`
}

// ======================================================
// HELPERS
// ======================================================

func bookingID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_booking_id", "Invalid booking id.")
		return 0, false
	}
	return uint(id), true
}

// actingUser is nil on public routes.
func actingUser(c *gin.Context) *bookings.ActingUser {
	v, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok {
		return nil
	}
	name, _ := c.Get(middleware.ContextUserName)
	userName, _ := name.(string)
	return &bookings.ActingUser{ID: &id, Name: userName}
}

func isAdmin(c *gin.Context) bool {
	_, ok := c.Get(middleware.ContextUserID)
	return ok
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	svc, err := h.directory.GetService(c.Request.Context(), req.ServiceID)
	if err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	start, err := parseDateTimeInService(svc, req.StartDateTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid start datetime.")
		return
	}
	end, err := parseDateTimeInService(svc, req.EndDateTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid end datetime.")
		return
	}

	user := actingUser(c)

	created, err := h.bookings.Create(c.Request.Context(), user, bookings.CreateInput{
		ServiceID:         req.ServiceID,
		ServiceProviderID: req.ServiceProviderID,
		StartDateTime:     start,
		EndDateTime:       end,
		CitizenName:       req.CitizenName,
		CitizenEmail:      req.CitizenEmail,
		CitizenPhone:      req.CitizenPhone,
		Description:       req.Description,
		AdminCreated:      user != nil,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(201, dto.FromBooking(created))
}

// ======================================================
// TRANSITIONS
// ======================================================

func (h *BookingHandler) Accept(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req AcceptBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	b, err := h.bookings.Accept(c.Request.Context(), actingUser(c), id, req.ServiceProviderID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.FromBooking(b))
}

func (h *BookingHandler) Reject(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	b, err := h.bookings.Reject(c.Request.Context(), actingUser(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.FromBooking(b))
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	b, err := h.bookings.Cancel(c.Request.Context(), actingUser(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.FromBooking(b))
}

func (h *BookingHandler) Update(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	current, err := h.bookings.Get(c.Request.Context(), id)
	if err != nil {
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return
	}
	svc, err := h.directory.GetService(c.Request.Context(), current.ServiceID)
	if err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	in := bookings.UpdateInput{
		CitizenName:  req.CitizenName,
		CitizenEmail: req.CitizenEmail,
		CitizenPhone: req.CitizenPhone,
		Description:  req.Description,
		AdminActing:  isAdmin(c),
	}
	if req.StartDateTime != nil {
		start, err := parseDateTimeInService(svc, *req.StartDateTime)
		if err != nil {
			httperr.BadRequest(c, "invalid_date_or_time", "Invalid start datetime.")
			return
		}
		in.StartDateTime = &start
	}
	if req.EndDateTime != nil {
		end, err := parseDateTimeInService(svc, *req.EndDateTime)
		if err != nil {
			httperr.BadRequest(c, "invalid_date_or_time", "Invalid end datetime.")
			return
		}
		in.EndDateTime = &end
	}

	b, err := h.bookings.Update(c.Request.Context(), actingUser(c), id, in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.FromBooking(b))
}

func (h *BookingHandler) Reschedule(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req RescheduleBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	current, err := h.bookings.Get(c.Request.Context(), id)
	if err != nil {
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return
	}
	svc, err := h.directory.GetService(c.Request.Context(), current.ServiceID)
	if err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	start, err := parseDateTimeInService(svc, req.StartDateTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid start datetime.")
		return
	}
	end, err := parseDateTimeInService(svc, req.EndDateTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid end datetime.")
		return
	}

	b, err := h.bookings.Reschedule(c.Request.Context(), actingUser(c), id, start, end, isAdmin(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.FromBooking(b))
}

func (h *BookingHandler) ValidateOnHold(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	b, err := h.bookings.ValidateOnHold(c.Request.Context(), actingUser(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.FromBooking(b))
}

// ======================================================
// READS
// ======================================================

func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	b, err := h.bookings.Get(c.Request.Context(), id)
	if err != nil {
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return
	}
	httpresp.OK(c, dto.FromBooking(b))
}

func (h *BookingHandler) List(c *gin.Context) {
	serviceID, err := strconv.ParseUint(c.Query("service_id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service id.")
		return
	}

	svc, err := h.directory.GetService(c.Request.Context(), uint(serviceID))
	if err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	from, err := parseDateInService(svc, c.Query("from"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid from date.")
		return
	}
	to, err := parseDateInService(svc, c.Query("to"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid to date.")
		return
	}
	// "to" is inclusive at day granularity.
	to = to.AddDate(0, 0, 1)

	filter := domain.SearchFilter{
		ServiceID:         uint(serviceID),
		From:              from,
		To:                to,
		ProviderIDs:       middleware.VisibleProviderIDs(c),
		IncludeUnassigned: true,
	}
	if status := c.Query("status"); status != "" {
		filter.Statuses = []domain.Status{domain.Status(status)}
	}

	list, err := h.bookings.Search(c.Request.Context(), filter)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, dto.FromBookings(list))
}

func (h *BookingHandler) ChangeLogs(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	logs, err := h.bookings.ChangeLogsForBooking(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, dto.FromChangeLogs(logs))
}
