package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	apptuc "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

// ======================================================
// USE CASES
// ======================================================

type AvailabilityService interface {
	Execute(ctx context.Context, in appointment.AvailabilityInput) (*appointment.AvailabilityResult, error)
}

type AppointmentCreator interface {
	Execute(ctx context.Context, in apptuc.CreateAppointmentInput) (*models.Appointment, error)
}

type AppointmentUpdater interface {
	Execute(ctx context.Context, in apptuc.UpdateAppointmentInput) (*models.Appointment, error)
}

type AppointmentCanceller interface {
	Execute(ctx context.Context, actor appointment.Actor, id uint, reason string) (*models.Appointment, error)
}

type MyAppointmentsLister interface {
	Execute(ctx context.Context, actor appointment.Actor) ([]dto.AppointmentListDTO, error)
}

// ClientFinder returns the contact record of a registered user.
type ClientFinder interface {
	FindClientByUser(ctx context.Context, userID uint) (*models.Client, error)
}

type AppointmentUseCases struct {
	Availability AvailabilityService
	Create       AppointmentCreator
	Update       AppointmentUpdater
	Cancel       AppointmentCanceller
	ListMine     MyAppointmentsLister
	Clients      ClientFinder
}

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	uc AppointmentUseCases
}

func NewAppointmentHandler(uc AppointmentUseCases) *AppointmentHandler {
	return &AppointmentHandler{uc: uc}
}

// ======================================================
// REQUESTS
// ======================================================

type GuestAppointmentRequest struct {
	BarberID    uint   `json:"barber_id" binding:"required"`
	ServiceID   uint   `json:"service_id" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`
	Notes       string `json:"notes"`
}

type ClientAppointmentRequest struct {
	BarberID  uint   `json:"barber_id" binding:"required"`
	ServiceID uint   `json:"service_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required"`
	Notes     string `json:"notes"`

	// Optional overrides of the stored contact.
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
}

type EditAppointmentRequest struct {
	Date      string  `json:"date" binding:"required"`
	Time      string  `json:"time" binding:"required"`
	ServiceID uint    `json:"service_id"`
	Notes     *string `json:"notes"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

// ======================================================
// AVAILABLE SLOTS (PUBLIC)
// ======================================================

func (h *AppointmentHandler) AvailableSlots(c *gin.Context) {
	barberID, err := strconv.Atoi(c.Query("barberId"))
	if err != nil || barberID <= 0 {
		httperr.BadRequest(c, "invalid_barber", "barberId is required.")
		return
	}

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "invalid_date", "date is required.")
		return
	}

	in := appointment.AvailabilityInput{
		BarberID: uint(barberID),
		Date:     date,
	}

	if v := c.Query("duration"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d <= 0 {
			httperr.BadRequest(c, "invalid_duration", "Invalid duration.")
			return
		}
		in.DurationMin = d
	}

	if v := c.Query("serviceId"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			httperr.BadRequest(c, "invalid_request", "Invalid serviceId.")
			return
		}
		in.ServiceID = uint(id)
	}

	res, err := h.uc.Availability.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, res)
}

// ======================================================
// CREATE (GUEST)
// ======================================================

func (h *AppointmentHandler) CreateGuest(c *gin.Context) {
	var req GuestAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request data.")
		return
	}

	if !validators.IsPhoneValid(req.ClientPhone) {
		httperr.BadRequest(c, "invalid_phone", "Invalid phone number.")
		return
	}

	ap, err := h.uc.Create.Execute(c.Request.Context(), apptuc.CreateAppointmentInput{
		BarberID:  req.BarberID,
		ServiceID: req.ServiceID,
		Client: appointment.ClientContact{
			Name:  req.ClientName,
			Phone: validators.NormalizePhone(req.ClientPhone),
			Email: validators.NormalizeEmail(req.ClientEmail),
		},
		Date:  req.Date,
		Time:  req.Time,
		Notes: req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// CREATE (CLIENT)
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req ClientAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request data.")
		return
	}

	actor := middleware.Actor(c)

	contact, err := contactFor(c.Request.Context(), h.uc.Clients, actor.UserID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if req.ClientName != "" {
		contact.Name = req.ClientName
	}
	if req.ClientPhone != "" {
		if !validators.IsPhoneValid(req.ClientPhone) {
			httperr.BadRequest(c, "invalid_phone", "Invalid phone number.")
			return
		}
		contact.Phone = validators.NormalizePhone(req.ClientPhone)
	}

	ap, err := h.uc.Create.Execute(c.Request.Context(), apptuc.CreateAppointmentInput{
		Actor:     &actor,
		BarberID:  req.BarberID,
		ServiceID: req.ServiceID,
		Client:    contact,
		Date:      req.Date,
		Time:      req.Time,
		Notes:     req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// contactFor builds the booking contact of a registered client. A user
// without a client record books with an empty contact and gets missing_client.
func contactFor(ctx context.Context, clients ClientFinder, userID uint) (appointment.ClientContact, error) {
	contact := appointment.ClientContact{UserID: &userID}

	client, err := clients.FindClientByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, appointment.ErrNotFound) {
			return contact, nil
		}
		return contact, err
	}

	contact.Name = client.Name
	contact.Phone = client.Phone
	contact.Email = client.Email
	return contact, nil
}

// ======================================================
// MINE (CLIENT)
// ======================================================

func (h *AppointmentHandler) ListMine(c *gin.Context) {
	list, err := h.uc.ListMine.Execute(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, list)
}

// ======================================================
// EDIT (CLIENT)
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req EditAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request data.")
		return
	}

	ap, err := h.uc.Update.Execute(c.Request.Context(), apptuc.UpdateAppointmentInput{
		Actor:         middleware.Actor(c),
		AppointmentID: id,
		Date:          req.Date,
		Time:          req.Time,
		ServiceID:     req.ServiceID,
		Notes:         req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// CANCEL (CLIENT)
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	// Body is optional.
	var req CancelAppointmentRequest
	_ = c.ShouldBindJSON(&req)

	ap, err := h.uc.Cancel.Execute(c.Request.Context(), middleware.Actor(c), id, req.Reason)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// HELPERS
// ======================================================

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid id.")
		return 0, false
	}
	return uint(id), true
}
