package handlers

import (
	"context"
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

type DayLister interface {
	Execute(ctx context.Context, actor appointment.Actor, barberID uint, date string) ([]dto.AppointmentListDTO, error)
}

type MonthLister interface {
	Execute(ctx context.Context, actor appointment.Actor, barberID uint, year, month int) ([]dto.AppointmentListDTO, error)
}

type StatusChanger interface {
	Execute(ctx context.Context, actor appointment.Actor, id uint, status, reason string) (*models.Appointment, error)
}

type StaffUseCases struct {
	ListByDate   DayLister
	ListByMonth  MonthLister
	ChangeStatus StatusChanger
	Create       AppointmentCreator
}

// ======================================================
// HANDLER
// ======================================================

type StaffHandler struct {
	uc StaffUseCases
}

func NewStaffHandler(uc StaffUseCases) *StaffHandler {
	return &StaffHandler{uc: uc}
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// ======================================================
// LIST BY DATE
// ======================================================

// ListByDate serves GET /staff/appointments?date=YYYY-MM-DD[&barberId=].
// Barbers default to their own calendar.
func (h *StaffHandler) ListByDate(c *gin.Context) {
	barberID, ok := queryBarberID(c)
	if !ok {
		return
	}

	list, err := h.uc.ListByDate.Execute(
		c.Request.Context(),
		middleware.Actor(c),
		barberID,
		c.Query("date"),
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, list)
}

// ======================================================
// LIST BY MONTH
// ======================================================

func (h *StaffHandler) ListByMonth(c *gin.Context) {
	barberID, ok := queryBarberID(c)
	if !ok {
		return
	}

	year, err1 := strconv.Atoi(c.Query("year"))
	month, err2 := strconv.Atoi(c.Query("month"))
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, "invalid_date", "year and month are required.")
		return
	}

	list, err := h.uc.ListByMonth.Execute(
		c.Request.Context(),
		middleware.Actor(c),
		barberID,
		year,
		month,
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, list)
}

// ======================================================
// STATUS
// ======================================================

func (h *StaffHandler) ChangeStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request data.")
		return
	}

	ap, err := h.uc.ChangeStatus.Execute(
		c.Request.Context(),
		middleware.Actor(c),
		id,
		req.Status,
		req.Reason,
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// CREATE (ADMIN)
// ======================================================

// Create books on behalf of a walk-in or phone client. The same slot rules
// as a client booking apply.
func (h *StaffHandler) Create(c *gin.Context) {
	var req GuestAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request data.")
		return
	}

	if !validators.IsPhoneValid(req.ClientPhone) {
		httperr.BadRequest(c, "invalid_phone", "Invalid phone number.")
		return
	}

	actor := middleware.Actor(c)

	ap, err := h.uc.Create.Execute(c.Request.Context(), apptuc.CreateAppointmentInput{
		Actor:     &actor,
		BarberID:  req.BarberID,
		ServiceID: req.ServiceID,
		Client: appointment.ClientContact{
			Name:  req.ClientName,
			Phone: validators.NormalizePhone(req.ClientPhone),
			Email: req.ClientEmail,
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

func queryBarberID(c *gin.Context) (uint, bool) {
	v := c.Query("barberId")
	if v == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_barber", "Invalid barberId.")
		return 0, false
	}
	return uint(id), true
}
