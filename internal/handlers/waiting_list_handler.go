package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/waitinglist"
)

// WaitingListService is satisfied by *waitinglist.Service.
type WaitingListService interface {
	Join(ctx context.Context, in waitinglist.JoinInput) (*models.WaitingListEntry, error)
	ListMine(ctx context.Context, userID uint) ([]models.WaitingListEntry, error)
	Withdraw(ctx context.Context, userID, entryID uint) error
	List(ctx context.Context, status string) ([]models.WaitingListEntry, error)
	UpdateStatus(ctx context.Context, actorID, entryID uint, status string) (*models.WaitingListEntry, error)
}

type WaitingListHandler struct {
	svc     WaitingListService
	clients ClientFinder
}

func NewWaitingListHandler(svc WaitingListService, clients ClientFinder) *WaitingListHandler {
	return &WaitingListHandler{svc: svc, clients: clients}
}

type JoinWaitingListRequest struct {
	ServiceID      uint     `json:"service_id" binding:"required"`
	BarberID       *uint    `json:"barber_id"`
	PreferredDays  []string `json:"preferred_days"`
	PreferredTimes []string `json:"preferred_times"`
	Notes          string   `json:"notes"`
}

type WaitingListStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// CLIENT
// ======================================================

func (h *WaitingListHandler) Join(c *gin.Context) {
	var req JoinWaitingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request data.")
		return
	}

	userID := c.GetUint(middleware.ContextUserID)

	contact, err := contactFor(c.Request.Context(), h.clients, userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if contact.Phone == "" {
		httperr.Respond(c, httperr.ErrValidation("missing_client"))
		return
	}

	entry, err := h.svc.Join(c.Request.Context(), waitinglist.JoinInput{
		Client:         contact,
		BarberID:       req.BarberID,
		ServiceID:      req.ServiceID,
		PreferredDays:  req.PreferredDays,
		PreferredTimes: req.PreferredTimes,
		Notes:          req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, entry)
}

func (h *WaitingListHandler) ListMine(c *gin.Context) {
	entries, err := h.svc.ListMine(c.Request.Context(), c.GetUint(middleware.ContextUserID))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, entries)
}

func (h *WaitingListHandler) Withdraw(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Withdraw(c.Request.Context(), c.GetUint(middleware.ContextUserID), id); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.NoContent(c)
}

// ======================================================
// ADMIN
// ======================================================

func (h *WaitingListHandler) List(c *gin.Context) {
	entries, err := h.svc.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, entries)
}

func (h *WaitingListHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req WaitingListStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request data.")
		return
	}

	entry, err := h.svc.UpdateStatus(
		c.Request.Context(),
		c.GetUint(middleware.ContextUserID),
		id,
		req.Status,
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, entry)
}
