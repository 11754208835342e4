package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type VacationHandler struct {
	db    *gorm.DB
	audit Auditor
}

func NewVacationHandler(db *gorm.DB, auditor Auditor) *VacationHandler {
	return &VacationHandler{db: db, audit: auditor}
}

type VacationRequest struct {
	StartDate string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate   string `json:"end_date" binding:"required"`   // YYYY-MM-DD, inclusive
	Reason    string `json:"reason"`
}

// ======================================================
// LIST
// ======================================================

func (h *VacationHandler) List(c *gin.Context) {
	barberID, ok := staffBarberParam(c)
	if !ok {
		return
	}

	var vacations []models.Vacation
	if err := h.db.
		Where("barber_id = ?", barberID).
		Order("start_date ASC").
		Find(&vacations).Error; err != nil {

		httperr.Internal(c, "failed_to_list_vacations", "Could not load vacations.")
		return
	}

	httpresp.List(c, vacations)
}

// ======================================================
// CREATE
// ======================================================

func (h *VacationHandler) Create(c *gin.Context) {
	barberID, ok := staffBarberParam(c)
	if !ok {
		return
	}

	var req VacationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request data.")
		return
	}

	start, err1 := timezone.ParseDate(req.StartDate)
	end, err2 := timezone.ParseDate(req.EndDate)
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	from, to, err := schedule.NormalizeVacation(start, end, timezone.Shop())
	if err != nil {
		httperr.BadRequest(c, "invalid_vacation", "Invalid vacation range.")
		return
	}

	v := models.Vacation{
		BarberID:  barberID,
		StartDate: from,
		EndDate:   to,
		Reason:    req.Reason,
	}

	if err := h.db.Create(&v).Error; err != nil {
		httperr.Internal(c, "failed_to_create_vacation", "Could not save vacation.")
		return
	}

	writeAudit(c, h.audit, "vacation_created", "vacation", v.ID, gin.H{
		"barber_id":  barberID,
		"start_date": req.StartDate,
		"end_date":   req.EndDate,
	})

	httpresp.Created(c, v)
}

// ======================================================
// DELETE
// ======================================================

func (h *VacationHandler) Delete(c *gin.Context) {
	barberID, ok := staffBarberParam(c)
	if !ok {
		return
	}

	vacationID, ok := paramID(c, "vacationId")
	if !ok {
		return
	}

	var v models.Vacation
	if err := h.db.
		Where("id = ? AND barber_id = ?", vacationID, barberID).
		First(&v).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "vacation_not_found", "Vacation not found.")
			return
		}
		httperr.Internal(c, "failed_to_load_vacation", "Could not load vacation.")
		return
	}

	if err := h.db.Delete(&v).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_vacation", "Could not delete vacation.")
		return
	}

	writeAudit(c, h.audit, "vacation_deleted", "vacation", v.ID, nil)

	httpresp.NoContent(c)
}
