package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type WorkingHoursHandler struct {
	db    *gorm.DB
	audit Auditor
}

func NewWorkingHoursHandler(db *gorm.DB, auditor Auditor) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db, audit: auditor}
}

type WorkingDayConfig struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	IsWorking  bool   `json:"is_working"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	HasBreak   bool   `json:"has_break"`
	BreakStart string `json:"break_start"`
	BreakEnd   string `json:"break_end"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,len=7,dive"`
}

// staffBarberParam reads :id and checks the caller may manage that barber.
func staffBarberParam(c *gin.Context) (uint, bool) {
	barberID, ok := paramID(c, "id")
	if !ok {
		return 0, false
	}
	if !middleware.Actor(c).CanManageBarber(barberID) {
		httperr.Forbidden(c, "not_owner", "You cannot change this resource.")
		return 0, false
	}
	return barberID, true
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	barberID, ok := staffBarberParam(c)
	if !ok {
		return
	}

	var hours []models.WorkingHours
	if err := h.db.
		Where("barber_id = ?", barberID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {

		httperr.Internal(c, "failed_to_get_working_hours", "Could not load working hours.")
		return
	}

	httpresp.OK(c, hours)
}

// Update replaces the whole week. Days are validated before anything is
// written so a bad week never reaches the availability reads.
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	barberID, ok := staffBarberParam(c)
	if !ok {
		return
	}

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request data.")
		return
	}

	week := make([]models.WorkingHours, 0, len(req.Days))
	for _, d := range req.Days {
		week = append(week, models.WorkingHours{
			BarberID:   barberID,
			Weekday:    d.Weekday,
			IsWorking:  d.IsWorking,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			HasBreak:   d.HasBreak,
			BreakStart: d.BreakStart,
			BreakEnd:   d.BreakEnd,
		})
	}

	if err := schedule.ValidateWeek(week); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error_code": "invalid_schedule",
			"message":    "Invalid working hours.",
			"details":    err.Error(),
		})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("barber_id = ?", barberID).Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		return tx.Create(&week).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_working_hours", "Could not save working hours.")
		return
	}

	writeAudit(c, h.audit, "working_hours_updated", "barber", barberID, nil)

	httpresp.OK(c, week)
}
