package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves the catalog a visitor needs before booking.
type PublicHandler struct {
	db *gorm.DB
}

func NewPublicHandler(db *gorm.DB) *PublicHandler {
	return &PublicHandler{db: db}
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.Where("active = true")

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Could not list services.")
		return
	}

	httpresp.List(c, services)
}

////////////////////////////////////////////////////////
// BARBERS
////////////////////////////////////////////////////////

// ListBarbers returns active barbers, optionally only those offering
// serviceId.
func (h *PublicHandler) ListBarbers(c *gin.Context) {
	q := h.db.
		Preload("Services", "active = true").
		Where("barbers.active = true")

	if serviceID := c.Query("serviceId"); serviceID != "" {
		q = q.
			Joins("JOIN barber_services bs ON bs.barber_id = barbers.id").
			Where("bs.service_id = ?", serviceID)
	}

	var barbers []models.Barber
	if err := q.Order("barbers.name ASC").Find(&barbers).Error; err != nil {
		httperr.Internal(c, "failed_to_list_barbers", "Could not list barbers.")
		return
	}

	httpresp.List(c, barbers)
}

func (h *PublicHandler) GetBarber(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	barber, ok := h.loadBarber(c, id)
	if !ok {
		return
	}

	httpresp.OK(c, barber)
}

////////////////////////////////////////////////////////
// CHECK VACATION
////////////////////////////////////////////////////////

func (h *PublicHandler) CheckVacation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	date, err := timezone.ParseDate(c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	barber, ok := h.loadBarber(c, id)
	if !ok {
		return
	}

	v, on := schedule.OnVacation(barber.Vacations, date)

	c.JSON(http.StatusOK, gin.H{
		"on_vacation": on,
		"vacation":    v,
	})
}

func (h *PublicHandler) loadBarber(c *gin.Context, id uint) (*models.Barber, bool) {
	var barber models.Barber
	err := h.db.
		Preload("Services", "active = true").
		Preload("WorkingHours", func(db *gorm.DB) *gorm.DB {
			return db.Order("weekday ASC")
		}).
		Preload("Vacations").
		First(&barber, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "barber_not_found", "Barber not found.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_load_barber", "Could not load barber.")
		return nil, false
	}
	return &barber, true
}
