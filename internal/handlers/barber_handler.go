package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

// BarberHandler is the admin side of the barber roster.
type BarberHandler struct {
	db    *gorm.DB
	audit Auditor
}

func NewBarberHandler(db *gorm.DB, auditor Auditor) *BarberHandler {
	return &BarberHandler{db: db, audit: auditor}
}

type CreateBarberRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"omitempty,email"`
	Phone      string `json:"phone"`
	Bio        string `json:"bio"`
	ServiceIDs []uint `json:"service_ids"`

	// Password creates a staff login for the barber.
	Password string `json:"password" binding:"omitempty,min=6"`
}

type UpdateBarberRequest struct {
	Name       *string `json:"name"`
	Phone      *string `json:"phone"`
	Bio        *string `json:"bio"`
	Active     *bool   `json:"active"`
	ServiceIDs *[]uint `json:"service_ids"`
}

func (h *BarberHandler) Create(c *gin.Context) {
	var req CreateBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request data.")
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if req.Password != "" && email == "" {
		httperr.BadRequest(c, "invalid_email", "A staff login needs an email.")
		return
	}

	services, ok := h.loadServices(c, req.ServiceIDs)
	if !ok {
		return
	}

	barber := models.Barber{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Phone:    req.Phone,
		Bio:      req.Bio,
		Active:   true,
		Services: services,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if req.Password != "" {
			hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			user := models.User{
				Name:         barber.Name,
				Email:        email,
				PasswordHash: string(hashed),
				Phone:        req.Phone,
				Role:         models.RoleBarber,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			barber.UserID = &user.ID
		}
		return tx.Create(&barber).Error
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			httperr.Respond(c, httperr.ErrConflict("email_taken"))
			return
		}
		httperr.Internal(c, "failed_to_create_barber", "Could not create barber.")
		return
	}

	writeAudit(c, h.audit, "barber_created", "barber", barber.ID, gin.H{"service_ids": req.ServiceIDs})

	httpresp.Created(c, barber)
}

func (h *BarberHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var barber models.Barber
	if err := h.db.First(&barber, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "barber_not_found", "Barber not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_barber", "Could not load barber.")
		return
	}

	var req UpdateBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request data.")
		return
	}

	if req.Name != nil {
		barber.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		barber.Phone = *req.Phone
	}
	if req.Bio != nil {
		barber.Bio = *req.Bio
	}
	if req.Active != nil {
		barber.Active = *req.Active
	}

	var services []models.Service
	if req.ServiceIDs != nil {
		if services, ok = h.loadServices(c, *req.ServiceIDs); !ok {
			return
		}
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Services", "WorkingHours", "Vacations").Save(&barber).Error; err != nil {
			return err
		}
		if req.ServiceIDs == nil {
			return nil
		}
		return tx.Model(&barber).Association("Services").Replace(services)
	})
	if err != nil {
		httperr.Internal(c, "failed_to_update_barber", "Could not update barber.")
		return
	}

	if err := h.db.Preload("Services").First(&barber, barber.ID).Error; err != nil {
		httperr.Internal(c, "failed_to_get_barber", "Could not load barber.")
		return
	}

	writeAudit(c, h.audit, "barber_updated", "barber", barber.ID, req)

	httpresp.OK(c, barber)
}

// loadServices resolves ids to rows and rejects unknown ones.
func (h *BarberHandler) loadServices(c *gin.Context, ids []uint) ([]models.Service, bool) {
	if len(ids) == 0 {
		return []models.Service{}, true
	}

	var services []models.Service
	if err := h.db.Where("id IN ?", ids).Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_get_services", "Could not load services.")
		return nil, false
	}

	seen := map[uint]bool{}
	for _, s := range services {
		seen[s.ID] = true
	}
	for _, id := range ids {
		if !seen[id] {
			httperr.NotFound(c, "service_not_found", "Service not found.")
			return nil, false
		}
	}
	return services, true
}
