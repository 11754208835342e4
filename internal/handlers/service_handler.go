package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type ServiceHandler struct {
	db    *gorm.DB
	audit Auditor
}

func NewServiceHandler(db *gorm.DB, auditor Auditor) *ServiceHandler {
	return &ServiceHandler{db: db, audit: auditor}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	DurationMin int     `json:"duration_min" binding:"required,min=15"`
	Price       float64 `json:"price" binding:"min=0"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	DurationMin *int     `json:"duration_min,omitempty" binding:"omitempty,min=15"`
	Price       *float64 `json:"price,omitempty" binding:"omitempty,min=0"`
	Active      *bool    `json:"active,omitempty"`
}

// --------- Handlers ---------

// List includes inactive services, unlike the public catalog.
func (h *ServiceHandler) List(c *gin.Context) {
	activeStr := strings.TrimSpace(c.Query("active"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Model(&models.Service{})

	switch activeStr {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Could not list services.")
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request data.")
		return
	}

	svc := models.Service{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Active:      true,
	}

	if err := h.db.Create(&svc).Error; err != nil {
		if repository.IsUniqueViolation(err) {
			httperr.Respond(c, httperr.ErrConflict("service_name_taken"))
			return
		}
		httperr.Internal(c, "failed_to_create_service", "Could not create service.")
		return
	}

	writeAudit(c, h.audit, "service_created", "service", svc.ID, nil)

	httpresp.Created(c, svc)
}

// Update leaves booked appointments untouched; they keep their snapshot.
func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var svc models.Service
	if err := h.db.First(&svc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", "Service not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_service", "Could not load service.")
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request data.")
		return
	}

	if req.Name != nil {
		svc.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.DurationMin != nil {
		svc.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := h.db.Save(&svc).Error; err != nil {
		if repository.IsUniqueViolation(err) {
			httperr.Respond(c, httperr.ErrConflict("service_name_taken"))
			return
		}
		httperr.Internal(c, "failed_to_update_service", "Could not update service.")
		return
	}

	writeAudit(c, h.audit, "service_updated", "service", svc.ID, req)

	httpresp.OK(c, svc)
}
