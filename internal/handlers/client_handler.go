package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

// List searches clients by name, phone or email. type=guest|registered
// narrows to walk-in or account-backed clients.
func (h *ClientHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Model(&models.Client{})

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	switch c.Query("type") {
	case "guest":
		q = q.Where("user_id IS NULL")
	case "registered":
		q = q.Where("user_id IS NOT NULL")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list_clients", "Could not list clients.")
		return
	}

	page, limit, offset := pagination(c, 20)

	var clients []models.Client
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&clients).Error; err != nil {

		httperr.Internal(c, "failed_to_list_clients", "Could not list clients.")
		return
	}

	httpresp.Page(c, clients, page, limit, total)
}
