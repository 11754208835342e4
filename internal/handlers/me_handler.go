package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

// GetMe returns the logged user with the client or barber profile
// matching their role.
func (h *MeHandler) GetMe(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "user_not_found", "User not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_user", "Could not load user.")
		return
	}

	resp := gin.H{"user": user}

	switch user.Role {
	case models.RoleClient:
		var client models.Client
		if err := h.db.Where("user_id = ?", user.ID).First(&client).Error; err == nil {
			resp["client"] = client
		}
	case models.RoleBarber:
		var barber models.Barber
		if err := h.db.Preload("Services").Where("user_id = ?", user.ID).First(&barber).Error; err == nil {
			resp["barber"] = barber
		}
	}

	c.JSON(http.StatusOK, resp)
}
