package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

// List pages through the audit trail, newest first. Filters: action,
// entity, entity_id, user_id and a from/to date range in the shop timezone.
func (h *AuditLogsHandler) List(c *gin.Context) {
	page, limit, offset := pagination(c, 50)

	// --------------------------------------------------
	// Filters
	// --------------------------------------------------

	q := h.db.Model(&models.AuditLog{})

	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}

	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}

	if v := c.Query("entity_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			q = q.Where("entity_id = ?", id)
		}
	}

	if v := c.Query("user_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			q = q.Where("user_id = ?", id)
		}
	}

	if v := c.Query("from"); v != "" {
		if from, err := timezone.ParseDate(v); err == nil {
			q = q.Where("created_at >= ?", from)
		}
	}

	if v := c.Query("to"); v != "" {
		if to, err := timezone.ParseDate(v); err == nil {
			q = q.Where("created_at < ?", to.AddDate(0, 0, 1))
		}
	}

	// --------------------------------------------------
	// Total
	// --------------------------------------------------

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Could not count audit logs.")
		return
	}

	// --------------------------------------------------
	// Page
	// --------------------------------------------------

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {

		httperr.Internal(c, "audit_list_failed", "Could not list audit logs.")
		return
	}

	httpresp.Page(c, logs, page, limit, total)
}

// pagination reads page and limit, capping limit at 200.
func pagination(c *gin.Context, defLimit int) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defLimit)))
	if limit <= 0 || limit > 200 {
		limit = defLimit
	}

	return page, limit, (page - 1) * limit
}
