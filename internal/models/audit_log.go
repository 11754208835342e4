package models

import "time"

// AuditLog is one row of the back-office trail. Metadata holds the JSON
// encoded change set.
type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID *uint  `gorm:"index" json:"user_id,omitempty"`
	Action string `gorm:"size:50;not null;index" json:"action"`

	Entity   string `gorm:"size:50;index:idx_audit_entity" json:"entity"`
	EntityID *uint  `gorm:"index:idx_audit_entity" json:"entity_id,omitempty"`
	Metadata string `gorm:"type:text" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
