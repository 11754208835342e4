package models

import "time"

// Client is the contact record an appointment points at. Registered clients
// carry their UserID; guests are matched by phone.
type Client struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID *uint `gorm:"uniqueIndex" json:"user_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20;index" json:"phone"`
	Email string `gorm:"size:100" json:"email"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Client) IsGuest() bool {
	return c.UserID == nil
}
