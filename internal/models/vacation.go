package models

import "time"

// Vacation is an inclusive full-day range. StartDate is stored at 00:00:00.000
// and EndDate at 23:59:59.999 in the shop timezone.
type Vacation struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BarberID uint `gorm:"index" json:"barber_id"`

	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	Reason    string    `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}
