package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarberID uint   `gorm:"index:idx_appointment_barber_date" json:"barber_id"`
	Barber   Barber `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"barber"`

	ClientID uint   `gorm:"index" json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	// Snapshot taken at booking time.
	ServiceName string  `gorm:"size:100" json:"service_name"`
	DurationMin int     `json:"duration_min"`
	Price       float64 `json:"price"`

	Date string `gorm:"size:10;index:idx_appointment_barber_date" json:"date"`
	Time string `gorm:"size:5" json:"time"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	Notes        string     `gorm:"size:255" json:"notes"`
	CancelReason string     `gorm:"size:255" json:"cancel_reason"`
	ConfirmedAt  *time.Time `json:"confirmed_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	CancelledAt  *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
