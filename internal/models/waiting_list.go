package models

import "time"

type WaitingListEntry struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint   `gorm:"index" json:"client_id"`
	Client   Client `json:"client"`

	BarberID  *uint   `json:"barber_id"`
	ServiceID uint    `gorm:"index" json:"service_id"`
	Service   Service `json:"service"`

	PreferredDays  []string `gorm:"serializer:json" json:"preferred_days"`
	PreferredTimes []string `gorm:"serializer:json" json:"preferred_times"`
	Notes          string   `gorm:"size:255" json:"notes"`

	Status      string     `gorm:"size:20;default:'pending';index" json:"status"`
	RequestDate time.Time  `json:"request_date"`
	ExpiryDate  time.Time  `json:"expiry_date"`
	NotifiedAt  *time.Time `json:"notified_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (WaitingListEntry) TableName() string {
	return "waiting_list_entries"
}
