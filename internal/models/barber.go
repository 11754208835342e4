package models

import "time"

type Barber struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID *uint `gorm:"uniqueIndex" json:"user_id"`

	Name   string `gorm:"size:100;not null" json:"name"`
	Email  string `gorm:"size:100" json:"email"`
	Phone  string `gorm:"size:20" json:"phone"`
	Bio    string `gorm:"size:500" json:"bio"`
	Active bool   `gorm:"default:true" json:"active"`

	Services     []Service      `gorm:"many2many:barber_services;" json:"services"`
	WorkingHours []WorkingHours `gorm:"foreignKey:BarberID" json:"working_hours"`
	Vacations    []Vacation     `gorm:"foreignKey:BarberID" json:"vacations"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Barber) Offers(serviceID uint) bool {
	for _, s := range b.Services {
		if s.ID == serviceID {
			return true
		}
	}
	return false
}
