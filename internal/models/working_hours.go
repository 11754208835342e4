package models

import (
	"strings"
	"time"
)

type WorkingHours struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BarberID uint `gorm:"uniqueIndex:idx_barber_weekday" json:"barber_id"`

	// time.Weekday: 0 = Sunday.
	Weekday int `gorm:"uniqueIndex:idx_barber_weekday" json:"weekday"`

	IsWorking  bool   `json:"is_working"`
	StartTime  string `gorm:"size:5" json:"start_time"`
	EndTime    string `gorm:"size:5" json:"end_time"`
	HasBreak   bool   `json:"has_break"`
	BreakStart string `gorm:"size:5" json:"break_start"`
	BreakEnd   string `gorm:"size:5" json:"break_end"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Day is the lowercase English weekday name, e.g. "monday".
func (wh WorkingHours) Day() string {
	return strings.ToLower(time.Weekday(wh.Weekday).String())
}
