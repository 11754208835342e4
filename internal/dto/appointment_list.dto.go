package dto

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type AppointmentListDTO struct {
	ID          uint      `json:"id"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	DurationMin int       `json:"duration_min"`
	Status      string    `json:"status"`
	BarberID    uint      `json:"barber_id"`
	BarberName  string    `json:"barber_name"`
	ClientName  string    `json:"client_name"`
	ClientPhone string    `json:"client_phone"`
	ServiceName string    `json:"service_name"`
	Price       float64   `json:"price"`
}

func AppointmentList(appointments []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, AppointmentListDTO{
			ID:          ap.ID,
			Date:        ap.Date,
			Time:        ap.Time,
			StartTime:   ap.StartTime,
			EndTime:     ap.EndTime,
			DurationMin: ap.DurationMin,
			Status:      ap.Status,
			BarberID:    ap.BarberID,
			BarberName:  ap.Barber.Name,
			ClientName:  ap.Client.Name,
			ClientPhone: ap.Client.Phone,
			ServiceName: ap.ServiceName,
			Price:       ap.Price,
		})
	}
	return out
}
