package appointment

import "github.com/BruksfildServices01/barber-booking/internal/models"

// Actor is the authenticated caller of a lifecycle operation.
type Actor struct {
	UserID   uint
	Role     string
	BarberID *uint
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

func (a Actor) IsStaff() bool {
	return a.Role == models.RoleAdmin || a.Role == models.RoleBarber
}

// CanManageBarber is true for admins and for the barber's own account.
func (a Actor) CanManageBarber(barberID uint) bool {
	if a.IsAdmin() {
		return true
	}
	return a.Role == models.RoleBarber && a.BarberID != nil && *a.BarberID == barberID
}
