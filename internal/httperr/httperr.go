package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// StatusFor maps a business error kind to its HTTP status.
func StatusFor(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindInvalidState:
		return http.StatusConflict
	case KindTooLate:
		return http.StatusUnprocessableEntity
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes err as a JSON error. Anything that is not a business error
// is logged and reported as internal_error.
func Respond(c *gin.Context, err error) {
	kind := KindOf(err)
	if kind == 0 {
		zap.L().Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		Internal(c, "internal_error", "Unexpected error.")
		return
	}

	code := CodeOf(err)
	Write(c, StatusFor(kind), code, messages[code])
}

var messages = map[string]string{
	"invalid_request":       "Invalid request data.",
	"invalid_date":          "Invalid date.",
	"invalid_time":          "Invalid time.",
	"invalid_date_or_time":  "Invalid date or time.",
	"invalid_duration":      "Invalid duration.",
	"invalid_status":        "Invalid status.",
	"invalid_schedule":      "Invalid working hours.",
	"invalid_vacation":      "Invalid vacation range.",
	"invalid_preferences":   "Invalid waiting list preferences.",
	"missing_client":        "Client contact data is required.",
	"service_not_offered":   "This barber does not perform the selected service.",
	"service_inactive":      "Service is not available.",
	"barber_closed":         "The barber does not work on this day.",
	"barber_on_vacation":    "The barber is on vacation on this day.",
	"slot_unavailable":      "The selected time is not available.",
	"slot_in_past":          "The selected time has already passed.",
	"barber_inactive":       "This barber is not taking bookings.",
	"barber_not_found":      "Barber not found.",
	"service_not_found":     "Service not found.",
	"appointment_not_found": "Appointment not found.",
	"entry_not_found":       "Waiting list entry not found.",
	"vacation_not_found":    "Vacation not found.",
	"time_conflict":         "The selected time was just booked. Please pick another slot.",
	"booking_busy":          "Another booking for this barber is in progress. Please try again.",
	"already_waiting":       "You are already on the waiting list for this service.",
	"too_late_to_modify":    "Appointments can only be changed up to 24 hours before the start.",
	"invalid_state":         "The appointment can no longer be changed.",
	"not_owner":             "You cannot change this resource.",
	"email_taken":           "Email already registered.",
	"invalid_credentials":   "Invalid email or password.",
	"invalid_phone":         "Invalid phone number.",
	"invalid_email":         "Invalid email.",
	"service_name_taken":    "Service name already exists.",
}
