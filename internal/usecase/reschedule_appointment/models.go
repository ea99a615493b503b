package reschedule_appointment

import (
	"time"

	"github.com/sparkwash/CW-BookingService/pkg/types"
)

// Request запрос на перенос записи
type Request struct {
	AppointmentID int64
	UserID        int64
	Date          time.Time
	StartSlot     types.TimeSlot
}

// Response ответ с обновленной записью
type Response struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"userId"`
	AppointmentDate string  `json:"appointmentDate"`
	StartTime       string  `json:"startTime"`
	StartTime12     string  `json:"startTime12"`
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"paymentStatus"`
	Price           float64 `json:"price"`
}
