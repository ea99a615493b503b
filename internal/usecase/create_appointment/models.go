package create_appointment

import (
	"time"

	"github.com/sparkwash/CW-BookingService/pkg/types"
)

// Request запрос на создание записи.
// StartSlot принимается в любом из двух текстовых форматов ("14:30" или
// "2:30 PM") и к этому моменту уже распарсен в канонические минуты.
type Request struct {
	UserID      int64
	ServiceID   int64
	VehicleID   int64
	Date        time.Time
	StartSlot   types.TimeSlot
	PaymentType string
	Price       float64
	Notes       *string
}

// Response ответ с созданной записью
type Response struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"userId"`
	ServiceID       int64     `json:"serviceId"`
	VehicleID       int64     `json:"vehicleId"`
	AppointmentDate string    `json:"appointmentDate"`
	StartTime       string    `json:"startTime"`
	StartTime12     string    `json:"startTime12"`
	Status          string    `json:"status"`
	PaymentStatus   string    `json:"paymentStatus"`
	PaymentType     string    `json:"paymentType"`
	Price           float64   `json:"price"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
