package create_appointment

import (
	"time"

	"github.com/sparkwash/CW-BookingService/internal/domain"
	createAppointment "github.com/sparkwash/CW-BookingService/internal/usecase/create_appointment"
	"github.com/sparkwash/CW-BookingService/pkg/types"
)

// CreateAppointmentRequest HTTP request model.
// StartTime принимается в 24-часовом ("14:30") или 12-часовом ("2:30 PM")
// формате.
type CreateAppointmentRequest struct {
	ServiceID       int64   `json:"serviceId"`
	VehicleID       int64   `json:"vehicleId"`
	AppointmentDate string  `json:"appointmentDate"` // "2025-10-15"
	StartTime       string  `json:"startTime"`
	PaymentType     string  `json:"paymentType"` // "full" | "half"
	Price           float64 `json:"price"`
	Notes           *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(userID int64) (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.AppointmentDate)
	if err != nil {
		return nil, err
	}

	slot, err := types.ParseTimeSlot(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		UserID:      userID,
		ServiceID:   r.ServiceID,
		VehicleID:   r.VehicleID,
		Date:        date,
		StartSlot:   slot,
		PaymentType: r.PaymentType,
		Price:       r.Price,
		Notes:       r.Notes,
	}, nil
}
