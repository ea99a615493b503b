package reschedule_appointment

import (
	"time"

	"github.com/sparkwash/CW-BookingService/internal/domain"
	rescheduleAppointment "github.com/sparkwash/CW-BookingService/internal/usecase/reschedule_appointment"
	"github.com/sparkwash/CW-BookingService/pkg/types"
)

// RescheduleAppointmentRequest HTTP request model
type RescheduleAppointmentRequest struct {
	AppointmentDate string `json:"appointmentDate"` // "2025-10-15"
	StartTime       string `json:"startTime"`       // "14:30" или "2:30 PM"
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleAppointmentRequest) ToUseCaseRequest(appointmentID, userID int64) (*rescheduleAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.AppointmentDate)
	if err != nil {
		return nil, err
	}

	slot, err := types.ParseTimeSlot(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &rescheduleAppointment.Request{
		AppointmentID: appointmentID,
		UserID:        userID,
		Date:          date,
		StartSlot:     slot,
	}, nil
}
