package models

import (
	"errors"
	"time"

	"github.com/sparkwash/CW-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на смену статуса записи (только админ)
type UpdateStatusRequest struct {
	UserID     int64  `json:"userId"`
	Status     string `json:"status"`
	EmployeeID *int64 `json:"employeeId,omitempty"`
}

// GetUserAppointmentsRequest запрос истории записей пользователя
type GetUserAppointmentsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetScheduleRequest запрос расписания на дату (только админ)
type GetScheduleRequest struct {
	UserID int64
	Date   time.Time
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"userId"`
	ServiceID       int64   `json:"serviceId"`
	VehicleID       int64   `json:"vehicleId"`
	AppointmentDate string  `json:"appointmentDate"` // "2024-06-01"
	StartTime       string  `json:"startTime"`       // "14:30"
	StartTime12     string  `json:"startTime12"`     // "2:30 PM"
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"paymentStatus"`
	PaymentType     string  `json:"paymentType"`
	Price           float64 `json:"price"`
	EmployeeID      *int64  `json:"employeeId,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []*AppointmentResponse `json:"appointments"`
	Total        int                    `json:"total"`
}

// FromDomainAppointment конвертирует domain модель в response
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              a.ID,
		UserID:          a.UserID,
		ServiceID:       a.ServiceID,
		VehicleID:       a.VehicleID,
		AppointmentDate: a.AppointmentDate.Format(domain.DateFormat),
		StartTime:       a.StartSlot.String(),
		StartTime12:     a.StartSlot.Format12(),
		Status:          string(a.Status),
		PaymentStatus:   string(a.PaymentStatus),
		PaymentType:     string(a.PaymentType),
		Price:           a.Price,
		EmployeeID:      a.EmployeeID,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       a.UpdatedAt.Format(time.RFC3339),
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в response
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	responses := make([]*AppointmentResponse, len(appointments))
	for i, a := range appointments {
		responses[i] = FromDomainAppointment(a)
	}
	return &AppointmentListResponse{
		Appointments: responses,
		Total:        len(responses),
	}
}

// ToDomainAppointmentStatus валидирует и конвертирует строковый статус
func ToDomainAppointmentStatus(status string) (domain.AppointmentStatus, error) {
	switch domain.AppointmentStatus(status) {
	case domain.AppointmentPending,
		domain.AppointmentInProgress,
		domain.AppointmentCompleted,
		domain.AppointmentCancelled:
		return domain.AppointmentStatus(status), nil
	default:
		return "", ErrInvalidStatus
	}
}
