package domain

import (
	"time"

	"github.com/sparkwash/CW-BookingService/pkg/types"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	AppointmentPending    AppointmentStatus = "pending"
	AppointmentInProgress AppointmentStatus = "in_progress"
	AppointmentCompleted  AppointmentStatus = "completed"
	AppointmentCancelled  AppointmentStatus = "cancelled"
)

// PaymentStatus represents the payment state of an appointment or order
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentHalfPaid PaymentStatus = "half_paid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// PaymentType represents how the customer chose to pay
type PaymentType string

const (
	PaymentTypeFull PaymentType = "full"
	PaymentTypeHalf PaymentType = "half"
)

// Appointment represents a car-wash appointment in the system
type Appointment struct {
	ID        int64
	UserID    int64
	ServiceID int64
	VehicleID int64

	// Дата (день) и канонический слот (минуты с начала суток)
	AppointmentDate time.Time
	StartSlot       types.TimeSlot

	Status        AppointmentStatus
	PaymentStatus PaymentStatus
	PaymentType   PaymentType
	Price         float64

	EmployeeID    *int64
	TransactionID *string
	Notes         *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OccupiesSlot returns true if the appointment counts against slot capacity
func (a *Appointment) OccupiesSlot() bool {
	return a.Status != AppointmentCancelled
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == AppointmentPending || a.Status == AppointmentInProgress
}

// CanBeRescheduled returns true if the appointment's slot can still be changed
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == AppointmentPending
}

// IsPaid returns true if the appointment is fully or partially paid
func (a *Appointment) IsPaid() bool {
	return a.PaymentStatus == PaymentPaid || a.PaymentStatus == PaymentHalfPaid
}

// AppointmentsFilter фильтр для выборки записей
type AppointmentsFilter struct {
	UserID           *int64
	Date             *time.Time
	Status           *AppointmentStatus
	ExcludeID        *int64 // Исключить конкретную запись (перенос внутри своего слота)
	IncludeCancelled bool
}
