package domain

import "time"

// PaymentRecordStatus статус записи о платеже
type PaymentRecordStatus string

const (
	PaymentRecordCompleted PaymentRecordStatus = "completed"
	PaymentRecordRefunded  PaymentRecordStatus = "refunded"
)

// Payment запись об успешно обработанном платеже.
// TransactionID — ключ идемпотентности: повторный callback с тем же
// идентификатором не создает вторую запись (UNIQUE в схеме).
// Ровно одно из OrderID/AppointmentID заполнено (CHECK в схеме).
type Payment struct {
	ID            int64
	UserID        int64
	OrderID       *int64
	AppointmentID *int64
	Amount        float64
	Status        PaymentRecordStatus
	Method        string
	TransactionID string
	GatewayCode   *string
	CreatedAt     time.Time
}

// ForOrder returns true if the payment was made for a store order
func (p *Payment) ForOrder() bool {
	return p.OrderID != nil
}

// ForAppointment returns true if the payment was made for an appointment
func (p *Payment) ForAppointment() bool {
	return p.AppointmentID != nil
}
