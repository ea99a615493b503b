package initiate_payment

import (
	"context"

	"github.com/sparkwash/CW-BookingService/internal/domain"
	"github.com/sparkwash/CW-BookingService/internal/integrations/esewa"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	AssignTransaction(ctx context.Context, id int64, transactionID string) error
}

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	AssignTransaction(ctx context.Context, id int64, transactionID string) error
}

// GatewayClient интерфейс клиента платежного шлюза
type GatewayClient interface {
	BuildPaymentForm(amount float64, transactionUUID string) *esewa.PaymentForm
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
