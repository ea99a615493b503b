package process_callback

import (
	"context"

	"github.com/sparkwash/CW-BookingService/internal/domain"
	"github.com/sparkwash/CW-BookingService/internal/integrations/esewa"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.Appointment, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error
}

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.Order, error)
	MarkPaid(ctx context.Context, id int64) error
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error)
}

// GatewayClient интерфейс клиента платежного шлюза
type GatewayClient interface {
	DecodeCallback(data string) (*esewa.Callback, error)
	VerifySignature(cb *esewa.Callback) error
}

// Notifier интерфейс relay уведомлений
type Notifier interface {
	Create(ctx context.Context, userID int64, title, message string, ntype domain.NotificationType) (*domain.Notification, error)
	CreateForAdmins(ctx context.Context, title, message string, ntype domain.NotificationType) ([]*domain.Notification, error)
	Deliver(ctx context.Context, n *domain.Notification)
	DeliverToAdminChannel(ctx context.Context, n *domain.Notification)
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
