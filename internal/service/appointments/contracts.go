package appointments

import (
	"context"
	"time"

	"github.com/sparkwash/CW-BookingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	GetActiveByDate(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus, employeeID *int64) error
	Cancel(ctx context.Context, id int64, reason string) error
}

// UserRepository интерфейс реестра пользователей
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// AvailabilityBroadcaster интерфейс рассылки снимков занятости
type AvailabilityBroadcaster interface {
	Broadcast(ctx context.Context, date time.Time)
}

// Notifier интерфейс relay уведомлений
type Notifier interface {
	Create(ctx context.Context, userID int64, title, message string, ntype domain.NotificationType) (*domain.Notification, error)
	Deliver(ctx context.Context, n *domain.Notification)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
