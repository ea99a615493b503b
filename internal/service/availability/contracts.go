package availability

import (
	"context"

	"github.com/sparkwash/CW-BookingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetActiveByDate(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// ChannelPublisher интерфейс публикации в live-каналы
type ChannelPublisher interface {
	PublishJSON(ctx context.Context, channel string, v interface{}) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
