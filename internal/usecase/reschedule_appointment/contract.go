package reschedule_appointment

import (
	"context"
	"time"

	"github.com/sparkwash/CW-BookingService/internal/domain"
	"github.com/sparkwash/CW-BookingService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Reschedule(ctx context.Context, id int64, appt *domain.Appointment) error
}

// SlotCounter интерфейс подсчета занятости слота
type SlotCounter interface {
	CountInSlot(ctx context.Context, date time.Time, slot types.TimeSlot, excludeID *int64) (int, error)
	Schedule() domain.ScheduleConfig
}

// AvailabilityBroadcaster интерфейс рассылки снимков занятости
type AvailabilityBroadcaster interface {
	Broadcast(ctx context.Context, date time.Time)
}

// UserRepository интерфейс реестра пользователей
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
