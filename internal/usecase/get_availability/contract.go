package get_availability

import (
	"context"
	"time"

	"github.com/sparkwash/CW-BookingService/internal/domain"
)

// AvailabilityService интерфейс сервиса занятости
type AvailabilityService interface {
	Snapshot(ctx context.Context, date time.Time, excludeID *int64) (*domain.AvailabilitySnapshot, error)
	Schedule() domain.ScheduleConfig
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
