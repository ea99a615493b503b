package get_notifications

import (
	"context"

	"github.com/sparkwash/CW-BookingService/internal/domain"
)

type NotificationsService interface {
	GetUserNotifications(ctx context.Context, userID int64, unreadOnly bool) ([]*domain.Notification, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
