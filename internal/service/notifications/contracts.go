package notifications

import (
	"context"

	"github.com/sparkwash/CW-BookingService/internal/domain"
)

// NotificationRepository интерфейс репозитория уведомлений
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	GetByUserID(ctx context.Context, userID int64, unreadOnly bool) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id int64, userID int64) error
}

// UserRepository интерфейс реестра пользователей (алиасы каналов, админы)
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetAdmins(ctx context.Context) ([]*domain.User, error)
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
