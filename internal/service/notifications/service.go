package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sparkwash/CW-BookingService/internal/domain"
	notificationRepo "github.com/sparkwash/CW-BookingService/internal/infra/storage/notification"
	"github.com/sparkwash/CW-BookingService/pkg/metrics"
)

// Service relay уведомлений: persist-then-push.
// Запись в БД — источник правды и создается в транзакции вызывающего;
// push по live-каналам — best effort и выполняется ПОСЛЕ коммита, ошибка
// доставки логируется и проглатывается, состояние платежа не откатывается.
type Service struct {
	notificationRepo NotificationRepository
	userRepo         UserRepository
	publisher        ChannelPublisher
	metrics          *metrics.Metrics
	logger           Logger
}

// NewService создает новый экземпляр relay уведомлений.
// metrics может быть nil, если сбор метрик выключен.
func NewService(
	notificationRepo NotificationRepository,
	userRepo UserRepository,
	publisher ChannelPublisher,
	m *metrics.Metrics,
	logger Logger,
) *Service {
	return &Service{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		publisher:        publisher,
		metrics:          m,
		logger:           logger,
	}
}

// channelMessage полезная нагрузка live-канала
type channelMessage struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	CreatedAt string `json:"createdAt"`
}

// Create создает durable-уведомление. Если в контексте есть активная
// транзакция, запись попадает в неё — так переход состояния и уведомление
// фиксируются атомарно.
func (s *Service) Create(ctx context.Context, userID int64, title, message string, ntype domain.NotificationType) (*domain.Notification, error) {
	n := &domain.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    ntype,
	}

	created, err := s.notificationRepo.Create(ctx, n)
	if err != nil {
		s.logger.Error("Notifications.Create: failed to persist notification for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	return created, nil
}

// CreateForAdmins создает по одному durable-уведомлению на каждого админа
func (s *Service) CreateForAdmins(ctx context.Context, title, message string, ntype domain.NotificationType) ([]*domain.Notification, error) {
	admins, err := s.userRepo.GetAdmins(ctx)
	if err != nil {
		s.logger.Error("Notifications.CreateForAdmins: failed to list admins: %v", err)
		return nil, fmt.Errorf("%w: CreateForAdmins - list admins: %v", ErrInternal, err)
	}

	created := make([]*domain.Notification, 0, len(admins))
	for _, admin := range admins {
		n, err := s.Create(ctx, admin.ID, title, message, ntype)
		if err != nil {
			return nil, err
		}
		created = append(created, n)
	}

	return created, nil
}

// Deliver публикует уведомление во ВСЕ известные алиасы каналов получателя.
// Клиент мог подписаться и под внутренним id, и под id identity provider —
// публикация по всем алиасам гарантирует доставку независимо от подписки.
// Ошибка по одному получателю изолирована и не блокирует остальных.
func (s *Service) Deliver(ctx context.Context, n *domain.Notification) {
	recipient, err := s.userRepo.GetByID(ctx, n.UserID)
	if err != nil {
		s.logger.Warn("Notifications.Deliver: failed to resolve aliases for user=%d, push skipped: %v", n.UserID, err)
		return
	}

	msg := toChannelMessage(n)
	for _, alias := range recipient.ChannelAliases() {
		channel := domain.ChannelUserPrefix + alias
		if err := s.publisher.PublishJSON(ctx, channel, msg); err != nil {
			s.logger.Warn("Notifications.Deliver: push to %s failed (durable record id=%d remains): %v", channel, n.ID, err)
			s.metrics.ObserveBroadcast("user", "error")
			continue
		}
		s.metrics.ObserveBroadcast("user", "ok")
	}
}

// DeliverToAdminChannel дублирует уведомление в broadcast-канал админов
func (s *Service) DeliverToAdminChannel(ctx context.Context, n *domain.Notification) {
	if err := s.publisher.PublishJSON(ctx, domain.ChannelAdminBroadcast, toChannelMessage(n)); err != nil {
		s.logger.Warn("Notifications.DeliverToAdminChannel: push failed (durable record id=%d remains): %v", n.ID, err)
		s.metrics.ObserveBroadcast("admin", "error")
		return
	}
	s.metrics.ObserveBroadcast("admin", "ok")
}

// GetUserNotifications получает уведомления пользователя
// (reconcile после переподключения к live-каналу)
func (s *Service) GetUserNotifications(ctx context.Context, userID int64, unreadOnly bool) ([]*domain.Notification, error) {
	notifications, err := s.notificationRepo.GetByUserID(ctx, userID, unreadOnly)
	if err != nil {
		s.logger.Error("Notifications.GetUserNotifications: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetUserNotifications - repository error: %v", ErrInternal, err)
	}
	return notifications, nil
}

// MarkRead помечает уведомление прочитанным
func (s *Service) MarkRead(ctx context.Context, id int64, userID int64) error {
	err := s.notificationRepo.MarkRead(ctx, id, userID)
	if err != nil {
		if errors.Is(err, notificationRepo.ErrNotificationNotFound) {
			return ErrNotificationNotFound
		}
		s.logger.Error("Notifications.MarkRead: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: MarkRead - repository error: %v", ErrInternal, err)
	}
	return nil
}

func toChannelMessage(n *domain.Notification) channelMessage {
	return channelMessage{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}
