package domain

import "time"

// NotificationType тип уведомления
type NotificationType string

const (
	NotificationPayment NotificationType = "payment"
	NotificationStatus  NotificationType = "status"
	NotificationSystem  NotificationType = "system"
)

// Notification durable-уведомление пользователя.
// Создается обработчиками переходов состояния, мутируется только IsRead.
// Push по live-каналу — best effort; источником правды остается эта запись.
type Notification struct {
	ID        int64
	UserID    int64
	Title     string
	Message   string
	Type      NotificationType
	IsRead    bool
	CreatedAt time.Time
}
