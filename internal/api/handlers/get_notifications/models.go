package get_notifications

import (
	"time"

	"github.com/sparkwash/CW-BookingService/internal/domain"
)

// NotificationResponse HTTP response model
type NotificationResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	IsRead    bool   `json:"isRead"`
	CreatedAt string `json:"createdAt"`
}

// NotificationListResponse HTTP response model со списком
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
}

// FromDomainList конвертирует domain модели в HTTP response
func FromDomainList(notifications []*domain.Notification) *NotificationListResponse {
	result := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		result[i] = NotificationResponse{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Type:      string(n.Type),
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		}
	}
	return &NotificationListResponse{
		Notifications: result,
		Total:         len(result),
	}
}
