package get_notifications

import (
	"net/http"

	"github.com/sparkwash/CW-BookingService/internal/api/handlers"
)

type Handler struct {
	service NotificationsService
	logger  Logger
}

func NewHandler(service NotificationsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/notifications?unread=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, err := handlers.UserID(r)
	if err != nil {
		handlers.RespondError(w, http.StatusUnauthorized, "требуется аутентификация")
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, err := h.service.GetUserNotifications(r.Context(), userID, unreadOnly)
	if err != nil {
		h.logger.Error("GET /notifications - Failed: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainList(notifications))
}
