package get_user_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/sparkwash/CW-BookingService/internal/api/handlers"
	appointmentsService "github.com/sparkwash/CW-BookingService/internal/service/appointments"
	"github.com/sparkwash/CW-BookingService/internal/service/appointments/models"
)

const (
	msgInvalidUserID  = "некорректный идентификатор пользователя"
	msgInvalidStatus  = "некорректный статус записи"
	msgAccessDenied   = "нет доступа к записям этого пользователя"
)

type Handler struct {
	service AppointmentsService
	logger  Logger
}

func NewHandler(service AppointmentsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/users/{userId}/appointments?status=pending
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	authUserID, err := handlers.UserID(r)
	if err != nil {
		handlers.RespondError(w, http.StatusUnauthorized, "требуется аутентификация")
		return
	}

	targetUserID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil || targetUserID <= 0 {
		h.logger.Warn("GET /users/{id}/appointments - Invalid user id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	// Историю чужих записей смотреть нельзя; админ ходит через /schedule
	if targetUserID != authUserID {
		h.logger.Warn("GET /users/%d/appointments - Access denied: auth_user_id=%d", targetUserID, authUserID)
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	req := &models.GetUserAppointmentsRequest{
		UserID: targetUserID,
	}

	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.GetUserAppointments(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointmentsService.ErrInvalidInput):
			h.logger.Warn("GET /users/%d/appointments - Invalid status filter", targetUserID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /users/%d/appointments - Failed: error=%v", targetUserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
