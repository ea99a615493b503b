package initiate_payment

import (
	"errors"
	"net/http"

	"github.com/sparkwash/CW-BookingService/internal/api/handlers"
	initiatePayment "github.com/sparkwash/CW-BookingService/internal/usecase/initiate_payment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные платежа"
	msgEntityNotFound     = "заказ или запись не найдены"
	msgAccessDenied       = "нет доступа к этой оплате"
	msgAlreadyPaid        = "уже оплачено"
)

type Handler struct {
	useCase InitiatePaymentUseCase
	logger  Logger
}

func NewHandler(useCase InitiatePaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/initiate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, err := handlers.UserID(r)
	if err != nil {
		handlers.RespondError(w, http.StatusUnauthorized, "требуется аутентификация")
		return
	}

	var req InitiatePaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/initiate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &initiatePayment.Request{
		UserID:     userID,
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
	})
	if err != nil {
		switch {
		case errors.Is(err, initiatePayment.ErrInvalidInput):
			h.logger.Warn("POST /payments/initiate - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, initiatePayment.ErrEntityNotFound):
			h.logger.Warn("POST /payments/initiate - Entity not found: %s/%d", req.EntityType, req.EntityID)
			handlers.RespondNotFound(w, msgEntityNotFound)

		case errors.Is(err, initiatePayment.ErrAccessDenied):
			h.logger.Warn("POST /payments/initiate - Access denied: user_id=%d, %s/%d",
				userID, req.EntityType, req.EntityID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, initiatePayment.ErrAlreadyPaid):
			h.logger.Warn("POST /payments/initiate - Already paid: %s/%d", req.EntityType, req.EntityID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyPaid)

		default:
			h.logger.Error("POST /payments/initiate - Failed: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/initiate - Transaction %s for %s/%d, user_id=%d",
		result.TransactionID, req.EntityType, req.EntityID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
