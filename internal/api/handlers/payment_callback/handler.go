package payment_callback

import (
	"errors"
	"net/http"

	"github.com/sparkwash/CW-BookingService/internal/api/handlers"
	processCallback "github.com/sparkwash/CW-BookingService/internal/usecase/process_callback"
)

const (
	msgMissingData         = "отсутствует параметр data"
	msgInvalidResponse     = "некорректный ответ платежного шлюза"
	msgInvalidData         = "в ответе платежного шлюза нет обязательных полей"
	msgInvalidSignature    = "подпись платежного шлюза не прошла проверку"
	msgTransactionNotFound = "транзакция не найдена"
)

type Handler struct {
	useCase ProcessCallbackUseCase
	logger  Logger
}

func NewHandler(useCase ProcessCallbackUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET|POST /api/v1/payments/callback, data=<base64>
// Шлюз либо редиректит сюда браузер покупателя (query-параметр), либо шлет
// server-to-server POST (form-параметр); тот же маршрут принимает и success,
// и failure редиректы — исход определяется полем status payload.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	data := r.FormValue("data")
	if data == "" {
		h.logger.Warn("/payments/callback - Missing data parameter")
		h.respondFailure(w, http.StatusBadRequest, msgMissingData, processCallback.ReasonInvalidResponse)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &processCallback.Request{Data: data})
	if err != nil {
		switch {
		case errors.Is(err, processCallback.ErrInvalidResponse):
			h.logger.Warn("/payments/callback - Invalid response: %v", err)
			h.respondFailure(w, http.StatusBadRequest, msgInvalidResponse, processCallback.ReasonInvalidResponse)

		case errors.Is(err, processCallback.ErrInvalidData):
			h.logger.Warn("/payments/callback - Missing required fields: %v", err)
			h.respondFailure(w, http.StatusBadRequest, msgInvalidData, processCallback.ReasonInvalidData)

		case errors.Is(err, processCallback.ErrInvalidSignature):
			h.logger.Warn("/payments/callback - Invalid signature")
			h.respondFailure(w, http.StatusBadRequest, msgInvalidSignature, processCallback.ReasonInvalidSignature)

		case errors.Is(err, processCallback.ErrTransactionNotFound):
			h.logger.Warn("/payments/callback - Transaction not found")
			h.respondFailure(w, http.StatusNotFound, msgTransactionNotFound, processCallback.ReasonTransactionNotFound)

		default:
			h.logger.Error("/payments/callback - Failed: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("/payments/callback - Outcome=%s, transaction=%s", result.Outcome, result.TransactionID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// respondFailure отвечает машиночитаемым кодом причины вдобавок к тексту
func (h *Handler) respondFailure(w http.ResponseWriter, status int, message, reason string) {
	handlers.RespondJSON(w, status, failureResponse{
		Error:  message,
		Reason: reason,
	})
}
