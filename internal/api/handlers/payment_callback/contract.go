package payment_callback

import (
	"context"

	processCallback "github.com/sparkwash/CW-BookingService/internal/usecase/process_callback"
)

type ProcessCallbackUseCase interface {
	Execute(ctx context.Context, req *processCallback.Request) (*processCallback.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
