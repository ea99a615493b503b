package process_callback

import "errors"

// Терминальные ошибки callback: повторная доставка того же payload даст
// тот же результат, ретраить шлюзу бессмысленно.
var (
	// ErrInvalidResponse возвращается, когда payload не декодируется
	ErrInvalidResponse = errors.New("process_callback: invalid gateway response")

	// ErrInvalidData возвращается, когда payload декодируется, но не
	// содержит обязательных полей
	ErrInvalidData = errors.New("process_callback: missing required callback fields")

	// ErrInvalidSignature возвращается при несовпадении HMAC подписи
	ErrInvalidSignature = errors.New("process_callback: invalid signature")

	// ErrTransactionNotFound возвращается, когда transaction_uuid не
	// привязан ни к заказу, ни к записи
	ErrTransactionNotFound = errors.New("process_callback: transaction not found")

	// ErrInternal возвращается при внутренних ошибках; шлюз может ретраить
	ErrInternal = errors.New("process_callback: internal error")
)
