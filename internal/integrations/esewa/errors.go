package esewa

import "errors"

var (
	// ErrMalformedPayload возвращается, когда payload callback не декодируется
	// (битый base64 или не-JSON внутри)
	ErrMalformedPayload = errors.New("esewa client: malformed callback payload")

	// ErrMissingFields возвращается, когда в callback нет обязательных полей
	ErrMissingFields = errors.New("esewa client: required callback fields missing")

	// ErrInvalidSignature возвращается при несовпадении HMAC подписи
	ErrInvalidSignature = errors.New("esewa client: invalid callback signature")

	// ErrInvalidAmount возвращается, когда сумму из callback нельзя разобрать
	ErrInvalidAmount = errors.New("esewa client: invalid amount")
)
