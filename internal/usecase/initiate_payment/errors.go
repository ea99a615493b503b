package initiate_payment

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("initiate_payment: invalid input data")

	// ErrEntityNotFound возвращается, когда заказ или запись не найдены
	ErrEntityNotFound = errors.New("initiate_payment: entity not found")

	// ErrAccessDenied возвращается при попытке оплатить чужую сущность
	ErrAccessDenied = errors.New("initiate_payment: access denied")

	// ErrAlreadyPaid возвращается, когда сущность уже оплачена
	ErrAlreadyPaid = errors.New("initiate_payment: already paid")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("initiate_payment: internal error")
)
