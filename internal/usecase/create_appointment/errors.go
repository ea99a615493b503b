package create_appointment

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInvalidDate возвращается при попытке записи на прошедшую дату
	ErrInvalidDate = errors.New("create_appointment: date is in the past")

	// ErrSlotOutsideSchedule возвращается, когда слот не попадает в рабочую сетку
	ErrSlotOutsideSchedule = errors.New("create_appointment: slot is outside working hours")

	// ErrTooLateToBook возвращается при нарушении минимального времени до записи
	ErrTooLateToBook = errors.New("create_appointment: too late to book this slot")

	// ErrSlotFull возвращается, когда в слоте нет свободных мест
	ErrSlotFull = errors.New("create_appointment: no available spots in this slot")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("create_appointment: internal error")
)
