package reschedule_appointment

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_appointment: invalid input data")

	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("reschedule_appointment: appointment not found")

	// ErrAccessDenied возвращается при попытке переноса чужой записи
	ErrAccessDenied = errors.New("reschedule_appointment: access denied")

	// ErrCannotReschedule возвращается, когда запись уже нельзя перенести
	ErrCannotReschedule = errors.New("reschedule_appointment: appointment cannot be rescheduled")

	// ErrInvalidDate возвращается при попытке переноса на прошедшую дату
	ErrInvalidDate = errors.New("reschedule_appointment: date is in the past")

	// ErrSlotOutsideSchedule возвращается, когда слот не попадает в рабочую сетку
	ErrSlotOutsideSchedule = errors.New("reschedule_appointment: slot is outside working hours")

	// ErrSlotFull возвращается, когда в целевом слоте нет свободных мест
	ErrSlotFull = errors.New("reschedule_appointment: no available spots in this slot")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("reschedule_appointment: internal error")
)
