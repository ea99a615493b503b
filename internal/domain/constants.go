package domain

// Slot capacity and booking defaults
const (
	// SlotCapacity жесткий лимит записей на один слот.
	// Инвариант: количество неотмененных записей на (дата, слот)
	// никогда не превышает этого значения.
	SlotCapacity = 2

	DefaultSlotDurationMinutes  = 30
	DefaultMinBookingNoticeMinutes = 60
)

// Business validation constants
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 480
	MaxNotesLength         = 500
	MaxCancellationReasonLength = 500

	// HalfPaymentThreshold доля полной цены, ниже которой платеж считается
	// частичным независимо от заявленного типа оплаты
	HalfPaymentThreshold = 0.9
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Real-time channel naming
const (
	ChannelAvailabilityPrefix = "availability."        // + ISO дата
	ChannelUserPrefix         = "notifications.user."  // + алиас пользователя
	ChannelAdminBroadcast     = "notifications.role.admin"
)

// InactiveAppointmentStatuses статусы, не занимающие место в слоте
var InactiveAppointmentStatuses = []AppointmentStatus{
	AppointmentCancelled,
}

// ActiveAppointmentStatuses статусы, занимающие место в слоте
var ActiveAppointmentStatuses = []AppointmentStatus{
	AppointmentPending,
	AppointmentInProgress,
	AppointmentCompleted,
}
