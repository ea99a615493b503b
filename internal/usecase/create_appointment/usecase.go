package create_appointment

import (
	"context"
	"fmt"

	"github.com/sparkwash/CW-BookingService/internal/domain"
	"github.com/sparkwash/CW-BookingService/pkg/metrics"
)

// UseCase use case создания записи на мойку.
// Решение о приеме принимается внутри сериализуемой транзакции: пересчет
// занятости и вставка происходят атомарно, поэтому лимит мест в слоте
// не может быть превышен параллельными запросами.
type UseCase struct {
	appointmentRepo AppointmentRepository
	slotCounter     SlotCounter
	broadcaster     AvailabilityBroadcaster
	txManager       TransactionManager
	timeProvider    TimeProvider
	metrics         *metrics.Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// metrics может быть nil, если сбор метрик выключен.
func NewUseCase(
	appointmentRepo AppointmentRepository,
	slotCounter SlotCounter,
	broadcaster AvailabilityBroadcaster,
	txManager TransactionManager,
	m *metrics.Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		slotCounter:     slotCounter,
		broadcaster:     broadcaster,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		metrics:         m,
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: user=%d, service=%d, vehicle=%d, date=%s, slot=%s",
		req.UserID, req.ServiceID, req.VehicleID, req.Date.Format(domain.DateFormat), req.StartSlot)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	schedule := uc.slotCounter.Schedule()

	// 2. Дата не в прошлом
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("CreateAppointment: date validation failed: %v", err)
		return nil, err
	}

	// 3. Слот попадает в рабочую сетку
	if !schedule.ContainsSlot(req.StartSlot) {
		uc.logger.Warn("CreateAppointment: slot %s is outside schedule", req.StartSlot)
		return nil, ErrSlotOutsideSchedule
	}

	// 4. Минимальное время до записи
	if err := validateNotice(req.Date, req.StartSlot, now, schedule.MinBookingNoticeMinutes); err != nil {
		uc.logger.Warn("CreateAppointment: notice validation failed: %v", err)
		return nil, err
	}

	var result *domain.Appointment

	// 5. Admission в сериализуемой транзакции: пересчет с блокировкой
	// строк даты + вставка. Отказ не оставляет строки в БД.
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		occupied, err := uc.slotCounter.CountInSlot(txCtx, req.Date, req.StartSlot, nil)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to count slot occupancy: %v", err)
			return fmt.Errorf("%w: failed to count slot occupancy: %v", ErrInternal, err)
		}

		if occupied >= schedule.Capacity {
			uc.logger.Warn("CreateAppointment: slot %s on %s is full, %d/%d spots taken",
				req.StartSlot, req.Date.Format(domain.DateFormat), occupied, schedule.Capacity)
			uc.metrics.ObserveAdmissionRejected()
			return ErrSlotFull
		}

		uc.logger.Info("CreateAppointment: slot available, %d/%d spots taken", occupied, schedule.Capacity)

		appt := &domain.Appointment{
			UserID:          req.UserID,
			ServiceID:       req.ServiceID,
			VehicleID:       req.VehicleID,
			AppointmentDate: req.Date,
			StartSlot:       req.StartSlot,
			Status:          domain.AppointmentPending,
			PaymentStatus:   domain.PaymentPending,
			PaymentType:     domain.PaymentType(req.PaymentType),
			Price:           req.Price,
			Notes:           req.Notes,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	// Слот занят — публикуем свежий снимок занятости (best effort)
	uc.broadcaster.Broadcast(ctx, req.Date)

	return toResponse(result), nil
}

func toResponse(a *domain.Appointment) *Response {
	return &Response{
		ID:              a.ID,
		UserID:          a.UserID,
		ServiceID:       a.ServiceID,
		VehicleID:       a.VehicleID,
		AppointmentDate: a.AppointmentDate.Format(domain.DateFormat),
		StartTime:       a.StartSlot.String(),
		StartTime12:     a.StartSlot.Format12(),
		Status:          string(a.Status),
		PaymentStatus:   string(a.PaymentStatus),
		PaymentType:     string(a.PaymentType),
		Price:           a.Price,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
