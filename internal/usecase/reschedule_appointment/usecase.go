package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sparkwash/CW-BookingService/internal/domain"
	appointmentRepo "github.com/sparkwash/CW-BookingService/internal/infra/storage/appointment"
)

// UseCase use case переноса записи на другой слот.
// Пересчет занятости целевого слота исключает саму переносимую запись:
// перенос внутри своего слота не должен блокироваться собственным местом.
type UseCase struct {
	appointmentRepo AppointmentRepository
	userRepo        UserRepository
	slotCounter     SlotCounter
	broadcaster     AvailabilityBroadcaster
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	userRepo UserRepository,
	slotCounter SlotCounter,
	broadcaster AvailabilityBroadcaster,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		slotCounter:     slotCounter,
		broadcaster:     broadcaster,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case переноса записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleAppointment: id=%d, user=%d, date=%s, slot=%s",
		req.AppointmentID, req.UserID, req.Date.Format(domain.DateFormat), req.StartSlot)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	schedule := uc.slotCounter.Schedule()

	// 2. Дата не в прошлом
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("RescheduleAppointment: date validation failed: %v", err)
		return nil, err
	}

	// 3. Слот попадает в рабочую сетку
	if !schedule.ContainsSlot(req.StartSlot) {
		uc.logger.Warn("RescheduleAppointment: slot %s is outside schedule", req.StartSlot)
		return nil, ErrSlotOutsideSchedule
	}

	var result *domain.Appointment
	var oldDate = req.Date

	// 4. Admission в сериализуемой транзакции: чтение записи, пересчет
	// целевого слота с исключением самой записи, обновление
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appt, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			uc.logger.Error("RescheduleAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		if err := uc.checkUserAccess(txCtx, appt, req.UserID); err != nil {
			uc.logger.Warn("RescheduleAppointment: access denied for user=%d to appointment id=%d",
				req.UserID, req.AppointmentID)
			return err
		}

		if !appt.CanBeRescheduled() {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d cannot be rescheduled, status=%s",
				req.AppointmentID, appt.Status)
			return ErrCannotReschedule
		}

		oldDate = appt.AppointmentDate

		occupied, err := uc.slotCounter.CountInSlot(txCtx, req.Date, req.StartSlot, &appt.ID)
		if err != nil {
			uc.logger.Error("RescheduleAppointment: failed to count slot occupancy: %v", err)
			return fmt.Errorf("%w: failed to count slot occupancy: %v", ErrInternal, err)
		}

		if occupied >= schedule.Capacity {
			uc.logger.Warn("RescheduleAppointment: slot %s on %s is full, %d/%d spots taken",
				req.StartSlot, req.Date.Format(domain.DateFormat), occupied, schedule.Capacity)
			return ErrSlotFull
		}

		appt.AppointmentDate = req.Date
		appt.StartSlot = req.StartSlot

		if err := uc.appointmentRepo.Reschedule(txCtx, appt.ID, appt); err != nil {
			uc.logger.Error("RescheduleAppointment: failed to reschedule appointment id=%d: %v", appt.ID, err)
			return fmt.Errorf("%w: failed to reschedule appointment: %v", ErrInternal, err)
		}

		result = appt
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleAppointment: successfully rescheduled appointment id=%d to %s %s",
		result.ID, req.Date.Format(domain.DateFormat), req.StartSlot)

	// Занятость поменялась на обеих датах
	uc.broadcaster.Broadcast(ctx, req.Date)
	if !isSameDay(oldDate, req.Date) {
		uc.broadcaster.Broadcast(ctx, oldDate)
	}

	return &Response{
		ID:              result.ID,
		UserID:          result.UserID,
		AppointmentDate: result.AppointmentDate.Format(domain.DateFormat),
		StartTime:       result.StartSlot.String(),
		StartTime12:     result.StartSlot.Format12(),
		Status:          string(result.Status),
		PaymentStatus:   string(result.PaymentStatus),
		Price:           result.Price,
	}, nil
}

// checkUserAccess проверяет, что пользователь имеет доступ к записи
// (владелец или админ)
func (uc *UseCase) checkUserAccess(ctx context.Context, appt *domain.Appointment, userID int64) error {
	if appt.UserID == userID {
		return nil
	}

	u, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil || !u.IsAdmin() {
		return ErrAccessDenied
	}

	return nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
