package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/sparkwash/CW-BookingService/internal/domain"
	appointmentRepo "github.com/sparkwash/CW-BookingService/internal/infra/storage/appointment"
	"github.com/sparkwash/CW-BookingService/internal/service/appointments/models"
)

// Service сервис для работы с записями на мойку
type Service struct {
	appointmentRepo AppointmentRepository
	userRepo        UserRepository
	broadcaster     AvailabilityBroadcaster
	notifier        Notifier
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	userRepo UserRepository,
	broadcaster AvailabilityBroadcaster,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		broadcaster:     broadcaster,
		notifier:        notifier,
		logger:          logger,
	}
}

// GetByID получает запись по ID.
// Пользователь видит только свою запись, админ — любую.
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkUserAccess(ctx, appt, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, err
	}

	return models.FromDomainAppointment(appt), nil
}

// GetUserAppointments получает историю записей пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserAppointments(ctx context.Context, req *models.GetUserAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetUserAppointments: fetching appointments for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := models.ToDomainAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserAppointments: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	appointments, err := s.appointmentRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserAppointments: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserAppointments - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointmentList(appointments), nil
}

// GetSchedule получает все записи на дату (дневной вид для админа)
func (s *Service) GetSchedule(ctx context.Context, req *models.GetScheduleRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetSchedule: fetching schedule for date=%s, user=%d",
		req.Date.Format(domain.DateFormat), req.UserID)

	if err := s.checkAdminAccess(ctx, req.UserID); err != nil {
		return nil, err
	}

	filter := domain.AppointmentsFilter{
		Date:             &req.Date,
		IncludeCancelled: true,
	}

	appointments, err := s.appointmentRepo.GetActiveByDate(ctx, filter)
	if err != nil {
		s.logger.Error("GetSchedule: repository error for date=%s: %v",
			req.Date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись.
// Пользователь может отменить только свою запись, админ — любую.
// Освободившийся слот рассылается подписчикам канала даты.
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", appointmentID, req.UserID)

	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if err := s.checkUserAccess(ctx, appt, req.UserID); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to appointment id=%d", req.UserID, appointmentID)
		return err
	}

	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", appointmentID, appt.Status)
		return ErrCannotCancel
	}

	if err := s.appointmentRepo.Cancel(ctx, appointmentID, req.CancellationReason); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", appointmentID)

	// Слот освободился — публикуем свежий снимок занятости
	s.broadcaster.Broadcast(ctx, appt.AppointmentDate)

	return nil
}

// UpdateStatus обновляет статус записи и опционально назначает сотрудника.
// Доступно только админам. Владелец записи получает уведомление о смене
// статуса (durable запись + best-effort push).
func (s *Service) UpdateStatus(ctx context.Context, appointmentID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by user=%d",
		appointmentID, req.Status, req.UserID)

	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	if err := s.checkAdminAccess(ctx, req.UserID); err != nil {
		s.logger.Warn("UpdateStatus: access denied for user=%d", req.UserID)
		return err
	}

	newStatus, err := models.ToDomainAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, appointmentID)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, newStatus, req.EmployeeID); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", appointmentID, newStatus)

	// Уведомляем владельца о смене статуса; ошибка доставки не влияет
	// на уже зафиксированный переход
	title := "Статус записи изменен"
	message := fmt.Sprintf("Статус вашей записи на %s %s изменен на %q",
		appt.AppointmentDate.Format(domain.DateFormat), appt.StartSlot.String(), newStatus)

	n, err := s.notifier.Create(ctx, appt.UserID, title, message, domain.NotificationStatus)
	if err != nil {
		s.logger.Warn("UpdateStatus: failed to create status notification for user=%d: %v", appt.UserID, err)
		return nil
	}
	s.notifier.Deliver(ctx, n)

	// Отмена через смену статуса тоже освобождает слот
	if newStatus == domain.AppointmentCancelled {
		s.broadcaster.Broadcast(ctx, appt.AppointmentDate)
	}

	return nil
}

// Вспомогательные методы

// checkUserAccess проверяет, что пользователь имеет доступ к записи
// (владелец или админ)
func (s *Service) checkUserAccess(ctx context.Context, appt *domain.Appointment, userID int64) error {
	if appt.UserID == userID {
		return nil
	}
	if err := s.checkAdminAccess(ctx, userID); err != nil {
		return ErrAccessDenied
	}
	return nil
}

// checkAdminAccess проверяет, что пользователь — админ
func (s *Service) checkAdminAccess(ctx context.Context, userID int64) error {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return ErrAccessDenied
	}
	if !u.IsAdmin() {
		return ErrAccessDenied
	}
	return nil
}
