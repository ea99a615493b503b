package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sparkwash/CW-BookingService/internal/domain"
	"github.com/sparkwash/CW-BookingService/pkg/metrics"
	"github.com/sparkwash/CW-BookingService/pkg/types"
)

// ErrInternal возвращается при внутренних ошибках сервиса
var ErrInternal = errors.New("availability.service: internal error")

// Service считает занятость слотов и рассылает снимки в live-канал даты.
// Снимок всегда полный (не дельта): подписчики применяют последний
// пришедший, потерянная публикация закрывается re-fetch'ем при reconnect.
type Service struct {
	appointmentRepo AppointmentRepository
	publisher       ChannelPublisher
	schedule        domain.ScheduleConfig
	metrics         *metrics.Metrics
	logger          Logger
}

// NewService создает новый экземпляр сервиса занятости.
// metrics может быть nil, если сбор метрик выключен.
func NewService(
	appointmentRepo AppointmentRepository,
	publisher ChannelPublisher,
	schedule domain.ScheduleConfig,
	m *metrics.Metrics,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		publisher:       publisher,
		schedule:        schedule,
		metrics:         m,
		logger:          logger,
	}
}

// snapshotMessage полезная нагрузка канала availability.<дата>
type snapshotMessage struct {
	Date           string         `json:"date"`
	Capacity       int            `json:"capacity"`
	TimeSlotsCount map[string]int `json:"timeSlotsCount"`
}

// Snapshot строит снимок занятости всех слотов даты.
// excludeID исключает конкретную запись из подсчета — при переносе запись
// не должна блокировать сама себя в своем же слоте.
func (s *Service) Snapshot(ctx context.Context, date time.Time, excludeID *int64) (*domain.AvailabilitySnapshot, error) {
	filter := domain.AppointmentsFilter{
		Date:      &date,
		ExcludeID: excludeID,
	}

	appointments, err := s.appointmentRepo.GetActiveByDate(ctx, filter)
	if err != nil {
		s.logger.Error("Availability.Snapshot: failed to get appointments for date=%s: %v",
			date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: Snapshot - repository error: %v", ErrInternal, err)
	}

	occupied := make(map[types.TimeSlot]int)
	for _, appt := range appointments {
		if !appt.OccupiesSlot() {
			continue
		}
		occupied[appt.StartSlot]++
	}

	gridSlots := s.schedule.GenerateSlots()
	slots := make([]domain.SlotOccupancy, len(gridSlots))
	for i, slot := range gridSlots {
		slots[i] = domain.SlotOccupancy{
			Slot:     slot,
			Occupied: occupied[slot],
			Capacity: s.schedule.Capacity,
		}
	}

	return &domain.AvailabilitySnapshot{
		Date:     date,
		Capacity: s.schedule.Capacity,
		Slots:    slots,
	}, nil
}

// CountInSlot возвращает занятость конкретного слота с опциональным
// исключением своей записи. Вызывается внутри транзакции admission —
// репозиторий блокирует строки даты (FOR UPDATE), сериализуя решение.
func (s *Service) CountInSlot(ctx context.Context, date time.Time, slot types.TimeSlot, excludeID *int64) (int, error) {
	filter := domain.AppointmentsFilter{
		Date:      &date,
		ExcludeID: excludeID,
	}

	appointments, err := s.appointmentRepo.GetActiveByDate(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("%w: CountInSlot - repository error: %v", ErrInternal, err)
	}

	count := 0
	for _, appt := range appointments {
		if appt.OccupiesSlot() && appt.StartSlot == slot {
			count++
		}
	}

	return count, nil
}

// Broadcast публикует полный снимок занятости даты в её live-канал.
// Best effort: ошибка публикации логируется и проглатывается, решение
// admission к этому моменту уже зафиксировано.
func (s *Service) Broadcast(ctx context.Context, date time.Time) {
	snapshot, err := s.Snapshot(ctx, date, nil)
	if err != nil {
		s.logger.Warn("Availability.Broadcast: failed to build snapshot for date=%s, skipped: %v",
			date.Format(domain.DateFormat), err)
		return
	}

	isoDate := date.Format(domain.DateFormat)
	channel := domain.ChannelAvailabilityPrefix + isoDate

	msg := snapshotMessage{
		Date:           isoDate,
		Capacity:       snapshot.Capacity,
		TimeSlotsCount: snapshot.CountsByKey(),
	}

	if err := s.publisher.PublishJSON(ctx, channel, msg); err != nil {
		s.logger.Warn("Availability.Broadcast: publish to %s failed: %v", channel, err)
		s.metrics.ObserveBroadcast("availability", "error")
		return
	}

	s.metrics.ObserveBroadcast("availability", "ok")
	s.logger.Info("Availability.Broadcast: published snapshot for date=%s (%d slots)", isoDate, len(snapshot.Slots))
}

// Schedule возвращает рабочую сетку сервиса
func (s *Service) Schedule() domain.ScheduleConfig {
	return s.schedule
}
