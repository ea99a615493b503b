package get_availability

import (
	"context"
	"fmt"

	"github.com/sparkwash/CW-BookingService/internal/domain"
)

// UseCase use case получения занятости слотов на дату
type UseCase struct {
	availability AvailabilityService
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(availability AvailabilityService, logger Logger) *UseCase {
	return &UseCase{
		availability: availability,
		logger:       logger,
	}
}

// Execute выполняет use case получения занятости
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	uc.logger.Info("GetAvailability: date=%s", req.Date.Format(domain.DateFormat))

	snapshot, err := uc.availability.Snapshot(ctx, req.Date, nil)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to build snapshot for date=%s: %v",
			req.Date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to build snapshot: %v", ErrInternal, err)
	}

	slots := make([]SlotInfo, len(snapshot.Slots))
	for i, s := range snapshot.Slots {
		slots[i] = SlotInfo{
			StartTime:   s.Slot.String(),
			StartTime12: s.Slot.Format12(),
			Occupied:    s.Occupied,
			Capacity:    s.Capacity,
			Available:   s.Occupied < s.Capacity,
		}
	}

	return &Response{
		Date:           snapshot.Date.Format(domain.DateFormat),
		Capacity:       snapshot.Capacity,
		Slots:          slots,
		TimeSlotsCount: snapshot.CountsByKey(),
	}, nil
}
