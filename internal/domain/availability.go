package domain

import (
	"strconv"
	"time"

	"github.com/sparkwash/CW-BookingService/pkg/types"
)

// SlotOccupancy занятость одного слота
type SlotOccupancy struct {
	Slot     types.TimeSlot
	Occupied int
	Capacity int
}

// IsFull returns true if the slot has no free spots left
func (s *SlotOccupancy) IsFull() bool {
	return s.Occupied >= s.Capacity
}

// Available возвращает количество свободных мест в слоте
func (s *SlotOccupancy) Available() int {
	free := s.Capacity - s.Occupied
	if free < 0 {
		return 0
	}
	return free
}

// AvailabilitySnapshot полный снимок занятости на дату.
// Публикуется в live-канал даты целиком (не дельтой): подписчик применяет
// последний пришедший снимок, порядок внутри даты — last write wins.
type AvailabilitySnapshot struct {
	Date     time.Time
	Capacity int
	Slots    []SlotOccupancy
}

// CountsByKey возвращает карту занятости, ключованную ОБЕИМИ текстовыми
// формами времени ("14:30" и "2:30 PM"), чтобы клиент любого формата нашел
// свой ключ без переконвертации
func (s *AvailabilitySnapshot) CountsByKey() map[string]int {
	counts := make(map[string]int, len(s.Slots)*2)
	for _, slot := range s.Slots {
		counts[slot.Slot.String()] = slot.Occupied
		counts[slot.Slot.Format12()] = slot.Occupied
	}
	return counts
}

// int64Key форматирует числовой идентификатор как строковый алиас канала
func int64Key(id int64) string {
	return strconv.FormatInt(id, 10)
}
