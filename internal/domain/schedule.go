package domain

import "github.com/sparkwash/CW-BookingService/pkg/types"

// ScheduleConfig рабочая сетка мойки: часы работы, шаг слота, вместимость.
// Загружается из config.toml; одна точка обслуживания, поэтому иерархии
// конфигураций по адресам нет.
type ScheduleConfig struct {
	Open                    types.TimeSlot
	Close                   types.TimeSlot
	SlotDurationMinutes     int
	Capacity                int
	MinBookingNoticeMinutes int
}

// GenerateSlots генерирует все слоты рабочего дня с фиксированным шагом.
// Слот, конец которого выходит за время закрытия, не включается.
func (c *ScheduleConfig) GenerateSlots() []types.TimeSlot {
	slots := make([]types.TimeSlot, 0)

	current := c.Open
	for current.IsBefore(c.Close) {
		end, err := current.AddMinutes(c.SlotDurationMinutes)
		if err != nil || end.IsAfter(c.Close) {
			break
		}

		slots = append(slots, current)

		current, err = current.AddMinutes(c.SlotDurationMinutes)
		if err != nil {
			break
		}
	}

	return slots
}

// ContainsSlot проверяет, что слот попадает в рабочую сетку
func (c *ScheduleConfig) ContainsSlot(slot types.TimeSlot) bool {
	if !slot.AlignedTo(c.Open, c.SlotDurationMinutes) {
		return false
	}

	end, err := slot.AddMinutes(c.SlotDurationMinutes)
	if err != nil {
		return false
	}

	return !slot.IsBefore(c.Open) && !end.IsAfter(c.Close)
}
