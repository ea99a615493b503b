package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparkwash/CW-BookingService/pkg/types"
)

func workingSchedule() ScheduleConfig {
	return ScheduleConfig{
		Open:                types.TimeSlot(9 * 60),
		Close:               types.TimeSlot(18 * 60),
		SlotDurationMinutes: 30,
		Capacity:            SlotCapacity,
	}
}

func TestGenerateSlots(t *testing.T) {
	schedule := workingSchedule()

	slots := schedule.GenerateSlots()

	// 09:00..17:30 с шагом 30 минут
	require.Len(t, slots, 18)
	assert.Equal(t, types.TimeSlot(9*60), slots[0])
	assert.Equal(t, types.TimeSlot(17*60+30), slots[len(slots)-1])
}

func TestGenerateSlots_UnevenClose(t *testing.T) {
	// Слот, конец которого выходит за закрытие, не включается
	schedule := ScheduleConfig{
		Open:                types.TimeSlot(9 * 60),
		Close:               types.TimeSlot(10*60 + 45),
		SlotDurationMinutes: 30,
	}

	slots := schedule.GenerateSlots()

	require.Len(t, slots, 3)
	assert.Equal(t, types.TimeSlot(10 * 60), slots[2])
}

func TestContainsSlot(t *testing.T) {
	schedule := workingSchedule()

	tests := []struct {
		name     string
		slot     types.TimeSlot
		expected bool
	}{
		{"opening slot", types.TimeSlot(9 * 60), true},
		{"midday slot", types.TimeSlot(14 * 60), true},
		{"last slot of the day", types.TimeSlot(17*60 + 30), true},
		{"before opening", types.TimeSlot(8*60 + 30), false},
		{"at closing", types.TimeSlot(18 * 60), false},
		{"unaligned", types.TimeSlot(14*60 + 15), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, schedule.ContainsSlot(tt.slot))
		})
	}
}

func TestAvailabilitySnapshot_CountsByKey(t *testing.T) {
	snapshot := AvailabilitySnapshot{
		Capacity: SlotCapacity,
		Slots: []SlotOccupancy{
			{Slot: types.TimeSlot(9 * 60), Occupied: 1, Capacity: SlotCapacity},
			{Slot: types.TimeSlot(14*60 + 30), Occupied: 2, Capacity: SlotCapacity},
		},
	}

	counts := snapshot.CountsByKey()

	// Каждый слот доступен под обеими текстовыми формами времени
	assert.Equal(t, 1, counts["09:00"])
	assert.Equal(t, 1, counts["9:00 AM"])
	assert.Equal(t, 2, counts["14:30"])
	assert.Equal(t, 2, counts["2:30 PM"])
	assert.Len(t, counts, 4)
}

func TestSlotOccupancy(t *testing.T) {
	full := SlotOccupancy{Occupied: 2, Capacity: 2}
	assert.True(t, full.IsFull())
	assert.Zero(t, full.Available())

	open := SlotOccupancy{Occupied: 1, Capacity: 2}
	assert.False(t, open.IsFull())
	assert.Equal(t, 1, open.Available())

	over := SlotOccupancy{Occupied: 3, Capacity: 2}
	assert.True(t, over.IsFull())
	assert.Zero(t, over.Available())
}

func TestUser_ChannelAliases(t *testing.T) {
	t.Run("internal id only", func(t *testing.T) {
		u := User{ID: 42}
		assert.Equal(t, []string{"42"}, u.ChannelAliases())
	})

	t.Run("with provider uid", func(t *testing.T) {
		u := User{ID: 42, ProviderUID: "firebase-abc"}
		assert.Equal(t, []string{"42", "firebase-abc"}, u.ChannelAliases())
	})

	t.Run("provider uid equal to id is not duplicated", func(t *testing.T) {
		u := User{ID: 42, ProviderUID: "42"}
		assert.Equal(t, []string{"42"}, u.ChannelAliases())
	})
}
