package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeSlot_24Hour(t *testing.T) {
	tests := []struct {
		input    string
		expected TimeSlot
	}{
		{"00:00", 0},
		{"09:05", 9*60 + 5},
		{"14:30", 14*60 + 30},
		{"23:59", 23*60 + 59},
		{" 10:00 ", 10 * 60},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			slot, err := ParseTimeSlot(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, slot)
		})
	}
}

func TestParseTimeSlot_12Hour(t *testing.T) {
	tests := []struct {
		input    string
		expected TimeSlot
	}{
		{"2:30 PM", 14*60 + 30},
		{"9:05am", 9*60 + 5},
		{"12:00 AM", 0},        // полночь
		{"12:00 PM", 12 * 60},  // полдень
		{"11:59 PM", 23*60 + 59},
		{"1:00 pm", 13 * 60},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			slot, err := ParseTimeSlot(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, slot)
		})
	}
}

func TestParseTimeSlot_Invalid(t *testing.T) {
	tests := []string{
		"",
		"abc",
		"25:00",
		"14:60",
		"0:30 PM",  // 12-часовая форма не знает часа 0
		"13:00 PM", // и часа 13
		"14",
		"14:30:00",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := ParseTimeSlot(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidTimeFormat)
		})
	}
}

func TestTimeSlot_BothTextForms(t *testing.T) {
	// Обе текстовые формы одного слота должны разбираться в одно число
	from24, err := ParseTimeSlot("14:30")
	require.NoError(t, err)

	from12, err := ParseTimeSlot("2:30 PM")
	require.NoError(t, err)

	assert.Equal(t, from24, from12)
	assert.Equal(t, "14:30", from24.String())
	assert.Equal(t, "2:30 PM", from24.Format12())
}

func TestTimeSlot_Format12_Boundaries(t *testing.T) {
	assert.Equal(t, "12:00 AM", TimeSlot(0).Format12())
	assert.Equal(t, "12:30 AM", TimeSlot(30).Format12())
	assert.Equal(t, "12:00 PM", TimeSlot(12*60).Format12())
	assert.Equal(t, "11:59 PM", TimeSlot(23*60+59).Format12())
}

func TestTimeSlot_AddMinutes(t *testing.T) {
	slot := TimeSlot(14 * 60)

	next, err := slot.AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeSlot(14*60+30), next)

	_, err = slot.AddMinutes(MinutesPerDay)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestTimeSlot_AlignedTo(t *testing.T) {
	open := TimeSlot(9 * 60) // 09:00

	assert.True(t, TimeSlot(9*60).AlignedTo(open, 30))
	assert.True(t, TimeSlot(14*60+30).AlignedTo(open, 30))
	assert.False(t, TimeSlot(14*60+15).AlignedTo(open, 30))
	assert.False(t, TimeSlot(8*60+30).AlignedTo(open, 30)) // раньше открытия
	assert.False(t, TimeSlot(10*60).AlignedTo(open, 0))
}

func TestNewTimeSlot(t *testing.T) {
	now := time.Date(2025, 10, 15, 14, 30, 45, 0, time.UTC)
	assert.Equal(t, TimeSlot(14*60+30), NewTimeSlot(now))
}
