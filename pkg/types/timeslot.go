package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeSlot каноническое представление времени слота: минуты с начала суток.
// Текстовые формы ("14:30" и "2:30 PM") существуют только на границах API,
// внутри сервиса слот всегда хранится и сравнивается как число минут.
type TimeSlot int

const (
	// MinutesPerDay количество минут в сутках
	MinutesPerDay = 24 * 60
)

var (
	// ErrInvalidTimeFormat возвращается, когда строку времени невозможно разобрать
	ErrInvalidTimeFormat = errors.New("types: invalid time format")

	// ErrOutOfRange возвращается, когда слот выходит за пределы суток
	ErrOutOfRange = errors.New("types: time slot out of range")
)

// NewTimeSlot создает слот из time.Time (берёт только часы и минуты)
func NewTimeSlot(t time.Time) TimeSlot {
	return TimeSlot(t.Hour()*60 + t.Minute())
}

// ParseTimeSlot разбирает текстовое время в канонический слот.
// Принимает обе формы, приходящие от разных клиентов:
//   - 24-часовую: "14:30", "09:05"
//   - 12-часовую: "2:30 PM", "9:05am"
func ParseTimeSlot(s string) (TimeSlot, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidTimeFormat)
	}

	upper := strings.ToUpper(raw)
	meridiem := ""
	switch {
	case strings.HasSuffix(upper, "AM"):
		meridiem = "AM"
		upper = strings.TrimSpace(strings.TrimSuffix(upper, "AM"))
	case strings.HasSuffix(upper, "PM"):
		meridiem = "PM"
		upper = strings.TrimSpace(strings.TrimSuffix(upper, "PM"))
	}

	parts := strings.Split(upper, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	if minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	// Конвертация 12-часовой формы в 24-часовую
	switch meridiem {
	case "AM":
		if hours < 1 || hours > 12 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
		}
		if hours == 12 {
			hours = 0
		}
	case "PM":
		if hours < 1 || hours > 12 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
		}
		if hours != 12 {
			hours += 12
		}
	default:
		if hours < 0 || hours > 23 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
		}
	}

	return TimeSlot(hours*60 + minutes), nil
}

// IsValid проверяет, что слот находится в пределах суток
func (t TimeSlot) IsValid() bool {
	return t >= 0 && t < MinutesPerDay
}

// String возвращает каноническую 24-часовую текстовую форму ("14:30")
func (t TimeSlot) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Format12 возвращает 12-часовую текстовую форму ("2:30 PM").
// Используется только на презентационной границе — обе формы публикуются
// в ответах, чтобы клиенты любого формата могли найти свой ключ.
func (t TimeSlot) Format12() string {
	hours := int(t) / 60
	minutes := int(t) % 60

	meridiem := "AM"
	switch {
	case hours == 0:
		hours = 12
	case hours == 12:
		meridiem = "PM"
	case hours > 12:
		hours -= 12
		meridiem = "PM"
	}

	return fmt.Sprintf("%d:%02d %s", hours, minutes, meridiem)
}

// AddMinutes возвращает слот, сдвинутый на указанное количество минут
func (t TimeSlot) AddMinutes(minutes int) (TimeSlot, error) {
	result := TimeSlot(int(t) + minutes)
	if result < 0 || result > MinutesPerDay {
		return 0, fmt.Errorf("%w: %d + %d minutes", ErrOutOfRange, int(t), minutes)
	}
	return result, nil
}

// IsBefore проверяет, что слот строго раньше другого
func (t TimeSlot) IsBefore(other TimeSlot) bool {
	return t < other
}

// IsAfter проверяет, что слот строго позже другого
func (t TimeSlot) IsAfter(other TimeSlot) bool {
	return t > other
}

// AlignedTo проверяет, что слот выровнен по сетке с указанным шагом,
// начиная от времени открытия
func (t TimeSlot) AlignedTo(open TimeSlot, stepMinutes int) bool {
	if stepMinutes <= 0 {
		return false
	}
	diff := int(t) - int(open)
	return diff >= 0 && diff%stepMinutes == 0
}
