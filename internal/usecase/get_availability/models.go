package get_availability

import "time"

// Request запрос занятости слотов на дату
type Request struct {
	Date time.Time
}

// SlotInfo занятость одного слота
type SlotInfo struct {
	StartTime   string `json:"startTime"`   // "14:30"
	StartTime12 string `json:"startTime12"` // "2:30 PM"
	Occupied    int    `json:"occupied"`
	Capacity    int    `json:"capacity"`
	Available   bool   `json:"available"`
}

// Response ответ с занятостью всех слотов даты.
// TimeSlotsCount дублирует счетчики по обоим текстовым представлениям
// слота: клиенты исторически шлют и 24-часовой, и 12-часовой формат.
type Response struct {
	Date           string         `json:"date"`
	Capacity       int            `json:"capacity"`
	Slots          []SlotInfo     `json:"slots"`
	TimeSlotsCount map[string]int `json:"timeSlotsCount"`
}
