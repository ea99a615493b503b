package initiate_payment

import "github.com/sparkwash/CW-BookingService/internal/integrations/esewa"

// Типы оплачиваемых сущностей
const (
	EntityOrder       = "order"
	EntityAppointment = "appointment"
)

// Request запрос на инициацию платежа
type Request struct {
	UserID     int64  `json:"userId"`
	EntityType string `json:"entityType"` // "order" | "appointment"
	EntityID   int64  `json:"entityId"`
}

// Response ответ с подписанной формой шлюза.
// Клиент рендерит auto-submit форму и редиректит браузер на шлюз.
type Response struct {
	TransactionID string            `json:"transactionId"`
	Amount        float64           `json:"amount"`
	PaymentForm   *esewa.PaymentForm `json:"paymentForm"`
}
