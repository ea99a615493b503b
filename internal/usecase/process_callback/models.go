package process_callback

// Request запрос обработки callback шлюза.
// Data — сырой base64 payload из query-параметра редиректа.
type Request struct {
	Data string
}

// Исходы обработки callback
const (
	OutcomeProcessed        = "processed"         // платеж зафиксирован
	OutcomeAlreadyProcessed = "already_processed" // повторная доставка, состояние не менялось
	OutcomeNotComplete      = "not_complete"      // статус шлюза не COMPLETE, состояние не менялось
)

// Машиночитаемые коды причин для redirect/response на стороне клиента
const (
	ReasonInvalidResponse     = "invalid_response"
	ReasonInvalidData         = "invalid_data"
	ReasonInvalidSignature    = "invalid_signature"
	ReasonPaymentFailed       = "payment_failed"
	ReasonTransactionNotFound = "transaction_not_found"
)

// Response ответ с исходом обработки
type Response struct {
	Outcome       string  `json:"outcome"`
	Reason        string  `json:"reason,omitempty"`
	TransactionID string  `json:"transactionId"`
	GatewayStatus string  `json:"gatewayStatus"`
	EntityType    string  `json:"entityType,omitempty"` // "order" | "appointment"
	EntityID      int64   `json:"entityId,omitempty"`
	PaymentStatus string  `json:"paymentStatus,omitempty"`
	Amount        float64 `json:"amount,omitempty"`
}
