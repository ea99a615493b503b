package esewa

// Статусы транзакции, возвращаемые шлюзом
const (
	StatusComplete = "COMPLETE"
	StatusPending  = "PENDING"
	StatusCanceled = "CANCELED"
)

// FormField одно поле auto-submit формы.
// Порядок полей фиксирован и воспроизводится при подписи.
type FormField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PaymentForm payload для редиректа браузера на шлюз
type PaymentForm struct {
	GatewayURL string      `json:"gatewayUrl"`
	Fields     []FormField `json:"fields"`
}

// Callback декодированный ответ шлюза (base64 JSON из редиректа).
// PaymentID — внутренний идентификатор платежа на стороне шлюза; для
// сопоставления сущностей не используется (ключ — transaction_uuid),
// но сохраняется и логируется как часть wire-контракта.
type Callback struct {
	TransactionUUID  string `json:"transaction_uuid"`
	Status           string `json:"status"`
	TotalAmount      string `json:"total_amount"`
	TransactionCode  string `json:"transaction_code"`
	ProductCode      string `json:"product_code"`
	PaymentID        string `json:"payment_id"`
	SignedFieldNames string `json:"signed_field_names"`
	Signature        string `json:"signature"`
}

// IsComplete сообщает, подтвердил ли шлюз успешную транзакцию
func (c *Callback) IsComplete() bool {
	return c.Status == StatusComplete
}
