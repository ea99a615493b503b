package esewa

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// signedFieldNames фиксированный набор и порядок подписываемых полей
// исходящей формы. Порядок менять нельзя — шлюз проверяет подпись
// по этой же конкатенации.
const signedFieldNames = "total_amount,transaction_uuid,product_code"

// Client клиент платежного шлюза eSewa.
// Исходящее направление — построение подписанной auto-submit формы,
// входящее — декодирование и проверка callback.
type Client struct {
	gatewayURL  string
	productCode string
	secretKey   string
	successURL  string
	failureURL  string
}

// NewClient создает клиент шлюза
func NewClient(gatewayURL, productCode, secretKey, successURL, failureURL string) *Client {
	return &Client{
		gatewayURL:  gatewayURL,
		productCode: productCode,
		secretKey:   secretKey,
		successURL:  successURL,
		failureURL:  failureURL,
	}
}

// BuildPaymentForm строит подписанную форму для редиректа на шлюз.
// Поля перечислены в том порядке, в котором их ожидает шлюз.
func (c *Client) BuildPaymentForm(amount float64, transactionUUID string) *PaymentForm {
	totalAmount := formatAmount(amount)

	fields := []FormField{
		{Name: "amount", Value: totalAmount},
		{Name: "tax_amount", Value: "0"},
		{Name: "total_amount", Value: totalAmount},
		{Name: "transaction_uuid", Value: transactionUUID},
		{Name: "product_code", Value: c.productCode},
		{Name: "product_service_charge", Value: "0"},
		{Name: "product_delivery_charge", Value: "0"},
		{Name: "success_url", Value: c.successURL},
		{Name: "failure_url", Value: c.failureURL},
		{Name: "signed_field_names", Value: signedFieldNames},
		{Name: "signature", Value: c.sign(totalAmount, transactionUUID, c.productCode)},
	}

	return &PaymentForm{
		GatewayURL: c.gatewayURL,
		Fields:     fields,
	}
}

// DecodeCallback декодирует base64-payload callback в структуру.
// Шлюз в разных сценариях использует стандартный и URL-safe base64,
// поэтому пробуем оба алфавита.
func (c *Client) DecodeCallback(data string) (*Callback, error) {
	trimmed := strings.TrimSpace(data)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedPayload)
	}

	decoded, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		decoded, err = base64.URLEncoding.DecodeString(trimmed)
	}
	if err != nil {
		decoded, err = base64.RawStdEncoding.DecodeString(trimmed)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: base64 decode: %v", ErrMalformedPayload, err)
	}

	var cb Callback
	if err := json.Unmarshal(decoded, &cb); err != nil {
		return nil, fmt.Errorf("%w: json decode: %v", ErrMalformedPayload, err)
	}

	if cb.TransactionUUID == "" || cb.Status == "" {
		return nil, fmt.Errorf("%w: transaction_uuid and status are required", ErrMissingFields)
	}

	return &cb, nil
}

// VerifySignature проверяет HMAC подпись callback по списку
// signed_field_names из самого callback
func (c *Client) VerifySignature(cb *Callback) error {
	if cb.Signature == "" || cb.SignedFieldNames == "" {
		return fmt.Errorf("%w: signature fields missing", ErrInvalidSignature)
	}

	values := map[string]string{
		"transaction_uuid":   cb.TransactionUUID,
		"status":             cb.Status,
		"total_amount":       cb.TotalAmount,
		"transaction_code":   cb.TransactionCode,
		"product_code":       cb.ProductCode,
		"signed_field_names": cb.SignedFieldNames,
	}

	names := strings.Split(cb.SignedFieldNames, ",")
	pairs := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		pairs = append(pairs, fmt.Sprintf("%s=%s", name, values[name]))
	}

	expected := c.hmacBase64(strings.Join(pairs, ","))
	if !hmac.Equal([]byte(expected), []byte(cb.Signature)) {
		return ErrInvalidSignature
	}

	return nil
}

// ParseAmount разбирает сумму из callback.
// Шлюз может вернуть сумму с разделителями тысяч ("1,000.00").
func ParseAmount(raw string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidAmount)
	}

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if amount < 0 {
		return 0, fmt.Errorf("%w: negative value %q", ErrInvalidAmount, raw)
	}

	return amount, nil
}

// sign строит подпись исходящей формы по фиксированному набору полей
func (c *Client) sign(totalAmount, transactionUUID, productCode string) string {
	message := fmt.Sprintf("total_amount=%s,transaction_uuid=%s,product_code=%s",
		totalAmount, transactionUUID, productCode)
	return c.hmacBase64(message)
}

func (c *Client) hmacBase64(message string) string {
	mac := hmac.New(sha256.New, []byte(c.secretKey))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// formatAmount форматирует сумму без хвостовых нулей дробной части
func formatAmount(amount float64) string {
	if amount == float64(int64(amount)) {
		return strconv.FormatInt(int64(amount), 10)
	}
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
