package esewa

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func newTestClient() *Client {
	return NewClient(
		"https://gateway.example/epay/main/v2/form",
		"EPAYTEST",
		testSecret,
		"https://shop.example/payments/success",
		"https://shop.example/payments/failure",
	)
}

func signPayload(t *testing.T, message string) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func encodeCallback(t *testing.T, cb Callback) string {
	t.Helper()
	raw, err := json.Marshal(cb)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(raw)
}

func TestBuildPaymentForm(t *testing.T) {
	client := newTestClient()

	form := client.BuildPaymentForm(1500, "txn-123")

	require.NotNil(t, form)
	assert.Equal(t, "https://gateway.example/epay/main/v2/form", form.GatewayURL)
	require.Len(t, form.Fields, 11)

	byName := make(map[string]string, len(form.Fields))
	for _, f := range form.Fields {
		byName[f.Name] = f.Value
	}

	assert.Equal(t, "1500", byName["amount"])
	assert.Equal(t, "1500", byName["total_amount"])
	assert.Equal(t, "txn-123", byName["transaction_uuid"])
	assert.Equal(t, "EPAYTEST", byName["product_code"])
	assert.Equal(t, "total_amount,transaction_uuid,product_code", byName["signed_field_names"])

	expected := signPayload(t, "total_amount=1500,transaction_uuid=txn-123,product_code=EPAYTEST")
	assert.Equal(t, expected, byName["signature"])
}

func TestBuildPaymentForm_FractionalAmount(t *testing.T) {
	form := newTestClient().BuildPaymentForm(1250.50, "txn-456")

	byName := make(map[string]string, len(form.Fields))
	for _, f := range form.Fields {
		byName[f.Name] = f.Value
	}

	assert.Equal(t, "1250.50", byName["total_amount"])
}

func TestDecodeCallback(t *testing.T) {
	client := newTestClient()

	cb := Callback{
		TransactionUUID:  "txn-789",
		Status:           StatusComplete,
		TotalAmount:      "1,000.00",
		TransactionCode:  "000ABC",
		ProductCode:      "EPAYTEST",
		PaymentID:        "gw-555",
		SignedFieldNames: "transaction_code,status,total_amount,transaction_uuid,product_code,signed_field_names",
	}

	t.Run("standard base64", func(t *testing.T) {
		decoded, err := client.DecodeCallback(encodeCallback(t, cb))
		require.NoError(t, err)
		assert.Equal(t, "txn-789", decoded.TransactionUUID)
		assert.Equal(t, "gw-555", decoded.PaymentID)
		assert.True(t, decoded.IsComplete())
	})

	t.Run("url-safe base64", func(t *testing.T) {
		raw, err := json.Marshal(cb)
		require.NoError(t, err)

		decoded, err := client.DecodeCallback(base64.URLEncoding.EncodeToString(raw))
		require.NoError(t, err)
		assert.Equal(t, "txn-789", decoded.TransactionUUID)
	})

	t.Run("raw base64 without padding", func(t *testing.T) {
		raw, err := json.Marshal(cb)
		require.NoError(t, err)

		decoded, err := client.DecodeCallback(base64.RawStdEncoding.EncodeToString(raw))
		require.NoError(t, err)
		assert.Equal(t, "txn-789", decoded.TransactionUUID)
	})
}

func TestDecodeCallback_Malformed(t *testing.T) {
	client := newTestClient()

	t.Run("empty payload", func(t *testing.T) {
		_, err := client.DecodeCallback("   ")
		assert.ErrorIs(t, err, ErrMalformedPayload)
	})

	t.Run("not base64", func(t *testing.T) {
		_, err := client.DecodeCallback("%%%не base64%%%")
		assert.ErrorIs(t, err, ErrMalformedPayload)
	})

	t.Run("base64 of non-json", func(t *testing.T) {
		_, err := client.DecodeCallback(base64.StdEncoding.EncodeToString([]byte("plain text")))
		assert.ErrorIs(t, err, ErrMalformedPayload)
	})

	t.Run("missing required fields", func(t *testing.T) {
		_, err := client.DecodeCallback(encodeCallback(t, Callback{Status: StatusComplete}))
		assert.ErrorIs(t, err, ErrMissingFields)
	})
}

func TestVerifySignature(t *testing.T) {
	client := newTestClient()

	cb := &Callback{
		TransactionUUID:  "txn-789",
		Status:           StatusComplete,
		TotalAmount:      "1000",
		TransactionCode:  "000ABC",
		ProductCode:      "EPAYTEST",
		SignedFieldNames: "transaction_code,status,total_amount,transaction_uuid,product_code,signed_field_names",
	}

	message := fmt.Sprintf(
		"transaction_code=%s,status=%s,total_amount=%s,transaction_uuid=%s,product_code=%s,signed_field_names=%s",
		cb.TransactionCode, cb.Status, cb.TotalAmount, cb.TransactionUUID, cb.ProductCode, cb.SignedFieldNames,
	)
	cb.Signature = signPayload(t, message)

	require.NoError(t, client.VerifySignature(cb))

	t.Run("tampered amount", func(t *testing.T) {
		tampered := *cb
		tampered.TotalAmount = "1"
		assert.ErrorIs(t, client.VerifySignature(&tampered), ErrInvalidSignature)
	})

	t.Run("missing signature", func(t *testing.T) {
		unsigned := *cb
		unsigned.Signature = ""
		assert.ErrorIs(t, client.VerifySignature(&unsigned), ErrInvalidSignature)
	})

	t.Run("wrong key", func(t *testing.T) {
		other := NewClient("u", "EPAYTEST", "another-secret", "s", "f")
		assert.ErrorIs(t, other.VerifySignature(cb), ErrInvalidSignature)
	})
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"1000", 1000},
		{"1,000.00", 1000},
		{"12,34,567.89", 1234567.89},
		{" 250.5 ", 250.5},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			amount, err := ParseAmount(tt.input)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, amount, 0.001)
		})
	}

	t.Run("invalid", func(t *testing.T) {
		for _, input := range []string{"", "abc", "-100"} {
			_, err := ParseAmount(input)
			assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", input)
		}
	})
}
