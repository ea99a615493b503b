package payment_callback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	processCallback "github.com/sparkwash/CW-BookingService/internal/usecase/process_callback"
)

type fakeUseCase struct {
	resp *processCallback.Response
	err  error
	data string
}

func (u *fakeUseCase) Execute(_ context.Context, req *processCallback.Request) (*processCallback.Response, error) {
	u.data = req.Data
	if u.err != nil {
		return nil, u.err
	}
	return u.resp, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func decodeFailure(t *testing.T, rec *httptest.ResponseRecorder) failureResponse {
	t.Helper()
	var body failureResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestHandle_Success(t *testing.T) {
	uc := &fakeUseCase{resp: &processCallback.Response{
		Outcome:       processCallback.OutcomeProcessed,
		TransactionID: "txn-1",
	}}
	h := NewHandler(uc, nopLogger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/callback?data=eyJ9", nil)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "eyJ9", uc.data)

	var resp processCallback.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, processCallback.OutcomeProcessed, resp.Outcome)
}

func TestHandle_PostFormBody(t *testing.T) {
	uc := &fakeUseCase{resp: &processCallback.Response{Outcome: processCallback.OutcomeProcessed}}
	h := NewHandler(uc, nopLogger{})

	form := url.Values{"data": {"eyJ9"}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/callback", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "eyJ9", uc.data)
}

func TestHandle_ReasonCodes(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedReason string
	}{
		{"undecodable payload", processCallback.ErrInvalidResponse, http.StatusBadRequest, processCallback.ReasonInvalidResponse},
		{"missing required fields", processCallback.ErrInvalidData, http.StatusBadRequest, processCallback.ReasonInvalidData},
		{"bad signature", processCallback.ErrInvalidSignature, http.StatusBadRequest, processCallback.ReasonInvalidSignature},
		{"unknown transaction", processCallback.ErrTransactionNotFound, http.StatusNotFound, processCallback.ReasonTransactionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, nopLogger{})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/callback?data=eyJ9", nil)
			rec := httptest.NewRecorder()
			h.Handle(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			body := decodeFailure(t, rec)
			assert.Equal(t, tt.expectedReason, body.Reason)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestHandle_MissingData(t *testing.T) {
	h := NewHandler(&fakeUseCase{}, nopLogger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/callback", nil)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, processCallback.ReasonInvalidResponse, decodeFailure(t, rec).Reason)
}

func TestHandle_InternalError(t *testing.T) {
	h := NewHandler(&fakeUseCase{err: processCallback.ErrInternal}, nopLogger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/callback?data=eyJ9", nil)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
