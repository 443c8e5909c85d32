package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nathanyu/payment-transfer/internal/domain"
	"github.com/nathanyu/payment-transfer/internal/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	executeResult domain.TransferResult
	executeErr    error
	executeCalls  int

	account    domain.Account
	accountErr error
}

func (s *stubService) Execute(_ context.Context, amount domain.Money, payerID, payeeID int64) (domain.TransferResult, error) {
	s.executeCalls++
	return s.executeResult, s.executeErr
}

func (s *stubService) CreateAccount(_ context.Context, acc domain.Account) (domain.Account, error) {
	if s.accountErr != nil {
		return domain.Account{}, s.accountErr
	}
	acc.ID = 1
	return acc, nil
}

func (s *stubService) GetAccount(_ context.Context, id int64) (domain.Account, error) {
	return s.account, s.accountErr
}

func newRouter(svc *stubService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler.SetupRoutes(r, handler.NewHandler(svc))
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestTransfer_Success(t *testing.T) {
	transferID := uuid.Must(uuid.NewV7())
	svc := &stubService{executeResult: domain.TransferResult{
		TransferID: transferID,
		Value:      domain.MustMoney("30.50"),
		Payer:      1,
		Payee:      2,
	}}
	r := newRouter(svc)

	w := doJSON(r, http.MethodPost, "/v1/transfer", `{"value": 30.50, "payer": 1, "payee": 2}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := envelope(t, w)
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, "transfer completed", resp["message"])

	data := resp["data"].(map[string]any)
	assert.Equal(t, transferID.String(), data["transfer_id"])
	assert.Equal(t, 30.50, data["value"])
	assert.Equal(t, 1, svc.executeCalls)
}

func TestTransfer_RequestValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"value":`},
		{name: "missing value", body: `{"payer": 1, "payee": 2}`},
		{name: "zero value", body: `{"value": 0, "payer": 1, "payee": 2}`},
		{name: "negative value", body: `{"value": -5, "payer": 1, "payee": 2}`},
		{name: "three decimal places", body: `{"value": 10.125, "payer": 1, "payee": 2}`},
		{name: "missing payer", body: `{"value": 10, "payee": 2}`},
		{name: "negative payee", body: `{"value": 10, "payer": 1, "payee": -2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{}
			r := newRouter(svc)

			w := doJSON(r, http.MethodPost, "/v1/transfer", tt.body)

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Equal(t, "error", envelope(t, w)["status"])
			assert.Zero(t, svc.executeCalls, "invalid requests must not reach the core")
		})
	}
}

func TestTransfer_ErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "payer not found",
			err:         domain.ErrAccountNotFound,
			wantStatus:  http.StatusUnprocessableEntity,
			wantMessage: "account not found",
		},
		{
			name:        "insufficient balance",
			err:         domain.ErrInsufficientBalance,
			wantStatus:  http.StatusUnprocessableEntity,
			wantMessage: "insufficient balance",
		},
		{
			name:        "merchant payer",
			err:         domain.ErrMerchantPayer,
			wantStatus:  http.StatusUnprocessableEntity,
			wantMessage: "merchant accounts cannot send money",
		},
		{
			name:        "authorization denied",
			err:         domain.ErrTransferDenied,
			wantStatus:  http.StatusServiceUnavailable,
			wantMessage: "transfer not authorized by external service",
		},
		{
			name:        "invalid transaction",
			err:         domain.NewInvalid("payer and payee must be distinct"),
			wantStatus:  http.StatusUnprocessableEntity,
			wantMessage: "payer and payee must be distinct",
		},
		{
			name:        "unexpected fault hides detail",
			err:         domain.NewTransferFailed(errors.New("connection refused")),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "failed to process transfer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&stubService{executeErr: tt.err})

			w := doJSON(r, http.MethodPost, "/v1/transfer", `{"value": 30.00, "payer": 1, "payee": 2}`)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := envelope(t, w)
			assert.Equal(t, "error", resp["status"])
			assert.Equal(t, tt.wantMessage, resp["message"])
		})
	}
}

func TestCreateAccount(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r := newRouter(&stubService{})

		w := doJSON(r, http.MethodPost, "/v1/accounts",
			`{"full_name": "Maria Silva", "email": "maria@example.com", "document": "12345678901", "kind": "personal", "balance": 50.00}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		resp := envelope(t, w)
		assert.Equal(t, "account created", resp["message"])
		data := resp["data"].(map[string]any)
		assert.Equal(t, float64(1), data["id"])
	})

	invalid := []struct {
		name string
		body string
	}{
		{name: "missing name", body: `{"email": "a@b.com", "document": "12345678901", "kind": "personal"}`},
		{name: "bad email", body: `{"full_name": "Maria", "email": "not-an-email", "document": "12345678901", "kind": "personal"}`},
		{name: "short document", body: `{"full_name": "Maria", "email": "a@b.com", "document": "123", "kind": "personal"}`},
		{name: "unknown kind", body: `{"full_name": "Maria", "email": "a@b.com", "document": "12345678901", "kind": "company"}`},
		{name: "negative balance", body: `{"full_name": "Maria", "email": "a@b.com", "document": "12345678901", "kind": "personal", "balance": -5}`},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&stubService{})
			w := doJSON(r, http.MethodPost, "/v1/accounts", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		})
	}

	t.Run("duplicate email", func(t *testing.T) {
		r := newRouter(&stubService{accountErr: domain.NewInvalid("email or document already in use")})

		w := doJSON(r, http.MethodPost, "/v1/accounts",
			`{"full_name": "Maria Silva", "email": "maria@example.com", "document": "12345678901", "kind": "personal"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "email or document already in use", envelope(t, w)["message"])
	})
}

func TestGetBalance(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r := newRouter(&stubService{account: domain.Account{ID: 7, Balance: domain.MustMoney("120.00")}})

		w := doJSON(r, http.MethodGet, "/v1/accounts/7/balance", "")

		assert.Equal(t, http.StatusOK, w.Code)
		data := envelope(t, w)["data"].(map[string]any)
		assert.Equal(t, float64(7), data["account_id"])
		assert.Equal(t, float64(120), data["balance"])
	})

	t.Run("not found", func(t *testing.T) {
		r := newRouter(&stubService{accountErr: domain.ErrAccountNotFound})
		w := doJSON(r, http.MethodGet, "/v1/accounts/7/balance", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		r := newRouter(&stubService{})
		w := doJSON(r, http.MethodGet, "/v1/accounts/abc/balance", "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestHealth(t *testing.T) {
	r := newRouter(&stubService{})
	w := doJSON(r, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp handler.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}
