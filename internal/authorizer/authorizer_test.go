package authorizer_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nathanyu/payment-transfer/internal/authorizer"
	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		allowed bool
	}{
		{name: "200 allows", status: http.StatusOK, allowed: true},
		{name: "403 denies", status: http.StatusForbidden, allowed: false},
		{name: "500 denies", status: http.StatusInternalServerError, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var method string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				method = r.Method
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			client := authorizer.New(srv.URL)
			assert.Equal(t, tt.allowed, client.Authorize(context.Background()))
			assert.Equal(t, http.MethodGet, method)
		})
	}
}

func TestAuthorize_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := authorizer.New(srv.URL)
	assert.False(t, client.Authorize(context.Background()), "transport failure counts as denial")
}

func TestAuthorize_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := authorizer.New(srv.URL)
	assert.False(t, client.Authorize(ctx))
}
