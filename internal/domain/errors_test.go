package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{name: "sentinel", err: ErrAccountNotFound, want: CodeUserNotFound},
		{name: "wrapped sentinel", err: fmt.Errorf("loading payer: %w", ErrInsufficientBalance), want: CodeInsufficientBalance},
		{name: "invalid with message", err: NewInvalid("value must be positive"), want: CodeInvalidTransaction},
		{name: "transfer failed", err: NewTransferFailed(errors.New("boom")), want: CodeTransferFailed},
		{name: "unclassified", err: errors.New("boom"), want: CodeTransferFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestMerchantAndDenialShareCodeButNotIdentity(t *testing.T) {
	// Both map to UNAUTHORIZED_TRANSFER, but the HTTP layer tells them
	// apart: denial is an upstream problem, merchant-payer is a client one.
	assert.Equal(t, ErrMerchantPayer.Code, ErrTransferDenied.Code)
	assert.False(t, errors.Is(ErrMerchantPayer, ErrTransferDenied))
}

func TestTransferFailedKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewTransferFailed(cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}
