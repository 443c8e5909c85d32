package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransferStatus is the lifecycle state of a transfer record.
type TransferStatus string

const (
	StatusProcessing TransferStatus = "processing"
	StatusCompleted  TransferStatus = "completed"
	StatusFailed     TransferStatus = "failed"
)

// Transfer is a ledger record of money moving from payer to payee. It is
// created as processing inside the atomic unit and flips to completed in
// the same transaction as the balance mutations; it is never deleted.
type Transfer struct {
	ID        uuid.UUID      `json:"id"`
	Amount    Money          `json:"value"`
	Payer     int64          `json:"payer"`
	Payee     int64          `json:"payee"`
	Status    TransferStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TransferResult is what the orchestrator reports back to the caller on
// success.
type TransferResult struct {
	TransferID uuid.UUID `json:"transfer_id"`
	Value      Money     `json:"value"`
	Payer      int64     `json:"payer"`
	Payee      int64     `json:"payee"`
}
