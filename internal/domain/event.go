package domain

import "time"

// EventType constants
const (
	EventTypeTransferCompleted = "TransferCompleted"
)

// TransferCompleted is published after the atomic unit commits. Consumers
// must treat it as best-effort: a committed transfer may lack an event if
// the broker was unreachable at publish time.
type TransferCompleted struct {
	TransferID  string    `json:"transfer_id"`
	Value       Money     `json:"value"`
	Payer       int64     `json:"payer"`
	Payee       int64     `json:"payee"`
	CompletedAt time.Time `json:"completed_at"`
}

func (e TransferCompleted) GetType() string { return EventTypeTransferCompleted }
