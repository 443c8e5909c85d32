package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nathanyu/payment-transfer/internal/domain"
)

const transferColumns = `id, amount::text, payer, payee, status, created_at, updated_at`

// TransferLedger persists transfer records. Create and UpdateStatus are
// designed to run inside the same transaction as the balance mutations.
type TransferLedger struct {
	db *pgxpool.Pool
}

func NewTransferLedger(db *pgxpool.Pool) *TransferLedger {
	return &TransferLedger{db: db}
}

func scanTransfer(row pgx.Row) (domain.Transfer, error) {
	var t domain.Transfer
	var amount, status string
	err := row.Scan(&t.ID, &amount, &t.Payer, &t.Payee, &status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Transfer{}, err
	}
	t.Status = domain.TransferStatus(status)
	t.Amount, err = domain.ParseMoney(amount)
	if err != nil {
		return domain.Transfer{}, fmt.Errorf("corrupt amount for transfer %s: %w", t.ID, err)
	}
	return t, nil
}

// Create inserts a new transfer record with status processing.
func (l *TransferLedger) Create(ctx context.Context, amount domain.Money, payerID, payeeID int64) (domain.Transfer, error) {
	id := uuid.Must(uuid.NewV7())
	row := querierFrom(ctx, l.db).QueryRow(ctx,
		`INSERT INTO transfers (id, amount, payer, payee, status)
		 VALUES ($1, $2::numeric, $3, $4, $5)
		 RETURNING `+transferColumns,
		id, amount.String(), payerID, payeeID, string(domain.StatusProcessing),
	)
	t, err := scanTransfer(row)
	if err != nil {
		return domain.Transfer{}, fmt.Errorf("create transfer: %w", err)
	}
	return t, nil
}

// UpdateStatus moves a transfer to a terminal state.
func (l *TransferLedger) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TransferStatus) (domain.Transfer, error) {
	row := querierFrom(ctx, l.db).QueryRow(ctx,
		`UPDATE transfers SET status = $2, updated_at = now()
		  WHERE id = $1
		 RETURNING `+transferColumns,
		id, string(status),
	)
	t, err := scanTransfer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Transfer{}, fmt.Errorf("transfer %s not found", id)
		}
		return domain.Transfer{}, fmt.Errorf("update transfer %s: %w", id, err)
	}
	return t, nil
}

// Get loads one transfer by id.
func (l *TransferLedger) Get(ctx context.Context, id uuid.UUID) (domain.Transfer, error) {
	row := querierFrom(ctx, l.db).QueryRow(ctx,
		`SELECT `+transferColumns+` FROM transfers WHERE id = $1`, id)
	t, err := scanTransfer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Transfer{}, fmt.Errorf("transfer %s not found", id)
		}
		return domain.Transfer{}, fmt.Errorf("get transfer %s: %w", id, err)
	}
	return t, nil
}
