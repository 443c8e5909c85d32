package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nathanyu/payment-transfer/internal/domain"
)

const accountColumns = `id, full_name, email, document, kind, balance::text, created_at, updated_at`

// AccountStore persists accounts and their balances. Balance mutations go
// through Debit/Credit only; both respect a transaction carried in the
// context so the orchestrator can compose them with ledger writes.
type AccountStore struct {
	db *pgxpool.Pool
}

func NewAccountStore(db *pgxpool.Pool) *AccountStore {
	return &AccountStore{db: db}
}

func scanAccount(row pgx.Row) (domain.Account, error) {
	var acc domain.Account
	var kind, balance string
	err := row.Scan(&acc.ID, &acc.FullName, &acc.Email, &acc.Document, &kind, &balance, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		return domain.Account{}, err
	}
	acc.Kind = domain.AccountKind(kind)
	acc.Balance, err = domain.ParseMoney(balance)
	if err != nil {
		return domain.Account{}, fmt.Errorf("corrupt balance for account %d: %w", acc.ID, err)
	}
	return acc, nil
}

// Create inserts a new account. Duplicate email or document surfaces as
// an INVALID_TRANSACTION domain error.
func (s *AccountStore) Create(ctx context.Context, acc domain.Account) (domain.Account, error) {
	row := querierFrom(ctx, s.db).QueryRow(ctx,
		`INSERT INTO accounts (full_name, email, document, kind, balance)
		 VALUES ($1, $2, $3, $4, $5::numeric)
		 RETURNING `+accountColumns,
		acc.FullName, acc.Email, acc.Document, string(acc.Kind), acc.Balance.String(),
	)
	created, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.Account{}, domain.NewInvalid("email or document already in use")
		}
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}
	return created, nil
}

// Get loads one account by id.
func (s *AccountStore) Get(ctx context.Context, id int64) (domain.Account, error) {
	row := querierFrom(ctx, s.db).QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	acc, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("get account %d: %w", id, err)
	}
	return acc, nil
}

// Debit subtracts amount from the account balance. The conditional UPDATE
// re-checks sufficiency so a concurrent transfer that raced past the
// orchestrator's check still cannot drive the balance negative.
func (s *AccountStore) Debit(ctx context.Context, id int64, amount domain.Money) error {
	tag, err := querierFrom(ctx, s.db).Exec(ctx,
		`UPDATE accounts
		    SET balance = balance - $1::numeric, updated_at = now()
		  WHERE id = $2 AND balance >= $1::numeric`,
		amount.String(), id,
	)
	if err != nil {
		return fmt.Errorf("debit account %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := querierFrom(ctx, s.db).QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("debit account %d: %w", id, err)
		}
		if !exists {
			return domain.ErrAccountNotFound
		}
		return domain.ErrInsufficientBalance
	}
	return nil
}

// Credit adds amount to the account balance.
func (s *AccountStore) Credit(ctx context.Context, id int64, amount domain.Money) error {
	tag, err := querierFrom(ctx, s.db).Exec(ctx,
		`UPDATE accounts
		    SET balance = balance + $1::numeric, updated_at = now()
		  WHERE id = $2`,
		amount.String(), id,
	)
	if err != nil {
		return fmt.Errorf("credit account %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}
