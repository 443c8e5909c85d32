package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nathanyu/payment-transfer/internal/domain"
	"github.com/nathanyu/payment-transfer/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// AccountStore is the persistence contract for accounts.
type AccountStore interface {
	Create(ctx context.Context, acc domain.Account) (domain.Account, error)
	Get(ctx context.Context, id int64) (domain.Account, error)
	Debit(ctx context.Context, id int64, amount domain.Money) error
	Credit(ctx context.Context, id int64, amount domain.Money) error
}

// TransferLedger is the persistence contract for transfer records.
type TransferLedger interface {
	Create(ctx context.Context, amount domain.Money, payerID, payeeID int64) (domain.Transfer, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TransferStatus) (domain.Transfer, error)
}

// Transactor scopes a function to one database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Authorizer consults the external authorization oracle.
type Authorizer interface {
	Authorize(ctx context.Context) bool
}

// Notifier delivers the post-transfer notification.
type Notifier interface {
	Notify(ctx context.Context, transferID uuid.UUID) error
}

// EventPublisher publishes transfer events for downstream consumers.
type EventPublisher interface {
	PublishTransferCompleted(event domain.TransferCompleted) error
}

// Service orchestrates a money transfer end to end. It holds no state of
// its own; every request re-reads current balances from the store.
type Service struct {
	accounts   AccountStore
	ledger     TransferLedger
	tx         Transactor
	authorizer Authorizer
	notifier   Notifier
	events     EventPublisher
}

func New(accounts AccountStore, ledger TransferLedger, tx Transactor, auth Authorizer, notif Notifier, events EventPublisher) *Service {
	return &Service{
		accounts:   accounts,
		ledger:     ledger,
		tx:         tx,
		authorizer: auth,
		notifier:   notif,
		events:     events,
	}
}

// Execute runs one transfer: validation, business rules, the external
// authorization check, then the atomic debit/credit/ledger unit, and
// finally the best-effort notification. Nothing is mutated before the
// authorization check passes; any failure inside the atomic unit rolls
// the whole unit back.
func (s *Service) Execute(ctx context.Context, amount domain.Money, payerID, payeeID int64) (domain.TransferResult, error) {
	start := time.Now()

	if telemetry.Tracer != nil {
		var span trace.Span
		ctx, span = telemetry.Tracer.Start(ctx, "service.Execute",
			trace.WithAttributes(
				attribute.Int64("transfer.payer", payerID),
				attribute.Int64("transfer.payee", payeeID),
				attribute.String("transfer.value", amount.String()),
			),
		)
		defer span.End()
	}

	result, err := s.execute(ctx, amount, payerID, payeeID)

	outcome := outcomeOf(err)
	telemetry.TransfersTotal.WithLabelValues(outcome).Inc()
	telemetry.TransferAmount.WithLabelValues(outcome).Observe(amount.Decimal().InexactFloat64())
	telemetry.TransferDuration.Observe(time.Since(start).Seconds())

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(attribute.String("transfer.outcome", outcome))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
	}

	return result, err
}

func (s *Service) execute(ctx context.Context, amount domain.Money, payerID, payeeID int64) (domain.TransferResult, error) {
	slog.InfoContext(ctx, "starting transfer", "payer", payerID, "payee", payeeID, "value", amount.String())

	if !amount.Positive() {
		return domain.TransferResult{}, domain.NewInvalid("value must be positive")
	}
	if payerID == payeeID {
		return domain.TransferResult{}, domain.NewInvalid("payer and payee must be distinct")
	}

	payer, err := s.accounts.Get(ctx, payerID)
	if err != nil {
		return domain.TransferResult{}, err
	}
	if _, err := s.accounts.Get(ctx, payeeID); err != nil {
		return domain.TransferResult{}, err
	}

	if payer.IsMerchant() {
		slog.WarnContext(ctx, "transfer attempt by merchant account", "payer", payerID)
		return domain.TransferResult{}, domain.ErrMerchantPayer
	}

	if !payer.CanPay(amount) {
		slog.WarnContext(ctx, "insufficient balance",
			"payer", payerID, "balance", payer.Balance.String(), "value", amount.String())
		return domain.TransferResult{}, domain.ErrInsufficientBalance
	}

	if !s.authorizer.Authorize(ctx) {
		slog.WarnContext(ctx, "transfer denied by authorization service", "payer", payerID)
		return domain.TransferResult{}, domain.ErrTransferDenied
	}

	var transfer domain.Transfer
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		created, err := s.ledger.Create(ctx, amount, payerID, payeeID)
		if err != nil {
			return err
		}
		if err := s.accounts.Debit(ctx, payerID, amount); err != nil {
			return err
		}
		if err := s.accounts.Credit(ctx, payeeID, amount); err != nil {
			return err
		}
		transfer, err = s.ledger.UpdateStatus(ctx, created.ID, domain.StatusCompleted)
		return err
	})
	if err != nil {
		slog.ErrorContext(ctx, "transfer rolled back", "payer", payerID, "payee", payeeID, "error", err)
		// A debit that lost the race to a concurrent transfer keeps its
		// own code; everything else is an unclassified fault.
		if errors.Is(err, domain.ErrInsufficientBalance) {
			return domain.TransferResult{}, err
		}
		return domain.TransferResult{}, domain.NewTransferFailed(err)
	}

	s.afterCommit(ctx, transfer)

	slog.InfoContext(ctx, "transfer completed", "transfer_id", transfer.ID)

	return domain.TransferResult{
		TransferID: transfer.ID,
		Value:      transfer.Amount,
		Payer:      transfer.Payer,
		Payee:      transfer.Payee,
	}, nil
}

// afterCommit runs the best-effort side effects. The transfer is already
// final; failures here are observed, never surfaced.
func (s *Service) afterCommit(ctx context.Context, transfer domain.Transfer) {
	if err := s.notifier.Notify(ctx, transfer.ID); err != nil {
		slog.ErrorContext(ctx, "failed to notify payee", "transfer_id", transfer.ID, "error", err)
	}

	if s.events != nil {
		event := domain.TransferCompleted{
			TransferID:  transfer.ID.String(),
			Value:       transfer.Amount,
			Payer:       transfer.Payer,
			Payee:       transfer.Payee,
			CompletedAt: transfer.UpdatedAt,
		}
		if err := s.events.PublishTransferCompleted(event); err != nil {
			slog.ErrorContext(ctx, "failed to publish transfer event", "transfer_id", transfer.ID, "error", err)
		}
	}
}

// CreateAccount registers a new account.
func (s *Service) CreateAccount(ctx context.Context, acc domain.Account) (domain.Account, error) {
	if !domain.ValidKind(acc.Kind) {
		return domain.Account{}, domain.NewInvalid("unknown account kind")
	}
	return s.accounts.Create(ctx, acc)
}

// GetAccount loads one account, including the current balance.
func (s *Service) GetAccount(ctx context.Context, id int64) (domain.Account, error) {
	return s.accounts.Get(ctx, id)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "completed"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, domain.ErrMerchantPayer):
		return "unauthorized"
	case errors.Is(err, domain.ErrTransferDenied):
		return "denied"
	case domain.CodeOf(err) == domain.CodeInvalidTransaction:
		return "invalid"
	default:
		return "failed"
	}
}
