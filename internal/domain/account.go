package domain

import "time"

// AccountKind distinguishes regular users from merchants. Merchants may
// only receive transfers, never send them.
type AccountKind string

const (
	KindPersonal AccountKind = "personal"
	KindMerchant AccountKind = "merchant"
)

// ValidKind reports whether k is a known account kind.
func ValidKind(k AccountKind) bool {
	return k == KindPersonal || k == KindMerchant
}

// Account is a registered user holding a balance. The balance is mutated
// only through the store's debit/credit operations.
type Account struct {
	ID        int64       `json:"id"`
	FullName  string      `json:"full_name"`
	Email     string      `json:"email"`
	Document  string      `json:"document"`
	Kind      AccountKind `json:"kind"`
	Balance   Money       `json:"balance"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// IsMerchant reports whether the account is a merchant account.
func (a Account) IsMerchant() bool { return a.Kind == KindMerchant }

// CanPay reports whether the account balance covers the given amount.
func (a Account) CanPay(amount Money) bool { return !a.Balance.LessThan(amount) }
