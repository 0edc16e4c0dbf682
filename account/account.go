// Package account is the domain facade over the ranked LRU cache: accounts
// are cached by ID and ranked by balance.
package account

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Account is the cached record. ID is its identity; Balance is the ranking
// value and may change between updates of the same ID.
type Account struct {
	ID      int64
	Balance decimal.Decimal
}

// New builds an Account.
func New(id int64, balance decimal.Decimal) Account {
	return Account{ID: id, Balance: balance}
}

// SameID reports whether a and b are the same account, regardless of balance.
func (a Account) SameID(b Account) bool { return a.ID == b.ID }

// String implements fmt.Stringer.
func (a Account) String() string {
	return fmt.Sprintf("Account(id=%d, balance=%s)", a.ID, a.Balance.String())
}

// CompareBalance orders accounts numerically by balance, so 1.0 and 1.00
// compare equal.
func CompareBalance(a, b Account) int { return a.Balance.Cmp(b.Balance) }
