package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"skinvault/internal/domain/value"
)

// Transaction is an append-only ledger entry. SkinID is nil once the skin is
// gone.
type Transaction struct {
	ID        int64
	OwnerID   string
	SkinID    *int64
	Type      value.TransactionType
	Amount    decimal.Decimal
	Notes     string
	CreatedAt time.Time
}

func PurchaseNotes(name string) string {
	return "Purchased " + name
}

func SaleNotes(name string, price decimal.Decimal) string {
	return fmt.Sprintf("Sold %s for $%s", name, price.StringFixed(2))
}

func PriceChangeNotes(name string, from, to decimal.Decimal) string {
	return fmt.Sprintf("Price of %s changed from $%s to $%s", name, from.StringFixed(2), to.StringFixed(2))
}

// Sale is a request to sell a skin.
type Sale struct {
	OwnerID string
	SkinID  int64
	Price   decimal.Decimal
	Notes   string
}

// Transaction builds the sell ledger entry for the sold skin.
func (s Sale) Transaction(skin Skin) Transaction {
	notes := s.Notes
	if notes == "" {
		notes = SaleNotes(skin.Name, s.Price)
	}

	skinID := skin.ID

	return Transaction{
		OwnerID: s.OwnerID,
		SkinID:  &skinID,
		Type:    value.TransactionSell,
		Amount:  s.Price,
		Notes:   notes,
	}
}
