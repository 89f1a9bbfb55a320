package value

import (
	"errors"
	"fmt"
)

type TransactionType string

const (
	TransactionBuy   TransactionType = "buy"
	TransactionSell  TransactionType = "sell"
	TransactionTrade TransactionType = "trade"
	// TransactionPriceChange is written only by the price refresh.
	TransactionPriceChange TransactionType = "price_change"
)

var ErrUnknownTransactionType = errors.New("unknown transaction type")

func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(s); t {
	case TransactionBuy, TransactionSell, TransactionTrade, TransactionPriceChange:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTransactionType, s)
	}
}

func (t TransactionType) String() string {
	return string(t)
}
