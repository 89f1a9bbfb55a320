package entity

import "github.com/shopspring/decimal"

// TradeItem is the projection of an item placed on a trade board.
type TradeItem struct {
	ID          string
	Name        string
	Image       string
	Value       decimal.Decimal
	MarketTrend string
	Popularity  int
}
