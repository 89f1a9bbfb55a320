package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"skinvault/internal/domain/entity"
	"skinvault/internal/infrastructure/pricing"
)

func tradeItem(value string, trend string, popularity int) entity.TradeItem {
	return entity.TradeItem{Value: decimal.RequireFromString(value), MarketTrend: trend, Popularity: popularity}
}

func TestEvaluateTrade(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name     string
		your     []entity.TradeItem
		their    []entity.TradeItem
		contains string
	}{
		{
			name:     "Fair",
			your:     []entity.TradeItem{tradeItem("100", "", 50)},
			their:    []entity.TradeItem{tradeItem("103", "", 50)},
			contains: "fair",
		},
		{
			name:     "Gain",
			your:     []entity.TradeItem{tradeItem("100", "down", 20)},
			their:    []entity.TradeItem{tradeItem("100", "up", 90)},
			contains: "you gain about",
		},
		{
			name:     "Loss",
			your:     []entity.TradeItem{tradeItem("100", "", 50)},
			their:    []entity.TradeItem{tradeItem("80", "", 50)},
			contains: "you lose about $20.00",
		},
		{
			name:     "Nothing",
			your:     nil,
			their:    nil,
			contains: "nothing to evaluate",
		},
		{
			name:     "Negative against zero",
			your:     []entity.TradeItem{tradeItem("-10", "", 50)},
			their:    []entity.TradeItem{tradeItem("0", "", 50)},
			contains: "nothing to evaluate",
		},
		{
			name:     "Both negative",
			your:     []entity.TradeItem{tradeItem("-10", "", 50)},
			their:    []entity.TradeItem{tradeItem("-20", "up", 50)},
			contains: "nothing to evaluate",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			rq.Contains(pricing.EvaluateTrade(tc.your, tc.their), tc.contains)
		})
	}
}
