package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"skinvault/internal/domain/entity"
)

var (
	trendUpWeight   = decimal.RequireFromString("1.05") //nolint:gochecknoglobals
	trendDownWeight = decimal.RequireFromString("0.95") //nolint:gochecknoglobals
	// A popularity of 100 adds 10% to the weighted value, 0 removes 10%.
	popularityScale = decimal.NewFromInt(500) //nolint:gochecknoglobals,mnd
	popularityMid   = 50
	fairMargin      = decimal.RequireFromString("0.05") //nolint:gochecknoglobals
)

// EvaluateTrade weighs every item by its market trend and popularity and
// describes which side gains. It is the server-side evaluation behind the
// steam-api evaluateTrade action.
func EvaluateTrade(your, their []entity.TradeItem) string {
	yourRaw, yourWeighted := weigh(your)
	theirRaw, theirWeighted := weigh(their)

	larger := decimal.Max(yourWeighted, theirWeighted)
	if !larger.IsPositive() {
		return "Both sides are empty or worthless, there is nothing to evaluate."
	}

	diff := theirWeighted.Sub(yourWeighted)
	ratio := diff.Abs().Div(larger)

	summary := fmt.Sprintf("You offer $%s and receive $%s at market value.",
		yourRaw.StringFixed(2), theirRaw.StringFixed(2))

	switch {
	case ratio.LessThanOrEqual(fairMargin):
		return summary + " Adjusted for trend and popularity the trade is fair."
	case diff.IsPositive():
		return summary + fmt.Sprintf(
			" Adjusted for trend and popularity you gain about $%s. Accepting is recommended.",
			diff.StringFixed(2))
	default:
		return summary + fmt.Sprintf(
			" Adjusted for trend and popularity you lose about $%s. Consider asking for more.",
			diff.Abs().StringFixed(2))
	}
}

func weigh(items []entity.TradeItem) (raw, weighted decimal.Decimal) {
	raw, weighted = decimal.Zero, decimal.Zero

	for _, item := range items {
		raw = raw.Add(item.Value)
		weighted = weighted.Add(item.Value.Mul(trendWeight(item.MarketTrend)).Mul(popularityWeight(item.Popularity)))
	}

	return raw, weighted
}

func trendWeight(trend string) decimal.Decimal {
	switch trend {
	case "up":
		return trendUpWeight
	case "down":
		return trendDownWeight
	default:
		return decimal.NewFromInt(1)
	}
}

func popularityWeight(popularity int) decimal.Decimal {
	popularity = min(max(popularity, 0), 100) //nolint:mnd

	return decimal.NewFromInt(1).Add(decimal.NewFromInt(int64(popularity - popularityMid)).Div(popularityScale))
}
