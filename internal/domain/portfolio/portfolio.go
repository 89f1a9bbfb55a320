// Package portfolio computes statistics over a list of skins.
package portfolio

import (
	"slices"

	"github.com/shopspring/decimal"

	"skinvault/internal/domain/entity"
)

// DefaultTopN is the size of the best and worst performer lists.
const DefaultTopN = 3

var hundred = decimal.NewFromInt(100) //nolint:gochecknoglobals,mnd

type Summary struct {
	Count            int
	TotalValue       decimal.Decimal
	TotalProfit      decimal.Decimal
	ProfitPercentage decimal.Decimal
	BestPerformers   []entity.Skin
	WorstPerformers  []entity.Skin
}

func Summarize(skins []entity.Skin) Summary {
	return Summary{
		Count:            len(skins),
		TotalValue:       TotalValue(skins),
		TotalProfit:      TotalProfit(skins),
		ProfitPercentage: ProfitPercentage(skins),
		BestPerformers:   BestPerformers(skins, DefaultTopN),
		WorstPerformers:  WorstPerformers(skins, DefaultTopN),
	}
}

func TotalValue(skins []entity.Skin) decimal.Decimal {
	total := decimal.Zero
	for _, s := range skins {
		total = total.Add(s.CurrentPrice)
	}

	return total
}

func TotalProfit(skins []entity.Skin) decimal.Decimal {
	total := decimal.Zero
	for _, s := range skins {
		total = total.Add(s.ProfitLoss())
	}

	return total
}

// ProfitPercentage is the total profit relative to the total value. It is zero
// when the total value is not positive.
func ProfitPercentage(skins []entity.Skin) decimal.Decimal {
	value := TotalValue(skins)
	if !value.IsPositive() {
		return decimal.Zero
	}

	return TotalProfit(skins).Div(value).Mul(hundred)
}

// BestPerformers returns at most n skins with a positive profit, largest first.
// Equal profits keep their input order.
func BestPerformers(skins []entity.Skin, n int) []entity.Skin {
	return top(skins, n,
		func(s entity.Skin) bool { return s.ProfitLoss().IsPositive() },
		func(a, b entity.Skin) int { return b.ProfitLoss().Cmp(a.ProfitLoss()) },
	)
}

// WorstPerformers returns at most n skins with a negative profit, most negative
// first. Equal profits keep their input order.
func WorstPerformers(skins []entity.Skin, n int) []entity.Skin {
	return top(skins, n,
		func(s entity.Skin) bool { return s.ProfitLoss().IsNegative() },
		func(a, b entity.Skin) int { return a.ProfitLoss().Cmp(b.ProfitLoss()) },
	)
}

func top(
	skins []entity.Skin,
	n int,
	keep func(entity.Skin) bool,
	cmp func(a, b entity.Skin) int,
) []entity.Skin {
	if n <= 0 {
		return []entity.Skin{}
	}

	result := make([]entity.Skin, 0, len(skins))
	for _, s := range skins {
		if keep(s) {
			result = append(result, s)
		}
	}

	slices.SortStableFunc(result, cmp)

	if len(result) > n {
		result = result[:n]
	}

	return result
}
