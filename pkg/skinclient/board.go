package skinclient

import (
	"context"
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"skinvault/pkg/rest"
)

type Side int

const (
	SideYours Side = iota
	SideTheirs
)

// Board holds the items of both sides while a trade is being composed. The
// same item may be placed more than once.
type Board struct {
	mu     sync.Mutex
	yours  []rest.TradeItem
	theirs []rest.TradeItem
}

func (b *Board) Add(side Side, item rest.TradeItem) {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := b.side(side)
	*items = append(*items, item)
}

// Remove drops the first item with the given id and reports whether one was
// found.
func (b *Board) Remove(side Side, id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := b.side(side)

	i := slices.IndexFunc(*items, func(item rest.TradeItem) bool { return item.ID == id })
	if i < 0 {
		return false
	}

	*items = slices.Delete(*items, i, i+1)

	return true
}

// Items returns a copy of one side.
func (b *Board) Items(side Side) []rest.TradeItem {
	b.mu.Lock()
	defer b.mu.Unlock()

	return slices.Clone(*b.side(side))
}

func (b *Board) TotalValue(side Side) decimal.Decimal {
	total := decimal.Zero
	for _, item := range b.Items(side) {
		total = total.Add(item.Value)
	}

	return total
}

func (b *Board) CanEvaluate() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.yours) > 0 && len(b.theirs) > 0
}

// Evaluate sends both sides to the API. It is a no-op returning a nil result
// while either side is empty.
func (b *Board) Evaluate(ctx context.Context, client *Client) (*rest.TradeEvaluation, error) {
	if !b.CanEvaluate() {
		return nil, nil //nolint:nilnil
	}

	result, err := client.EvaluateTrade(ctx, rest.TradeEvaluateRequest{
		YourItems:  b.Items(SideYours),
		TheirItems: b.Items(SideTheirs),
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (b *Board) side(side Side) *[]rest.TradeItem {
	if side == SideTheirs {
		return &b.theirs
	}

	return &b.yours
}
