// Package trade compares the two sides of a proposed trade.
package trade

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"skinvault/internal/domain"
	"skinvault/internal/domain/entity"
	"skinvault/pkg/errcodes"
	"skinvault/pkg/logx"
)

const defaultRemoteTimeout = 5 * time.Second

// BalanceThreshold is the absolute difference under which a trade is balanced.
var BalanceThreshold = decimal.NewFromInt(5) //nolint:gochecknoglobals,mnd

var ErrEmptySide = domain.Validation(errcodes.TradeSideEmpty, "both sides of the trade need at least one item")

type Verdict string

const (
	VerdictBalanced    Verdict = "balanced"
	VerdictFavorable   Verdict = "favorable"
	VerdictUnfavorable Verdict = "unfavorable"
	// VerdictAdvisory is used for remote evaluations, which are free text.
	VerdictAdvisory Verdict = "advisory"
)

type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

type Result struct {
	Source     Source
	Verdict    Verdict
	Difference decimal.Decimal
	YourTotal  decimal.Decimal
	TheirTotal decimal.Decimal
	Message    string
}

// RemoteEvaluator returns a natural-language evaluation of a trade.
type RemoteEvaluator interface {
	EvaluateTrade(ctx context.Context, your, their []entity.TradeItem) (string, error)
}

type Evaluator struct {
	remote        RemoteEvaluator
	remoteTimeout time.Duration
	observe       func(Source)
}

func NewEvaluator(remote RemoteEvaluator) *Evaluator {
	return &Evaluator{
		remote:        remote,
		remoteTimeout: defaultRemoteTimeout,
	}
}

func (e *Evaluator) WithRemoteTimeout(timeout time.Duration) *Evaluator {
	if timeout > 0 {
		e.remoteTimeout = timeout
	}

	return e
}

// WithObserver registers fn to be told which path produced each result.
func (e *Evaluator) WithObserver(fn func(Source)) *Evaluator {
	e.observe = fn
	return e
}

// Evaluate asks the remote evaluator first. Any remote failure, including an
// empty answer, falls back to the local rule.
func (e *Evaluator) Evaluate(ctx context.Context, your, their []entity.TradeItem) (Result, error) {
	if len(your) == 0 || len(their) == 0 {
		return Result{}, ErrEmptySide
	}

	if err := ValidateItems(your, their); err != nil {
		return Result{}, err
	}

	yourTotal := TotalValue(your)
	theirTotal := TotalValue(their)

	if e.remote != nil {
		text, err := e.evaluateRemote(ctx, your, their)
		if err == nil {
			e.report(SourceRemote)

			return Result{
				Source:     SourceRemote,
				Verdict:    VerdictAdvisory,
				Difference: yourTotal.Sub(theirTotal).Abs(),
				YourTotal:  yourTotal,
				TheirTotal: theirTotal,
				Message:    text,
			}, nil
		}

		if ctx.Err() != nil {
			return Result{}, fmt.Errorf("evaluate trade: %w", ctx.Err())
		}

		logger(ctx).Warn("remote trade evaluation failed, using fallback",
			slog.String(logx.FieldSource, string(SourceRemote)),
			logx.Error(err),
		)
	}

	e.report(SourceFallback)

	return Fallback(yourTotal, theirTotal), nil
}

func (e *Evaluator) evaluateRemote(ctx context.Context, your, their []entity.TradeItem) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.remoteTimeout)
	defer cancel()

	text, err := e.remote.EvaluateTrade(ctx, your, their)
	if err != nil {
		return "", fmt.Errorf("remote.EvaluateTrade: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("empty remote evaluation")
	}

	return text, nil
}

func (e *Evaluator) report(source Source) {
	if e.observe != nil {
		e.observe(source)
	}
}

// Fallback is the local rule: diff = your - their; |diff| < 5 is balanced, a
// positive diff is unfavorable to the caller, a negative one favorable.
func Fallback(yourTotal, theirTotal decimal.Decimal) Result {
	diff := yourTotal.Sub(theirTotal)

	result := Result{
		Source:     SourceFallback,
		Difference: diff.Abs(),
		YourTotal:  yourTotal,
		TheirTotal: theirTotal,
	}

	switch {
	case diff.Abs().LessThan(BalanceThreshold):
		result.Verdict = VerdictBalanced
		result.Message = "This trade looks balanced. Both sides offer similar value."
	case diff.IsPositive():
		result.Verdict = VerdictUnfavorable
		result.Message = fmt.Sprintf("This trade is unfavorable. You are giving $%s more in value.", diff.StringFixed(2))
	default:
		result.Verdict = VerdictFavorable
		result.Message = fmt.Sprintf("This trade is favorable. You are receiving $%s more in value.", diff.Abs().StringFixed(2))
	}

	return result
}

// ValidateItems rejects items with a negative value on either side.
func ValidateItems(sides ...[]entity.TradeItem) error {
	for _, items := range sides {
		for _, item := range items {
			if item.Value.IsNegative() {
				return domain.Validation(errcodes.InvalidTradeItem, "trade item value must not be negative")
			}
		}
	}

	return nil
}

func TotalValue(items []entity.TradeItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Value)
	}

	return total
}
