package value

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Trend is the informational price direction of a skin. The zero value means
// no trend and is encoded as JSON null.
type Trend string

const (
	TrendNone Trend = ""
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
)

// ParseTrend coerces anything but "up" and "down" to TrendNone.
func ParseTrend(s string) Trend {
	switch Trend(strings.ToLower(strings.TrimSpace(s))) {
	case TrendUp:
		return TrendUp
	case TrendDown:
		return TrendDown
	default:
		return TrendNone
	}
}

// TrendBetween returns the direction of a price move. An unchanged price has
// no trend.
func TrendBetween(old, current decimal.Decimal) Trend {
	switch current.Cmp(old) {
	case 1:
		return TrendUp
	case -1:
		return TrendDown
	default:
		return TrendNone
	}
}

func (t Trend) Ptr() *string {
	if t == TrendNone {
		return nil
	}

	s := string(t)

	return &s
}

func (t Trend) String() string {
	return string(t)
}
