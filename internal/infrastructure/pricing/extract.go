package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

var ErrNoPrice = errors.New("no price in response")

// ExtractPrice reads the price found at the JSONPath. Numbers and numeric
// strings are accepted; a list yields its first element.
func ExtractPrice(body []byte, path string) (decimal.Decimal, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return decimal.Zero, fmt.Errorf("json.Unmarshal: %w", err)
	}

	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return decimal.Zero, fmt.Errorf("jsonpath.Get %q: %w", path, err)
	}

	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return decimal.Zero, ErrNoPrice
		}

		v = list[0]
	}

	var price decimal.Decimal

	switch p := v.(type) {
	case float64:
		price = decimal.NewFromFloat(p)
	case string:
		price, err = decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(p), "$"))
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrNoPrice, p)
		}
	default:
		return decimal.Zero, fmt.Errorf("%w: %v", ErrNoPrice, v)
	}

	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative %s", ErrNoPrice, price)
	}

	return price.Round(2), nil //nolint:mnd
}
