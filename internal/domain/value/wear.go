package value

import (
	"errors"
	"fmt"
	"strings"
)

// Wear is the condition grade of a skin.
type Wear string

const (
	WearFactoryNew    Wear = "Factory New"
	WearMinimalWear   Wear = "Minimal Wear"
	WearFieldTested   Wear = "Field-Tested"
	WearWellWorn      Wear = "Well-Worn"
	WearBattleScarred Wear = "Battle-Scarred"
)

var ErrUnknownWear = errors.New("unknown wear")

func Wears() []Wear {
	return []Wear{WearFactoryNew, WearMinimalWear, WearFieldTested, WearWellWorn, WearBattleScarred}
}

// ParseWear accepts the display names case-insensitively. An empty string is
// Factory New.
func ParseWear(s string) (Wear, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return WearFactoryNew, nil
	}

	for _, w := range Wears() {
		if strings.EqualFold(s, string(w)) {
			return w, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownWear, s)
}

func (w Wear) String() string {
	return string(w)
}
