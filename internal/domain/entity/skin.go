package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"skinvault/internal/domain/value"
)

// PlaceholderImage replaces an empty image URL.
const PlaceholderImage = "/placeholder.svg"

// Skin is one inventory item of an owner.
type Skin struct {
	ID            int64
	OwnerID       string
	Name          string
	Float         string
	Wear          value.Wear
	Image         string
	PurchasePrice decimal.Decimal
	CurrentPrice  decimal.Decimal
	Notes         string
	Trend         value.Trend
	AcquiredAt    time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProfitLoss is always derived from the prices, it is never stored.
func (s Skin) ProfitLoss() decimal.Decimal {
	return s.CurrentPrice.Sub(s.PurchasePrice)
}

// SkinFields are the caller-supplied fields of a new skin.
type SkinFields struct {
	Name          string
	Float         string
	Wear          string
	Image         string
	PurchasePrice decimal.Decimal
	CurrentPrice  decimal.Decimal
	Notes         string
	Trend         string
	AcquiredAt    *time.Time
}

// SkinPatch is a partial update. Nil fields are not touched.
type SkinPatch struct {
	Name          *string
	Float         *string
	Wear          *value.Wear
	Image         *string
	PurchasePrice *decimal.Decimal
	CurrentPrice  *decimal.Decimal
	Notes         *string
	Trend         *value.Trend
	AcquiredAt    *time.Time
}

func (p SkinPatch) IsEmpty() bool {
	return p == SkinPatch{}
}

// Apply returns a copy of s with the patch applied.
func (p SkinPatch) Apply(s Skin) Skin {
	if p.Name != nil {
		s.Name = strings.TrimSpace(*p.Name)
	}
	if p.Float != nil {
		s.Float = *p.Float
	}
	if p.Wear != nil {
		s.Wear = *p.Wear
	}
	if p.Image != nil {
		s.Image = ImageOrPlaceholder(*p.Image)
	}
	if p.PurchasePrice != nil {
		s.PurchasePrice = *p.PurchasePrice
	}
	if p.CurrentPrice != nil {
		s.CurrentPrice = *p.CurrentPrice
	}
	if p.Notes != nil {
		s.Notes = *p.Notes
	}
	if p.Trend != nil {
		s.Trend = *p.Trend
	}
	if p.AcquiredAt != nil {
		s.AcquiredAt = *p.AcquiredAt
	}

	return s
}

func ImageOrPlaceholder(image string) string {
	if strings.TrimSpace(image) == "" {
		return PlaceholderImage
	}

	return image
}
