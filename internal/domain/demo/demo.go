// Package demo provides the sample portfolio shown to anonymous visitors.
package demo

import (
	"time"

	"github.com/shopspring/decimal"

	"skinvault/internal/domain/entity"
	"skinvault/internal/domain/value"
)

const OwnerID = "demo"

// Skins returns the sample skins newest first. Timestamps are relative to now.
func Skins(now time.Time) []entity.Skin {
	sample := []struct {
		name     string
		float    string
		wear     value.Wear
		purchase string
		current  string
		trend    value.Trend
	}{
		{"AWP | Dragon Lore", "0.0123", value.WearFactoryNew, "8500.00", "10250.00", value.TrendUp},
		{"AK-47 | Fire Serpent", "0.1542", value.WearFieldTested, "950.00", "1120.50", value.TrendUp},
		{"M4A4 | Howl", "0.0811", value.WearMinimalWear, "3900.00", "3650.00", value.TrendDown},
		{"Karambit | Doppler", "0.0094", value.WearFactoryNew, "1400.00", "1385.00", value.TrendNone},
		{"Desert Eagle | Blaze", "0.0301", value.WearFactoryNew, "450.00", "520.00", value.TrendUp},
		{"USP-S | Kill Confirmed", "0.4120", value.WearWellWorn, "95.00", "72.40", value.TrendDown},
	}

	skins := make([]entity.Skin, 0, len(sample))

	for i, s := range sample {
		created := now.Add(-time.Duration(i) * 24 * time.Hour)

		skins = append(skins, entity.Skin{
			ID:            int64(len(sample) - i),
			OwnerID:       OwnerID,
			Name:          s.name,
			Float:         s.float,
			Wear:          s.wear,
			Image:         entity.PlaceholderImage,
			PurchasePrice: decimal.RequireFromString(s.purchase),
			CurrentPrice:  decimal.RequireFromString(s.current),
			Trend:         s.trend,
			AcquiredAt:    created,
			CreatedAt:     created,
			UpdatedAt:     created,
		})
	}

	return skins
}
