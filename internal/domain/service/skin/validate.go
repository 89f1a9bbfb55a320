package skin

import (
	"fmt"
	"strings"

	"git.appkode.ru/pub/go/failure"
	"github.com/shopspring/decimal"

	"skinvault/internal/domain"
	"skinvault/internal/domain/entity"
	"skinvault/internal/domain/value"
	"skinvault/pkg/errcodes"
)

const amountScale = 2

var maxAmount = decimal.New(1, 12) //nolint:gochecknoglobals,mnd

func newSkin(ownerID string, fields entity.SkinFields) (entity.Skin, error) {
	name := strings.TrimSpace(fields.Name)
	if name == "" {
		return entity.Skin{}, domain.Validation(errcodes.InvalidSkinName, "name is required")
	}

	wear, err := value.ParseWear(fields.Wear)
	if err != nil {
		return entity.Skin{}, domain.Validation(errcodes.InvalidWear, err.Error())
	}

	if err = validatePrice("purchase_price", fields.PurchasePrice); err != nil {
		return entity.Skin{}, err
	}

	if err = validatePrice("current_price", fields.CurrentPrice); err != nil {
		return entity.Skin{}, err
	}

	skin := entity.Skin{
		OwnerID:       ownerID,
		Name:          name,
		Float:         strings.TrimSpace(fields.Float),
		Wear:          wear,
		Image:         entity.ImageOrPlaceholder(fields.Image),
		PurchasePrice: fields.PurchasePrice,
		CurrentPrice:  fields.CurrentPrice,
		Notes:         fields.Notes,
		Trend:         value.ParseTrend(fields.Trend),
	}

	if fields.AcquiredAt != nil {
		skin.AcquiredAt = *fields.AcquiredAt
	}

	return skin, nil
}

func validatePatch(patch entity.SkinPatch) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return domain.Validation(errcodes.InvalidSkinName, "name must not be empty")
	}

	if patch.PurchasePrice != nil {
		if err := validatePrice("purchase_price", *patch.PurchasePrice); err != nil {
			return err
		}
	}

	if patch.CurrentPrice != nil {
		if err := validatePrice("current_price", *patch.CurrentPrice); err != nil {
			return err
		}
	}

	return nil
}

func normalizePatch(patch entity.SkinPatch) entity.SkinPatch {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
	}

	if patch.Image != nil {
		image := entity.ImageOrPlaceholder(*patch.Image)
		patch.Image = &image
	}

	return patch
}

func validatePrice(field string, price decimal.Decimal) error {
	if price.IsNegative() {
		return domain.Validation(errcodes.InvalidPrice, field+" must not be negative")
	}

	return validateAmount(errcodes.InvalidPrice, field, price)
}

// validateAmount keeps amounts within the stored NUMERIC(14, 2) range.
func validateAmount(code failure.ErrorCode, field string, amount decimal.Decimal) error {
	if !amount.Equal(amount.Truncate(amountScale)) {
		return domain.Validation(code, fmt.Sprintf("%s must have at most %d decimal places", field, amountScale))
	}

	if amount.Abs().GreaterThanOrEqual(maxAmount) {
		return domain.Validation(code, fmt.Sprintf("%s must be less than %s", field, maxAmount))
	}

	return nil
}
