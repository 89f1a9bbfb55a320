package server

import (
	"strings"

	"skinvault/internal/domain"
	"skinvault/internal/domain/entity"
	"skinvault/internal/domain/portfolio"
	"skinvault/internal/domain/service/trade"
	"skinvault/internal/domain/value"
	"skinvault/pkg/errcodes"
	"skinvault/pkg/lox"
	"skinvault/pkg/rest"
)

// percentScale is the number of decimal places of percentages on the wire.
const percentScale = 2

func newRESTSkin(skin entity.Skin) rest.Skin {
	return rest.Skin{
		ID:            skin.ID,
		Name:          skin.Name,
		Float:         skin.Float,
		Wear:          skin.Wear.String(),
		Image:         skin.Image,
		PurchasePrice: skin.PurchasePrice,
		CurrentPrice:  skin.CurrentPrice,
		ProfitLoss:    skin.ProfitLoss(),
		Notes:         skin.Notes,
		Trend:         skin.Trend.Ptr(),
		AcquiredAt:    skin.AcquiredAt,
		CreatedAt:     skin.CreatedAt,
		UpdatedAt:     skin.UpdatedAt,
	}
}

func newRESTSkins(skins []entity.Skin) []rest.Skin {
	return lox.Map(skins, newRESTSkin)
}

func newRESTTransaction(tx entity.Transaction) rest.Transaction {
	return rest.Transaction{
		ID:        tx.ID,
		SkinID:    tx.SkinID,
		Type:      tx.Type.String(),
		Amount:    tx.Amount,
		Notes:     tx.Notes,
		CreatedAt: tx.CreatedAt,
	}
}

func newRESTSummary(summary portfolio.Summary) rest.Summary {
	return rest.Summary{
		Count:            summary.Count,
		TotalValue:       summary.TotalValue,
		TotalProfit:      summary.TotalProfit,
		ProfitPercentage: summary.ProfitPercentage.Round(percentScale),
		BestPerformers:   newRESTSkins(summary.BestPerformers),
		WorstPerformers:  newRESTSkins(summary.WorstPerformers),
	}
}

func newRESTSession(session entity.Session) rest.Session {
	return rest.Session{
		UserID:      session.UserID,
		Email:       session.Email,
		AccessToken: session.AccessToken,
		ExpiresAt:   session.ExpiresAt,
	}
}

func newRESTTradeEvaluation(result trade.Result) rest.TradeEvaluation {
	return rest.TradeEvaluation{
		Source:     string(result.Source),
		Verdict:    string(result.Verdict),
		Difference: result.Difference,
		YourTotal:  result.YourTotal,
		TheirTotal: result.TheirTotal,
		Message:    result.Message,
	}
}

func newDomainSkinFields(skin rest.SkinCreate) entity.SkinFields {
	var trend string
	if skin.Trend != nil {
		trend = *skin.Trend
	}

	return entity.SkinFields{
		Name:          skin.Name,
		Float:         skin.Float,
		Wear:          skin.Wear,
		Image:         skin.Image,
		PurchasePrice: skin.PurchasePrice,
		CurrentPrice:  skin.CurrentPrice,
		Notes:         skin.Notes,
		Trend:         trend,
		AcquiredAt:    skin.AcquiredAt,
	}
}

func newDomainSkinPatch(patch rest.SkinPatch) (entity.SkinPatch, error) {
	result := entity.SkinPatch{
		Name:          patch.Name,
		Float:         patch.Float,
		Image:         patch.Image,
		PurchasePrice: patch.PurchasePrice,
		CurrentPrice:  patch.CurrentPrice,
		Notes:         patch.Notes,
		AcquiredAt:    patch.AcquiredAt,
	}

	if patch.Wear != nil {
		wear, err := value.ParseWear(*patch.Wear)
		if err != nil {
			return entity.SkinPatch{}, domain.WrapError(err, domain.KindValidation, errcodes.InvalidWear, err.Error())
		}

		result.Wear = &wear
	}

	if patch.Trend != nil {
		trend := value.ParseTrend(strings.TrimSpace(*patch.Trend))
		result.Trend = &trend
	}

	return result, nil
}

func newDomainTradeItem(item rest.TradeItem) entity.TradeItem {
	return entity.TradeItem{
		ID:          item.ID,
		Name:        item.Name,
		Image:       item.Image,
		Value:       item.Value,
		MarketTrend: item.MarketTrend,
		Popularity:  item.Popularity,
	}
}

func newDomainTradeItems(items []rest.TradeItem) []entity.TradeItem {
	return lox.Map(items, newDomainTradeItem)
}
