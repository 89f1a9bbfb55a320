// Package skin is the owner-scoped CRUD boundary over the skin inventory and
// its transaction ledger.
package skin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"skinvault/internal/domain"
	"skinvault/internal/domain/entity"
	"skinvault/internal/domain/value"
	"skinvault/pkg/errcodes"
	"skinvault/pkg/logx"
	"skinvault/pkg/retry"
)

const (
	DefaultTransactionsLimit = 50
	MaxTransactionsLimit     = 500
)

type Repository interface {
	ListSkins(ctx context.Context, ownerID string) ([]entity.Skin, error)
	GetSkin(ctx context.Context, ownerID string, id int64) (entity.Skin, error)
	CreateSkin(ctx context.Context, skin entity.Skin) (entity.Skin, error)
	UpdateSkin(ctx context.Context, ownerID string, id int64, patch entity.SkinPatch) (entity.Skin, error)
	DeleteSkin(ctx context.Context, ownerID string, id int64) error
	// SellSkin records the sale and removes the skin in one database transaction.
	SellSkin(ctx context.Context, sale entity.Sale) (entity.Skin, entity.Transaction, error)
	// ApplyPriceChange updates the price and trend of the skin and records the
	// change in one database transaction.
	ApplyPriceChange(ctx context.Context, skin entity.Skin, change entity.Transaction) (entity.Skin, entity.Transaction, error)
	CreateTransaction(ctx context.Context, tx entity.Transaction) (entity.Transaction, error)
	ListTransactions(ctx context.Context, ownerID string, limit int) ([]entity.Transaction, error)
	ListOwners(ctx context.Context) ([]string, error)
}

type PriceSource interface {
	MarketPrice(ctx context.Context, marketName string) (decimal.Decimal, error)
}

type Service struct {
	repo        Repository
	prices      PriceSource
	retryPolicy retry.Policy
	events      *broker
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:        repo,
		retryPolicy: retry.Once(),
		events:      newBroker(),
	}
}

func (s *Service) WithPriceSource(prices PriceSource) *Service {
	s.prices = prices
	return s
}

func (s *Service) WithRetryPolicy(p retry.Policy) *Service {
	s.retryPolicy = p
	return s
}

// Subscribe registers fn for every committed mutation. The returned func
// removes the subscription.
func (s *Service) Subscribe(fn func(context.Context, entity.SkinEvent)) (unsubscribe func()) {
	return s.events.subscribe(fn)
}

func (s *Service) ListSkins(ctx context.Context, ownerID string) ([]entity.Skin, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	var skins []entity.Skin

	err := s.withRetry(ctx, func() error {
		var err error
		skins, err = s.repo.ListSkins(ctx, ownerID)

		return err //nolint:wrapcheck
	})
	if err != nil {
		return nil, fmt.Errorf("repo.ListSkins: %w", err)
	}

	return skins, nil
}

func (s *Service) GetSkin(ctx context.Context, ownerID string, id int64) (entity.Skin, error) {
	if err := requireOwner(ownerID); err != nil {
		return entity.Skin{}, err
	}

	var skin entity.Skin

	err := s.withRetry(ctx, func() error {
		var err error
		skin, err = s.repo.GetSkin(ctx, ownerID, id)

		return err //nolint:wrapcheck
	})
	if err != nil {
		return entity.Skin{}, fmt.Errorf("repo.GetSkin: %w", err)
	}

	return skin, nil
}

// AddSkin validates the fields before touching the repository. The buy
// transaction is best effort: its failure is logged and the skin is kept.
func (s *Service) AddSkin(ctx context.Context, ownerID string, fields entity.SkinFields) (entity.Skin, error) {
	if err := requireOwner(ownerID); err != nil {
		return entity.Skin{}, err
	}

	skin, err := newSkin(ownerID, fields)
	if err != nil {
		return entity.Skin{}, err
	}

	created, err := s.repo.CreateSkin(ctx, skin)
	if err != nil {
		return entity.Skin{}, fmt.Errorf("repo.CreateSkin: %w", err)
	}

	skinID := created.ID

	_, err = s.repo.CreateTransaction(ctx, entity.Transaction{
		OwnerID: ownerID,
		SkinID:  &skinID,
		Type:    value.TransactionBuy,
		Amount:  created.PurchasePrice,
		Notes:   entity.PurchaseNotes(created.Name),
	})
	if err != nil {
		logger(ctx).Error("failed to record buy transaction",
			slog.Int64(logx.FieldSkinID, created.ID),
			logx.Error(err),
		)
	}

	s.events.publish(ctx, entity.SkinEvent{Kind: entity.SkinAdded, OwnerID: ownerID, Skin: created})

	return created, nil
}

func (s *Service) UpdateSkin(ctx context.Context, ownerID string, id int64, patch entity.SkinPatch) (entity.Skin, error) {
	if err := requireOwner(ownerID); err != nil {
		return entity.Skin{}, err
	}

	if err := validatePatch(patch); err != nil {
		return entity.Skin{}, err
	}

	var updated entity.Skin

	err := s.withRetry(ctx, func() error {
		var err error
		updated, err = s.repo.UpdateSkin(ctx, ownerID, id, normalizePatch(patch))

		return err //nolint:wrapcheck
	})
	if err != nil {
		return entity.Skin{}, fmt.Errorf("repo.UpdateSkin: %w", err)
	}

	s.events.publish(ctx, entity.SkinEvent{Kind: entity.SkinUpdated, OwnerID: ownerID, Skin: updated})

	return updated, nil
}

// DeleteSkin fails with a not found error when the skin is missing or owned by
// someone else, including a repeated delete of the same id. A retried attempt
// that finds nothing means the failed attempt already committed.
func (s *Service) DeleteSkin(ctx context.Context, ownerID string, id int64) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}

	var attempt int

	err := s.withRetry(ctx, func() error {
		attempt++

		err := s.repo.DeleteSkin(ctx, ownerID, id)
		if attempt > 1 && domain.IsKind(err, domain.KindNotFound) {
			return nil
		}

		return err //nolint:wrapcheck
	})
	if err != nil {
		return fmt.Errorf("repo.DeleteSkin: %w", err)
	}

	s.events.publish(ctx, entity.SkinEvent{Kind: entity.SkinDeleted, OwnerID: ownerID, Skin: entity.Skin{ID: id, OwnerID: ownerID}})

	return nil
}

// SellSkin records a sell transaction and removes the skin atomically. It is
// never retried.
func (s *Service) SellSkin(
	ctx context.Context,
	ownerID string,
	id int64,
	salePrice decimal.Decimal,
	notes string,
) (entity.Transaction, error) {
	if err := requireOwner(ownerID); err != nil {
		return entity.Transaction{}, err
	}

	if !salePrice.IsPositive() {
		return entity.Transaction{}, domain.Validation(errcodes.InvalidSalePrice, "sale price must be greater than zero")
	}

	if err := validateAmount(errcodes.InvalidSalePrice, "sale price", salePrice); err != nil {
		return entity.Transaction{}, err
	}

	sold, tx, err := s.repo.SellSkin(ctx, entity.Sale{
		OwnerID: ownerID,
		SkinID:  id,
		Price:   salePrice,
		Notes:   strings.TrimSpace(notes),
	})
	if err != nil {
		return entity.Transaction{}, fmt.Errorf("repo.SellSkin: %w", err)
	}

	s.events.publish(ctx, entity.SkinEvent{Kind: entity.SkinSold, OwnerID: ownerID, Skin: sold, Transaction: &tx})

	return tx, nil
}

func (s *Service) ListTransactions(ctx context.Context, ownerID string, limit int) ([]entity.Transaction, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	switch {
	case limit == 0:
		limit = DefaultTransactionsLimit
	case limit < 0 || limit > MaxTransactionsLimit:
		return nil, domain.Validation(errcodes.InvalidPaging,
			fmt.Sprintf("limit must be between 1 and %d", MaxTransactionsLimit))
	}

	var txs []entity.Transaction

	err := s.withRetry(ctx, func() error {
		var err error
		txs, err = s.repo.ListTransactions(ctx, ownerID, limit)

		return err //nolint:wrapcheck
	})
	if err != nil {
		return nil, fmt.Errorf("repo.ListTransactions: %w", err)
	}

	return txs, nil
}

// RefreshPrice pulls the market price of the skin. A moved price updates the
// skin and appends a price_change transaction; an unchanged price is a no-op.
func (s *Service) RefreshPrice(ctx context.Context, ownerID string, id int64) (entity.Skin, error) {
	if s.prices == nil {
		return entity.Skin{}, domain.NewError(domain.KindUpstream, errcodes.PriceUnavailable, "price source is not configured")
	}

	skin, err := s.GetSkin(ctx, ownerID, id)
	if err != nil {
		return entity.Skin{}, err
	}

	price, err := s.prices.MarketPrice(ctx, skin.Name)
	if err != nil {
		return entity.Skin{}, fmt.Errorf("prices.MarketPrice: %w", err)
	}

	price = price.Round(amountScale)
	if err = validatePrice("market price", price); err != nil {
		return entity.Skin{}, domain.WrapError(err, domain.KindUpstream, errcodes.PriceUnavailable, "market price is out of range")
	}

	if price.Equal(skin.CurrentPrice) {
		return skin, nil
	}

	previous := skin.CurrentPrice
	skin.Trend = value.TrendBetween(previous, price)
	skin.CurrentPrice = price

	skinID := skin.ID

	updated, tx, err := s.repo.ApplyPriceChange(ctx, skin, entity.Transaction{
		OwnerID: ownerID,
		SkinID:  &skinID,
		Type:    value.TransactionPriceChange,
		Amount:  price,
		Notes:   entity.PriceChangeNotes(skin.Name, previous, price),
	})
	if err != nil {
		return entity.Skin{}, fmt.Errorf("repo.ApplyPriceChange: %w", err)
	}

	s.events.publish(ctx, entity.SkinEvent{Kind: entity.SkinRepriced, OwnerID: ownerID, Skin: updated, Transaction: &tx})

	return updated, nil
}

// RefreshAll refreshes every skin of every owner and returns the number of
// repriced skins. Failures of single skins are logged and skipped.
func (s *Service) RefreshAll(ctx context.Context, each func(context.Context) error) (int, error) {
	owners, err := s.repo.ListOwners(ctx)
	if err != nil {
		return 0, fmt.Errorf("repo.ListOwners: %w", err)
	}

	var repriced int

	for _, ownerID := range owners {
		skins, err := s.ListSkins(ctx, ownerID)
		if err != nil {
			logger(ctx).Error("failed to list skins for refresh", slog.String(logx.FieldUserID, ownerID), logx.Error(err))
			continue
		}

		for _, skin := range skins {
			if each != nil {
				if err := each(ctx); err != nil {
					return repriced, err
				}
			}

			updated, err := s.RefreshPrice(ctx, ownerID, skin.ID)
			if err != nil {
				logger(ctx).Warn("failed to refresh price", slog.Int64(logx.FieldSkinID, skin.ID), logx.Error(err))
				continue
			}

			if !updated.CurrentPrice.Equal(skin.CurrentPrice) {
				repriced++
			}
		}
	}

	return repriced, nil
}

// withRetry retries op once unless the error is a client error that a retry
// cannot fix.
func (s *Service) withRetry(ctx context.Context, op func() error) error {
	return retry.Do(ctx, s.retryPolicy, func() error { //nolint:wrapcheck
		err := op()
		if err != nil && !transient(err) {
			return retry.Permanent(err)
		}

		return err
	})
}

func transient(err error) bool {
	switch domain.KindOf(err) {
	case domain.KindInternal, domain.KindUpstream:
		return true
	default:
		return false
	}
}

func requireOwner(ownerID string) error {
	if ownerID == "" {
		return domain.Unauthenticated("sign in required")
	}

	return nil
}
