package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"skinvault/internal/domain"
	"skinvault/internal/domain/entity"
	"skinvault/pkg/errcodes"
)

// SkinRepository stores skins and their transaction ledger. Every query is
// scoped by the owner.
type SkinRepository struct {
	store
}

func NewSkinRepository(db *sqlx.DB, queryTimeout time.Duration) *SkinRepository {
	return &SkinRepository{store: store{db: db, queryTimeout: queryTimeout}}
}

// ListSkins returns the skins of the owner newest first.
func (r *SkinRepository) ListSkins(ctx context.Context, ownerID string) ([]entity.Skin, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	query := `SELECT ` + skinColumns + `
		FROM skins
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	var schemas []skinSchema
	if err := r.db.SelectContext(ctx, &schemas, query, ownerID); err != nil {
		return nil, domain.Internal(err, "failed to list skins")
	}

	result := make([]entity.Skin, 0, len(schemas))
	for _, s := range schemas {
		result = append(result, s.toDomain())
	}

	return result, nil
}

func (r *SkinRepository) GetSkin(ctx context.Context, ownerID string, id int64) (entity.Skin, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	query := `SELECT ` + skinColumns + ` FROM skins WHERE id = $1 AND user_id = $2`

	var schema skinSchema
	if err := r.db.GetContext(ctx, &schema, query, id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Skin{}, skinNotFound()
		}

		return entity.Skin{}, domain.Internal(err, "failed to get skin")
	}

	return schema.toDomain(), nil
}

func (r *SkinRepository) CreateSkin(ctx context.Context, skin entity.Skin) (entity.Skin, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	query, args, err := r.db.BindNamed(`
		INSERT INTO skins (
			user_id, name, float, wear, image, purchase_price,
			current_price, notes, trend, acquired_at
		) VALUES (
			:user_id, :name, :float, :wear, :image, :purchase_price,
			:current_price, :notes, :trend, :acquired_at
		)
		RETURNING `+skinColumns, fromSkin(skin))
	if err != nil {
		return entity.Skin{}, domain.Internal(err, "failed to build query")
	}

	var created skinSchema
	if err = r.db.GetContext(ctx, &created, query, args...); err != nil {
		return entity.Skin{}, domain.Internal(err, "failed to create skin")
	}

	return created.toDomain(), nil
}

// UpdateSkin applies the non-nil fields of the patch.
func (r *SkinRepository) UpdateSkin(ctx context.Context, ownerID string, id int64, patch entity.SkinPatch) (entity.Skin, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	params := map[string]any{
		"id":             id,
		"user_id":        ownerID,
		"name":           patch.Name,
		"float":          patch.Float,
		"wear":           nil,
		"image":          patch.Image,
		"purchase_price": patch.PurchasePrice,
		"current_price":  patch.CurrentPrice,
		"notes":          patch.Notes,
		"set_trend":      patch.Trend != nil,
		"trend":          nil,
		"acquired_at":    patch.AcquiredAt,
	}

	if patch.Wear != nil {
		params["wear"] = patch.Wear.String()
	}

	if patch.Trend != nil {
		params["trend"] = nullTrend(*patch.Trend)
	}

	query, args, err := r.db.BindNamed(`
		UPDATE skins SET
			name = COALESCE(CAST(:name AS TEXT), name),
			float = COALESCE(CAST(:float AS TEXT), float),
			wear = COALESCE(CAST(:wear AS TEXT), wear),
			image = COALESCE(CAST(:image AS TEXT), image),
			purchase_price = COALESCE(CAST(:purchase_price AS NUMERIC), purchase_price),
			current_price = COALESCE(CAST(:current_price AS NUMERIC), current_price),
			notes = COALESCE(CAST(:notes AS TEXT), notes),
			trend = CASE WHEN CAST(:set_trend AS BOOLEAN) THEN CAST(:trend AS TEXT) ELSE trend END,
			acquired_at = COALESCE(CAST(:acquired_at AS TIMESTAMPTZ), acquired_at),
			updated_at = now()
		WHERE id = :id AND user_id = :user_id
		RETURNING `+skinColumns, params)
	if err != nil {
		return entity.Skin{}, domain.Internal(err, "failed to build query")
	}

	var updated skinSchema
	if err = r.db.GetContext(ctx, &updated, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Skin{}, skinNotFound()
		}

		return entity.Skin{}, domain.Internal(err, "failed to update skin")
	}

	return updated.toDomain(), nil
}

func (r *SkinRepository) DeleteSkin(ctx context.Context, ownerID string, id int64) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM skins WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return domain.Internal(err, "failed to delete skin")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.Internal(err, "failed to check affected rows")
	}

	if rows == 0 {
		return skinNotFound()
	}

	return nil
}

// SellSkin locks the skin, records the sale and deletes the skin in one
// transaction. A failed commit is reported as a partial failure since the
// outcome is unknown to the caller.
func (r *SkinRepository) SellSkin(ctx context.Context, sale entity.Sale) (entity.Skin, entity.Transaction, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var (
		sold     entity.Skin
		recorded entity.Transaction
	)

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		var schema skinSchema

		query := `SELECT ` + skinColumns + ` FROM skins WHERE id = $1 AND user_id = $2 FOR UPDATE`
		if err := tx.GetContext(ctx, &schema, query, sale.SkinID, sale.OwnerID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return skinNotFound()
			}

			return domain.Internal(err, "failed to lock skin")
		}

		sold = schema.toDomain()

		var err error

		recorded, err = r.createTransactionTx(ctx, tx, sale.Transaction(sold))
		if err != nil {
			return err
		}

		if _, err = tx.ExecContext(ctx, `DELETE FROM skins WHERE id = $1 AND user_id = $2`, sale.SkinID, sale.OwnerID); err != nil {
			return domain.Internal(err, "failed to delete sold skin")
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, errCommit) {
			return entity.Skin{}, entity.Transaction{}, domain.WrapError(err, domain.KindPartialFailure,
				errcodes.PartialFailure, "sale could not be confirmed")
		}

		return entity.Skin{}, entity.Transaction{}, err
	}

	return sold, recorded, nil
}

// ApplyPriceChange stores the new price and trend and appends the change to the
// ledger in one transaction.
func (r *SkinRepository) ApplyPriceChange(
	ctx context.Context,
	skin entity.Skin,
	change entity.Transaction,
) (entity.Skin, entity.Transaction, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var (
		updated  entity.Skin
		recorded entity.Transaction
	)

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE skins
			SET current_price = $1, trend = $2, updated_at = now()
			WHERE id = $3 AND user_id = $4
			RETURNING ` + skinColumns

		var schema skinSchema
		if err := tx.GetContext(ctx, &schema, query, skin.CurrentPrice, nullTrend(skin.Trend), skin.ID, skin.OwnerID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return skinNotFound()
			}

			return domain.Internal(err, "failed to update price")
		}

		updated = schema.toDomain()

		var err error

		recorded, err = r.createTransactionTx(ctx, tx, change)

		return err
	})
	if err != nil {
		return entity.Skin{}, entity.Transaction{}, err
	}

	return updated, recorded, nil
}

// ListOwners returns every owner with at least one skin.
func (r *SkinRepository) ListOwners(ctx context.Context) ([]string, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var owners []string
	if err := r.db.SelectContext(ctx, &owners, `SELECT DISTINCT user_id FROM skins ORDER BY user_id`); err != nil {
		return nil, domain.Internal(err, "failed to list owners")
	}

	return owners, nil
}

func skinNotFound() error {
	return domain.NotFound(errcodes.SkinNotFound, "skin not found")
}
