package persistence

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"skinvault/internal/domain/entity"
	"skinvault/internal/domain/value"
)

const skinColumns = `id, user_id, name, float, wear, image, purchase_price, current_price,
	notes, trend, acquired_at, created_at, updated_at`

const transactionColumns = `id, user_id, skin_id, transaction_type, amount, notes, created_at`

// skinSchema is a row of the skins table.
type skinSchema struct {
	ID            int64           `db:"id"`
	UserID        string          `db:"user_id"`
	Name          string          `db:"name"`
	Float         string          `db:"float"`
	Wear          string          `db:"wear"`
	Image         string          `db:"image"`
	PurchasePrice decimal.Decimal `db:"purchase_price"`
	CurrentPrice  decimal.Decimal `db:"current_price"`
	Notes         string          `db:"notes"`
	Trend         sql.NullString  `db:"trend"`
	AcquiredAt    time.Time       `db:"acquired_at"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

func fromSkin(s entity.Skin) skinSchema {
	acquiredAt := s.AcquiredAt
	if acquiredAt.IsZero() {
		acquiredAt = time.Now()
	}

	return skinSchema{
		ID:            s.ID,
		UserID:        s.OwnerID,
		Name:          s.Name,
		Float:         s.Float,
		Wear:          s.Wear.String(),
		Image:         s.Image,
		PurchasePrice: s.PurchasePrice,
		CurrentPrice:  s.CurrentPrice,
		Notes:         s.Notes,
		Trend:         nullTrend(s.Trend),
		AcquiredAt:    acquiredAt,
	}
}

// toDomain coerces unknown wear and trend values read from the table.
func (s skinSchema) toDomain() entity.Skin {
	wear, err := value.ParseWear(s.Wear)
	if err != nil {
		wear = value.WearFactoryNew
	}

	return entity.Skin{
		ID:            s.ID,
		OwnerID:       s.UserID,
		Name:          s.Name,
		Float:         s.Float,
		Wear:          wear,
		Image:         entity.ImageOrPlaceholder(s.Image),
		PurchasePrice: s.PurchasePrice,
		CurrentPrice:  s.CurrentPrice,
		Notes:         s.Notes,
		Trend:         value.ParseTrend(s.Trend.String),
		AcquiredAt:    s.AcquiredAt,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

type transactionSchema struct {
	ID        int64           `db:"id"`
	UserID    string          `db:"user_id"`
	SkinID    sql.NullInt64   `db:"skin_id"`
	Type      string          `db:"transaction_type"`
	Amount    decimal.Decimal `db:"amount"`
	Notes     string          `db:"notes"`
	CreatedAt time.Time       `db:"created_at"`
}

func fromTransaction(tx entity.Transaction) transactionSchema {
	schema := transactionSchema{
		UserID: tx.OwnerID,
		Type:   tx.Type.String(),
		Amount: tx.Amount,
		Notes:  tx.Notes,
	}

	if tx.SkinID != nil {
		schema.SkinID = sql.NullInt64{Int64: *tx.SkinID, Valid: true}
	}

	return schema
}

func (s transactionSchema) toDomain() (entity.Transaction, error) {
	kind, err := value.ParseTransactionType(s.Type)
	if err != nil {
		return entity.Transaction{}, err
	}

	tx := entity.Transaction{
		ID:        s.ID,
		OwnerID:   s.UserID,
		Type:      kind,
		Amount:    s.Amount,
		Notes:     s.Notes,
		CreatedAt: s.CreatedAt,
	}

	if s.SkinID.Valid {
		skinID := s.SkinID.Int64
		tx.SkinID = &skinID
	}

	return tx, nil
}

type userSchema struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func (s userSchema) toDomain() entity.User {
	return entity.User{
		ID:           s.ID,
		Email:        s.Email,
		PasswordHash: s.PasswordHash,
		CreatedAt:    s.CreatedAt,
	}
}

func nullTrend(t value.Trend) sql.NullString {
	return sql.NullString{String: t.String(), Valid: t != value.TrendNone}
}
