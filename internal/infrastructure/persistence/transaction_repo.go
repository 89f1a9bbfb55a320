package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"skinvault/internal/domain"
	"skinvault/internal/domain/entity"
)

// CreateTransaction appends a ledger entry.
func (r *SkinRepository) CreateTransaction(ctx context.Context, tx entity.Transaction) (entity.Transaction, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var created entity.Transaction

	err := r.withTx(ctx, func(sqlTx *sqlx.Tx) error {
		var err error
		created, err = r.createTransactionTx(ctx, sqlTx, tx)

		return err
	})
	if err != nil {
		return entity.Transaction{}, err
	}

	return created, nil
}

// ListTransactions returns the ledger of the owner newest first.
func (r *SkinRepository) ListTransactions(ctx context.Context, ownerID string, limit int) ([]entity.Transaction, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	var schemas []transactionSchema
	if err := r.db.SelectContext(ctx, &schemas, query, ownerID, limit); err != nil {
		return nil, domain.Internal(err, "failed to list transactions")
	}

	result := make([]entity.Transaction, 0, len(schemas))

	for _, s := range schemas {
		tx, err := s.toDomain()
		if err != nil {
			return nil, domain.Internal(err, "failed to convert transaction")
		}

		result = append(result, tx)
	}

	return result, nil
}

func (r *SkinRepository) createTransactionTx(ctx context.Context, tx *sqlx.Tx, t entity.Transaction) (entity.Transaction, error) {
	query, args, err := tx.BindNamed(`
		INSERT INTO transactions (user_id, skin_id, transaction_type, amount, notes)
		VALUES (:user_id, :skin_id, :transaction_type, :amount, :notes)
		RETURNING `+transactionColumns, fromTransaction(t))
	if err != nil {
		return entity.Transaction{}, domain.Internal(err, "failed to build query")
	}

	var created transactionSchema
	if err = tx.GetContext(ctx, &created, query, args...); err != nil {
		return entity.Transaction{}, domain.Internal(err, "failed to insert transaction")
	}

	result, err := created.toDomain()
	if err != nil {
		return entity.Transaction{}, domain.Internal(err, "failed to convert transaction")
	}

	return result, nil
}
