package skin_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"skinvault/internal/domain"
	"skinvault/internal/domain/entity"
	"skinvault/internal/domain/value"
	"skinvault/pkg/errcodes"
)

var errDatabaseDown = errors.New("database is down")

// memoryRepository keeps the rows newest first.
type memoryRepository struct {
	mu           sync.Mutex
	nextID       int64
	skins        []entity.Skin
	transactions []entity.Transaction
	calls        map[string]int

	failTransactions bool
	failListTimes    int
	// failDeleteAfterCommit removes the row and still reports an error.
	failDeleteAfterCommit bool
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{calls: make(map[string]int)}
}

func (r *memoryRepository) called(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.calls[name]
}

func (r *memoryRepository) totalCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total int
	for _, n := range r.calls {
		total += n
	}

	return total
}

func (r *memoryRepository) ListSkins(_ context.Context, ownerID string) ([]entity.Skin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls["ListSkins"]++

	if r.failListTimes > 0 {
		r.failListTimes--
		return nil, domain.Internal(errDatabaseDown, "failed to list skins")
	}

	result := make([]entity.Skin, 0, len(r.skins))
	for _, s := range r.skins {
		if s.OwnerID == ownerID {
			result = append(result, s)
		}
	}

	return result, nil
}

func (r *memoryRepository) GetSkin(_ context.Context, ownerID string, id int64) (entity.Skin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls["GetSkin"]++

	i := r.index(ownerID, id)
	if i < 0 {
		return entity.Skin{}, domain.NotFound(errcodes.SkinNotFound, "skin not found")
	}

	return r.skins[i], nil
}

func (r *memoryRepository) CreateSkin(_ context.Context, skin entity.Skin) (entity.Skin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls["CreateSkin"]++

	r.nextID++
	now := time.Now()
	skin.ID = r.nextID
	skin.CreatedAt = now
	skin.UpdatedAt = now

	if skin.AcquiredAt.IsZero() {
		skin.AcquiredAt = now
	}

	r.skins = append([]entity.Skin{skin}, r.skins...)

	return skin, nil
}

func (r *memoryRepository) UpdateSkin(_ context.Context, ownerID string, id int64, patch entity.SkinPatch) (entity.Skin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls["UpdateSkin"]++

	i := r.index(ownerID, id)
	if i < 0 {
		return entity.Skin{}, domain.NotFound(errcodes.SkinNotFound, "skin not found")
	}

	r.skins[i] = patch.Apply(r.skins[i])

	return r.skins[i], nil
}

func (r *memoryRepository) DeleteSkin(_ context.Context, ownerID string, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls["DeleteSkin"]++

	i := r.index(ownerID, id)
	if i < 0 {
		return domain.NotFound(errcodes.SkinNotFound, "skin not found")
	}

	r.skins = slices.Delete(r.skins, i, i+1)

	if r.failDeleteAfterCommit {
		r.failDeleteAfterCommit = false
		return domain.Internal(errDatabaseDown, "failed to delete skin")
	}

	return nil
}

func (r *memoryRepository) SellSkin(_ context.Context, sale entity.Sale) (entity.Skin, entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls["SellSkin"]++

	i := r.index(sale.OwnerID, sale.SkinID)
	if i < 0 {
		return entity.Skin{}, entity.Transaction{}, domain.NotFound(errcodes.SkinNotFound, "skin not found")
	}

	skin := r.skins[i]
	tx := r.appendTransaction(sale.Transaction(skin))
	r.skins = slices.Delete(r.skins, i, i+1)

	return skin, tx, nil
}

func (r *memoryRepository) ApplyPriceChange(
	_ context.Context,
	skin entity.Skin,
	change entity.Transaction,
) (entity.Skin, entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls["ApplyPriceChange"]++

	i := r.index(skin.OwnerID, skin.ID)
	if i < 0 {
		return entity.Skin{}, entity.Transaction{}, domain.NotFound(errcodes.SkinNotFound, "skin not found")
	}

	r.skins[i].CurrentPrice = skin.CurrentPrice
	r.skins[i].Trend = skin.Trend

	return r.skins[i], r.appendTransaction(change), nil
}

func (r *memoryRepository) CreateTransaction(_ context.Context, tx entity.Transaction) (entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls["CreateTransaction"]++

	if r.failTransactions {
		return entity.Transaction{}, domain.Internal(errDatabaseDown, "failed to create transaction")
	}

	return r.appendTransaction(tx), nil
}

func (r *memoryRepository) ListTransactions(_ context.Context, ownerID string, limit int) ([]entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls["ListTransactions"]++

	result := make([]entity.Transaction, 0)
	for _, tx := range r.transactions {
		if tx.OwnerID == ownerID && len(result) < limit {
			result = append(result, tx)
		}
	}

	return result, nil
}

func (r *memoryRepository) ListOwners(context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls["ListOwners"]++

	var owners []string
	for _, s := range r.skins {
		if !slices.Contains(owners, s.OwnerID) {
			owners = append(owners, s.OwnerID)
		}
	}

	return owners, nil
}

func (r *memoryRepository) appendTransaction(tx entity.Transaction) entity.Transaction {
	tx.ID = int64(len(r.transactions) + 1)
	tx.CreatedAt = time.Now()
	r.transactions = append([]entity.Transaction{tx}, r.transactions...)

	return tx
}

func (r *memoryRepository) index(ownerID string, id int64) int {
	return slices.IndexFunc(r.skins, func(s entity.Skin) bool {
		return s.ID == id && s.OwnerID == ownerID
	})
}

func (r *memoryRepository) transactionsOf(kind value.TransactionType) []entity.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []entity.Transaction
	for _, tx := range r.transactions {
		if tx.Type == kind {
			result = append(result, tx)
		}
	}

	return result
}

type staticPrices map[string]decimal.Decimal

func (p staticPrices) MarketPrice(_ context.Context, name string) (decimal.Decimal, error) {
	price, ok := p[name]
	if !ok {
		return decimal.Zero, domain.NewError(domain.KindUpstream, errcodes.PriceUnavailable, "no price")
	}

	return price, nil
}
