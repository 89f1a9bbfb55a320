package server_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"skinvault/internal/domain"
	"skinvault/internal/domain/entity"
	"skinvault/internal/domain/value"
	"skinvault/pkg/errcodes"
)

// fakeSkins is a minimal in-memory skin service.
type fakeSkins struct {
	mu          sync.Mutex
	nextID      int64
	skins       map[int64]entity.Skin
	txs         []entity.Transaction
	listCalls   int
	listGate    *listGate
	subscribers []func(context.Context, entity.SkinEvent)
}

func newFakeSkins() *fakeSkins {
	return &fakeSkins{skins: make(map[int64]entity.Skin)}
}

func (f *fakeSkins) ListSkins(_ context.Context, ownerID string) ([]entity.Skin, error) {
	if ownerID == "" {
		return nil, domain.Unauthenticated("sign in required")
	}

	f.mu.Lock()

	f.listCalls++

	result := make([]entity.Skin, 0, len(f.skins))
	for _, s := range f.skins {
		if s.OwnerID == ownerID {
			result = append(result, s)
		}
	}

	gate := f.listGate
	f.listGate = nil
	f.mu.Unlock()

	if gate != nil {
		close(gate.entered)
		<-gate.release
	}

	return result, nil
}

// listGate holds the next ListSkins call after it has read the skins.
type listGate struct {
	entered chan struct{}
	release chan struct{}
}

func (f *fakeSkins) holdNextList() *listGate {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listGate = &listGate{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}

	return f.listGate
}

func (f *fakeSkins) GetSkin(_ context.Context, ownerID string, id int64) (entity.Skin, error) {
	if ownerID == "" {
		return entity.Skin{}, domain.Unauthenticated("sign in required")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.skins[id]
	if !ok || s.OwnerID != ownerID {
		return entity.Skin{}, domain.NotFound(errcodes.SkinNotFound, "skin not found")
	}

	return s, nil
}

func (f *fakeSkins) AddSkin(ctx context.Context, ownerID string, fields entity.SkinFields) (entity.Skin, error) {
	if ownerID == "" {
		return entity.Skin{}, domain.Unauthenticated("sign in required")
	}

	if strings.TrimSpace(fields.Name) == "" {
		return entity.Skin{}, domain.Validation(errcodes.InvalidSkinName, "name is required")
	}

	f.mu.Lock()
	f.nextID++
	now := time.Now()
	s := entity.Skin{
		ID:            f.nextID,
		OwnerID:       ownerID,
		Name:          fields.Name,
		Wear:          value.WearFactoryNew,
		Image:         entity.ImageOrPlaceholder(fields.Image),
		PurchasePrice: fields.PurchasePrice,
		CurrentPrice:  fields.CurrentPrice,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	f.skins[s.ID] = s
	f.mu.Unlock()

	f.publish(ctx, entity.SkinEvent{Kind: entity.SkinAdded, OwnerID: ownerID, Skin: s})

	return s, nil
}

func (f *fakeSkins) UpdateSkin(ctx context.Context, ownerID string, id int64, patch entity.SkinPatch) (entity.Skin, error) {
	s, err := f.GetSkin(ctx, ownerID, id)
	if err != nil {
		return entity.Skin{}, err
	}

	s = patch.Apply(s)

	f.mu.Lock()
	f.skins[id] = s
	f.mu.Unlock()

	f.publish(ctx, entity.SkinEvent{Kind: entity.SkinUpdated, OwnerID: ownerID, Skin: s})

	return s, nil
}

func (f *fakeSkins) DeleteSkin(ctx context.Context, ownerID string, id int64) error {
	s, err := f.GetSkin(ctx, ownerID, id)
	if err != nil {
		return err
	}

	f.mu.Lock()
	delete(f.skins, id)
	f.mu.Unlock()

	f.publish(ctx, entity.SkinEvent{Kind: entity.SkinDeleted, OwnerID: ownerID, Skin: s})

	return nil
}

func (f *fakeSkins) SellSkin(
	ctx context.Context,
	ownerID string,
	id int64,
	salePrice decimal.Decimal,
	notes string,
) (entity.Transaction, error) {
	if !salePrice.IsPositive() {
		return entity.Transaction{}, domain.Validation(errcodes.InvalidSalePrice, "sale price must be greater than zero")
	}

	s, err := f.GetSkin(ctx, ownerID, id)
	if err != nil {
		return entity.Transaction{}, err
	}

	tx := entity.Sale{OwnerID: ownerID, SkinID: id, Price: salePrice, Notes: notes}.Transaction(s)

	f.mu.Lock()
	tx.ID = int64(len(f.txs) + 1)
	tx.CreatedAt = time.Now()
	f.txs = append(f.txs, tx)
	delete(f.skins, id)
	f.mu.Unlock()

	f.publish(ctx, entity.SkinEvent{Kind: entity.SkinSold, OwnerID: ownerID, Skin: s, Transaction: &tx})

	return tx, nil
}

func (f *fakeSkins) ListTransactions(_ context.Context, ownerID string, limit int) ([]entity.Transaction, error) {
	if ownerID == "" {
		return nil, domain.Unauthenticated("sign in required")
	}

	if limit < 0 {
		return nil, domain.Validation(errcodes.InvalidPaging, "limit must be positive")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var result []entity.Transaction

	for i := len(f.txs) - 1; i >= 0; i-- {
		if f.txs[i].OwnerID == ownerID {
			result = append(result, f.txs[i])
		}
	}

	return result, nil
}

func (f *fakeSkins) RefreshPrice(ctx context.Context, ownerID string, id int64) (entity.Skin, error) {
	price := decimal.NewFromInt(42)

	return f.UpdateSkin(ctx, ownerID, id, entity.SkinPatch{CurrentPrice: &price})
}

func (f *fakeSkins) Subscribe(fn func(context.Context, entity.SkinEvent)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.subscribers = append(f.subscribers, fn)

	return func() {}
}

func (f *fakeSkins) publish(ctx context.Context, event entity.SkinEvent) {
	f.mu.Lock()
	subscribers := append([]func(context.Context, entity.SkinEvent){}, f.subscribers...)
	f.mu.Unlock()

	for _, fn := range subscribers {
		fn(ctx, event)
	}
}

func (f *fakeSkins) listCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.listCalls
}

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]entity.User
}

func (m *memoryUsers) CreateUser(_ context.Context, user entity.User) (entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.users == nil {
		m.users = make(map[string]entity.User)
	}

	if _, ok := m.users[user.Email]; ok {
		return entity.User{}, domain.Validation(errcodes.EmailAlreadyInUse, "email already in use")
	}

	user.CreatedAt = time.Now()
	m.users[user.Email] = user

	return user, nil
}

func (m *memoryUsers) GetUserByEmail(_ context.Context, email string) (entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[email]
	if !ok {
		return entity.User{}, domain.NotFound(errcodes.NotFound, "user not found")
	}

	return user, nil
}

type fakePrices struct {
	item []byte
}

func (f fakePrices) Item(_ context.Context, _ int, marketName string) ([]byte, error) {
	if marketName == "missing" {
		return nil, domain.NotFound(errcodes.PriceUnavailable, "item not found on the market")
	}

	return f.item, nil
}

func (f fakePrices) MarketPrice(_ context.Context, marketName string) (decimal.Decimal, error) {
	if marketName == "missing" {
		return decimal.Zero, domain.NotFound(errcodes.PriceUnavailable, "item not found on the market")
	}

	return decimal.RequireFromString("12.34"), nil
}

type fakeQueue struct {
	mu     sync.Mutex
	queued []int64
}

func (q *fakeQueue) EnqueueRefresh(_ context.Context, _ string, id int64) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.queued = append(q.queued, id)

	return nil
}
