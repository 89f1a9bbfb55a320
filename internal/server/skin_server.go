package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"skinvault/internal/domain"
	"skinvault/internal/domain/demo"
	"skinvault/internal/domain/entity"
	"skinvault/internal/domain/portfolio"
	"skinvault/pkg/contextx"
	"skinvault/pkg/errcodes"
	"skinvault/pkg/httpx/reply"
	"skinvault/pkg/httpx/req"
	"skinvault/pkg/rest"
)

const (
	listCacheTTL     = 30 * time.Second
	listCacheCleanup = time.Minute

	modeDemo = "demo"
	modeLive = "live"
)

type skinService interface {
	ListSkins(ctx context.Context, ownerID string) ([]entity.Skin, error)
	GetSkin(ctx context.Context, ownerID string, id int64) (entity.Skin, error)
	AddSkin(ctx context.Context, ownerID string, fields entity.SkinFields) (entity.Skin, error)
	UpdateSkin(ctx context.Context, ownerID string, id int64, patch entity.SkinPatch) (entity.Skin, error)
	DeleteSkin(ctx context.Context, ownerID string, id int64) error
	SellSkin(ctx context.Context, ownerID string, id int64, salePrice decimal.Decimal, notes string) (entity.Transaction, error)
	ListTransactions(ctx context.Context, ownerID string, limit int) ([]entity.Transaction, error)
	RefreshPrice(ctx context.Context, ownerID string, id int64) (entity.Skin, error)
	Subscribe(fn func(context.Context, entity.SkinEvent)) (unsubscribe func())
}

// refreshQueue schedules a price refresh out of band.
type refreshQueue interface {
	EnqueueRefresh(ctx context.Context, ownerID string, id int64) error
}

type SkinServer struct {
	skinService  skinService
	refreshQueue refreshQueue
	listCache    *listCache
	now          func() time.Time
}

// NewSkinServer serves the skin endpoints. The per-owner list cache is
// dropped on every committed mutation of that owner.
func NewSkinServer(skinService skinService) SkinServer {
	s := SkinServer{
		skinService: skinService,
		listCache:   newListCache(listCacheTTL, listCacheCleanup),
		now:         time.Now,
	}

	skinService.Subscribe(func(_ context.Context, event entity.SkinEvent) {
		s.listCache.invalidate(event.OwnerID)
		skinMutations.WithLabelValues(string(event.Kind)).Inc()
	})

	return s
}

// WithRefreshQueue moves price refreshes to the queue.
func (s SkinServer) WithRefreshQueue(queue refreshQueue) SkinServer {
	s.refreshQueue = queue
	return s
}

func (s SkinServer) getV1Portfolio(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	ownerID, ok := ownerFromContext(ctx)
	if !ok {
		skins := demo.Skins(s.now())

		reply.JSON(ctx, w, http.StatusOK, rest.Portfolio{
			Mode:    modeDemo,
			Summary: newRESTSummary(portfolio.Summarize(skins)),
			Skins:   newRESTSkins(skins),
		})

		return nil
	}

	skins, err := s.listSkins(ctx, ownerID)
	if err != nil {
		return err
	}

	reply.JSON(ctx, w, http.StatusOK, rest.Portfolio{
		Mode:    modeLive,
		Summary: newRESTSummary(portfolio.Summarize(skins)),
		Skins:   newRESTSkins(skins),
	})

	return nil
}

func (s SkinServer) getV1Skins(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	ownerID, _ := ownerFromContext(ctx)

	skins, err := s.listSkins(ctx, ownerID)
	if err != nil {
		return err
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSkins(skins))

	return nil
}

func (s SkinServer) postV1Skins(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	ownerID, _ := ownerFromContext(ctx)

	var request rest.SkinCreate

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	skin, err := s.skinService.AddSkin(ctx, ownerID, newDomainSkinFields(request))
	if err != nil {
		return fmt.Errorf("skinService.AddSkin: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTSkin(skin))

	return nil
}

func (s SkinServer) getV1Skin(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	ownerID, _ := ownerFromContext(ctx)

	id, err := skinIDParam(r)
	if err != nil {
		return err
	}

	skin, err := s.skinService.GetSkin(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("skinService.GetSkin: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSkin(skin))

	return nil
}

func (s SkinServer) patchV1Skin(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	ownerID, _ := ownerFromContext(ctx)

	id, err := skinIDParam(r)
	if err != nil {
		return err
	}

	var request rest.SkinPatch

	if err = req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	patch, err := newDomainSkinPatch(request)
	if err != nil {
		return fmt.Errorf("newDomainSkinPatch: %w", err)
	}

	skin, err := s.skinService.UpdateSkin(ctx, ownerID, id, patch)
	if err != nil {
		return fmt.Errorf("skinService.UpdateSkin: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSkin(skin))

	return nil
}

func (s SkinServer) deleteV1Skin(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	ownerID, _ := ownerFromContext(ctx)

	id, err := skinIDParam(r)
	if err != nil {
		return err
	}

	if err = s.skinService.DeleteSkin(ctx, ownerID, id); err != nil {
		return fmt.Errorf("skinService.DeleteSkin: %w", err)
	}

	reply.NoContent(w)

	return nil
}

func (s SkinServer) postV1SkinSell(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	ownerID, _ := ownerFromContext(ctx)

	id, err := skinIDParam(r)
	if err != nil {
		return err
	}

	var request rest.SellRequest

	if err = req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	tx, err := s.skinService.SellSkin(ctx, ownerID, id, request.SalePrice, request.Notes)
	if err != nil {
		return fmt.Errorf("skinService.SellSkin: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.SellResponse{Transaction: newRESTTransaction(tx)})

	return nil
}

// postV1SkinRefresh queues the refresh when a queue is configured and answers
// 202. Without a queue the price is refreshed inline.
func (s SkinServer) postV1SkinRefresh(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	ownerID, _ := ownerFromContext(ctx)

	id, err := skinIDParam(r)
	if err != nil {
		return err
	}

	if s.refreshQueue == nil {
		skin, err := s.skinService.RefreshPrice(ctx, ownerID, id)
		if err != nil {
			return fmt.Errorf("skinService.RefreshPrice: %w", err)
		}

		reply.JSON(ctx, w, http.StatusOK, newRESTSkin(skin))

		return nil
	}

	skin, err := s.skinService.GetSkin(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("skinService.GetSkin: %w", err)
	}

	if err = s.refreshQueue.EnqueueRefresh(ctx, ownerID, id); err != nil {
		return fmt.Errorf("refreshQueue.EnqueueRefresh: %w", err)
	}

	reply.JSON(ctx, w, http.StatusAccepted, newRESTSkin(skin))

	return nil
}

func (s SkinServer) getV1Transactions(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	ownerID, _ := ownerFromContext(ctx)

	var limit int

	if raw := r.URL.Query().Get("limit"); raw != "" {
		var err error

		limit, err = strconv.Atoi(raw)
		if err != nil {
			return domain.WrapError(err, domain.KindValidation, errcodes.InvalidPaging, "limit must be a number")
		}
	}

	txs, err := s.skinService.ListTransactions(ctx, ownerID, limit)
	if err != nil {
		return fmt.Errorf("skinService.ListTransactions: %w", err)
	}

	result := make([]rest.Transaction, 0, len(txs))
	for _, tx := range txs {
		result = append(result, newRESTTransaction(tx))
	}

	reply.JSON(ctx, w, http.StatusOK, result)

	return nil
}

func (s SkinServer) listSkins(ctx context.Context, ownerID string) ([]entity.Skin, error) {
	cached, generation, ok := s.listCache.get(ownerID)
	if ok && ownerID != "" {
		return cached, nil
	}

	skins, err := s.skinService.ListSkins(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("skinService.ListSkins: %w", err)
	}

	s.listCache.store(ownerID, generation, skins)

	return skins, nil
}

func ownerFromContext(ctx context.Context) (string, bool) {
	userID, err := contextx.UserIDFromContext(ctx)
	if err != nil || userID == "" {
		return "", false
	}

	return userID.String(), true
}

func skinIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Validation(errcodes.InvalidSkinID, "skin id must be a positive integer")
	}

	return id, nil
}
