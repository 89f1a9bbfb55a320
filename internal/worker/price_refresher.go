package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"skinvault/pkg/logx"
)

const defaultRequestInterval = 750 * time.Millisecond

var ErrAlreadyRunning = errors.New("price refresher is already running")

type skinRefresher interface {
	RefreshAll(ctx context.Context, each func(context.Context) error) (int, error)
}

// PriceRefresher walks every skin of every owner once per interval. Market
// requests are spaced by the request interval.
type PriceRefresher struct {
	skins    skinRefresher
	interval time.Duration

	requestInterval time.Duration
	lastRequest     time.Time

	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewPriceRefresher(skins skinRefresher, interval time.Duration) *PriceRefresher {
	return &PriceRefresher{
		skins:           skins,
		interval:        interval,
		requestInterval: defaultRequestInterval,
	}
}

func (w *PriceRefresher) WithRateControl(requestInterval time.Duration) *PriceRefresher {
	if requestInterval > 0 {
		w.requestInterval = requestInterval
	}

	return w
}

// Start runs the refresher in the background until Stop or ctx is done.
func (w *PriceRefresher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.isRunning = true

	w.wg.Add(1)

	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		if err := w.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(ctx).Error("price refresher stopped", logx.Error(err))
		}
	}()

	return nil
}

// Stop cancels a started refresher and waits for it to finish.
func (w *PriceRefresher) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *PriceRefresher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.isRunning
}

func (w *PriceRefresher) Run(ctx context.Context) error {
	logger(ctx).Info("price refresher started", slog.Duration("interval", w.interval))

	for {
		w.refreshAll(ctx)

		select {
		case <-ctx.Done():
			logger(ctx).Info("price refresher stopped")
			return fmt.Errorf("price refresher: %w", ctx.Err())
		case <-time.After(w.interval):
		}
	}
}

func (w *PriceRefresher) refreshAll(ctx context.Context) {
	start := time.Now()

	repriced, err := w.skins.RefreshAll(ctx, w.waitForNextSlot)
	if err != nil && ctx.Err() == nil {
		logger(ctx).Error("refresh cycle failed", logx.Error(err))
		return
	}

	if repriced > 0 {
		logger(ctx).Info("refresh cycle completed",
			slog.Int("repriced", repriced),
			slog.Int64(logx.FieldDurationMs, time.Since(start).Milliseconds()),
		)
	}
}

func (w *PriceRefresher) waitForNextSlot(ctx context.Context) error {
	if w.lastRequest.IsZero() {
		w.lastRequest = time.Now()
		return nil
	}

	elapsed := time.Since(w.lastRequest)
	if elapsed >= w.requestInterval {
		w.lastRequest = time.Now()
		return nil
	}

	select {
	case <-time.After(w.requestInterval - elapsed):
		w.lastRequest = time.Now()
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for slot: %w", ctx.Err())
	}
}
