package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/coffeebeans/shop/internal/domain/model"
)

// ShopFacade exposes the subset of application functionality required by the worker.
type ShopFacade interface {
	StalePendingOrders(ctx context.Context, olderThan time.Duration, limit int) ([]model.Order, error)
	SearchPayments(ctx context.Context, reference string) ([]model.Payment, error)
	ConfirmPayment(ctx context.Context, paymentID string) error
	ExpireOrder(ctx context.Context, number string) error
}

// Reconciler sweeps orders stuck in pending_payment: payments the webhook
// missed are confirmed through the same idempotent path, and orders past
// the reservation deadline are expired so their stock returns.
type Reconciler struct {
	facade       ShopFacade
	pollInterval time.Duration
	pendingTTL   time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewReconciler constructs the reconcile worker pool.
func NewReconciler(facade ShopFacade, pollInterval, pendingTTL time.Duration, batchSize, workers int, logger *slog.Logger) *Reconciler {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Reconciler{
		facade:       facade,
		pollInterval: pollInterval,
		pendingTTL:   pendingTTL,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Order, batchSize*workers),
	}
}

// Start launches background processing.
func (p *Reconciler) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *Reconciler) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Reconciler) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *Reconciler) fetchAndDispatch(ctx context.Context) {
	// Only orders old enough that the webhook had a fair chance to land.
	orders, err := p.facade.StalePendingOrders(ctx, p.pollInterval, p.batchSize)
	if err != nil {
		p.logger.Error("fetch stale pending orders failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- order:
		}
	}
}

func (p *Reconciler) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-p.jobs:
			if !ok {
				return
			}
			p.reconcileOrder(ctx, order)
		}
	}
}

func (p *Reconciler) reconcileOrder(ctx context.Context, order model.Order) {
	payments, err := p.facade.SearchPayments(ctx, order.Number)
	if err != nil {
		p.logger.Error("payment search failed",
			slog.String("order", order.Number),
			slog.String("error", err.Error()),
		)
		return
	}

	for _, payment := range payments {
		if payment.Status != model.PaymentStatusApproved {
			continue
		}
		if err := p.facade.ConfirmPayment(ctx, payment.ID); err != nil {
			p.logger.Error("reconcile confirmation failed",
				slog.String("order", order.Number),
				slog.String("payment_id", payment.ID),
				slog.String("error", err.Error()),
			)
		}
		return
	}

	if time.Since(order.CreatedAt) < p.pendingTTL {
		return
	}
	if err := p.facade.ExpireOrder(ctx, order.Number); err != nil {
		p.logger.Error("order expiry failed",
			slog.String("order", order.Number),
			slog.String("error", err.Error()),
		)
	}
}
