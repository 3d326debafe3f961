package test

import (
	"context"
	"sync"
	"time"

	"github.com/coffeebeans/shop/internal/domain/model"
)

// WorkerFacadeStub simulates the application facade for reconcile worker
// tests. Batches are consumed one per poll.
type WorkerFacadeStub struct {
	sync.Mutex

	Orders   [][]model.Order
	Payments map[string][]model.Payment

	Confirmed []string
	Expired   []string

	SearchErr  error
	ConfirmErr error
}

// StalePendingOrders pops the next prepared batch.
func (s *WorkerFacadeStub) StalePendingOrders(ctx context.Context, olderThan time.Duration, limit int) ([]model.Order, error) {
	s.Lock()
	defer s.Unlock()
	if len(s.Orders) == 0 {
		return nil, nil
	}
	batch := s.Orders[0]
	s.Orders = s.Orders[1:]
	return batch, nil
}

// SearchPayments returns payments prepared for the reference.
func (s *WorkerFacadeStub) SearchPayments(ctx context.Context, reference string) ([]model.Payment, error) {
	s.Lock()
	defer s.Unlock()
	if s.SearchErr != nil {
		return nil, s.SearchErr
	}
	return s.Payments[reference], nil
}

// ConfirmPayment records the confirmation attempt.
func (s *WorkerFacadeStub) ConfirmPayment(ctx context.Context, paymentID string) error {
	s.Lock()
	defer s.Unlock()
	if s.ConfirmErr != nil {
		return s.ConfirmErr
	}
	s.Confirmed = append(s.Confirmed, paymentID)
	return nil
}

// ExpireOrder records the expiry attempt.
func (s *WorkerFacadeStub) ExpireOrder(ctx context.Context, number string) error {
	s.Lock()
	defer s.Unlock()
	s.Expired = append(s.Expired, number)
	return nil
}
