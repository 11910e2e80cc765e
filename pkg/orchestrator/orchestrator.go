// Package orchestrator drives the per-tab request state machine: dedupes
// analysis requests, derives the request context, calls the optimization
// boundary and records terminal transitions on the session store. It is the
// single writer of session state.
package orchestrator

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cartscope/cartscope/pkg/domain"
	"github.com/cartscope/cartscope/pkg/metrics"
	"github.com/cartscope/cartscope/pkg/platform"
)

//go:generate moq -out mocks/optimizer.go -pkg mocks -skip-ensure -fmt goimports . Optimizer

// Optimizer is the optimization boundary consumed by the orchestrator.
type Optimizer interface {
	OptimizeCart(ctx context.Context, req domain.OptimizeRequest) (*domain.OptimizationResult, error)
}

// SessionStore is the owned session state the orchestrator transitions.
type SessionStore interface {
	Begin(tabID string) bool
	Complete(tabID string, result *domain.OptimizationResult)
	Fail(tabID, msg string)
	ClearSignal(tabID string)
	Snapshot(tabID string) domain.SessionSnapshot
	Signal(tabID string) domain.Signal
}

// Orchestrator coordinates at most one in-flight optimization call per tab.
type Orchestrator struct {
	store     SessionStore
	optimizer Optimizer
	timeout   time.Duration // 0 = no deadline on the boundary call
	metrics   *metrics.Metrics
	wg        sync.WaitGroup
}

// New creates an orchestrator. timeout 0 leaves the boundary call without a
// deadline: a session stays Requesting until the call resolves. metrics may
// be nil.
func New(store SessionStore, optimizer Optimizer, timeout time.Duration, m *metrics.Metrics) *Orchestrator {
	return &Orchestrator{
		store:     store,
		optimizer: optimizer,
		timeout:   timeout,
		metrics:   m,
	}
}

// Request starts an analysis for the tab. Returns false without any side
// effect when the tab is already Requesting (the duplicate is ignored
// entirely) or when no items were provided. On acceptance the prior result
// and error are cleared, the payload is assembled with locale defaults
// derived from the source retailer, and the boundary call runs in the
// background; the caller gets the acceptance verdict immediately.
func (o *Orchestrator) Request(tabID, sourceRetailer string, items []domain.CartItem) bool {
	if len(items) == 0 {
		log.Printf("[WARN] analysis request for tab %s with no items, ignored", tabID)
		return false
	}
	if !o.store.Begin(tabID) {
		log.Printf("[INFO] analysis already in flight for tab %s, duplicate ignored", tabID)
		return false
	}

	loc := platform.LocaleFor(sourceRetailer)
	req := domain.OptimizeRequest{
		UserContext:    domain.UserContext{Country: loc.Country, PostalCode: loc.PostalCode},
		SourceRetailer: sourceRetailer,
		Items:          items,
	}
	callID := uuid.New().String()
	log.Printf("[INFO] optimization call %s started for tab %s, retailer %s, %d items",
		callID, tabID, sourceRetailer, len(items))

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.call(callID, tabID, req)
	}()
	return true
}

// call issues one boundary call and records the terminal transition. The
// call runs on its own context: it must outlive the HTTP request that
// triggered it, and in-flight calls are never cancelled.
func (o *Orchestrator) call(callID, tabID string, req domain.OptimizeRequest) {
	ctx := context.Background()
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	st := time.Now()
	result, err := o.optimizer.OptimizeCart(ctx, req)
	elapsed := time.Since(st)

	if err != nil {
		o.store.Fail(tabID, err.Error())
		o.metrics.ObserveOptimize("failed", elapsed)
		log.Printf("[WARN] optimization call %s failed for tab %s after %v: %v", callID, tabID, elapsed, err)
		return
	}

	o.store.Complete(tabID, result)
	o.metrics.ObserveOptimize("completed", elapsed)
	log.Printf("[INFO] optimization call %s completed for tab %s in %v, savings %.2f %s",
		callID, tabID, elapsed, result.TotalSavings, result.Currency)
}

// NavigationCompleted clears only the badge signal for the tab; state,
// result and error stay untouched and remain queryable.
func (o *Orchestrator) NavigationCompleted(tabID string) {
	o.store.ClearSignal(tabID)
}

// Query returns the tab's session snapshot for the display layer. Pure
// read; unknown tabs get the zero snapshot.
func (o *Orchestrator) Query(tabID string) domain.SessionSnapshot {
	return o.store.Snapshot(tabID)
}

// Signal returns the tab's current badge signal.
func (o *Orchestrator) Signal(tabID string) domain.Signal {
	return o.store.Signal(tabID)
}

// Wait blocks until all in-flight boundary calls finish. Used on shutdown
// and in tests.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}
