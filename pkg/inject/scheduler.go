// Package inject drives the bounded-retry loop that places the user-facing
// trigger control into a tracked page once an adapter is matched.
package inject

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/go-pkgz/repeater/v2"

	"github.com/cartscope/cartscope/pkg/metrics"
	"github.com/cartscope/cartscope/pkg/page"
)

// DefaultAnchors are the generic cart-container candidates tried in order;
// the first one present in the document becomes the injection point, with
// the page body as the final fallback.
var DefaultAnchors = []string{
	"#cart-root",
	".cart-container",
	"#cart",
	".cart-items",
	"#shopping-cart",
	".shopping-cart",
	"main",
}

// Placer performs one injection attempt against a tab's held page.
type Placer interface {
	Inject(tabID string, candidates []string) (anchor string, err error)
}

// Scheduler runs at most one injection loop per tab. Each loop attempts a
// fixed number of times with a fixed delay; exhausting the budget terminates
// the loop silently, since some pages never expose a supported anchor.
type Scheduler struct {
	pages    Placer
	anchors  []string
	attempts int
	delay    time.Duration
	metrics  *metrics.Metrics

	mu      sync.Mutex
	running map[string]bool
	wg      sync.WaitGroup
}

// New creates a scheduler. metrics may be nil.
func New(pages Placer, attempts int, delay time.Duration, m *metrics.Metrics) *Scheduler {
	if attempts < 1 {
		attempts = 5
	}
	if delay <= 0 {
		delay = time.Second
	}
	return &Scheduler{
		pages:    pages,
		anchors:  DefaultAnchors,
		attempts: attempts,
		delay:    delay,
		metrics:  m,
		running:  make(map[string]bool),
	}
}

// Schedule starts the injection loop for a tab. Idempotent: a loop already
// running for the tab, or a trigger already present in the page, makes this
// a no-op. Returns immediately; the loop runs in the background.
func (s *Scheduler) Schedule(tabID string) {
	s.mu.Lock()
	if s.running[tabID] {
		s.mu.Unlock()
		return
	}
	s.running[tabID] = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.running, tabID)
			s.mu.Unlock()
		}()
		s.run(tabID)
	}()
}

// run executes the bounded retry loop for one tab.
func (s *Scheduler) run(tabID string) {
	retrier := repeater.NewFixed(s.attempts, s.delay)
	err := retrier.Do(context.Background(), func() error {
		s.metrics.IncInjectionAttempt()
		_, err := s.pages.Inject(tabID, s.anchors)
		if err != nil {
			log.Printf("[DEBUG] injection attempt for tab %s: %v", tabID, err)
		}
		return err
	})

	if err != nil {
		// silent degradation, the page never became injectable
		if errors.Is(err, page.ErrNoPage) || errors.Is(err, page.ErrPageEmpty) {
			log.Printf("[DEBUG] injection budget exhausted for tab %s", tabID)
		} else {
			log.Printf("[DEBUG] injection gave up for tab %s: %v", tabID, err)
		}
		s.metrics.IncInjectionExhausted()
	}
}

// Wait blocks until all running loops terminate. Loops are bounded, so this
// returns within attempts*delay.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
