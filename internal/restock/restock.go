// Package restock batches stock increases for a selected set of products.
// Updates go out sequentially with no transaction across the batch; the
// commit result reports how far it got before any error.
package restock

import (
	"context"
	"fmt"
	"time"

	"github.com/diewo77/pos-app/internal/client"
	"github.com/diewo77/pos-app/internal/models"
	"github.com/diewo77/pos-app/internal/notify"
)

// staggerInterval spaces the per-product success toasts. Display cadence
// only; the underlying calls are not delayed.
const staggerInterval = 400 * time.Millisecond

type Session struct {
	api      *client.Client
	notifier *notify.Notifier
	// Refresh is invoked after a commit finishes so the product list
	// can be reloaded.
	Refresh func()

	products map[string]models.Product
	selected []string
	staged   map[string]int
	active   string
	open     bool
}

// Result reports the outcome of a Commit. Applied lists the product ids
// whose updates landed before any error; there is no rollback.
type Result struct {
	Applied []string
	Skipped []string
}

// NewSession seeds a staged quantity of 0 for each selected product and
// marks the first selection active, mirroring the restock dialog opening.
func NewSession(api *client.Client, notifier *notify.Notifier, products []models.Product, selectedIDs []string) *Session {
	s := &Session{
		api:      api,
		notifier: notifier,
		products: map[string]models.Product{},
		staged:   map[string]int{},
		open:     true,
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	for _, id := range selectedIDs {
		if _, ok := s.products[id]; !ok {
			continue
		}
		s.selected = append(s.selected, id)
		s.staged[id] = 0
	}
	if len(s.selected) > 0 {
		s.active = s.selected[0]
	}
	return s
}

func (s *Session) Open() bool     { return s.open }
func (s *Session) Active() string { return s.active }

func (s *Session) SetActive(id string) {
	if _, ok := s.staged[id]; ok {
		s.active = id
	}
}

func (s *Session) Quantity(id string) int { return s.staged[id] }

// SetQuantity overwrites the staged quantity; negative values are a no-op.
func (s *Session) SetQuantity(id string, v int) {
	if v < 0 {
		return
	}
	if _, ok := s.staged[id]; ok {
		s.staged[id] = v
	}
}

func (s *Session) Increment(id string) {
	if _, ok := s.staged[id]; ok {
		s.staged[id]++
	}
}

func (s *Session) Decrement(id string) {
	if q, ok := s.staged[id]; ok && q > 0 {
		s.staged[id] = q - 1
	}
}

// Close clears the selection and staged quantities.
func (s *Session) Close() {
	s.selected = nil
	s.staged = map[string]int{}
	s.active = ""
	s.open = false
}

// Commit applies staged quantities > 0 in selection order, one PATCH per
// product, each computing newStock = snapshot stock + staged. Successes
// schedule staggered toasts; the first error cancels any toasts not yet
// shown and surfaces one generic failure. The session closes either way.
func (s *Session) Commit(ctx context.Context) (res Result, err error) {
	defer s.Close()

	var pending []func()
	cancelPending := func() {
		for _, cancel := range pending {
			cancel()
		}
	}

	idx := 0
	for _, id := range s.selected {
		qty := s.staged[id]
		if qty <= 0 {
			res.Skipped = append(res.Skipped, id)
			continue
		}
		p := s.products[id]
		if _, uerr := s.api.AdjustStock(ctx, id, p.StockQuantity+qty); uerr != nil {
			cancelPending()
			s.notifier.Push(notify.Error, "Restock failed; some products may not have been updated")
			return res, fmt.Errorf("restock %s: %w", id, uerr)
		}
		res.Applied = append(res.Applied, id)
		msg := fmt.Sprintf("%s restocked (+%d)", p.Name, qty)
		pending = append(pending, s.notifier.PushAfter(time.Duration(idx)*staggerInterval, notify.Success, msg))
		idx++
	}

	if s.Refresh != nil {
		s.Refresh()
	}
	if len(res.Applied) > 0 {
		s.notifier.Push(notify.Info, fmt.Sprintf("Restocked %d product(s)", len(res.Applied)))
	}
	return res, nil
}
