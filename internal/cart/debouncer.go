package cart

import (
	"context"
	"sync"
	"time"

	"github.com/muadee/storefront-gateway/pkg/auth"
	pkgerrors "github.com/muadee/storefront-gateway/pkg/errors"
	"github.com/muadee/storefront-gateway/pkg/logger"
	"github.com/muadee/storefront-gateway/pkg/metrics"
)

// DefaultQuietPeriod is the debounce window after the last edit before a
// coalesced commit is dispatched upstream.
const DefaultQuietPeriod = 300 * time.Millisecond

// LineState names the debounce lifecycle of one cart line.
type LineState string

const (
	LineStateIdle      LineState = "idle"
	LineStatePending   LineState = "pending"
	LineStateCommitted LineState = "committed"
)

// CommitFunc dispatches one coalesced quantity update upstream.
type CommitFunc func(ctx context.Context, ac auth.Context, variantID int64, quantity int) error

// Debouncer coalesces rapid quantity edits into a single upstream commit
// per quiet period and per line. At most one commit is in flight for any
// line at a time; edits landing during a flight are re-dispatched once the
// flight returns, still as a single call carrying the latest quantity.
type Debouncer struct {
	mu      sync.Mutex
	quiet   time.Duration
	commit  CommitFunc
	logg    *logger.Logger
	metrics *metrics.CartMetrics
	lines   map[int64]*lineState
	closed  bool
}

type lineState struct {
	quantity  int
	ac        auth.Context
	timer     *time.Timer
	inflight  bool
	queued    bool
	committed bool
}

// NewDebouncer builds a debouncer dispatching through commit.
func NewDebouncer(quiet time.Duration, commit CommitFunc, logg *logger.Logger, m *metrics.CartMetrics) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Debouncer{
		quiet:   quiet,
		commit:  commit,
		logg:    logg,
		metrics: m,
		lines:   map[int64]*lineState{},
	}
}

// Edit registers an optimistic quantity change for the line and starts or
// resets its quiet-period timer. Quantities below one are rejected.
func (d *Debouncer) Edit(ac auth.Context, variantID int64, quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cart session is closed")
	}

	d.metrics.IncEdit()
	line, ok := d.lines[variantID]
	if !ok {
		line = &lineState{}
		d.lines[variantID] = line
	}
	line.quantity = quantity
	line.ac = ac
	line.committed = false

	if line.timer != nil {
		line.timer.Stop()
	}
	line.timer = time.AfterFunc(d.quiet, func() {
		d.fire(variantID)
	})
	return nil
}

// fire dispatches the latest quantity for the line unless a commit is
// already in flight, in which case the dispatch is queued behind it.
func (d *Debouncer) fire(variantID int64) {
	d.mu.Lock()
	line, ok := d.lines[variantID]
	if !ok || d.closed {
		d.mu.Unlock()
		return
	}
	line.timer = nil
	if line.inflight {
		line.queued = true
		d.mu.Unlock()
		return
	}
	line.inflight = true
	quantity := line.quantity
	ac := line.ac
	d.mu.Unlock()

	d.dispatch(variantID, ac, quantity)
}

func (d *Debouncer) dispatch(variantID int64, ac auth.Context, quantity int) {
	d.metrics.IncCommit()
	err := d.commit(context.Background(), ac, variantID, quantity)
	if err != nil && d.logg != nil {
		ctx := d.logg.WithFields(context.Background(), map[string]any{
			"variant_id": variantID,
			"quantity":   quantity,
		})
		d.logg.Error(ctx, "cart quantity commit failed", err)
	}

	d.mu.Lock()
	line, ok := d.lines[variantID]
	if !ok {
		d.mu.Unlock()
		return
	}
	line.inflight = false
	if err == nil && !line.queued && line.timer == nil {
		line.committed = true
	}
	if line.queued && !d.closed {
		line.queued = false
		line.inflight = true
		nextQty := line.quantity
		nextAC := line.ac
		d.mu.Unlock()
		d.dispatch(variantID, nextAC, nextQty)
		return
	}
	d.mu.Unlock()
}

// State reports the debounce state of one line.
func (d *Debouncer) State(variantID int64) LineState {
	d.mu.Lock()
	defer d.mu.Unlock()
	line, ok := d.lines[variantID]
	if !ok {
		return LineStateIdle
	}
	if line.timer != nil || line.inflight || line.queued {
		return LineStatePending
	}
	if line.committed {
		return LineStateCommitted
	}
	return LineStateIdle
}

// Forget drops any pending state for the line without committing, used when
// the line is removed from the cart.
func (d *Debouncer) Forget(variantID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	line, ok := d.lines[variantID]
	if !ok {
		return
	}
	if line.timer != nil {
		line.timer.Stop()
	}
	delete(d.lines, variantID)
}

// Close cancels every pending timer; no further commits are dispatched.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	for _, line := range d.lines {
		if line.timer != nil {
			line.timer.Stop()
			line.timer = nil
		}
		line.queued = false
	}
}
