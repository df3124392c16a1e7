package cart

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/muadee/storefront-gateway/pkg/auth"
	pkgerrors "github.com/muadee/storefront-gateway/pkg/errors"
)

type commitRecorder struct {
	mu      sync.Mutex
	calls   []commitCall
	release chan struct{}
	err     error
}

type commitCall struct {
	variantID int64
	quantity  int
}

func (r *commitRecorder) commit(_ context.Context, _ auth.Context, variantID int64, quantity int) error {
	if r.release != nil {
		<-r.release
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, commitCall{variantID: variantID, quantity: quantity})
	return r.err
}

func (r *commitRecorder) snapshot() []commitCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]commitCall(nil), r.calls...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func testAuthContext() auth.Context {
	return auth.Context{ShopperID: "s1", SessionID: "sess1", UpstreamToken: "tok"}
}

func TestDebouncerCoalescesRapidEdits(t *testing.T) {
	t.Parallel()

	rec := &commitRecorder{}
	d := NewDebouncer(30*time.Millisecond, rec.commit, nil, nil)
	defer d.Close()

	for qty := 1; qty <= 5; qty++ {
		if err := d.Edit(testAuthContext(), 42, qty); err != nil {
			t.Fatalf("edit %d: %v", qty, err)
		}
	}

	waitFor(t, func() bool { return len(rec.snapshot()) == 1 })

	calls := rec.snapshot()
	if calls[0].variantID != 42 || calls[0].quantity != 5 {
		t.Fatalf("expected single commit with final quantity 5, got %+v", calls)
	}
	waitFor(t, func() bool { return d.State(42) == LineStateCommitted })
}

func TestDebouncerRejectsQuantityBelowOne(t *testing.T) {
	t.Parallel()

	rec := &commitRecorder{}
	d := NewDebouncer(10*time.Millisecond, rec.commit, nil, nil)
	defer d.Close()

	err := d.Edit(testAuthContext(), 1, 0)
	if err == nil {
		t.Fatal("expected error for zero quantity")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code: %v", err)
	}
	if d.State(1) != LineStateIdle {
		t.Fatalf("rejected edit must not create pending state, got %v", d.State(1))
	}
}

func TestDebouncerIndependentLines(t *testing.T) {
	t.Parallel()

	rec := &commitRecorder{}
	d := NewDebouncer(20*time.Millisecond, rec.commit, nil, nil)
	defer d.Close()

	if err := d.Edit(testAuthContext(), 1, 2); err != nil {
		t.Fatalf("edit line 1: %v", err)
	}
	if err := d.Edit(testAuthContext(), 2, 7); err != nil {
		t.Fatalf("edit line 2: %v", err)
	}

	waitFor(t, func() bool { return len(rec.snapshot()) == 2 })

	seen := map[int64]int{}
	for _, call := range rec.snapshot() {
		seen[call.variantID] = call.quantity
	}
	if seen[1] != 2 || seen[2] != 7 {
		t.Fatalf("unexpected commits: %+v", seen)
	}
}

func TestDebouncerEditDuringFlightRedispatches(t *testing.T) {
	t.Parallel()

	rec := &commitRecorder{release: make(chan struct{})}
	d := NewDebouncer(10*time.Millisecond, rec.commit, nil, nil)
	defer d.Close()

	if err := d.Edit(testAuthContext(), 9, 3); err != nil {
		t.Fatalf("first edit: %v", err)
	}

	// Wait for the first commit to be in flight, then edit again so the
	// quiet period elapses while the flight is blocked.
	waitFor(t, func() bool { return d.State(9) == LineStatePending })
	time.Sleep(20 * time.Millisecond)
	if err := d.Edit(testAuthContext(), 9, 8); err != nil {
		t.Fatalf("second edit: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	close(rec.release)

	waitFor(t, func() bool { return len(rec.snapshot()) == 2 })
	calls := rec.snapshot()
	if calls[0].quantity != 3 {
		t.Fatalf("first commit quantity = %d, want 3", calls[0].quantity)
	}
	if calls[1].quantity != 8 {
		t.Fatalf("second commit quantity = %d, want 8", calls[1].quantity)
	}
	waitFor(t, func() bool { return d.State(9) == LineStateCommitted })
}

func TestDebouncerCloseCancelsPendingCommits(t *testing.T) {
	t.Parallel()

	rec := &commitRecorder{}
	d := NewDebouncer(50*time.Millisecond, rec.commit, nil, nil)

	if err := d.Edit(testAuthContext(), 5, 4); err != nil {
		t.Fatalf("edit: %v", err)
	}
	d.Close()

	time.Sleep(100 * time.Millisecond)
	if calls := rec.snapshot(); len(calls) != 0 {
		t.Fatalf("expected no commits after close, got %+v", calls)
	}

	if err := d.Edit(testAuthContext(), 5, 6); err == nil {
		t.Fatal("expected error editing a closed debouncer")
	}
}

func TestDebouncerForgetDropsPendingLine(t *testing.T) {
	t.Parallel()

	rec := &commitRecorder{}
	d := NewDebouncer(50*time.Millisecond, rec.commit, nil, nil)
	defer d.Close()

	if err := d.Edit(testAuthContext(), 3, 2); err != nil {
		t.Fatalf("edit: %v", err)
	}
	d.Forget(3)

	time.Sleep(100 * time.Millisecond)
	if calls := rec.snapshot(); len(calls) != 0 {
		t.Fatalf("expected no commits after forget, got %+v", calls)
	}
	if d.State(3) != LineStateIdle {
		t.Fatalf("forgotten line state = %v, want idle", d.State(3))
	}
}
