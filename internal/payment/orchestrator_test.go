package payment

import (
	"context"
	"testing"

	"github.com/muadee/storefront-gateway/internal/backend"
	"github.com/muadee/storefront-gateway/pkg/auth"
	"github.com/muadee/storefront-gateway/pkg/enums"
	pkgerrors "github.com/muadee/storefront-gateway/pkg/errors"
	"github.com/muadee/storefront-gateway/pkg/types"
)

type stubUpstream struct {
	steps []string

	reorderResult *backend.ReorderResult
	reorderErr    error
	assignErr     error
	statusErr     error
	paymentURL    string
	urlErr        error
	order         *types.Order
	getErr        error

	assignedMethod enums.PaymentMethod
	statusWritten  [2]string
	statusOrderID  int64
}

func (s *stubUpstream) ReorderFromOrder(_ context.Context, _ auth.Context, orderID int64) (*backend.ReorderResult, error) {
	s.steps = append(s.steps, "reorder")
	if s.reorderErr != nil {
		return nil, s.reorderErr
	}
	if s.reorderResult != nil {
		return s.reorderResult, nil
	}
	return &backend.ReorderResult{OrderID: orderID + 100}, nil
}

func (s *stubUpstream) AssignPaymentMethod(_ context.Context, _ auth.Context, _ int64, method enums.PaymentMethod) error {
	s.steps = append(s.steps, "assign_method")
	if s.assignErr != nil {
		return s.assignErr
	}
	s.assignedMethod = method
	return nil
}

func (s *stubUpstream) UpdateStatus(_ context.Context, _ auth.Context, orderID int64, status, paymentStatus string) error {
	s.steps = append(s.steps, "update_status")
	if s.statusErr != nil {
		return s.statusErr
	}
	s.statusOrderID = orderID
	s.statusWritten = [2]string{status, paymentStatus}
	return nil
}

func (s *stubUpstream) RetryPaymentURL(context.Context, auth.Context, int64) (string, error) {
	s.steps = append(s.steps, "payment_url")
	if s.urlErr != nil {
		return "", s.urlErr
	}
	return s.paymentURL, nil
}

func (s *stubUpstream) GetOrder(context.Context, auth.Context, string) (*types.Order, error) {
	s.steps = append(s.steps, "get_order")
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.order, nil
}

func testAC() auth.Context {
	return auth.Context{ShopperID: "s1", SessionID: "sess1", UpstreamToken: "tok"}
}

func openOrchestrator(t *testing.T, upstream Upstream, action Action) *Orchestrator {
	t.Helper()
	orch, err := NewOrchestrator(upstream, nil, nil)
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}
	if err := orch.Open(action, 7, "DH-7"); err != nil {
		t.Fatalf("open: %v", err)
	}
	return orch
}

func TestRetryWithGatewayMethodRedirects(t *testing.T) {
	t.Parallel()

	upstream := &stubUpstream{paymentURL: "https://pay.example/qr/7"}
	orch := openOrchestrator(t, upstream, ActionRetry)

	outcome, err := orch.Confirm(context.Background(), testAC(), enums.PaymentMethodGatewayQR)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if outcome.State != StateRedirecting {
		t.Fatalf("state = %v, want redirecting", outcome.State)
	}
	if outcome.RedirectURL != "https://pay.example/qr/7" {
		t.Fatalf("redirect url = %q", outcome.RedirectURL)
	}
	if outcome.TargetOrderID != 7 {
		t.Fatalf("target order = %d, want 7", outcome.TargetOrderID)
	}

	want := []string{"assign_method", "update_status", "payment_url"}
	if len(upstream.steps) != len(want) {
		t.Fatalf("steps = %v, want %v", upstream.steps, want)
	}
	for i := range want {
		if upstream.steps[i] != want[i] {
			t.Fatalf("steps = %v, want %v", upstream.steps, want)
		}
	}
	if upstream.statusWritten != [2]string{"Chờ xác nhận", "Chưa thanh toán"} {
		t.Fatalf("statuses written = %v", upstream.statusWritten)
	}
	if orch.State() != StateRedirecting {
		t.Fatalf("orchestrator state = %v", orch.State())
	}
}

func TestRetryWithCODFinalizesLocally(t *testing.T) {
	t.Parallel()

	upstream := &stubUpstream{order: &types.Order{ID: 7, Code: "DH-7"}}
	orch := openOrchestrator(t, upstream, ActionRetry)

	outcome, err := orch.Confirm(context.Background(), testAC(), enums.PaymentMethodCOD)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if outcome.State != StateFinalized {
		t.Fatalf("state = %v, want finalized", outcome.State)
	}
	if outcome.RedirectURL != "" {
		t.Fatalf("no redirect expected, got %q", outcome.RedirectURL)
	}
	if outcome.Order == nil || outcome.Order.ID != 7 {
		t.Fatalf("expected refreshed order, got %+v", outcome.Order)
	}

	for _, step := range upstream.steps {
		if step == "payment_url" {
			t.Fatalf("gateway url fetched for COD: %v", upstream.steps)
		}
	}
}

func TestReorderActionTargetsNewOrder(t *testing.T) {
	t.Parallel()

	upstream := &stubUpstream{reorderResult: &backend.ReorderResult{OrderID: 42}}
	orch := openOrchestrator(t, upstream, ActionReorder)

	outcome, err := orch.Confirm(context.Background(), testAC(), enums.PaymentMethodCOD)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if outcome.TargetOrderID != 42 {
		t.Fatalf("target order = %d, want 42", outcome.TargetOrderID)
	}
	if upstream.statusOrderID != 42 {
		t.Fatalf("status written on order %d, want 42", upstream.statusOrderID)
	}
	// The re-placed order has no code known to the gateway, so no refresh.
	if outcome.Order != nil {
		t.Fatalf("unexpected refresh: %+v", outcome.Order)
	}
	if outcome.Message == "" {
		t.Fatal("expected a history-pointer message")
	}
}

func TestReorderWithoutReturnedIDFails(t *testing.T) {
	t.Parallel()

	upstream := &stubUpstream{reorderResult: &backend.ReorderResult{Message: "done"}}
	orch := openOrchestrator(t, upstream, ActionReorder)

	_, err := orch.Confirm(context.Background(), testAC(), enums.PaymentMethodCOD)
	if err == nil {
		t.Fatal("expected failure when reorder returns no order id")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("unexpected error code: %v", err)
	}
	if orch.State() != StateFailed {
		t.Fatalf("state = %v, want failed", orch.State())
	}
	// No further step may run after the failed one.
	if len(upstream.steps) != 1 || upstream.steps[0] != "reorder" {
		t.Fatalf("steps = %v, want [reorder]", upstream.steps)
	}
}

func TestStatusUpdateFailureSurfacesIntermediateState(t *testing.T) {
	t.Parallel()

	upstream := &stubUpstream{statusErr: pkgerrors.New(pkgerrors.CodeDependency, "timeout")}
	orch := openOrchestrator(t, upstream, ActionRetry)

	_, err := orch.Confirm(context.Background(), testAC(), enums.PaymentMethodCOD)
	if err == nil {
		t.Fatal("expected status-update failure to surface")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("unexpected error code: %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok || details["step"] != "update_status" {
		t.Fatalf("expected step detail, got %+v", typed.Details())
	}
	if orch.State() != StateFailed {
		t.Fatalf("state = %v, want failed", orch.State())
	}
}

func TestGatewayURLFailureAfterStatusUpdate(t *testing.T) {
	t.Parallel()

	upstream := &stubUpstream{urlErr: pkgerrors.New(pkgerrors.CodeDependency, "gateway down")}
	orch := openOrchestrator(t, upstream, ActionRetry)

	_, err := orch.Confirm(context.Background(), testAC(), enums.PaymentMethodGatewayQR)
	if err == nil {
		t.Fatal("expected gateway url failure to surface")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestRefreshFailureDoesNotFailFinalize(t *testing.T) {
	t.Parallel()

	upstream := &stubUpstream{getErr: pkgerrors.New(pkgerrors.CodeDependency, "detail down")}
	orch := openOrchestrator(t, upstream, ActionRetry)

	outcome, err := orch.Confirm(context.Background(), testAC(), enums.PaymentMethodCOD)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if outcome.State != StateFinalized {
		t.Fatalf("state = %v, want finalized", outcome.State)
	}
	if outcome.Order != nil {
		t.Fatalf("expected no order on failed refresh, got %+v", outcome.Order)
	}
}

func TestOpenAndAbandonTransitions(t *testing.T) {
	t.Parallel()

	orch, _ := NewOrchestrator(&stubUpstream{}, nil, nil)

	if err := orch.Abandon(); err == nil {
		t.Fatal("abandon on idle must fail")
	}
	if err := orch.Open(Action("bogus"), 7, "DH-7"); err == nil {
		t.Fatal("unknown action must be rejected")
	}
	if err := orch.Open(ActionRetry, 0, "DH-7"); err == nil {
		t.Fatal("zero order id must be rejected")
	}

	if err := orch.Open(ActionRetry, 7, "DH-7"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := orch.Open(ActionRetry, 7, "DH-7"); err == nil {
		t.Fatal("double open must fail")
	}
	if err := orch.Abandon(); err != nil {
		t.Fatalf("abandon: %v", err)
	}
	if orch.State() != StateIdle {
		t.Fatalf("state = %v, want idle", orch.State())
	}
}

func TestConfirmRequiresOpenSequence(t *testing.T) {
	t.Parallel()

	orch, _ := NewOrchestrator(&stubUpstream{}, nil, nil)

	_, err := orch.Confirm(context.Background(), testAC(), enums.PaymentMethodCOD)
	if err == nil {
		t.Fatal("confirm on idle must fail")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestResetAfterTerminalState(t *testing.T) {
	t.Parallel()

	upstream := &stubUpstream{order: &types.Order{ID: 7}}
	orch := openOrchestrator(t, upstream, ActionRetry)

	if _, err := orch.Confirm(context.Background(), testAC(), enums.PaymentMethodCOD); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if err := orch.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if orch.State() != StateIdle {
		t.Fatalf("state = %v, want idle", orch.State())
	}
}
