package payment

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/muadee/storefront-gateway/internal/backend"
	"github.com/muadee/storefront-gateway/pkg/auth"
	"github.com/muadee/storefront-gateway/pkg/enums"
	pkgerrors "github.com/muadee/storefront-gateway/pkg/errors"
	"github.com/muadee/storefront-gateway/pkg/logger"
	"github.com/muadee/storefront-gateway/pkg/metrics"
	"github.com/muadee/storefront-gateway/pkg/types"
)

// State names a stage of the payment sequence.
type State string

const (
	StateIdle                State = "idle"
	StateMethodSelectionOpen State = "method_selection_open"
	StateProcessing          State = "processing"
	StateRedirecting         State = "redirecting"
	StateFinalized           State = "finalized"
	StateFailed              State = "failed"
)

// Action distinguishes paying an existing order from re-placing one.
type Action string

const (
	ActionRetry   Action = "retry"
	ActionReorder Action = "reorder"
)

// IsValid reports whether the value is a known Action.
func (a Action) IsValid() bool {
	return a == ActionRetry || a == ActionReorder
}

// Raw upstream status strings written immediately after method selection.
// The gateway callback, not this service, later flips payment to paid.
const (
	pendingOrderStatus   = "Chờ xác nhận"
	pendingPaymentStatus = "Chưa thanh toán"
)

// Upstream is the slice of the commerce backend the sequence needs.
type Upstream interface {
	ReorderFromOrder(ctx context.Context, ac auth.Context, orderID int64) (*backend.ReorderResult, error)
	AssignPaymentMethod(ctx context.Context, ac auth.Context, orderID int64, method enums.PaymentMethod) error
	UpdateStatus(ctx context.Context, ac auth.Context, orderID int64, status, paymentStatus string) error
	RetryPaymentURL(ctx context.Context, ac auth.Context, orderID int64) (string, error)
	GetOrder(ctx context.Context, ac auth.Context, code string) (*types.Order, error)
}

// Outcome is the terminal result of one confirmed sequence.
type Outcome struct {
	State         State        `json:"state"`
	TargetOrderID int64        `json:"target_order_id"`
	RedirectURL   string       `json:"redirect_url,omitempty"`
	Message       string       `json:"message,omitempty"`
	Order         *types.Order `json:"order,omitempty"`
}

// Orchestrator drives the method-selection, status-mutation, and
// gateway-redirect sequence for retrying or re-placing an order. Steps are
// strictly sequential; a failure aborts the remaining steps. The sequence
// is not transactional: a failure between assigning the method and setting
// the status leaves the order in an intermediate state that is surfaced to
// the user, never papered over.
type Orchestrator struct {
	mu      sync.Mutex
	state   State
	action  Action
	orderID int64
	code    string

	upstream Upstream
	logg     *logger.Logger
	metrics  *metrics.PaymentMetrics
}

// NewOrchestrator builds a sequence starting in Idle.
func NewOrchestrator(upstream Upstream, logg *logger.Logger, m *metrics.PaymentMetrics) (*Orchestrator, error) {
	if upstream == nil {
		return nil, fmt.Errorf("upstream client required")
	}
	return &Orchestrator{
		state:    StateIdle,
		upstream: upstream,
		logg:     logg,
		metrics:  m,
	}, nil
}

// State reports the current sequence stage.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Open moves from Idle to MethodSelectionOpen for the given order. No
// backend call happens until the method is confirmed.
func (o *Orchestrator) Open(action Action, orderID int64, code string) error {
	if !action.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment action")
	}
	if orderID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateIdle {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "payment sequence already open")
	}
	o.state = StateMethodSelectionOpen
	o.action = action
	o.orderID = orderID
	o.code = strings.TrimSpace(code)
	return nil
}

// Abandon closes the method-selection prompt without side effects. Once
// Processing has begun the sequence cannot be interrupted.
func (o *Orchestrator) Abandon() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	switch o.state {
	case StateMethodSelectionOpen:
		o.reset()
		return nil
	case StateProcessing:
		return pkgerrors.New(pkgerrors.CodeStateConflict, "payment sequence is processing and cannot be cancelled")
	default:
		return pkgerrors.New(pkgerrors.CodeStateConflict, "no payment sequence to abandon")
	}
}

// Reset returns a terminal sequence to Idle so a new one can begin.
func (o *Orchestrator) Reset() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	switch o.state {
	case StateRedirecting, StateFinalized, StateFailed:
		o.reset()
		return nil
	case StateIdle:
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeStateConflict, "payment sequence is still running")
	}
}

// Confirm runs the sequence for the chosen method. Each step waits for the
// previous one; no step is retried automatically.
func (o *Orchestrator) Confirm(ctx context.Context, ac auth.Context, method enums.PaymentMethod) (*Outcome, error) {
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}

	o.mu.Lock()
	if o.state != StateMethodSelectionOpen {
		o.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment sequence is not awaiting a method")
	}
	o.state = StateProcessing
	action := o.action
	sourceID := o.orderID
	code := o.code
	o.mu.Unlock()

	outcome, err := o.run(ctx, ac, action, method, sourceID, code)

	o.mu.Lock()
	if err != nil {
		o.state = StateFailed
	} else {
		o.state = outcome.State
	}
	o.mu.Unlock()

	if o.metrics != nil {
		result := "failed"
		if err == nil {
			result = string(outcome.State)
		}
		o.metrics.IncOutcome(method.String(), result)
	}
	return outcome, err
}

func (o *Orchestrator) run(ctx context.Context, ac auth.Context, action Action, method enums.PaymentMethod, sourceID int64, code string) (*Outcome, error) {
	targetID := sourceID

	if action == ActionReorder {
		result, err := o.upstream.ReorderFromOrder(ctx, ac, sourceID)
		if err != nil {
			return nil, err
		}
		if result.OrderID <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "reorder did not return an order, please check your orders").
				WithDetails(map[string]any{"step": "reorder", "message": result.Message})
		}
		targetID = result.OrderID
		// The re-placed order has no code known to us yet; skip the
		// final detail refresh for this path.
		code = ""
		o.logStep(ctx, "reorder", targetID)
	}

	if err := o.upstream.AssignPaymentMethod(ctx, ac, targetID, method); err != nil {
		return nil, err
	}
	o.logStep(ctx, "assign_method", targetID)

	if err := o.upstream.UpdateStatus(ctx, ac, targetID, pendingOrderStatus, pendingPaymentStatus); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStateConflict, err,
			"payment method was saved but the order status was not updated, please check the order status").
			WithDetails(map[string]any{"step": "update_status", "order_id": targetID})
	}
	o.logStep(ctx, "update_status", targetID)

	if method.RequiresGateway() {
		url, err := o.upstream.RetryPaymentURL(ctx, ac, targetID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeStateConflict, err,
				"order is awaiting payment but the gateway url could not be fetched, please retry from your orders").
				WithDetails(map[string]any{"step": "payment_url", "order_id": targetID})
		}
		if strings.TrimSpace(url) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "payment gateway returned no redirect url").
				WithDetails(map[string]any{"step": "payment_url", "order_id": targetID})
		}
		o.logStep(ctx, "redirect", targetID)
		return &Outcome{
			State:         StateRedirecting,
			TargetOrderID: targetID,
			RedirectURL:   url,
		}, nil
	}

	outcome := &Outcome{
		State:         StateFinalized,
		TargetOrderID: targetID,
		Message:       "order confirmed, pay on delivery",
	}
	if code != "" {
		order, err := o.upstream.GetOrder(ctx, ac, code)
		if err != nil {
			// The sequence itself succeeded; a failed refresh only
			// degrades the confirmation view.
			o.logError(ctx, "refresh_detail", targetID, err)
		} else {
			outcome.Order = order
		}
	} else {
		outcome.Message = "order placed, find it in your order history"
	}
	o.logStep(ctx, "finalize", targetID)
	return outcome, nil
}

func (o *Orchestrator) reset() {
	o.state = StateIdle
	o.action = ""
	o.orderID = 0
	o.code = ""
}

func (o *Orchestrator) logStep(ctx context.Context, step string, orderID int64) {
	if o.logg == nil {
		return
	}
	ctx = o.logg.WithFields(ctx, map[string]any{"step": step, "order_id": orderID})
	o.logg.Info(ctx, "payment sequence step complete")
}

func (o *Orchestrator) logError(ctx context.Context, step string, orderID int64, err error) {
	if o.logg == nil {
		return
	}
	ctx = o.logg.WithFields(ctx, map[string]any{"step": step, "order_id": orderID})
	o.logg.Error(ctx, "payment sequence step failed", err)
}
