package orders

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/multierr"

	"github.com/muadee/storefront-gateway/internal/backend"
	"github.com/muadee/storefront-gateway/internal/status"
	"github.com/muadee/storefront-gateway/pkg/auth"
	"github.com/muadee/storefront-gateway/pkg/enums"
	pkgerrors "github.com/muadee/storefront-gateway/pkg/errors"
	"github.com/muadee/storefront-gateway/pkg/logger"
	"github.com/muadee/storefront-gateway/pkg/types"
)

// Upstream is the slice of the commerce backend the order views need.
type Upstream interface {
	ListOrders(ctx context.Context, ac auth.Context, page int) (*backend.OrderPage, error)
	GetOrder(ctx context.Context, ac auth.Context, code string) (*types.Order, error)
	CancelOrder(ctx context.Context, ac auth.Context, orderID int64, code string) error
}

// Actions reports which lifecycle operations are legal for an order in its
// current canonical stage.
type Actions struct {
	CanCancel  bool `json:"can_cancel"`
	CanRetry   bool `json:"can_retry"`
	CanReview  bool `json:"can_review"`
	CanReorder bool `json:"can_reorder"`
}

// OrderView pairs an order with its derived stage and legal actions.
type OrderView struct {
	Order   types.Order           `json:"order"`
	Status  enums.CanonicalStatus `json:"status"`
	Actions Actions               `json:"actions"`
}

// Service exposes the shopper's order history and lifecycle operations.
type Service interface {
	List(ctx context.Context, ac auth.Context) ([]OrderView, error)
	Detail(ctx context.Context, ac auth.Context, code string) (*OrderView, error)
	Cancel(ctx context.Context, ac auth.Context, orderID int64, code string) error
	StatusCounts(ctx context.Context, ac auth.Context) (map[enums.CanonicalStatus]int, error)
}

type service struct {
	upstream         Upstream
	logg             *logger.Logger
	maxParallelPages int
}

// NewService builds the order history service.
func NewService(upstream Upstream, logg *logger.Logger, maxParallelPages int) (Service, error) {
	if upstream == nil {
		return nil, fmt.Errorf("upstream client required")
	}
	if maxParallelPages < 1 {
		maxParallelPages = 1
	}
	return &service{
		upstream:         upstream,
		logg:             logg,
		maxParallelPages: maxParallelPages,
	}, nil
}

// List aggregates every page of order history. The first page is awaited
// alone to learn the page count; the rest are fetched concurrently. A
// failed page is logged and skipped so the listing degrades instead of
// failing wholesale. The merged result is re-sorted by order id descending
// because network arrival order carries no meaning.
func (s *service) List(ctx context.Context, ac auth.Context) ([]OrderView, error) {
	first, err := s.upstream.ListOrders(ctx, ac, 1)
	if err != nil {
		return nil, err
	}

	orders := append([]types.Order(nil), first.Orders...)
	if first.LastPage > 1 {
		rest, pageErrs := s.fetchRemainingPages(ctx, ac, first.LastPage)
		orders = append(orders, rest...)
		if pageErrs != nil && s.logg != nil {
			fields := map[string]any{"last_page": first.LastPage}
			s.logg.Error(s.logg.WithFields(ctx, fields), "order history pages skipped", pageErrs)
		}
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].ID > orders[j].ID
	})

	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, buildView(order))
	}
	return views, nil
}

func (s *service) fetchRemainingPages(ctx context.Context, ac auth.Context, lastPage int) ([]types.Order, error) {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		merged []types.Order
		errs   error
	)
	sem := make(chan struct{}, s.maxParallelPages)

	for page := 2; page <= lastPage; page++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := s.upstream.ListOrders(ctx, ac, page)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("page %d: %w", page, err))
				return
			}
			merged = append(merged, result.Orders...)
		}(page)
	}
	wg.Wait()
	return merged, errs
}

func (s *service) Detail(ctx context.Context, ac auth.Context, code string) (*OrderView, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order code is required")
	}
	order, err := s.upstream.GetOrder(ctx, ac, code)
	if err != nil {
		return nil, err
	}
	view := buildView(*order)
	return &view, nil
}

// Cancel marks the order cancelled upstream. Only orders still awaiting
// payment or confirmation may be cancelled.
func (s *service) Cancel(ctx context.Context, ac auth.Context, orderID int64, code string) error {
	if orderID <= 0 || strings.TrimSpace(code) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id and code are required")
	}

	order, err := s.upstream.GetOrder(ctx, ac, code)
	if err != nil {
		return err
	}
	if order.ID != orderID {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id does not match code")
	}
	if !ActionsFor(status.Classify(order.OrderStatus, order.PaymentStatus)).CanCancel {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be cancelled")
	}

	return s.upstream.CancelOrder(ctx, ac, orderID, code)
}

// StatusCounts tallies the history by canonical stage for the UI's tabs.
func (s *service) StatusCounts(ctx context.Context, ac auth.Context) (map[enums.CanonicalStatus]int, error) {
	views, err := s.List(ctx, ac)
	if err != nil {
		return nil, err
	}
	counts := make(map[enums.CanonicalStatus]int, len(enums.CanonicalStatuses()))
	for _, key := range enums.CanonicalStatuses() {
		counts[key] = 0
	}
	for _, view := range views {
		if status.Matches(view.Status, view.Order.OrderStatus, view.Order.PaymentStatus) {
			counts[view.Status]++
		}
	}
	return counts, nil
}

// ActionsFor derives the legal lifecycle operations for a canonical stage.
func ActionsFor(stage enums.CanonicalStatus) Actions {
	switch stage {
	case enums.CanonicalStatusPending:
		return Actions{CanCancel: true, CanRetry: true}
	case enums.CanonicalStatusProcessing:
		return Actions{CanCancel: true}
	case enums.CanonicalStatusPacking, enums.CanonicalStatusShipping:
		return Actions{}
	case enums.CanonicalStatusDelivered:
		return Actions{CanReview: true, CanReorder: true}
	case enums.CanonicalStatusCompleted:
		return Actions{CanReview: true, CanReorder: true}
	case enums.CanonicalStatusCancelled:
		return Actions{CanReorder: true}
	default:
		return Actions{}
	}
}

func buildView(order types.Order) OrderView {
	stage := status.Classify(order.OrderStatus, order.PaymentStatus)
	return OrderView{
		Order:   order,
		Status:  stage,
		Actions: ActionsFor(stage),
	}
}
