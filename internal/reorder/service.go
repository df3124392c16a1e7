package reorder

import (
	"context"
	"fmt"
	"strings"

	"github.com/muadee/storefront-gateway/internal/backend"
	"github.com/muadee/storefront-gateway/internal/status"
	"github.com/muadee/storefront-gateway/pkg/auth"
	"github.com/muadee/storefront-gateway/pkg/enums"
	pkgerrors "github.com/muadee/storefront-gateway/pkg/errors"
	"github.com/muadee/storefront-gateway/pkg/logger"
	"github.com/muadee/storefront-gateway/pkg/types"
)

// Upstream is the slice of the commerce backend the buy-again flow needs.
type Upstream interface {
	GetOrder(ctx context.Context, ac auth.Context, code string) (*types.Order, error)
	ReorderToCart(ctx context.Context, ac auth.Context, items []backend.ReorderItem) error
}

// Result reports a completed buy-again. The upstream does not return a
// distinguishable cart reference, so the message directs the shopper to
// their cart.
type Result struct {
	ItemCount int    `json:"item_count"`
	Message   string `json:"message"`
}

// Service turns a historical order back into cart contents.
type Service interface {
	BuyAgain(ctx context.Context, ac auth.Context, code string, selection Selection) (*Result, error)
}

type service struct {
	upstream Upstream
	logg     *logger.Logger
}

// NewService builds the buy-again service.
func NewService(upstream Upstream, logg *logger.Logger) (Service, error) {
	if upstream == nil {
		return nil, fmt.Errorf("upstream client required")
	}
	return &service{upstream: upstream, logg: logg}, nil
}

func (s *service) BuyAgain(ctx context.Context, ac auth.Context, code string, selection Selection) (*Result, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order code is required")
	}

	order, err := s.upstream.GetOrder(ctx, ac, code)
	if err != nil {
		return nil, err
	}

	// Buy-again is only offered once the order has left the active
	// pipeline; an order still in flight is re-paid, not re-bought.
	stage := status.Classify(order.OrderStatus, order.PaymentStatus)
	switch stage {
	case enums.CanonicalStatusDelivered, enums.CanonicalStatusCompleted, enums.CanonicalStatusCancelled:
	default:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is still in progress")
	}

	items, err := Build(*order, selection)
	if err != nil {
		return nil, err
	}

	if err := s.upstream.ReorderToCart(ctx, ac, items); err != nil {
		return nil, err
	}

	if s.logg != nil {
		fields := map[string]any{"order_code": code, "item_count": len(items)}
		s.logg.Info(s.logg.WithFields(ctx, fields), "order lines pushed back to cart")
	}
	return &Result{
		ItemCount: len(items),
		Message:   "items added, check your cart",
	}, nil
}
