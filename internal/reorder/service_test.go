package reorder

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/muadee/storefront-gateway/internal/backend"
	"github.com/muadee/storefront-gateway/pkg/auth"
	pkgerrors "github.com/muadee/storefront-gateway/pkg/errors"
	"github.com/muadee/storefront-gateway/pkg/types"
)

type stubUpstream struct {
	order      *types.Order
	getErr     error
	reorderErr error
	pushed     [][]backend.ReorderItem
}

func (s *stubUpstream) GetOrder(context.Context, auth.Context, string) (*types.Order, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.order, nil
}

func (s *stubUpstream) ReorderToCart(_ context.Context, _ auth.Context, items []backend.ReorderItem) error {
	if s.reorderErr != nil {
		return s.reorderErr
	}
	s.pushed = append(s.pushed, items)
	return nil
}

func deliveredOrder() *types.Order {
	return &types.Order{
		ID:          10,
		Code:        "DH-10",
		OrderStatus: "Đã giao hàng",
		Items: []types.OrderLineItem{
			{VariantID: 1, Quantity: 2, UnitPrice: decimal.NewFromInt(100000), OriginalPrice: decimal.NewFromInt(100000)},
			{VariantID: 3, Quantity: 1, UnitPrice: decimal.Zero},
		},
	}
}

func testAC() auth.Context {
	return auth.Context{ShopperID: "s1", SessionID: "sess1", UpstreamToken: "tok"}
}

func TestBuyAgainPushesPurchasableLines(t *testing.T) {
	t.Parallel()

	upstream := &stubUpstream{order: deliveredOrder()}
	svc, err := NewService(upstream, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	result, err := svc.BuyAgain(context.Background(), testAC(), "DH-10", nil)
	if err != nil {
		t.Fatalf("buy again: %v", err)
	}
	if result.ItemCount != 1 {
		t.Fatalf("item count = %d, want 1", result.ItemCount)
	}
	if len(upstream.pushed) != 1 || upstream.pushed[0][0].VariantID != 1 {
		t.Fatalf("unexpected pushed items: %+v", upstream.pushed)
	}
}

func TestBuyAgainRejectsInFlightOrder(t *testing.T) {
	t.Parallel()

	order := deliveredOrder()
	order.OrderStatus = "Đang giao hàng"
	upstream := &stubUpstream{order: order}
	svc, _ := NewService(upstream, nil)

	_, err := svc.BuyAgain(context.Background(), testAC(), "DH-10", nil)
	if err == nil {
		t.Fatal("expected error for in-flight order")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("unexpected error code: %v", err)
	}
	if len(upstream.pushed) != 0 {
		t.Fatal("no network push expected for a rejected order")
	}
}

func TestBuyAgainAllowsCancelledOrder(t *testing.T) {
	t.Parallel()

	order := deliveredOrder()
	order.OrderStatus = "Đã hủy"
	upstream := &stubUpstream{order: order}
	svc, _ := NewService(upstream, nil)

	if _, err := svc.BuyAgain(context.Background(), testAC(), "DH-10", nil); err != nil {
		t.Fatalf("buy again on cancelled order: %v", err)
	}
}

func TestBuyAgainRequiresCode(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(&stubUpstream{order: deliveredOrder()}, nil)

	_, err := svc.BuyAgain(context.Background(), testAC(), "  ", nil)
	if err == nil {
		t.Fatal("expected error for blank code")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestBuyAgainPropagatesUpstreamFailure(t *testing.T) {
	t.Parallel()

	upstream := &stubUpstream{
		order:      deliveredOrder(),
		reorderErr: pkgerrors.New(pkgerrors.CodeDependency, "backend down"),
	}
	svc, _ := NewService(upstream, nil)

	_, err := svc.BuyAgain(context.Background(), testAC(), "DH-10", nil)
	if err == nil {
		t.Fatal("expected upstream error to surface")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("unexpected error code: %v", err)
	}
}
