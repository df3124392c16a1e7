package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/muadee/storefront-gateway/internal/pricing"
	"github.com/muadee/storefront-gateway/pkg/auth"
	pkgerrors "github.com/muadee/storefront-gateway/pkg/errors"
	"github.com/muadee/storefront-gateway/pkg/logger"
	"github.com/muadee/storefront-gateway/pkg/types"
)

// Upstream is the slice of the commerce backend the cart needs.
type Upstream interface {
	UpdateCartLine(ctx context.Context, ac auth.Context, variantID int64, quantity int) (*types.CartItem, error)
	RemoveCartLine(ctx context.Context, ac auth.Context, variantID int64) error
	ListVouchers(ctx context.Context, ac auth.Context) ([]types.Voucher, error)
}

// View is the cart as returned to the UI: items plus the derived quote.
type View struct {
	Items   []types.CartItem `json:"items"`
	Voucher *types.Voucher   `json:"voucher,omitempty"`
	Quote   pricing.Quote    `json:"quote"`
}

// AddItemInput carries the product snapshot captured at add-to-cart time.
type AddItemInput struct {
	VariantID     int64
	Quantity      int
	UnitPrice     decimal.Decimal
	OriginalPrice decimal.Decimal
	Snapshot      types.ProductSnapshot
}

// Service owns the session cart: local optimistic state, debounced upstream
// commits, voucher slot, and the derived pricing quote.
type Service interface {
	View(ctx context.Context, ac auth.Context) (*View, error)
	AddItem(ctx context.Context, ac auth.Context, input AddItemInput) (*View, error)
	RemoveItem(ctx context.Context, ac auth.Context, variantID int64) (*View, error)
	SetQuantity(ctx context.Context, ac auth.Context, variantID int64, quantity int) (*View, error)
	ApplyVoucher(ctx context.Context, ac auth.Context, code string) (*View, error)
	RemoveVoucher(ctx context.Context, ac auth.Context) (*View, error)
	Clear(ctx context.Context, ac auth.Context) error
	Close()
}

type service struct {
	store     SnapshotStore
	upstream  Upstream
	debouncer *Debouncer
	logg      *logger.Logger
}

// NewService builds a cart service backed by the provided stack.
func NewService(store SnapshotStore, upstream Upstream, debouncer *Debouncer, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	if upstream == nil {
		return nil, fmt.Errorf("upstream client required")
	}
	if debouncer == nil {
		return nil, fmt.Errorf("quantity debouncer required")
	}
	return &service{
		store:     store,
		upstream:  upstream,
		debouncer: debouncer,
		logg:      logg,
	}, nil
}

func (s *service) View(ctx context.Context, ac auth.Context) (*View, error) {
	snapshot, err := s.load(ctx, ac)
	if err != nil {
		return nil, err
	}
	return buildView(snapshot), nil
}

func (s *service) AddItem(ctx context.Context, ac auth.Context, input AddItemInput) (*View, error) {
	if input.VariantID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if input.UnitPrice.IsNegative() || input.OriginalPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prices must be non-negative")
	}

	snapshot, err := s.load(ctx, ac)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range snapshot.Items {
		if snapshot.Items[i].VariantID == input.VariantID {
			snapshot.Items[i].Quantity += input.Quantity
			merged = true
			break
		}
	}
	if !merged {
		snapshot.Items = append(snapshot.Items, types.CartItem{
			CartRowID:     uuid.NewString(),
			VariantID:     input.VariantID,
			Quantity:      input.Quantity,
			UnitPrice:     input.UnitPrice,
			OriginalPrice: input.OriginalPrice,
			Snapshot:      input.Snapshot,
		})
	}

	if err := s.store.Save(ctx, ac.SessionID, snapshot); err != nil {
		return nil, err
	}
	return buildView(snapshot), nil
}

func (s *service) RemoveItem(ctx context.Context, ac auth.Context, variantID int64) (*View, error) {
	snapshot, err := s.load(ctx, ac)
	if err != nil {
		return nil, err
	}

	kept := snapshot.Items[:0]
	removed := false
	for _, item := range snapshot.Items {
		if item.VariantID == variantID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	snapshot.Items = kept
	s.debouncer.Forget(variantID)

	if err := s.upstream.RemoveCartLine(ctx, ac, variantID); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, ac.SessionID, snapshot); err != nil {
		return nil, err
	}
	return buildView(snapshot), nil
}

// SetQuantity applies the edit optimistically to the session snapshot and
// hands the upstream commit to the debouncer. The response reflects the
// local state; the coalesced network update follows after the quiet period.
func (s *service) SetQuantity(ctx context.Context, ac auth.Context, variantID int64, quantity int) (*View, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	snapshot, err := s.load(ctx, ac)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range snapshot.Items {
		if snapshot.Items[i].VariantID == variantID {
			snapshot.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	if err := s.store.Save(ctx, ac.SessionID, snapshot); err != nil {
		return nil, err
	}
	if err := s.debouncer.Edit(ac, variantID, quantity); err != nil {
		return nil, err
	}
	return buildView(snapshot), nil
}

func (s *service) ApplyVoucher(ctx context.Context, ac auth.Context, code string) (*View, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "voucher code is required")
	}

	snapshot, err := s.load(ctx, ac)
	if err != nil {
		return nil, err
	}

	vouchers, err := s.upstream.ListVouchers(ctx, ac)
	if err != nil {
		return nil, err
	}
	var candidate *types.Voucher
	for i := range vouchers {
		if strings.EqualFold(vouchers[i].Code, code) {
			candidate = &vouchers[i]
			break
		}
	}
	if candidate == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "voucher not found")
	}

	quote := pricing.Compute(pricing.FromCartItems(snapshot.Items), nil, snapshot.ShippingFee)
	selector := NewVoucherSelector(snapshot.Voucher)
	if err := selector.Apply(*candidate, quote.Subtotal); err != nil {
		return nil, err
	}
	snapshot.Voucher = selector.Applied()

	if err := s.store.Save(ctx, ac.SessionID, snapshot); err != nil {
		return nil, err
	}
	return buildView(snapshot), nil
}

func (s *service) RemoveVoucher(ctx context.Context, ac auth.Context) (*View, error) {
	snapshot, err := s.load(ctx, ac)
	if err != nil {
		return nil, err
	}

	selector := NewVoucherSelector(snapshot.Voucher)
	selector.Remove()
	snapshot.Voucher = nil

	if err := s.store.Save(ctx, ac.SessionID, snapshot); err != nil {
		return nil, err
	}
	return buildView(snapshot), nil
}

// Clear drops the session cart, used after checkout completes.
func (s *service) Clear(ctx context.Context, ac auth.Context) error {
	if err := s.requireSession(ac); err != nil {
		return err
	}
	return s.store.Delete(ctx, ac.SessionID)
}

// Close tears down the debouncer; pending quiet-period timers are cancelled
// without issuing network calls.
func (s *service) Close() {
	s.debouncer.Close()
}

func (s *service) load(ctx context.Context, ac auth.Context) (*Snapshot, error) {
	if err := s.requireSession(ac); err != nil {
		return nil, err
	}
	snapshot, err := s.store.Load(ctx, ac.SessionID)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		snapshot = &Snapshot{ShippingFee: decimal.Zero}
	}
	return snapshot, nil
}

func (s *service) requireSession(ac auth.Context) error {
	if strings.TrimSpace(ac.SessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "session id is required")
	}
	return nil
}

func buildView(snapshot *Snapshot) *View {
	return &View{
		Items:   snapshot.Items,
		Voucher: snapshot.Voucher,
		Quote:   pricing.Compute(pricing.FromCartItems(snapshot.Items), snapshot.Voucher, snapshot.ShippingFee),
	}
}
