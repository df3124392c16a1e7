package reorder

import (
	"github.com/muadee/storefront-gateway/internal/backend"
	pkgerrors "github.com/muadee/storefront-gateway/pkg/errors"
	"github.com/muadee/storefront-gateway/pkg/types"
)

// Selection overrides the quantities taken from the source order, keyed by
// variant id. A zero quantity drops the line from the request entirely.
type Selection map[int64]int

// Build extracts the purchasable lines of a historical order into a
// cart-insertion payload. Gift lines never make it into the request; an
// all-gift or fully-deselected order is rejected before any network call.
func Build(order types.Order, selection Selection) ([]backend.ReorderItem, error) {
	items := make([]backend.ReorderItem, 0, len(order.Items))
	for _, line := range order.Items {
		if line.IsGift() {
			continue
		}
		quantity := line.Quantity
		if selection != nil {
			override, ok := selection[line.VariantID]
			if ok {
				if override < 0 {
					return nil, pkgerrors.New(pkgerrors.CodeValidation, "selection quantity cannot be negative")
				}
				quantity = override
			}
		}
		if quantity == 0 {
			continue
		}
		items = append(items, backend.ReorderItem{
			VariantID: line.VariantID,
			Quantity:  quantity,
		})
	}

	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to reorder from this order")
	}
	return items, nil
}
