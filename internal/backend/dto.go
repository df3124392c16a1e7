package backend

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/muadee/storefront-gateway/pkg/enums"
	"github.com/muadee/storefront-gateway/pkg/types"
)

// The wire shapes below mirror the upstream API verbatim, Vietnamese field
// names included. Conversion to pkg/types happens at this boundary only.

type orderLineWire struct {
	VariantID     int64           `json:"id_bienthe"`
	Quantity      int             `json:"soluong"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	ProductName   string          `json:"productName"`
	ProductImage  string          `json:"productImage"`
	VariantLabel  string          `json:"variantLabel"`
}

type orderWire struct {
	ID              int64           `json:"id"`
	Code            string          `json:"code"`
	Items           []orderLineWire `json:"items"`
	OrderStatus     string          `json:"orderStatus"`
	PaymentStatus   string          `json:"paymentStatus"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ShippingFee     decimal.Decimal `json:"shippingFee"`
	VoucherDiscount decimal.Decimal `json:"voucherDiscount"`
	Total           decimal.Decimal `json:"total"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type orderPageWire struct {
	Data struct {
		Data     []orderWire `json:"data"`
		LastPage int         `json:"last_page"`
	} `json:"data"`
}

type orderDetailWire struct {
	Data orderWire `json:"data"`
}

type reorderItemWire struct {
	VariantID int64 `json:"id_bienthe"`
	Quantity  int   `json:"soluong"`
}

type reorderToCartRequest struct {
	Items []reorderItemWire `json:"items"`
}

type reorderFromOrderWire struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type paymentMethodRequest struct {
	MethodCode string `json:"ma_phuongthuc"`
}

type statusUpdateRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
}

type paymentURLWire struct {
	PaymentURL string `json:"payment_url"`
}

type cancelOrderRequest struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
}

type cartLineRequest struct {
	VariantID int64 `json:"variantId"`
	Quantity  int   `json:"quantity"`
}

type cartLineWire struct {
	CartRowID     string          `json:"cartRowId"`
	VariantID     int64           `json:"variantId"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	ProductName   string          `json:"productName"`
	ProductImage  string          `json:"productImage"`
	VariantLabel  string          `json:"variantLabel"`
}

type cartLineDetailWire struct {
	Data cartLineWire `json:"data"`
}

type voucherWire struct {
	Code           string           `json:"code"`
	Value          decimal.Decimal  `json:"value"`
	Description    string           `json:"description"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount"`
	Status         string           `json:"status"`
	StartDate      time.Time        `json:"start_date"`
	EndDate        time.Time        `json:"end_date"`
}

type homeWire struct {
	Data struct {
		Vouchers []voucherWire `json:"vouchers"`
	} `json:"data"`
}

type addressRequest struct {
	Recipient string `json:"recipient"`
	Phone     string `json:"phone"`
	Line      string `json:"line"`
	Ward      string `json:"ward"`
	District  string `json:"district"`
	Province  string `json:"province"`
	IsDefault bool   `json:"is_default"`
}

func (w orderWire) toOrder() types.Order {
	items := make([]types.OrderLineItem, 0, len(w.Items))
	for _, line := range w.Items {
		items = append(items, line.toLineItem())
	}
	return types.Order{
		ID:              w.ID,
		Code:            w.Code,
		Items:           items,
		OrderStatus:     w.OrderStatus,
		PaymentStatus:   w.PaymentStatus,
		Subtotal:        w.Subtotal,
		ShippingFee:     w.ShippingFee,
		VoucherDiscount: w.VoucherDiscount,
		Total:           w.Total,
		CreatedAt:       w.CreatedAt,
	}
}

func (w orderLineWire) toLineItem() types.OrderLineItem {
	return types.OrderLineItem{
		VariantID:     w.VariantID,
		Quantity:      w.Quantity,
		UnitPrice:     w.UnitPrice,
		OriginalPrice: w.OriginalPrice,
		Snapshot: types.ProductSnapshot{
			Name:         w.ProductName,
			Image:        w.ProductImage,
			VariantLabel: w.VariantLabel,
		},
	}
}

func (w cartLineWire) toCartItem() types.CartItem {
	return types.CartItem{
		CartRowID:     w.CartRowID,
		VariantID:     w.VariantID,
		Quantity:      w.Quantity,
		UnitPrice:     w.UnitPrice,
		OriginalPrice: w.OriginalPrice,
		Snapshot: types.ProductSnapshot{
			Name:         w.ProductName,
			Image:        w.ProductImage,
			VariantLabel: w.VariantLabel,
		},
	}
}

func (w voucherWire) toVoucher() types.Voucher {
	status, err := enums.ParseVoucherStatus(w.Status)
	if err != nil {
		status = enums.VoucherStatusInactive
	}
	return types.Voucher{
		Code:           w.Code,
		Value:          w.Value,
		Description:    w.Description,
		MinOrderAmount: w.MinOrderAmount,
		Status:         status,
		StartDate:      w.StartDate,
		EndDate:        w.EndDate,
	}
}
