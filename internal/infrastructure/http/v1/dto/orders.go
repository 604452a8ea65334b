package dto

import (
	"tavolo/internal/core/id"
	"tavolo/internal/domain/orders"
)

// CheckoutLineRequest is one requested position at checkout.
type CheckoutLineRequest struct {
	ItemID   id.ID  `json:"itemId" binding:"required"`
	Variant  string `json:"variant"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// CheckoutRequest creates an order from the cart.
type CheckoutRequest struct {
	Items     []CheckoutLineRequest `json:"items" binding:"required"`
	OrderType *orders.OrderType     `json:"orderType"`
	Table     *string               `json:"table"`
	Notes     *string               `json:"notes"`
}

// ToDraft maps the request to a checkout draft.
func (r CheckoutRequest) ToDraft() orders.Draft {
	lines := make([]orders.DraftLine, len(r.Items))
	for i, item := range r.Items {
		lines[i] = orders.DraftLine{
			ItemID:   item.ItemID,
			Variant:  item.Variant,
			Quantity: item.Quantity,
		}
	}
	return orders.Draft{
		Lines:     lines,
		OrderType: r.OrderType,
		Table:     r.Table,
		Notes:     r.Notes,
	}
}

// UpdateOrderRequest patches the editable fields of a pending order.
type UpdateOrderRequest struct {
	OrderType *orders.OrderType `json:"orderType"`
	Table     *string           `json:"table"`
	Notes     *string           `json:"notes"`
}

// ToPatch maps the request to an order patch.
func (r UpdateOrderRequest) ToPatch() orders.Patch {
	return orders.Patch{
		OrderType: r.OrderType,
		Table:     r.Table,
		Notes:     r.Notes,
	}
}

// PayOrderRequest records the payment method on completion.
type PayOrderRequest struct {
	PaymentMethod orders.PaymentMethod `json:"paymentMethod" binding:"required"`
}

// NextNumberResponse reports the order number the next checkout will take.
type NextNumberResponse struct {
	Next int `json:"next"`
}

// ResetNumberRequest resets the per-day counter.
type ResetNumberRequest struct {
	Date string `json:"date"`
}
