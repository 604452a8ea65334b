// Package orders provides the live order document: checkout, payment and
// cancellation of orders placed at the terminal. Live orders exist only
// until the business day is closed; after that they survive solely as
// aggregated report runs.
package orders

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"tavolo/internal/core/apperror"
	"tavolo/internal/core/entity"
	"tavolo/internal/core/id"
	"tavolo/internal/core/types"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// PaymentMethod identifies how an order was settled.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentQRCode PaymentMethod = "QR_CODE"
	PaymentCard   PaymentMethod = "CARD"
	PaymentOther  PaymentMethod = "OTHER"
)

// PaymentMethods lists all methods in reporting order.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentQRCode, PaymentCard, PaymentOther}

// OrderType distinguishes eat-in from takeaway orders.
type OrderType string

const (
	TypeEatIn OrderType = "EAT_IN"
	TypeToGo  OrderType = "TO_GO"
)

// OrderTypes lists all order types in reporting order.
var OrderTypes = []OrderType{TypeEatIn, TypeToGo}

// Line is one order position. Name and UnitPrice are snapshots taken at
// checkout; catalog edits after that point do not affect them.
type Line struct {
	ItemID    id.ID       `json:"itemId"`
	Name      string      `json:"name"`
	Variant   string      `json:"variant,omitempty"`
	Quantity  int         `json:"quantity"`
	UnitPrice types.Money `json:"unitPrice"`
}

// Total returns unitPrice * quantity for the line.
func (l Line) Total() types.Money {
	return l.UnitPrice.Mul(types.NewMoney(float64(l.Quantity)))
}

// Lines is stored as a JSONB array.
type Lines []Line

// Scan implements sql.Scanner.
func (ls *Lines) Scan(src any) error {
	if src == nil {
		*ls = nil
		return nil
	}
	var data []byte
	switch s := src.(type) {
	case []byte:
		data = s
	case string:
		data = []byte(s)
	default:
		return fmt.Errorf("unsupported type for Lines: %T", src)
	}
	if len(data) == 0 {
		*ls = nil
		return nil
	}
	return json.Unmarshal(data, ls)
}

// Value implements driver.Valuer.
func (ls Lines) Value() (driver.Value, error) {
	if ls == nil {
		return json.Marshal([]Line{})
	}
	return json.Marshal(ls)
}

// Order is one placed order. TotalAmount is fixed at checkout as the sum
// of line totals and never recomputed afterwards.
type Order struct {
	entity.BaseDocument

	// ShortID is the human-friendly reference printed on receipts
	ShortID string `db:"short_id" json:"shortId"`

	// Number is the per-day sequential order number
	Number int `db:"order_number" json:"orderNumber"`

	// CreatedAtMs is the epoch-millisecond creation timestamp used by
	// all date-range queries
	CreatedAtMs int64 `db:"created_at_ms" json:"createdAt"`

	Lines       Lines       `db:"lines" json:"items"`
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	Status        OrderStatus   `db:"status" json:"status"`
	PaymentMethod PaymentMethod `db:"payment_method" json:"paymentMethod"`

	// OrderType is optional; very old orders may not carry one
	OrderType *OrderType `db:"order_type" json:"orderType,omitempty"`

	Table *string `db:"table_label" json:"table,omitempty"`
	Notes *string `db:"notes" json:"notes,omitempty"`
}

// Validate implements entity.Validatable interface.
func (o *Order) Validate(ctx context.Context) error {
	if len(o.Lines) == 0 {
		return apperror.NewEmptyOrder()
	}
	for _, l := range o.Lines {
		if l.Quantity <= 0 {
			return apperror.NewValidation("line quantity must be positive").
				WithDetail("itemId", l.ItemID.String()).
				WithDetail("quantity", l.Quantity)
		}
		if l.UnitPrice.IsNegative() {
			return apperror.NewValidation("line unit price must not be negative").
				WithDetail("itemId", l.ItemID.String())
		}
	}
	return nil
}

// CanModify reports whether the order is still editable.
func (o *Order) CanModify() error {
	switch o.Status {
	case StatusCompleted:
		return apperror.NewOrderAlreadyPaid(o.ID.String())
	case StatusCancelled:
		return apperror.NewBusinessRule(apperror.CodeOrderCancelled, "Order is cancelled").
			WithDetail("order_id", o.ID.String())
	}
	return nil
}
