package orders

import (
	"context"
	"fmt"
	"time"

	"tavolo/internal/core/apperror"
	"tavolo/internal/core/businessday"
	"tavolo/internal/core/entity"
	"tavolo/internal/core/id"
	"tavolo/internal/core/tx"
	"tavolo/internal/core/types"
	"tavolo/internal/domain/catalogs/menuitem"
	"tavolo/internal/domain/numbering"
	"tavolo/pkg/logger"
)

// DraftLine is one requested position of a checkout draft.
type DraftLine struct {
	ItemID   id.ID  `json:"itemId"`
	Variant  string `json:"variant,omitempty"`
	Quantity int    `json:"quantity"`
}

// Draft is a checkout request before snapshotting.
type Draft struct {
	Lines     []DraftLine `json:"items"`
	OrderType *OrderType  `json:"orderType,omitempty"`
	Table     *string     `json:"table,omitempty"`
	Notes     *string     `json:"notes,omitempty"`
}

// Patch carries the editable fields of a pending order.
type Patch struct {
	OrderType *OrderType `json:"orderType,omitempty"`
	Table     *string    `json:"table,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}

// Service provides order lifecycle operations.
type Service struct {
	repo      Repository
	items     menuitem.Repository
	numbering *numbering.Service
	txManager tx.Manager
	clock     businessday.Clock
	loc       *time.Location
}

// NewService creates a new order service.
func NewService(
	repo Repository,
	items menuitem.Repository,
	numberingSvc *numbering.Service,
	txManager tx.Manager,
	clock businessday.Clock,
	loc *time.Location,
) *Service {
	return &Service{
		repo:      repo,
		items:     items,
		numbering: numberingSvc,
		txManager: txManager,
		clock:     clock,
		loc:       loc,
	}
}

// Checkout turns a draft into a persisted PENDING order. Item names and
// unit prices are snapshotted from the catalog; the order total is the
// sum of line totals and is never recomputed after this point.
func (s *Service) Checkout(ctx context.Context, draft Draft) (*Order, error) {
	if len(draft.Lines) == 0 {
		return nil, apperror.NewEmptyOrder()
	}
	for _, dl := range draft.Lines {
		if dl.Quantity <= 0 {
			return nil, apperror.NewValidation("line quantity must be positive").
				WithDetail("itemId", dl.ItemID.String()).
				WithDetail("quantity", dl.Quantity)
		}
	}

	var order *Order
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		itemIDs := make([]id.ID, 0, len(draft.Lines))
		for _, dl := range draft.Lines {
			itemIDs = append(itemIDs, dl.ItemID)
		}
		catalog, err := s.items.GetMany(ctx, itemIDs)
		if err != nil {
			return fmt.Errorf("load menu items: %w", err)
		}

		lines := make(Lines, 0, len(draft.Lines))
		total := types.Zero()
		for _, dl := range draft.Lines {
			item, ok := catalog[dl.ItemID]
			if !ok {
				return apperror.NewNotFound("menu item", dl.ItemID.String())
			}
			if !item.IsEnabled || item.DeletionMark {
				return apperror.NewValidation("menu item is not available").
					WithDetail("itemId", dl.ItemID.String()).
					WithDetail("name", item.Name)
			}

			line := Line{
				ItemID:    item.ID,
				Name:      item.Name,
				Variant:   dl.Variant,
				Quantity:  dl.Quantity,
				UnitPrice: item.UnitPrice(dl.Variant),
			}
			lines = append(lines, line)
			total = total.Add(line.Total())
		}

		number, err := s.numbering.Next(ctx)
		if err != nil {
			return fmt.Errorf("assign order number: %w", err)
		}

		order = &Order{
			BaseDocument:  entity.NewBaseDocument(),
			ShortID:       id.NewShort(),
			Number:        number,
			CreatedAtMs:   s.clock.Now().UnixMilli(),
			Lines:         lines,
			TotalAmount:   total,
			Status:        StatusPending,
			PaymentMethod: PaymentOther,
			OrderType:     draft.OrderType,
			Table:         draft.Table,
			Notes:         draft.Notes,
		}
		return s.repo.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order checked out",
		"order_id", order.ID.String(),
		"order_number", order.Number,
		"total", order.TotalAmount.String(),
	)
	return order, nil
}

// Get retrieves an order by ID.
func (s *Service) Get(ctx context.Context, orderID id.ID) (*Order, error) {
	return s.repo.GetByID(ctx, orderID)
}

// MarkPaid completes a pending order with the given payment method.
func (s *Service) MarkPaid(ctx context.Context, orderID id.ID, method PaymentMethod) (*Order, error) {
	if !validPaymentMethod(method) {
		return nil, apperror.NewValidation("invalid payment method").
			WithDetail("value", string(method))
	}

	var order *Order
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.repo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.CanModify(); err != nil {
			return err
		}

		order.Status = StatusCompleted
		order.PaymentMethod = method
		// The repo bumps version against the loaded one; mirror it on
		// the returned order after the write sticks.
		if err := s.repo.Update(ctx, order); err != nil {
			return err
		}
		order.Touch()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order paid",
		"order_id", order.ID.String(),
		"order_number", order.Number,
		"method", string(method),
	)
	return order, nil
}

// Cancel voids a pending order.
func (s *Service) Cancel(ctx context.Context, orderID id.ID) (*Order, error) {
	var order *Order
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.repo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.CanModify(); err != nil {
			return err
		}

		order.Status = StatusCancelled
		if err := s.repo.Update(ctx, order); err != nil {
			return err
		}
		order.Touch()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order cancelled", "order_id", order.ID.String(), "order_number", order.Number)
	return order, nil
}

// Update edits table, notes or order type of a pending order. Lines and
// total stay frozen after checkout.
func (s *Service) Update(ctx context.Context, orderID id.ID, patch Patch) (*Order, error) {
	var order *Order
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.repo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.CanModify(); err != nil {
			return err
		}

		if patch.OrderType != nil {
			order.OrderType = patch.OrderType
		}
		if patch.Table != nil {
			order.Table = patch.Table
		}
		if patch.Notes != nil {
			order.Notes = patch.Notes
		}
		if err := s.repo.Update(ctx, order); err != nil {
			return err
		}
		order.Touch()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Delete removes an order permanently.
func (s *Service) Delete(ctx context.Context, orderID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, orderID)
	})
}

// ListByDate returns the live orders of one business day, today when
// date is empty.
func (s *Service) ListByDate(ctx context.Context, date businessday.Date) ([]*Order, error) {
	if date == "" {
		date = businessday.Today(s.clock)
	}
	startMs, endMs, err := date.Range(s.loc)
	if err != nil {
		return nil, apperror.NewValidation(err.Error()).WithDetail("field", "date")
	}
	return s.repo.ListByRange(ctx, startMs, endMs)
}

func validPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCash, PaymentQRCode, PaymentCard, PaymentOther:
		return true
	}
	return false
}
