// Package dayclose finalizes a business day: it aggregates the day's
// live orders into an immutable report run, appends the run to the
// date's report, drains the live orders and resets the order counter.
// The whole sequence runs in one transaction, so a failure leaves both
// the live orders and the report history untouched.
package dayclose

import (
	"context"
	"fmt"
	"time"

	"tavolo/internal/core/apperror"
	"tavolo/internal/core/businessday"
	"tavolo/internal/core/id"
	"tavolo/internal/core/tx"
	"tavolo/internal/core/types"
	"tavolo/internal/domain/numbering"
	"tavolo/internal/domain/orders"
	"tavolo/internal/domain/reports"
	"tavolo/pkg/logger"
)

// Service performs day close.
type Service struct {
	orders    orders.Repository
	reports   reports.Repository
	numbering *numbering.Service
	txManager tx.Manager
	clock     businessday.Clock
	loc       *time.Location
}

// NewService creates a day-close service.
func NewService(
	orderRepo orders.Repository,
	reportRepo reports.Repository,
	numberingSvc *numbering.Service,
	txManager tx.Manager,
	clock businessday.Clock,
	loc *time.Location,
) *Service {
	return &Service{
		orders:    orderRepo,
		reports:   reportRepo,
		numbering: numberingSvc,
		txManager: txManager,
		clock:     clock,
		loc:       loc,
	}
}

// FinalizeDay closes the given date (today when empty) and returns the
// appended run. Every live order of the date is included regardless of
// status; a day with no orders still produces a zero run, so repeated
// finalizations are visible in the run history.
func (s *Service) FinalizeDay(ctx context.Context, date businessday.Date) (*reports.Run, error) {
	if date == "" {
		date = businessday.Today(s.clock)
	} else if _, err := businessday.Parse(date.String(), s.loc); err != nil {
		return nil, apperror.NewValidation(err.Error()).WithDetail("field", "date")
	}

	var run reports.Run
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		startMs, endMs, err := date.Range(s.loc)
		if err != nil {
			return err
		}

		live, err := s.orders.ListByRange(ctx, startMs, endMs)
		if err != nil {
			return fmt.Errorf("load live orders: %w", err)
		}

		run = BuildRun(live, s.clock.Now().UnixMilli())

		report, err := s.reports.Get(ctx, date)
		if err != nil {
			return fmt.Errorf("load day report: %w", err)
		}
		if report == nil {
			report = &reports.DayReport{Date: date}
		}
		report.Runs = append(report.Runs, run)
		if err := s.reports.Put(ctx, report); err != nil {
			return fmt.Errorf("store day report: %w", err)
		}

		if len(live) > 0 {
			ids := make([]id.ID, 0, len(live))
			for _, o := range live {
				ids = append(ids, o.ID)
			}
			if err := s.orders.DeleteByIDs(ctx, ids); err != nil {
				return fmt.Errorf("drain live orders: %w", err)
			}
		}

		// New orders after close start from number 1 again.
		return s.numbering.Reset(ctx, date)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "day finalized",
		"date", date.String(),
		"order_count", run.OrderCount,
		"total", run.Total.String(),
	)
	return &run, nil
}

// BuildRun aggregates live orders into a report run stamped with nowMs.
func BuildRun(live []*orders.Order, nowMs int64) reports.Run {
	run := reports.Run{
		CreatedAt:         nowMs,
		OrderCount:        len(live),
		Total:             types.Zero(),
		TotalsByPayment:   make(map[orders.PaymentMethod]types.Money, len(orders.PaymentMethods)),
		TotalsByOrderType: make(map[orders.OrderType]types.Money, len(orders.OrderTypes)),
		Items:             []reports.RunItem{},
		Orders:            make([]reports.OrderSummary, 0, len(live)),
	}
	for _, m := range orders.PaymentMethods {
		run.TotalsByPayment[m] = types.Zero()
	}
	for _, t := range orders.OrderTypes {
		run.TotalsByOrderType[t] = types.Zero()
	}

	itemsByKey := make(map[string]int)

	for _, o := range live {
		run.Total = run.Total.Add(o.TotalAmount)

		method := o.PaymentMethod
		if method == "" {
			method = orders.PaymentOther
		}
		run.TotalsByPayment[method] = run.TotalsByPayment[method].Add(o.TotalAmount)

		if o.OrderType != nil {
			run.TotalsByOrderType[*o.OrderType] = run.TotalsByOrderType[*o.OrderType].Add(o.TotalAmount)
		}

		for _, line := range o.Lines {
			key := line.ItemID.String() + "::" + types.PriceKey(line.UnitPrice)
			if idx, ok := itemsByKey[key]; ok {
				run.Items[idx].Quantity += line.Quantity
				run.Items[idx].Total = run.Items[idx].Total.Add(line.Total())
				continue
			}
			itemsByKey[key] = len(run.Items)
			run.Items = append(run.Items, reports.RunItem{
				ItemID:    line.ItemID,
				Name:      line.Name,
				UnitPrice: line.UnitPrice,
				Quantity:  line.Quantity,
				Total:     line.Total(),
			})
		}

		run.Orders = append(run.Orders, reports.OrderSummary{
			ID:          o.ID,
			ShortID:     o.ShortID,
			OrderNumber: o.Number,
			TotalAmount: o.TotalAmount,
			OrderType:   o.OrderType,
			Items:       o.Lines,
		})
	}

	return run
}
