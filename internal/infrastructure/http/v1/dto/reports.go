package dto

import (
	"tavolo/internal/core/id"
	"tavolo/internal/domain/orders"
	"tavolo/internal/domain/reports"
)

// ReportRangeRequest selects the date window for range reporting.
type ReportRangeRequest struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
}

// AggregateRequest adds filters and the chart metric on top of a range.
type AggregateRequest struct {
	ReportRangeRequest
	OrderType  string `form:"orderType"`
	CategoryID string `form:"categoryId"`
	ItemID     string `form:"itemId"`
	Metric     string `form:"metric"`
}

// ToFilter parses the optional filter parameters.
func (r AggregateRequest) ToFilter() (reports.Filter, error) {
	var f reports.Filter

	if r.OrderType != "" {
		t := orders.OrderType(r.OrderType)
		f.OrderType = &t
	}
	if r.CategoryID != "" {
		categoryID, err := id.Parse(r.CategoryID)
		if err != nil {
			return f, err
		}
		f.CategoryID = &categoryID
	}
	if r.ItemID != "" {
		itemID, err := id.Parse(r.ItemID)
		if err != nil {
			return f, err
		}
		f.ItemID = &itemID
	}

	return f, nil
}

// FinalizeDayRequest closes out a business day.
type FinalizeDayRequest struct {
	Date    string `json:"date"`
	Confirm bool   `json:"confirm"`
}
