package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"tavolo/internal/core/apperror"
	"tavolo/internal/core/businessday"
	"tavolo/internal/domain/dayclose"
	"tavolo/internal/domain/reports"
	"tavolo/internal/infrastructure/http/v1/dto"
)

// ReportHandler exposes day-close history: range queries over report
// runs, filtered re-aggregation and CSV export.
type ReportHandler struct {
	*BaseHandler
	service  *reports.Service
	dayClose *dayclose.Service
}

// NewReportHandler creates a new report handler.
func NewReportHandler(base *BaseHandler, service *reports.Service, dayClose *dayclose.Service) *ReportHandler {
	return &ReportHandler{
		BaseHandler: base,
		service:     service,
		dayClose:    dayClose,
	}
}

// Range handles GET /reports?start=...&end=... - raw day reports.
func (h *ReportHandler) Range(c *gin.Context) {
	var req dto.ReportRangeRequest
	if !h.BindQuery(c, &req) {
		return
	}

	result, err := h.service.GetReportsInRange(c.Request.Context(),
		businessday.Date(req.Start), businessday.Date(req.End))
	if err != nil {
		h.Error(c, err)
		return
	}

	if result == nil {
		result = []*reports.DayReport{}
	}
	c.JSON(http.StatusOK, result)
}

// Aggregate handles GET /reports/aggregate - filtered re-aggregation
// over the selected range.
func (h *ReportHandler) Aggregate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.AggregateRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter, err := req.ToFilter()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid filter id").WithDetail("error", err.Error()))
		return
	}

	runs, err := h.service.FlatRange(ctx, businessday.Date(req.Start), businessday.Date(req.End))
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.Aggregate(ctx, runs, filter, reports.Metric(req.Metric))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportCSV handles GET /reports/csv - aggregated rows as a CSV download.
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.AggregateRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter, err := req.ToFilter()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid filter id").WithDetail("error", err.Error()))
		return
	}

	runs, err := h.service.FlatRange(ctx, businessday.Date(req.Start), businessday.Date(req.End))
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.Aggregate(ctx, runs, filter, reports.Metric(req.Metric))
	if err != nil {
		h.Error(c, err)
		return
	}

	var buf bytes.Buffer
	if err := reports.WriteCSV(&buf, result); err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}

	filename := reports.Filename(businessday.Date(req.Start), businessday.Date(req.End))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// FinalizeDay handles POST /reports/finalize-day - close out a business
// day into an immutable report run. Requires explicit confirmation:
// finalizing drains the day's live orders.
func (h *ReportHandler) FinalizeDay(c *gin.Context) {
	var req dto.FinalizeDayRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if !req.Confirm {
		h.Error(c, apperror.NewConfirmationRequired("finalize day"))
		return
	}

	run, err := h.dayClose.FinalizeDay(c.Request.Context(), businessday.Date(req.Date))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, run)
}
