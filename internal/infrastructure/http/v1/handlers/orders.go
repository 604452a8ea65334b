package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tavolo/internal/core/apperror"
	"tavolo/internal/core/businessday"
	"tavolo/internal/core/id"
	"tavolo/internal/domain/numbering"
	"tavolo/internal/domain/orders"
	"tavolo/internal/domain/settings"
	"tavolo/internal/infrastructure/http/v1/dto"
	"tavolo/internal/infrastructure/ticket"
)

// OrderHandler exposes the order lifecycle: checkout, listing of the
// current day, payment, cancellation and receipt printing.
// Orders are returned in their wire shape directly; the entity's JSON
// tags are the API contract.
type OrderHandler struct {
	*BaseHandler
	service   *orders.Service
	numbering *numbering.Service
	settings  *settings.Service
	tickets   *ticket.Renderer
	loc       *time.Location
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(
	base *BaseHandler,
	service *orders.Service,
	numberingSvc *numbering.Service,
	settingsSvc *settings.Service,
	tickets *ticket.Renderer,
	loc *time.Location,
) *OrderHandler {
	return &OrderHandler{
		BaseHandler: base,
		service:     service,
		numbering:   numberingSvc,
		settings:    settingsSvc,
		tickets:     tickets,
		loc:         loc,
	}
}

// Checkout handles POST /orders - create an order from the cart.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.service.Checkout(c.Request.Context(), req.ToDraft())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// List handles GET /orders?date=YYYY-MM-DD - live orders of one
// business day. Empty date means today.
func (h *OrderHandler) List(c *gin.Context) {
	date := businessday.Date(c.Query("date"))

	items, err := h.service.ListByDate(c.Request.Context(), date)
	if err != nil {
		h.Error(c, err)
		return
	}

	if items == nil {
		items = []*orders.Order{}
	}
	c.JSON(http.StatusOK, items)
}

// Get handles GET /orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	order, err := h.service.Get(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// Update handles PUT /orders/:id - patch editable fields of a pending order.
func (h *OrderHandler) Update(c *gin.Context) {
	orderID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.service.Update(c.Request.Context(), orderID, req.ToPatch())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// Delete handles DELETE /orders/:id.
func (h *OrderHandler) Delete(c *gin.Context) {
	orderID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), orderID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Pay handles POST /orders/:id/pay - complete with a payment method.
func (h *OrderHandler) Pay(c *gin.Context) {
	orderID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.PayOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.service.MarkPaid(c.Request.Context(), orderID, req.PaymentMethod)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// Cancel handles POST /orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	order, err := h.service.Cancel(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// Ticket handles GET /orders/:id/ticket - receipt PDF download.
func (h *OrderHandler) Ticket(c *gin.Context) {
	ctx := c.Request.Context()

	orderID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	order, err := h.service.Get(ctx, orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	app, err := h.settings.AppSettings(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	pdf, err := h.tickets.Render(order, app)
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+ticket.Filename(order))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// NextNumber handles GET /orders/next-number - peek at the number the
// next checkout will take.
func (h *OrderHandler) NextNumber(c *gin.Context) {
	current, err := h.numbering.Current(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NextNumberResponse{Next: current + 1})
}

// ResetNumber handles POST /orders/reset-number.
func (h *OrderHandler) ResetNumber(c *gin.Context) {
	var req dto.ResetNumberRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if req.Date != "" {
		if _, err := businessday.Parse(req.Date, h.loc); err != nil {
			h.Error(c, apperror.NewValidation("invalid date, expected YYYY-MM-DD").WithDetail("date", req.Date))
			return
		}
	}

	if err := h.numbering.Reset(c.Request.Context(), businessday.Date(req.Date)); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "order counter reset")
}
