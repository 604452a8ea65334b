// Package ticket renders order receipts as PDF, with a QR code carrying
// the order's short ID for pickup lookup.
package ticket

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"tavolo/internal/core/types"
	"tavolo/internal/domain/orders"
	"tavolo/internal/domain/settings"
)

// Renderer produces receipt PDFs.
type Renderer struct {
	loc *time.Location
}

// NewRenderer creates a receipt renderer. Timestamps on the receipt are
// printed in the given location.
func NewRenderer(loc *time.Location) *Renderer {
	return &Renderer{loc: loc}
}

// Render produces the receipt PDF for an order.
func (r *Renderer) Render(order *orders.Order, app settings.AppSettings) ([]byte, error) {
	qrPNG, err := qrcode.Encode(order.ShortID, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("generate qr code: %w", err)
	}

	// 80mm thermal roll format
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "mm",
		Size:    gofpdf.SizeType{Wd: 80, Ht: 200},
	})
	pdf.SetMargins(5, 5, 5)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(70, 7, app.RestaurantName, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(70, 6, fmt.Sprintf("Order #%d", order.Number), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	createdAt := time.UnixMilli(order.CreatedAtMs).In(r.loc)
	pdf.CellFormat(70, 5, createdAt.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")

	if order.OrderType != nil {
		pdf.CellFormat(70, 5, orderTypeLabel(*order.OrderType), "", 1, "C", false, 0, "")
	}
	if order.Table != nil && *order.Table != "" {
		pdf.CellFormat(70, 5, "Table: "+*order.Table, "", 1, "C", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Arial", "", 9)
	for _, line := range order.Lines {
		name := line.Name
		if line.Variant != "" {
			name = name + " (" + line.Variant + ")"
		}
		pdf.CellFormat(44, 5, fmt.Sprintf("%dx %s", line.Quantity, name), "", 0, "L", false, 0, "")
		pdf.CellFormat(26, 5, money(app, line.Total()), "", 1, "R", false, 0, "")
	}

	pdf.Ln(1)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(44, 6, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(26, 6, money(app, order.TotalAmount), "T", 1, "R", false, 0, "")

	if order.Notes != nil && *order.Notes != "" {
		pdf.Ln(1)
		pdf.SetFont("Arial", "I", 8)
		pdf.MultiCell(70, 4, *order.Notes, "", "L", false)
	}

	pdf.Ln(3)
	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 25, pdf.GetY(), 30, 30, false, imageOpts, 0, "")
	pdf.SetY(pdf.GetY() + 32)

	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(70, 4, order.ShortID, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt pdf: %w", err)
	}

	return buf.Bytes(), nil
}

// Filename returns the download filename for an order receipt.
func Filename(order *orders.Order) string {
	return fmt.Sprintf("receipt-%s.pdf", order.ShortID)
}

func money(app settings.AppSettings, m types.Money) string {
	return app.CurrencySymbol + m.StringFixed(2)
}

func orderTypeLabel(t orders.OrderType) string {
	switch t {
	case orders.TypeEatIn:
		return "Eat In"
	case orders.TypeToGo:
		return "To Go"
	default:
		return string(t)
	}
}
