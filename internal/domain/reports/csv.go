package reports

import (
	"fmt"
	"io"
	"strings"

	"tavolo/internal/core/businessday"
	"tavolo/internal/core/types"
)

// csvHeader is the fixed item-row header.
const csvHeader = "Name,Quantity,Unit Price,Total"

// WriteCSV renders an aggregation result in the export format:
//
//	Name,Quantity,Unit Price,Total
//	"Cola",3,2.5,7.50
//
//	"Orders","3"
//	"Grand Total","23.50"
//
// Item names are double-quoted with inner quotes doubled, the unit
// price prints with minimal digits, totals always carry two decimals.
// A blank line separates item rows from the summary trailer.
func WriteCSV(w io.Writer, result *Result) error {
	lines := make([]string, 0, len(result.Rows)+4)
	lines = append(lines, csvHeader)
	for _, r := range result.Rows {
		lines = append(lines, fmt.Sprintf("%s,%d,%s,%s",
			quote(r.Name),
			r.Quantity,
			types.FormatBare(r.UnitPrice),
			r.Total.StringFixed(2),
		))
	}
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("%s,%s", quote("Orders"), quote(fmt.Sprintf("%d", result.OrderCount))))
	lines = append(lines, fmt.Sprintf("%s,%s", quote("Grand Total"), quote(result.GrandTotal.StringFixed(2))))

	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

// Filename returns the canonical export filename for a date range.
func Filename(start, end businessday.Date) string {
	return fmt.Sprintf("report_%s_to_%s.csv", start, end)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
