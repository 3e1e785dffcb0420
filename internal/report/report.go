// Package report renders a budget summary as a downloadable PDF.
package report

import (
	"fmt"
	"io"
	"strings"

	"budgetbuddy/internal/core"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
)

const (
	Filename    = "budget_report.pdf"
	ContentType = "application/pdf"
	Title       = "BudgetBuddy Monthly Report"
)

type column struct {
	header string
	width  float64
}

var columns = []column{
	{"Date", 30},
	{"Category", 40},
	{"Type", 20},
	{"Amount", 30},
	{"Note", 70},
}

// Render writes view as an A4 PDF: a title, the income, expense and balance
// totals, then one table row per transaction in the order given.
func Render(w io.Writer, view core.SummaryView) error {
	return render(w, view, true)
}

func render(w io.Writer, view core.SummaryView, compress bool) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetTitle(Title, false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, Title, "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(190, 10, "Total Income: "+totalf(view.TotalIncome.InexactFloat64()), "", 1, "", false, 0, "")
	pdf.CellFormat(190, 10, "Total Expense: "+totalf(view.TotalExpense.InexactFloat64()), "", 1, "", false, 0, "")
	pdf.CellFormat(190, 10, "Balance: "+totalf(view.Balance.InexactFloat64()), "", 1, "", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(190, 10, "Transactions", "", 1, "", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, c := range columns {
		pdf.CellFormat(c.width, 10, c.header, "1", 0, "", false, 0, "")
	}
	pdf.Ln(-1)

	for _, t := range view.Transactions {
		cells := []string{t.Date, t.Category, t.Type.String(), core.FormatAmount(t.Amount), t.Note}
		for i, c := range columns {
			pdf.CellFormat(c.width, 10, Latin1(cells[i]), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func totalf(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// Latin1 re-encodes s to ISO-8859-1 bytes, the encoding of the core PDF
// fonts. Runes outside Latin-1 become '?'.
func Latin1(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if c, ok := charmap.ISO8859_1.EncodeRune(r); ok {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('?')
	}
	return b.String()
}
