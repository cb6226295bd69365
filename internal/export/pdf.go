// Package export renders list pages into downloadable documents.
package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"kiosk-admin-console/internal/table"
)

// Options controls PDF output.
type Options struct {
	Title string
	// FontPath is a UTF-8 TrueType font. Without one the core Arial font
	// is used and text is folded to ASCII.
	FontPath  string
	Generated time.Time
}

const (
	pageWidth  = 297.0
	margin     = 10.0
	rowHeight  = 7.0
	fontFamily = "Arial"
	utf8Family = "console"
	minColumn  = 18.0
)

// PDF writes sheet as a landscape A4 table.
func PDF(w io.Writer, sheet table.Sheet, opts Options) error {
	fontDir, fontFile := "", ""
	if opts.FontPath != "" {
		fontDir, fontFile = filepath.Split(opts.FontPath)
	}
	pdf := gofpdf.New("L", "mm", "A4", fontDir)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)

	family, text := fontFamily, Fold
	if opts.FontPath != "" {
		pdf.AddUTF8Font(utf8Family, "", fontFile)
		pdf.AddUTF8Font(utf8Family, "B", fontFile)
		family, text = utf8Family, func(s string) string { return s }
	}

	widths := columnWidths(sheet, pageWidth-2*margin)
	header := func() {
		pdf.SetFont(family, "B", 9)
		pdf.SetFillColor(235, 235, 235)
		for i, h := range sheet.Headers {
			pdf.CellFormat(widths[i], rowHeight, text(h), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont(family, "", 8)
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})

	pdf.AddPage()
	pdf.SetFont(family, "B", 14)
	pdf.CellFormat(0, 10, text(opts.Title), "", 1, "L", false, 0, "")
	if !opts.Generated.IsZero() {
		pdf.SetFont(family, "", 8)
		pdf.CellFormat(0, 5, text("Xuất lúc "+opts.Generated.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	header()

	if len(sheet.Rows) == 0 {
		pdf.CellFormat(pageWidth-2*margin, rowHeight, text(table.EmptyMessage), "1", 1, "C", false, 0, "")
	}
	for _, row := range sheet.Rows {
		for i := range sheet.Headers {
			cell := ""
			if i < len(row) {
				cell = text(row[i])
			}
			pdf.CellFormat(widths[i], rowHeight, clip(pdf, cell, widths[i]-2), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

// columnWidths splits total across columns in proportion to their longest
// text, with a lower bound per column.
func columnWidths(sheet table.Sheet, total float64) []float64 {
	n := len(sheet.Headers)
	if n == 0 {
		return nil
	}
	weights := make([]float64, n)
	sum := 0.0
	for i, h := range sheet.Headers {
		longest := len([]rune(h))
		for _, row := range sheet.Rows {
			if i < len(row) && len([]rune(row[i])) > longest {
				longest = len([]rune(row[i]))
			}
		}
		if longest > 40 {
			longest = 40
		}
		weights[i] = float64(longest) + 4
		sum += weights[i]
	}
	widths := make([]float64, n)
	for i, wt := range weights {
		widths[i] = total * wt / sum
		if widths[i] < minColumn && total/float64(n) >= minColumn {
			widths[i] = minColumn
		}
	}
	// Rescale after applying the lower bound.
	scaled := 0.0
	for _, wd := range widths {
		scaled += wd
	}
	for i := range widths {
		widths[i] *= total / scaled
	}
	return widths
}

func clip(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

var folder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold strips diacritics so text fits the core PDF fonts.
func Fold(s string) string {
	s = strings.NewReplacer("Đ", "D", "đ", "d").Replace(s)
	out, _, err := transform.String(folder, s)
	if err != nil {
		return s
	}
	return out
}
