package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"gopkg.in/yaml.v3"

	"github.com/fastygo/tasktimer/domain"
	"github.com/fastygo/tasktimer/pkg/stopwatch"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts json, yaml/yml and pdf; empty means json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("unsupported report format %q", s))
}

func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/json"
	}
}

// Encode writes r to w in the requested format.
func Encode(w io.Writer, r *Report, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatPDF:
		return writePDF(w, r)
	}
	return fmt.Errorf("unknown format %q", f)
}

func writePDF(w io.Writer, r *Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Daily time report", false)
	pdf.SetAuthor("tasktimer", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Daily time report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s (%s)", r.GeneratedAt.Format("02/01/2006 15:04"), r.Timezone), "", 1, "C", false, 0, "")
	hr(pdf)

	sectionTitle(pdf, "Per day")
	for _, d := range r.Days {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(120, 7, d.Date.Format("Mon 02/01/2006"), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, duration(d.ElapsedMs), "", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, e := range d.Entries {
			name := e.Name
			if e.Open {
				name += " (open)"
			}
			pdf.CellFormat(10, 6, "", "", 0, "L", false, 0, "")
			pdf.CellFormat(100, 6, tr(name), "", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, duration(e.ElapsedMs), "", 0, "R", false, 0, "")
			pdf.CellFormat(0, 6, fmt.Sprintf("%.0f%%", e.Ratio*100), "", 1, "R", false, 0, "")
		}
	}
	hr(pdf)

	sectionTitle(pdf, "Per task")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 7, "Task", "B", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Status", "B", 0, "L", false, 0, "")
	pdf.CellFormat(20, 7, "Days", "B", 0, "R", false, 0, "")
	pdf.CellFormat(0, 7, "Lifetime", "B", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, t := range r.Tasks {
		pdf.CellFormat(90, 6, tr(t.Name), "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, string(t.Status), "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", t.Days), "", 0, "R", false, 0, "")
		pdf.CellFormat(0, 6, duration(t.LifetimeMs), "", 1, "R", false, 0, "")
	}
	hr(pdf)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(140, 7, "Total", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, duration(r.TotalMs), "", 1, "R", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, s, "", 1, "L", false, 0, "")
}

func hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

// duration renders ms as HH:MM:SS with full hours, unlike the wrapping clock.
func duration(ms int64) string {
	if ms < 0 {
		return "-" + duration(-ms)
	}
	if ms < 24*hourMillis {
		return stopwatch.FormatClock(ms)
	}
	total := ms / 1000
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
