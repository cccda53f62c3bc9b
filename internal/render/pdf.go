package render

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"lifelens/internal/layout"
	"lifelens/internal/model"
)

const fontFamily = "Helvetica"

// FileName returns the download name for a rendered report.
func FileName(report model.ReportRecord) string {
	if report.IsPremium {
		return fmt.Sprintf("LifeLens_Premium_Report_%s.pdf", report.ReportID)
	}
	return fmt.Sprintf("LifeLens_Report_%s.pdf", report.ReportID)
}

// PDFRenderer lays out reports with core-font metrics and writes them as PDF.
type PDFRenderer struct {
	pageWidth  float64
	pageHeight float64
}

// NewPDFRenderer returns a renderer for pages of the given size in millimetres.
func NewPDFRenderer(pageWidth, pageHeight float64) *PDFRenderer {
	return &PDFRenderer{pageWidth: pageWidth, pageHeight: pageHeight}
}

// Measurer returns a width function backed by Helvetica metrics. The result
// is not safe for concurrent use.
func (r *PDFRenderer) Measurer() layout.Measurer {
	metrics := fpdf.New("P", "mm", "A4", "")
	tr := metrics.UnicodeTranslatorFromDescriptor("")
	return func(text string, fontSize float64, bold bool) float64 {
		metrics.SetFont(fontFamily, style(bold), fontSize)
		return metrics.GetStringWidth(tr(text))
	}
}

// Layout paginates report with this renderer's page size and metrics.
func (r *PDFRenderer) Layout(report model.ReportRecord) layout.Document {
	p := layout.New(layout.WithMeasurer(r.Measurer()))
	return p.Paginate(report, r.pageHeight, r.pageWidth)
}

// Render lays out report and writes it to w.
func (r *PDFRenderer) Render(report model.ReportRecord, w io.Writer) (layout.Document, error) {
	doc := r.Layout(report)
	if err := Draw(doc, w); err != nil {
		return doc, err
	}
	return doc, nil
}

// Draw writes a finished layout to w as PDF.
func Draw(doc layout.Document, w io.Writer) error {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: doc.Bounds.PageWidth, Ht: doc.Bounds.PageHeight},
	})
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("LifeLens", true)
	pdf.SetMargins(doc.Bounds.Left, doc.Bounds.Top, doc.Bounds.PageWidth-doc.Bounds.Left-doc.Bounds.ContentWidth)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	for _, ins := range doc.Instructions {
		for pdf.PageNo() < ins.Page {
			pdf.AddPage()
		}
		pdf.SetFont(fontFamily, style(ins.Bold), ins.FontSize)

		switch ins.Kind {
		case layout.KindBlock, layout.KindNotice:
			// Lines are already wrapped and clipped to the page.
			for _, line := range ins.Lines {
				pdf.Text(ins.X, line.Y, tr(line.Text))
			}
		default:
			pdf.Text(ins.X, ins.Y, tr(ins.Text))
		}
	}
	for pdf.PageNo() < doc.PageCount {
		pdf.AddPage()
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf for report %s: %w", doc.ReportID, err)
	}
	return nil
}

func style(bold bool) string {
	if bold {
		return "B"
	}
	return ""
}
