package layout

import "github.com/mattn/go-runewidth"

// Page geometry, in millimetres on an A4 page unless the caller passes
// another page size.
const (
	DefaultPageWidth  = 210.0
	DefaultPageHeight = 297.0

	LeftMargin   = 20.0
	RightMargin  = 30.0
	TitleY       = 20.0
	BodyTop      = 30.0 // first body line on page 1, below the title
	TopMargin    = 20.0 // first body line on continuation pages
	BottomMargin = 20.0

	HeaderHeight = 10.0
	LineHeight   = 6.0
	ParagraphGap = 4.0
	SectionGap   = 10.0

	TitleFontSize  = 16.0
	HeaderFontSize = 12.0
	BodyFontSize   = 12.0
)

// ptToMM converts a font size in points to millimetres.
const ptToMM = 0.3528

// averageGlyphEm is the width of one terminal cell relative to the font size.
const averageGlyphEm = 0.5

// Metrics holds the spacing used by a Paginator.
type Metrics struct {
	LeftMargin   float64
	RightMargin  float64
	TitleY       float64
	BodyTop      float64
	TopMargin    float64
	BottomMargin float64
	HeaderHeight float64
	LineHeight   float64
	ParagraphGap float64
	SectionGap   float64

	TitleFontSize  float64
	HeaderFontSize float64
	BodyFontSize   float64
}

// DefaultMetrics returns the standard report spacing.
func DefaultMetrics() Metrics {
	return Metrics{
		LeftMargin:     LeftMargin,
		RightMargin:    RightMargin,
		TitleY:         TitleY,
		BodyTop:        BodyTop,
		TopMargin:      TopMargin,
		BottomMargin:   BottomMargin,
		HeaderHeight:   HeaderHeight,
		LineHeight:     LineHeight,
		ParagraphGap:   ParagraphGap,
		SectionGap:     SectionGap,
		TitleFontSize:  TitleFontSize,
		HeaderFontSize: HeaderFontSize,
		BodyFontSize:   BodyFontSize,
	}
}

// minHeight is the smallest page that fits a header and one body line.
func (m Metrics) minHeight() float64 {
	return m.BodyTop + m.HeaderHeight + m.LineHeight + m.BottomMargin
}

// minWidth is the smallest page that leaves some room between the margins.
func (m Metrics) minWidth() float64 {
	return m.LeftMargin + m.RightMargin + m.BodyFontSize*ptToMM
}

// Measurer returns the rendered width of text in page units.
type Measurer func(text string, fontSize float64, bold bool) float64

// EstimateWidth approximates text width from terminal cell widths, so wide
// East Asian glyphs count double.
func EstimateWidth(text string, fontSize float64, bold bool) float64 {
	w := float64(runewidth.StringWidth(text)) * fontSize * ptToMM * averageGlyphEm
	if bold {
		w *= 1.05
	}
	return w
}
