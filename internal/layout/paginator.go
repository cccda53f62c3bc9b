// Package layout turns report records into positioned draw instructions on
// fixed-size pages. It performs no I/O; render backends consume the result.
package layout

import (
	"math"
	"strings"

	"lifelens/internal/model"
	"lifelens/internal/schemas"
)

const (
	PremiumTitle = "LifeLens Premium Report"
	FreeTitle    = "LifeLens Report"

	MissingSectionsNotice = "Unable to display premium report: missing sections data."
	PremiumTeaser         = "Unlock a detailed 1,000+ word premium report for deeper insights!"
)

// Kind identifies what a draw instruction places on the page.
type Kind string

const (
	KindTitle  Kind = "title"
	KindHeader Kind = "header"
	KindLine   Kind = "line"
	KindBlock  Kind = "block"
	KindNotice Kind = "notice"
)

// Align is the horizontal anchoring of an instruction.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
)

// BlockLine is one wrapped line of a block or notice, positioned on its page.
type BlockLine struct {
	Y    float64 `json:"y"`
	Text string  `json:"text"`
}

// DrawInstruction places one piece of text. Y is the baseline. Block and
// notice instructions carry their wrapped Lines; Clipped is set when the
// text did not fit above the bottom bound and the remaining lines were
// dropped.
type DrawInstruction struct {
	Page     int              `json:"page"`
	Kind     Kind             `json:"kind"`
	X        float64          `json:"x"`
	Y        float64          `json:"y"`
	Width    float64          `json:"width,omitempty"`
	Text     string           `json:"text"`
	FontSize float64          `json:"fontSize"`
	Bold     bool             `json:"bold,omitempty"`
	Align    Align            `json:"align"`
	Section  model.SectionKey `json:"section,omitempty"`
	Lines    []BlockLine      `json:"lines,omitempty"`
	Clipped  bool             `json:"clipped,omitempty"`
}

// Bounds describes the page area instructions were laid out in.
type Bounds struct {
	PageWidth    float64 `json:"pageWidth"`
	PageHeight   float64 `json:"pageHeight"`
	Left         float64 `json:"left"`
	ContentWidth float64 `json:"contentWidth"`
	Top          float64 `json:"top"`
	Bottom       float64 `json:"bottom"`
}

// Document is a finished layout.
type Document struct {
	ReportID     string            `json:"reportId"`
	Title        string            `json:"title"`
	Bounds       Bounds            `json:"bounds"`
	PageCount    int               `json:"pageCount"`
	Instructions []DrawInstruction `json:"instructions"`
}

// Headers returns the header instructions in emission order.
func (d Document) Headers() []DrawInstruction {
	var out []DrawInstruction
	for _, ins := range d.Instructions {
		if ins.Kind == KindHeader {
			out = append(out, ins)
		}
	}
	return out
}

// SectionText joins the body lines laid out for a section with single spaces.
func (d Document) SectionText(key model.SectionKey) string {
	var parts []string
	for _, ins := range d.Instructions {
		if ins.Kind == KindLine && ins.Section == key {
			parts = append(parts, ins.Text)
		}
	}
	return strings.Join(parts, " ")
}

// Option configures a Paginator.
type Option func(*Paginator)

// WithMetrics replaces the default spacing.
func WithMetrics(m Metrics) Option {
	return func(p *Paginator) { p.metrics = m }
}

// WithMeasurer replaces the width estimate, typically with a backend's real
// font metrics.
func WithMeasurer(m Measurer) Option {
	return func(p *Paginator) {
		if m != nil {
			p.measure = m
		}
	}
}

// Paginator lays out reports. It holds no per-run state and is safe for
// concurrent use.
type Paginator struct {
	metrics Metrics
	measure Measurer
}

// New returns a Paginator with default metrics and the runewidth estimate.
func New(opts ...Option) *Paginator {
	p := &Paginator{metrics: DefaultMetrics(), measure: EstimateWidth}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Paginate lays out report with a default Paginator.
func Paginate(report model.ReportRecord, pageHeight, pageWidth float64) Document {
	return New().Paginate(report, pageHeight, pageWidth)
}

// pageState is the cursor of a single layout run.
type pageState struct {
	page int
	y    float64
}

// Paginate lays report onto pages of the given size. Sizes too small to hold
// a header and a line, or not finite, fall back to A4.
func (p *Paginator) Paginate(report model.ReportRecord, pageHeight, pageWidth float64) Document {
	m := p.metrics
	if !usablePage(pageHeight, m.minHeight()) || !usablePage(pageWidth, m.minWidth()) {
		pageHeight, pageWidth = DefaultPageHeight, DefaultPageWidth
	}

	bounds := Bounds{
		PageWidth:    pageWidth,
		PageHeight:   pageHeight,
		Left:         m.LeftMargin,
		ContentWidth: pageWidth - m.LeftMargin - m.RightMargin,
		Top:          m.TopMargin,
		Bottom:       pageHeight - m.BottomMargin,
	}

	doc := Document{
		ReportID: report.ReportID,
		Title:    FreeTitle,
		Bounds:   bounds,
	}
	if report.IsPremium {
		doc.Title = PremiumTitle
	}

	titleWidth := p.measure(doc.Title, m.TitleFontSize, true)
	doc.Instructions = append(doc.Instructions, DrawInstruction{
		Page:     1,
		Kind:     KindTitle,
		X:        (pageWidth - titleWidth) / 2,
		Y:        m.TitleY,
		Text:     doc.Title,
		FontSize: m.TitleFontSize,
		Bold:     true,
		Align:    AlignCenter,
	})
	doc.PageCount = 1

	var sections *model.SectionDocument
	if report.IsPremium {
		sections = schemas.Resolve(report.Sections)
	}
	if sections == nil || sections.IsEmpty() {
		doc.Instructions = append(doc.Instructions, p.singleBlock(report, bounds))
		return doc
	}

	state := &pageState{page: 1, y: m.BodyTop}

	for _, key := range model.SectionOrder {
		text := strings.TrimSpace(sections.Get(key))
		if text == "" {
			continue
		}

		// Keep a header together with at least its first line.
		if state.y+m.HeaderHeight+m.LineHeight > bounds.Bottom {
			p.newPage(state)
		}
		doc.Instructions = append(doc.Instructions, DrawInstruction{
			Page:     state.page,
			Kind:     KindHeader,
			X:        bounds.Left,
			Y:        state.y,
			Text:     key.Title(),
			FontSize: m.HeaderFontSize,
			Bold:     true,
			Align:    AlignLeft,
			Section:  key,
		})
		state.y += m.HeaderHeight

		for _, paragraph := range SplitParagraphs(text) {
			for _, line := range WrapText(paragraph, bounds.ContentWidth, m.BodyFontSize, p.measure) {
				if state.y > bounds.Bottom {
					p.newPage(state)
				}
				doc.Instructions = append(doc.Instructions, DrawInstruction{
					Page:     state.page,
					Kind:     KindLine,
					X:        bounds.Left,
					Y:        state.y,
					Text:     line,
					FontSize: m.BodyFontSize,
					Align:    AlignLeft,
					Section:  key,
				})
				state.y += m.LineHeight
			}
			state.y += m.ParagraphGap
		}
		state.y += m.SectionGap
	}

	doc.PageCount = state.page
	return doc
}

// usablePage reports whether size is finite and no smaller than least.
// NaN compares false against everything, so it fails the first check.
func usablePage(size, least float64) bool {
	return size >= least && !math.IsInf(size, 1)
}

func (p *Paginator) newPage(state *pageState) {
	state.page++
	state.y = p.metrics.TopMargin
}

// singleBlock renders a free report, or the notice for a premium record
// without usable sections. It stays on page 1: lines that would pass the
// bottom bound are dropped and the instruction is marked Clipped.
func (p *Paginator) singleBlock(report model.ReportRecord, bounds Bounds) DrawInstruction {
	m := p.metrics
	ins := DrawInstruction{
		Page:     1,
		Kind:     KindBlock,
		X:        bounds.Left,
		Y:        m.BodyTop,
		Width:    bounds.ContentWidth,
		Text:     strings.TrimSpace(report.Content),
		FontSize: m.BodyFontSize,
		Align:    AlignLeft,
	}
	switch {
	case report.IsPremium:
		ins.Kind = KindNotice
		ins.Text = MissingSectionsNotice
	case ins.Text == "":
		ins.Kind = KindNotice
		ins.Text = PremiumTeaser
	}

	y := ins.Y
	for _, paragraph := range SplitParagraphs(ins.Text) {
		for _, line := range WrapText(paragraph, bounds.ContentWidth, m.BodyFontSize, p.measure) {
			if y > bounds.Bottom {
				ins.Clipped = true
				return ins
			}
			ins.Lines = append(ins.Lines, BlockLine{Y: y, Text: line})
			y += m.LineHeight
		}
		y += m.ParagraphGap
	}
	return ins
}
