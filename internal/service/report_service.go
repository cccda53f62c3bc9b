package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"lifelens/internal/layout"
	"lifelens/internal/model"
	"lifelens/internal/render"
	"lifelens/internal/schemas"
)

// ReportRepository stores report records by id with an expiry.
type ReportRepository interface {
	Save(ctx context.Context, report model.ReportRecord, ttl time.Duration) error
	Get(ctx context.Context, reportID string) (model.ReportRecord, error)
}

// Generator produces report records. ReportGenerator implements it.
type Generator interface {
	Generate(ctx context.Context, input model.UserInput, premium bool) model.ReportRecord
	GenerateWithID(ctx context.Context, reportID string, input model.UserInput, premium bool) model.ReportRecord
}

// ReportService is the report lifecycle used by the HTTP handlers.
type ReportService interface {
	CreateFreeReport(ctx context.Context, input model.UserInput) (model.ReportRecord, error)
	GetReport(ctx context.Context, reportID string) (model.ReportRecord, error)
	UpgradeToPremium(ctx context.Context, reportID string) (model.ReportRecord, error)
	RenderDocument(ctx context.Context, reportID string) (model.ReportRecord, layout.Document, error)
	RenderPDF(ctx context.Context, reportID string, w io.Writer) (string, error)
}

// ReportTTLs are the storage lifetimes per report kind.
type ReportTTLs struct {
	Free    time.Duration
	Premium time.Duration
}

type reportServiceImpl struct {
	generator Generator
	repo      ReportRepository
	renderer  *render.PDFRenderer
	ttls      ReportTTLs
	logger    *zap.Logger
}

// NewReportService wires the report lifecycle.
func NewReportService(generator Generator, repo ReportRepository, renderer *render.PDFRenderer, ttls ReportTTLs, logger *zap.Logger) ReportService {
	if renderer == nil {
		renderer = render.NewPDFRenderer(layout.DefaultPageWidth, layout.DefaultPageHeight)
	}
	return &reportServiceImpl{
		generator: generator,
		repo:      repo,
		renderer:  renderer,
		ttls:      ttls,
		logger:    logger.Named("ReportService"),
	}
}

func (s *reportServiceImpl) CreateFreeReport(ctx context.Context, input model.UserInput) (model.ReportRecord, error) {
	if err := input.Validate(); err != nil {
		return model.ReportRecord{}, err
	}
	report := s.generator.Generate(ctx, input, false)
	if err := s.store(ctx, report); err != nil {
		return model.ReportRecord{}, err
	}
	s.logger.Info("Free report created", zap.String("report_id", report.ReportID))
	return report, nil
}

func (s *reportServiceImpl) GetReport(ctx context.Context, reportID string) (model.ReportRecord, error) {
	if reportID == "" {
		return model.ReportRecord{}, fmt.Errorf("%w: report id is required", model.ErrInvalidInput)
	}
	return s.repo.Get(ctx, reportID)
}

// UpgradeToPremium regenerates a stored report as premium under the same id.
// A report that is already premium is returned as is.
func (s *reportServiceImpl) UpgradeToPremium(ctx context.Context, reportID string) (model.ReportRecord, error) {
	current, err := s.GetReport(ctx, reportID)
	if err != nil {
		return model.ReportRecord{}, err
	}
	if current.IsPremium && current.Sections != nil {
		s.logger.Info("Report already premium", zap.String("report_id", reportID))
		return current, nil
	}

	premium := s.generator.GenerateWithID(ctx, reportID, current.Input, true)
	if err := s.store(ctx, premium); err != nil {
		return model.ReportRecord{}, err
	}
	s.logger.Info("Report upgraded to premium", zap.String("report_id", reportID))
	return premium, nil
}

func (s *reportServiceImpl) RenderDocument(ctx context.Context, reportID string) (model.ReportRecord, layout.Document, error) {
	report, err := s.GetReport(ctx, reportID)
	if err != nil {
		return model.ReportRecord{}, layout.Document{}, err
	}
	return report, s.renderer.Layout(report), nil
}

// RenderPDF writes the report document to w and returns its download name.
func (s *reportServiceImpl) RenderPDF(ctx context.Context, reportID string, w io.Writer) (string, error) {
	report, err := s.GetReport(ctx, reportID)
	if err != nil {
		return "", err
	}
	if _, err := s.renderer.Render(report, w); err != nil {
		return "", err
	}
	return render.FileName(report), nil
}

func (s *reportServiceImpl) store(ctx context.Context, report model.ReportRecord) error {
	if err := report.Validate(); err != nil {
		return err
	}
	ttl := s.ttls.Free
	if report.IsPremium {
		ttl = s.ttls.Premium
	}
	if err := s.repo.Save(ctx, report, ttl); err != nil {
		return fmt.Errorf("failed to store report %s: %w", report.ReportID, err)
	}
	return nil
}

// ReportView is the report shape served to clients. Sections are already
// resolved the same way the document layout resolves them.
type ReportView struct {
	ReportID  string                 `json:"reportId"`
	Input     model.UserInput        `json:"input"`
	IsPremium bool                   `json:"isPremium"`
	Content   string                 `json:"content,omitempty"`
	Sections  *model.SectionDocument `json:"sections,omitempty"`
	Notice    string                 `json:"notice,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

// NewReportView builds the client view of report.
func NewReportView(report model.ReportRecord) ReportView {
	view := ReportView{
		ReportID:  report.ReportID,
		Input:     report.Input,
		IsPremium: report.IsPremium,
		Content:   report.Content,
		Sections:  schemas.Resolve(report.Sections),
		CreatedAt: report.CreatedAt,
	}
	switch {
	case report.IsPremium && (view.Sections == nil || view.Sections.IsEmpty()):
		view.Notice = layout.MissingSectionsNotice
	case !report.IsPremium:
		view.Notice = layout.PremiumTeaser
	}
	return view
}
