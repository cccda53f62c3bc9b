package service_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lifelens/internal/config"
	"lifelens/internal/layout"
	"lifelens/internal/mocks"
	"lifelens/internal/model"
	"lifelens/internal/service"
)

const avaSections = `{"introduction":"I1","lifePath":"L1","strengths":"S1","actionPlan":"A1","challenges":"C1","aspirationalVision":"V1","conclusion":"CN1"}`

func avaInput() model.UserInput {
	return model.UserInput{
		Name:             "Ava",
		AgeRange:         "25-34",
		BiggestGoal:      "Career Success",
		PersonalityWord:  "curious",
		CurrentMood:      "Hopeful",
		Challenge:        "",
		AreaOfFocus:      []string{"Career"},
		RiskComfortLevel: "Medium",
		DreamDestination: "Japan",
		FateVsPath:       "A Mix",
	}
}

// funcGenerator adapts a function to service.TextGenerator.
type funcGenerator struct {
	calls atomic.Int32
	fn    func(ctx context.Context, prompt string, params service.GenerationParams) (string, service.UsageInfo, error)
}

func (f *funcGenerator) Complete(ctx context.Context, prompt string, params service.GenerationParams) (string, service.UsageInfo, error) {
	f.calls.Add(1)
	return f.fn(ctx, prompt, params)
}

func newGenerator(client service.TextGenerator, opts ...service.GeneratorOption) *service.ReportGenerator {
	cfg := service.GeneratorConfig{
		Provider:       config.ProviderOpenAI,
		Model:          "test-model",
		Timeout:        time.Second,
		MaxAttempts:    2,
		BaseRetryDelay: time.Millisecond,
	}
	opts = append([]service.GeneratorOption{service.WithIDGenerator(func() string { return "report-1" })}, opts...)
	return service.NewReportGenerator(client, nil, cfg, zap.NewNop(), opts...)
}

func assertUniformSections(t *testing.T, doc *model.SectionDocument) {
	t.Helper()
	require.NotNil(t, doc)
	first := doc.Get(model.SectionIntroduction)
	assert.NotEmpty(t, strings.TrimSpace(first))
	for _, key := range model.SectionOrder {
		assert.Equal(t, first, doc.Get(key), "section %s", key)
	}
}

func TestReportGenerator_PremiumRoundTrip(t *testing.T) {
	client := mocks.NewMockTextGenerator(t)
	client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return(avaSections, service.UsageInfo{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30}, nil).Once()

	report := newGenerator(client).Generate(context.Background(), avaInput(), true)

	require.True(t, report.IsPremium)
	require.NotNil(t, report.Sections)
	assert.Equal(t, model.SectionDocument{
		Introduction:       "I1",
		LifePath:           "L1",
		Strengths:          "S1",
		ActionPlan:         "A1",
		Challenges:         "C1",
		AspirationalVision: "V1",
		Conclusion:         "CN1",
	}, *report.Sections)
	assert.Equal(t, "report-1", report.ReportID)
	assert.Empty(t, report.Content)

	doc := layout.Paginate(report, layout.DefaultPageHeight, layout.DefaultPageWidth)
	headers := doc.Headers()
	require.Len(t, headers, 7)
	bodies := []string{"I1", "L1", "S1", "A1", "C1", "V1", "CN1"}
	for i, key := range model.SectionOrder {
		assert.Equal(t, key, headers[i].Section)
		assert.Equal(t, key.Title(), headers[i].Text)
		assert.Equal(t, bodies[i], doc.SectionText(key))
	}
}

func TestReportGenerator_ClientErrorUsesFallback(t *testing.T) {
	client := mocks.NewMockTextGenerator(t)
	client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("", service.UsageInfo{}, errors.New("provider down")).Times(2)

	gen := newGenerator(client)

	premium := gen.Generate(context.Background(), avaInput(), true)
	assertUniformSections(t, premium.Sections)
	assert.Equal(t, service.FallbackContent(avaInput(), true), premium.Sections.Introduction)

	client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("", service.UsageInfo{}, errors.New("provider down")).Times(2)
	free := gen.Generate(context.Background(), avaInput(), false)
	assert.False(t, free.IsPremium)
	assert.Nil(t, free.Sections)
	assert.Equal(t, service.FallbackContent(avaInput(), false), free.Content)
}

func TestReportGenerator_NilClientUsesFallback(t *testing.T) {
	recorder := mocks.NewMockResultRecorder(t)
	var got *model.GenerationResult
	recorder.On("Save", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(*model.GenerationResult) }).
		Return(nil).Once()

	report := newGenerator(nil, service.WithResultRecorder(recorder)).Generate(context.Background(), avaInput(), true)

	assertUniformSections(t, report.Sections)
	require.NotNil(t, got)
	assert.Equal(t, model.SourceFallback, got.Source)
	assert.Equal(t, "no_provider", got.FailureReason)
	assert.Equal(t, 0, got.Attempts)
	assert.Equal(t, "report-1", got.ReportID)
}

func TestReportGenerator_FreeContent(t *testing.T) {
	client := mocks.NewMockTextGenerator(t)
	client.On("Complete", mock.Anything, mock.Anything, mock.MatchedBy(func(p service.GenerationParams) bool { return !p.JSON })).
		Return("  Ava, your path is bright.  \n", service.UsageInfo{}, nil).Once()

	report := newGenerator(client).Generate(context.Background(), avaInput(), false)

	assert.False(t, report.IsPremium)
	assert.Equal(t, "Ava, your path is bright.", report.Content)
	assert.Nil(t, report.Sections)
}

func TestReportGenerator_PremiumRequestsJSON(t *testing.T) {
	client := mocks.NewMockTextGenerator(t)
	client.On("Complete", mock.Anything,
		mock.MatchedBy(func(prompt string) bool { return strings.Contains(prompt, `"aspirationalVision"`) }),
		mock.MatchedBy(func(p service.GenerationParams) bool { return p.JSON }),
	).Return(avaSections, service.UsageInfo{}, nil).Once()

	report := newGenerator(client).Generate(context.Background(), avaInput(), true)

	require.NotNil(t, report.Sections)
	assert.Equal(t, "CN1", report.Sections.Conclusion)
}

func TestReportGenerator_SubsetFilledWithRawText(t *testing.T) {
	raw := `{"introduction":"Hello","conclusion":"Bye"}`
	client := mocks.NewMockTextGenerator(t)
	client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("\n"+raw+"\n", service.UsageInfo{}, nil).Once()

	report := newGenerator(client).Generate(context.Background(), avaInput(), true)

	require.NotNil(t, report.Sections)
	assert.Equal(t, "Hello", report.Sections.Introduction)
	assert.Equal(t, "Bye", report.Sections.Conclusion)
	for _, key := range []model.SectionKey{model.SectionLifePath, model.SectionStrengths, model.SectionActionPlan, model.SectionChallenges, model.SectionAspirationalVision} {
		assert.Equal(t, raw, report.Sections.Get(key), "section %s", key)
	}
}

func TestReportGenerator_PartialResponseKeepsAllSectionsThroughLayout(t *testing.T) {
	responses := map[string]string{
		"json subset":     `{"introduction":"I1","lifePath":"L1"}`,
		"prose then json": `Here is your report: {"introduction":"I1","lifePath":"L1"}`,
	}
	for name, raw := range responses {
		t.Run(name, func(t *testing.T) {
			client := mocks.NewMockTextGenerator(t)
			client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
				Return(raw, service.UsageInfo{}, nil).Once()

			report := newGenerator(client).Generate(context.Background(), avaInput(), true)

			require.NotNil(t, report.Sections)
			assert.True(t, report.Sections.Complete())
			assert.Equal(t, "I1", report.Sections.Introduction)
			assert.Equal(t, "L1", report.Sections.LifePath)

			doc := layout.Paginate(report, layout.DefaultPageHeight, layout.DefaultPageWidth)
			assert.Len(t, doc.Headers(), len(model.SectionOrder))
			assert.Equal(t, "I1", doc.SectionText(model.SectionIntroduction))

			view := service.NewReportView(report)
			require.NotNil(t, view.Sections)
			assert.Equal(t, *report.Sections, *view.Sections)
			assert.Empty(t, view.Notice)
		})
	}
}

func TestReportGenerator_UnstructuredPremiumText(t *testing.T) {
	client := mocks.NewMockTextGenerator(t)
	client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("Just some prose about Ava.", service.UsageInfo{}, nil).Once()

	report := newGenerator(client).Generate(context.Background(), avaInput(), true)

	assertUniformSections(t, report.Sections)
	assert.Equal(t, "Just some prose about Ava.", report.Sections.Introduction)
}

func TestReportGenerator_NestedPayloadUnwrapped(t *testing.T) {
	raw := `{"introduction":"{\"introduction\":\"Deep\",\"lifePath\":\"Path\"}"}`
	client := mocks.NewMockTextGenerator(t)
	client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return(raw, service.UsageInfo{}, nil).Once()

	report := newGenerator(client).Generate(context.Background(), avaInput(), true)

	require.NotNil(t, report.Sections)
	assert.Equal(t, "Deep", report.Sections.Introduction)
	assert.Equal(t, "Path", report.Sections.LifePath)
	for _, key := range model.SectionOrder {
		assert.NotEmpty(t, report.Sections.Get(key))
	}
}

func TestReportGenerator_RetriesThenSucceeds(t *testing.T) {
	client := mocks.NewMockTextGenerator(t)
	client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("", service.UsageInfo{}, errors.New("transient")).Once()
	client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("Second time lucky.", service.UsageInfo{}, nil).Once()

	recorder := mocks.NewMockResultRecorder(t)
	var got *model.GenerationResult
	recorder.On("Save", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(*model.GenerationResult) }).
		Return(nil).Once()

	report := newGenerator(client, service.WithResultRecorder(recorder)).Generate(context.Background(), avaInput(), false)

	assert.Equal(t, "Second time lucky.", report.Content)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Attempts)
	assert.Equal(t, model.SourceAIText, got.Source)
	assert.Empty(t, got.FailureReason)
}

func TestReportGenerator_EmptyResponseIsFailure(t *testing.T) {
	client := &funcGenerator{fn: func(context.Context, string, service.GenerationParams) (string, service.UsageInfo, error) {
		return " \n\t", service.UsageInfo{}, nil
	}}
	recorder := mocks.NewMockResultRecorder(t)
	var got *model.GenerationResult
	recorder.On("Save", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(*model.GenerationResult) }).
		Return(nil).Once()

	report := newGenerator(client, service.WithResultRecorder(recorder)).Generate(context.Background(), avaInput(), false)

	assert.Equal(t, service.FallbackContent(avaInput(), false), report.Content)
	assert.EqualValues(t, 2, client.calls.Load())
	require.NotNil(t, got)
	assert.Equal(t, "empty_response", got.FailureReason)
}

func TestReportGenerator_AttemptTimeout(t *testing.T) {
	client := &funcGenerator{fn: func(ctx context.Context, _ string, _ service.GenerationParams) (string, service.UsageInfo, error) {
		<-ctx.Done()
		return "", service.UsageInfo{}, ctx.Err()
	}}
	recorder := mocks.NewMockResultRecorder(t)
	var got *model.GenerationResult
	recorder.On("Save", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(*model.GenerationResult) }).
		Return(nil).Once()

	cfg := service.GeneratorConfig{Provider: "stub", Timeout: 20 * time.Millisecond, MaxAttempts: 1}
	gen := service.NewReportGenerator(client, nil, cfg, zap.NewNop(), service.WithResultRecorder(recorder))

	start := time.Now()
	report := gen.Generate(context.Background(), avaInput(), true)

	assert.Less(t, time.Since(start), 2*time.Second)
	assertUniformSections(t, report.Sections)
	require.NotNil(t, got)
	assert.Equal(t, "timeout", got.FailureReason)
	assert.Equal(t, 1, got.Attempts)
}

func TestReportGenerator_CanceledContextStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &funcGenerator{fn: func(context.Context, string, service.GenerationParams) (string, service.UsageInfo, error) {
		cancel()
		return "", service.UsageInfo{}, context.Canceled
	}}
	cfg := service.GeneratorConfig{Timeout: time.Second, MaxAttempts: 5, BaseRetryDelay: time.Second}
	gen := service.NewReportGenerator(client, nil, cfg, zap.NewNop())

	report := gen.Generate(ctx, avaInput(), false)

	assert.Equal(t, service.FallbackContent(avaInput(), false), report.Content)
	assert.EqualValues(t, 1, client.calls.Load())
}

func TestReportGenerator_RecorderErrorIgnored(t *testing.T) {
	client := mocks.NewMockTextGenerator(t)
	client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("Fine.", service.UsageInfo{}, nil).Once()
	recorder := mocks.NewMockResultRecorder(t)
	recorder.On("Save", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	report := newGenerator(client, service.WithResultRecorder(recorder)).Generate(context.Background(), avaInput(), false)

	assert.Equal(t, "Fine.", report.Content)
}

func TestReportGenerator_GenerateWithIDKeepsID(t *testing.T) {
	report := newGenerator(nil).GenerateWithID(context.Background(), "kept-id", avaInput(), true)

	assert.Equal(t, "kept-id", report.ReportID)
	assert.True(t, report.IsPremium)
}

func TestReportGenerator_NeverEmpty(t *testing.T) {
	outputs := []string{"", "{}", "[]", `{"unknown":"x"}`, "null", "```json\n{}\n```"}
	for _, out := range outputs {
		for _, premium := range []bool{false, true} {
			out, premium := out, premium
			client := &funcGenerator{fn: func(context.Context, string, service.GenerationParams) (string, service.UsageInfo, error) {
				return out, service.UsageInfo{}, nil
			}}
			report := newGenerator(client).Generate(context.Background(), model.UserInput{}, premium)
			if premium {
				require.NotNil(t, report.Sections, "output %q", out)
				for _, key := range model.SectionOrder {
					assert.NotEmpty(t, strings.TrimSpace(report.Sections.Get(key)), "output %q section %s", out, key)
				}
			} else {
				assert.NotEmpty(t, strings.TrimSpace(report.Content), "output %q", out)
			}
		}
	}
}

func TestNewReportGeneratorFromConfig(t *testing.T) {
	cfg := &config.Config{
		AIProvider:    config.ProviderNone,
		AITimeout:     time.Second,
		AIMaxAttempts: 1,
		PromptStyle:   config.PromptStyleProse,
	}

	gen, err := service.NewReportGeneratorFromConfig(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	report := gen.Generate(context.Background(), avaInput(), true)
	assertUniformSections(t, report.Sections)

	cfg.PromptStyle = "xml"
	_, err = service.NewReportGeneratorFromConfig(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
