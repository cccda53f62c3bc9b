package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lifelens/internal/model"
	"lifelens/internal/render"
	"lifelens/internal/service"
)

type generateOptions struct {
	input   string
	premium bool
	out     string
	pdf     string
	offline bool
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a report from questionnaire answers",
		Long: `generate reads questionnaire answers as JSON and writes the generated report
record as JSON. Generation never fails: when the provider is unavailable the
record carries fallback content.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "questionnaire answers JSON file, - for stdin")
	cmd.Flags().BoolVar(&opts.premium, "premium", false, "generate the seven-section premium report")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write the report record here instead of stdout")
	cmd.Flags().StringVar(&opts.pdf, "pdf", "", "also render the report to this PDF file")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "skip the text provider and use fallback content")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runGenerate(cmd *cobra.Command, root *rootOptions, opts *generateOptions) error {
	cfg, err := root.loadConfig(opts.offline)
	if err != nil {
		return err
	}

	input, err := readInput(cmd.InOrStdin(), opts.input)
	if err != nil {
		return err
	}
	if err := input.Validate(); err != nil {
		return err
	}

	generator, err := service.NewReportGeneratorFromConfig(cmd.Context(), cfg, root.log)
	if err != nil {
		return err
	}
	report := generator.Generate(cmd.Context(), input, opts.premium)
	root.log.Info("Report generated", zap.String("report_id", report.ReportID), zap.Bool("premium", report.IsPremium))

	if err := writeJSON(cmd.OutOrStdout(), opts.out, report); err != nil {
		return err
	}
	if opts.pdf != "" {
		renderer := render.NewPDFRenderer(cfg.PDFPageWidth, cfg.PDFPageHeight)
		if err := writePDF(renderer, report, opts.pdf); err != nil {
			return err
		}
	}
	return nil
}

func readInput(stdin io.Reader, path string) (model.UserInput, error) {
	var input model.UserInput
	data, err := readFileOrStdin(stdin, path)
	if err != nil {
		return input, err
	}
	if err := json.Unmarshal(data, &input); err != nil {
		return input, fmt.Errorf("%w: %s is not valid questionnaire JSON: %w", model.ErrInvalidInput, path, err)
	}
	return input, nil
}

func readFileOrStdin(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// writeJSON writes v indented to path, or to stdout when path is empty.
func writeJSON(stdout io.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	data = append(data, '\n')
	if path == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writePDF(renderer *render.PDFRenderer, report model.ReportRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := renderer.Render(report, f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
