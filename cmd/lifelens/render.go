package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"lifelens/internal/model"
	"lifelens/internal/render"
)

type renderOptions struct {
	report string
	pdf    string
	layout bool
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a stored report record",
		Long: `render paginates a report record produced by generate or stored by the
server. With --pdf it writes the document, with --layout it prints the draw
instructions as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.report, "report", "r", "", "report record JSON file, - for stdin")
	cmd.Flags().StringVar(&opts.pdf, "pdf", "", "write the PDF document to this file, . for the default name")
	cmd.Flags().BoolVar(&opts.layout, "layout", false, "print the paginated draw instructions as JSON")
	cmd.MarkFlagsMutuallyExclusive("pdf", "layout")
	cmd.MarkFlagsOneRequired("pdf", "layout")
	_ = cmd.MarkFlagRequired("report")
	return cmd
}

func runRender(cmd *cobra.Command, root *rootOptions, opts *renderOptions) error {
	cfg, err := root.loadConfig(true)
	if err != nil {
		return err
	}

	data, err := readFileOrStdin(cmd.InOrStdin(), opts.report)
	if err != nil {
		return err
	}
	var report model.ReportRecord
	if err := json.Unmarshal(data, &report); err != nil {
		return fmt.Errorf("%w: %s is not a report record: %w", model.ErrInvalidReport, opts.report, err)
	}
	if report.ReportID == "" {
		return fmt.Errorf("%w: %s has no reportId", model.ErrInvalidReport, opts.report)
	}
	// A premium record without sections still renders, with a notice.
	if err := report.Validate(); err != nil && !(report.IsPremium && report.Sections == nil) {
		return err
	}

	renderer := render.NewPDFRenderer(cfg.PDFPageWidth, cfg.PDFPageHeight)
	if opts.layout {
		return writeJSON(cmd.OutOrStdout(), "", renderer.Layout(report))
	}
	path := opts.pdf
	if path == "." {
		path = render.FileName(report)
	}
	if err := writePDF(renderer, report, path); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
