package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"returnpulse/internal/config"
	"returnpulse/internal/dataprocessing"
	"returnpulse/internal/exporter"
	"returnpulse/internal/files"
	"returnpulse/internal/infrastructure"
	"returnpulse/internal/platform"
	"returnpulse/pkg/contracts/domain"
)

var errNoInput = errors.New("no input: pass files or directories, or use --dir")

type reportOptions struct {
	dirs      []string
	out       string
	format    string
	group     string
	platforms []string
	sku       string
	reason    string
	limit     int
}

func newReportCmd(root *rootOptions) *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report [paths...]",
		Short: "Ingest return reports and print grouped totals",
		Long: `Ingest .csv, .xlsx and .zip return reports, print what every source
contributed, then print the grouped totals of the filtered records.

Directories expand to the supported files they contain. Use --out to also
write the filtered records as CSV or as an xlsx workbook; a bare file name
is written into the configured exports directory.`,
		Example: `  returnpulse report flipkart_march.csv meesho.zip --group reason
  returnpulse report --dir ./inbox --platform flipkart --out returns.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, root, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&opts.dirs, "dir", nil, "directory to scan for reports (repeatable)")
	f.StringVarP(&opts.out, "out", "o", "", "write the filtered records to this file")
	f.StringVar(&opts.format, "format", "", "export format: csv or xlsx (default from --out extension)")
	f.StringVarP(&opts.group, "group", "g", string(domain.DimensionSKU), "group totals by sku, reason or platform")
	f.StringSliceVar(&opts.platforms, "platform", nil, "keep only these platforms (id or display name, repeatable)")
	f.StringVar(&opts.sku, "sku", "", "keep only this SKU")
	f.StringVar(&opts.reason, "reason", "", "keep only this return reason")
	f.IntVarP(&opts.limit, "limit", "n", 20, "show at most this many groups (0 shows all)")
	return cmd
}

func runReport(cmd *cobra.Command, root *rootOptions, opts *reportOptions, args []string) error {
	dim, err := domain.ParseDimension(opts.group)
	if err != nil {
		return err
	}
	format, err := opts.exportFormat()
	if err != nil {
		return err
	}
	if opts.limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}

	paths := append(append([]string(nil), args...), opts.dirs...)
	if len(paths) == 0 {
		return errNoInput
	}

	cfg, err := root.load()
	if err != nil {
		return err
	}
	logger := cliLogger(cfg, cmd.ErrOrStderr())
	ctx := infrastructure.EnsureTraceID(cmd.Context())

	sources, err := files.NewLoader(cfg.Ingest.MaxUploadBytes, logger).LoadSources(ctx, paths)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return errNoInput
	}

	pipeline := dataprocessing.NewPipeline(logger, dataprocessing.Options{MaxMemberBytes: cfg.Ingest.MaxMemberBytes})
	start := time.Now()
	result := pipeline.Ingest(ctx, sources)
	if err := ctx.Err(); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Ingestion complete",
		slog.Int("sources", len(result.Sources)),
		slog.Int("records", result.Dataset.Len()),
		slog.Duration("duration", time.Since(start)))

	sel := domain.FilterSelection{
		Platforms: platform.ResolveDisplayNames(opts.platforms),
		SKU:       strings.TrimSpace(opts.sku),
		Reason:    strings.TrimSpace(opts.reason),
	}
	filtered := dataprocessing.ApplyFilter(result.Dataset, sel)
	groups := dataprocessing.Top(dataprocessing.GroupSum(filtered, dim), opts.limit)

	out := cmd.OutOrStdout()
	if err := printSources(out, result); err != nil {
		return err
	}
	printSummary(out, result.Dataset, filtered, sel)
	if err := printGroups(out, dim, groups); err != nil {
		return err
	}

	if opts.out != "" {
		path, err := writeExport(cfg, opts.out, format, filtered, result, logger)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		fmt.Fprintf(out, "\nWrote %d records to %s\n", filtered.Len(), path)
	}
	return nil
}

// writeExport places bare file names in the configured exports directory and
// writes any other path as given.
func writeExport(cfg *config.Config, out string, format exporter.Format, ds domain.Dataset, result domain.IngestResult, logger *slog.Logger) (string, error) {
	if filepath.Base(out) != out {
		return out, exporter.WriteFile(out, format, ds, result.Sources, logger)
	}
	paths, err := cfg.ResolvePaths()
	if err != nil {
		return "", err
	}
	return exporter.NewFileExporter(paths, logger).Export(out, format, ds, result.Sources)
}

// exportFormat resolves --format, falling back to the --out extension.
func (o *reportOptions) exportFormat() (exporter.Format, error) {
	if o.format != "" {
		return exporter.ParseFormat(strings.ToLower(o.format))
	}
	if o.out == "" {
		return exporter.FormatCSV, nil
	}
	switch strings.ToLower(filepath.Ext(o.out)) {
	case ".xlsx":
		return exporter.FormatXLSX, nil
	case ".csv", "":
		return exporter.FormatCSV, nil
	}
	return "", fmt.Errorf("cannot infer export format from %q; pass --format", o.out)
}

func printSources(w io.Writer, result domain.IngestResult) error {
	fmt.Fprintln(w, "Sources")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  SOURCE\tPLATFORM\tKEPT\tDROPPED\tQUANTITY\tSTATUS")
	for _, s := range result.Sources {
		label := s.Label
		if s.Archive != "" {
			label = s.Archive + ":" + s.Label
		}
		status := "ok"
		if s.Failure != nil {
			status = string(s.Failure.Kind)
		}
		fmt.Fprintf(tw, "  %s\t%s\t%d\t%d\t%d\t%s\n", label, s.Platform, s.RowsKept, s.RowsDropped, s.Quantity, status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, f := range result.Failures {
		fmt.Fprintf(w, "  ! %s\n", f.String())
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warning)
	}
	return nil
}

func printSummary(w io.Writer, all, filtered domain.Dataset, sel domain.FilterSelection) {
	s := dataprocessing.Summarize(filtered)
	fmt.Fprintf(w, "\nRecords: %d  Quantity: %d  SKUs: %d  Reasons: %d  Platforms: %d\n",
		s.Records, s.TotalQuantity, s.SKUs, s.Reasons, s.Platforms)
	if !sel.IsZero() {
		fmt.Fprintf(w, "Filtered from %d records (quantity %d)\n", all.Len(), all.TotalQuantity())
	}
}

func printGroups(w io.Writer, dim domain.Dimension, groups []domain.GroupTotal) error {
	fmt.Fprintf(w, "\nBy %s\n", dim.Title())
	if len(groups) == 0 {
		fmt.Fprintln(w, "  (no records)")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	for _, g := range groups {
		fmt.Fprintf(tw, "  %s\t%d\t%d\t\n", g.Key, g.Quantity, g.Count)
	}
	return tw.Flush()
}
