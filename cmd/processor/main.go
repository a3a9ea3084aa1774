package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"ymreport/internal/config"
	apierrors "ymreport/internal/errors"
	"ymreport/internal/infrastructure"
	"ymreport/internal/scheduler"
	"ymreport/internal/services"
	"ymreport/internal/validation"
	"ymreport/pkg/contracts"
	"ymreport/pkg/contracts/domain"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// globalOptions are shared by every subcommand
type globalOptions struct {
	configFile string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "processor",
		Short: "Transform maintenance exports into weekly reports",
		Long: `processor reads a malfunction export (.xlsx, .xlsm or .csv) and writes the
processed report next to it, or into --out. The basic layout adds System, Week,
Problem and Sub-system columns; the extended layout keeps only the current
reporting week and adds the Type classification.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default: "+config.EnvPrefix+"_CONFIG_FILE or ./config.yaml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log progress to stderr")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newBatchCmd(opts))
	root.AddCommand(newVersionCmd())
	return root
}

type runOptions struct {
	in     string
	out    string
	mode   string
	format string
}

func newRunCmd(global *globalOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run --in <file> [--out <dir>]",
		Short: "Process one spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(global, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if err := validation.NewFileValidator(logger).ValidateSheetFile(opts.in); err != nil {
				return fmt.Errorf("%s: %s", filepath.Base(opts.in), describe(err))
			}

			svc, err := services.NewReportService(cfg, logger)
			if err != nil {
				return err
			}

			ctx := infrastructure.EnsureTraceID(cmd.Context())
			result, err := svc.ProcessFile(ctx, opts.in, opts.out, services.ReportRequest{
				Mode:   domain.ReportMode(opts.mode),
				Format: domain.ReportFormat(opts.format),
				Origin: services.OriginCLI,
			})
			if err != nil {
				return fmt.Errorf("%s: %s", filepath.Base(opts.in), describe(err))
			}

			meta := result.Report.Metadata
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d of %d records", result.Path, meta.RecordsOut, meta.RecordsIn)
			if meta.RecordsFiltered > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), ", %d outside the reporting week", meta.RecordsFiltered)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ")")
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.in, "in", "", "input spreadsheet (.xlsx, .xlsm or .csv)")
	cmd.Flags().StringVar(&opts.out, "out", "", "output directory (default: the input's directory)")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "layout: basic or extended (default: pipeline.mode)")
	cmd.Flags().StringVar(&opts.format, "format", "", "output format: xlsx or csv (default: output.format)")
	cmd.MarkFlagRequired("in")

	return cmd
}

type batchOptions struct {
	in     string
	out    string
	mode   string
	format string
}

func newBatchCmd(global *globalOptions) *cobra.Command {
	opts := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Process every spreadsheet in the inbox once, as the scheduler would",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(global, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			paths, err := cfg.ResolvePaths()
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			svc, err := services.NewReportService(cfg, logger)
			if err != nil {
				return err
			}

			sc := scheduler.Config{
				Spec:       cfg.Schedule.Spec,
				InboxDir:   firstNonEmpty(opts.in, paths.InboxDir),
				OutboxDir:  firstNonEmpty(opts.out, paths.OutboxDir),
				Mode:       domain.ReportMode(firstNonEmpty(opts.mode, cfg.Pipeline.Mode)),
				Format:     domain.ReportFormat(firstNonEmpty(opts.format, cfg.Output.Format)),
				SkipPrefix: cfg.Output.FilePrefix,
				RunTimeout: cfg.Schedule.RunTimeout,
				Location:   loc,
			}
			s, err := scheduler.New(sc, svc, logger)
			if err != nil {
				return err
			}

			batch, err := s.RunOnce(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, f := range batch.Files {
				if f.Error != "" {
					fmt.Fprintf(w, "FAIL %s: %s\n", f.Source, f.Error)
					continue
				}
				fmt.Fprintf(w, "ok   %s -> %s (%d records)\n", f.Source, f.Output, f.Records)
			}
			fmt.Fprintf(w, "%d succeeded, %d failed\n", batch.Succeeded, batch.Failed)

			if batch.Failed > 0 {
				return fmt.Errorf("%d of %d files failed", batch.Failed, len(batch.Files))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.in, "in", "", "inbox directory (default: paths.inbox_dir)")
	cmd.Flags().StringVar(&opts.out, "out", "", "outbox directory (default: paths.outbox_dir)")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "layout: basic or extended (default: pipeline.mode)")
	cmd.Flags().StringVar(&opts.format, "format", "", "output format: xlsx or csv (default: output.format)")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), contracts.GetFullVersionString())
		},
	}
}

// setup loads the configuration and builds a stderr logger. Without
// --verbose only warnings and errors are logged.
func setup(opts *globalOptions, stderr io.Writer) (*config.Config, *slog.Logger, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configFile != "" {
		cfg, err = config.LoadFrom(opts.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, err
	}

	logging := cfg.Logging
	logging.Format = "text"
	if !opts.verbose {
		logging.Level = "warn"
	}
	return cfg, infrastructure.NewLogger(logging, stderr), nil
}

// describe turns a pipeline error into a message that names what to fix
func describe(err error) string {
	if errors.Is(err, context.Canceled) {
		return "interrupted"
	}
	if mapped := apierrors.FromDomainError(err); mapped != nil {
		return mapped.Message
	}

	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if v, ok := apiErr.Details.(apierrors.ValidationError); ok {
			msg = v.Message
		}
		return msg
	}
	return err.Error()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
