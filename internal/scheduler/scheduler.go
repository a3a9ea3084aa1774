package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	apierrors "ymreport/internal/errors"
	"ymreport/internal/infrastructure"
	"ymreport/internal/services"
	"ymreport/internal/validation"
	"ymreport/pkg/contracts/domain"
)

// FileProcessor turns one input file into a report in outDir
type FileProcessor interface {
	ProcessFile(ctx context.Context, inPath, outDir string, req services.ReportRequest) (*services.ReportResult, error)
}

// Config controls the inbox batch
type Config struct {
	// Spec is a five-field cron expression (minute hour dom month dow).
	Spec      string
	InboxDir  string
	OutboxDir string
	Mode      domain.ReportMode
	Format    domain.ReportFormat
	// SkipPrefix keeps generated reports out of the batch when the inbox
	// and outbox are the same directory.
	SkipPrefix string
	RunTimeout time.Duration
	Location   *time.Location
}

// FileOutcome is the result of one file of a batch
type FileOutcome struct {
	Source  string        `json:"source"`
	Output  string        `json:"output,omitempty"`
	Records int           `json:"records"`
	Error   string        `json:"error,omitempty"`
	Code    string        `json:"error_code,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
}

// BatchResult summarizes one pass over the inbox
type BatchResult struct {
	Started   time.Time     `json:"started"`
	Duration  time.Duration `json:"duration"`
	Files     []FileOutcome `json:"files"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
}

// Scheduler processes every spreadsheet in the inbox on a cron schedule
type Scheduler struct {
	cfg       Config
	schedule  cron.Schedule
	processor FileProcessor
	files     *validation.FileValidator
	logger    *slog.Logger
}

// parser accepts standard five-field expressions and descriptors such as @weekly
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSpec validates a cron expression
func ParseSpec(spec string) (cron.Schedule, error) {
	sched, err := parser.Parse(strings.TrimSpace(spec))
	if err != nil {
		return nil, apierrors.NewScheduleError(fmt.Sprintf("invalid schedule %q", spec), err)
	}
	return sched, nil
}

// New creates a scheduler; the schedule is parsed up front
func New(cfg Config, processor FileProcessor, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if processor == nil {
		return nil, apierrors.NewScheduleError("no file processor", nil)
	}
	if cfg.InboxDir == "" || cfg.OutboxDir == "" {
		return nil, apierrors.NewScheduleError("inbox and outbox directories are required", nil)
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	sched, err := ParseSpec(cfg.Spec)
	if err != nil {
		return nil, err
	}

	logger = logger.With(slog.String("component", "scheduler"))
	return &Scheduler{
		cfg:       cfg,
		schedule:  sched,
		processor: processor,
		files:     validation.NewFileValidator(logger),
		logger:    logger,
	}, nil
}

// Next returns the first activation after t
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t.In(s.cfg.Location))
}

// Start runs the cron loop until ctx is cancelled. A batch still running at
// that point sees the cancellation and stops before its next file.
func (s *Scheduler) Start(ctx context.Context) error {
	logger := cronLogger{s.logger}
	c := cron.New(
		cron.WithParser(parser),
		cron.WithLocation(s.cfg.Location),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	c.Schedule(s.schedule, cron.FuncJob(func() {
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.ErrorContext(ctx, "scheduled batch failed", slog.String("error", err.Error()))
		}
	}))

	c.Start()
	s.logger.InfoContext(ctx, "scheduler started",
		slog.String("spec", s.cfg.Spec),
		slog.String("inbox", s.cfg.InboxDir),
		slog.String("outbox", s.cfg.OutboxDir),
		slog.Time("next_run", s.Next(time.Now())))

	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.Info("scheduler stopped")
	return nil
}

// RunOnce processes the inbox now. A failing file is logged and recorded in
// the result; the batch moves on to the next file. The returned error is
// reserved for problems with the directories or the batch deadline.
func (s *Scheduler) RunOnce(ctx context.Context) (*BatchResult, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	if s.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RunTimeout)
		defer cancel()
	}

	batch := &BatchResult{Started: time.Now()}

	if err := s.files.ValidateOutputDirectory(s.cfg.OutboxDir); err != nil {
		return batch, apierrors.NewScheduleError("outbox unavailable", err)
	}
	inputs, err := s.files.ListSheetFiles(s.cfg.InboxDir, s.cfg.SkipPrefix)
	if err != nil {
		return batch, apierrors.NewScheduleError("inbox unavailable", err)
	}

	s.logger.InfoContext(ctx, "scheduled batch started",
		slog.Int("files", len(inputs)),
		slog.String("mode", string(s.cfg.Mode)))

	for _, path := range inputs {
		if err := ctx.Err(); err != nil {
			batch.Duration = time.Since(batch.Started)
			return batch, apierrors.NewScheduleError("batch interrupted", err)
		}

		outcome := s.processOne(ctx, path)
		if outcome.Error != "" {
			batch.Failed++
		} else {
			batch.Succeeded++
		}
		batch.Files = append(batch.Files, outcome)
	}

	batch.Duration = time.Since(batch.Started)
	level := slog.LevelInfo
	if batch.Failed > 0 {
		level = slog.LevelWarn
	}
	s.logger.LogAttrs(ctx, level, "scheduled batch completed",
		slog.Int("succeeded", batch.Succeeded),
		slog.Int("failed", batch.Failed),
		slog.Duration("duration", batch.Duration))
	return batch, nil
}

func (s *Scheduler) processOne(ctx context.Context, path string) FileOutcome {
	started := time.Now()
	outcome := FileOutcome{Source: filepath.Base(path)}

	result, err := s.processor.ProcessFile(ctx, path, s.cfg.OutboxDir, services.ReportRequest{
		Mode:   s.cfg.Mode,
		Format: s.cfg.Format,
		Origin: services.OriginScheduler,
	})
	outcome.Elapsed = time.Since(started)

	if err != nil {
		outcome.Error = err.Error()
		outcome.Code = services.ErrorCode(err)
		s.logger.WarnContext(ctx, "file skipped",
			slog.String("file", outcome.Source),
			slog.String("error_code", outcome.Code),
			slog.String("error", outcome.Error))
		return outcome
	}

	outcome.Output = result.Path
	outcome.Records = result.Report.Metadata.RecordsOut
	return outcome
}

// cronLogger routes cron's own messages to slog
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
