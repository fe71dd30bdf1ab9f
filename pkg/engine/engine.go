// Package engine drives the rules over many compilation units: it discovers
// Java sources, parses and analyzes each unit independently on a bounded
// worker pool and collects per-file results in path order.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/javasrc"
	"github.com/Consensys/errorprone-checks/pkg/observability"
	"github.com/Consensys/errorprone-checks/pkg/safeconv"
	"github.com/Consensys/errorprone-checks/pkg/textutil"
)

// DefaultMaxFileSize is the size above which units are skipped.
const DefaultMaxFileSize = 1 << 20

// Skip reasons.
var (
	// ErrTooLarge marks a unit skipped for its size.
	ErrTooLarge = errors.New("file exceeds max file size")
	// ErrBinary marks a unit skipped because it is not text.
	ErrBinary = errors.New("file looks binary")
)

// FileResult is the outcome of one compilation unit.
type FileResult struct {
	// Err is set when the unit could not be read or parsed.
	Err      error
	Path     string
	Source   []byte
	Findings []analysis.Finding
	// Skipped explains why the unit was not analyzed.
	Skipped      string
	SyntaxErrors int
	Duration     time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers bounds the number of units analyzed at once. Zero or less
// means GOMAXPROCS.
func WithWorkers(workers int) Option {
	return func(eng *Engine) {
		eng.workers = workers
	}
}

// WithMaxFileSize sets the size above which units are skipped.
func WithMaxFileSize(size int64) Option {
	return func(eng *Engine) {
		eng.maxFileSize = size
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(eng *Engine) {
		eng.logger = logger
	}
}

// WithTracer sets the tracer for run and unit spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(eng *Engine) {
		eng.tracer = tracer
	}
}

// WithMetrics records unit statistics and rule panics.
func WithMetrics(metrics *observability.CheckMetrics) Option {
	return func(eng *Engine) {
		eng.metrics = metrics
	}
}

// Engine runs a fixed rule set over compilation units. It is safe for
// concurrent use.
type Engine struct {
	parser      *javasrc.Parser
	runner      *analysis.Runner
	logger      *slog.Logger
	tracer      trace.Tracer
	metrics     *observability.CheckMetrics
	workers     int
	maxFileSize int64
}

// New creates an engine for rules over units parsed by parser.
func New(parser *javasrc.Parser, rules []*analysis.Rule, opts ...Option) *Engine {
	eng := &Engine{
		parser:      parser,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:      nooptrace.NewTracerProvider().Tracer("epcheck"),
		maxFileSize: DefaultMaxFileSize,
	}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.workers <= 0 {
		eng.workers = runtime.GOMAXPROCS(0)
	}

	eng.runner = analysis.NewRunner(rules,
		analysis.WithLogger(eng.logger),
		analysis.WithPanicHook(func(rule string, _ error) {
			eng.metrics.RecordPanic(context.Background(), rule)
		}),
	)

	return eng
}

// Rules returns the rules the engine runs.
func (eng *Engine) Rules() []*analysis.Rule {
	return eng.runner.Rules()
}

// Check discovers the units under paths and analyzes them in parallel.
// Per-unit read and parse failures are reported in FileResult.Err; the
// returned error is set only for discovery failures and cancellation.
func (eng *Engine) Check(ctx context.Context, paths []string) ([]FileResult, error) {
	ctx, span := eng.tracer.Start(ctx, observability.SpanRun)
	defer span.End()

	files, err := Discover(paths)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	span.SetAttributes(attribute.Int("run.units", len(files)))

	results := make([]FileResult, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(eng.workers)

	for idx, path := range files {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			results[idx] = eng.checkFile(groupCtx, path)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		span.SetStatus(codes.Error, err.Error())

		return nil, fmt.Errorf("check: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("check: %w", err)
	}

	eng.logger.InfoContext(ctx, "check finished", "units", len(files), "findings", CountFindings(results))

	return results, nil
}

func (eng *Engine) checkFile(ctx context.Context, path string) FileResult {
	ctx = observability.ContextWithUnit(ctx, path)

	info, err := os.Stat(path)
	if err != nil {
		return eng.failed(ctx, FileResult{Path: path, Err: fmt.Errorf("stat %s: %w", path, err)})
	}

	if eng.maxFileSize > 0 && info.Size() > eng.maxFileSize {
		res := FileResult{
			Path: path,
			Skipped: fmt.Sprintf("%s: %s > %s", ErrTooLarge,
				humanize.IBytes(safeconv.Uint64(info.Size())), humanize.IBytes(safeconv.Uint64(eng.maxFileSize))),
		}

		return eng.skipped(ctx, res)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return eng.failed(ctx, FileResult{Path: path, Err: fmt.Errorf("read %s: %w", path, err)})
	}

	if textutil.IsBinary(src) {
		return eng.skipped(ctx, FileResult{Path: path, Skipped: ErrBinary.Error()})
	}

	return eng.CheckSource(ctx, path, src)
}

// CheckSource parses and analyzes one in-memory unit. The size limit does
// not apply.
func (eng *Engine) CheckSource(ctx context.Context, path string, src []byte) FileResult {
	ctx, span := eng.tracer.Start(ctx, observability.SpanUnit, trace.WithAttributes(
		attribute.String("unit.path", path),
		attribute.Int("unit.bytes", len(src)),
	))
	defer span.End()

	start := time.Now()

	unit, err := eng.parser.Parse(ctx, path, src)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return eng.failed(ctx, FileResult{Path: path, Source: src, Err: err, Duration: time.Since(start)})
	}

	res := FileResult{
		Path:         path,
		Source:       src,
		Findings:     eng.runner.Run(unit.Root, unit),
		SyntaxErrors: unit.SyntaxErrors,
		Duration:     time.Since(start),
	}

	span.SetAttributes(
		attribute.Int("unit.findings", len(res.Findings)),
		attribute.Int("unit.syntax_errors", res.SyntaxErrors),
	)

	if res.SyntaxErrors > 0 {
		eng.logger.DebugContext(ctx, "unit has syntax errors", "count", res.SyntaxErrors)
	}

	eng.metrics.RecordUnit(ctx, observability.UnitStats{
		Status:   observability.UnitAnalyzed,
		Duration: res.Duration,
		Findings: countByRule(res.Findings),
	})

	return res
}

func (eng *Engine) skipped(ctx context.Context, res FileResult) FileResult {
	eng.logger.WarnContext(ctx, "unit skipped", "reason", res.Skipped)
	eng.metrics.RecordUnit(ctx, observability.UnitStats{Status: observability.UnitSkipped})

	return res
}

func (eng *Engine) failed(ctx context.Context, res FileResult) FileResult {
	eng.logger.WarnContext(ctx, "unit failed", "error", res.Err)
	eng.metrics.RecordUnit(ctx, observability.UnitStats{Status: observability.UnitFailed, Duration: res.Duration})

	return res
}

func countByRule(findings []analysis.Finding) map[string]int {
	counts := make(map[string]int)
	for _, finding := range findings {
		counts[finding.Rule]++
	}

	return counts
}

// CountFindings totals the findings of results.
func CountFindings(results []FileResult) int {
	total := 0
	for _, res := range results {
		total += len(res.Findings)
	}

	return total
}

// MaxSeverity is the highest severity among results, false when there are
// no findings.
func MaxSeverity(results []FileResult) (analysis.Severity, bool) {
	var (
		highest analysis.Severity
		found   bool
	)

	for _, res := range results {
		for _, finding := range res.Findings {
			if !found || finding.Severity > highest {
				highest, found = finding.Severity, true
			}
		}
	}

	return highest, found
}
