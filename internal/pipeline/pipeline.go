package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/route-formatter/internal/domain"
	"github.com/couchcryptid/route-formatter/internal/observability"
	"github.com/google/uuid"
)

// TableReader decodes an uploaded file into a manifest table.
type TableReader interface {
	ReadTable(ctx context.Context, data []byte) (domain.Table, error)
}

// WorkbookWriter serializes grouped stops into a downloadable spreadsheet.
type WorkbookWriter interface {
	Write(stops []domain.GroupedStop) ([]byte, error)
}

// StopPublisher forwards the grouped stops of a run to downstream consumers.
type StopPublisher interface {
	PublishStops(ctx context.Context, runID string, generatedAt time.Time, stops []domain.GroupedStop) error
}

// LookupFactory returns the postal code lookup for one run. Each call must
// return a lookup with its own empty memo.
type LookupFactory func() domain.AddressLookup

// Stages wires the adapters of a Pipeline. Lookup, Probe and Publisher are
// optional.
type Stages struct {
	Spreadsheet TableReader
	Document    TableReader
	Writer      WorkbookWriter
	Lookup      LookupFactory
	Probe       domain.ConnectivityProbe
	Publisher   StopPublisher
}

// Options are the per-deployment constants applied to every run.
type Options struct {
	Locale      domain.Locale
	DefaultCity string
	State       string
}

// Pipeline runs one upload through read, normalize, enrich, group and write.
type Pipeline struct {
	stages   Stages
	opts     Options
	logger   *slog.Logger
	metrics  *observability.Metrics
	draining atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
func New(stages Stages, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		stages:  stages,
		opts:    opts,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil while the pipeline accepts uploads, or an error
// once Drain has been called.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.draining.Load() {
		return errors.New("pipeline is draining")
	}
	return nil
}

// Drain marks the pipeline as shutting down so readiness probes fail.
func (p *Pipeline) Drain() {
	p.draining.Store(true)
}

// Process converts one uploaded manifest into a formatted route. User errors
// (see domain.IsUserError) abort the run; lookup and publish failures only
// add warnings to the result.
func (p *Pipeline) Process(ctx context.Context, up Upload) (domain.Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID, "file", up.Name)

	format, err := DetectFormat(up)
	if err != nil {
		p.recordOutcome(err)
		logger.Warn("upload rejected", "content_type", up.ContentType, "error", err)
		return domain.Result{}, err
	}

	res, err := p.run(ctx, logger, runID, format, up)
	p.recordOutcome(err)
	p.metrics.RunDuration.WithLabelValues(string(format)).Observe(time.Since(start).Seconds())
	if err != nil {
		if domain.IsUserError(err) {
			logger.Warn("run failed", "format", format, "error", err)
		} else {
			logger.Error("run failed", "format", format, "error", err)
		}
		return domain.Result{}, err
	}

	logger.Info("run completed",
		"format", format,
		"rows", res.RowsRead,
		"skipped", res.Skipped,
		"stops", len(res.Stops),
		"warnings", len(res.Warnings),
		"duration", time.Since(start),
	)
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, logger *slog.Logger, runID string, format Format, up Upload) (domain.Result, error) {
	res := domain.Result{RunID: runID}

	table, err := p.reader(format).ReadTable(ctx, up.Data)
	if err != nil {
		return res, fmt.Errorf("read %s: %w", format, err)
	}
	if err := table.Validate(); err != nil {
		return res, err
	}
	res.RowsRead = len(table.Rows)
	p.metrics.RowsRead.Add(float64(res.RowsRead))
	res.Notices = append(res.Notices, fmt.Sprintf("Read %d rows from %s.", res.RowsRead, up.Name))
	logger.Debug("table read", "rows", res.RowsRead, "columns", len(table.Columns))

	rows := domain.NormalizeRows(table.Rows)

	if p.stages.Lookup != nil {
		enricher := domain.NewEnricher(p.stages.Lookup(), p.stages.Probe, logger)
		var report domain.EnrichReport
		rows, report = enricher.Enrich(ctx, rows)
		if report.Offline {
			p.metrics.LookupOffline.Inc()
		} else {
			res.Notices = append(res.Notices,
				fmt.Sprintf("Looked up %d postal codes; %d rows completed.", report.Lookups, report.Filled))
		}
		res.Warnings = append(res.Warnings, report.Warnings...)
		logger.Debug("enrichment done",
			"lookups", report.Lookups,
			"failed", report.Failed,
			"filled", report.Filled,
			"offline", report.Offline,
		)
	}

	if !table.Has(domain.ColCity) {
		rows = domain.FillBlankCity(rows, p.opts.DefaultCity)
	}

	grouped, err := domain.GroupByStop(rows, domain.GroupOptions{Locale: p.opts.Locale, State: p.opts.State})
	p.metrics.RowsSkipped.Add(float64(grouped.Skipped))
	if err != nil {
		return res, err
	}
	res.Stops = grouped.Stops
	res.Skipped = grouped.Skipped
	if res.Skipped > 0 {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("%d rows without a stop number were skipped.", res.Skipped))
	}

	res.Workbook, err = p.stages.Writer.Write(res.Stops)
	if err != nil {
		return res, fmt.Errorf("write workbook: %w", err)
	}
	res.GeneratedAt = domain.Now()
	p.metrics.StopsProduced.Add(float64(len(res.Stops)))

	if p.stages.Publisher != nil {
		if err := p.stages.Publisher.PublishStops(ctx, runID, res.GeneratedAt, res.Stops); err != nil {
			p.metrics.PublishErrors.Inc()
			logger.Error("publish stops failed", "error", err, "stops", len(res.Stops))
			res.Warnings = append(res.Warnings, "Grouped stops could not be forwarded to downstream consumers.")
		}
	}
	return res, nil
}

func (p *Pipeline) reader(format Format) TableReader {
	if format == FormatDocument {
		return p.stages.Document
	}
	return p.stages.Spreadsheet
}

func (p *Pipeline) recordOutcome(err error) {
	outcome := "success"
	switch {
	case err == nil:
	case domain.IsUserError(err):
		outcome = "user_error"
	default:
		outcome = "error"
	}
	p.metrics.RunsTotal.WithLabelValues(outcome).Inc()
}
