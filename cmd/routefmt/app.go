package main

import (
	"log/slog"

	kafkaadapter "github.com/couchcryptid/route-formatter/internal/adapter/kafka"
	"github.com/couchcryptid/route-formatter/internal/adapter/pdf"
	"github.com/couchcryptid/route-formatter/internal/adapter/viacep"
	"github.com/couchcryptid/route-formatter/internal/adapter/xlsx"
	"github.com/couchcryptid/route-formatter/internal/config"
	"github.com/couchcryptid/route-formatter/internal/domain"
	"github.com/couchcryptid/route-formatter/internal/observability"
	"github.com/couchcryptid/route-formatter/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// app holds the process-wide dependencies shared by subcommands.
type app struct {
	registry prometheus.Registerer

	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if a.registry == nil {
		a.metrics = observability.NewMetrics()
	} else {
		a.metrics = observability.NewMetricsWith(a.registry)
	}
	return nil
}

// pipelineOptions tunes which optional stages a subcommand wires.
type pipelineOptions struct {
	lookup  bool
	publish bool
}

// buildPipeline wires the adapters selected by configuration. The returned
// Kafka writer is nil unless publishing is enabled; callers must close it.
func (a *app) buildPipeline(opts pipelineOptions) (*pipeline.Pipeline, *kafkaadapter.Writer) {
	stages := pipeline.Stages{
		Spreadsheet: xlsx.NewReader(a.cfg.Schema),
		Document:    pdf.NewReader(),
		Writer:      xlsx.NewWriter(a.cfg.Locale),
	}

	if opts.lookup && a.cfg.LookupEnabled {
		client := viacep.NewClient(a.cfg.LookupBaseURL, a.cfg.LookupTimeout, a.cfg.LookupDelay, a.metrics, a.logger)
		stages.Lookup = func() domain.AddressLookup {
			return viacep.NewMemo(client, a.cfg.LookupCacheSize, a.metrics)
		}
		stages.Probe = viacep.NewProber(a.cfg.ProbeURL, a.cfg.ProbeTimeout)
		a.metrics.LookupEnabled.Set(1)
		a.logger.Info("postal code lookup enabled",
			"base_url", a.cfg.LookupBaseURL,
			"delay", a.cfg.LookupDelay,
			"cache_size", a.cfg.LookupCacheSize,
		)
	} else {
		a.metrics.LookupEnabled.Set(0)
		a.logger.Info("postal code lookup disabled")
	}

	var writer *kafkaadapter.Writer
	if opts.publish && a.cfg.PublishEnabled() {
		writer = kafkaadapter.NewWriter(a.cfg, a.logger)
		stages.Publisher = writer
		a.logger.Info("stop publishing enabled", "brokers", a.cfg.KafkaBrokers, "topic", a.cfg.KafkaTopic)
	}

	p := pipeline.New(stages, pipeline.Options{
		Locale:      a.cfg.Locale,
		DefaultCity: a.cfg.DefaultCity,
		State:       a.cfg.DefaultState,
	}, a.logger, a.metrics)
	return p, writer
}

func (a *app) closeWriter(w *kafkaadapter.Writer) {
	if w == nil {
		return
	}
	if err := w.Close(); err != nil {
		a.logger.Error("kafka writer close error", "error", err)
	}
}
