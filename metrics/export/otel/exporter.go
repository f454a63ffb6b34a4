package otel

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	goNotes "github.com/MrEthical07/goNotes"
	"github.com/MrEthical07/goNotes/metrics/export/internaldefs"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

// Source is what the exporter reads; *goNotes.Engine satisfies it.
type Source interface {
	MetricsSnapshot() goNotes.MetricsSnapshot
	AuditStats() goNotes.AuditStats
}

type counter struct {
	id         goNotes.MetricID
	instrument metric.Int64ObservableCounter
}

type histogram struct {
	id         goNotes.MetricID
	instrument metric.Int64ObservableGauge
}

var (
	outcomeDelivered = metric.WithAttributes(attribute.String("outcome", "delivered"))
	outcomeDropped   = metric.WithAttributes(attribute.String("outcome", "dropped"))
	outcomeFailed    = metric.WithAttributes(attribute.String("outcome", "failed"))
)

// bucketBounds holds one "le" attribute set per engine bucket, the last being +Inf.
var bucketBounds = func() []metric.ObserveOption {
	out := make([]metric.ObserveOption, 0, goNotes.HistogramBucketCount)
	for _, le := range internaldefs.HistogramUpperBounds {
		out = append(out, metric.WithAttributes(attribute.String("le", strconv.FormatFloat(le, 'f', -1, 64))))
	}
	return append(out, metric.WithAttributes(attribute.String("le", "+Inf")))
}()

// Exporter keeps the callback registration alive until Close.
type Exporter struct {
	source       Source
	registration metric.Registration
	counters     []counter
	histograms   []histogram
	audit        metric.Int64ObservableCounter
}

// NewExporter registers instruments for the engine's metrics on meter.
func NewExporter(meter metric.Meter, source Source) (*Exporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	e := &Exporter{source: source}
	observables := make([]metric.Observable, 0, len(internaldefs.CounterDefs)+len(internaldefs.HistogramDefs)+1)

	for _, def := range internaldefs.CounterDefs {
		ins, err := meter.Int64ObservableCounter(def.Name,
			metric.WithDescription(def.Help),
			metric.WithUnit("{event}"),
		)
		if err != nil {
			return nil, fmt.Errorf("counter %s: %w", def.Name, err)
		}
		e.counters = append(e.counters, counter{id: def.ID, instrument: ins})
		observables = append(observables, ins)
	}

	for _, def := range internaldefs.HistogramDefs {
		name := def.Name + "_bucket"
		ins, err := meter.Int64ObservableGauge(name,
			metric.WithDescription(def.Help+" Cumulative count per upper bound."),
			metric.WithUnit("{call}"),
		)
		if err != nil {
			return nil, fmt.Errorf("histogram %s: %w", name, err)
		}
		e.histograms = append(e.histograms, histogram{id: def.ID, instrument: ins})
		observables = append(observables, ins)
	}

	audit, err := meter.Int64ObservableCounter("gonotes_audit_events_total",
		metric.WithDescription("Audit events by dispatcher outcome."),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("audit counter: %w", err)
	}
	e.audit = audit
	observables = append(observables, audit)

	reg, err := meter.RegisterCallback(e.observe, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}
	e.registration = reg
	return e, nil
}

func (e *Exporter) observe(_ context.Context, o metric.Observer) error {
	snapshot := e.source.MetricsSnapshot()

	for _, c := range e.counters {
		value, ok := snapshot.Counters[c.id]
		if !ok {
			continue
		}
		o.ObserveInt64(c.instrument, int64(value))
	}

	for _, h := range e.histograms {
		raw, ok := snapshot.Histograms[h.id]
		if !ok {
			continue
		}
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw))
		for i, bound := range bucketBounds {
			o.ObserveInt64(h.instrument, int64(cumulative[i]), bound)
		}
	}

	stats := e.source.AuditStats()
	o.ObserveInt64(e.audit, int64(stats.Delivered), outcomeDelivered)
	o.ObserveInt64(e.audit, int64(stats.Dropped), outcomeDropped)
	o.ObserveInt64(e.audit, int64(stats.Failed), outcomeFailed)
	return nil
}

// Close unregisters the callback. Safe on a nil Exporter.
func (e *Exporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
