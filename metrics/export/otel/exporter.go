package otel

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/metric"

	"github.com/MrEthical07/tokenauth"
	"github.com/MrEthical07/tokenauth/metrics/export/internaldefs"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() tokenauth.MetricsSnapshot
	AuditDropped() uint64
}

// reading is the source state captured once per collection.
type reading struct {
	snapshot tokenauth.MetricsSnapshot
	dropped  uint64
	buckets  map[tokenauth.MetricID][]uint64
}

func read(source metricsSource) *reading {
	r := &reading{
		snapshot: source.MetricsSnapshot(),
		dropped:  source.AuditDropped(),
		buckets:  make(map[tokenauth.MetricID][]uint64, len(internaldefs.HistogramDefs)),
	}
	for _, def := range internaldefs.HistogramDefs {
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(r.snapshot.Histograms[def.ID]))
		r.buckets[def.ID] = cumulative[:]
	}
	return r
}

// series pairs an instrument with the value it reports.
type series struct {
	instrument metric.Int64Observable
	value      func(*reading) int64
}

// registrar creates instruments on a meter and keeps the first error.
type registrar struct {
	meter  metric.Meter
	series []series
	err    error
}

func (r *registrar) counter(name, help string, value func(*reading) int64) {
	if r.err != nil {
		return
	}
	ins, err := r.meter.Int64ObservableCounter(name, metric.WithDescription(help))
	if err != nil {
		r.err = fmt.Errorf("create observable counter %s: %w", name, err)
		return
	}
	r.series = append(r.series, series{instrument: ins, value: value})
}

func (r *registrar) gauge(name, help string, value func(*reading) int64) {
	if r.err != nil {
		return
	}
	ins, err := r.meter.Int64ObservableGauge(name, metric.WithDescription(help))
	if err != nil {
		r.err = fmt.Errorf("create observable gauge %s: %w", name, err)
		return
	}
	r.series = append(r.series, series{instrument: ins, value: value})
}

func (r *registrar) observables() []metric.Observable {
	out := make([]metric.Observable, len(r.series))
	for i, s := range r.series {
		out[i] = s.instrument
	}
	return out
}

// Exporter publishes engine metrics as asynchronous instruments. Counters map
// to Int64ObservableCounter. Each histogram bucket is a cumulative
// Int64ObservableGauge named <histogram>_bucket_le_<bound>.
type Exporter struct {
	source       metricsSource
	series       []series
	registration metric.Registration
}

// NewExporter registers instruments on meter that read from engine.
func NewExporter(meter metric.Meter, engine *tokenauth.Engine) (*Exporter, error) {
	if engine == nil {
		return nil, ErrNilSource
	}
	return NewExporterFromSource(meter, engine)
}

// NewExporterFromSource is [NewExporter] for any snapshot source.
func NewExporterFromSource(meter metric.Meter, source metricsSource) (*Exporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	reg := &registrar{meter: meter}
	for _, def := range internaldefs.CounterDefs {
		reg.counter(def.Name, def.Help, func(r *reading) int64 {
			return int64(r.snapshot.Counters[def.ID])
		})
	}
	last := len(internaldefs.HistogramBoundSuffix) - 1
	for _, def := range internaldefs.HistogramDefs {
		for i, suffix := range internaldefs.HistogramBoundSuffix {
			reg.gauge(def.Name+"_bucket_le_"+suffix, "Cumulative histogram bucket count.", func(r *reading) int64 {
				return int64(r.buckets[def.ID][i])
			})
		}
		reg.gauge(def.Name+"_count", "Histogram total sample count.", func(r *reading) int64 {
			return int64(r.buckets[def.ID][last])
		})
	}
	reg.counter(internaldefs.AuditDroppedName, internaldefs.AuditDroppedHelp, func(r *reading) int64 {
		return int64(r.dropped)
	})
	if reg.err != nil {
		return nil, reg.err
	}

	e := &Exporter{source: source, series: reg.series}
	registration, err := meter.RegisterCallback(e.observe, reg.observables()...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}
	e.registration = registration
	return e, nil
}

func (e *Exporter) observe(_ context.Context, observer metric.Observer) error {
	r := read(e.source)
	for _, s := range e.series {
		observer.ObserveInt64(s.instrument, s.value(r))
	}
	return nil
}

// Close unregisters the collection callback.
func (e *Exporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
