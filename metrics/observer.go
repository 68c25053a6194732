// Package metrics exports pattern database build metrics to Prometheus.
package metrics

import (
	"errors"
	"time"

	"patterndb/multipattern"

	"github.com/prometheus/client_golang/prometheus"
)

// Observer implements multipattern.Observer with Prometheus collectors.
type Observer struct {
	builds   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	patterns *prometheus.HistogramVec
	inFlight *prometheus.GaugeVec
}

// NewObserver creates an Observer and registers its collectors with reg.
func NewObserver(reg prometheus.Registerer) (*Observer, error) {
	o := &Observer{
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "patterndb_builds_total",
			Help: "Pattern database builds by mode and outcome",
		}, []string{"mode", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "patterndb_build_duration_seconds",
			Help:    "Time spent compiling pattern databases",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"mode"}),
		patterns: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "patterndb_build_patterns",
			Help:    "Number of patterns per build",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}, []string{"mode"}),
		inFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "patterndb_builds_in_flight",
			Help: "Builds currently compiling",
		}, []string{"mode"}),
	}

	for _, c := range []prometheus.Collector{o.builds, o.duration, o.patterns, o.inFlight} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// BuildStarted implements multipattern.Observer.
func (o *Observer) BuildStarted(mode multipattern.Mode, patterns int) {
	o.inFlight.WithLabelValues(mode.String()).Inc()
	o.patterns.WithLabelValues(mode.String()).Observe(float64(patterns))
}

// BuildFinished implements multipattern.Observer.
func (o *Observer) BuildFinished(mode multipattern.Mode, patterns int, duration time.Duration, err error) {
	o.inFlight.WithLabelValues(mode.String()).Dec()
	o.duration.WithLabelValues(mode.String()).Observe(duration.Seconds())
	o.builds.WithLabelValues(mode.String(), outcome(err)).Inc()
}

func outcome(err error) string {
	var se *multipattern.ShapeError
	var ce *multipattern.CompileError
	var re *multipattern.ResourceError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &ce):
		return "compile_error"
	case errors.As(err, &re):
		return "resource_error"
	case errors.As(err, &se):
		return "shape_error"
	default:
		return "error"
	}
}
