// Package prometheus exports client metrics through client_golang.
package prometheus

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-socialconnect/core"
	"github.com/prometheus/client_golang/prometheus"
)

type Option func(*Recorder)

func WithRegisterer(registerer prometheus.Registerer) Option {
	return func(r *Recorder) {
		if registerer != nil {
			r.registerer = registerer
		}
	}
}

func WithBuckets(buckets []float64) Option {
	return func(r *Recorder) {
		if len(buckets) > 0 {
			r.buckets = append([]float64(nil), buckets...)
		}
	}
}

// Recorder implements core.MetricsRecorder. Each metric name becomes one
// collector whose label set is fixed by its first observation; later tags
// outside that set are dropped and missing ones are recorded empty.
type Recorder struct {
	registerer prometheus.Registerer
	buckets    []float64

	mu         sync.Mutex
	counters   map[string]*counterFamily
	histograms map[string]*histogramFamily
}

type counterFamily struct {
	vec    *prometheus.CounterVec
	labels []string
}

type histogramFamily struct {
	vec    *prometheus.HistogramVec
	labels []string
}

func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		registerer: prometheus.DefaultRegisterer,
		buckets:    prometheus.ExponentialBucketsRange(1, 30000, 16),
		counters:   map[string]*counterFamily{},
		histograms: map[string]*histogramFamily{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Recorder) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	if r == nil || value < 0 {
		return
	}
	family := r.counter(name, tags)
	if family == nil {
		return
	}
	family.vec.WithLabelValues(labelValues(family.labels, tags)...).Add(float64(value))
}

func (r *Recorder) ObserveHistogram(_ context.Context, name string, value float64, tags map[string]string) {
	if r == nil {
		return
	}
	family := r.histogram(name, tags)
	if family == nil {
		return
	}
	family.vec.WithLabelValues(labelValues(family.labels, tags)...).Observe(value)
}

func (r *Recorder) counter(name string, tags map[string]string) *counterFamily {
	metric := MetricName(name)
	if metric == "" {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if family, ok := r.counters[metric]; ok {
		return family
	}
	labels := labelNames(tags)
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: metric,
		Help: "socialconnect counter " + name,
	}, labels)
	if err := r.registerer.Register(vec); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil
		}
		existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil
		}
		vec = existing
	}
	family := &counterFamily{vec: vec, labels: labels}
	r.counters[metric] = family
	return family
}

func (r *Recorder) histogram(name string, tags map[string]string) *histogramFamily {
	metric := MetricName(name)
	if metric == "" {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if family, ok := r.histograms[metric]; ok {
		return family
	}
	labels := labelNames(tags)
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    metric,
		Help:    "socialconnect histogram " + name,
		Buckets: r.buckets,
	}, labels)
	if err := r.registerer.Register(vec); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil
		}
		existing, ok := already.ExistingCollector.(*prometheus.HistogramVec)
		if !ok {
			return nil
		}
		vec = existing
	}
	family := &histogramFamily{vec: vec, labels: labels}
	r.histograms[metric] = family
	return family
}

// MetricName maps a dotted client metric name onto the Prometheus charset,
// e.g. socialconnect.get_user.total becomes socialconnect_get_user_total.
func MetricName(name string) string {
	name = strings.TrimSpace(name)
	var b strings.Builder
	for i, ch := range name {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch == '_', ch == ':':
			b.WriteRune(ch)
		case ch >= '0' && ch <= '9':
			if i == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(ch)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func labelNames(tags map[string]string) []string {
	out := make([]string, 0, len(tags))
	for key := range tags {
		if name := MetricName(key); name != "" && !strings.HasPrefix(name, "__") {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return compact(out)
}

func labelValues(labels []string, tags map[string]string) []string {
	byLabel := make(map[string]string, len(tags))
	for key, value := range tags {
		byLabel[MetricName(key)] = value
	}
	out := make([]string, len(labels))
	for i, label := range labels {
		out[i] = byLabel[label]
	}
	return out
}

func compact(values []string) []string {
	if len(values) < 2 {
		return values
	}
	out := values[:1]
	for _, value := range values[1:] {
		if value != out[len(out)-1] {
			out = append(out, value)
		}
	}
	return out
}

var _ core.MetricsRecorder = (*Recorder)(nil)
