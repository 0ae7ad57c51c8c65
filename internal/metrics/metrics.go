// Package metrics exports catalog cache activity to Prometheus.
package metrics

import (
	"github.com/Houeta/rentcatalog/internal/catalog"
	"github.com/Houeta/rentcatalog/internal/models"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rentcatalog"

// Recorder implements catalog.Observer with Prometheus counters.
type Recorder struct {
	fetches   *prometheus.CounterVec
	cacheHits *prometheus.CounterVec
}

// NewRecorder creates the collectors and registers them on reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "fetches_total",
			Help:      "Catalog list fetches by kind and outcome.",
		}, []string{"kind", "outcome"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "EnsureLoaded calls answered from the cache.",
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{r.fetches, r.cacheHits} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (r *Recorder) CacheHit(kind models.Kind) {
	r.cacheHits.WithLabelValues(string(kind)).Inc()
}

func (r *Recorder) FetchDone(kind models.Kind, outcome catalog.Outcome) {
	r.fetches.WithLabelValues(string(kind), string(outcome)).Inc()
}

// Fetches returns the counter for kind and outcome.
func (r *Recorder) Fetches(kind models.Kind, outcome catalog.Outcome) prometheus.Counter {
	return r.fetches.WithLabelValues(string(kind), string(outcome))
}

// CacheHits returns the hit counter for kind.
func (r *Recorder) CacheHits(kind models.Kind) prometheus.Counter {
	return r.cacheHits.WithLabelValues(string(kind))
}
