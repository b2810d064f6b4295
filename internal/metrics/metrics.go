package metrics

import (
	"time"

	"github.com/VitalSync/health-ingestor/internal/types"
	"github.com/prometheus/client_golang/prometheus"
)

// Rejection reasons, matching the error taxonomy the controllers expose.
const (
	ReasonEnvelope   = "envelope"
	ReasonParse      = "parse"
	ReasonValidation = "validation"
	ReasonStore      = "store"
)

// Collector holds the ingestion counters and timings.
type Collector struct {
	recordsIngested *prometheus.CounterVec
	batchesRejected *prometheus.CounterVec
	ingestDuration  *prometheus.HistogramVec
}

func New() *Collector {
	c := &Collector{}

	c.recordsIngested = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "health",
		Name:      "records_ingested_total",
		Help:      "Validated health records written to the store",
	}, []string{"source", "strategy"})

	c.batchesRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "health",
		Name:      "batches_rejected_total",
		Help:      "Ingestion batches rejected before or during persistence",
	}, []string{"source", "reason"})

	c.ingestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "health",
		Name:      "ingest_duration_seconds",
		Help:      "Wall time from request parse to store write per accepted batch",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})

	return c
}

func (c *Collector) Register(reg prometheus.Registerer) {
	reg.MustRegister(
		c.recordsIngested,
		c.batchesRejected,
		c.ingestDuration,
	)
}

// BatchIngested records a successfully written batch.
func (c *Collector) BatchIngested(source types.IngestSource, strategy types.WriteStrategy, count int, duration time.Duration) {
	if c == nil {
		return
	}
	c.recordsIngested.WithLabelValues(string(source), string(strategy)).Add(float64(count))
	c.ingestDuration.WithLabelValues(string(source)).Observe(duration.Seconds())
}

// BatchRejected records a batch that never made it to the store (or failed there).
func (c *Collector) BatchRejected(source types.IngestSource, reason string) {
	if c == nil {
		return
	}
	c.batchesRejected.WithLabelValues(string(source), reason).Inc()
}
