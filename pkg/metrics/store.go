package metrics

import "github.com/prometheus/client_golang/prometheus"

// StoreMetrics tracks how many records each resource currently holds.
type StoreMetrics struct {
	records *prometheus.GaugeVec
}

func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		return &StoreMetrics{}
	}
	records := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "catalog_records",
		Help: "Records currently stored, by resource.",
	}, []string{"resource"})
	reg.MustRegister(records)
	return &StoreMetrics{records: records}
}

func (s *StoreMetrics) Inc(resource string) {
	if s == nil || s.records == nil {
		return
	}
	s.records.WithLabelValues(normalizeLabel(resource)).Inc()
}

func (s *StoreMetrics) Dec(resource string) {
	if s == nil || s.records == nil {
		return
	}
	s.records.WithLabelValues(normalizeLabel(resource)).Dec()
}

// Set overwrites the gauge, used once at startup when a persistent backend already holds rows.
func (s *StoreMetrics) Set(resource string, n int64) {
	if s == nil || s.records == nil {
		return
	}
	s.records.WithLabelValues(normalizeLabel(resource)).Set(float64(n))
}
