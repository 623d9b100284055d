package metrics

import "github.com/prometheus/client_golang/prometheus"

// Corpus and export Prometheus metrics.
var (
	CorpusDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "termdex",
			Name:      "corpus_documents_total",
			Help:      "Total number of documents loaded from corpora",
		},
		[]string{"kind"},
	)

	CorpusTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "termdex",
			Name:      "corpus_tokens_total",
			Help:      "Total token occurrences recorded during corpus loading",
		},
		[]string{"kind"},
	)

	ExportDocumentsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "termdex",
			Name:      "export_documents_total",
			Help:      "Total number of documents written by the sLDA exporter",
		},
	)

	ExportErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "termdex",
			Name:      "export_errors_total",
			Help:      "Total number of failed sLDA export runs",
		},
	)
)

var corpusMetricsRegistered bool

// RegisterCorpusMetrics registers corpus and export metrics. Must be called once from main.
func RegisterCorpusMetrics() {
	if corpusMetricsRegistered {
		return
	}
	prometheus.MustRegister(CorpusDocumentsTotal)
	prometheus.MustRegister(CorpusTokensTotal)
	prometheus.MustRegister(ExportDocumentsTotal)
	prometheus.MustRegister(ExportErrorsTotal)
	corpusMetricsRegistered = true
}
