package domain

// DocID identifies a document within a corpus. Assigned by the corpus
// reader, unique per corpus, never reused.
type DocID uint64

// TermID identifies a resolved vocabulary term. The document core treats
// it as an opaque key; the tokenizer's vocabulary owns the assignment.
type TermID uint64

// ClassLabel is a classification category tag. Any string is a valid label.
type ClassLabel string

// NoLabel is the sentinel label for documents that have not been classified.
const NoLabel = ClassLabel("[NONE]")

// Feature is a (term, weight) pair. Feature lists double as filtering
// allowlists, where only the term key matters.
type Feature struct {
	Term   TermID
	Weight float64
}

// Metric names a pairwise document similarity measure.
type Metric string

const (
	// MetricJaccard is set overlap over the two documents' term keys.
	MetricJaccard Metric = "jaccard"
	// MetricCosine is the cosine of the two term-weight vectors.
	MetricCosine Metric = "cosine"
)

// ParseMetric validates a metric name.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricJaccard, MetricCosine:
		return Metric(s), nil
	}
	return "", ErrUnknownMetric
}
