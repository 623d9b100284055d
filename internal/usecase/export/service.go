// Package export writes stored documents in the sLDA input format: one
// term-data line and one label-data line per document, in matching order
// across the two outputs. The line formats are a compatibility contract with
// downstream trainers and must not drift.
package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/loomstack/termdex/internal/metrics"
)

// TermFile and LabelFile are the conventional output names for an export
// run written to a directory.
const (
	TermFile  = "termdex-terms.dat"
	LabelFile = "termdex-labels.dat"
)

// Service streams sLDA training data.
type Service struct {
	docs    DocumentSource
	mapping LabelMapping
}

// New creates an export service.
func New(docs DocumentSource, mapping LabelMapping) *Service {
	return &Service{docs: docs, mapping: mapping}
}

// Run writes one term-data line per document to terms and one label-data line
// per document to labels. Line i of each output describes the same document.
// Returns the number of documents written.
func (s *Service) Run(terms, labels io.Writer) (int, error) {
	tw := bufio.NewWriter(terms)
	lw := bufio.NewWriter(labels)

	written := 0
	for _, doc := range s.docs.All() {
		labelLine, err := doc.SLDALabelData(s.mapping)
		if err != nil {
			metrics.ExportErrorsTotal.Inc()
			return written, fmt.Errorf("resolve label for document %d: %w", doc.ID(), err)
		}

		if _, err := fmt.Fprintln(tw, doc.SLDATermData()); err != nil {
			metrics.ExportErrorsTotal.Inc()
			return written, fmt.Errorf("write term data for document %d: %w", doc.ID(), err)
		}
		if _, err := fmt.Fprintln(lw, labelLine); err != nil {
			metrics.ExportErrorsTotal.Inc()
			return written, fmt.Errorf("write label data for document %d: %w", doc.ID(), err)
		}

		written++
		metrics.ExportDocumentsTotal.Inc()
	}

	if err := tw.Flush(); err != nil {
		metrics.ExportErrorsTotal.Inc()
		return written, fmt.Errorf("flush term data: %w", err)
	}
	if err := lw.Flush(); err != nil {
		metrics.ExportErrorsTotal.Inc()
		return written, fmt.Errorf("flush label data: %w", err)
	}
	return written, nil
}
