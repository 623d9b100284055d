package similarity

import (
	"github.com/loomstack/termdex/internal/domain"
	"github.com/loomstack/termdex/internal/domain/document"
)

// DocumentReader reads stored documents for scoring.
type DocumentReader interface {
	Get(id domain.DocID) (document.Document, error)
	All() []document.Document
}
