package export

import (
	"github.com/loomstack/termdex/internal/domain"
	"github.com/loomstack/termdex/internal/domain/document"
)

// DocumentSource yields the documents to export, in a stable order.
type DocumentSource interface {
	All() []document.Document
}

// LabelMapping resolves class labels to their exported integers.
type LabelMapping interface {
	GetOrAssign(label domain.ClassLabel) (int, error)
}
