// Package corpus reads documents from durable storage. A corpus is consumed
// once, front to back; documents come out with sequential IDs, their label
// (when the format carries one), and their raw content stored.
package corpus

import (
	"fmt"

	"github.com/loomstack/termdex/internal/corpus/filecorpus"
	"github.com/loomstack/termdex/internal/corpus/linecorpus"
	"github.com/loomstack/termdex/internal/domain/document"
)

// Corpus streams documents in a fixed order.
type Corpus interface {
	// HasNext reports whether another document remains.
	HasNext() bool
	// Next returns the next document. Calling past the end returns
	// domain.ErrCorpusExhausted.
	Next() (document.Document, error)
}

// Kind names a corpus format.
type Kind string

const (
	// KindLine is one document per line of a single file.
	KindLine Kind = "line"
	// KindFile is an index file of "label path" entries, one file per document.
	KindFile Kind = "file"
)

// Open creates a corpus of the given kind. For KindLine, path is the
// documents file and labelsPath the optional parallel labels file. For
// KindFile, path is the index file and labelsPath is ignored.
func Open(kind Kind, path, labelsPath string) (Corpus, error) {
	switch kind {
	case KindLine:
		return linecorpus.New(path, labelsPath)
	case KindFile:
		return filecorpus.New(path)
	}
	return nil, fmt.Errorf("unknown corpus kind %q", kind)
}
