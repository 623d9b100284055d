// Package filecorpus reads a corpus described by an index file of
// "label path" entries, one referenced file per document.
package filecorpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/loomstack/termdex/internal/domain"
	"github.com/loomstack/termdex/internal/domain/document"
)

// entry is one parsed index line.
type entry struct {
	label domain.ClassLabel
	path  string
}

// Corpus iterates over the files listed in an index. File contents are read
// lazily, one document per Next call. Relative paths resolve against the
// index file's directory.
type Corpus struct {
	entries []entry
	cur     int
}

// New parses the index file. Each non-blank line is either "label path" or
// a bare path (unlabeled document). Paths may contain spaces; only the
// first field is split off as the label.
func New(indexPath string) (*Corpus, error) {
	data, err := os.ReadFile(indexPath)
	if err != nil {
		return nil, fmt.Errorf("read index %s: %w", indexPath, err)
	}

	dir := filepath.Dir(indexPath)
	var entries []entry
	for lineNo, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		label, rest, found := strings.Cut(line, " ")
		var e entry
		if !found {
			e = entry{label: domain.NoLabel, path: label}
		} else {
			e = entry{label: domain.ClassLabel(label), path: strings.TrimSpace(rest)}
		}
		if e.path == "" {
			return nil, fmt.Errorf("index %s line %d: missing path", indexPath, lineNo+1)
		}
		if !filepath.IsAbs(e.path) {
			e.path = filepath.Join(dir, e.path)
		}
		entries = append(entries, e)
	}

	return &Corpus{entries: entries}, nil
}

// HasNext reports whether another document remains.
func (c *Corpus) HasNext() bool { return c.cur < len(c.entries) }

// Next reads the current entry's file and returns it as a document.
func (c *Corpus) Next() (document.Document, error) {
	if !c.HasNext() {
		return document.Document{}, domain.ErrCorpusExhausted
	}

	id := domain.DocID(c.cur)
	e := c.entries[c.cur]
	c.cur++

	data, err := os.ReadFile(e.path)
	if err != nil {
		return document.Document{}, fmt.Errorf("read document %s: %w", e.path, err)
	}

	doc := document.New(e.path, id, e.label)
	doc.SetContent(string(data))
	return doc, nil
}

// Len returns the total number of documents in the corpus.
func (c *Corpus) Len() int { return len(c.entries) }
