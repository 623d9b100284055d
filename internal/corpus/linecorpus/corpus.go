// Package linecorpus reads a corpus stored as one document per line,
// with classification labels in an optional parallel file.
package linecorpus

import (
	"fmt"
	"os"
	"strings"

	"github.com/loomstack/termdex/internal/domain"
	"github.com/loomstack/termdex/internal/domain/document"
)

// Corpus iterates over the lines of a documents file. Lines are loaded
// eagerly at construction; line N of the labels file labels document N.
type Corpus struct {
	path   string
	lines  []string
	labels []domain.ClassLabel
	cur    int
}

// New creates a line corpus. labelsPath may be empty; when given, the file
// must have exactly one label line per document line.
func New(path, labelsPath string) (*Corpus, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, fmt.Errorf("read documents %s: %w", path, err)
	}

	c := &Corpus{path: path, lines: lines}
	if labelsPath == "" {
		return c, nil
	}

	labelLines, err := readLines(labelsPath)
	if err != nil {
		return nil, fmt.Errorf("read labels %s: %w", labelsPath, err)
	}
	if len(labelLines) != len(lines) {
		return nil, fmt.Errorf(
			"labels file %s has %d lines, documents file has %d",
			labelsPath, len(labelLines), len(lines),
		)
	}

	c.labels = make([]domain.ClassLabel, len(labelLines))
	for i, l := range labelLines {
		c.labels[i] = domain.ClassLabel(strings.TrimSpace(l))
	}
	return c, nil
}

// HasNext reports whether another document remains.
func (c *Corpus) HasNext() bool { return c.cur < len(c.lines) }

// Next returns the document for the current line and advances.
func (c *Corpus) Next() (document.Document, error) {
	if !c.HasNext() {
		return document.Document{}, domain.ErrCorpusExhausted
	}

	label := domain.NoLabel
	if c.labels != nil {
		label = c.labels[c.cur]
	}

	doc := document.New(
		fmt.Sprintf("%s:%d", c.path, c.cur+1),
		domain.DocID(c.cur),
		label,
	)
	doc.SetContent(c.lines[c.cur])
	c.cur++
	return doc, nil
}

// Len returns the total number of documents in the corpus.
func (c *Corpus) Len() int { return len(c.lines) }

// readLines loads a file and splits it into lines, dropping a trailing
// empty line left by a final newline.
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines, nil
}
