package domain

import "errors"

var (
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrUnknownMetric signals an unrecognized similarity metric name.
	ErrUnknownMetric = errors.New("unknown similarity metric")
	// ErrCorpusExhausted signals a Next() call past the end of a corpus.
	ErrCorpusExhausted = errors.New("corpus exhausted")
	// ErrInvalidCursor signals a malformed pagination cursor.
	ErrInvalidCursor = errors.New("invalid cursor")
	// ErrLabelMapUnavailable signals a label mapping backend failure.
	ErrLabelMapUnavailable = errors.New("label mapping unavailable")
)
