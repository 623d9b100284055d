// Package labelmap provides a Redis/Valkey-backed label mapping so that
// exporter processes sharing one database accumulate a single consistent
// label -> integer table.
package labelmap

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/loomstack/termdex/internal/db"
	"github.com/loomstack/termdex/internal/domain"
	"github.com/loomstack/termdex/internal/domain/document"
)

// store is the consumer interface for label table operations (ISP).
type store interface {
	HSetNX(ctx context.Context, key, field, value string) (bool, error)
	HGet(ctx context.Context, key, field string) (string, error)
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Repo implements the label mapping collaborator on top of the db store.
// Insert-if-absent is atomic across processes (HSETNX); a lost race for the
// same label can leave a gap in the integer sequence, which consumers of the
// sLDA format tolerate.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a label mapping repository. keyPrefix namespaces the hash keys
// (e.g. "termdex:").
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// GetOrAssign returns the stable integer for label, assigning the next
// unused integer on first use. Safe for concurrent callers across processes.
func (r *Repo) GetOrAssign(ctx context.Context, label domain.ClassLabel) (int, error) {
	if idx, err := r.lookup(ctx, label); err == nil {
		return idx, nil
	} else if !errors.Is(err, db.ErrFieldNotFound) {
		return 0, err
	}

	next, err := r.store.IncrBy(ctx, r.keyPrefix+"labels:next", 1)
	if err != nil {
		return 0, fmt.Errorf("label counter: %w", err)
	}
	candidate := int(next - 1)

	set, err := r.store.HSetNX(ctx, r.keyPrefix+"labels", string(label), strconv.Itoa(candidate))
	if err != nil {
		return 0, fmt.Errorf("assign label %q: %w", label, err)
	}
	if !set {
		// Another process won the race; its integer is authoritative.
		return r.lookup(ctx, label)
	}

	rev := map[string]string{strconv.Itoa(candidate): string(label)}
	if err := r.store.HSet(ctx, r.keyPrefix+"labels:rev", rev); err != nil {
		return 0, fmt.Errorf("reverse label %q: %w", label, err)
	}
	return candidate, nil
}

// Label is the reverse lookup: the label assigned the given integer.
func (r *Repo) Label(ctx context.Context, idx int) (domain.ClassLabel, bool, error) {
	val, err := r.store.HGet(ctx, r.keyPrefix+"labels:rev", strconv.Itoa(idx))
	if err != nil {
		if errors.Is(err, db.ErrFieldNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reverse lookup %d: %w", idx, err)
	}
	return domain.ClassLabel(val), true, nil
}

// All returns the full label -> integer table.
func (r *Repo) All(ctx context.Context) (map[domain.ClassLabel]int, error) {
	fields, err := r.store.HGetAll(ctx, r.keyPrefix+"labels")
	if err != nil {
		return nil, fmt.Errorf("load label table: %w", err)
	}
	table := make(map[domain.ClassLabel]int, len(fields))
	for label, raw := range fields {
		idx, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt label table entry %q=%q: %w", label, raw, err)
		}
		table[domain.ClassLabel(label)] = idx
	}
	return table, nil
}

// Initialized reports whether a label table already exists under this
// prefix, meaning a previous export run assigned at least one label.
func (r *Repo) Initialized(ctx context.Context) (bool, error) {
	exists, err := r.store.Exists(ctx, r.keyPrefix+"labels")
	if err != nil {
		return false, fmt.Errorf("check label table: %w", err)
	}
	return exists, nil
}

// Reset drops the label table, its reverse index, and the assignment
// counter. The next GetOrAssign starts the integer sequence from 0 again;
// label files produced before and after a reset must not be mixed.
func (r *Repo) Reset(ctx context.Context) error {
	for _, key := range []string{
		r.keyPrefix + "labels",
		r.keyPrefix + "labels:rev",
		r.keyPrefix + "labels:next",
	} {
		if err := r.store.Del(ctx, key); err != nil {
			return fmt.Errorf("reset label table %s: %w", key, err)
		}
	}
	return nil
}

func (r *Repo) lookup(ctx context.Context, label domain.ClassLabel) (int, error) {
	val, err := r.store.HGet(ctx, r.keyPrefix+"labels", string(label))
	if err != nil {
		if errors.Is(err, db.ErrFieldNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("lookup label %q: %w", label, err)
	}
	idx, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("corrupt label entry %q=%q: %w", label, val, err)
	}
	return idx, nil
}

// Bound adapts the repo to the context-free document.LabelMapping contract
// for the duration of one export run.
func (r *Repo) Bound(ctx context.Context) document.LabelMapping {
	return boundMapping{ctx: ctx, repo: r}
}

type boundMapping struct {
	ctx  context.Context
	repo *Repo
}

func (m boundMapping) GetOrAssign(label domain.ClassLabel) (int, error) {
	idx, err := m.repo.GetOrAssign(m.ctx, label)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", domain.ErrLabelMapUnavailable, err)
	}
	return idx, nil
}
