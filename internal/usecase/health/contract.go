package health

import "context"

// DocumentCounter reports how many documents the store holds.
type DocumentCounter interface {
	Count() int
}

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}
