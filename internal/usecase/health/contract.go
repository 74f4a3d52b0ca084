package health

import "context"

// DBPinger checks record store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// EngineChecker checks that the search engine can accept work.
type EngineChecker interface {
	Ready() error
}
