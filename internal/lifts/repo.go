package lifts

import "context"

// Repo stores the workout log. All returns entries sorted by date.
type Repo interface {
	All(ctx context.Context) ([]Entry, error)
	Replace(ctx context.Context, entries []Entry) error
	Add(ctx context.Context, entry Entry) error
}

// versioned repos can change underneath the service (e.g. the CSV file
// edited by hand), so their version takes part in prediction cache keys.
type versioned interface {
	Version() uint64
}
