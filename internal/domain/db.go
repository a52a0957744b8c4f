package domain

import "context"

// Database defines lifecycle operations for the underlying database.
// Each implementation owns its own migration files and strategy, ensuring
// the entire backend is swappable.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
}

// Store hands out repositories bound to a single database handle. Inside a
// transaction every repository shares that transaction.
type Store interface {
	Users() UserRepository
	Lists() ListRepository
	Items() ItemRepository
	Categories() CategoryRepository
}

// Transactor runs fn as one unit of work. Repositories obtained from the
// Store passed to fn see and commit the same transaction; any error from fn
// rolls everything back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}

// DataStore is what services depend on: plain repository access for reads
// plus transactional units of work for compound writes.
type DataStore interface {
	Store
	Transactor
}
