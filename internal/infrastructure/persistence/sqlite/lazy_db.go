package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/bnema/tooldeck/internal/application/port"
	"github.com/bnema/tooldeck/internal/domain/entity"
	"github.com/bnema/tooldeck/internal/domain/repository"
	"github.com/bnema/tooldeck/internal/logging"
)

// LazyDB implements port.DatabaseProvider with lazy initialization.
// The connection is created on first access, deferring the WASM compilation
// and migration overhead until a remembered view is actually read or written.
type LazyDB struct {
	dbPath string
	once   sync.Once

	mu  sync.RWMutex
	db  *sql.DB
	err error
}

// Compile-time interface check.
var _ port.DatabaseProvider = (*LazyDB)(nil)

// NewLazyDB creates a new lazy database provider.
// The actual connection is not established until DB() is called.
func NewLazyDB(dbPath string) *LazyDB {
	return &LazyDB{dbPath: dbPath}
}

// DB returns the database connection, initializing it if necessary.
// This method is thread-safe and will only initialize once.
func (l *LazyDB) DB(ctx context.Context) (*sql.DB, error) {
	l.once.Do(func() {
		log := logging.FromContext(ctx)
		log.Debug().Str("path", l.dbPath).Msg("lazy database initialization starting")

		db, err := NewConnection(ctx, l.dbPath)
		if err != nil {
			log.Error().Err(err).Msg("lazy database initialization failed")
		}

		l.mu.Lock()
		l.db, l.err = db, err
		l.mu.Unlock()
	})

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.err != nil {
		return nil, fmt.Errorf("database initialization failed: %w", l.err)
	}
	return l.db, nil
}

// Close closes the database connection if it was initialized.
func (l *LazyDB) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	l.err = fmt.Errorf("database closed")
	return err
}

// IsInitialized returns true if the database has been initialized.
func (l *LazyDB) IsInitialized() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.db != nil
}

// Path returns the database path.
func (l *LazyDB) Path() string {
	return l.dbPath
}

// LazyViewStateRepository wraps the view state repository with lazy database
// initialization.
type LazyViewStateRepository struct {
	provider port.DatabaseProvider
	repo     repository.ViewStateRepository
	once     sync.Once
	initErr  error
}

// NewLazyViewStateRepository creates a lazy-loading view state repository.
func NewLazyViewStateRepository(provider port.DatabaseProvider) repository.ViewStateRepository {
	return &LazyViewStateRepository{provider: provider}
}

func (r *LazyViewStateRepository) init(ctx context.Context) error {
	r.once.Do(func() {
		db, err := r.provider.DB(ctx)
		if err != nil {
			r.initErr = err
			return
		}
		r.repo = NewViewStateRepository(db)
	})
	return r.initErr
}

func (r *LazyViewStateRepository) Get(ctx context.Context, fp entity.Fingerprint) (*entity.RememberedView, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	return r.repo.Get(ctx, fp)
}

func (r *LazyViewStateRepository) Save(ctx context.Context, view *entity.RememberedView) error {
	if err := r.init(ctx); err != nil {
		return err
	}
	return r.repo.Save(ctx, view)
}

func (r *LazyViewStateRepository) Delete(ctx context.Context, fp entity.Fingerprint) error {
	if err := r.init(ctx); err != nil {
		return err
	}
	return r.repo.Delete(ctx, fp)
}

func (r *LazyViewStateRepository) Recent(ctx context.Context, limit int) ([]*entity.RememberedView, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	return r.repo.Recent(ctx, limit)
}
