package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/Samdami/Altsamdamiblog/app/models"
)

// BadgerSessionRepository implements SessionRepository using BadgerDB. Expiry is
// enforced by Badger's per-entry TTL.
type BadgerSessionRepository struct {
	db *badger.DB
}

// NewBadgerSessionRepository creates a new BadgerSessionRepository
func NewBadgerSessionRepository(db *badger.DB) *BadgerSessionRepository {
	return &BadgerSessionRepository{db: db}
}

// Create stores a session under key for ttl
func (r *BadgerSessionRepository) Create(_ context.Context, key string, session *models.Session, ttl time.Duration) error {
	data, err := marshalEntity(session)
	if err != nil {
		return err
	}

	return r.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(sessionKey(key), data).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
}

// Get retrieves a live session by key
func (r *BadgerSessionRepository) Get(_ context.Context, key string) (*models.Session, error) {
	var session models.Session

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &session)
		})
	})

	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes a session. Deleting a missing key is not an error.
func (r *BadgerSessionRepository) Delete(_ context.Context, key string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(sessionKey(key))
	})
}

// Count returns the number of live sessions.
func (r *BadgerSessionRepository) Count() (int, error) {
	count := 0
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(SessionKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// Ping reports whether the underlying database is still open.
func (r *BadgerSessionRepository) Ping(context.Context) error {
	if r.db.IsClosed() {
		return errors.New("session store is closed")
	}
	return nil
}

// CollectGarbage runs Badger value-log GC until there is nothing left to reclaim.
func (r *BadgerSessionRepository) CollectGarbage() (int, error) {
	runs := 0
	for {
		err := r.db.RunValueLogGC(0.5)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) || errors.Is(err, badger.ErrGCInMemoryMode) {
			return runs, nil
		}
		if err != nil {
			return runs, fmt.Errorf("value log gc: %w", err)
		}
		runs++
	}
}

// Backup streams a full backup of the session store to w.
func (r *BadgerSessionRepository) Backup(w io.Writer) error {
	if _, err := r.db.Backup(w, 0); err != nil {
		return fmt.Errorf("failed to backup sessions: %w", err)
	}
	return nil
}

// Restore loads a backup produced by Backup.
func (r *BadgerSessionRepository) Restore(rd io.Reader) error {
	if err := r.db.Load(rd, 4); err != nil {
		return fmt.Errorf("failed to restore sessions: %w", err)
	}
	return nil
}
