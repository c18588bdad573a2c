// Package session holds the authenticated-user state for the CardMaker
// client, persisted in a local Badger database so it survives restarts
// until an explicit logout.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/cardmakerapp/cardmaker-go/internal/domain"
)

// Storage keys for the persisted session entries.
const (
	keyToken    = "session:jwtToken"
	keyUsername = "session:username"
	keyUserID   = "session:userId"
)

// Subscriber receives the session value on registration and after every
// subsequent change. Callbacks run synchronously under the store lock and
// must not call back into the Store.
type Subscriber func(domain.Session)

// Store is the process-wide owner of the current session. Set fully
// replaces the value; every change is persisted before subscribers are
// notified, in subscription order, before the mutating call returns.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	mu      sync.Mutex
	current domain.Session
	subs    []subscription
	nextID  int
}

type subscription struct {
	id int
	fn Subscriber
}

// Open opens (creating if necessary) the session database at path and
// loads the persisted session. Absent entries load as empty strings.
func Open(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil      // Disable Badger's internal logging
	opts.SyncWrites = true // Session must survive an unclean shutdown

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open session db: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger,
	}
	if err := s.load(); err != nil {
		_ = db.Close()
		return nil, err
	}

	if logger != nil {
		logger.Debug("session store opened",
			"path", path,
			"active", s.current.Active(),
		)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) load() error {
	var sess domain.Session

	err := s.db.View(func(txn *badger.Txn) error {
		read := func(key string, dst *string) error {
			item, err := txn.Get([]byte(key))
			if errors.Is(err, badger.ErrKeyNotFound) {
				*dst = ""
				return nil
			}
			if err != nil {
				return err
			}
			return item.Value(func(val []byte) error {
				*dst = string(val)
				return nil
			})
		}

		if err := read(keyToken, &sess.Token); err != nil {
			return err
		}
		if err := read(keyUsername, &sess.Username); err != nil {
			return err
		}
		return read(keyUserID, &sess.UserID)
	})
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	s.current = sess
	return nil
}

// Current returns the session value.
func (s *Store) Current() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set replaces the session value, persists it, and notifies every current
// subscriber before returning.
func (s *Store) Set(sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(keyToken), []byte(sess.Token)); err != nil {
			return err
		}
		if err := txn.Set([]byte(keyUsername), []byte(sess.Username)); err != nil {
			return err
		}
		return txn.Set([]byte(keyUserID), []byte(sess.UserID))
	})
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.current = sess
	s.notifyLocked()
	return nil
}

// Clear wipes the durable entries and resets the in-memory session to
// all-empty strings, notifying subscribers.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(txn *badger.Txn) error {
		for _, key := range []string{keyToken, keyUsername, keyUserID} {
			if err := txn.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	s.current = domain.Session{}
	s.notifyLocked()
	return nil
}

// Subscribe registers fn, delivers the current value to it immediately,
// and returns a func that unregisters it. Subscribers are notified in
// subscription order on every subsequent Set or Clear.
func (s *Store) Subscribe(fn Subscriber) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	fn(s.current)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notifyLocked() {
	for _, sub := range s.subs {
		sub.fn(s.current)
	}
}
