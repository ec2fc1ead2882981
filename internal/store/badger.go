// Feedwright - Social Feed Ranking and Distribution Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwright

package store

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/feedwright/internal/feed"
)

// Key prefixes for BadgerDB storage.
const (
	postKeyPrefix = "post:"
	userKeyPrefix = "user:"
)

// badgerPersistence writes store records through to BadgerDB.
type badgerPersistence struct {
	db *badger.DB
}

// WithBadger enables write-through persistence on the given database and
// loads all previously persisted posts and users into memory. The store
// does not take ownership of the database; closing it is the caller's job.
func WithBadger(db *badger.DB) Option {
	return func(s *MemoryStore) {
		s.persist = &badgerPersistence{db: db}
		if err := s.loadFromBadger(); err != nil {
			// Never serve a half-loaded store; start empty instead.
			s.logger.Error().Err(err).Msg("failed to load persisted store, starting empty")
			s.posts = make(map[string]feed.Post)
			s.users = make(map[string]User)
		}
	}
}

// OpenBadger opens (or creates) a BadgerDB database at path with Badger's
// own logging disabled. An empty path opens an in-memory database, which
// is what the tests use.
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return db, nil
}

func (s *MemoryStore) loadFromBadger() error {
	return s.persist.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		postPrefix := []byte(postKeyPrefix)
		for it.Seek(postPrefix); it.ValidForPrefix(postPrefix); it.Next() {
			var post feed.Post
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &post)
			}); err != nil {
				return fmt.Errorf("decode post record: %w", err)
			}
			s.posts[post.ID] = post
		}

		userPrefix := []byte(userKeyPrefix)
		for it.Seek(userPrefix); it.ValidForPrefix(userPrefix); it.Next() {
			var user User
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &user)
			}); err != nil {
				return fmt.Errorf("decode user record: %w", err)
			}
			s.users[user.ID] = user
		}

		return nil
	})
}

func (p *badgerPersistence) putPost(post feed.Post) error {
	data, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("marshal post: %w", err)
	}
	return p.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(postKeyPrefix+post.ID), data)
	})
}

func (p *badgerPersistence) putUser(user User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return p.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(userKeyPrefix+user.ID), data)
	})
}
