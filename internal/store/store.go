// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

// Package store persists VeriCapture entities in an embedded BadgerDB
// document store. Each entity is a JSON document under a type prefix,
// with secondary index keys for uniqueness checks and ordered scans.
//
// Key layout:
//
//	user:{id}                                  user document
//	user_email:{email}                         email -> user id (uniqueness)
//	user_uname:{username}                      username -> user id (uniqueness)
//	idx:user_fname:{firstname}:{id}            first-name prefix search
//	post:{id}                                  post document
//	idx:post_created:{revts}:{id}              global feed, newest first
//	idx:post_user:{userID}:{revts}:{id}        per-author feed
//	idx:post_cat:{category}:{revts}:{id}       per-category feed
//	comment:{id}                               comment document
//	idx:comment_post:{postID}:{ts}:{id}        per-post thread, oldest first
//	idx:comment_user:{userID}:{id}             author cascade
//	reply:{id}                                 reply document
//	idx:reply_comment:{commentID}:{ts}:{id}    per-comment thread, oldest first
//	idx:reply_user:{userID}:{id}               author cascade
//
// Mutations that must stay consistent (like toggles and their counters,
// comment creation and the post's comment counter) run inside one Badger
// transaction; write conflicts are retried.
package store

import (
	"errors"
	"fmt"
	"math"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/vericapture/vericapture/internal/config"
	"github.com/vericapture/vericapture/internal/logging"
)

// Key prefixes. Values under idx: prefixes hold the target document ID.
const (
	prefixUser      = "user:"
	prefixUserEmail = "user_email:"
	prefixUserUname = "user_uname:"
	prefixUserFname = "idx:user_fname:"

	prefixPost        = "post:"
	prefixPostCreated = "idx:post_created:"
	prefixPostUser    = "idx:post_user:"
	prefixPostCat     = "idx:post_cat:"

	prefixComment     = "comment:"
	prefixCommentPost = "idx:comment_post:"
	prefixCommentUser = "idx:comment_user:"

	prefixReply        = "reply:"
	prefixReplyComment = "idx:reply_comment:"
	prefixReplyUser    = "idx:reply_user:"
)

// maxTxnRetries bounds optimistic transaction retries on write conflict.
const maxTxnRetries = 25

// Store is the Badger-backed document store for all VeriCapture entities.
type Store struct {
	db             *badger.DB
	gcDiscardRatio float64
}

// Open opens (or creates) the store at the configured path.
func Open(cfg config.DatabaseConfig) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
	}

	// Badger's own logger is noisy; everything relevant is logged here.
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	ratio := cfg.GCDiscardRatio
	if ratio <= 0 || ratio >= 1 {
		ratio = 0.5
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Msg("document store opened")

	return &Store{db: db, gcDiscardRatio: ratio}, nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is usable. Used by the readiness probe.
func (s *Store) Ping() error {
	return s.db.View(func(txn *badger.Txn) error {
		return nil
	})
}

// RunGC runs value log garbage collection until no more space can be
// reclaimed. Called periodically by the data-layer supervisor service.
func (s *Store) RunGC() error {
	for {
		err := s.db.RunValueLogGC(s.gcDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// update runs fn in a read-write transaction, retrying on write conflict.
func (s *Store) update(fn func(txn *badger.Txn) error) error {
	var err error
	for i := 0; i < maxTxnRetries; i++ {
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		time.Sleep(time.Duration(i+1) * time.Millisecond)
	}
	return fmt.Errorf("transaction conflict persisted after %d retries: %w", maxTxnRetries, err)
}

// getDoc unmarshals the JSON document at key into out.
// Returns ErrNotFound if the key is absent.
func getDoc(txn *badger.Txn, key string, out interface{}) error {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, out)
	})
}

// setDoc marshals v and stores it at key.
func setDoc(txn *badger.Txn, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return txn.Set([]byte(key), data)
}

// keyExists reports whether key is present.
func keyExists(txn *badger.Txn, key string) (bool, error) {
	_, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// refValue returns the string value stored at key (index targets).
func refValue(txn *badger.Txn, key string) (string, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	var id string
	err = item.Value(func(val []byte) error {
		id = string(val)
		return nil
	})
	return id, err
}

// deleteKey removes key, tolerating absence.
func deleteKey(txn *badger.Txn, key string) error {
	if err := txn.Delete([]byte(key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return err
	}
	return nil
}

// deletePrefix removes every key under prefix.
func deletePrefix(txn *badger.Txn, prefix string) error {
	it := txn.NewIterator(prefixIterOptions(prefix))
	defer it.Close()

	var keys [][]byte
	for it.Rewind(); it.Valid(); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	for _, k := range keys {
		if err := txn.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// prefixIterOptions returns iterator options scoped to prefix.
func prefixIterOptions(prefix string) badger.IteratorOptions {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	return opts
}

// collectRefs collects index target IDs under prefix in key order.
func collectRefs(txn *badger.Txn, prefix string) ([]string, error) {
	it := txn.NewIterator(prefixIterOptions(prefix))
	defer it.Close()

	var ids []string
	for it.Rewind(); it.Valid(); it.Next() {
		err := it.Item().Value(func(val []byte) error {
			ids = append(ids, string(val))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// tsKey encodes t so lexicographic key order matches chronological order.
func tsKey(t time.Time) string {
	return fmt.Sprintf("%020d", t.UnixNano())
}

// revTsKey encodes t so lexicographic key order is reverse chronological.
// Feed indexes use this so a forward scan yields newest first.
func revTsKey(t time.Time) string {
	return fmt.Sprintf("%020d", math.MaxInt64-t.UnixNano())
}

// defaultLimit is the page size applied when a caller passes a
// non-positive limit. It matches the HTTP layer's default.
const defaultLimit = 20

// paginate slices ids for a 1-based page of the given limit.
func paginate(ids []string, page, limit int) []string {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	start := (page - 1) * limit
	if start >= len(ids) {
		return nil
	}
	end := start + limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[start:end]
}
