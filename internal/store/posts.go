// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

package store

import (
	"context"
	"errors"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/vericapture/vericapture/internal/models"
)

// postIndexKeys returns the feed index keys for a post.
func postIndexKeys(p *models.Post) []string {
	rev := revTsKey(p.CreatedAt)
	return []string{
		prefixPostCreated + rev + ":" + p.ID,
		prefixPostUser + p.UserID + ":" + rev + ":" + p.ID,
		prefixPostCat + strings.ToLower(p.Category) + ":" + rev + ":" + p.ID,
	}
}

// CreatePost stores a new post and its feed index entries.
func (s *Store) CreatePost(_ context.Context, p *models.Post) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	p.Category = strings.ToLower(p.Category)
	if p.Likes == nil {
		p.Likes = []string{}
	}

	return s.update(func(txn *badger.Txn) error {
		for _, key := range postIndexKeys(p) {
			if err := txn.Set([]byte(key), []byte(p.ID)); err != nil {
				return err
			}
		}
		return setDoc(txn, prefixPost+p.ID, p)
	})
}

// GetPost loads a post by ID.
func (s *Store) GetPost(_ context.Context, id string) (*models.Post, error) {
	var p models.Post
	err := s.db.View(func(txn *badger.Txn) error {
		return getDoc(txn, prefixPost+id, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePost persists caption and category changes to an existing post.
// The category feed index moves when the category changes.
func (s *Store) UpdatePost(_ context.Context, p *models.Post) error {
	p.UpdatedAt = time.Now().UTC()
	p.Category = strings.ToLower(p.Category)

	return s.update(func(txn *badger.Txn) error {
		var old models.Post
		if err := getDoc(txn, prefixPost+p.ID, &old); err != nil {
			return err
		}

		if old.Category != p.Category {
			rev := revTsKey(old.CreatedAt)
			if err := deleteKey(txn, prefixPostCat+old.Category+":"+rev+":"+p.ID); err != nil {
				return err
			}
			if err := txn.Set([]byte(prefixPostCat+p.Category+":"+rev+":"+p.ID), []byte(p.ID)); err != nil {
				return err
			}
		}

		return setDoc(txn, prefixPost+p.ID, p)
	})
}

// deletePostTxn removes a post, its indexes, and its whole comment thread
// within the current transaction.
func deletePostTxn(txn *badger.Txn, p *models.Post) error {
	commentIDs, err := collectRefs(txn, prefixCommentPost+p.ID+":")
	if err != nil {
		return err
	}
	for _, commentID := range commentIDs {
		var comment models.Comment
		if err := getDoc(txn, prefixComment+commentID, &comment); err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return err
		}
		// The post is going away, so its comment counter does not matter.
		if err := deleteCommentTxn(txn, &comment, false); err != nil {
			return err
		}
	}

	for _, key := range postIndexKeys(p) {
		if err := deleteKey(txn, key); err != nil {
			return err
		}
	}
	return deleteKey(txn, prefixPost+p.ID)
}

// DeletePostCascade removes a post with its comments and replies, and
// returns the deleted post so the caller can release its media asset.
func (s *Store) DeletePostCascade(_ context.Context, id string) (*models.Post, error) {
	var p models.Post
	err := s.update(func(txn *badger.Txn) error {
		if err := getDoc(txn, prefixPost+id, &p); err != nil {
			return err
		}
		return deletePostTxn(txn, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// loadPostsByIndex collects a page of posts from a feed index prefix.
func (s *Store) loadPostsByIndex(prefix string, page, limit int) ([]*models.Post, int, error) {
	var (
		posts []*models.Post
		total int
	)

	err := s.db.View(func(txn *badger.Txn) error {
		ids, err := collectRefs(txn, prefix)
		if err != nil {
			return err
		}
		total = len(ids)

		for _, id := range paginate(ids, page, limit) {
			var p models.Post
			if err := getDoc(txn, prefixPost+id, &p); err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return err
			}
			post := p
			posts = append(posts, &post)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListPosts returns a page of the global feed, newest first.
func (s *Store) ListPosts(_ context.Context, page, limit int) ([]*models.Post, int, error) {
	return s.loadPostsByIndex(prefixPostCreated, page, limit)
}

// ListPostsByCategory returns a page of one category's feed, newest first.
func (s *Store) ListPostsByCategory(_ context.Context, category string, page, limit int) ([]*models.Post, int, error) {
	return s.loadPostsByIndex(prefixPostCat+strings.ToLower(category)+":", page, limit)
}

// ListPostsByUser returns a page of one author's posts, newest first.
func (s *Store) ListPostsByUser(_ context.Context, userID string, page, limit int) ([]*models.Post, int, error) {
	return s.loadPostsByIndex(prefixPostUser+userID+":", page, limit)
}

// TogglePostLike adds userID to the post's like set if absent, removes it
// if present. The like set and counter change in the same transaction, so
// the counter always equals the set size. Returns the resulting state.
func (s *Store) TogglePostLike(_ context.Context, postID, userID string) (liked bool, likeCount int, err error) {
	err = s.update(func(txn *badger.Txn) error {
		var p models.Post
		if err := getDoc(txn, prefixPost+postID, &p); err != nil {
			return err
		}

		p.Likes, liked = toggleMember(p.Likes, userID)
		p.LikeCount = len(p.Likes)
		p.UpdatedAt = time.Now().UTC()
		likeCount = p.LikeCount

		return setDoc(txn, prefixPost+postID, &p)
	})
	return liked, likeCount, err
}

// IncrementShareCount atomically bumps the post's share counter and
// returns the new value.
func (s *Store) IncrementShareCount(_ context.Context, postID string) (int, error) {
	var count int
	err := s.update(func(txn *badger.Txn) error {
		var p models.Post
		if err := getDoc(txn, prefixPost+postID, &p); err != nil {
			return err
		}
		p.ShareCount++
		p.UpdatedAt = time.Now().UTC()
		count = p.ShareCount
		return setDoc(txn, prefixPost+postID, &p)
	})
	return count, err
}

// toggleMember removes id from set if present, appends it otherwise.
// Reports whether id is a member afterwards.
func toggleMember(set []string, id string) ([]string, bool) {
	for i, member := range set {
		if member == id {
			return append(set[:i], set[i+1:]...), false
		}
	}
	return append(set, id), true
}
