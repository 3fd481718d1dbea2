// VeriCapture - Real-Time Truth-Driven Media Capture Platform
// Copyright 2026 VeriCapture
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vericapture/vericapture

package store

import (
	"context"
	"errors"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/vericapture/vericapture/internal/models"
)

// commentPostKey returns the per-post thread index key for a comment.
func commentPostKey(c *models.Comment) string {
	return prefixCommentPost + c.PostID + ":" + tsKey(c.CreatedAt) + ":" + c.ID
}

// commentUserKey returns the author cascade index key for a comment.
func commentUserKey(c *models.Comment) string {
	return prefixCommentUser + c.UserID + ":" + c.ID
}

// CreateComment stores a new comment and bumps the post's comment counter
// in the same transaction.
func (s *Store) CreateComment(_ context.Context, c *models.Comment) error {
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	if c.Likes == nil {
		c.Likes = []string{}
	}

	return s.update(func(txn *badger.Txn) error {
		var post models.Post
		if err := getDoc(txn, prefixPost+c.PostID, &post); err != nil {
			return err
		}
		post.CommentCount++
		if err := setDoc(txn, prefixPost+c.PostID, &post); err != nil {
			return err
		}

		if err := txn.Set([]byte(commentPostKey(c)), []byte(c.ID)); err != nil {
			return err
		}
		if err := txn.Set([]byte(commentUserKey(c)), []byte(c.ID)); err != nil {
			return err
		}
		return setDoc(txn, prefixComment+c.ID, c)
	})
}

// GetComment loads a comment by ID.
func (s *Store) GetComment(_ context.Context, id string) (*models.Comment, error) {
	var c models.Comment
	err := s.db.View(func(txn *badger.Txn) error {
		return getDoc(txn, prefixComment+id, &c)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCommentsByPost returns a page of a post's comments, oldest first.
func (s *Store) ListCommentsByPost(_ context.Context, postID string, page, limit int) ([]*models.Comment, int, error) {
	var (
		comments []*models.Comment
		total    int
	)

	err := s.db.View(func(txn *badger.Txn) error {
		ids, err := collectRefs(txn, prefixCommentPost+postID+":")
		if err != nil {
			return err
		}
		total = len(ids)

		for _, id := range paginate(ids, page, limit) {
			var c models.Comment
			if err := getDoc(txn, prefixComment+id, &c); err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return err
			}
			comment := c
			comments = append(comments, &comment)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// UpdateComment persists text changes to an existing comment.
func (s *Store) UpdateComment(_ context.Context, c *models.Comment) error {
	c.UpdatedAt = time.Now().UTC()
	return s.update(func(txn *badger.Txn) error {
		if exists, err := keyExists(txn, prefixComment+c.ID); err != nil {
			return err
		} else if !exists {
			return ErrNotFound
		}
		return setDoc(txn, prefixComment+c.ID, c)
	})
}

// deleteCommentTxn removes a comment, its replies, and its indexes within
// the current transaction. When decrementPost is true the parent post's
// comment counter is decremented; pass false when the post itself is
// being deleted.
func deleteCommentTxn(txn *badger.Txn, c *models.Comment, decrementPost bool) error {
	replyIDs, err := collectRefs(txn, prefixReplyComment+c.ID+":")
	if err != nil {
		return err
	}
	for _, replyID := range replyIDs {
		var reply models.Reply
		if err := getDoc(txn, prefixReply+replyID, &reply); err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return err
		}
		if err := deleteReplyTxn(txn, &reply, false); err != nil {
			return err
		}
	}

	if decrementPost {
		var post models.Post
		err := getDoc(txn, prefixPost+c.PostID, &post)
		switch {
		case errors.Is(err, ErrNotFound):
			// Post already gone; nothing to decrement.
		case err != nil:
			return err
		default:
			if post.CommentCount > 0 {
				post.CommentCount--
			}
			if err := setDoc(txn, prefixPost+c.PostID, &post); err != nil {
				return err
			}
		}
	}

	if err := deleteKey(txn, commentPostKey(c)); err != nil {
		return err
	}
	if err := deleteKey(txn, commentUserKey(c)); err != nil {
		return err
	}
	return deleteKey(txn, prefixComment+c.ID)
}

// DeleteCommentCascade removes a comment with its replies and decrements
// the parent post's comment counter.
func (s *Store) DeleteCommentCascade(_ context.Context, id string) (*models.Comment, error) {
	var c models.Comment
	err := s.update(func(txn *badger.Txn) error {
		if err := getDoc(txn, prefixComment+id, &c); err != nil {
			return err
		}
		return deleteCommentTxn(txn, &c, true)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ToggleCommentLike toggles userID's like on a comment. The like set and
// counter change together; the counter always equals the set size.
func (s *Store) ToggleCommentLike(_ context.Context, commentID, userID string) (liked bool, likeCount int, err error) {
	err = s.update(func(txn *badger.Txn) error {
		var c models.Comment
		if err := getDoc(txn, prefixComment+commentID, &c); err != nil {
			return err
		}

		c.Likes, liked = toggleMember(c.Likes, userID)
		c.LikeCount = len(c.Likes)
		c.UpdatedAt = time.Now().UTC()
		likeCount = c.LikeCount

		return setDoc(txn, prefixComment+commentID, &c)
	})
	return liked, likeCount, err
}
