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

// replyCommentKey returns the per-comment thread index key for a reply.
func replyCommentKey(r *models.Reply) string {
	return prefixReplyComment + r.CommentID + ":" + tsKey(r.CreatedAt) + ":" + r.ID
}

// replyUserKey returns the author cascade index key for a reply.
func replyUserKey(r *models.Reply) string {
	return prefixReplyUser + r.UserID + ":" + r.ID
}

// CreateReply stores a new reply and bumps the parent comment's reply
// counter in the same transaction. The parent's post ID is denormalized
// onto the reply.
func (s *Store) CreateReply(_ context.Context, r *models.Reply) error {
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	if r.Likes == nil {
		r.Likes = []string{}
	}

	return s.update(func(txn *badger.Txn) error {
		var comment models.Comment
		if err := getDoc(txn, prefixComment+r.CommentID, &comment); err != nil {
			return err
		}
		r.PostID = comment.PostID

		comment.ReplyCount++
		if err := setDoc(txn, prefixComment+r.CommentID, &comment); err != nil {
			return err
		}

		if err := txn.Set([]byte(replyCommentKey(r)), []byte(r.ID)); err != nil {
			return err
		}
		if err := txn.Set([]byte(replyUserKey(r)), []byte(r.ID)); err != nil {
			return err
		}
		return setDoc(txn, prefixReply+r.ID, r)
	})
}

// GetReply loads a reply by ID.
func (s *Store) GetReply(_ context.Context, id string) (*models.Reply, error) {
	var r models.Reply
	err := s.db.View(func(txn *badger.Txn) error {
		return getDoc(txn, prefixReply+id, &r)
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRepliesByComment returns a page of a comment's replies, oldest first.
func (s *Store) ListRepliesByComment(_ context.Context, commentID string, page, limit int) ([]*models.Reply, int, error) {
	var (
		replies []*models.Reply
		total   int
	)

	err := s.db.View(func(txn *badger.Txn) error {
		ids, err := collectRefs(txn, prefixReplyComment+commentID+":")
		if err != nil {
			return err
		}
		total = len(ids)

		for _, id := range paginate(ids, page, limit) {
			var r models.Reply
			if err := getDoc(txn, prefixReply+id, &r); err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return err
			}
			reply := r
			replies = append(replies, &reply)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return replies, total, nil
}

// UpdateReply persists text changes to an existing reply.
func (s *Store) UpdateReply(_ context.Context, r *models.Reply) error {
	r.UpdatedAt = time.Now().UTC()
	return s.update(func(txn *badger.Txn) error {
		if exists, err := keyExists(txn, prefixReply+r.ID); err != nil {
			return err
		} else if !exists {
			return ErrNotFound
		}
		return setDoc(txn, prefixReply+r.ID, r)
	})
}

// deleteReplyTxn removes a reply and its indexes within the current
// transaction. When decrementComment is true the parent comment's reply
// counter is decremented; pass false when the comment itself is being
// deleted.
func deleteReplyTxn(txn *badger.Txn, r *models.Reply, decrementComment bool) error {
	if decrementComment {
		var comment models.Comment
		err := getDoc(txn, prefixComment+r.CommentID, &comment)
		switch {
		case errors.Is(err, ErrNotFound):
			// Comment already gone; nothing to decrement.
		case err != nil:
			return err
		default:
			if comment.ReplyCount > 0 {
				comment.ReplyCount--
			}
			if err := setDoc(txn, prefixComment+r.CommentID, &comment); err != nil {
				return err
			}
		}
	}

	if err := deleteKey(txn, replyCommentKey(r)); err != nil {
		return err
	}
	if err := deleteKey(txn, replyUserKey(r)); err != nil {
		return err
	}
	return deleteKey(txn, prefixReply+r.ID)
}

// DeleteReply removes a reply and decrements the parent comment's reply
// counter.
func (s *Store) DeleteReply(_ context.Context, id string) (*models.Reply, error) {
	var r models.Reply
	err := s.update(func(txn *badger.Txn) error {
		if err := getDoc(txn, prefixReply+id, &r); err != nil {
			return err
		}
		return deleteReplyTxn(txn, &r, true)
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ToggleReplyLike toggles userID's like on a reply. The like set and
// counter change together; the counter always equals the set size.
func (s *Store) ToggleReplyLike(_ context.Context, replyID, userID string) (liked bool, likeCount int, err error) {
	err = s.update(func(txn *badger.Txn) error {
		var r models.Reply
		if err := getDoc(txn, prefixReply+replyID, &r); err != nil {
			return err
		}

		r.Likes, liked = toggleMember(r.Likes, userID)
		r.LikeCount = len(r.Likes)
		r.UpdatedAt = time.Now().UTC()
		likeCount = r.LikeCount

		return setDoc(txn, prefixReply+replyID, &r)
	})
	return liked, likeCount, err
}
