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

// userEmailKey returns the uniqueness key for an e-mail address.
func userEmailKey(email string) string {
	return prefixUserEmail + strings.ToLower(email)
}

// userUnameKey returns the uniqueness key for a username.
func userUnameKey(username string) string {
	return prefixUserUname + strings.ToLower(username)
}

// userFnameKey returns the search index key for a user's first name.
func userFnameKey(firstName, id string) string {
	return prefixUserFname + strings.ToLower(firstName) + ":" + id
}

// CreateUser stores a new user, enforcing e-mail and username uniqueness.
func (s *Store) CreateUser(_ context.Context, u *models.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	u.Email = strings.ToLower(u.Email)

	return s.update(func(txn *badger.Txn) error {
		if exists, err := keyExists(txn, userEmailKey(u.Email)); err != nil {
			return err
		} else if exists {
			return ErrDuplicateEmail
		}

		if u.UserName != "" {
			if exists, err := keyExists(txn, userUnameKey(u.UserName)); err != nil {
				return err
			} else if exists {
				return ErrDuplicateUserName
			}
			if err := txn.Set([]byte(userUnameKey(u.UserName)), []byte(u.ID)); err != nil {
				return err
			}
		}

		if err := txn.Set([]byte(userEmailKey(u.Email)), []byte(u.ID)); err != nil {
			return err
		}
		if err := txn.Set([]byte(userFnameKey(u.FirstName, u.ID)), []byte(u.ID)); err != nil {
			return err
		}
		return setDoc(txn, prefixUser+u.ID, u)
	})
}

// GetUser loads a user by ID.
func (s *Store) GetUser(_ context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.db.View(func(txn *badger.Txn) error {
		return getDoc(txn, prefixUser+id, &u)
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail loads a user by e-mail address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var id string
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		id, err = refValue(txn, userEmailKey(email))
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

// UpdateUser persists changes to an existing user, keeping the username
// and first-name indexes in sync. The e-mail address is immutable.
func (s *Store) UpdateUser(_ context.Context, u *models.User) error {
	u.UpdatedAt = time.Now().UTC()

	return s.update(func(txn *badger.Txn) error {
		var old models.User
		if err := getDoc(txn, prefixUser+u.ID, &old); err != nil {
			return err
		}

		if !strings.EqualFold(old.UserName, u.UserName) {
			if u.UserName != "" {
				if exists, err := keyExists(txn, userUnameKey(u.UserName)); err != nil {
					return err
				} else if exists {
					return ErrDuplicateUserName
				}
				if err := txn.Set([]byte(userUnameKey(u.UserName)), []byte(u.ID)); err != nil {
					return err
				}
			}
			if old.UserName != "" {
				if err := deleteKey(txn, userUnameKey(old.UserName)); err != nil {
					return err
				}
			}
		}

		if !strings.EqualFold(old.FirstName, u.FirstName) {
			if err := deleteKey(txn, userFnameKey(old.FirstName, u.ID)); err != nil {
				return err
			}
			if err := txn.Set([]byte(userFnameKey(u.FirstName, u.ID)), []byte(u.ID)); err != nil {
				return err
			}
		}

		return setDoc(txn, prefixUser+u.ID, u)
	})
}

// DeleteUserCascade removes a user and everything they authored: their
// posts (with full comment threads), plus their comments and replies on
// other users' content, decrementing the affected counters. Likes the
// user placed on surviving content are left intact.
//
// The removed posts are returned so the caller can release their media
// assets; the deleted user is returned for the avatar asset.
func (s *Store) DeleteUserCascade(_ context.Context, userID string) (*models.User, []*models.Post, error) {
	var (
		user    models.User
		removed []*models.Post
	)

	err := s.update(func(txn *badger.Txn) error {
		removed = removed[:0]

		if err := getDoc(txn, prefixUser+userID, &user); err != nil {
			return err
		}

		// Authored posts, full thread cascade.
		postIDs, err := collectRefs(txn, prefixPostUser+userID+":")
		if err != nil {
			return err
		}
		deletedPosts := make(map[string]bool, len(postIDs))
		for _, postID := range postIDs {
			var post models.Post
			if err := getDoc(txn, prefixPost+postID, &post); err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return err
			}
			if err := deletePostTxn(txn, &post); err != nil {
				return err
			}
			deletedPosts[postID] = true
			p := post
			removed = append(removed, &p)
		}

		// Authored comments on other users' posts.
		commentIDs, err := collectRefs(txn, prefixCommentUser+userID+":")
		if err != nil {
			return err
		}
		for _, commentID := range commentIDs {
			var comment models.Comment
			if err := getDoc(txn, prefixComment+commentID, &comment); err != nil {
				if errors.Is(err, ErrNotFound) {
					continue // already removed with an authored post
				}
				return err
			}
			if err := deleteCommentTxn(txn, &comment, !deletedPosts[comment.PostID]); err != nil {
				return err
			}
		}

		// Authored replies still standing after the cascades above.
		replyIDs, err := collectRefs(txn, prefixReplyUser+userID+":")
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
			if err := deleteReplyTxn(txn, &reply, true); err != nil {
				return err
			}
		}

		// The user document and its indexes.
		if user.UserName != "" {
			if err := deleteKey(txn, userUnameKey(user.UserName)); err != nil {
				return err
			}
		}
		if err := deleteKey(txn, userEmailKey(user.Email)); err != nil {
			return err
		}
		if err := deleteKey(txn, userFnameKey(user.FirstName, userID)); err != nil {
			return err
		}
		return deleteKey(txn, prefixUser+userID)
	})
	if err != nil {
		return nil, nil, err
	}
	return &user, removed, nil
}

// collectNameMatches walks the first-name index and collects the IDs of
// users whose name contains query as a substring. The query must already
// be lowercased; index keys store names lowercased.
func collectNameMatches(txn *badger.Txn, query string) ([]string, error) {
	it := txn.NewIterator(prefixIterOptions(prefixUserFname))
	defer it.Close()

	var ids []string
	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		var id string
		err := item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
		if err != nil {
			return nil, err
		}
		name := strings.TrimPrefix(string(item.Key()), prefixUserFname)
		name = strings.TrimSuffix(name, ":"+id)
		if strings.Contains(name, query) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// SearchUsersByFirstName finds users whose first name contains name as a
// case-insensitive substring and returns the requested page of slim
// projections along with the total match count.
func (s *Store) SearchUsersByFirstName(_ context.Context, name string, page, limit int) ([]models.UserSearchResult, int, error) {
	var (
		results []models.UserSearchResult
		total   int
	)

	err := s.db.View(func(txn *badger.Txn) error {
		ids, err := collectNameMatches(txn, strings.ToLower(name))
		if err != nil {
			return err
		}
		total = len(ids)

		for _, id := range paginate(ids, page, limit) {
			var u models.User
			if err := getDoc(txn, prefixUser+id, &u); err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return err
			}
			results = append(results, models.UserSearchResult{
				ID:        u.ID,
				FirstName: u.FirstName,
				Thumbnail: u.Thumbnail,
			})
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}
