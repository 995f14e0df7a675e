package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	domainerrors "github.com/shelfmarkapp/shelfmark-server/internal/errors"
)

const (
	userPrefix        = "user:"
	usernameIdxPrefix = "uname:"
)

func usernameIndexKey(username string) []byte {
	return []byte(usernameIdxPrefix + strings.ToLower(username))
}

// CreateUser persists a new user, enforcing username uniqueness
// (case-insensitive) via an index key written in the same transaction.
func (s *Store) CreateUser(_ context.Context, user *domain.User) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		idxKey := usernameIndexKey(user.Username)

		_, err := txn.Get(idxKey)
		if err == nil {
			return domainerrors.Conflict("username already taken")
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		data, err := json.Marshal(user)
		if err != nil {
			return err
		}
		if err := txn.Set([]byte(userPrefix+user.ID), data); err != nil {
			return err
		}
		return txn.Set(idxKey, []byte(user.ID))
	})

	var domainErr *domainerrors.Error
	if domainerrors.As(err, &domainErr) {
		return err
	}
	return wrapStoreErr("create user", err)
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(_ context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := s.get([]byte(userPrefix+id), &user)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domainerrors.NotFound("user not found")
	}
	if err != nil {
		return nil, wrapStoreErr("get user", err)
	}
	return &user, nil
}

// GetUserByUsername resolves a username through the index, then loads the
// user document.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var id string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(usernameIndexKey(username))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domainerrors.NotFound("user not found")
	}
	if err != nil {
		return nil, wrapStoreErr("get user by username", err)
	}
	return s.GetUser(ctx, id)
}
