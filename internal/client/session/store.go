package session

import (
	"context"
	"encoding/json"
	"fmt"

	"profilecli/internal/client/models"
	"profilecli/internal/client/repositories/localstore"
	"profilecli/internal/common"
)

// Session pairs the auth token with the last server-confirmed user snapshot.
type Session struct {
	Token string
	User  *models.UserProfile
}

// Store persists the session in the two fixed storage slots. Both slots are
// always written and cleared together.
type Store struct {
	repo localstore.Repository
}

func NewStore(repo localstore.Repository) *Store {
	return &Store{repo: repo}
}

// Save writes token and snapshot.
func (s *Store) Save(ctx context.Context, token string, user *models.UserProfile) error {
	if err := s.repo.Set(ctx, common.StorageKeyToken, []byte(token)); err != nil {
		return err
	}
	return s.SaveUser(ctx, user)
}

// SaveUser replaces the cached snapshot. The snapshot is always written
// whole, never merged field by field.
func (s *Store) SaveUser(ctx context.Context, user *models.UserProfile) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding user snapshot: %w", err)
	}
	return s.repo.Set(ctx, common.StorageKeyUser, data)
}

// Token returns the persisted token, or "" when no session exists.
func (s *Store) Token(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, common.StorageKeyToken)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// Load reads the persisted session. Returns common.ErrNoSession when no
// token is stored.
func (s *Store) Load(ctx context.Context) (*Session, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, common.ErrNoSession
	}

	sess := &Session{Token: token}

	data, err := s.repo.Get(ctx, common.StorageKeyUser)
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		var u models.UserProfile
		if err := json.Unmarshal(data, &u); err != nil {
			return nil, fmt.Errorf("decoding user snapshot: %w", err)
		}
		sess.User = &u
	}
	return sess, nil
}

// Clear removes both slots. The store holds nothing but the session, so
// clearing the whole repository is the same operation.
func (s *Store) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}
