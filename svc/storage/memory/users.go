package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/KeeganArn/TaskFlask-sub000/svc/auth"
)

func (s *Store) CreateUser(_ context.Context, u auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.Email = strings.ToLower(u.Email)
	for _, cur := range s.users {
		if cur.Email == u.Email {
			return auth.ErrEmailTaken
		}
	}
	put(s, s.users, u.ID, u)
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id uuid.UUID) (auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = strings.ToLower(email)
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return auth.User{}, auth.ErrUserNotFound
}

func (s *Store) DeleteUser(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return auth.ErrUserNotFound
	}
	remove(s, s.users, id)
	for mid, m := range s.memberships {
		if m.UserID == id {
			remove(s, s.memberships, mid)
		}
	}
	return nil
}
