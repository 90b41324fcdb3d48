package services

import (
	"context"
	"strings"
)

type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	InsertUser(ctx context.Context, name, email string) (int64, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, id int64, name, email string) (bool, error)
	// DeleteUserCascade removes the user, their submissions, and those
	// submissions' responses in a single transaction.
	DeleteUserCascade(ctx context.Context, id int64) (bool, error)
}

type UserService struct {
	store UserStore
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

// CheckOrCreate finds a user by email or lazily creates one. The returned
// flag reports whether a new row was created, which drives the 200-vs-201
// distinction at the boundary.
func (s *UserService) CheckOrCreate(ctx context.Context, name, email string) (int64, bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return 0, false, NewInvalidError("email required")
	}
	existing, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		return 0, false, err
	}
	if existing != nil {
		return existing.ID, false, nil
	}
	id, err := s.store.InsertUser(ctx, strings.TrimSpace(name), email)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (s *UserService) List(ctx context.Context) ([]User, error) {
	return s.store.ListUsers(ctx)
}

func (s *UserService) Update(ctx context.Context, id int64, name, email string) error {
	if id <= 0 || strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return NewInvalidError("missing fields")
	}
	found, err := s.store.UpdateUser(ctx, id, name, email)
	if err != nil {
		return err
	}
	if !found {
		return NewNotFoundError("user not found")
	}
	return nil
}

// Delete removes a user and everything they own. No orphaned submissions or
// responses may survive the call.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewInvalidError("user id required")
	}
	found, err := s.store.DeleteUserCascade(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return NewNotFoundError("user not found")
	}
	return nil
}
