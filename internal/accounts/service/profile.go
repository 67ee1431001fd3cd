package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/meridianapps/accounts/internal/accounts/apperr"
	"github.com/meridianapps/accounts/internal/accounts/domain"
	"github.com/meridianapps/accounts/internal/accounts/store"
)

const (
	minNameLength = 3
	maxNameLength = 25
)

// ProfileService reads and edits account profiles.
type ProfileService struct {
	Users store.Users
}

func NewProfileService(users store.Users) *ProfileService {
	return &ProfileService{Users: users}
}

func (s *ProfileService) Me(ctx context.Context, uid int64) (domain.User, error) {
	user, err := s.Users.FindByID(ctx, uid)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, apperr.ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("looking up user: %w", err)
	}
	return user, nil
}

// Edit applies a partial profile update. Every field is optional; an empty
// update still requires the account to exist. Names are 3 to 25 characters,
// counted in runes so multibyte names aren't short-changed.
func (s *ProfileService) Edit(ctx context.Context, uid int64, name *string) error {
	if name == nil {
		_, err := s.Me(ctx, uid)
		return err
	}

	if n := utf8.RuneCountInString(*name); n < minNameLength || n > maxNameLength {
		return apperr.ErrBadRequest
	}

	err := s.Users.UpdateName(ctx, uid, *name)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("updating name: %w", err)
	}
	return nil
}
