package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/meridianapps/accounts/internal/accounts/apperr"
	"github.com/meridianapps/accounts/internal/accounts/captcha"
	"github.com/meridianapps/accounts/internal/accounts/store"
	"github.com/meridianapps/accounts/pkg/cryptox"
	"github.com/meridianapps/accounts/pkg/slogx"
	"github.com/meridianapps/accounts/pkg/tokenx"
)

// TokenPair is what a successful login or refresh returns: a short-lived
// session JWT plus a long-lived single-use refresh token.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// SessionService issues and rotates sessions.
type SessionService struct {
	Users     store.Users
	Ephemeral store.Ephemeral
	Codec     *tokenx.Codec
	Captcha   captcha.Verifier

	SessionTTL time.Duration
	RefreshTTL time.Duration
}

func NewSessionService(users store.Users, eph store.Ephemeral, codec *tokenx.Codec, cv captcha.Verifier) *SessionService {
	return &SessionService{
		Users:      users,
		Ephemeral:  eph,
		Codec:      codec,
		Captcha:    cv,
		SessionTTL: DefaultSessionTTL,
		RefreshTTL: DefaultRefreshTTL,
	}
}

// Login authenticates an email/password pair and issues a fresh session.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *SessionService) Login(ctx context.Context, email, password string, ch captcha.Challenge, remoteIP string) (TokenPair, error) {
	if err := mapCaptchaErr(s.Captcha.Verify(ctx, ch, remoteIP)); err != nil {
		return TokenPair{}, err
	}

	user, err := s.Users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return TokenPair{}, apperr.ErrIncorrectEmailOrPassword
	}
	if err != nil {
		return TokenPair{}, fmt.Errorf("looking up user: %w", err)
	}

	if !cryptox.VerifyPassword(password, user.Salt, user.SaltedPassword) {
		return TokenPair{}, apperr.ErrIncorrectEmailOrPassword
	}

	pair, err := s.issue(ctx, user.ID)
	if err != nil {
		return TokenPair{}, err
	}

	slogx.FromContext(ctx).Info("login", "uid", user.ID)
	return pair, nil
}

// Refresh redeems a refresh token and rotates the whole pair. Redemption is
// atomic: of two concurrent calls with the same token, exactly one succeeds.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	val, err := s.Ephemeral.GetDel(ctx, refreshKeyPrefix+refreshToken)
	if errors.Is(err, store.ErrNotFound) {
		return TokenPair{}, apperr.ErrUnauthorized
	}
	if err != nil {
		return TokenPair{}, fmt.Errorf("redeeming refresh token: %w", err)
	}

	uid, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return TokenPair{}, fmt.Errorf("corrupt refresh record %q: %w", val, err)
	}

	pair, err := s.issue(ctx, uid)
	if err != nil {
		return TokenPair{}, err
	}

	slogx.FromContext(ctx).Info("session_refreshed", "uid", uid)
	return pair, nil
}

// issue mints an unscoped session JWT and stores a new refresh token.
func (s *SessionService) issue(ctx context.Context, uid int64) (TokenPair, error) {
	token, err := s.Codec.Mint(uid, nil, s.SessionTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("minting session token: %w", err)
	}

	refresh, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return TokenPair{}, err
	}

	key := refreshKeyPrefix + refresh
	if err := s.Ephemeral.SetWithTTL(ctx, key, strconv.FormatInt(uid, 10), s.RefreshTTL); err != nil {
		return TokenPair{}, fmt.Errorf("storing refresh token: %w", err)
	}

	return TokenPair{Token: token, RefreshToken: refresh}, nil
}
