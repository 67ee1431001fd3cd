package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/meridianapps/accounts/internal/accounts/apperr"
	"github.com/meridianapps/accounts/internal/accounts/store"
	"github.com/meridianapps/accounts/pkg/cryptox"
	"github.com/meridianapps/accounts/pkg/httpx"
	"github.com/meridianapps/accounts/pkg/scope"
	"github.com/meridianapps/accounts/pkg/slogx"
	"github.com/meridianapps/accounts/pkg/tokenx"
)

// OAuthService implements the authorization code grant: a logged-in user
// approves a client, the client exchanges the resulting code for a scoped
// access token.
type OAuthService struct {
	Clients   store.Clients
	Ephemeral store.Ephemeral
	Codec     *tokenx.Codec

	CodeTTL  time.Duration
	TokenTTL time.Duration
}

func NewOAuthService(clients store.Clients, eph store.Ephemeral, codec *tokenx.Codec) *OAuthService {
	return &OAuthService{
		Clients:   clients,
		Ephemeral: eph,
		Codec:     codec,
		CodeTTL:   DefaultAuthCodeTTL,
		TokenTTL:  DefaultSessionTTL,
	}
}

// AuthorizeRequest carries the query parameters of an authorization request.
type AuthorizeRequest struct {
	ResponseType string
	ClientID     string
	Scopes       string
	RedirectURI  string
	State        string
}

// Authorize validates the request against the registered client, stores a
// short-lived authorization code, and returns the redirect URL the browser
// should follow. All validation happens before anything is written, so a bad
// request leaves no state behind.
func (s *OAuthService) Authorize(ctx context.Context, uid int64, req AuthorizeRequest) (string, error) {
	if req.ResponseType != "code" {
		return "", apperr.ErrBadRequest
	}

	clientID, err := strconv.ParseInt(req.ClientID, 10, 64)
	if err != nil {
		return "", apperr.ErrBadRequest
	}

	// Unknown clients are rejected up front rather than at exchange time, so
	// users never approve a grant that can't be redeemed.
	if _, err := s.Clients.FindByID(ctx, clientID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", apperr.ErrBadRequest
		}
		return "", fmt.Errorf("looking up client: %w", err)
	}

	redirect, err := url.Parse(req.RedirectURI)
	if err != nil || redirect.Scheme == "" {
		return "", apperr.ErrBadRequest
	}

	code, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}

	fields := map[string]string{
		"uid":       strconv.FormatInt(uid, 10),
		"client_id": req.ClientID,
		"scopes":    req.Scopes,
	}
	if err := s.Ephemeral.PutFields(ctx, oauthKeyPrefix+code, fields, s.CodeTTL); err != nil {
		return "", fmt.Errorf("storing authorization code: %w", err)
	}

	// Merge the code into whatever query the redirect URI already carries.
	q := redirect.Query()
	q.Set("code", code)
	if req.State != "" {
		q.Set("state", req.State)
	}
	redirect.RawQuery = q.Encode()

	slogx.FromContext(ctx).Info("authorization_granted", "uid", uid, "client_id", clientID)
	return redirect.String(), nil
}

// Exchange redeems an authorization code for a scoped access token. The
// client the code was granted to is read from the stored record; the caller
// only has to prove possession of that client's secret.
func (s *OAuthService) Exchange(ctx context.Context, code, clientSecret string) (string, error) {
	key := oauthKeyPrefix + code
	fields, err := s.Ephemeral.GetFields(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return "", apperr.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("looking up authorization code: %w", err)
	}

	uid, err := strconv.ParseInt(fields["uid"], 10, 64)
	if err != nil {
		return "", fmt.Errorf("corrupt authorization record: %w", err)
	}
	clientID, err := strconv.ParseInt(fields["client_id"], 10, 64)
	if err != nil {
		return "", fmt.Errorf("corrupt authorization record: %w", err)
	}

	client, err := s.Clients.FindByID(ctx, clientID)
	if errors.Is(err, store.ErrNotFound) {
		return "", apperr.ErrBadRequest
	}
	if err != nil {
		return "", fmt.Errorf("looking up client: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(client.Secret), []byte(clientSecret)) != 1 {
		return "", apperr.ErrUnauthorized
	}

	// Unknown scope names are dropped silently; the token carries only what
	// this service understands.
	var scopes []scope.Scope
	for _, name := range httpx.ParseSpaceDelimitedFields(fields["scopes"]) {
		if sc, ok := scope.Parse(name); ok {
			scopes = append(scopes, sc)
		}
	}

	token, err := s.Codec.Mint(uid, scopes, s.TokenTTL)
	if err != nil {
		return "", fmt.Errorf("minting access token: %w", err)
	}

	// Consume the code only after every check has passed, so a failed
	// exchange doesn't burn it.
	if err := s.Ephemeral.Delete(ctx, key); err != nil {
		return "", fmt.Errorf("consuming authorization code: %w", err)
	}

	slogx.FromContext(ctx).Info("code_exchanged", "uid", uid, "client_id", clientID)
	return token, nil
}
