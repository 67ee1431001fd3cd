// Package store defines the persistence interfaces the services depend on.
// Durable state (users, OAuth clients) and ephemeral state (refresh tokens,
// pending registrations, authorization codes) live behind separate
// interfaces because they have different backends and different lifetimes.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/meridianapps/accounts/internal/accounts/domain"
)

// ErrNotFound is returned when a requested record does not exist. Drivers
// translate their backend's miss sentinel to this value.
var ErrNotFound = errors.New("store: not found")

// Users is durable account storage.
type Users interface {
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByID(ctx context.Context, id int64) (domain.User, error)
	// Insert stores a new user and returns its assigned ID.
	Insert(ctx context.Context, u domain.User) (int64, error)
	UpdateName(ctx context.Context, id int64, name string) error
}

// Clients is durable OAuth client storage.
type Clients interface {
	FindByID(ctx context.Context, id int64) (domain.Client, error)
	// Insert registers a client. Used by seeding and tests.
	Insert(ctx context.Context, c domain.Client) error
}

// Ephemeral is TTL-bound key/value storage for single-use credentials. All
// reads of missing or expired keys return ErrNotFound.
type Ephemeral interface {
	// SetWithTTL stores a plain string value that expires after ttl.
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	// GetDel atomically reads and deletes a plain string value, so a token
	// can be redeemed by at most one caller.
	GetDel(ctx context.Context, key string) (string, error)

	// PutFields stores a field map under key with a TTL on the whole record.
	PutFields(ctx context.Context, key string, fields map[string]string, ttl time.Duration) error
	// GetFields reads a field map without consuming it.
	GetFields(ctx context.Context, key string) (map[string]string, error)
	// RedeemFields atomically reads and deletes a field map.
	RedeemFields(ctx context.Context, key string) (map[string]string, error)

	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}
