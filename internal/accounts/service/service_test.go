package service_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/meridianapps/accounts/internal/accounts/captcha"
	"github.com/meridianapps/accounts/internal/accounts/domain"
	"github.com/meridianapps/accounts/internal/accounts/mail"
	redisdriver "github.com/meridianapps/accounts/internal/accounts/store/drivers/redis"
	"github.com/meridianapps/accounts/internal/accounts/store/drivers/sqlite"
	"github.com/meridianapps/accounts/pkg/cryptox"
	"github.com/meridianapps/accounts/pkg/tokenx"
)

// env wires the services against an in-memory database and miniredis.
type env struct {
	db    *sqlite.Store
	eph   *redisdriver.Store
	mr    *miniredis.Miniredis
	codec *tokenx.Codec
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.ApplyMigrations())
	t.Cleanup(func() { _ = db.Close() })

	mr := miniredis.RunT(t)
	eph := redisdriver.NewStoreWithClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = eph.Close() })

	codec, err := tokenx.NewCodec([]byte("service-test-secret"))
	require.NoError(t, err)

	return &env{db: db, eph: eph, mr: mr, codec: codec}
}

// seedUser creates a verified account and returns its ID.
func (e *env) seedUser(t *testing.T, email, password string) int64 {
	t.Helper()

	salt, err := cryptox.NewSalt()
	require.NoError(t, err)

	id, err := e.db.Users().Insert(context.Background(), domain.User{
		Name:           "tester",
		Email:          email,
		SaltedPassword: cryptox.SaltPassword(password, salt),
		Salt:           salt,
	})
	require.NoError(t, err)
	return id
}

func (e *env) seedClient(t *testing.T, c domain.Client) {
	t.Helper()
	require.NoError(t, e.db.Clients().Insert(context.Background(), c))
}

// stubCaptcha fails with a fixed error, or passes when err is nil.
type stubCaptcha struct {
	err error
}

func (s stubCaptcha) Verify(context.Context, captcha.Challenge, string) error { return s.err }

// captureMailer records every message instead of sending it.
type captureMailer struct {
	sent []mail.Message
}

func (m *captureMailer) Send(_ context.Context, msg mail.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}
