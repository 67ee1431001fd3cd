package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meridianapps/accounts/internal/accounts/apperr"
	"github.com/meridianapps/accounts/internal/accounts/captcha"
	"github.com/meridianapps/accounts/internal/accounts/service"
)

const verifyBaseURL = "https://accounts.example.com/v0/verify"

func newRegistrationService(e *env, mailer *captureMailer) *service.RegistrationService {
	return service.NewRegistrationService(e.db.Users(), e.eph, captcha.Allow{}, mailer, verifyBaseURL)
}

// verifyTokenFromEmail pulls the token query parameter out of the emailed link.
func verifyTokenFromEmail(t *testing.T, html string) string {
	t.Helper()

	_, rest, found := strings.Cut(html, verifyBaseURL+"?token=")
	require.True(t, found, "email should contain a verification link")
	token, _, _ := strings.Cut(rest, `"`)
	require.NotEmpty(t, token)
	return token
}

func TestRegister(t *testing.T) {
	e := newEnv(t)
	mailer := &captureMailer{}
	svc := newRegistrationService(e, mailer)
	ctx := context.Background()

	t.Run("rejects malformed email", func(t *testing.T) {
		err := svc.Register(ctx, "not-an-email", "pw", captcha.Challenge{}, "")
		require.ErrorIs(t, err, apperr.ErrBadRequest)

		err = svc.Register(ctx, "Display Name <a@example.com>", "pw", captcha.Challenge{}, "")
		require.ErrorIs(t, err, apperr.ErrBadRequest)
	})

	t.Run("rejects already registered email", func(t *testing.T) {
		e.seedUser(t, "taken@example.com", "pw")
		err := svc.Register(ctx, "taken@example.com", "pw", captcha.Challenge{}, "")
		require.ErrorIs(t, err, apperr.ErrRegisteredEmail)
	})

	t.Run("sends a verification link", func(t *testing.T) {
		err := svc.Register(ctx, "dave@example.com", "pw", captcha.Challenge{}, "")
		require.NoError(t, err)

		require.Len(t, mailer.sent, 1)
		msg := mailer.sent[0]
		require.Equal(t, "dave@example.com", msg.To)
		require.Contains(t, msg.HTML, verifyBaseURL+"?token=")
	})

	t.Run("captcha failure blocks registration", func(t *testing.T) {
		blocked := service.NewRegistrationService(
			e.db.Users(), e.eph, stubCaptcha{err: captcha.ErrInvalid}, mailer, verifyBaseURL)
		err := blocked.Register(ctx, "eve@example.com", "pw", captcha.Challenge{}, "")
		require.ErrorIs(t, err, apperr.ErrInvalidCaptcha)
	})
}

func TestVerify(t *testing.T) {
	e := newEnv(t)
	mailer := &captureMailer{}
	svc := newRegistrationService(e, mailer)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "frank@example.com", "client-hash", captcha.Challenge{}, ""))
	token := verifyTokenFromEmail(t, mailer.sent[0].HTML)

	t.Run("wrong token", func(t *testing.T) {
		require.ErrorIs(t, svc.Verify(ctx, "bogus"), apperr.ErrNotFound)
	})

	t.Run("creates the account", func(t *testing.T) {
		require.NoError(t, svc.Verify(ctx, token))

		user, err := e.db.Users().FindByEmail(ctx, "frank@example.com")
		require.NoError(t, err)
		require.Equal(t, "frank", user.Name, "default name is the mailbox local part")

		// The account is immediately usable for login.
		sessions := newSessionService(e)
		_, err = sessions.Login(ctx, "frank@example.com", "client-hash", captcha.Challenge{}, "")
		require.NoError(t, err)
	})

	t.Run("token is single-use", func(t *testing.T) {
		require.ErrorIs(t, svc.Verify(ctx, token), apperr.ErrNotFound)
	})
}

func TestVerifyExpiredLink(t *testing.T) {
	e := newEnv(t)
	mailer := &captureMailer{}
	svc := newRegistrationService(e, mailer)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "grace@example.com", "pw", captcha.Challenge{}, ""))
	token := verifyTokenFromEmail(t, mailer.sent[0].HTML)

	e.mr.FastForward(25 * time.Hour)

	require.ErrorIs(t, svc.Verify(ctx, token), apperr.ErrNotFound)
}
