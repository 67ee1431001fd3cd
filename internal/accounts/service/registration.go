package service

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net/mail"
	"strings"
	"time"

	"github.com/meridianapps/accounts/internal/accounts/apperr"
	"github.com/meridianapps/accounts/internal/accounts/captcha"
	"github.com/meridianapps/accounts/internal/accounts/domain"
	mailx "github.com/meridianapps/accounts/internal/accounts/mail"
	"github.com/meridianapps/accounts/internal/accounts/store"
	"github.com/meridianapps/accounts/pkg/cryptox"
	"github.com/meridianapps/accounts/pkg/slogx"
)

//go:embed templates/verify_email.html
var verifyEmailHTML string

var verifyEmailTmpl = template.Must(template.New("verify_email").Parse(verifyEmailHTML))

// RegistrationService handles signup. Nothing is written to durable storage
// until the email is verified; the pending registration lives in ephemeral
// storage and simply expires if the link is never clicked.
type RegistrationService struct {
	Users     store.Users
	Ephemeral store.Ephemeral
	Captcha   captcha.Verifier
	Mailer    mailx.Mailer

	// VerifyBaseURL is the public verification endpoint; the emailed link is
	// VerifyBaseURL plus a token query parameter.
	VerifyBaseURL string
	PendingTTL    time.Duration
}

func NewRegistrationService(users store.Users, eph store.Ephemeral, cv captcha.Verifier, mailer mailx.Mailer, verifyBaseURL string) *RegistrationService {
	return &RegistrationService{
		Users:         users,
		Ephemeral:     eph,
		Captcha:       cv,
		Mailer:        mailer,
		VerifyBaseURL: verifyBaseURL,
		PendingTTL:    DefaultPendingTTL,
	}
}

// Register validates the request, parks the registration in ephemeral
// storage, and emails a verification link.
func (s *RegistrationService) Register(ctx context.Context, email, password string, ch captcha.Challenge, remoteIP string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return apperr.ErrBadRequest
	}

	if err := mapCaptchaErr(s.Captcha.Verify(ctx, ch, remoteIP)); err != nil {
		return err
	}

	_, err = s.Users.FindByEmail(ctx, email)
	if err == nil {
		return apperr.ErrRegisteredEmail
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("checking email: %w", err)
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return err
	}

	fields := map[string]string{"email": email, "password": password}
	if err := s.Ephemeral.PutFields(ctx, emailVerifyKeyPrefix+token, fields, s.PendingTTL); err != nil {
		return fmt.Errorf("storing pending registration: %w", err)
	}

	var body strings.Builder
	if err := verifyEmailTmpl.Execute(&body, map[string]string{
		"Link": s.VerifyBaseURL + "?token=" + token,
	}); err != nil {
		return fmt.Errorf("rendering verification email: %w", err)
	}

	if err := s.Mailer.Send(ctx, mailx.Message{
		To:      email,
		Subject: "Verify your email address",
		HTML:    body.String(),
	}); err != nil {
		return fmt.Errorf("sending verification email: %w", err)
	}

	slogx.FromContext(ctx).Info("registration_pending", "email", email)
	return nil
}

// Verify redeems a verification token and creates the account. The token is
// single-use; a second click on the same link gets NotFound.
func (s *RegistrationService) Verify(ctx context.Context, token string) error {
	fields, err := s.Ephemeral.RedeemFields(ctx, emailVerifyKeyPrefix+token)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("redeeming verification token: %w", err)
	}

	email, password := fields["email"], fields["password"]
	if email == "" {
		return fmt.Errorf("corrupt pending registration for token")
	}

	// The email may have been registered through another pending entry while
	// this one sat in the queue.
	if _, err := s.Users.FindByEmail(ctx, email); err == nil {
		return apperr.ErrRegisteredEmail
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("checking email: %w", err)
	}

	salt, err := cryptox.NewSalt()
	if err != nil {
		return err
	}

	// Default display name is the mailbox local part; users rename later.
	name, _, _ := strings.Cut(email, "@")

	uid, err := s.Users.Insert(ctx, domain.User{
		Name:           name,
		Email:          email,
		SaltedPassword: cryptox.SaltPassword(password, salt),
		Salt:           salt,
	})
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	slogx.FromContext(ctx).Info("registration_verified", "uid", uid, "email", email)
	return nil
}
