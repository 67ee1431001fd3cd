package tokenx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/meridianapps/accounts/pkg/scope"
	"github.com/meridianapps/accounts/pkg/tokenx"
)

var testSecret = []byte("unit-test-signing-secret")

func newCodec(t *testing.T) *tokenx.Codec {
	t.Helper()
	c, err := tokenx.NewCodec(testSecret)
	require.NoError(t, err)
	return c
}

func TestNewCodecRequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := tokenx.NewCodec(nil)
	require.Error(t, err)
	_, err = tokenx.NewCodec([]byte{})
	require.Error(t, err)
}

func TestMintRejectsNonPositiveTTL(t *testing.T) {
	t.Parallel()
	c := newCodec(t)

	_, err := c.Mint(1, nil, 0)
	require.Error(t, err)
	_, err = c.Mint(1, nil, -time.Minute)
	require.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	c := newCodec(t)

	t.Run("unscoped session token", func(t *testing.T) {
		tok, err := c.Mint(42, nil, tokenx.DefaultSessionTTL)
		require.NoError(t, err)

		claims, err := c.Verify(tok, scope.None)
		require.NoError(t, err)
		require.Equal(t, int64(42), claims.UID)
		require.Nil(t, claims.Scopes)
	})

	t.Run("scoped access token", func(t *testing.T) {
		granted := []scope.Scope{scope.ProfileRead, scope.ProfileWrite}
		tok, err := c.Mint(7, granted, time.Minute)
		require.NoError(t, err)

		claims, err := c.Verify(tok, scope.Encode(scope.ProfileRead))
		require.NoError(t, err)
		require.Equal(t, int64(7), claims.UID)
		require.Equal(t, granted, claims.Scopes)
		require.True(t, claims.Mask().Satisfies(scope.Encode(scope.ProfileWrite)))
	})
}

func TestVerifyScopeContainment(t *testing.T) {
	t.Parallel()
	c := newCodec(t)

	readOnly, err := c.Mint(1, []scope.Scope{scope.ProfileRead}, time.Minute)
	require.NoError(t, err)

	t.Run("granted superset passes", func(t *testing.T) {
		_, err := c.Verify(readOnly, scope.Encode(scope.ProfileRead))
		require.NoError(t, err)
	})

	t.Run("missing bit fails", func(t *testing.T) {
		_, err := c.Verify(readOnly, scope.Encode(scope.ProfileWrite))
		require.ErrorIs(t, err, tokenx.ErrMissingScope)

		_, err = c.Verify(readOnly, scope.Encode(scope.ProfileRead, scope.ProfileWrite))
		require.ErrorIs(t, err, tokenx.ErrMissingScope)
	})

	t.Run("unscoped token rejected by scoped requirement", func(t *testing.T) {
		session, err := c.Mint(1, nil, time.Minute)
		require.NoError(t, err)

		_, err = c.Verify(session, scope.Encode(scope.ProfileRead))
		require.ErrorIs(t, err, tokenx.ErrMissingScope)
	})
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()
	c := newCodec(t)

	// Sign an already-expired token directly; Mint refuses past expiries.
	claims := tokenx.Claims{
		UID: 9,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	// Expiry is reported as expiry, never as a generic invalid token.
	_, verr := c.Verify(expired, scope.None)
	require.ErrorIs(t, verr, tokenx.ErrExpired)
	require.NotErrorIs(t, verr, tokenx.ErrInvalid)
}

func TestVerifyTampered(t *testing.T) {
	t.Parallel()
	c := newCodec(t)

	tok, err := c.Mint(3, nil, time.Minute)
	require.NoError(t, err)

	t.Run("flipped signature bit", func(t *testing.T) {
		raw := []byte(tok)
		raw[len(raw)-1] ^= 0x01
		_, err := c.Verify(string(raw), scope.None)
		require.ErrorIs(t, err, tokenx.ErrInvalid)
	})

	t.Run("garbage input", func(t *testing.T) {
		_, err := c.Verify("not-a-token", scope.None)
		require.ErrorIs(t, err, tokenx.ErrInvalid)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := tokenx.NewCodec([]byte("a-different-secret"))
		require.NoError(t, err)
		_, verr := other.Verify(tok, scope.None)
		require.ErrorIs(t, verr, tokenx.ErrInvalid)
	})
}

func TestVerifyRejectsForeignAlgorithm(t *testing.T) {
	t.Parallel()
	c := newCodec(t)

	// HS512 with the right secret still fails: the codec pins HS256.
	claims := tokenx.Claims{
		UID: 4,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, verr := c.Verify(foreign, scope.None)
	require.ErrorIs(t, verr, tokenx.ErrInvalid)
}

func TestScopesSerializeByName(t *testing.T) {
	t.Parallel()
	c := newCodec(t)

	tok, err := c.Mint(5, []scope.Scope{scope.ProfileRead}, time.Minute)
	require.NoError(t, err)

	// The middle segment is the claim set; scope names ride in it verbatim
	// so other services can read them without our enum.
	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)

	payload, err := jwt.NewParser().DecodeSegment(parts[1])
	require.NoError(t, err)
	require.Contains(t, string(payload), `"profile.read"`)
}
