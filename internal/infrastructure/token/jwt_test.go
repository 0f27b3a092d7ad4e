package token

import (
	"testing"
	"time"

	"github.com/DRSN-tech/calories-backend/internal/cfg"
	"github.com/DRSN-tech/calories-backend/internal/usecase"
	"github.com/DRSN-tech/calories-backend/pkg/e"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newIssuer(now time.Time) *JWTIssuer {
	return NewJWTIssuer(&cfg.AuthCfg{
		JWTSecret:       testSecret,
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}).WithClock(func() time.Time { return now })
}

func TestIssueAndParse(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	issuer := newIssuer(now)

	for _, typ := range []usecase.TokenType{usecase.TokenAccess, usecase.TokenRefresh} {
		t.Run(string(typ), func(t *testing.T) {
			tok, err := issuer.Issue(42, typ)
			require.NoError(t, err)

			c, err := issuer.Parse(tok)
			require.NoError(t, err)
			assert.Equal(t, int64(42), c.UserID)
			assert.Equal(t, typ, c.Type)
		})
	}
}

func TestParse_Expired(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	tok, err := newIssuer(now).Issue(1, usecase.TokenAccess)
	require.NoError(t, err)

	_, err = newIssuer(now.Add(2 * time.Hour)).Parse(tok)
	assert.ErrorIs(t, err, e.ErrUnauthorized)

	// refresh живёт дольше access
	refresh, err := newIssuer(now).Issue(1, usecase.TokenRefresh)
	require.NoError(t, err)
	_, err = newIssuer(now.Add(2 * time.Hour)).Parse(refresh)
	assert.NoError(t, err)
}

func TestParse_Rejects(t *testing.T) {
	now := time.Now()
	issuer := newIssuer(now)

	other := NewJWTIssuer(&cfg.AuthCfg{
		JWTSecret:      "another-secret-another-secret-xx",
		AccessTokenTTL: time.Hour,
	})
	foreign, err := other.Issue(1, usecase.TokenAccess)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "1", "typ": "access", "exp": now.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1", "typ": "access",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	badType, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1", "typ": "id", "exp": now.Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":        "not-a-token",
		"foreign secret": foreign,
		"alg none":       none,
		"no expiration":  noExp,
		"unknown type":   badType,
	}

	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := issuer.Parse(tok)
			assert.ErrorIs(t, err, e.ErrUnauthorized)
		})
	}
}
