package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/DRSN-tech/calories-backend/internal/cfg"
	"github.com/DRSN-tech/calories-backend/internal/usecase"
	"github.com/DRSN-tech/calories-backend/pkg/e"
	"github.com/golang-jwt/jwt/v5"
)

type claims struct {
	Type usecase.TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// JWTIssuer выдаёт и проверяет HS256 токены.
type JWTIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewJWTIssuer(cfg *cfg.AuthCfg) *JWTIssuer {
	return &JWTIssuer{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		now:        time.Now,
	}
}

// WithClock подменяет источник времени для выдачи и проверки.
func (j *JWTIssuer) WithClock(now func() time.Time) *JWTIssuer {
	j.now = now
	return j
}

func (j *JWTIssuer) Issue(userID int64, typ usecase.TokenType) (string, error) {
	const op = "JWTIssuer.Issue"

	var ttl time.Duration
	switch typ {
	case usecase.TokenAccess:
		ttl = j.accessTTL
	case usecase.TokenRefresh:
		ttl = j.refreshTTL
	default:
		return "", e.Wrap(op, fmt.Errorf("unknown token type %q", typ))
	}

	now := j.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := t.SignedString(j.secret)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	return signed, nil
}

// Parse проверяет подпись, алгоритм и срок действия. Любая ошибка — ErrUnauthorized.
func (j *JWTIssuer) Parse(token string) (*usecase.TokenClaims, error) {
	const op = "JWTIssuer.Parse"

	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, e.Wrap(op, fmt.Errorf("token expired: %w", e.ErrUnauthorized))
		}
		return nil, e.Wrap(op, fmt.Errorf("%v: %w", err, e.ErrUnauthorized))
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("invalid subject %q: %w", c.Subject, e.ErrUnauthorized))
	}

	if c.Type != usecase.TokenAccess && c.Type != usecase.TokenRefresh {
		return nil, e.Wrap(op, fmt.Errorf("invalid token type %q: %w", c.Type, e.ErrUnauthorized))
	}

	return &usecase.TokenClaims{UserID: userID, Type: c.Type}, nil
}
