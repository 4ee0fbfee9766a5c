package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/aklinic/internal/models"
)

const SessionTTL = 7 * 24 * time.Hour

var (
	ErrSecretNotSet   = errors.New("session secret not set")
	ErrInvalidSession = errors.New("invalid session")
)

// Identity is what a session asserts about its holder.
type Identity struct {
	ID    uint        `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

func IdentityOf(u *models.User) Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

type sessionClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 session tokens.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret string) *Codec {
	return &Codec{
		secret: []byte(secret),
		ttl:    SessionTTL,
		now:    time.Now,
	}
}

// WithClock replaces the time source used for issuing and verifying.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

func (c *Codec) Issue(id Identity) (string, error) {
	if len(c.secret) == 0 {
		return "", ErrSecretNotSet
	}

	now := c.now()
	claims := sessionClaims{
		Name:  id.Name,
		Email: id.Email,
		Role:  string(id.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(id.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

// Verify fails closed: a missing secret, a bad signature, an expired or
// malformed token all yield ErrInvalidSession. The user is not re-read.
func (c *Codec) Verify(tokenString string) (*Identity, error) {
	if len(c.secret) == 0 || tokenString == "" {
		return nil, ErrInvalidSession
	}

	var claims sessionClaims
	token, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return nil, ErrInvalidSession
	}

	role := models.Role(claims.Role)
	if !role.Valid() {
		return nil, ErrInvalidSession
	}

	return &Identity{
		ID:    uint(id),
		Name:  claims.Name,
		Email: claims.Email,
		Role:  role,
	}, nil
}
