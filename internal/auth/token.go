package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Token verification failures. The authentication gate collapses all of
// them into a uniform 401; the distinctions exist for tests and logs.
var (
	ErrMalformedToken = errors.New("malformed token")
	ErrTokenExpired   = errors.New("token expired")
	ErrBadSignature   = errors.New("bad token signature")
)

type sessionClaims struct {
	Remember string `json:"remember"`
	jwt.RegisteredClaims
}

// Codec issues and verifies the stateless session tokens. The signing
// key and lifetime are fixed at construction; the codec never consults
// the environment or the clock beyond expiry evaluation.
type Codec struct {
	key []byte
	ttl time.Duration
}

func NewCodec(key string, ttl time.Duration) *Codec {
	return &Codec{key: []byte(key), ttl: ttl}
}

// Issue signs a token carrying the remember secret, expiring ttl from now.
func (c *Codec) Issue(secret string) (string, error) {
	claims := sessionClaims{
		Remember: secret,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(c.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify checks the signature and expiry and returns the embedded
// remember secret. Expiry is evaluated against wall-clock time with no
// grace period.
func (c *Codec) Verify(token string) (string, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.key, nil
	})
	if err != nil {
		var vErr *jwt.ValidationError
		if errors.As(err, &vErr) {
			switch {
			case vErr.Errors&jwt.ValidationErrorMalformed != 0:
				return "", ErrMalformedToken
			case vErr.Errors&jwt.ValidationErrorExpired != 0:
				return "", ErrTokenExpired
			}
		}
		return "", ErrBadSignature
	}
	if !parsed.Valid {
		return "", ErrBadSignature
	}
	return claims.Remember, nil
}
