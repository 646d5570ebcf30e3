package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/domain"
)

// ErrUnauthenticated covers every authentication failure: missing or
// malformed header, any codec rejection, and a remember secret no shop
// currently holds. Callers must not leak which case occurred.
var ErrUnauthenticated = errors.New("unauthenticated")

// ShopResolver is the one store operation the gate needs.
type ShopResolver interface {
	FindShopByRemember(ctx context.Context, secret string) (*domain.Shop, error)
}

// Authenticator resolves a bearer token to the shop that owns the
// session. A token is only as alive as the remember secret stored on
// the shop record: rotating or clearing the secret invalidates every
// outstanding token immediately, regardless of expiry.
type Authenticator struct {
	codec *Codec
	shops ShopResolver
}

func NewAuthenticator(codec *Codec, shops ShopResolver) *Authenticator {
	return &Authenticator{codec: codec, shops: shops}
}

const bearerPrefix = "Bearer "

// Authenticate turns an Authorization header value into a shop identity.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (*domain.Shop, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return nil, ErrUnauthenticated
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return nil, ErrUnauthenticated
	}

	remember, err := a.codec.Verify(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	shop, err := a.shops.FindShopByRemember(ctx, remember)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	return shop, nil
}
