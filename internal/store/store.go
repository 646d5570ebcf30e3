// Package store declares the persistence interfaces the handlers and the
// authentication gate depend on. The postgres subpackage implements them;
// tests substitute in-memory fakes.
package store

import (
	"context"

	"storefront/internal/domain"
)

// ShopStore persists shop accounts and their session secrets.
type ShopStore interface {
	CreateShop(ctx context.Context, shop *domain.Shop) (string, error)
	FindShopByEmail(ctx context.Context, email string) (*domain.Shop, error)
	FindShopByRemember(ctx context.Context, secret string) (*domain.Shop, error)
	GetShop(ctx context.Context, id string) (*domain.Shop, error)
	ListShops(ctx context.Context, page, limit int) ([]domain.Shop, error)
	UpdateShop(ctx context.Context, shop *domain.Shop) error
	SetRemember(ctx context.Context, shopID, secret string) error
	ClearRemember(ctx context.Context, shopID string) error
	DeleteShop(ctx context.Context, id string) error
}

// ProductStore persists products.
type ProductStore interface {
	CreateProduct(ctx context.Context, product *domain.Product) (string, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
	ListProducts(ctx context.Context, search string, page, limit int) ([]domain.Product, error)
}
