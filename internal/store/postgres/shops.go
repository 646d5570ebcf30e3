package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

// ShopStore is the pgx-backed implementation of store.ShopStore.
type ShopStore struct {
	pool *pgxpool.Pool
}

func NewShopStore(pool *pgxpool.Pool) *ShopStore {
	return &ShopStore{pool: pool}
}

const shopColumns = `id, name, description, category, COALESCE(photo, ''), email, password, COALESCE(remember, '')`

func scanShop(row pgx.Row) (*domain.Shop, error) {
	var s domain.Shop
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Category, &s.Photo, &s.Email, &s.Password, &s.Remember)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan shop: %w", err)
	}
	return &s, nil
}

func (st *ShopStore) CreateShop(ctx context.Context, shop *domain.Shop) (string, error) {
	query := `
		INSERT INTO shops (name, description, category, photo, email, password)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6) RETURNING id`
	var id string
	err := st.pool.QueryRow(ctx, query,
		shop.Name, shop.Description, shop.Category, shop.Photo, shop.Email, shop.Password,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", domain.ErrEmailTaken
		}
		return "", fmt.Errorf("insert shop: %w", err)
	}
	return id, nil
}

func (st *ShopStore) FindShopByEmail(ctx context.Context, email string) (*domain.Shop, error) {
	query := `SELECT ` + shopColumns + ` FROM shops WHERE email = $1`
	return scanShop(st.pool.QueryRow(ctx, query, email))
}

func (st *ShopStore) FindShopByRemember(ctx context.Context, secret string) (*domain.Shop, error) {
	if secret == "" {
		return nil, domain.ErrNotFound
	}
	query := `SELECT ` + shopColumns + ` FROM shops WHERE remember = $1`
	return scanShop(st.pool.QueryRow(ctx, query, secret))
}

func (st *ShopStore) GetShop(ctx context.Context, id string) (*domain.Shop, error) {
	query := `SELECT ` + shopColumns + ` FROM shops WHERE id = $1`
	return scanShop(st.pool.QueryRow(ctx, query, id))
}

func (st *ShopStore) ListShops(ctx context.Context, page, limit int) ([]domain.Shop, error) {
	query := `SELECT ` + shopColumns + ` FROM shops ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := st.pool.Query(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}
	defer rows.Close()

	shops := []domain.Shop{}
	for rows.Next() {
		s, err := scanShop(rows)
		if err != nil {
			return nil, err
		}
		shops = append(shops, *s)
	}
	return shops, rows.Err()
}

func (st *ShopStore) UpdateShop(ctx context.Context, shop *domain.Shop) error {
	query := `
		UPDATE shops
		SET name = $1, description = $2, category = $3, photo = NULLIF($4, '')
		WHERE id = $5`
	_, err := st.pool.Exec(ctx, query, shop.Name, shop.Description, shop.Category, shop.Photo, shop.ID)
	if err != nil {
		return fmt.Errorf("update shop: %w", err)
	}
	return nil
}

func (st *ShopStore) SetRemember(ctx context.Context, shopID, secret string) error {
	_, err := st.pool.Exec(ctx, `UPDATE shops SET remember = $1 WHERE id = $2`, secret, shopID)
	if err != nil {
		return fmt.Errorf("set remember: %w", err)
	}
	return nil
}

func (st *ShopStore) ClearRemember(ctx context.Context, shopID string) error {
	_, err := st.pool.Exec(ctx, `UPDATE shops SET remember = NULL WHERE id = $1`, shopID)
	if err != nil {
		return fmt.Errorf("clear remember: %w", err)
	}
	return nil
}

func (st *ShopStore) DeleteShop(ctx context.Context, id string) error {
	_, err := st.pool.Exec(ctx, `DELETE FROM shops WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete shop: %w", err)
	}
	return nil
}
