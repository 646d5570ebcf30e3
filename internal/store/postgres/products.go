package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

// ProductStore is the pgx-backed implementation of store.ProductStore.
type ProductStore struct {
	pool *pgxpool.Pool
}

func NewProductStore(pool *pgxpool.Pool) *ProductStore {
	return &ProductStore{pool: pool}
}

const productColumns = `id, name, description, price, COALESCE(photo, ''), shop_id`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Photo, &p.ShopID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &p, nil
}

func (st *ProductStore) CreateProduct(ctx context.Context, product *domain.Product) (string, error) {
	query := `
		INSERT INTO products (name, description, price, photo, shop_id)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5) RETURNING id`
	var id string
	err := st.pool.QueryRow(ctx, query,
		product.Name, product.Description, product.Price, product.Photo, product.ShopID,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert product: %w", err)
	}
	return id, nil
}

func (st *ProductStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(st.pool.QueryRow(ctx, query, id))
}

func (st *ProductStore) UpdateProduct(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, photo = NULLIF($4, '')
		WHERE id = $5`
	_, err := st.pool.Exec(ctx, query,
		product.Name, product.Description, product.Price, product.Photo, product.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (st *ProductStore) DeleteProduct(ctx context.Context, id string) error {
	_, err := st.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// ListProducts returns one page of products whose names contain search
// case-insensitively. An empty search matches everything.
func (st *ProductStore) ListProducts(ctx context.Context, search string, page, limit int) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name
		LIMIT $2 OFFSET $3`
	rows, err := st.pool.Query(ctx, query, search, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}
