package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/auth"
	"storefront/internal/domain"
	app_middleware "storefront/internal/middleware"
	"storefront/internal/photo"
)

// fakeShopStore carries just enough shops for the gate and the
// detail-route populate.
type fakeShopStore struct {
	shops map[string]*domain.Shop
}

func (f *fakeShopStore) CreateShop(_ context.Context, shop *domain.Shop) (string, error) {
	f.shops[shop.ID] = shop
	return shop.ID, nil
}

func (f *fakeShopStore) FindShopByEmail(_ context.Context, email string) (*domain.Shop, error) {
	for _, s := range f.shops {
		if s.Email == email {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeShopStore) FindShopByRemember(_ context.Context, secret string) (*domain.Shop, error) {
	if secret == "" {
		return nil, domain.ErrNotFound
	}
	for _, s := range f.shops {
		if s.Remember == secret {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeShopStore) GetShop(_ context.Context, id string) (*domain.Shop, error) {
	s, ok := f.shops[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeShopStore) ListShops(context.Context, int, int) ([]domain.Shop, error) {
	return nil, nil
}

func (f *fakeShopStore) UpdateShop(_ context.Context, shop *domain.Shop) error {
	f.shops[shop.ID] = shop
	return nil
}

func (f *fakeShopStore) SetRemember(_ context.Context, shopID, secret string) error {
	f.shops[shopID].Remember = secret
	return nil
}

func (f *fakeShopStore) ClearRemember(_ context.Context, shopID string) error {
	f.shops[shopID].Remember = ""
	return nil
}

func (f *fakeShopStore) DeleteShop(_ context.Context, id string) error {
	delete(f.shops, id)
	return nil
}

// fakeProductStore is an in-memory store.ProductStore.
type fakeProductStore struct {
	order    []string
	products map[string]*domain.Product
	seq      int
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: map[string]*domain.Product{}}
}

func (f *fakeProductStore) CreateProduct(_ context.Context, product *domain.Product) (string, error) {
	f.seq++
	id := fmt.Sprintf("product-%d", f.seq)
	stored := *product
	stored.ID = id
	f.products[id] = &stored
	f.order = append(f.order, id)
	return id, nil
}

func (f *fakeProductStore) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductStore) UpdateProduct(_ context.Context, product *domain.Product) error {
	p, ok := f.products[product.ID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Name = product.Name
	p.Description = product.Description
	p.Price = product.Price
	p.Photo = product.Photo
	return nil
}

func (f *fakeProductStore) DeleteProduct(_ context.Context, id string) error {
	delete(f.products, id)
	for i, oid := range f.order {
		if oid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeProductStore) ListProducts(_ context.Context, search string, page, limit int) ([]domain.Product, error) {
	matches := []domain.Product{}
	for _, id := range f.order {
		p := f.products[id]
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			matches = append(matches, *p)
		}
	}
	offset := (page - 1) * limit
	if offset >= len(matches) {
		return []domain.Product{}, nil
	}
	end := offset + limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[offset:end], nil
}

type productEnv struct {
	e        *echo.Echo
	products *fakeProductStore
	shops    *fakeShopStore
}

func newProductEnv(t *testing.T, enforceOwnership bool) *productEnv {
	t.Helper()
	shops := &fakeShopStore{shops: map[string]*domain.Shop{
		"shop-a": {ID: "shop-a", Name: "Shirt Corner", Description: "Shirts", Category: "clothing", Email: "a@x.com", Remember: "secret-a"},
		"shop-b": {ID: "shop-b", Name: "Hat Palace", Description: "Hats", Category: "clothing", Email: "b@x.com", Remember: "secret-b"},
	}}
	products := newFakeProductStore()
	codec := auth.NewCodec("test-signing-key", 8*time.Hour)
	gate := app_middleware.Auth(auth.NewAuthenticator(codec, shops))
	h := New(products, shops, photo.NewStore(t.TempDir()), enforceOwnership)

	e := echo.New()
	g := e.Group("/products")
	g.GET("", h.List)
	g.GET("/:productId", h.Get)
	g.POST("", h.Create, gate)
	g.PUT("/:productId", h.Update, gate)
	g.DELETE("/:productId", h.Delete, gate)
	return &productEnv{e: e, products: products, shops: shops}
}

func (env *productEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func formRequest(t *testing.T, method, target string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func tokenFor(t *testing.T, secret string) string {
	t.Helper()
	token, err := auth.NewCodec("test-signing-key", 8*time.Hour).Issue(secret)
	require.NoError(t, err)
	return token
}

func TestCreateProductStoresNumericPrice(t *testing.T) {
	env := newProductEnv(t, true)

	req := formRequest(t, http.MethodPost, "/products", map[string]string{
		"name":        "Blue Shirt",
		"description": "A blue shirt",
		"price":       "19.99",
	})
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tokenFor(t, "secret-a"))
	rec := env.do(req)
	require.Equal(t, http.StatusCreated, rec.Code)

	stored := env.products.products["product-1"]
	require.NotNil(t, stored)
	assert.Equal(t, 19.99, stored.Price)
	assert.Equal(t, "shop-a", stored.ShopID)
}

func TestCreateProductRejectsBadPrice(t *testing.T) {
	env := newProductEnv(t, true)

	for _, price := range []string{"abc", "-5"} {
		req := formRequest(t, http.MethodPost, "/products", map[string]string{
			"name":        "Blue Shirt",
			"description": "A blue shirt",
			"price":       price,
		})
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tokenFor(t, "secret-a"))
		assert.Equal(t, http.StatusBadRequest, env.do(req).Code, "price %q", price)
	}
}

func TestCreateProductRequiresAuth(t *testing.T) {
	env := newProductEnv(t, true)

	req := formRequest(t, http.MethodPost, "/products", map[string]string{
		"name":        "Blue Shirt",
		"description": "A blue shirt",
		"price":       "19.99",
	})
	rec := env.do(req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func seedProduct(env *productEnv, name, shopID string) string {
	id, _ := env.products.CreateProduct(context.Background(), &domain.Product{
		Name:        name,
		Description: "desc",
		Price:       10,
		ShopID:      shopID,
	})
	return id
}

func TestListProductsSearchAndPaging(t *testing.T) {
	env := newProductEnv(t, true)
	for i := 1; i <= 7; i++ {
		seedProduct(env, fmt.Sprintf("Cool SHIRT %d", i), "shop-a")
	}
	seedProduct(env, "Plain Hat", "shop-b")

	rec := env.do(httptest.NewRequest(http.MethodGet, "/products?search=shirt&page=2&limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "Cool SHIRT 6", resp[0].Name)
	assert.Equal(t, "Cool SHIRT 7", resp[1].Name)
	assert.Equal(t, "shop-a", resp[0].ShopID)
}

func TestGetProductPopulatesShop(t *testing.T) {
	env := newProductEnv(t, true)
	id := seedProduct(env, "Blue Shirt", "shop-a")

	rec := env.do(httptest.NewRequest(http.MethodGet, "/products/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Shop)
	assert.Equal(t, "Shirt Corner", resp.Shop.Name)
	assert.Equal(t, "clothing", resp.Shop.Category)
}

func TestGetProductNotFound(t *testing.T) {
	env := newProductEnv(t, true)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/products/no-such-product", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProductOwnership(t *testing.T) {
	env := newProductEnv(t, true)
	id := seedProduct(env, "Blue Shirt", "shop-a")

	// Another shop may not touch it.
	req := formRequest(t, http.MethodPut, "/products/"+id, map[string]string{"price": "25"})
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tokenFor(t, "secret-b"))
	assert.Equal(t, http.StatusForbidden, env.do(req).Code)

	// The owner may.
	req = formRequest(t, http.MethodPut, "/products/"+id, map[string]string{"price": "25"})
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tokenFor(t, "secret-a"))
	require.Equal(t, http.StatusNoContent, env.do(req).Code)
	assert.Equal(t, 25.0, env.products.products[id].Price)
	assert.Equal(t, "Blue Shirt", env.products.products[id].Name)
}

func TestUpdateProductReplicaModeSkipsOwnership(t *testing.T) {
	env := newProductEnv(t, false)
	id := seedProduct(env, "Blue Shirt", "shop-a")

	req := formRequest(t, http.MethodPut, "/products/"+id, map[string]string{"name": "Hijacked"})
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tokenFor(t, "secret-b"))
	require.Equal(t, http.StatusNoContent, env.do(req).Code)
	assert.Equal(t, "Hijacked", env.products.products[id].Name)
}

func TestDeleteProductOwnership(t *testing.T) {
	env := newProductEnv(t, true)
	id := seedProduct(env, "Blue Shirt", "shop-a")

	req := httptest.NewRequest(http.MethodDelete, "/products/"+id, nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tokenFor(t, "secret-b"))
	assert.Equal(t, http.StatusForbidden, env.do(req).Code)

	req = httptest.NewRequest(http.MethodDelete, "/products/"+id, nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tokenFor(t, "secret-a"))
	assert.Equal(t, http.StatusNoContent, env.do(req).Code)
	assert.NotContains(t, env.products.products, id)

	// Once enforcement needs the row, a missing id is a 404.
	req = httptest.NewRequest(http.MethodDelete, "/products/"+id, nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tokenFor(t, "secret-a"))
	assert.Equal(t, http.StatusNotFound, env.do(req).Code)
}

func TestDeleteProductReplicaModeIsBlind(t *testing.T) {
	env := newProductEnv(t, false)
	id := seedProduct(env, "Blue Shirt", "shop-a")

	// Any authenticated shop can delete, and a missing id still 204s.
	req := httptest.NewRequest(http.MethodDelete, "/products/"+id, nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tokenFor(t, "secret-b"))
	assert.Equal(t, http.StatusNoContent, env.do(req).Code)

	req = httptest.NewRequest(http.MethodDelete, "/products/"+id, nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tokenFor(t, "secret-b"))
	assert.Equal(t, http.StatusNoContent, env.do(req).Code)
}
