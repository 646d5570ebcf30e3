package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/photo"
	"storefront/internal/store"
)

// CreateProductRequest struct. Price arrives as the form string and is
// stored numeric.
type CreateProductRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	Price       string `json:"price" form:"price"`
}

// UpdateProductRequest struct. Empty fields are left untouched.
type UpdateProductRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	Price       string `json:"price" form:"price"`
}

// ShopSummary is the owning-shop view embedded in a product detail.
type ShopSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// ProductResponse struct. List items carry shop_id; the detail route
// populates the shop summary instead.
type ProductResponse struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       float64      `json:"price"`
	Photo       string       `json:"photo,omitempty"`
	ShopID      string       `json:"shop_id,omitempty"`
	Shop        *ShopSummary `json:"shop,omitempty"`
}

// Handler serves the product routes.
type Handler struct {
	products         store.ProductStore
	shops            store.ShopStore
	photos           *photo.Store
	enforceOwnership bool
}

func New(products store.ProductStore, shops store.ShopStore, photos *photo.Store, enforceOwnership bool) *Handler {
	return &Handler{
		products:         products,
		shops:            shops,
		photos:           photos,
		enforceOwnership: enforceOwnership,
	}
}

// Create adds a product owned by the authenticated shop. The owner is
// taken from the token identity, never from the request body.
func (h *Handler) Create(c echo.Context) error {
	shop := middleware.CurrentShop(c)

	var req CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid Request"})
	}
	if req.Name == "" || req.Description == "" || req.Price == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "All fields are required"})
	}

	price, err := strconv.ParseFloat(req.Price, 64)
	if err != nil || price < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Price must be a non-negative number"})
	}

	product := &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		ShopID:      shop.ID,
	}

	if fh, err := c.FormFile("photo"); err == nil {
		photoName, err := h.photos.Save(fh)
		if err != nil {
			if errors.Is(err, photo.ErrTooLarge) {
				return c.JSON(http.StatusBadRequest, map[string]string{"message": "Photo exceeds the 2 MB limit"})
			}
			log.Error().Err(err).Msg("store product photo")
			return c.String(http.StatusInternalServerError, "Internal Server Error")
		}
		product.Photo = photoName
	}

	if _, err := h.products.CreateProduct(c.Request().Context(), product); err != nil {
		log.Error().Err(err).Msg("insert product")
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}
	return c.NoContent(http.StatusCreated)
}

// Update partially updates a product and optionally replaces its photo.
func (h *Handler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.products.GetProduct(ctx, c.Param("productId"))
	if errors.Is(err, domain.ErrNotFound) {
		return c.NoContent(http.StatusNotFound)
	}
	if err != nil {
		log.Error().Err(err).Msg("get product")
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	if h.enforceOwnership && product.ShopID != middleware.CurrentShop(c).ID {
		return c.NoContent(http.StatusForbidden)
	}

	var req UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid Request"})
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.Price != "" {
		price, err := strconv.ParseFloat(req.Price, 64)
		if err != nil || price < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Price must be a non-negative number"})
		}
		product.Price = price
	}

	oldPhoto := ""
	if fh, err := c.FormFile("photo"); err == nil {
		photoName, err := h.photos.Save(fh)
		if err != nil {
			if errors.Is(err, photo.ErrTooLarge) {
				return c.JSON(http.StatusBadRequest, map[string]string{"message": "Photo exceeds the 2 MB limit"})
			}
			log.Error().Err(err).Msg("store product photo")
			return c.String(http.StatusInternalServerError, "Internal Server Error")
		}
		oldPhoto = product.Photo
		product.Photo = photoName
	}

	if err := h.products.UpdateProduct(ctx, product); err != nil {
		log.Error().Err(err).Msg("update product")
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	if oldPhoto != "" {
		if err := h.photos.Remove(oldPhoto); err != nil {
			log.Warn().Err(err).Msg("remove replaced product photo")
		}
	}

	return c.NoContent(http.StatusNoContent)
}

// Delete removes a product. With ownership enforcement on, only the
// owning shop may delete it; with it off, any authenticated shop can,
// matching the reference system.
func (h *Handler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("productId")

	if h.enforceOwnership {
		product, err := h.products.GetProduct(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		if err != nil {
			log.Error().Err(err).Msg("get product")
			return c.String(http.StatusInternalServerError, "Internal Server Error")
		}
		if product.ShopID != middleware.CurrentShop(c).ID {
			return c.NoContent(http.StatusForbidden)
		}
	}

	if err := h.products.DeleteProduct(ctx, id); err != nil {
		log.Error().Err(err).Msg("delete product")
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}
	return c.NoContent(http.StatusNoContent)
}

// Get returns a product with its owning shop populated.
func (h *Handler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.products.GetProduct(ctx, c.Param("productId"))
	if errors.Is(err, domain.ErrNotFound) {
		return c.NoContent(http.StatusNotFound)
	}
	if err != nil {
		log.Error().Err(err).Msg("get product")
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	resp := ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Photo:       product.PhotoURL(),
	}

	shop, err := h.shops.GetShop(ctx, product.ShopID)
	if err == nil {
		resp.Shop = &ShopSummary{
			ID:          shop.ID,
			Name:        shop.Name,
			Description: shop.Description,
			Category:    shop.Category,
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		log.Error().Err(err).Msg("get owning shop")
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	return c.JSON(http.StatusOK, resp)
}

// List returns one page of products whose names contain the search term
// case-insensitively.
func (h *Handler) List(c echo.Context) error {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)
	search := c.QueryParam("search")

	products, err := h.products.ListProducts(c.Request().Context(), search, page, limit)
	if err != nil {
		log.Error().Err(err).Msg("list products")
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	resp := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, ProductResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Photo:       p.PhotoURL(),
			ShopID:      p.ShopID,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func queryInt(c echo.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
