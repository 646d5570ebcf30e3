package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"storefront/internal/auth"
	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/photo"
	"storefront/internal/shopHandler/models"
	"storefront/internal/store"
)

// Handler serves the shop account routes.
type Handler struct {
	shops            store.ShopStore
	hasher           *auth.Hasher
	codec            *auth.Codec
	photos           *photo.Store
	brevoKey         string
	enforceOwnership bool
}

func New(shops store.ShopStore, hasher *auth.Hasher, codec *auth.Codec, photos *photo.Store, brevoKey string, enforceOwnership bool) *Handler {
	return &Handler{
		shops:            shops,
		hasher:           hasher,
		codec:            codec,
		photos:           photos,
		brevoKey:         brevoKey,
		enforceOwnership: enforceOwnership,
	}
}

func profileOf(shop *domain.Shop) models.Profile {
	return models.Profile{
		ID:          shop.ID,
		Name:        shop.Name,
		Description: shop.Description,
		Category:    shop.Category,
		Photo:       shop.PhotoURL(),
		Email:       shop.Email,
	}
}

// GetMyShop returns the authenticated shop's own profile.
func (h *Handler) GetMyShop(c echo.Context) error {
	shop := middleware.CurrentShop(c)
	return c.JSON(http.StatusOK, profileOf(shop))
}

// UpdateMyShop partially updates the authenticated shop's profile and
// optionally replaces its photo. The target is always the identity from
// the token, never client input.
func (h *Handler) UpdateMyShop(c echo.Context) error {
	shop := middleware.CurrentShop(c)

	var req models.UpdateShopRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid Request"})
	}

	if req.Name != "" {
		shop.Name = req.Name
	}
	if req.Description != "" {
		shop.Description = req.Description
	}
	if req.Category != "" {
		shop.Category = req.Category
	}

	oldPhoto := ""
	if fh, err := c.FormFile("photo"); err == nil {
		name, err := h.photos.Save(fh)
		if err != nil {
			if errors.Is(err, photo.ErrTooLarge) {
				return c.JSON(http.StatusBadRequest, map[string]string{"message": "Photo exceeds the 2 MB limit"})
			}
			log.Error().Err(err).Msg("store shop photo")
			return c.String(http.StatusInternalServerError, "Internal Server Error")
		}
		oldPhoto = shop.Photo
		shop.Photo = name
	}

	if err := h.shops.UpdateShop(c.Request().Context(), shop); err != nil {
		log.Error().Err(err).Msg("update shop")
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	// Old photo goes away only after the new one is saved and persisted.
	if oldPhoto != "" {
		if err := h.photos.Remove(oldPhoto); err != nil {
			log.Warn().Err(err).Msg("remove replaced shop photo")
		}
	}

	return c.NoContent(http.StatusNoContent)
}

// ListShops returns one page of shop profiles.
func (h *Handler) ListShops(c echo.Context) error {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)

	shops, err := h.shops.ListShops(c.Request().Context(), page, limit)
	if err != nil {
		log.Error().Err(err).Msg("list shops")
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	profiles := make([]models.Profile, 0, len(shops))
	for i := range shops {
		profiles = append(profiles, profileOf(&shops[i]))
	}
	return c.JSON(http.StatusOK, profiles)
}

// GetShop returns a single shop profile by id.
func (h *Handler) GetShop(c echo.Context) error {
	shop, err := h.shops.GetShop(c.Request().Context(), c.Param("shopId"))
	if errors.Is(err, domain.ErrNotFound) {
		return c.NoContent(http.StatusNotFound)
	}
	if err != nil {
		log.Error().Err(err).Msg("get shop")
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}
	return c.JSON(http.StatusOK, profileOf(shop))
}

// DeleteShop deletes a shop by id. With ownership enforcement on, the
// route sits behind the auth gate and a shop may only delete itself;
// with it off, the open behavior of the reference system is reproduced.
func (h *Handler) DeleteShop(c echo.Context) error {
	id := c.Param("shopId")

	if h.enforceOwnership {
		shop := middleware.CurrentShop(c)
		if shop == nil {
			return c.NoContent(http.StatusUnauthorized)
		}
		if shop.ID != id {
			return c.NoContent(http.StatusForbidden)
		}
	}

	if err := h.shops.DeleteShop(c.Request().Context(), id); err != nil {
		log.Error().Err(err).Msg("delete shop")
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}
	return c.NoContent(http.StatusNoContent)
}

func queryInt(c echo.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
