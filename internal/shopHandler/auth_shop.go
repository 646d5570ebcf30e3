package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"storefront/internal/auth"
	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/photo"
	"storefront/internal/shopHandler/models"
	"storefront/utils"
)

// Register handles shop registration. The form may carry an optional
// photo alongside the required fields.
func (h *Handler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid Request"})
	}

	if req.Name == "" || req.Description == "" || req.Category == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "All fields are required"})
	}

	digest, err := h.hasher.Hash(c.Request().Context(), req.Password)
	if err != nil {
		log.Error().Err(err).Msg("hash password")
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	shop := &domain.Shop{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Email:       req.Email,
		Password:    digest,
	}

	if fh, err := c.FormFile("photo"); err == nil {
		photoName, err := h.photos.Save(fh)
		if err != nil {
			if errors.Is(err, photo.ErrTooLarge) {
				return c.JSON(http.StatusBadRequest, map[string]string{"message": "Photo exceeds the 2 MB limit"})
			}
			log.Error().Err(err).Msg("store shop photo")
			return c.String(http.StatusInternalServerError, "Internal Server Error")
		}
		shop.Photo = photoName
	}

	if _, err := h.shops.CreateShop(c.Request().Context(), shop); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Email already registered"})
		}
		log.Error().Err(err).Msg("insert shop")
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	if h.brevoKey != "" {
		if err := utils.SendRegisterNotification(h.brevoKey, req.Email, req.Name); err != nil {
			log.Warn().Err(err).Str("email", req.Email).Msg("failed to send welcome email")
		}
	}

	return c.NoContent(http.StatusCreated)
}

// Login verifies the credentials, rotates the shop's remember secret and
// returns a fresh token. Rotation invalidates every earlier token for
// this shop, so at most one session is ever live.
func (h *Handler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid Request"})
	}

	ctx := c.Request().Context()

	shop, err := h.shops.FindShopByEmail(ctx, req.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return c.NoContent(http.StatusUnauthorized)
	}
	if err != nil {
		log.Error().Err(err).Msg("find shop by email")
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	if !h.hasher.Verify(ctx, req.Password, shop.Password) {
		return c.NoContent(http.StatusUnauthorized)
	}

	remember, err := auth.NewRememberSecret()
	if err != nil {
		log.Error().Err(err).Msg("generate remember secret")
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}
	if err := h.shops.SetRemember(ctx, shop.ID, remember); err != nil {
		log.Error().Err(err).Msg("rotate remember secret")
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	token, err := h.codec.Issue(remember)
	if err != nil {
		log.Error().Err(err).Msg("sign session token")
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	return c.JSON(http.StatusOK, models.LoginResponse{Token: token})
}

// Logout clears the remember secret, which invalidates every token that
// was issued for it no matter how far its expiry is.
func (h *Handler) Logout(c echo.Context) error {
	shop := middleware.CurrentShop(c)
	if err := h.shops.ClearRemember(c.Request().Context(), shop.ID); err != nil {
		log.Error().Err(err).Msg("clear remember secret")
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}
	return c.NoContent(http.StatusNoContent)
}
