package main

import (
	"context"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"storefront/config"
	"storefront/config/database"
	"storefront/internal/auth"
	app_middleware "storefront/internal/middleware"
	"storefront/internal/photo"
	product_handler "storefront/internal/productHandler"
	shop_handler "storefront/internal/shopHandler"
	"storefront/internal/store/postgres"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// connect to db
	pool, err := database.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()

	shops := postgres.NewShopStore(pool)
	products := postgres.NewProductStore(pool)

	hasher := auth.NewHasher(0)
	codec := auth.NewCodec(cfg.TokenSecret, cfg.TokenExpire)
	gate := app_middleware.Auth(auth.NewAuthenticator(codec, shops))

	shopPhotos := photo.NewStore(filepath.Join(cfg.PhotoDir, "shops"))
	productPhotos := photo.NewStore(filepath.Join(cfg.PhotoDir, "products"))

	shopH := shop_handler.New(shops, hasher, codec, shopPhotos, cfg.BrevoAPIKey, cfg.OwnershipEnforced)
	productH := product_handler.New(products, shops, productPhotos, cfg.OwnershipEnforced)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(app_middleware.Metrics())
	// uploaded photos are served from the photo dir; files win over routes
	e.Use(middleware.Static(cfg.PhotoDir))

	// public routes
	e.POST("/register", shopH.Register)
	e.POST("/login", shopH.Login)
	e.GET("/shops", shopH.ListShops)
	e.GET("/shops/:shopId", shopH.GetShop)

	// protected routes behind the session token gate
	e.POST("/logout", shopH.Logout, gate)
	e.GET("/myshop", shopH.GetMyShop, gate)
	e.PUT("/myshop", shopH.UpdateMyShop, gate)

	if cfg.OwnershipEnforced {
		e.DELETE("/shops/:shopId", shopH.DeleteShop, gate)
	} else {
		// reference-system parity: open shop deletion
		e.DELETE("/shops/:shopId", shopH.DeleteShop)
	}

	productGroup := e.Group("/products")
	productGroup.GET("", productH.List)
	productGroup.GET("/:productId", productH.Get)
	productGroup.POST("", productH.Create, gate)
	productGroup.PUT("/:productId", productH.Update, gate)
	productGroup.DELETE("/:productId", productH.Delete, gate)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// start the server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
