// Package devapi assembles the local stand-in for the shop backend: product
// catalogue, auth, banners and personalized image generation on one fiber app.
package devapi

import (
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/wichananm65/pet-shop-storefront/internal/banner"
	"github.com/wichananm65/pet-shop-storefront/internal/generation"
	"github.com/wichananm65/pet-shop-storefront/internal/product"
	"github.com/wichananm65/pet-shop-storefront/internal/user"
	"go.uber.org/zap"
)

type Options struct {
	JWTSecret string
	StaticDir string
	// DB switches the repositories to Postgres; nil serves seeded in-memory data.
	DB        *sql.DB
	Generator generation.Generator
	Logger    *zap.Logger
}

type Server struct {
	App        *fiber.App
	Generation *generation.Service
	Users      *user.Service
	logger     *zap.Logger
}

func New(opts Options) (*Server, error) {
	if opts.JWTSecret == "" {
		return nil, errors.New("devapi: JWT secret is required")
	}
	if opts.StaticDir == "" {
		opts.StaticDir = "./static"
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	gen := opts.Generator
	if gen == nil {
		gen = generation.NewImagingGenerator()
	}

	var (
		productRepo product.Repository
		userRepo    user.Repository
		bannerRepo  banner.Repository
	)
	if opts.DB != nil {
		productRepo = product.NewPostgresRepository(opts.DB)
		userRepo = user.NewPostgresRepository(opts.DB)
		bannerRepo = banner.NewPostgresRepository(opts.DB)
	} else {
		productRepo = product.NewInMemoryRepository(product.DefaultCatalog())
		userRepo = user.NewInMemoryRepository(nil)
		bannerRepo = banner.NewInMemoryRepository(banner.DefaultBanners())
	}

	productService := product.NewService(productRepo)
	userService := user.NewService(userRepo)
	if opts.DB == nil {
		if err := SeedDemoUser(userService, opts.StaticDir); err != nil {
			return nil, err
		}
	}

	cache := generation.NewCache(filepath.Join(opts.StaticDir, "generated", "cache"), "/static/generated/cache")
	genService := generation.NewService(cache, gen, productService, userService, generation.Options{
		StaticDir: opts.StaticDir,
		Logger:    logger.Named("generation"),
	})

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	setupCORS(app)
	app.Use(requestLogger(logger.Named("http")))
	app.Static("/static", opts.StaticDir)

	api := app.Group("/api")

	// public routes are registered before the auth middleware
	productHandler := product.NewHandler(productService)
	productHandler.OnReset(func(ids []int) {
		for _, id := range ids {
			if err := genService.ForgetProduct(id); err != nil {
				logger.Warn("failed to clear cached images", zap.Int("product_id", id), zap.Error(err))
			}
		}
	})
	productHandler.RegisterPublicRoutes(api)
	banner.NewHandler(banner.NewService(bannerRepo)).RegisterPublicRoutes(api)
	userHandler := user.NewHandler(userService, user.Config{
		Secret:    []byte(opts.JWTSecret),
		TokenTTL:  30 * time.Minute,
		UploadDir: filepath.Join(opts.StaticDir, "uploads", "profile_images"),
		UploadURL: "/static/uploads/profile_images",
		// ids restart with an in-memory store, so a new account must not
		// inherit images generated for an earlier one
		OnRegister: func(u user.User) {
			if err := genService.ForgetUser(u.ID); err != nil {
				logger.Warn("failed to clear cached images", zap.Int("user_id", u.ID), zap.Error(err))
			}
		},
	})
	userHandler.RegisterPublicRoutes(api)

	api.Use(optionalAuth(opts.JWTSecret))
	generation.NewHandler(genService).RegisterRoutes(api)
	userHandler.RegisterProtectedRoutes(api)

	return &Server{App: app, Generation: genService, Users: userService, logger: logger}, nil
}

func (s *Server) Listen(addr string) error {
	s.logger.Info("dev backend listening", zap.String("addr", addr))
	return s.App.Listen(addr)
}

// Shutdown stops the HTTP server and cancels in-flight generations.
func (s *Server) Shutdown() error {
	err := s.App.Shutdown()
	s.Generation.Close()
	return err
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

// optionalAuth verifies a bearer token when one is sent and lets anonymous
// requests through; handlers decide what anonymous callers get.
func optionalAuth(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: []byte(secret),
		Filter: func(c *fiber.Ctx) bool {
			return !strings.HasPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Could not validate credentials"})
		},
	})
}

func requestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Debug("request",
			zap.String("method", c.Method()),
			zap.String("url", c.OriginalURL()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("elapsed", time.Since(start)),
		)
		return err
	}
}
