package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/pantry_api/internal/cache"
	"github.com/GTDGit/pantry_api/internal/config"
	"github.com/GTDGit/pantry_api/internal/database"
	"github.com/GTDGit/pantry_api/internal/handler"
	"github.com/GTDGit/pantry_api/internal/middleware"
	"github.com/GTDGit/pantry_api/internal/queue"
	"github.com/GTDGit/pantry_api/internal/repository"
	"github.com/GTDGit/pantry_api/internal/service"
	"github.com/GTDGit/pantry_api/internal/storage"
	"github.com/GTDGit/pantry_api/internal/utils"
	"github.com/GTDGit/pantry_api/internal/worker"
)

// main is the application entrypoint for the pantry catalog & costing API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Str("store", cfg.StoreDriver).Msg("starting pantry api")

	// 3. Open store
	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.Error().Err(err).Msg("store initialization failed")
		fmt.Fprintf(os.Stderr, "store initialization failed: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	// 3a. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 4. Catalog archive (optional)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	archive, err := storage.NewCatalogArchive(ctx, &cfg.S3)
	switch {
	case errors.Is(err, utils.ErrArchiveDisabled):
		log.Warn().Msg("S3_BUCKET not set, async catalog uploads disabled")
	case err != nil:
		log.Warn().Err(err).Msg("failed to initialize catalog archive, async catalog uploads disabled")
		archive = nil
	default:
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("catalog archive initialized")
	}

	// 5. Initialize services
	jobQueue := queue.NewCatalogQueue(redisClient, cfg.Catalog.JobTTL)
	supplierSvc := service.NewSupplierService(store)
	productSvc := service.NewProductService(store, cfg.Catalog.DefaultCurrency)
	ingredientSvc := service.NewIngredientService(store)
	recipeSvc := service.NewRecipeService(store)
	orderSvc := service.NewOrderService(store)
	ingestionSvc := service.NewCatalogIngestionService(store, cfg.Catalog.DefaultCurrency)
	costingSvc := service.NewCostingService(store)
	nutritionSvc := service.NewNutritionService(store)
	catalogTaskSvc := service.NewCatalogTaskService(ingestionSvc)

	// 6. Initialize handlers
	handlers := &Handlers{
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"store": store,
			"redis": redisClient,
		}),
		Supplier:   handler.NewSupplierHandler(supplierSvc),
		Product:    handler.NewProductHandler(productSvc, nutritionSvc),
		Catalog:    handler.NewCatalogHandler(ingestionSvc, supplierSvc, archive, jobQueue, cfg.Catalog.MaxUploadBytes),
		Ingredient: handler.NewIngredientHandler(ingredientSvc),
		Recipe:     handler.NewRecipeHandler(recipeSvc, costingSvc),
		Order:      handler.NewOrderHandler(orderSvc),
	}

	// 7. Initialize middleware
	uploadLimiter := middleware.NewUploadRateLimiter(ctx, cfg.Catalog.UploadsPerMinute)

	// 8. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedHosts))
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, uploadLimiter)

	// 9. Start workers
	go worker.NewCatalogWorker(jobQueue, catalogTaskSvc, cfg.Worker.PollTimeout).Start(ctx)

	// 10. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 11. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 12. Cancel context to stop workers
	cancel()

	// 13. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health     *handler.HealthHandler
	Supplier   *handler.SupplierHandler
	Product    *handler.ProductHandler
	Catalog    *handler.CatalogHandler
	Ingredient *handler.IngredientHandler
	Recipe     *handler.RecipeHandler
	Order      *handler.OrderHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, uploadLimiter *middleware.UploadRateLimiter) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	v1 := router.Group("/v1")
	{
		v1.GET("/suppliers", handlers.Supplier.ListSuppliers)
		v1.POST("/suppliers", handlers.Supplier.CreateSupplier)
		v1.GET("/suppliers/:id", handlers.Supplier.GetSupplier)
		v1.PUT("/suppliers/:id", handlers.Supplier.UpdateSupplier)
		v1.DELETE("/suppliers/:id", handlers.Supplier.DeleteSupplier)

		v1.GET("/products", handlers.Product.ListProducts)
		v1.POST("/products", handlers.Product.CreateProduct)
		v1.GET("/products/:id", handlers.Product.GetProduct)
		v1.GET("/products/:id/price-history", handlers.Product.GetPriceHistory)
		v1.POST("/products/:id/match", handlers.Product.MatchIngredient)

		// Catalog uploads
		v1.POST("/products/upload", uploadLimiter.Handle(), handlers.Catalog.Upload)
		v1.POST("/products/upload/async", uploadLimiter.Handle(), handlers.Catalog.UploadAsync)
		v1.GET("/jobs/:id", handlers.Catalog.GetJob)

		v1.GET("/ingredients", handlers.Ingredient.ListIngredients)
		v1.POST("/ingredients", handlers.Ingredient.CreateIngredient)
		v1.GET("/ingredients/:id", handlers.Ingredient.GetIngredient)

		v1.GET("/recipes", handlers.Recipe.ListRecipes)
		v1.POST("/recipes", handlers.Recipe.CreateRecipe)
		v1.GET("/recipes/:id", handlers.Recipe.GetRecipe)
		v1.GET("/recipes/:id/cost", handlers.Recipe.GetRecipeCost)

		v1.GET("/orders", handlers.Order.ListOrders)
		v1.POST("/orders", handlers.Order.CreateOrder)
		v1.GET("/orders/:id", handlers.Order.GetOrder)
	}
}

// openStore builds the configured store. The returned func releases it.
func openStore(cfg *config.Config) (repository.Store, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		log.Warn().Msg("using in-memory store, data is lost on restart")
		return repository.NewMemoryStore(), func() {}, nil
	}

	db, err := database.Connect(&cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := database.Migrate(db.DB, cfg.DB.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migration failed: %w", err)
	}
	log.Info().Msg("migrations completed successfully")

	return repository.NewPostgresStore(db), func() { _ = db.Close() }, nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
