package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"pantrychef/internal/api"
	"pantrychef/internal/chef"
	"pantrychef/internal/config"
	"pantrychef/internal/imagedata"
	"pantrychef/internal/logger"
	"pantrychef/internal/pantry"
	"pantrychef/internal/platform/gemini"
	"pantrychef/internal/platform/openai"
	"pantrychef/internal/recipe"
)

// sweepInterval is how often idle workspaces are checked for eviction.
const sweepInterval = 5 * time.Minute

func main() {
	ctx := context.Background()

	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Errorf("failed to load config: %w", err))
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(fmt.Errorf("error creating logger: %w", err))
	}
	defer log.Sync()

	model, closeModel, err := newModel(ctx, cfg, log)
	if err != nil {
		log.Fatal("error creating model client", zap.Error(err))
	}
	defer closeModel()

	var cache chef.Cache
	if cfg.DatabaseURL != "" {
		dbStore, err := recipe.NewPostgresStore(cfg.DatabaseURL, cfg.CacheTTL, log)
		if err != nil {
			log.Fatal("error creating postgres store", zap.Error(err))
		}
		defer dbStore.Close()
		cache = dbStore
	} else {
		log.Info("no database_url configured, response cache disabled")
	}

	workspaces := pantry.NewWorkspaces(log)
	go sweep(ctx, workspaces, cfg.SessionIdle)

	handler := api.NewHandler(chef.NewService(model, cache, log), workspaces, log, api.Settings{
		Provider:       cfg.Provider,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Timeout:        cfg.RequestTimeout,
		Encoder:        imagedata.Encoder{MaxWidth: cfg.ImageMaxWidth},
	})

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := newRouter(cfg, handler)

	log.Info("starting server", zap.String("addr", cfg.Addr), zap.String("provider", cfg.Provider))
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

// newModel builds the client for the configured provider. A missing API key is not
// an error here: requests then fail as unauthorized and the handlers serve demo data.
func newModel(ctx context.Context, cfg config.Config, log *zap.Logger) (chef.Model, func(), error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		client, err := gemini.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, log)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Gemini.APIKey == "" {
			log.Warn("GEMINI_API_KEY is not set, serving demo data")
		}
		return client, func() { client.Close() }, nil
	default:
		if cfg.OpenAI.APIKey == "" {
			log.Warn("OPENAI_API_KEY is not set, serving demo data")
		}
		return openai.NewClient(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.Model, log), func() {}, nil
	}
}

func newRouter(cfg config.Config, handler *api.Handler) *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = cfg.MaxUploadBytes

	// Configure CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.SetHTMLTemplate(api.PageTemplate())

	r.GET("/healthz", handler.Health)
	r.POST("/api/analyze-image", handler.AnalyzeImage)
	r.POST("/api/recipes", handler.Recipes)
	r.POST("/api/encode-image", handler.EncodeImage)

	r.GET("/", handler.Index)
	r.POST("/pantry", handler.AddIngredient)
	r.POST("/pantry/upload", handler.UploadIngredients)
	r.POST("/pantry/recipes", handler.SuggestRecipes)
	r.POST("/pantry/clear", handler.ClearPantry)
	r.POST("/pantry/:id", handler.UpdateIngredient)
	r.POST("/pantry/:id/delete", handler.RemoveIngredient)
	return r
}

func sweep(ctx context.Context, workspaces *pantry.Workspaces, maxIdle time.Duration) {
	if maxIdle <= 0 {
		return
	}
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			workspaces.Sweep(maxIdle)
		}
	}
}
