// @title Readum API
// @version 1.0
// @description Generates multiple-choice quizzes from text or web pages and scores submitted answers.
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8090
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "readum/cmd/api/docs"
	"readum/internal/adapter/completion"
	"readum/internal/adapter/embedding"
	"readum/internal/adapter/loader"
	"readum/internal/adapter/rediscache"
	"readum/internal/adapter/resultstore"
	"readum/internal/adapter/vectorindex"
	"readum/internal/cache"
	"readum/internal/config"
	"readum/internal/database"
	"readum/internal/domain"
	"readum/internal/handler"
	"readum/internal/logger"
	"readum/internal/middleware"
	"readum/internal/repository"
	"readum/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	goopenai "github.com/sashabaranov/go-openai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

const resultPurgeInterval = time.Hour

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Redis backs the embedding cache and, optionally, result storage.
	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			if cfg.Storage.Backend == "redis" {
				appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
			}
			appLogger.Warn("Redis unavailable, continuing without cache", zap.Error(err))
		} else {
			defer redisClient.Close()
			cacheAdapter = rediscache.NewRedisCache(redisClient)
			appLogger.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))
		}
	}

	var embeddingService domain.EmbeddingService
	switch cfg.Embedding.Source {
	case "ollama":
		appLogger.Info("Initializing Ollama Embedding Service", zap.String("server_url", cfg.Embedding.ServerURL), zap.String("model", cfg.Embedding.Model))
		embeddingService, err = embedding.NewOllamaEmbeddingService(cfg.Embedding.ServerURL, cfg.Embedding.Model)
	case "openai":
		appLogger.Info("Initializing OpenAI Embedding Service", zap.String("model", cfg.Embedding.Model), zap.Bool("cached", cacheAdapter != nil))
		embeddingService, err = embedding.NewOpenAIEmbeddingService(cfg.Embedding.APIKey, cfg.Embedding.Model, cacheAdapter, cfg.Embedding.CacheTTL)
	default:
		err = fmt.Errorf("unsupported embedding source: %s", cfg.Embedding.Source)
	}
	if err != nil {
		appLogger.Fatal("Failed to create embedding service", zap.Error(err))
	}

	llm, err := newLLM(cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	}
	completer := newCompleter(cfg.LLM, llm)

	var judge domain.ExplanationJudge
	switch cfg.LLM.Judge {
	case "structural":
		judge = service.StructuralExplanationJudge{}
	default:
		judge = completion.NewLLMExplanationJudge(llm)
	}
	appLogger.Info("LLM initialized",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model),
		zap.String("judge", cfg.LLM.Judge),
	)

	resultStore, closeStore, err := newResultStore(ctx, cfg, cacheAdapter)
	if err != nil {
		appLogger.Fatal("Failed to initialize result store", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}
	defer closeStore()

	indexes := service.NewIndexManager(vectorindex.NewService(embeddingService, cfg.RAG.EmbedWorkers), cfg.RAG.IndexRoot, cfg.RAG.Provider)
	preparer := service.NewDocumentPreparer(loader.NewPageLoader(cfg.PageLoader.Timeout), cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)

	quizService := service.NewQuizService(preparer, indexes, completer, judge, cfg.RAG)
	submissionService := service.NewSubmissionService(resultStore)

	quizHandler := handler.NewQuizHandler(quizService, submissionService, cfg.Server.RequestTimeout)
	validationMiddleware := middleware.NewValidationMiddleware()

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept," + middleware.RequestIDHeader,
		MaxAge:       300,
	}))

	app.Get("/", handler.HealthCheck)
	app.Get("/swagger/*", swagger.HandlerDefault)

	apiGroup := app.Group("/api")
	apiGroup.Post("/quiz", quizHandler.CreateQuiz)
	apiGroup.Post("/quiz/submit", quizHandler.SubmitQuiz)
	apiGroup.Get("/result/:uuid", validationMiddleware.ValidateResultID(), quizHandler.GetResult)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}

// newLLM builds the langchaingo model used by the langchain completer and
// the explanation judge.
func newLLM(cfg config.LLMConfig) (llms.Model, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Provider {
	case "ollama":
		return ollama.New(
			ollama.WithServerURL(cfg.ServerURL),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(httpClient),
		)
	case "openai", "openai-direct":
		opts := []openai.Option{
			openai.WithToken(cfg.APIKey),
			openai.WithHTTPClient(httpClient),
		}
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(cfg.Model))
		}
		if cfg.ServerURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.ServerURL))
		}
		return openai.New(opts...)
	}
	return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
}

func newCompleter(cfg config.LLMConfig, llm llms.Model) domain.StructuredCompleter {
	if cfg.Provider != "openai-direct" {
		return completion.NewLangchainCompleter(llm, cfg.Temperature)
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.ServerURL != "" {
		clientCfg.BaseURL = cfg.ServerURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return completion.NewOpenAICompleter(goopenai.NewClientWithConfig(clientCfg), cfg.Model, cfg.Temperature)
}

// newResultStore picks the submission store. The returned func releases
// whatever the backend holds open.
func newResultStore(ctx context.Context, cfg *config.Config, cacheAdapter domain.Cache) (domain.ResultStore, func(), error) {
	switch cfg.Storage.Backend {
	case "redis":
		if cacheAdapter == nil {
			return nil, nil, fmt.Errorf("redis backend selected but redis.address is empty")
		}
		return resultstore.NewCacheStore(cacheAdapter, cfg.Storage.ResultTTL), func() {}, nil

	case "gcs":
		store, err := resultstore.NewGCSStore(ctx, cfg.Storage.GCSBucket, cfg.Storage.GCSPrefix)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil

	case "sql":
		db, err := database.NewSQLXOracleDB(ctx, cfg.GetDSN())
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewResultRepository(db, cfg.Storage.ResultTTL)
		go repo.RunPurger(ctx, resultPurgeInterval)
		return repo, func() { _ = db.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
}
