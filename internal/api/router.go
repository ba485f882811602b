// Package api wires the HTTP surface: router, middleware, handlers.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/decisionloom/decisionloom/internal/api/handler"
	custommiddleware "github.com/decisionloom/decisionloom/internal/api/middleware"
	"github.com/decisionloom/decisionloom/internal/config"
	"github.com/decisionloom/decisionloom/internal/llm/openrouter"
	"github.com/decisionloom/decisionloom/internal/repository/postgres"
	"github.com/decisionloom/decisionloom/internal/repository/redis"
	"github.com/decisionloom/decisionloom/internal/service"
)

// NewRouter creates and configures the HTTP router. redisClient may be
// nil; rate limiting and caching then degrade to no-ops.
func NewRouter(cfg *config.Config, db *postgres.DB, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Repositories
	sessionRepo := postgres.NewSessionRepository(db.Pool)
	artifactRepo := postgres.NewArtifactRepository(db.Pool)
	walkthroughRepo := postgres.NewWalkthroughRepository(db.Pool)

	// Redis-backed concerns
	rateLimiter := redis.NewRateLimiter(redisClient, cfg.RateLimit)
	sessionCache := redis.NewSessionCache(redisClient)

	// Completion client
	llmClient := openrouter.NewClient(cfg.LLM)

	// Services
	sessionService := service.NewSessionService(sessionRepo, sessionCache)
	generationService := service.NewGenerationService(llmClient, cfg.LLM.Models, sessionService, sessionRepo, artifactRepo)
	walkthroughService := service.NewWalkthroughService(llmClient, cfg.LLM.Models, sessionRepo, walkthroughRepo, artifactRepo, generationService)

	// Handlers
	sessionHandler := handler.NewSessionHandler(sessionService)
	generateHandler := handler.NewGenerateHandler(generationService)
	suggestHandler := handler.NewSuggestHandler(generationService)
	refineHandler := handler.NewRefineHandler(generationService)
	walkthroughHandler := handler.NewWalkthroughHandler(walkthroughService)

	rateLimit := custommiddleware.NewRateLimitMiddleware(rateLimiter)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db))

		// Session lifecycle
		r.Route("/session", func(r chi.Router) {
			r.Post("/", sessionHandler.Create)
			r.Get("/{sessionID}", sessionHandler.Get)
			r.Patch("/{sessionID}/section", sessionHandler.SaveSection)
		})

		// Section helpers
		r.With(rateLimit.Limit(redis.BucketSuggest)).Post("/suggest", suggestHandler.Suggest)
		r.With(rateLimit.Limit(redis.BucketSummarize)).Post("/summarize", suggestHandler.Summarize)

		// Document generation
		r.Route("/generate", func(r chi.Router) {
			r.Use(rateLimit.Limit(redis.BucketGenerate))

			r.Post("/prefill", generateHandler.Prefill)
			r.Post("/idea-explorer", generateHandler.IdeaExplorer)
			r.Post("/prd", generateHandler.PRD)
			r.Post("/prd/stream", generateHandler.PRDStream)
			r.Post("/tech-spec", generateHandler.TechSpec)
			r.Post("/tech-spec/stream", generateHandler.TechSpecStream)
			r.Post("/reflection", generateHandler.Reflection)
		})

		// Refinement chat
		r.With(rateLimit.Limit(redis.BucketRefine)).Post("/refine", refineHandler.Refine)

		// Architecture walkthrough
		r.Route("/tech-walkthrough", func(r chi.Router) {
			r.Post("/", walkthroughHandler.Start)
			r.Get("/", walkthroughHandler.Get)
			r.Post("/drivers", walkthroughHandler.SaveDrivers)
			r.Post("/agentic-profile", walkthroughHandler.SaveAgenticProfile)
			r.Patch("/decisions", walkthroughHandler.UpdateDecision)

			r.Group(func(r chi.Router) {
				r.Use(rateLimit.Limit(redis.BucketGenerate))

				r.Post("/decisions/propose", walkthroughHandler.ProposeDecisions)
				r.Post("/generate-spec", walkthroughHandler.GenerateSpec)
				r.Post("/generate-diagram", walkthroughHandler.GenerateDiagram)
			})

			r.With(rateLimit.Limit(redis.BucketSuggest)).Post("/prefill", walkthroughHandler.Prefill)
			r.With(rateLimit.Limit(redis.BucketSuggest)).Post("/suggest", walkthroughHandler.SuggestDriver)
		})
	})

	return r
}
