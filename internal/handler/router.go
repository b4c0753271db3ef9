package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rfpworks/rfpserver/internal/config"
	"github.com/rfpworks/rfpserver/internal/eino/agent"
	"github.com/rfpworks/rfpserver/internal/eino/llm"
	"github.com/rfpworks/rfpserver/internal/extract"
	"github.com/rfpworks/rfpserver/internal/middleware"
	"github.com/rfpworks/rfpserver/internal/model"
	"github.com/rfpworks/rfpserver/internal/pkg/jwt"
	"github.com/rfpworks/rfpserver/internal/pkg/redis"
	"github.com/rfpworks/rfpserver/internal/pkg/storage"
	"github.com/rfpworks/rfpserver/internal/repository"
	"github.com/rfpworks/rfpserver/internal/rfp"
	"github.com/rfpworks/rfpserver/internal/service"
)

func SetupRouter(cfg *config.Config, db *gorm.DB, cache *redis.Client, store storage.Store) (*gin.Engine, error) {
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.RequestID())

	// Health check endpoints
	r.GET("/health", healthCheck)
	r.GET("/ready", readinessCheck)
	r.GET("/live", livenessCheck)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":      "RFP Response Server",
			"version":      "1.0.0",
			"status":       "running",
			"health_check": "/health",
		})
	})

	// Repositories
	companyRepo := repository.NewCompanyRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	rfpRepo := repository.NewRFPRepository(db)
	knowledgeRepo := repository.NewKnowledgeRepository(db)
	artifactRepo := repository.NewArtifactRepository(db)

	// LLM stack
	provider := &llm.ProviderConfig{
		Kind:    llm.ProviderKind(cfg.LLMProvider),
		APIKey:  cfg.LLMAPIKey,
		Model:   cfg.LLMModel,
		BaseURL: cfg.LLMBaseURL,
	}
	llmFactory := llm.NewFactory()
	generator, err := llm.NewGenerator(context.Background(), llmFactory, provider)
	if err != nil {
		return nil, fmt.Errorf("init llm generator: %w", err)
	}
	agentBuilder := agent.NewBuilder(llmFactory)

	// Core services
	extractor := extract.NewExtractor(cfg.ChunkSize, cfg.ChunkOverlap)
	embeddingSvc := service.NewEmbeddingService(cfg.EmbeddingAPIKey, cfg.EmbeddingBaseURL, cfg.EmbeddingModel, cfg.EmbeddingDimensions)
	knowledgeSvc := service.NewKnowledgeService(db, knowledgeRepo, embeddingSvc, extractor)
	parser := rfp.NewParser(generator)

	answerSvc := service.NewAnswerService(agentBuilder, knowledgeSvc, generator, service.AnswerConfig{
		Provider:    provider,
		TopK:        cfg.RetrieveTopK,
		Concurrency: cfg.AnswerConcurrency,
		UnitTimeout: cfg.AnswerUnitTimeout(),
		RPS:         cfg.AnswerRPS,
	})
	compileSvc := service.NewCompileService(generator, store, artifactRepo, rfpRepo)
	pipelineSvc := service.NewPipelineService(rfpRepo, store, extractor, parser, answerSvc, compileSvc)
	assignmentSvc := service.NewAssignmentService(rfpRepo, employeeRepo, cache)

	jwtManager := jwt.NewManager(cfg.JWTSecret, cfg.AccessTokenExpireMin, cfg.RefreshTokenExpireDays)
	authSvc := service.NewAuthService(db, companyRepo, employeeRepo, jwtManager)

	// Handlers
	authHandler := NewAuthHandler(authSvc)
	rfpHandler := NewRFPHandler(pipelineSvc, assignmentSvc, compileSvc, rfpRepo)
	knowledgeHandler := NewKnowledgeHandler(knowledgeSvc, knowledgeRepo)
	employeeHandler := NewEmployeeHandler(assignmentSvc, employeeRepo)
	artifactHandler := NewArtifactHandler(artifactRepo, rfpRepo, store)

	authMw := middleware.NewAuthMiddleware(jwtManager, db)

	v1 := r.Group("/api/v1")
	{
		// Public auth endpoints
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.RegisterCompany)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		// Everything below requires an authenticated tenant member.
		secured := v1.Group("")
		secured.Use(authMw.JWTAuth(), middleware.CompanyRequired())
		{
			// Employee accounts
			employees := secured.Group("/employees")
			{
				employees.GET("", employeeHandler.List)
				employees.POST("", middleware.RequireRole(model.RoleAdmin), authHandler.CreateEmployee)
			}

			// The authenticated employee's own work queue
			me := secured.Group("/me")
			{
				me.GET("/rfps", employeeHandler.AssignedRFPs)
				me.GET("/current-rfp", employeeHandler.CurrentRFP)
				me.PUT("/current-rfp", employeeHandler.SetCurrentRFP)
				me.DELETE("/current-rfp", employeeHandler.ClearCurrentRFP)
			}

			// RFP lifecycle
			rfps := secured.Group("/rfps")
			{
				rfps.GET("", rfpHandler.List)
				rfps.POST("", rfpHandler.Upload)
				rfps.GET("/:id", rfpHandler.Get)
				rfps.POST("/:id/generate", rfpHandler.Generate)
				rfps.PATCH("/:id/status", rfpHandler.SetStatus)
				rfps.POST("/:id/assign", middleware.RequireRole(model.RoleAdmin), rfpHandler.Assign)
				rfps.GET("/:id/messages", rfpHandler.ListMessages)
				rfps.POST("/:id/messages", rfpHandler.PostMessage)
				rfps.POST("/:id/refine", rfpHandler.Refine)
				rfps.GET("/:id/artifacts", artifactHandler.List)
				rfps.GET("/:id/artifacts/latest", artifactHandler.Latest)
			}

			// Company knowledge store
			knowledge := secured.Group("/knowledge")
			{
				knowledge.POST("/documents", knowledgeHandler.Upload)
				knowledge.GET("/stats", knowledgeHandler.Stats)
				knowledge.DELETE("/documents", middleware.RequireRole(model.RoleAdmin), knowledgeHandler.Purge)
				knowledge.POST("/query", knowledgeHandler.Query)
			}

			// Stored object download
			secured.GET("/files/*key", artifactHandler.Download)
		}
	}

	return r, nil
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "rfpserver",
	})
}

func readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

func livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
