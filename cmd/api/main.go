package main

import (
	"context"
	"log"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/TalentScout-AI/internal/auth"
	"github.com/justsurfingit/TalentScout-AI/internal/config"
	"github.com/justsurfingit/TalentScout-AI/internal/database"
	"github.com/justsurfingit/TalentScout-AI/internal/extract"
	"github.com/justsurfingit/TalentScout-AI/internal/handlers"
	"github.com/justsurfingit/TalentScout-AI/internal/llm"
	"github.com/justsurfingit/TalentScout-AI/internal/services"
	"github.com/justsurfingit/TalentScout-AI/internal/storage"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	ctx := context.Background()

	// 2. Database Connection
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	// 3. LLM client, with the completion cache when Redis is configured
	model, err := llm.NewModel(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to create LLM client: ", err)
	}
	llmOpts := []llm.Option{llm.WithTemperature(cfg.LLMTemperature)}
	if cfg.RedisAddr != "" {
		rdb, err := llm.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			log.Printf("⚠️  Redis unavailable, completion cache disabled: %v", err)
		} else {
			llmOpts = append(llmOpts, llm.WithCache(llm.NewRedisCache(rdb, cfg.LLMCacheTTL)))
			log.Println("✅ Completion cache connected")
		}
	}
	llmClient := llm.NewClient(model, cfg.LLMModel, llmOpts...)
	log.Printf("✅ LLM ready (%s / %s)", cfg.LLMProvider, cfg.LLMModel)

	// 4. Resume archive (optional)
	var archive storage.ResumeArchive
	if cfg.S3Endpoint != "" {
		a, err := storage.NewMinioArchive(ctx, storage.Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			UseSSL:    cfg.S3UseSSL,
		})
		if err != nil {
			log.Printf("⚠️  Resume archive disabled: %v", err)
		} else {
			archive = a
			log.Printf("✅ Resume archive connected (bucket %s)", cfg.S3Bucket)
		}
	}

	// 5. Identity
	verifier, err := auth.NewVerifier(cfg.JWTPublicKey, cfg.AuthorizedParty)
	if err != nil {
		log.Fatal(err)
	}

	// 6. Initialize Core Services
	jobService := services.NewJobService(db)
	candidateService := services.NewCandidateService(db, jobService, archive)
	gradingService := services.NewGradingService(jobService, candidateService, extract.New(), llmClient, archive)
	emailService := services.NewEmailService(jobService, candidateService, llmClient)

	// 7. Initialize Handlers
	maxUpload := cfg.MaxUploadMB << 20
	jobHandler := handlers.NewJobHandler(jobService, candidateService)
	resumeHandler := handlers.NewResumeHandler(gradingService, emailService, candidateService, maxUpload)

	// 8. Setup Router & CORS
	r := gin.Default()
	r.MaxMultipartMemory = maxUpload
	corsConfig := cors.DefaultConfig()
	if slices.Contains(cfg.CORSOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsConfig))

	// 9. Define Routes
	handlers.RegisterRoutes(r, verifier.Middleware(), jobHandler, resumeHandler)

	log.Printf("🚀 Server starting on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed to start: ", err)
	}
}
