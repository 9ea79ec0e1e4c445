package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/digitalocean/framer-hubspot/pkg/api"
	"github.com/digitalocean/framer-hubspot/pkg/classifier"
	"github.com/digitalocean/framer-hubspot/pkg/clients/hubspot"
	"github.com/digitalocean/framer-hubspot/pkg/config"
	"github.com/digitalocean/framer-hubspot/pkg/logging"
	"github.com/digitalocean/framer-hubspot/pkg/middleware"
	"github.com/digitalocean/framer-hubspot/pkg/normalize"
	"github.com/digitalocean/framer-hubspot/pkg/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.LoadConfig()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	if !cfg.HasCRMConfig() {
		logger.Warn("HUBSPOT_ACCESS_TOKEN is not set, submissions will be answered with 500")
	}

	phone := normalize.NewPhoneNormalizer(cfg.PhoneCountryCode, cfg.PhoneLocalLength)

	var rules *config.Rules
	if cfg.FieldRulesFile != "" {
		rules, err = config.LoadRules(cfg.FieldRulesFile)
		if err != nil {
			logger.Fatal("error loading field rules", zap.Error(err))
		}
		logger.Info("loaded field rules", zap.String("path", cfg.FieldRulesFile))
	}
	fieldClassifier, err := classifier.NewFromRules(phone, rules)
	if err != nil {
		logger.Fatal("invalid field rules", zap.Error(err))
	}

	// Initialize API clients
	hubspotClient := hubspot.NewClient(cfg.HubSpotAccessToken, hubspot.Options{
		BaseURL:   cfg.HubSpotBaseURL,
		Timeout:   cfg.CRMTimeout,
		RateLimit: cfg.CRMRateLimit,
		RateBurst: cfg.CRMRateBurst,
		Logger:    logger,
	})

	// Initialize services
	var duplicates services.DuplicateChecker = services.NeverDuplicate{}
	if cfg.DedupEnabled {
		duplicates = services.NotesContainChecker{Labels: cfg.DedupLabels}
	}
	upserter := services.NewContactUpserter(hubspotClient, services.UpserterOptions{
		DefaultCompany: cfg.DefaultCompany,
		NotesProperty:  cfg.NotesProperty,
		Duplicates:     duplicates,
		Logger:         logger.Named("upsert"),
	})
	submissionService := services.NewSubmissionService(
		fieldClassifier,
		upserter,
		phone,
		cfg.HasCRMConfig(),
		logger.Named("submission"),
	)

	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.Named("http")))
	router.Use(middleware.CORS())

	handlers := api.NewHandlers(submissionService, api.WebhookOptions{
		Secret:           cfg.WebhookSecret,
		VerifySignatures: cfg.SignatureVerificationEnabled(),
		SignatureHeader:  cfg.SignatureHeader,
		StrictErrors:     cfg.StrictErrors,
	}, logger.Named("api"))
	handlers.Register(router)

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("error starting server", zap.Error(err))
	}
}
