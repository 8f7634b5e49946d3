package main

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"chatspace/internal/adapter/api"
	"chatspace/internal/adapter/api/handler"
	apimiddleware "chatspace/internal/adapter/api/middleware"
	"chatspace/internal/adapter/api/router"
	"chatspace/internal/adapter/repository"
	"chatspace/internal/infrastructure/auth"
	"chatspace/internal/infrastructure/mailer"
	"chatspace/internal/infrastructure/ratelimit"
	"chatspace/internal/infrastructure/token"
	"chatspace/internal/infrastructure/websocket"
	"chatspace/internal/usecase"
	"chatspace/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirestoreProject)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)
	messageRepo := repository.NewFirestoreMessageRepository(firestoreClient)

	tokenService := token.NewService(cfg.JWTSecret, time.Duration(cfg.JWTExpiry)*time.Second)
	passwordHasher := auth.NewPasswordHasher()
	resetMailer := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom)
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	authUseCase := usecase.NewAuthUseCase(
		userRepo,
		passwordHasher,
		tokenService,
		resetMailer,
		rateLimiter,
		cfg.ClientURL,
		time.Duration(cfg.ResetTokenValidity)*time.Second,
	)
	chatUseCase := usecase.NewChatUseCase(chatRepo, userRepo, messageRepo, rateLimiter)
	messageUseCase := usecase.NewMessageUseCase(messageRepo, chatRepo, userRepo, wsManager, rateLimiter)

	handler.Setup(authUseCase, chatUseCase, messageUseCase, handler.CookieSettings{
		Expiry: time.Duration(cfg.JWTCookieExpiry) * time.Second,
		Secure: cfg.Environment == "production",
	})

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(tokenService, userRepo)
	wsHandler := handler.NewWebSocketHandler(wsManager, authMiddleware)

	router.Setup(e, authMiddleware)
	router.SetupWebSocketRouter(e, wsHandler)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
