// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/magicgoaldev-prog/ai-voice-chat/internal/config"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/domain"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/handlers"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/middleware"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/ratelimit"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/repository/audio"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/repository/conversation"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/repository/message"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/repository/user"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/services"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/services/ai"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/services/correction"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/services/reply"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/services/user_services"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()
	logger := services.NewLogger("ai_voice_chat")

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(&domain.User{}, &domain.Conversation{}, &domain.Message{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	audioStore, err := audio.NewBoltObjectStore(cfg.AudioStorePath)
	if err != nil {
		log.Fatalf("Audio store error: %v", err)
	}
	defer audioStore.Close()

	// --- Repositories ---
	userRepo := user.NewGormUserRepository(db)
	convRepo := conversation.NewConversationRepository(db)
	messageRepo := message.NewMessageRepository(db)

	// --- Services ---
	aiConfig := ai.DefaultConfig()
	aiConfig.APIKey = cfg.LLMAPIKey
	aiConfig.BaseURL = cfg.LLMBaseURL
	aiConfig.Model = cfg.LLMModel
	if err := aiConfig.Validate(); err != nil {
		// The pipeline degrades to local rules when the provider fails,
		// so a missing key is not fatal outside production.
		log.Printf("AI provider not fully configured: %v", err)
	}
	provider := ai.NewOpenAIProvider(aiConfig)

	cooldown := time.Duration(cfg.FallbackCooldownMinutes) * time.Minute
	correctionSvc := correction.NewService(provider, cooldown, logger)
	replySvc := reply.NewService(provider, cooldown, logger)

	messageService, err := services.NewMessageService(correctionSvc, replySvc, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize message service: %v", err)
	}

	conversationService, err := services.NewConversationService(convRepo, messageRepo, audioStore, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize conversation service: %v", err)
	}

	translateService := services.NewTranslateService(cfg.TranslateAPIKey, cfg.TranslateAPIURL, logger)
	authService := user_services.NewAuthService(userRepo, cfg.JWTSecretKey, logger)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	messageHandler := handlers.NewMessageHandler(messageService)
	translateHandler := handlers.NewTranslateHandler(translateService)
	conversationHandler := handlers.NewConversationHandler(conversationService, messageService)

	// --- Router Setup ---
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware(authService)

	authLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.DefaultAuthConfig())
	defer authLimiter.Close()

	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	// --- Public Routes ---
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
	r.HandleFunc("/api/log", handlers.LogFrontendEvent).Methods("POST")

	authRoutes := r.PathPrefix("/api/auth").Subrouter()
	authRoutes.Use(middleware.RateLimit(authLimiter))
	authRoutes.HandleFunc("/google", authHandler.GoogleLogin).Methods("POST")
	authRoutes.HandleFunc("/verify", authHandler.Verify).Methods("GET")

	r.HandleFunc("/api/conversation/message", messageHandler.HandleMessage).Methods("POST")
	r.HandleFunc("/api/translate", translateHandler.Translate).Methods("POST")

	// --- Protected Routes ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)
	api.HandleFunc("/conversations", conversationHandler.GetConversations).Methods("GET")
	api.HandleFunc("/conversations", conversationHandler.CreateConversation).Methods("POST")
	api.HandleFunc("/conversations/{id:[0-9]+}/messages", conversationHandler.GetMessages).Methods("GET")
	api.HandleFunc("/conversations/{id:[0-9]+}/messages", conversationHandler.PostMessage).Methods("POST")
	api.HandleFunc("/conversations/{id:[0-9]+}", conversationHandler.DeleteConversation).Methods("DELETE")
	api.HandleFunc("/conversations/{id:[0-9]+}/audio/{key}", conversationHandler.GetAudio).Methods("GET")
	api.HandleFunc("/conversations/{id:[0-9]+}/messages/{messageId:[0-9]+}/audio", conversationHandler.PutAudio).Methods("PUT")

	// --- Server Configuration ---
	port := ":8080"
	if cfg.ServerPort != "" {
		port = ":" + cfg.ServerPort
	}
	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Voice chat server starting on port %s", port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}
