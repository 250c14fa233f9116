// File: cmd/diagnostic/llm_diagnostic.go
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/magicgoaldev-prog/ai-voice-chat/internal/config"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/services/ai"
)

// Probes the configured completion provider end to end: health check first,
// then one short correction-style completion.
func main() {
	fmt.Println("Checking language model connectivity...")

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg := config.Load()
	if cfg.LLMAPIKey == "" {
		log.Fatal("OPENAI_API_KEY not set in environment")
	}

	aiConfig := ai.DefaultConfig()
	aiConfig.APIKey = cfg.LLMAPIKey
	aiConfig.BaseURL = cfg.LLMBaseURL
	aiConfig.Model = cfg.LLMModel
	if err := aiConfig.Validate(); err != nil {
		log.Fatalf("Invalid AI configuration: %v", err)
	}

	provider := ai.NewOpenAIProvider(aiConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := provider.HealthCheck(ctx); err != nil {
		log.Fatalf("Health check failed: %v", err)
	}
	fmt.Println("Health check passed")

	reply, err := provider.GetCompletion(ctx,
		"You are an English teacher. Answer in one short sentence.",
		"Correct this sentence: i am happy")
	if err != nil {
		log.Fatalf("Completion failed: %v", err)
	}

	fmt.Printf("Model: %s\n", aiConfig.Model)
	fmt.Printf("Response: %s\n", reply)
}
