package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mymai1208/AntiBot/internal/application/registry"
	"github.com/mymai1208/AntiBot/internal/application/verification"
	"github.com/mymai1208/AntiBot/internal/config"
	discordinfra "github.com/mymai1208/AntiBot/internal/infrastructure/discord"
	"github.com/mymai1208/AntiBot/internal/infrastructure/dynamo"
	"github.com/mymai1208/AntiBot/internal/infrastructure/file"
	"github.com/mymai1208/AntiBot/internal/infrastructure/memory"
	s3infra "github.com/mymai1208/AntiBot/internal/infrastructure/s3"
	"github.com/mymai1208/AntiBot/internal/infrastructure/turnstile"
	"github.com/mymai1208/AntiBot/internal/transport/bot"
	transporthttp "github.com/mymai1208/AntiBot/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	docStore, err := newDocumentStore(ctx, cfg)
	if err != nil {
		log.Fatalf("registry store: %v", err)
	}
	registrySvc, err := registry.NewService(ctx, docStore)
	if err != nil {
		log.Fatalf("registry: %v", err)
	}

	keys := memory.NewKeyStore(cfg.KeyTTL)
	sweepCtx, stopSweep := context.WithCancel(ctx)
	go keys.Run(sweepCtx, cfg.KeySweepInterval)

	session, err := discordinfra.NewSession(cfg.DiscordToken)
	if err != nil {
		log.Fatalf("discord: %v", err)
	}

	verificationSvc := verification.NewService(verification.ServiceDeps{
		Keys:             keys,
		Registry:         registrySvc,
		Challenge:        turnstile.NewVerifier(cfg.TurnstileSecret, cfg.TurnstileVerifyURL, &http.Client{}),
		Granter:          discordinfra.NewRoleGranter(session),
		BaseURL:          cfg.PublicBaseURL,
		ChallengeTimeout: cfg.ChallengeTimeout,
		GrantTimeout:     cfg.GrantTimeout,
	})

	bot.Attach(session, bot.NewHandler(verificationSvc, discordinfra.NewResponder(session), cfg.SetupTimeout))
	if err := session.Open(); err != nil {
		log.Fatalf("discord: open gateway: %v", err)
	}

	router := transporthttp.NewRouter(cfg, &transporthttp.Deps{Verification: verificationSvc})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second + cfg.ChallengeTimeout + cfg.GrantTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s, config=%s)", cfg.AppPort, cfg.AppEnv, cfg.ConfigBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
	if err := session.Close(); err != nil {
		log.Printf("discord close: %v", err)
	}
	stopSweep()
	log.Println("Stopped")
}

func newDocumentStore(ctx context.Context, cfg *config.Config) (registry.DocumentStore, error) {
	switch cfg.ConfigBackend {
	case "s3":
		client, err := s3infra.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s3infra.NewDocumentStore(client, cfg.ConfigS3Bucket, cfg.ConfigS3Key), nil
	case "dynamodb":
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		dynamo.Bootstrap(ctx, client, cfg.ConfigDynamoTable)
		return dynamo.NewDocumentStore(client, cfg.ConfigDynamoTable), nil
	default:
		return file.NewDocumentStore(cfg.ConfigPath), nil
	}
}
