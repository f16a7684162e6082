package main

// @title           MeetSync Core API
// @version         1.0
// @description     Calendar assistant backend. MeetSync Core manages user accounts and the OAuth token lifecycle for Google and Microsoft calendars.

// @contact.name   MeetSync Labs
// @contact.url    https://github.com/meetsync-labs/meetsync-core/issues

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Format: "Bearer {token}"

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/meetsync-labs/meetsync-core/internal/adapters/driven/auth"
	"github.com/meetsync-labs/meetsync-core/internal/adapters/driven/crypto"
	"github.com/meetsync-labs/meetsync-core/internal/adapters/driven/memory"
	"github.com/meetsync-labs/meetsync-core/internal/adapters/driven/postgres"
	"github.com/meetsync-labs/meetsync-core/internal/adapters/driven/providers"
	redisadapter "github.com/meetsync-labs/meetsync-core/internal/adapters/driven/redis"
	"github.com/meetsync-labs/meetsync-core/internal/adapters/driving/http"
	"github.com/meetsync-labs/meetsync-core/internal/config"
	"github.com/meetsync-labs/meetsync-core/internal/core/domain"
	"github.com/meetsync-labs/meetsync-core/internal/core/ports/driven"
	"github.com/meetsync-labs/meetsync-core/internal/core/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	log.Printf("meetsync-core %s starting", cfg.Server.Version)

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutdown signal received, stopping...")
		cancel()
	}()

	// ===== Initialize PostgreSQL =====
	log.Println("Connecting to PostgreSQL...")
	db, err := postgres.Connect(ctx, postgres.DefaultConfig(cfg.Database.URL))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize schema (idempotent)
	if err := db.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	log.Println("PostgreSQL connected and schema initialized")

	// ===== Initialize Redis (optional) =====
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		log.Println("Connecting to Redis...")
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Println("Redis connected")
	}

	// ===== Driven adapters (infrastructure) =====
	authAdapter := auth.NewAdapter(cfg.Auth.JWTSecret)

	tokenKey, err := cfg.TokenKey()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	cipher, err := crypto.NewTokenCipher(tokenKey)
	if err != nil {
		log.Fatalf("Failed to create token cipher: %v", err)
	}

	userStore := postgres.NewUserStore(db)
	credentialStore := postgres.NewCredentialStore(db)

	// ===== Session Store (Redis if available, otherwise in-memory) =====
	var sessionStore driven.SessionStore
	if redisClient != nil {
		sessionStore = redisadapter.NewSessionStore(redisClient)
		log.Println("Using Redis session store")
	} else {
		sessionStore = memory.NewSessionStore()
		log.Println("Using in-memory session store")
	}

	// ===== OAuth State Store (Redis if available, otherwise PostgreSQL) =====
	var stateStore driven.OAuthStateStore
	if redisClient != nil {
		stateStore = redisadapter.NewOAuthStateStore(redisClient)
		log.Println("Using Redis OAuth state store")
	} else {
		stateStore = postgres.NewOAuthStateStore(db)
		log.Println("Using PostgreSQL OAuth state store")
	}

	// ===== Provider registrations =====
	providerMap := make(map[domain.Provider]services.ProviderRegistration)

	if cfg.OAuth.GoogleClientID != "" {
		googleCfg := providers.GoogleConfig(
			cfg.OAuth.GoogleClientID,
			cfg.OAuth.GoogleClientSecret,
			cfg.OAuth.GoogleRedirectURI,
		)
		providerMap[domain.ProviderGoogle] = services.ProviderRegistration{
			Config:    googleCfg,
			Exchanger: providers.NewGoogleExchanger(googleCfg),
		}
		log.Println("Google provider registered")
	}

	if cfg.OAuth.MicrosoftClientID != "" {
		microsoftCfg := providers.MicrosoftConfig(
			cfg.OAuth.MicrosoftClientID,
			cfg.OAuth.MicrosoftClientSecret,
			cfg.OAuth.MicrosoftTenantID,
			cfg.OAuth.MicrosoftRedirectURI,
		)
		providerMap[domain.ProviderMicrosoft] = services.ProviderRegistration{
			Config:    microsoftCfg,
			Exchanger: providers.NewMicrosoftExchanger(microsoftCfg),
		}
		log.Println("Microsoft provider registered")
	}

	if len(providerMap) == 0 {
		log.Println("Warning: no calendar providers configured")
	}

	// ===== Services (core business logic) =====
	authService := services.NewAuthService(userStore, sessionStore, authAdapter)
	userService := services.NewUserService(userStore, sessionStore, authAdapter)
	oauthService := services.NewOAuthService(services.OAuthServiceConfig{
		UserStore:       userStore,
		CredentialStore: credentialStore,
		StateStore:      stateStore,
		Cipher:          cipher,
		Providers:       providerMap,
		StateTTL:        cfg.OAuth.StateTTL,
		Logger:          slog.Default(),
	})

	// ===== HTTP server =====
	serverCfg := http.Config{
		Host:    cfg.Server.Host,
		Port:    cfg.Server.Port,
		Version: cfg.Server.Version,
	}

	var redisPinger http.Pinger
	if redisClient != nil {
		redisPinger = redisPing{client: redisClient}
	}

	server := http.NewServer(
		serverCfg,
		authService,
		userService,
		oauthService,
		db,
		redisPinger,
	)

	log.Printf("API server starting on %s", cfg.ListenAddr())
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// redisPing adapts the go-redis client to the server's health interface.
type redisPing struct {
	client *redis.Client
}

func (p redisPing) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
