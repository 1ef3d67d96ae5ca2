package app

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/upb/spaces-control-plane/config"
	"github.com/upb/spaces-control-plane/handlers"
	"github.com/upb/spaces-control-plane/internal/auth"
	"github.com/upb/spaces-control-plane/repositories"
	"github.com/upb/spaces-control-plane/repositories/postgres"
	redisrepo "github.com/upb/spaces-control-plane/repositories/redis"
	"github.com/upb/spaces-control-plane/services"
	"github.com/upb/spaces-control-plane/services/audit"
)

// ephemeralKeyBits is the RSA size used when no access key pair is configured
const ephemeralKeyBits = 2048

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Redis  *redisrepo.Client // nil when revocation is disabled
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Repos     *repositories.Repositories
	TxManager repositories.TransactionManager

	// Auth
	Verifier    auth.AccessTokenVerifier
	Revocations auth.RevocationList
	Audit       *audit.AuditService

	// Services, typed by what the HTTP layer needs
	AuthService handlers.AuthService
	Areas       handlers.AreaService
	Rooms       handlers.RoomService
	Users       handlers.UserService
	AuditLogs   handlers.AuditReader
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	// Initialize PostgreSQL
	if err := deps.initDatabase(ctx, cfg); err != nil {
		deps.closeQuietly(ctx)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize repositories
	deps.initRepositories()

	// Initialize the revocation list
	if err := deps.initRevocations(ctx, cfg); err != nil {
		deps.closeQuietly(ctx)
		return nil, fmt.Errorf("failed to initialize revocation list: %w", err)
	}

	// Initialize the audit trail
	if err := deps.initAudit(cfg); err != nil {
		deps.closeQuietly(ctx)
		return nil, fmt.Errorf("failed to initialize audit trail: %w", err)
	}

	// Initialize token issuance and services
	if err := deps.initServices(cfg); err != nil {
		deps.closeQuietly(ctx)
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the PostgreSQL database connection and factory
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()

	// Test the connection
	if err := d.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if err := initSchema(ctx, factory, cfg.InitSchema); err != nil {
		return err
	}

	d.Logger.Info("database connection established",
		zap.String("connection", cfg.Database.LogString()))

	return nil
}

// schemaInitializer creates tables on startup
type schemaInitializer interface {
	InitSchema(ctx context.Context) error
	InitAuditSchema(ctx context.Context) error
}

// initSchema creates every table when full is set. Otherwise only the audit
// table is ensured, since it may live in a separate database.
func initSchema(ctx context.Context, schema schemaInitializer, full bool) error {
	if full {
		if err := schema.InitSchema(ctx); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
		return nil
	}
	if err := schema.InitAuditSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize audit schema: %w", err)
	}
	return nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	d.Repos = d.RepoFactory.NewRepositories()
	d.TxManager = d.RepoFactory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
}

// initRevocations connects to Redis when configured. Without Redis, sign-out
// only validates the token and refresh tokens live until they expire.
func (d *Dependencies) initRevocations(ctx context.Context, cfg *config.Config) error {
	if !cfg.Redis.Enabled() {
		d.Revocations = auth.NopRevocationList{}
		d.Logger.Warn("redis not configured, refresh token revocation disabled")
		return nil
	}

	client := redisrepo.NewClient(cfg.Redis)
	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		return fmt.Errorf("redis ping failed: %w", err)
	}

	d.Redis = client
	d.Revocations = redisrepo.NewRevocationRepository(client.RDB)
	d.Logger.Info("refresh token revocation enabled", zap.String("redis_addr", cfg.Redis.Addr))
	return nil
}

// initAudit starts the asynchronous audit writer
func (d *Dependencies) initAudit(cfg *config.Config) error {
	d.Audit = audit.NewAuditService(d.Repos.AuditLogs, d.Logger, audit.Config{
		BufferSize:  cfg.Audit.BufferSize,
		WorkerCount: cfg.Audit.WorkerCount,
	})
	if err := d.Audit.Start(); err != nil {
		return err
	}
	d.AuditLogs = d.Audit
	return nil
}

// initServices builds the token issuer and verifier and the services on top of them
func (d *Dependencies) initServices(cfg *config.Config) error {
	keys, err := loadKeyPair(cfg, d.Logger)
	if err != nil {
		return err
	}
	secret, err := refreshSecret(cfg, d.Logger)
	if err != nil {
		return err
	}

	issuer, err := auth.NewIssuer(auth.IssuerConfig{
		Keys:          keys,
		RefreshSecret: secret,
		AccessTTL:     cfg.Auth.AccessTTL,
		RefreshTTL:    cfg.Auth.RefreshTTL,
		Issuer:        cfg.Auth.Issuer,
	})
	if err != nil {
		return fmt.Errorf("failed to create token issuer: %w", err)
	}
	verifier := auth.NewVerifier(auth.VerifierConfig{
		PublicKey:     keys.Public,
		RefreshSecret: secret,
		Issuer:        cfg.Auth.Issuer,
	})
	d.Verifier = verifier

	hasher, err := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to create password hasher: %w", err)
	}

	d.AuthService = services.NewAuthService(services.AuthServiceConfig{
		Users:                 d.Repos.Users,
		Profiles:              d.Repos.Profiles,
		Hasher:                hasher,
		Issuer:                issuer,
		Verifier:              verifier,
		Revocations:           d.Revocations,
		Audit:                 d.Audit,
		IdentityLookupTimeout: cfg.Auth.IdentityLookupTimeout,
		Logger:                d.Logger.Named("auth"),
	})
	d.Areas = services.NewAreaService(d.Repos.Areas, d.Logger)
	d.Rooms = services.NewRoomService(d.TxManager, d.Repos.Areas, d.Repos.Rooms, d.Logger)
	d.Users = services.NewUserService(d.TxManager, d.Repos.Users, d.Repos.Profiles, hasher, d.Logger)

	d.Logger.Info("services initialized")
	return nil
}

// loadKeyPair decodes the configured access key pair, or generates an
// ephemeral one outside production. Tokens signed with an ephemeral key do
// not survive a restart.
func loadKeyPair(cfg *config.Config, logger *zap.Logger) (*auth.KeyPair, error) {
	if cfg.Auth.HasAccessKeys() {
		keys, err := auth.LoadKeyPair(cfg.Auth.AccessPrivateKey, cfg.Auth.AccessPublicKey)
		if err != nil {
			return nil, fmt.Errorf("failed to load access key pair: %w", err)
		}
		return keys, nil
	}
	if cfg.IsProduction() {
		return nil, errors.New("access key pair is required in production")
	}

	logger.Warn("no access key pair configured, generating an ephemeral one")
	keys, err := auth.GenerateKeyPair(ephemeralKeyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access key pair: %w", err)
	}
	return keys, nil
}

// refreshSecret returns the configured refresh secret, or a random one
// outside production
func refreshSecret(cfg *config.Config, logger *zap.Logger) ([]byte, error) {
	if cfg.Auth.RefreshSecret != "" {
		return []byte(cfg.Auth.RefreshSecret), nil
	}
	if cfg.IsProduction() {
		return nil, errors.New("refresh secret is required in production")
	}

	logger.Warn("no refresh secret configured, generating an ephemeral one")
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate refresh secret: %w", err)
	}
	return secret, nil
}

// HealthChecks returns the readiness probes for the configured backing services
func (d *Dependencies) HealthChecks() []handlers.DependencyCheck {
	var checks []handlers.DependencyCheck
	if d.DB != nil {
		checks = append(checks, handlers.DependencyCheck{Name: "database", Check: d.DB.HealthCheck})
	}
	if d.Redis != nil {
		checks = append(checks, handlers.DependencyCheck{Name: "redis", Check: d.Redis.Ping})
	}
	if d.Audit != nil {
		checks = append(checks, handlers.DependencyCheck{Name: "audit", Check: d.Audit.HealthCheck})
	}
	return checks
}

// Close gracefully shuts down all dependencies. The audit trail is drained
// before the database closes.
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.Audit != nil {
		if err := d.Audit.Stop(d.Config.Audit.ShutdownTimeout); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop audit service: %w", err))
		}
		d.Audit = nil
	}

	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
		d.Redis = nil
	}

	// Close database connection
	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
		d.RepoFactory = nil
	}

	// Sync logger
	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	return errors.Join(errs...)
}

// closeQuietly releases whatever was opened before a failed initialization
func (d *Dependencies) closeQuietly(ctx context.Context) {
	if err := d.Close(ctx); err != nil {
		d.Logger.Warn("cleanup after failed initialization", zap.Error(err))
	}
}
