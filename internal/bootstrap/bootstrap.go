package bootstrap

import (
	"context"
	"fmt"

	"revenue-server/internal/attribution"
	attributionHandler "revenue-server/internal/attribution/handler"
	"revenue-server/internal/auth/handler"
	"revenue-server/internal/auth/processor"
	kafkaClient "revenue-server/internal/clients/kafka"
	redisClient "revenue-server/internal/clients/redis"
	"revenue-server/internal/commission"
	commissionHandler "revenue-server/internal/commission/handler"
	"revenue-server/internal/config"
	crmHandler "revenue-server/internal/crm/handler"
	crmProcessor "revenue-server/internal/crm/processor"
	"revenue-server/internal/events"
	"revenue-server/internal/identity"
	"revenue-server/internal/ledger"
	ledgerHandler "revenue-server/internal/ledger/handler"
	"revenue-server/internal/matching"
	"revenue-server/internal/observability"
	paymentHandler "revenue-server/internal/payments/handler"
	paymentProcessor "revenue-server/internal/payments/processor"
	"revenue-server/internal/ratelimit"
	"revenue-server/internal/store"
)

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	// Core
	Store  store.Store
	Logger *observability.Logger

	// Domain services
	Attribution attribution.Resolver

	// Handlers
	AuthHandler        handler.Handler
	PaymentHandler     paymentHandler.Handler
	CRMHandler         crmHandler.Handler
	CommissionHandler  commissionHandler.Handler
	AttributionHandler attributionHandler.Handler
	LedgerHandler      ledgerHandler.Handler

	WebhookRateLimiter *ratelimit.Service
	WebhookLedger      *ledger.Ledger

	// Clients (for cleanup)
	KafkaProducer *kafkaClient.Producer
	Redis         *redisClient.Client
}

// InitializeStore opens the database and builds the domain services that do not
// need the HTTP layer. The attribution CLI stops here.
func InitializeStore(ctx context.Context, database config.DatabaseConfig, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger: logger,
	}

	var err error
	deps.Store, err = store.New(database.ConnectionString(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := deps.Store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	deps.Attribution = attribution.New(&deps.Store, attribution.DefaultWindow, logger)
	return deps, nil
}

// Initialize sets up all application dependencies
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps, err := InitializeStore(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	// Publishing stays disabled without brokers
	var producer events.Producer
	if brokers := cfg.Kafka.BrokerList(); len(brokers) > 0 {
		deps.KafkaProducer = kafkaClient.NewProducer(kafkaClient.ProducerConfig{
			Brokers: brokers,
			Topic:   cfg.Kafka.Topic,
		}, logger)
		producer = deps.KafkaProducer
	} else {
		logger.Info(ctx, "Kafka brokers not configured, domain events will not be published")
	}
	publisher := events.NewPublisher(producer, logger)

	deps.Redis, err = redisClient.NewClient(cfg.Redis, logger)
	if err != nil {
		deps.Cleanup()
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	var windows ratelimit.WindowStore
	if deps.Redis != nil {
		windows = deps.Redis
	}
	deps.WebhookRateLimiter = ratelimit.NewService(windows, cfg.Server.WebhookRateLimit, logger)

	// Domain services
	eventLedger := ledger.New(&deps.Store, logger)
	identityResolver := identity.New(&deps.Store, logger)
	matcher := matching.New(&deps.Store, logger)
	engine := commission.New(&deps.Store, cfg.Commission.FallbackRate, logger)

	// Auth
	authProc := processor.New(&deps.Store, cfg.Auth.JWTSecret, logger)
	deps.AuthHandler = handler.New(&authProc, logger)

	// Payments
	paymentProc := paymentProcessor.New(&deps.Store, eventLedger, identityResolver, matcher, engine, publisher, logger)
	deps.PaymentHandler = paymentHandler.New(&paymentProc, cfg.Services.PaymentWebhookSecret, cfg.Services.StripeWebhookSecret)

	// CRM
	crmProc := crmProcessor.New(&deps.Store, eventLedger, identityResolver, deps.Attribution, publisher, logger)
	deps.CRMHandler = crmHandler.New(&crmProc)

	// Admin
	deps.CommissionHandler = commissionHandler.New(&engine, publisher, logger)
	deps.AttributionHandler = attributionHandler.New(&deps.Attribution, publisher)
	deps.LedgerHandler = ledgerHandler.New(&eventLedger)
	deps.WebhookLedger = &eventLedger

	return deps, nil
}

// Cleanup closes all resources that need cleanup
func (d *Dependencies) Cleanup() {
	if d.KafkaProducer != nil {
		if err := d.KafkaProducer.Close(); err != nil {
			d.Logger.Error(context.Background(), "failed to close kafka producer", err)
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error(context.Background(), "failed to close redis client", err)
		}
	}
	if err := d.Store.Close(); err != nil {
		d.Logger.Error(context.Background(), "failed to close database", err)
	}
}
