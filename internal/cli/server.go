package cli

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"complexity-quiz-service/internal/app"
	"complexity-quiz-service/internal/config"
	"complexity-quiz-service/internal/domain"
	"complexity-quiz-service/internal/event"
	"complexity-quiz-service/internal/infra/memory"
	"complexity-quiz-service/internal/infra/postgres"
	redisstore "complexity-quiz-service/internal/infra/redis"
	"complexity-quiz-service/internal/infra/sqlite"
	"complexity-quiz-service/internal/notify"
	"complexity-quiz-service/internal/relay"
	transport "complexity-quiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	services, cleanup, err := buildServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	router := transport.NewRouter(services, transport.Options{
		CORSOrigins:   cfg.Server.CORSOrigins,
		SessionSecret: cfg.Server.SessionSecret,
		AdminToken:    cfg.Server.AdminToken,
		ConsentMaxAge: cfg.ConsentExpiry(app.DefaultConsentExpiry),
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting complexity quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildServices wires stores and integrations from cfg. The returned cleanup
// closes every connection that was opened.
func buildServices(ctx context.Context, cfg config.Config) (transport.Services, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (transport.Services, func(), error) {
		cleanup()
		return transport.Services{}, func() {}, err
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, func() { _ = redisClient.Close() })
	}
	sessionTTL := config.TTLDuration(cfg.Quiz.SessionTTL, config.TTLDuration(cfg.Redis.TTL, 24*time.Hour))

	var (
		pool  *pgxpool.Pool
		sqlDB *sql.DB
	)
	if cfg.Postgres.URL != "" {
		var err error
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, pool.Close)
		sqlDB = openPostgres(cfg.Postgres.URL)
		closers = append(closers, func() { _ = sqlDB.Close() })
	}

	var loader memory.CatalogLoader = memory.NewStaticCatalogLoader(domain.DefaultCatalog())
	if pool != nil {
		loader = postgres.NewCatalogLoader(pool)
	}

	catalogTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var catalogs app.CatalogRepository
	if redisClient != nil {
		catalogs = redisstore.NewCatalogRepository(redisClient, loader, catalogTTL)
	} else {
		catalogs = memory.NewCatalogRepository(loader, catalogTTL)
	}

	var sessions app.SessionRepository
	var consents app.ConsentStore
	if redisClient != nil {
		sessions = redisstore.NewSessionStore(redisClient, sessionTTL)
		consents = redisstore.NewConsentStore(redisClient)
	} else {
		sessions = memory.NewSessionStore()
		consents = memory.NewConsentStore()
	}

	var leads app.LeadStore
	switch {
	case sqlDB != nil:
		leads = &postgres.LeadStore{DB: sqlDB}
	case cfg.SQLite.Path != "":
		store, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() { _ = store.Close() })
		leads = store
	case redisClient != nil:
		leads = redisstore.NewLeadStore(redisClient)
	default:
		leads = memory.NewLeadStore()
	}

	publisher, err := event.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, func() {
		if err := publisher.Close(); err != nil {
			log.Printf("close event publisher: %v", err)
		}
	})

	sink := relay.NewClient(relay.Options{
		Endpoint:      cfg.Relay.Endpoint,
		Timeout:       config.TTLDuration(cfg.Relay.Timeout, 10*time.Second),
		FallbackEmail: cfg.Relay.FallbackEmail,
		Subject:       cfg.Relay.Subject,
	})

	quizzes := app.NewQuizService(sessions, catalogs, publisher, cfg.Quiz.CatalogID)
	leadService := app.NewLeadService(quizzes, leads, sink, publisher)
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
		notifier, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			log.Printf("telegram notifications disabled: %v", err)
		} else {
			leadService.WithNotifier(notifier)
		}
	}
	consent := app.NewConsentService(consents, cfg.ConsentExpiry(app.DefaultConsentExpiry), cfg.Consent.Version)

	return transport.Services{Quiz: quizzes, Leads: leadService, Consent: consent}, cleanup, nil
}
