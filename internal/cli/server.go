package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"sanskrit-quiz-service/internal/app"
	"sanskrit-quiz-service/internal/auth"
	"sanskrit-quiz-service/internal/bank"
	"sanskrit-quiz-service/internal/config"
	"sanskrit-quiz-service/internal/infra/memory"
	"sanskrit-quiz-service/internal/infra/postgres"
	redisinfra "sanskrit-quiz-service/internal/infra/redis"
	transport "sanskrit-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz backend",
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
	setupLogging(cfg.Log.Level)

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

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var loader memory.CorpusLoader
	switch {
	case pool != nil:
		loader = postgres.NewCorpusLoader(pool)
	case cfg.Corpus.Dir != "":
		loader = memory.NewFileCorpusLoader(cfg.Corpus.Dir)
	default:
		loader, err = memory.NewSampleCorpusLoader()
		if err != nil {
			return err
		}
	}

	corpusTTL := config.TTLDuration(cfg.Corpus.TTL, 10*time.Minute)
	var corpora bank.CorpusRepository
	if redisClient != nil {
		corpora = redisinfra.NewCorpusRepository(redisClient, loader, corpusTTL)
	} else {
		corpora = memory.NewCorpusRepository(loader, corpusTTL)
	}
	corpusName := cfg.Corpus.Name
	if corpusName == "" {
		corpusName = bank.SampleName
	}
	questions := bank.New(corpora, corpusName, nil)

	var users app.UserStore = memory.NewUserStore()
	if pool != nil {
		users = postgres.NewUserStore(pool)
	}
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		log.Warn().Msg("no jwt secret configured, tokens will not survive a restart")
	}
	tokens := auth.NewManager(secret, config.TTLDuration(cfg.Auth.TokenTTL, auth.DefaultTokenTTL))
	accounts := app.NewAccountService(users, tokens, auth.Bcrypt{})

	var sessions app.SessionRepository
	progress := func(string) app.ProgressStore { return memory.NewProgressStore() }
	if redisClient != nil {
		sessions = redisinfra.NewSessionStore(redisClient, config.TTLDuration(cfg.Redis.SessionTTL, 30*time.Minute))
		progressTTL := config.TTLDuration(cfg.Redis.ProgressTTL, 24*time.Hour)
		progress = func(owner string) app.ProgressStore {
			return redisinfra.NewProgressStore(redisClient, owner, progressTTL)
		}
	} else {
		sessions = memory.NewSessionStore()
	}
	play := app.NewPlayService(sessions, bank.Sources(questions, nil), progress, accounts, app.PlayConfig{
		Verbose:            cfg.Play.Verbose,
		FinalReportTimeout: config.TTLDuration(cfg.Play.FinalReportTimeout, 10*time.Second),
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewServer(questions, accounts, tokens, play),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("port", finalPort).Str("corpus", corpusName).Msg("starting quiz service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info().Msg("shutting down server")
	case <-ctx.Done():
		log.Info().Msg("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
