package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"confidential-lending/config"
	httpHandler "confidential-lending/internal/adapter/http/handler"
	"confidential-lending/internal/adapter/oracle"
	"confidential-lending/internal/adapter/sim"
	"confidential-lending/internal/adapter/storage/memory"
	pgStorage "confidential-lending/internal/adapter/storage/postgres"
	redisStorage "confidential-lending/internal/adapter/storage/redis"
	"confidential-lending/internal/core/ports"
	"confidential-lending/internal/service"
	"confidential-lending/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// ledgerStore is the set of repositories backing one storage driver.
type ledgerStore struct {
	accounts    ports.AccountRepository
	rounds      ports.RoundRepository
	requests    ports.DecryptionRequestRepository
	ciphertexts ports.CiphertextRepository
	tx          ports.DBTransactor
	health      []ports.HealthChecker
	close       func()
}

func newServeCmd(cfgPath *string) *cobra.Command {
	var fund []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, oracle relayer and round scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			grants, err := parseGrants(fund)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, grants)
		},
	}
	cmd.Flags().StringSliceVar(&fund, "fund", nil,
		"mint simulated underlying and approve the engine, as address:amount (repeatable)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, grants []grant) error {
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	log.Info().
		Str("mode", cfg.Server.Mode).
		Str("storage", cfg.Storage.Driver).
		Int("port", cfg.Server.Port).
		Msg("Starting confidential lending engine")

	engineAddr, err := parseAddress("engine.address", cfg.Engine.Address)
	if err != nil {
		return err
	}
	tokenAddr, err := parseAddress("sim.token_address", cfg.Sim.TokenAddress)
	if err != nil {
		return err
	}
	poolAddr, err := parseAddress("sim.pool_address", cfg.Sim.PoolAddress)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.close()

	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	keys, err := service.DeriveKeySet(cfg.Crypto.MasterKey)
	if err != nil {
		return fmt.Errorf("derive coprocessor keys: %w", err)
	}
	guard := redisStorage.NewInputGuard(rdb, 0)
	fhe, err := service.NewFHECoprocessor(keys, store.ciphertexts, engineAddr, guard, log)
	if err != nil {
		return fmt.Errorf("init coprocessor: %w", err)
	}
	kms, err := service.NewKMS(keys, store.ciphertexts, log)
	if err != nil {
		return fmt.Errorf("init kms: %w", err)
	}

	token := sim.NewToken(tokenAddr)
	pool := sim.NewPool(poolAddr, token)
	for _, g := range grants {
		token.Mint(g.account, g.amount)
		if err := token.Approve(ctx, g.account, engineAddr, g.amount); err != nil {
			return fmt.Errorf("approve %s: %w", g.account.Hex(), err)
		}
		log.Info().Str("account", g.account.Hex()).Uint64("amount", g.amount).Msg("funded simulated account")
	}

	oracleLog := logger.Component(log, "oracle")
	publisher := oracle.NewPublisher(rdb, cfg.Oracle.QueueKey, oracleLog)
	engine := service.NewEngine(engineAddr, service.EngineDeps{
		Accounts:    store.accounts,
		Rounds:      store.rounds,
		Requests:    store.requests,
		Transactor:  store.tx,
		Coprocessor: fhe,
		Comparator:  kms,
		Reencryptor: kms,
		Token:       token,
		Pool:        pool,
		Oracle:      publisher,
	}, cfg.Engine.MinRoundDuration, cfg.Engine.MaxDecryptionDelay, logger.Component(log, "engine"))
	if err := engine.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrap engine: %w", err)
	}

	relayer := oracle.NewRelayer(rdb, cfg.Oracle.QueueKey, kms, engine, cfg.Oracle.PollTimeout, oracleLog)
	scheduler := service.NewScheduler(engine, cfg.Engine.SchedulerInterval, cfg.Engine.AutoAdvance, logger.Component(log, "scheduler"))

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Engine:         engine,
		TokenSvc:       service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer),
		RateLimitStore: redisStorage.NewRateLimitStore(rdb),
		HealthCheckers: append(store.health, redisStorage.NewHealthCheck(rdb, cfg.Oracle.QueueKey)),
		Mode:           cfg.Server.Mode,
		Logger:         logger.Component(log, "http"),
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error { return relayer.Run(gctx) })
	g.Go(func() error { return scheduler.Run(gctx) })

	err = g.Wait()
	log.Info().Msg("Server exited")
	return err
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*ledgerStore, error) {
	if cfg.Storage.Driver == "memory" {
		log.Warn().Msg("Using in-memory ledger; state is lost on exit")
		s := memory.NewStore()
		return &ledgerStore{
			accounts:    s.Accounts(),
			rounds:      s.Rounds(),
			requests:    s.DecryptionRequests(),
			ciphertexts: s.Ciphertexts(),
			tx:          s.Transactor(),
			close:       func() {},
		}, nil
	}

	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &ledgerStore{
		accounts:    pgStorage.NewAccountRepo(pool),
		rounds:      pgStorage.NewRoundRepo(pool),
		requests:    pgStorage.NewDecryptionRepo(pool),
		ciphertexts: pgStorage.NewCiphertextRepo(pool),
		tx:          pgStorage.NewTransactor(pool),
		health:      []ports.HealthChecker{pgStorage.NewHealthCheck(pool)},
		close:       pool.Close,
	}, nil
}

type grant struct {
	account common.Address
	amount  uint64
}

func parseGrants(specs []string) ([]grant, error) {
	grants := make([]grant, 0, len(specs))
	for _, s := range specs {
		addr, amt, ok := strings.Cut(s, ":")
		if !ok {
			return nil, fmt.Errorf("--fund %q: want address:amount", s)
		}
		account, err := parseAddress("--fund", addr)
		if err != nil {
			return nil, err
		}
		amount, err := strconv.ParseUint(amt, 10, 64)
		if err != nil || amount == 0 {
			return nil, fmt.Errorf("--fund %q: amount must be a positive integer", s)
		}
		grants = append(grants, grant{account: account, amount: amount})
	}
	return grants, nil
}

func parseAddress(field, s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%s: %q is not a hex address", field, s)
	}
	return common.HexToAddress(s), nil
}
