package integration

import (
	"context"
	"net/http"
	"os"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	adaptershttp "github.com/iho/bankledger/internal/adapter/http"
	"github.com/iho/bankledger/internal/adapter/http/handler"
	"github.com/iho/bankledger/internal/adapter/repository/postgres"
	redisrepo "github.com/iho/bankledger/internal/adapter/repository/redis"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
	infraredis "github.com/iho/bankledger/internal/infrastructure/redis"
	"github.com/iho/bankledger/internal/usecase"
	"github.com/iho/bankledger/tests/testutil"
)

// env wires a full stack against the test database for HTTP-level tests.
type env struct {
	DB            *testutil.TestDB
	Router        http.Handler
	AccountUC     *usecase.AccountUseCase
	TransactionUC *usecase.TransactionUseCase
	Balances      *usecase.BalanceCalculator
	Redis         *goredis.Client
}

var appMetrics *metrics.Metrics

func testMetrics() *metrics.Metrics {
	// promauto panics on duplicate registration, so share one instance.
	if appMetrics == nil {
		appMetrics = metrics.New()
	}
	return appMetrics
}

func newEnv(t *testing.T) *env {
	t.Helper()

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)

	pool := testDB.Pool
	accountRepo := postgres.NewAccountRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	entryRepo := postgres.NewEntryRepository(pool)
	txManager := postgres.NewTxManager(pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier()

	balances := usecase.NewBalanceCalculator(entryRepo)
	accountUC := usecase.NewAccountUseCase(accountRepo, entryRepo, balances, idGen)
	transactionUC := usecase.NewTransactionUseCase(txManager, accountRepo, transactionRepo, entryRepo, balances, idGen)
	ledgerUC := usecase.NewLedgerUseCase(postgres.NewLedgerRepository(pool))

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { redisClient.Close() })

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC),
		TransactionHandler: handler.NewTransactionHandler(transactionUC, retrier, testMetrics()),
		LedgerHandler:      handler.NewLedgerHandler(accountUC),
		ConsistencyHandler: handler.NewConsistencyHandler(ledgerUC),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:   redisrepo.NewIdempotencyStore(redisClient),
		Logger:             zerolog.Nop(),
	})

	return &env{
		DB:            testDB,
		Router:        router,
		AccountUC:     accountUC,
		TransactionUC: transactionUC,
		Balances:      balances,
		Redis:         redisClient,
	}
}
