package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tablefront/pos-finance/internal/app"
	"github.com/tablefront/pos-finance/internal/config"
	"github.com/tablefront/pos-finance/internal/handler"
	"github.com/tablefront/pos-finance/internal/notifier"
	"github.com/tablefront/pos-finance/internal/postgres"
	"github.com/tablefront/pos-finance/internal/repo"
	"github.com/tablefront/pos-finance/internal/service"
	"github.com/tablefront/pos-finance/pkg/cache"
	"github.com/tablefront/pos-finance/pkg/trm"

	"github.com/joho/godotenv"
)

func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	db, err := postgres.New(conf.Postgres)
	panicIfErr("failed to connect to db", err)
	defer db.Close()
	logger.Info("postgres connected")

	posRepo := repo.NewPostgresRepo(db)
	txManager := trm.NewManager(db)
	sessionCache := cache.NewLRUCache(conf.Cache.Capacity, conf.Cache.TTL)
	changeNotifier := notifier.NewKafkaNotifier(logger, conf.Kafka)

	sessionService := service.NewSessionService(logger, txManager, posRepo, sessionCache, changeNotifier)
	archiverService := service.NewArchiverService(logger, txManager, posRepo, changeNotifier)

	httpHandler := handler.NewHTTPHandler(logger, sessionService, archiverService)
	handler.RegisterMetrics()

	app := app.New(logger, conf)
	app.SetHTTPHandlers(httpHandler)
	app.SetClosers(changeNotifier)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	sessionCache.StartJanitor(ctx)

	app.Start()
	<-ctx.Done()
	app.Stop()
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}
