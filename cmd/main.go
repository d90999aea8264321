package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"gopkg.in/telebot.v3"

	"shiftbook/config"
	"shiftbook/internal/app/service"
	"shiftbook/internal/delivery/status"
	"shiftbook/internal/delivery/telegram"
	"shiftbook/internal/delivery/telegram/flows"
	"shiftbook/internal/repository/sqlite"
	"shiftbook/internal/session"
	"shiftbook/pkg/logger"
	"shiftbook/pkg/metrics"
	"shiftbook/pkg/workerpool"
)

const serviceName = "shiftbook"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.New(logger.Options{ServiceName: serviceName}).Error(ctx, "Ошибка загрузки конфига", err)
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
	})

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "Бот остановлен с ошибкой", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	logg.Info(ctx, "Запуск shiftbook...")

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	db, err := sqlite.Open(ctx, cfg.DSN())
	if err != nil {
		return fmt.Errorf("подключение к базе: %w", err)
	}
	defer func() { err = multierr.Append(err, db.Close()) }()

	if err := sqlite.Migrate(ctx, db); err != nil {
		return fmt.Errorf("миграция: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	// пул с одним воркером выстраивает записи в очередь
	pool := workerpool.NewWorkerPool(cfg.LedgerWorkers, cfg.LedgerQueue)
	defer pool.Close()

	userRepo := sqlite.NewSqliteUserRepo(db)
	shiftService := service.NewShiftService(sqlite.NewSqliteShiftRepo(db, loc), collector, logg)

	deps := &flows.Deps{
		Users:             service.NewUserService(userRepo, collector),
		Places:            service.NewPlaceService(sqlite.NewSqlitePlaceRepo(db)),
		Shifts:            shiftService,
		Summary:           service.NewSummaryService(userRepo, shiftService, cfg.AnnualLimit),
		Async:             service.NewAsyncService(pool),
		Sessions:          session.NewStore(),
		Log:               logg,
		Loc:               loc,
		Now:               time.Now,
		DefaultClosingDay: cfg.DefaultClosingDay,
		DefaultGoal:       cfg.DefaultGoalAmount,
	}

	bot, err := telebot.NewBot(telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: cfg.PollTimeout},
		OnError: func(err error, c telebot.Context) {
			logg.Error(ctx, "telebot error", err)
		},
	})
	if err != nil {
		return fmt.Errorf("запуск бота: %w", err)
	}
	telegram.NewHandler(bot, deps).Register(ctx)

	errCh := make(chan error, 1)
	var statusSrv *status.Server
	if cfg.HTTPAddr != "" {
		statusSrv = status.NewServer(cfg.HTTPAddr, status.NewRouter(db, reg, logg), logg)
		statusSrv.Start(ctx, errCh)
	}

	go bot.Start()
	logg.Info(ctx, "Бот запущен!")

	select {
	case <-ctx.Done():
		logg.Info(ctx, "Остановка по сигналу")
	case err = <-errCh:
		logg.Error(ctx, "status server failed", err)
	}

	bot.Stop()
	if statusSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = multierr.Append(err, statusSrv.Shutdown(shutdownCtx))
	}
	return err
}
