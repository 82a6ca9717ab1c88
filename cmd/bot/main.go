package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hatani_admin_bot/internal/app"
	"hatani_admin_bot/internal/domain/moderation"
	"hatani_admin_bot/internal/infra/cache"
	"hatani_admin_bot/internal/infra/config"
	idb "hatani_admin_bot/internal/infra/database"
	"hatani_admin_bot/internal/infra/logger"
	"hatani_admin_bot/internal/infra/scheduler"
	"hatani_admin_bot/internal/infra/screenshot"
	"hatani_admin_bot/internal/infra/session"
	"hatani_admin_bot/internal/infra/telegram"

	"github.com/redis/go-redis/v9"
	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("could not load configuration: %v", err)
	}
	logger.Init(cfg)
	log := logger.Get().WithField("component", "main")
	log.WithField("environment", cfg.Environment).Info("starting hatani admin bot")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("could not connect to database")
	}
	defer db.Close()
	if err := idb.Migrate(db); err != nil {
		log.WithError(err).Fatal("could not run database migrations")
	}
	log.Info("database ready")

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.WithError(err).Fatal("could not connect to redis")
	}
	defer redisClient.Close()
	log.Info("redis ready")

	statusRepo := idb.NewPostgresSelectionRepository(db)
	outcomeRepo := idb.NewPostgresOutcomeRepository(db)
	muteRepo := idb.NewPostgresMuteRepository(db)
	exemptRepo := idb.NewPostgresExemptionRepository(db)

	sessions := session.NewRedisSessionStore(redisClient)
	blobs := cache.NewRedisBlobCache(redisClient)
	capturer := screenshot.NewHTTPCapturer(cfg.ScreenshotServiceURL, cfg.ScreenshotTimeout,
		logger.Get().WithField("component", "screenshot"))

	timers := scheduler.NewTimerScheduler(muteRepo, cfg.CronSpecMuteSweep,
		logger.Get().WithField("component", "scheduler"))

	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			entry := logger.Get().WithField("component", "telebot").WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithField("sender", c.Sender().ID).WithField("chat", c.Chat().ID)
			}
			entry.Error("update handling failed")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		log.WithError(err).Fatal("could not create telegram bot")
	}
	tgClient := telegram.NewTelebotAdapter(bot, logger.Get().WithField("component", "telegram"))

	selectionService := app.NewSelectionService(statusRepo, sessions, blobs, capturer, tgClient, timers, cfg,
		logger.Get().WithField("component", "selection"))
	moderationService := app.NewModerationService(muteRepo, exemptRepo,
		moderation.NewDetector(moderation.Vocabulary), tgClient, timers, cfg.MuteDuration,
		logger.Get().WithField("component", "moderation"))
	adminService := app.NewAdminService(statusRepo, outcomeRepo, sessions, tgClient, cfg,
		logger.Get().WithField("component", "admin"))

	// Expired mutes are lifted by the timer engine through the moderation
	// service; wired here because both sides need the other.
	timers.SetUnmuteAction(moderationService.UnmuteBySchedule)

	router := telegram.NewCallbackRouter(ctx, sessions, logger.Get().WithField("component", "router"))
	telegram.RegisterChatEventHandlers(ctx, bot, router, selectionService, cfg, logger.Get().WithField("component", "handlers"))
	telegram.RegisterSelectionHandlers(ctx, bot, router, selectionService, moderationService, sessions, cfg, logger.Get().WithField("component", "handlers"))
	telegram.RegisterModerationHandlers(ctx, bot, router, moderationService, cfg, logger.Get().WithField("component", "handlers"))
	telegram.RegisterAdminHandlers(ctx, router, adminService, logger.Get().WithField("component", "handlers"))
	bot.Handle(telebot.OnCallback, router.Dispatch)
	log.Info("handlers registered")

	// Mutes that expired while the process was down are lifted before the
	// bot starts taking updates.
	timers.ReconcileMutes(ctx)
	if err := timers.Start(); err != nil {
		log.WithError(err).Fatal("could not start mute sweep")
	}

	go bot.Start()
	log.Info("bot started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	bot.Stop()
	timers.Stop()
	cancel()
	log.Info("shutdown complete")
}
