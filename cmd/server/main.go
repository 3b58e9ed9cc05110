package main

import (
	"context"
	"log"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/homeharmony/backend/api/handler"
	"github.com/homeharmony/backend/internal/config"
	"github.com/homeharmony/backend/internal/infrastructure/buffer"
	"github.com/homeharmony/backend/internal/infrastructure/monitor"
	redisInfra "github.com/homeharmony/backend/internal/infrastructure/redis"
	"github.com/homeharmony/backend/internal/infrastructure/telegram"
	"github.com/homeharmony/backend/internal/middleware"
	"github.com/homeharmony/backend/internal/router"
	"github.com/homeharmony/backend/internal/services"
	"github.com/homeharmony/backend/internal/services/lifecycle"
	"github.com/homeharmony/backend/pkg/clock"
	"github.com/homeharmony/backend/pkg/httpcontext"
	"github.com/homeharmony/backend/pkg/idgen"
	"github.com/homeharmony/backend/pkg/logger"
	"github.com/homeharmony/backend/repository"
	"github.com/homeharmony/backend/repository/memory"
	redisRepo "github.com/homeharmony/backend/repository/redis"
	"github.com/homeharmony/backend/usecase"
	authUC "github.com/homeharmony/backend/usecase/auth"
	dashboardUC "github.com/homeharmony/backend/usecase/dashboard"
	itemUC "github.com/homeharmony/backend/usecase/item"
	memberUC "github.com/homeharmony/backend/usecase/member"
	"github.com/homeharmony/backend/usecase/recurrence"
	taskUC "github.com/homeharmony/backend/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Service:  cfg.AppName,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, cancel := manager.SignalContext(context.Background())
	defer cancel()

	boltDB, err := buffer.OpenDB(cfg.Buffer.Path)
	if err != nil {
		zapLogger.Fatal("failed to open bolt file", zap.Error(err))
	}
	manager.RegisterCloser("bolt", boltDB.Close)

	bufferStore, err := buffer.New(boltDB, "buffer")
	if err != nil {
		zapLogger.Fatal("failed to open buffer store", zap.Error(err))
	}

	var sessionRepo repository.SessionRepository
	var probes []monitor.Probe
	redisClient, err := connectRedis(appCtx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	if redisClient != nil {
		manager.RegisterCloser("redis", redisClient.Close)
		sessionRepo = redisRepo.NewSessionRepository(redisClient, cfg.JWT.TTL)
		probes = append(probes, monitor.RedisProbe(redisClient))
	} else {
		sessionRepo = memory.NewSessionRepository(cfg.JWT.TTL)
	}

	st, err := openStores(appCtx, cfg, boltDB, redisClient, manager, zapLogger)
	if err != nil {
		zapLogger.Fatal("storage setup failed", zap.Error(err))
	}
	probes = append(probes, st.probes...)

	mon := monitor.New(bufferStore, 10*time.Second, zapLogger, probes...)
	mon.Refresh()
	mon.Start()
	manager.Register("monitor", func(context.Context) error {
		mon.Stop()
		return nil
	})

	bufferProcessor, err := services.NewBufferProcessor(
		bufferStore,
		mon,
		services.Repositories{Members: st.members, Tasks: st.tasks, Items: st.items},
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  cfg.Buffer.BatchSize,
			MaxRetries: cfg.Buffer.MaxRetry,
			Retention:  time.Duration(cfg.Buffer.RetentionHours) * time.Hour,
		},
	)
	if err != nil {
		zapLogger.Fatal("buffer processor setup failed", zap.Error(err))
	}
	bufferProcessor.Start()
	manager.Register("buffer_processor", bufferProcessor.Stop)

	bufferBridge := services.NewBufferBridge(bufferProcessor)

	var notifier usecase.Notifier = usecase.NopNotifier{}
	bot, err := telegram.NewBot(cfg.Telegram, zapLogger)
	if err != nil {
		zapLogger.Warn("telegram disabled", zap.Error(err))
	} else if bot != nil {
		notifier = services.NewTelegramNotifier(bot, cfg.Telegram.ChatID, zapLogger)
	}

	loc, _ := cfg.Recurrence.Location()
	clk := clock.System{}
	ids := idgen.UUID{}
	credentials := authUC.BcryptCredentials{}

	policy, err := memberUC.ParseDeletePolicy(cfg.Household.DeletePolicy)
	if err != nil {
		zapLogger.Fatal("invalid configuration", zap.Error(err))
	}

	memberUseCase := memberUC.New(memberUC.Deps{
		Members:     st.members,
		Tasks:       st.tasks,
		Credentials: credentials,
		Buffer:      bufferBridge,
		IDs:         ids,
		Policy:      policy,
		Logger:      zapLogger,
	})
	taskUseCase := taskUC.New(taskUC.Deps{
		Tasks:     st.tasks,
		Members:   st.members,
		Scheduler: recurrence.New(st.ledger, ids, recurrence.WithLocation(loc), recurrence.WithLogger(zapLogger)),
		Buffer:    bufferBridge,
		Notifier:  notifier,
		Clock:     clk,
		IDs:       ids,
		Logger:    zapLogger,
	})
	itemUseCase := itemUC.New(itemUC.Deps{
		Items:    st.items,
		Buffer:   bufferBridge,
		Notifier: notifier,
		IDs:      ids,
		Logger:   zapLogger,
	})
	dashboardUseCase := dashboardUC.New(st.members, st.tasks, st.items, clk, zapLogger)
	authUseCase := authUC.New(authUC.Deps{
		Members:     st.members,
		Sessions:    sessionRepo,
		Credentials: credentials,
		Config:      authUC.Config{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer, TTL: cfg.JWT.TTL},
		Clock:       clk,
		IDs:         ids,
		Logger:      zapLogger,
	})

	if cfg.Household.AdminPassword != "" {
		admin, err := memberUseCase.EnsureAdmin(appCtx, cfg.Household.AdminName, cfg.Household.AdminPassword)
		if err != nil {
			zapLogger.Fatal("failed to bootstrap household admin", zap.Error(err))
		}
		if admin != nil {
			zapLogger.Info("household admin created", zap.String("member_id", admin.ID), zap.String("name", admin.Name))
		}
	}

	if cfg.Recurrence.Enabled {
		job, err := services.NewRecurrenceJob(taskUseCase, loc, cfg.Recurrence.Interval, zapLogger)
		if err != nil {
			zapLogger.Fatal("recurrence job setup failed", zap.Error(err))
		}
		job.Start()
		manager.Register("recurrence_job", job.Stop)
	}

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:      apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Member:    apiHandler.NewMemberHandler(memberUseCase, ctxAdapter, zapLogger),
		Task:      apiHandler.NewTaskHandler(taskUseCase, clk, ctxAdapter, zapLogger),
		Item:      apiHandler.NewItemHandler(itemUseCase, ctxAdapter, zapLogger),
		Dashboard: apiHandler.NewDashboardHandler(dashboardUseCase, ctxAdapter, zapLogger),
		Health:    apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(authUseCase, cfg.Context.RequestTimeout, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:            r.Handler,
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		Concurrency:        cfg.HTTP.MaxConn,
		Name:               cfg.AppName,
		MaxRequestBodySize: 1 << 20,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Error("server stopped", zap.Error(err))
			cancel()
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

func connectRedis(ctx context.Context, cfg *config.Config, log *zap.Logger) (*goRedis.Client, error) {
	if !cfg.Redis.Enabled {
		log.Info("redis disabled; sessions kept in memory")
		return nil, nil
	}
	return redisInfra.NewClient(ctx, cfg.Redis)
}
