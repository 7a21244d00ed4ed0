// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"buzz-workers/internal/common/aws"
	"buzz-workers/internal/common/camunda"
	"buzz-workers/internal/common/config"
	"buzz-workers/internal/common/database"
	"buzz-workers/internal/common/logger"
	"buzz-workers/internal/common/observability"
	"buzz-workers/internal/engine"
	"buzz-workers/internal/engine/weights"
	"buzz-workers/internal/store"

	csm "buzz-workers/internal/workers/buzz/calibrate-score-model"
	epf "buzz-workers/internal/workers/buzz/extract-post-features"
	sp "buzz-workers/internal/workers/buzz/score-post"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.Build(logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Output:  cfg.Logging.Output,
		Service: cfg.App.Name,
	})
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("storeDriver", cfg.Store.Driver),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Fatal("observability setup failed", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(ctx)
	}()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	if cfg.Camunda.DeployDir != "" {
		ids, err := zeebe.DeployProcesses(ctx, cfg.Camunda.DeployDir)
		if err != nil {
			zapLog.Fatal("process deployment failed", zap.String("dir", cfg.Camunda.DeployDir), zap.Error(err))
		}
		zapLog.Info("Processes deployed", zap.Strings("processes", ids))
	}

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.Migrate(ctx); err != nil {
		zapLog.Fatal("postgres migration failed", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Post corpus ---
	var posts store.PostReader
	var closePosts func() error
	err = retryWithBackoff(func() error {
		var err error
		posts, closePosts, err = store.OpenPostReader(ctx, cfg, pg.GetDB(), log)
		return err
	}, 10, 2*time.Second, zapLog, "post store connection")
	if err != nil {
		zapLog.Fatal("post store failed after retries", zap.Error(err))
	}
	defer closePosts()
	zapLog.Info("Post store ready", zap.String("driver", posts.Driver()))

	// --- Engine ---
	table, err := weights.LoadFile(cfg.Engine.WeightTablePath)
	if err != nil {
		zapLog.Fatal("weight table load failed", zap.Error(err))
	}
	outcome, err := engine.ParseOutcome(cfg.Engine.Outcome)
	if err != nil {
		zapLog.Fatal("engine outcome invalid", zap.Error(err))
	}
	eng := engine.New(table, log, engine.Options{
		MinSamples:            cfg.Engine.MinSamples,
		SignificanceThreshold: cfg.Engine.SignificanceThreshold,
		BatchConcurrency:      cfg.Engine.BatchConcurrency,
		Outcome:               outcome,
	})
	zapLog.Info("Engine ready", zap.String("weightTable", table.Version()), zap.String("outcome", string(outcome)))

	models := store.NewModelProvider(
		store.NewWeightSetRepository(pg.GetDB()),
		store.NewWeightSetCache(rdb.GetClient(), cfg.Engine.CacheTTLDuration()),
		log,
	)

	var publisher csm.EventPublisher
	if cfg.Notifications.SNS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.SNS.Region)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
		publisher = aws.NewCalibrationPublisher(snsClient, cfg.Notifications.SNS.TopicARN)
		zapLog.Info("Calibration events enabled", zap.String("topic", cfg.Notifications.SNS.TopicARN))
	}

	// --- Register Workers ---
	var workers []*camunda.CamundaWorker
	client := zeebe.GetClient()

	if config.IsWorkerEnabled(cfg, epf.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, epf.TaskType)
		handler := epf.NewHandler(epf.LoadConfig(wcfg), eng, log)
		workers = append(workers, camunda.NewWorker(client, epf.TaskType, wcfg, handler, log, obs))
	}

	if config.IsWorkerEnabled(cfg, sp.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, sp.TaskType)
		handler := sp.NewHandler(sp.LoadConfig(wcfg, cfg.Engine), eng, models, obs, log)
		workers = append(workers, camunda.NewWorker(client, sp.TaskType, wcfg, handler, log, obs))
	}

	if config.IsWorkerEnabled(cfg, csm.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, csm.TaskType)
		handler := csm.NewHandler(csm.LoadConfig(wcfg, cfg), csm.Dependencies{
			Engine:    eng,
			Posts:     posts,
			Runs:      models,
			Publisher: publisher,
			Logger:    log,
		})
		workers = append(workers, camunda.NewWorker(client, csm.TaskType, wcfg, handler, log, obs))
	}
	zapLog.Info("Workers registered successfully", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		rctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := zeebe.HealthCheck(rctx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "zeebe unavailable")
			return
		}
		if err := pg.Ping(rctx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "postgres unavailable")
			return
		}
		// The weight set cache is optional on the scoring path.
		if err := rdb.Ping(rctx); err != nil {
			writeStatus(w, http.StatusOK, "degraded")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	if cfg.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	server := &http.Server{Addr: cfg.Metrics.Address, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
