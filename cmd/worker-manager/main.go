// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"krishi-workers/internal/common/camunda"
	"krishi-workers/internal/common/config"
	"krishi-workers/internal/common/database"
	"krishi-workers/internal/common/logger"
	"krishi-workers/internal/common/metrics"
	"krishi-workers/internal/common/observability"
	"krishi-workers/internal/common/validation"
	"krishi-workers/internal/rulestore"
	"krishi-workers/pkg/registry"

	ear "krishi-workers/internal/workers/advisory/evaluate-advisory-rules"
	pft "krishi-workers/internal/workers/nlu/process-farmer-text"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	log.Info("Starting worker manager...", map[string]interface{}{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	if cfg.Database.Postgres.Enabled || cfg.Rules.LoadFromDatabase {
		err = retryWithBackoff(ctx, func() error {
			var err error
			pg, err = database.NewPostgres(ctx, cfg.Database.Postgres)
			return err
		}, 15, 2*time.Second, log, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		log.Info("PostgreSQL connected successfully", nil)
	}

	// --- Init Redis (optional; unreachable means no NLU cache) ---
	var redis *database.RedisClient
	if cfg.Database.Redis.Enabled && cfg.NLU.CacheEnabled {
		redis = database.NewRedis(cfg.Database.Redis)
		if err := redis.Ping(ctx); err != nil {
			log.Warn("Redis unreachable, NLU cache disabled", map[string]interface{}{"error": err.Error()})
			redis.Close()
			redis = nil
		} else {
			defer redis.Close()
			log.Info("Redis connected successfully", nil)
		}
	}

	// --- Assemble rule engine ---
	sources := rulestore.Sources{
		IncludeBuiltins: cfg.Rules.IncludeBuiltins,
		File:            cfg.Rules.DefinitionsFile,
	}
	if cfg.Rules.LoadFromDatabase {
		sources.Database = rulestore.NewPostgresStore(pg.DB)
	}
	assembly, err := rulestore.Assemble(ctx, sources)
	if err != nil {
		zapLog.Fatal("rule engine assembly failed", zap.Error(err))
	}
	if assembly.Skipped != nil {
		log.Warn("some rule definitions were skipped", map[string]interface{}{"error": assembly.Skipped.Error()})
	}
	assembly.Engine.Seal()
	metrics.RulesRegistered.Set(float64(assembly.Engine.Len()))
	log.Info("Rule engine sealed", map[string]interface{}{
		"rules":    assembly.Engine.Len(),
		"builtins": assembly.Added[rulestore.LayerBuiltins],
		"file":     assembly.Added[rulestore.LayerFile],
		"database": assembly.Added[rulestore.LayerDatabase],
	})

	validator, err := validation.NewValidator(registry.Builtin())
	if err != nil {
		zapLog.Fatal("activity schemas failed to compile", zap.Error(err))
	}

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(ctx, func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, log, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	log.Info("Zeebe client connected successfully", nil)

	// --- Register workers ---
	var workers []*camunda.Worker

	nluCfg := pft.ConfigFromApp(cfg)
	if nluCfg.Enabled {
		chain, err := pft.NewChain(cfg.NLU, log)
		if err != nil {
			zapLog.Fatal("failed to build NLU chain", zap.Error(err))
		}
		deps := pft.Dependencies{Chain: chain, Validator: validator, Observability: obs}
		if redis != nil {
			deps.Cache = redis
		}
		handler, err := pft.NewHandler(nluCfg, deps, log)
		if err != nil {
			zapLog.Fatal("failed to create process-farmer-text handler", zap.Error(err))
		}
		workers = append(workers, camunda.StartWorker(zeebe.GetClient(), camunda.WorkerOptions{
			TaskType:      handler.GetTaskType(),
			MaxJobsActive: handler.GetConfig().MaxJobsActive,
			Timeout:       handler.GetConfig().Timeout,
		}, handler, log))
	} else {
		log.Info("worker disabled", map[string]interface{}{"taskType": pft.TaskType})
	}

	advisoryCfg := ear.ConfigFromApp(cfg)
	if advisoryCfg.Enabled {
		handler, err := ear.NewHandler(advisoryCfg, ear.Dependencies{
			Engine:        assembly.Engine,
			Validator:     validator,
			Observability: obs,
		}, log)
		if err != nil {
			zapLog.Fatal("failed to create evaluate-advisory-rules handler", zap.Error(err))
		}
		workers = append(workers, camunda.StartWorker(zeebe.GetClient(), camunda.WorkerOptions{
			TaskType:      handler.GetTaskType(),
			MaxJobsActive: handler.GetConfig().MaxJobsActive,
			Timeout:       handler.GetConfig().Timeout,
		}, handler, log))
	} else {
		log.Info("worker disabled", map[string]interface{}{"taskType": ear.TaskType})
	}
	log.Info("Workers registered", map[string]interface{}{"count": len(workers)})

	// --- Health & Metrics Server ---
	checks := []readinessCheck{{name: "zeebe", check: zeebe.HealthCheck}}
	if pg != nil {
		checks = append(checks, readinessCheck{name: "postgres", check: pg.Ping})
	}
	if redis != nil {
		checks = append(checks, readinessCheck{name: "redis", check: redis.Ping})
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler:           newHealthMux(checks, cfg.Metrics.Enabled),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("Health/Metrics server listening", map[string]interface{}{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Health/Metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Info("Shutdown signal received, stopping workers...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Error stopping health server", map[string]interface{}{"error": err.Error()})
	}
	if err := zeebe.Close(); err != nil {
		log.Error("Error closing Zeebe client", map[string]interface{}{"error": err.Error()})
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		log.Error("Error flushing telemetry", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Worker manager stopped gracefully", nil)
}
