// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"housing-workers/internal/common/aws"
	"housing-workers/internal/common/camunda"
	"housing-workers/internal/common/config"
	"housing-workers/internal/common/database"
	"housing-workers/internal/common/logger"
	"housing-workers/internal/common/observability"
	"housing-workers/internal/lifecycle"
	"housing-workers/internal/notify"
	"housing-workers/internal/refdata"
	"housing-workers/internal/store/postgres"
	"housing-workers/internal/store/search"

	// Application Workers (7)
	aac "housing-workers/internal/workers/application/add-application-comment"
	aar "housing-workers/internal/workers/application/assemble-application-review"
	aad "housing-workers/internal/workers/application/attach-application-document"
	rad "housing-workers/internal/workers/application/resolve-application-draft"
	sas "housing-workers/internal/workers/application/save-application-step"
	sa "housing-workers/internal/workers/application/submit-application"
	wa "housing-workers/internal/workers/application/withdraw-application"

	// Household Workers (4)
	rha "housing-workers/internal/workers/household/remove-household-account"
	rhm "housing-workers/internal/workers/household/remove-household-member"
	sha "housing-workers/internal/workers/household/save-household-account"
	shm "housing-workers/internal/workers/household/save-household-member"

	// Eligibility Workers (2)
	cal "housing-workers/internal/workers/eligibility/calculate-ami-limits"
	cla "housing-workers/internal/workers/eligibility/calculate-listing-affordability"

	// Profile Workers (1)
	vr "housing-workers/internal/workers/profile/validate-registration"
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
			delay *= 2 // Exponential backoff
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

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...", zap.String("environment", cfg.App.Environment))

	obs, err := observability.New("housing-workers")
	if err != nil {
		zapLog.Warn("observability init failed, job metrics disabled", zap.Error(err))
	}

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var broker *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		broker, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := broker.GetClient()
	zapLog.Info("Zeebe client connected successfully")

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
	zapLog.Info("PostgreSQL connected successfully")

	if cfg.Database.Postgres.AutoMigrate {
		if err := database.ApplyMigrations(pg.DB); err != nil {
			zapLog.Fatal("schema migration failed", zap.Error(err))
		}
		zapLog.Info("Schema migrations applied")
	}

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Notification Channels ---
	sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
	if err != nil {
		zapLog.Fatal("ses client failed", zap.Error(err))
	}
	snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
	if err != nil {
		zapLog.Fatal("sns client failed", zap.Error(err))
	}
	notifier, err := notify.New(notify.Config{
		EmailEnabled: cfg.Notifications.Email.Enabled,
		FromEmail:    cfg.Notifications.Email.FromEmail,
		SMSEnabled:   cfg.Notifications.SMS.Enabled,
		SenderID:     cfg.Notifications.SMS.SenderID,
		TemplateDir:  cfg.Notifications.TemplateDir,
	}, sesClient, snsClient, log)
	if err != nil {
		zapLog.Fatal("notification templates failed to load", zap.Error(err))
	}

	// --- Init Lifecycle Service ---
	store := postgres.NewStore(pg.DB)
	refCache := refdata.NewCache(redis.Cmdable(), store, cfg.RefDataTTL(), cfg.RefData.KeyPrefix, log)
	if cfg.RefData.FlushOnStart {
		if err := refCache.Invalidate(ctx); err != nil {
			log.Warn("reference data flush failed, cached sets expire by TTL", map[string]interface{}{"error": err.Error()})
		} else {
			log.Info("reference data cache flushed", map[string]interface{}{"prefix": cfg.RefData.KeyPrefix})
		}
	}
	service := lifecycle.NewService(lifecycle.Dependencies{
		Profiles:     store,
		Households:   store,
		Applications: store,
		Listings:     search.NewListingStore(esClient.Client, cfg.Database.Elasticsearch.ListingIndex, log),
		RefData:      refCache,
		Notifier:     notifier,
		Tables:       store,
		Logger:       log,
	}, lifecycle.Config{
		MaxDocumentBytes: int64(cfg.Rules.MaxDocumentBytes),
		MaxCommentLength: cfg.Rules.MaxCommentLength,
		AmiRoundTo:       cfg.Rules.AmiRoundTo,
		DefaultRate:      decimal.RequireFromString(cfg.Rules.DefaultRate),
		DefaultTermYears: cfg.Rules.DefaultTermYears,
	})

	// --- START: Register Workers ---

	// --- 1. Application Workers (7) ---
	if wc := config.GetWorkerConfig(cfg, rad.TaskType); wc.Enabled {
		handler := rad.NewHandler(rad.LoadConfig(wc), service, obs, log)
		startWorker(zeebeClient, rad.TaskType, wc, handler.Handle, zapLog)
	}
	if wc := config.GetWorkerConfig(cfg, sas.TaskType); wc.Enabled {
		handler := sas.NewHandler(sas.LoadConfig(wc), service, obs, log)
		startWorker(zeebeClient, sas.TaskType, wc, handler.Handle, zapLog)
	}
	if wc := config.GetWorkerConfig(cfg, aar.TaskType); wc.Enabled {
		handler := aar.NewHandler(aar.LoadConfig(wc), service, obs, log)
		startWorker(zeebeClient, aar.TaskType, wc, handler.Handle, zapLog)
	}
	if wc := config.GetWorkerConfig(cfg, sa.TaskType); wc.Enabled {
		handler := sa.NewHandler(sa.LoadConfig(wc), service, obs, log)
		startWorker(zeebeClient, sa.TaskType, wc, handler.Handle, zapLog)
	}
	if wc := config.GetWorkerConfig(cfg, wa.TaskType); wc.Enabled {
		handler := wa.NewHandler(wa.LoadConfig(wc), service, obs, log)
		startWorker(zeebeClient, wa.TaskType, wc, handler.Handle, zapLog)
	}
	if wc := config.GetWorkerConfig(cfg, aad.TaskType); wc.Enabled {
		handler := aad.NewHandler(aad.LoadConfig(wc), service, obs, log)
		startWorker(zeebeClient, aad.TaskType, wc, handler.Handle, zapLog)
	}
	if wc := config.GetWorkerConfig(cfg, aac.TaskType); wc.Enabled {
		handler := aac.NewHandler(aac.LoadConfig(wc), service, obs, log)
		startWorker(zeebeClient, aac.TaskType, wc, handler.Handle, zapLog)
	}

	// --- 2. Household Workers (4) ---
	if wc := config.GetWorkerConfig(cfg, shm.TaskType); wc.Enabled {
		handler := shm.NewHandler(shm.LoadConfig(wc), service, obs, log)
		startWorker(zeebeClient, shm.TaskType, wc, handler.Handle, zapLog)
	}
	if wc := config.GetWorkerConfig(cfg, sha.TaskType); wc.Enabled {
		handler := sha.NewHandler(sha.LoadConfig(wc), service, obs, log)
		startWorker(zeebeClient, sha.TaskType, wc, handler.Handle, zapLog)
	}
	if wc := config.GetWorkerConfig(cfg, rhm.TaskType); wc.Enabled {
		handler := rhm.NewHandler(rhm.LoadConfig(wc), service, obs, log)
		startWorker(zeebeClient, rhm.TaskType, wc, handler.Handle, zapLog)
	}
	if wc := config.GetWorkerConfig(cfg, rha.TaskType); wc.Enabled {
		handler := rha.NewHandler(rha.LoadConfig(wc), service, obs, log)
		startWorker(zeebeClient, rha.TaskType, wc, handler.Handle, zapLog)
	}

	// --- 3. Eligibility Workers (2) ---
	if wc := config.GetWorkerConfig(cfg, cla.TaskType); wc.Enabled {
		handler := cla.NewHandler(cla.LoadConfig(wc), service, obs, log)
		startWorker(zeebeClient, cla.TaskType, wc, handler.Handle, zapLog)
	}
	if wc := config.GetWorkerConfig(cfg, cal.TaskType); wc.Enabled {
		handler := cal.NewHandler(cal.LoadConfig(wc), service, obs, log)
		startWorker(zeebeClient, cal.TaskType, wc, handler.Handle, zapLog)
	}

	// --- 4. Profile Workers (1) ---
	if wc := config.GetWorkerConfig(cfg, vr.TaskType); wc.Enabled {
		handler := vr.NewHandler(vr.LoadConfig(wc), obs, log)
		startWorker(zeebeClient, vr.TaskType, wc, handler.Handle, zapLog)
	}

	zapLog.Info("Workers registered")

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", nil)
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := map[string]string{"postgres": "ok", "redis": "ok", "zeebe": "ok"}
		status := http.StatusOK
		if err := broker.HealthCheck(checkCtx); err != nil {
			checks["zeebe"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if err := pg.Ping(checkCtx); err != nil {
			checks["postgres"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if err := redis.Ping(checkCtx); err != nil {
			checks["redis"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		label := "ready"
		if status != http.StatusOK {
			label = "not_ready"
		}
		writeStatus(w, status, label, checks)
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	server := &http.Server{Addr: cfg.App.HTTPAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", cfg.App.HTTPAddr))
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

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
	}
	if err := broker.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing metrics", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, status string, checks map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	body := map[string]interface{}{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	}
	if checks != nil {
		body["checks"] = checks
	}
	json.NewEncoder(w).Encode(body)
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
