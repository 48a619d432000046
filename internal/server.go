package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/multierr"

	"github.com/2beens/gymdash/internal/config"
	"github.com/2beens/gymdash/internal/db"
	"github.com/2beens/gymdash/internal/lifts"
	"github.com/2beens/gymdash/internal/middleware"
	"github.com/2beens/gymdash/internal/telemetry/metrics"
	"github.com/2beens/gymdash/internal/telemetry/tracing"
	"github.com/2beens/gymdash/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	apiTokenHash      string // bcrypt hash; empty disables the auth check
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	csvRepo     *lifts.CsvRepo
	service     *lifts.Service

	// data file watcher
	watchCancel context.CancelFunc
	watchDone   <-chan struct{}

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	ApiTokenHash            string
	VersionInfo             string
	RedisPassword           string
	PostgresPassword        string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "gymdash-api")
	if err != nil {
		return nil, fmt.Errorf("honeycomb setup: %w", err)
	}

	s := &Server{
		config:       cfg,
		apiTokenHash: params.ApiTokenHash,
		versionInfo:  params.VersionInfo,
		otelShutdown: otelShutdown,
	}

	var repo lifts.Repo
	var extraCollectors []prometheus.Collector
	switch cfg.Storage {
	case "postgres":
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBPassword:     params.PostgresPassword,
			TracingEnabled: params.HoneycombTracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}
		s.dbPool = dbPool

		psqlRepo := lifts.NewPsqlRepo(dbPool)
		if err := psqlRepo.EnsureSchema(ctx); err != nil {
			dbPool.Close()
			return nil, err
		}
		repo = psqlRepo

		extraCollectors = append(extraCollectors, pgxpoolprometheus.NewCollector(
			dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
	default:
		csvRepo, err := lifts.NewCsvRepo(filepath.Join(cfg.DataDir, cfg.DataFileName))
		if err != nil {
			return nil, fmt.Errorf("new csv repo: %w", err)
		}
		s.csvRepo = csvRepo
		repo = csvRepo
	}

	s.promRegistry = metrics.SetupPrometheus(extraCollectors...)
	s.metricsManager = metrics.NewManager("gymdash", "api", s.promRegistry)
	s.metricsManager.GaugeLifeSignal.Set(0)

	var settingsStore lifts.SettingsStore = lifts.NewFileSettingsStore(
		filepath.Join(cfg.DataDir, cfg.SettingsFile),
	)
	if cfg.RedisEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: params.RedisPassword,
			DB:       0, // use default DB
		})
		if params.HoneycombTracingEnabled {
			rdb.AddHook(redisotel.NewTracingHook())
		}

		rdbStatus := rdb.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
		s.redisClient = rdb
		settingsStore = lifts.NewRedisSettingsStore(rdb)
	}

	s.service = lifts.NewService(lifts.NewServiceParams{
		Repo:                  repo,
		Settings:              settingsStore,
		MetricsManager:        s.metricsManager,
		PredictionCacheSizeMB: cfg.PredictionCacheSizeMB,
		PredictionCacheExpire: cfg.PredictionCacheExpiration,
	})

	return s, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("gymdash-router"))

	var limitMutations lifts.RouteWrapper
	if s.redisClient != nil {
		limitMutations = middleware.RouteRateLimiter(
			redis_rate.NewLimiter(s.redisClient),
			s.config.MutationRateLimitPerMin,
			s.metricsManager,
		)
	}

	liftsHandler := lifts.NewHandler(s.service, s.config.MaxUploadSizeMB)
	liftsHandler.SetupRoutes(r.PathPrefix("/api").Subrouter(), limitMutations)

	r.HandleFunc("/health", s.handleHealth).Methods("GET").Name("health")

	authMiddleware := middleware.NewAuthMiddlewareHandler(nil)
	if s.apiTokenHash != "" {
		authMiddleware = middleware.NewAuthMiddlewareHandler(
			middleware.NewBcryptTokenChecker(s.apiTokenHash),
		)
	} else {
		log.Warnln("api token hash not set, mutating routes are not protected")
	}

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.allowedOrigins()...))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

// the dashboard web front is the only browser origin talking to the api
func (s *Server) allowedOrigins() []string {
	port := strconv.Itoa(s.config.Dashboard.Port)
	return []string{
		"http://" + net.JoinHostPort(s.config.Dashboard.Host, port),
		"http://" + net.JoinHostPort("localhost", port),
		"http://" + net.JoinHostPort("127.0.0.1", port),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, map[string]string{
		"status":  "ok",
		"version": s.versionInfo,
	}, http.StatusOK)
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	if s.csvRepo != nil && s.config.WatchDataFile {
		watchCtx, cancel := context.WithCancel(ctx)
		done, err := s.csvRepo.Watch(watchCtx)
		if err != nil {
			cancel()
			log.Errorf("failed to watch data file: %s", err)
		} else {
			s.watchCancel = cancel
			s.watchDone = done
		}
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() error {
	log.Debug("graceful shutdown initiated ...")
	s.metricsManager.GaugeLifeSignal.Set(0)

	var err error
	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if shutdownErr := s.httpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown http server: %w", shutdownErr))
		}
		log.Warnln("server shut down")
	}
	if s.metricsHttpServer != nil {
		if shutdownErr := s.metricsHttpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown metrics http server: %w", shutdownErr))
		}
		log.Warnln("metrics server shut down")
	}

	if s.watchCancel != nil {
		s.watchCancel()
		<-s.watchDone
		log.Trace("data file watcher stopped ...")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if closeErr := s.redisClient.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close redis client: %w", closeErr))
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	return err
}
