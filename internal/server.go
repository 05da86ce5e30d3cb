package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/multierr"

	"github.com/mkovacevic/equilog/internal/activities"
	"github.com/mkovacevic/equilog/internal/activities/overview"
	"github.com/mkovacevic/equilog/internal/auth"
	"github.com/mkovacevic/equilog/internal/config"
	"github.com/mkovacevic/equilog/internal/db"
	"github.com/mkovacevic/equilog/internal/horses"
	"github.com/mkovacevic/equilog/internal/middleware"
	"github.com/mkovacevic/equilog/internal/photos"
	"github.com/mkovacevic/equilog/internal/profiles"
	"github.com/mkovacevic/equilog/internal/telemetry/metrics"
	"github.com/mkovacevic/equilog/internal/telemetry/tracing"
)

const (
	activitiesCacheSizeBytes = 16 * 1024 * 1024
	activitiesCacheTTL       = 10 * time.Minute
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	photosStore *photos.Store

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service

	activitiesCache *overview.ActivitiesCache

	// telemetry
	metricsManager   *metrics.Manager
	promRegistry     *prometheus.Registry
	otelShutdown     func()
	sessionEventsOff func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDB,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": "equilog_db"},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("equilog", "backend", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	authService := auth.NewService(auth.NewUsersRepo(dbPool), auth.DefaultTTL, rdb)
	go func() {
		for range time.Tick(time.Hour * 8) {
			authService.ScanAndClean(ctx)
		}
	}()

	sessionEvents, sessionEventsOff := authService.Subscribe()
	go func() {
		for event := range sessionEvents {
			switch event.Type {
			case auth.SessionOpened:
				metricsManager.GaugeActiveSessions.Inc()
			case auth.SessionClosed, auth.SessionExpired:
				metricsManager.GaugeActiveSessions.Dec()
			}
		}
	}()

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "equilog-backend", rdb)
	if err != nil {
		return nil, err
	}

	photosStore, err := photos.NewStore(params.Config.PhotosDiskRootPath)
	if err != nil {
		return nil, fmt.Errorf("new photos store: %w", err)
	}

	return &Server{
		config:      params.Config,
		versionInfo: params.VersionInfo,
		dbPool:      dbPool,
		photosStore: photosStore,

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),

		activitiesCache: overview.NewActivitiesCache(activitiesCacheSizeBytes, activitiesCacheTTL),

		metricsManager:   metricsManager,
		promRegistry:     promRegistry,
		otelShutdown:     otelShutdown,
		sessionEventsOff: sessionEventsOff,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("equilog-router"))

	activitiesRepo := activities.NewRepo(s.dbPool)
	horsesRepo := horses.NewRepo(s.dbPool)
	profilesRepo := profiles.NewRepo(s.dbPool)

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	loginRateLimit := middleware.RateLimit(
		reqRateLimiter, "login", s.config.LoginRateLimitSpec, s.metricsManager,
	)

	authHandler := auth.NewHandler(s.authService, profilesRepo)
	r.Handle("/a/login", loginRateLimit(http.HandlerFunc(authHandler.HandleLogin))).Methods("POST", "OPTIONS").Name("login")
	r.Handle("/a/register", loginRateLimit(http.HandlerFunc(authHandler.HandleRegister))).Methods("POST", "OPTIONS").Name("register")
	r.HandleFunc("/a/logout", authHandler.HandleLogout).Methods("GET", "OPTIONS").Name("logout")

	activitiesHandler := activities.NewHandler(activitiesRepo, horsesRepo, s.activitiesCache, s.metricsManager)
	r.HandleFunc("/activity", activitiesHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-activity")
	r.HandleFunc("/activity/{id}", activitiesHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-activity")
	r.HandleFunc("/activity/{id}", activitiesHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-activity")
	r.HandleFunc("/activity/{id}", activitiesHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-activity")
	r.HandleFunc("/activity/list/{horseId}/page/{page}/size/{size}", activitiesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-activities")

	overviewHandler := overview.NewHandler(activitiesRepo, horsesRepo, s.activitiesCache, nil)
	r.HandleFunc("/overview/{horseId}/stats", overviewHandler.HandleStats).Methods("GET", "OPTIONS").Name("overview-stats")
	r.HandleFunc("/overview/{horseId}/breakdown", overviewHandler.HandleBreakdown).Methods("GET", "OPTIONS").Name("overview-breakdown")
	r.HandleFunc("/overview/{horseId}/week", overviewHandler.HandleWeek).Methods("GET", "OPTIONS").Name("overview-week")
	r.HandleFunc("/overview/{horseId}/calendar", overviewHandler.HandleCalendarMarkers).Methods("GET", "OPTIONS").Name("overview-calendar")

	horsesHandler := horses.NewHandler(horsesRepo, s.photosStore, s.activitiesCache, s.metricsManager)
	r.HandleFunc("/horse", horsesHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-horse")
	r.HandleFunc("/horse/list", horsesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-horses")
	r.HandleFunc("/horse/{id}", horsesHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-horse")
	r.HandleFunc("/horse/{id}", horsesHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-horse")
	r.HandleFunc("/horse/{id}", horsesHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-horse")
	r.HandleFunc("/horse/{id}/photo", horsesHandler.HandleUploadPhoto).Methods("POST", "OPTIONS").Name("upload-horse-photo")

	photosHandler := photos.NewHandler(s.photosStore)
	r.HandleFunc("/photos/{horseId}/{name}", photosHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-photo")

	profilesHandler := profiles.NewHandler(profilesRepo)
	r.HandleFunc("/profile", profilesHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-profile")
	r.HandleFunc("/profile/name", profilesHandler.HandleUpdateName).Methods("PUT", "OPTIONS").Name("update-profile-name")

	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(s.versionInfo))
	}).Methods("GET").Name("version")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(_ context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(host, strconv.Itoa(s.config.PrometheusMetricsPort))
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
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

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	if s.sessionEventsOff != nil {
		s.sessionEventsOff()
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	var closeErrors error
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			closeErrors = multierr.Append(closeErrors, fmt.Errorf("close redis client conn: %w", err))
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

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			closeErrors = multierr.Append(closeErrors, fmt.Errorf("shutdown http server: %w", err))
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			closeErrors = multierr.Append(closeErrors, fmt.Errorf("shutdown metrics http server: %w", err))
		}
		log.Warnln("metrics server shut down")
	}

	if closeErrors != nil {
		log.Errorf("graceful shutdown errors: %s", closeErrors)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
