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

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"trip_tracker/internal/config"
	"trip_tracker/internal/controllers"
	"trip_tracker/internal/events"
	"trip_tracker/internal/heatmap"
	"trip_tracker/internal/logger"
	"trip_tracker/internal/metrics"
	"trip_tracker/internal/middleware"
	"trip_tracker/internal/points"
	"trip_tracker/internal/routes"
	"trip_tracker/internal/storage"
	"trip_tracker/internal/trips"
	"trip_tracker/internal/users"
)

func main() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Setup(cfg.LogDir, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	switch cmd {
	case "serve":
		err = serve(cfg)
	case "migrate":
		err = storage.Migrate(cfg.DBDriver, cfg.DSN())
	default:
		err = fmt.Errorf("unknown command %q (want serve or migrate)", cmd)
	}
	if err != nil {
		logrus.WithError(err).Fatal(cmd + " failed")
	}
	logrus.Infof("%s finished", cmd)
}

func serve(cfg *config.Config) error {
	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.Close(db); err != nil {
			logrus.WithError(err).Warn("close database")
		}
	}()
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	collector := metrics.NewCollector()

	var publisher events.Publisher = events.Nop{}
	if cfg.NATSURL != "" {
		p, err := events.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubjectPrefix, collector)
		if err != nil {
			return err
		}
		publisher = p
	}
	defer publisher.Close()

	auth := middleware.NewAuth(cfg.JWTSecret, cfg.AccessTTL)
	userSvc := users.NewService(db)
	tripSvc := trips.NewService(db,
		trips.WithTxTimeout(cfg.TxTimeout),
		trips.WithPublisher(publisher),
		trips.WithRecorder(collector),
	)
	engine := points.NewEngine(db,
		points.WithThreshold(cfg.AnonymityThreshold),
		points.WithRecorder(collector),
	)

	var limiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  rate.Limit(cfg.RateLimitRPS),
			Burst: cfg.RateLimitBurst,
		})
		defer limiter.Stop()
	}

	gin.SetMode(gin.ReleaseMode)
	r := routes.SetupRouter(routes.Deps{
		Auth:           controllers.NewAuthController(userSvc, auth),
		Users:          controllers.NewUserController(userSvc, tripSvc),
		Trips:          controllers.NewTripController(tripSvc),
		Points:         controllers.NewPointController(points.NewService(db), engine),
		Heatmap:        controllers.NewHeatmapController(heatmap.NewService(engine, cfg.HeatmapCellLevel)),
		Health:         controllers.NewHealthController(sqlDB),
		Tokens:         auth,
		APIKeys:        cfg.APIKeys,
		Limiter:        limiter,
		AccessLog:      logger.AccessLog(cfg.LogDir),
		Metrics:        collector,
		MetricsHandler: collector.Handler(),
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           middleware.EnableCORS(cfg.CORSAllowedOrigin, r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logrus.WithFields(logrus.Fields{"addr": srv.Addr, "driver": cfg.DBDriver}).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logrus.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
