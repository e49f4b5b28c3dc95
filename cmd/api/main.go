package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/campuslaunch/campus-launch-backend/config"
	"github.com/campuslaunch/campus-launch-backend/internal/audit"
	"github.com/campuslaunch/campus-launch-backend/internal/bootstrap"
	"github.com/campuslaunch/campus-launch-backend/internal/docstore"
	"github.com/campuslaunch/campus-launch-backend/internal/identity"
	"github.com/campuslaunch/campus-launch-backend/internal/logger"
	"github.com/campuslaunch/campus-launch-backend/internal/session"
	"github.com/campuslaunch/campus-launch-backend/internal/uploads"
	usersrepo "github.com/campuslaunch/campus-launch-backend/internal/users/repository"
)

const serviceName = "campus-launch-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.App.LogLevel, cfg.App.Environment != "production")
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	authClient, fsClient, err := bootstrap.InitializeFirebase(ctx, &cfg.Firebase)
	if err != nil {
		log.Fatal().Err(err).Msg("firebase init failed")
	}
	defer fsClient.Close()

	store := docstore.NewFirestoreStore(fsClient)
	userRepo := usersrepo.NewRepository(store)

	var cache *identity.Cache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, profile cache disabled")
		} else {
			cache = identity.NewCache(rdb, log)
		}
	}

	resolver := identity.NewResolver(userRepo, cache, log)

	var oauthCfg *oauth2.Config
	if cfg.Google.ClientID != "" {
		oauthCfg = &oauth2.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}
	sessions := session.NewFirebaseStore(authClient, cfg.Firebase.APIKey, oauthCfg, log)

	recorder := audit.Recorder(audit.NopRecorder{})
	deps := bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Store:          store,
		Sessions:       sessions,
		Resolver:       resolver,
		Log:            log,
	}

	if cfg.Database.Enabled {
		pool, err := audit.NewPool(ctx, cfg.Database.DSN())
		if err != nil {
			log.Warn().Err(err).Msg("audit database unreachable, partial writes will only be logged")
		} else {
			defer pool.Close()
			recorder = audit.NewLedger(pool, log)
			deps.AuditDB = pool
		}
	}
	deps.Recorder = recorder

	if cfg.AWS.ImageBucket != "" {
		presigner, err := uploads.NewPresigner(ctx, cfg.AWS.Region, cfg.AWS.ImageBucket)
		if err != nil {
			log.Warn().Err(err).Msg("s3 presigner unavailable, image uploads disabled")
		} else {
			deps.Presigner = presigner
		}
	}

	reconciler := audit.NewReconciler(store, recorder, log)
	sweeper, err := reconciler.Start()
	if err != nil {
		log.Fatal().Err(err).Msg("could not schedule reconciliation sweep")
	}
	defer sweeper.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           bootstrap.BuildRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("env", cfg.App.Environment).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown did not complete cleanly")
	}
}
