package main

import (
	"net/http"
	"os"
	"time"

	"therapy-journal/internal/adapters/auth/jwtauth"
	"therapy-journal/internal/adapters/cache/rediscache"
	"therapy-journal/internal/adapters/objectstore/miniostore"
	pg "therapy-journal/internal/adapters/storage/postgres"
	"therapy-journal/internal/domain/relationships"
	"therapy-journal/internal/platform/config"
	"therapy-journal/internal/platform/logger"
	"therapy-journal/internal/ports/auth"
	"therapy-journal/internal/ports/objectstore"
	"therapy-journal/internal/router"
)

// @title therapy-journal API
// @version 1.0
// @description Core de sharing y visibilidad del diario paciente/terapeuta.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	opts := router.Options{
		Log:     log,
		LinkTTL: cfg.SignedURLTTL,
	}

	// Verifier JWT solo si hay secreto; sin secreto queda modo dev
	// (X-Debug-User-ID), jamás usar así en prod.
	if cfg.AuthSecret != "" {
		var v auth.AuthVerifier = jwtauth.NewVerifier(cfg.AuthSecret)
		opts.AuthVerifier = v
	} else {
		log.Warn("AUTH_SECRET vacío: auth en modo dev", nil)
	}

	if cfg.DBDSN != "" {
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			log.Error("postgres open failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer db.Close()
		opts.DB = db
	} else {
		log.Warn("DB_DSN vacío: repos in-memory", nil)
	}

	if cfg.MinioEndpoint != "" {
		store, err := miniostore.New(miniostore.Config{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			log.Error("minio client failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		var s objectstore.Store = store
		opts.ObjectStore = s
	}

	if cfg.RedisAddr != "" {
		cache := rediscache.New(cfg.RedisAddr, cfg.RedisPassword)
		defer cache.Close()
		var c relationships.Cache = cache
		opts.TherapistCache = c
	}

	r := router.NewRouter(opts)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": cfg.Addr()})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
