package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hearthside/hearth/internal/backup"
	"github.com/hearthside/hearth/internal/calendar"
	"github.com/hearthside/hearth/internal/config"
	"github.com/hearthside/hearth/internal/database"
	"github.com/hearthside/hearth/internal/icon"
	"github.com/hearthside/hearth/internal/localstore"
	"github.com/hearthside/hearth/internal/logging"
	"github.com/hearthside/hearth/internal/photos"
	"github.com/hearthside/hearth/internal/profile"
	"github.com/hearthside/hearth/internal/push"
	"github.com/hearthside/hearth/internal/schedule"
	"github.com/hearthside/hearth/internal/server"
	"github.com/hearthside/hearth/internal/snapshot"
	"github.com/hearthside/hearth/internal/state"
	"github.com/hearthside/hearth/internal/weather"
)

func main() {
	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel, cfg.LogJSON)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	kv := localstore.NewKV(db)
	subs := localstore.NewSubscriptionStore(db)
	backups := localstore.NewBackupStore(db)

	bridge := snapshot.New(kv, logger.With("component", "snapshot"))
	st := state.NewStore(bridge.Load(), bridge, logger.With("component", "state"))

	weatherSvc := weather.NewService(weather.Config{
		Latitude:  cfg.WeatherLatitude,
		Longitude: cfg.WeatherLongitude,
		Units:     cfg.WeatherUnits,
	})

	calendarSvc := calendar.NewService(calendar.Config{
		BaseURL:    cfg.CalendarBaseURL,
		CalendarID: cfg.CalendarID,
		Token:      cfg.CalendarToken,
		Lookahead:  cfg.CalendarLookahead,
	}, logger.With("component", "calendar"))

	photoSvc := photos.NewService(photos.Config{
		BaseURL: cfg.PhotoServiceURL,
		APIKey:  cfg.PhotoServiceKey,
	}, logger.With("component", "photos"))

	iconClient := icon.NewClient(cfg.IconServiceURL, cfg.IconServiceKey, logger.With("component", "icon"))
	profileSvc := profile.NewService(cfg.ProfileUserinfoURL, logger.With("component", "profile"))

	backupMgr := backup.NewManager(backup.S3Config{
		Endpoint:  cfg.S3Endpoint,
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	}, kv, backups, logger.With("component", "backup"))

	var pushSvc *push.Service
	var notifier *push.Notifier
	if cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" {
		pushSvc = push.NewService(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey)
		notifier = push.NewNotifier(pushSvc, subs, logger.With("component", "push"))
	}

	srv := server.New(server.Deps{
		Store:    st,
		Weather:  weatherSvc,
		Calendar: calendarSvc,
		Photos:   photoSvc,
		Icons:    iconClient,
		Profiles: profileSvc,
		Backup:   backupMgr,
		Push:     pushSvc,
		Notifier: notifier,
		Subs:     subs,
		KV:       kv,
	}, logger)

	sched := schedule.New(st, calendarSvc, photoSvc, notifier, logger)
	if err := sched.Start(); err != nil {
		logger.Error("start scheduler", "error", err)
		os.Exit(1)
	}

	go func() {
		for {
			time.Sleep(10 * time.Minute)
			srv.RateLimiter().Cleanup()
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("hearth listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
