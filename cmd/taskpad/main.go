package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"taskpad/internal/auth"
	"taskpad/internal/config"
	"taskpad/internal/notify"
	"taskpad/internal/repository"
	"taskpad/internal/server"
	"taskpad/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config")
	}
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("db")
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	taskRepo := repository.NewTaskRepository(db)
	taskSvc := service.NewTaskService(taskRepo)
	digestSvc := service.NewDigestService(taskRepo)
	tokens := auth.NewManager(cfg.JWTSecret)

	if cfg.DigestInterval > 0 {
		var telegram *notify.Telegram
		if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
			telegram, err = notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
			if err != nil {
				log.WithError(err).Fatal("telegram")
			}
		}

		scheduler := service.NewSchedulerService(time.Local)
		if _, err := scheduler.ScheduleInterval(cfg.DigestInterval, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			summary, err := digestSvc.Summary(jobCtx, time.Now())
			if err != nil {
				log.WithError(err).Error("digest")
				return
			}
			log.Info(summary)
			if telegram != nil {
				if err := telegram.Send(summary); err != nil {
					log.WithError(err).Error("digest delivery")
				}
			}
		}); err != nil {
			log.WithError(err).Fatal("schedule digest")
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(cfg.Addr, taskSvc, tokens, log)
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("server stopped with error")
	}
	log.Info("shutdown complete")
}
