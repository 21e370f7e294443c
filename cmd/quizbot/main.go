package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"quizbot/internal/api"
	"quizbot/internal/bot"
	"quizbot/internal/config"
	"quizbot/internal/store"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}

	log := newLogger(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dbh, err := store.Open(ctx, store.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	defer dbh.Close()
	users := store.NewSQLStore(dbh)

	tg, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("telegram api: %v", err)
	}
	log.Infof("authorized as @%s", tg.Self.UserName)

	b := bot.New(tg, cfg, users, log)

	// Optional ops API.
	var httpSrv *http.Server
	if cfg.HTTPAddr != "" {
		authSvc := api.NewAuthService(cfg.AuthHMACSecret, cfg.AdminUser, cfg.AdminPassHash)
		httpSrv = &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: api.NewRouter(authSvc, users, cfg.CORSOrigins),
		}
		go func() {
			log.Infof("ops API listening on %s", cfg.HTTPAddr)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("ops API: %v", err)
				cancel()
			}
		}()
	}

	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Errorf("bot: %v", err)
	}

	if httpSrv != nil {
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutCancel()
		if err := httpSrv.Shutdown(shutCtx); err != nil {
			log.Errorf("ops API shutdown: %v", err)
		}
	}
	log.Info("shutdown complete")
}

func newLogger(cfg config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Warnf("log file %s: %v, using stderr", cfg.LogFile, err)
		} else {
			log.SetOutput(f)
		}
	}
	return log
}
