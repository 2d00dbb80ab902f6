package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/vamsi260801-bit/nhfs/config"
	"github.com/vamsi260801-bit/nhfs/dataset"
	"github.com/vamsi260801-bit/nhfs/explorer"
)

func main() {
	log.Println("started")
	cfg := config.GetConfig()

	ds, err := dataset.Get().Dataset()
	if err != nil {
		log.Fatalf("cannot load dataset: %v", err)
	}
	ex := explorer.New(ds, explorer.NewRoundOrder(cfg.SurveyOrder))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TgToken != "" {
		api, err := tgbotapi.NewBotAPI(cfg.TgToken)
		if err != nil {
			log.Fatalf("tg error: %v", err)
		}
		go func() {
			if err := runBot(ctx, api, newTelegramBot(api, ex)); err != nil {
				log.Printf("bot stopped: %v", err)
			}
		}()
	} else {
		log.Println("TG_TOKEN is not set, telegram bot disabled")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newRouter(newWebHandler(ex, cfg.ChartCacheTTL), cfg),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("listen on: %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Println("Shutdown signal received")
	case err := <-serverErrors:
		log.Printf("Server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
		return
	}
	log.Println("Server shutdown completed")
}
