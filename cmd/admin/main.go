package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"invadmin/internal/api"
	"invadmin/internal/config"
	"invadmin/internal/controller"
	"invadmin/internal/db"
	"invadmin/internal/httpserver"
	"invadmin/internal/logging"
	"invadmin/internal/session"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx := logging.IntoContext(context.Background(), logger)

	gdb, err := db.Open(ctx, cfg.StateDB)
	if err != nil {
		log.Fatalf("state db: %v", err)
	}

	client := api.NewClient(cfg.APIURL)
	items := api.NewItemClient(client)
	users := api.NewUserClient(client)
	sessions := session.NewStore(gdb, users)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	if err := httpserver.Register(e, &httpserver.Deps{
		Sessions: sessions,
		Items:    controller.NewItemList(items, cfg.PageSize),
		Users:    controller.NewUserList(users),
		Profile:  controller.NewProfile(users, sessions),
		Login:    controller.NewLogin(sessions),
		ItemAPI:  items,
		APIURL:   cfg.APIURL,
	}); err != nil {
		log.Fatal(err)
	}

	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("start: %v", err)
		}
	}()
	logger.Info("console_started", "addr", cfg.ListenAddr, "api", cfg.APIURL)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}
