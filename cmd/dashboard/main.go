package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/backoffice/internal/api"
	"github.com/MrJamesThe3rd/backoffice/internal/config"
	"github.com/MrJamesThe3rd/backoffice/internal/flash"
	"github.com/MrJamesThe3rd/backoffice/internal/format"
	backofficeHttp "github.com/MrJamesThe3rd/backoffice/internal/http"
	"github.com/MrJamesThe3rd/backoffice/internal/http/shell"
	"github.com/MrJamesThe3rd/backoffice/internal/http/view"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Server.FlashSecret == "change-me" {
		slog.Warn("FLASH_SECRET is the default value; notices can be forged")
	}

	formatter, err := format.New(cfg.App.Locale, cfg.App.Currency)
	if err != nil {
		slog.Error("failed to set up formatting", "error", err)
		os.Exit(1)
	}

	renderer, err := view.New(cfg.App.Name, formatter, flash.NewStore(cfg.Server.FlashSecret))
	if err != nil {
		slog.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	newClient := shell.NewClientFactory(cfg.API.URL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithLanguage(formatter.Tag()),
	)

	router := backofficeHttp.New(newClient, renderer, backofficeHttp.Options{
		Timeout:     cfg.Server.Timeout,
		CORSOrigins: cfg.Server.CORSOrigins,
		FailOpen:    cfg.FailOpen(),
	})

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port, "api", cfg.API.URL, "gate_fail_mode", cfg.Gate.FailMode)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
