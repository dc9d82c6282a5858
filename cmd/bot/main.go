// Package main contains the entrypoint for the CortexV3 WhatsApp assistant.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Shakir788/cortexV3/internal/bot"
	"github.com/Shakir788/cortexV3/internal/bot/tasks"
	"github.com/Shakir788/cortexV3/internal/commands"
	"github.com/Shakir788/cortexV3/internal/config"
	"github.com/Shakir788/cortexV3/internal/database"
	"github.com/Shakir788/cortexV3/internal/facts"
	"github.com/Shakir788/cortexV3/internal/gemini"
	"github.com/Shakir788/cortexV3/internal/history"
	"github.com/Shakir788/cortexV3/internal/logger"
	"github.com/Shakir788/cortexV3/internal/media"
	"github.com/Shakir788/cortexV3/internal/openai"
	"github.com/Shakir788/cortexV3/internal/profile"
	"github.com/Shakir788/cortexV3/internal/responder"
	"github.com/Shakir788/cortexV3/internal/tools"
	"github.com/Shakir788/cortexV3/internal/webhook"
	"github.com/Shakir788/cortexV3/internal/whatsapp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes and starts all application components, handles graceful
// shutdown, and returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	// A local .env is a convenience for development; absence is normal.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Storage.DBPath)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Storage.DBPath, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	prof := profile.Load(cfg.Storage.ProfilePath, log)
	factsStore := facts.NewStore(cfg.Storage.FactsPath, log)
	window := history.NewWindow(cfg.History.MaxTurns)

	aiClient, err := openai.NewClient(cfg.AI.BaseURL, cfg.AI.Token, cfg.AI.Model, cfg.AI.Temperature, cfg.AI.Timeout, log)
	if err != nil {
		log.Error("Failed to create AI client", "error", err)
		return 1
	}

	var gemClient gemini.Client
	if cfg.Media.Vision == media.StrategyGemini || cfg.Media.Transcriber == media.StrategyGemini {
		gemClient, err = gemini.NewClient(ctx, cfg.Gemini, log)
		if err != nil {
			log.Error("Failed to initialize Gemini client", "error", err)
			return 1
		}
	}

	waClient, err := whatsapp.NewClient(
		cfg.WhatsApp.APIBaseURL, cfg.WhatsApp.APIVersion,
		cfg.WhatsApp.PhoneNumberID, cfg.WhatsApp.AccessToken, log)
	if err != nil {
		log.Error("Failed to create WhatsApp client", "error", err)
		return 1
	}

	toolRegistry := tools.NewRegistry(cfg.Tools.WebSearchEnabled, log)
	interpreter := commands.NewInterpreter(factsStore, prof, cfg.AssistantName, log)
	resp := responder.New(
		aiClient, toolRegistry, factsStore, prof, interpreter,
		cfg.AssistantName, cfg.Messages.AIError, cfg.AI.MaxToolRounds, log)
	analyzer := media.NewAnalyzer(waClient, aiClient, aiClient, gemClient, cfg.Media, cfg.Messages, log)

	dispatcher := webhook.NewDispatcher(webhook.Deps{
		Logger:      log,
		Config:      cfg,
		Sender:      waClient,
		Interpreter: interpreter,
		Responder:   resp,
		Analyzer:    analyzer,
		History:     window,
		Archive:     store,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Bind, cfg.Server.Port)
	server := webhook.NewServer(addr, cfg.WhatsApp.VerifyToken, dispatcher, log)

	tDeps := tasks.TaskDeps{
		Logger:     log,
		Store:      store,
		FactsStore: factsStore,
		Config:     cfg,
	}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, cfg, db, store, server, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
