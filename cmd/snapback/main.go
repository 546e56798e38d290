package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/vbonduro/snapback/internal/complaint"
	"github.com/vbonduro/snapback/internal/config"
	"github.com/vbonduro/snapback/internal/db"
	"github.com/vbonduro/snapback/internal/logging"
	"github.com/vbonduro/snapback/internal/store"
	"github.com/vbonduro/snapback/internal/vision"
	claudevision "github.com/vbonduro/snapback/internal/vision/claude"
	geminivision "github.com/vbonduro/snapback/internal/vision/gemini"
	moondreamvision "github.com/vbonduro/snapback/internal/vision/moondream"
	ollamavision "github.com/vbonduro/snapback/internal/vision/ollama"
	"github.com/vbonduro/snapback/internal/web"
	"github.com/vbonduro/snapback/internal/web/templates"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	mode, err := complaint.ParseMode(cfg.ResponseMode)
	if err != nil {
		logger.Error("invalid RESPONSE_MODE", "error", err)
		return
	}

	// A missing credential is reported on the form rather than aborting, so
	// the page still explains what to configure.
	var configErr error
	if err := cfg.Validate(); err != nil {
		if !errors.Is(err, config.ErrMissingCredential) {
			logger.Error("invalid configuration", "error", err)
			return
		}
		if cfg.Strict() {
			logger.Error("analysis disabled", "error", err)
			configErr = err
		} else {
			logger.Warn("continuing without credential", "error", err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := []complaint.Option{complaint.WithTimeout(cfg.InferenceTimeout)}

	var history web.HistoryLister
	if cfg.HistoryDBPath != "" {
		database, err := db.Open(cfg.HistoryDBPath)
		if err != nil {
			logger.Error("failed to open history database", "error", err)
			return
		}
		defer closeDB(database, logger)

		hs := store.NewHistoryStore(database)
		history = hs
		opts = append(opts, complaint.WithRecorder(hs))
		logger.Info("analysis history enabled", "path", cfg.HistoryDBPath)
	}

	analyzer := complaint.NewAnalyzer(newVisionAnalyzer(ctx, cfg, logger), mode, logger, opts...)
	server := web.NewServer(analyzer, history, configErr, templates.FS, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx, cfg.ListenAddr)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		return
	}
	logger.Info("shutdown complete")
}

func newVisionAnalyzer(ctx context.Context, cfg *config.Config, logger *slog.Logger) vision.VisionAnalyzer {
	switch cfg.VisionBackend {
	case "claude":
		logger.Info("using Claude vision backend", "model", cfg.ClaudeModel)
		return claudevision.NewClaudeAnalyzer(cfg.ClaudeAPIKey, cfg.ClaudeModel, "")
	case "gemini":
		logger.Info("using Gemini vision backend", "model", cfg.GeminiModel)
		a, err := geminivision.NewGeminiAnalyzer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, "")
		if err != nil {
			logger.Error("failed to create Gemini client", "error", err)
			return vision.Unavailable{Err: err}
		}
		return a
	case "ollama":
		logger.Info("using Ollama vision backend", "host", cfg.OllamaHost, "model", cfg.OllamaModel)
		return ollamavision.NewOllamaAnalyzer(cfg.OllamaHost, cfg.OllamaModel)
	default:
		logger.Info("using Moondream vision backend", "url", cfg.MoondreamURL)
		return moondreamvision.NewMoondreamAnalyzer(cfg.MoondreamURL, cfg.MoondreamAPIKey)
	}
}

func closeDB(database *sql.DB, logger *slog.Logger) {
	if err := database.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
	}
}
