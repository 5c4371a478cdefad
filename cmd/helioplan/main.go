package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/helioplan/helioplan/pkg/engine"
	"github.com/helioplan/helioplan/pkg/log"

	"github.com/joho/godotenv"
	"github.com/levenlabs/go-lflag"
	"github.com/levenlabs/go-llog"
	yaml "gopkg.in/yaml.v2"
)

func main() {
	// .env is optional; real environment variables and flags win
	_ = godotenv.Load()

	// init packages
	e := engine.Configured()

	requestPath := lflag.RequiredString("request", "Path to the request YAML file")
	pretty := lflag.Bool("pretty", false, "Indent the result JSON")

	// parse flags
	lflag.Configure()

	var level slog.Level
	// lflag automatically sets llog's level, but we need to set the slog level
	switch llog.GetLevel() {
	case llog.DebugLevel:
		level = slog.LevelDebug
	case llog.InfoLevel:
		level = slog.LevelInfo
	case llog.WarnLevel:
		level = slog.LevelWarn
	case llog.ErrorLevel:
		level = slog.LevelError
	default:
		panic(fmt.Errorf("unknown log level: %s", llog.GetLevel().String()))
	}

	// logs go to stderr, the result JSON owns stdout
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	slog.Debug("logger configured", slog.String("level", level.String()))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx = log.With(ctx, logger)

	raw, err := os.ReadFile(*requestPath)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to read request file", "error", err)
		os.Exit(1)
	}

	// an absent useCache key means caching stays on
	req := engine.Request{UseCache: true}
	if err := yaml.Unmarshal(raw, &req); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to parse request file", "error", err)
		os.Exit(1)
	}

	result, err := e.ComputeViability(ctx, req)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "viability computation failed", "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to encode result", "error", err)
		os.Exit(1)
	}
}
