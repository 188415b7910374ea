package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"tinymeal/internal/config"
)

func main() {
	var addr string
	var jsonLogs bool
	var help bool

	flag.StringVar(&addr, "addr", ":8080", "Address to bind")
	flag.BoolVar(&jsonLogs, "json-logs", true, "Emit structured JSON logs")
	flag.BoolVar(&help, "help", false, "Show help message")
	flag.BoolVar(&help, "h", false, "Show help message")
	flag.Parse()

	if help {
		flag.Usage()
		return
	}

	// A .env file is a local development convenience only.
	_ = godotenv.Load()

	setupLogging(jsonLogs)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if err := runServer(cfg, addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func setupLogging(jsonLogs bool) {
	var handler slog.Handler
	if jsonLogs {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}
