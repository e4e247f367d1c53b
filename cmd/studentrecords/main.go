package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studentrecords/internal/cli"
	"studentrecords/internal/config"
	"studentrecords/internal/handler"
	"studentrecords/internal/metrics"
	"studentrecords/internal/service"
	"studentrecords/internal/storage"
)

func main() {
	command := "menu"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "menu":
		menuCmd()
	case "serve":
		serveCmd()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Student Records - CSV-backed student management

Usage:
  studentrecords [command] [options]

Commands:
  menu        Interactive text menu (default)
  serve       HTTP API
  help        Show this help

Configuration is read from the environment and an optional .env file
(STORAGE_DRIVER, DATA_FILE, HTTP_ADDR, TOP_N, ...).`)
}

func openStore(ctx context.Context, cfg config.Config) storage.Store {
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open storage:", err)
	}
	return store
}

func menuCmd() {
	cfg := config.Load()
	fs := flag.NewFlagSet("menu", flag.ExitOnError)
	dataFile := fs.String("data", cfg.DataFile, "CSV data file (csv driver)")
	topN := fs.Int("top", cfg.TopN, "Number of students in the top list")
	if len(os.Args) > 2 {
		fs.Parse(os.Args[2:])
	}
	cfg.DataFile = *dataFile
	if *topN > 0 {
		cfg.TopN = *topN
	}

	ctx := context.Background()
	store := openStore(ctx, cfg)

	menu := cli.NewMenu(service.NewStudentService(store), service.NewChartService(store), os.Stdin, os.Stdout, cfg.TopN)
	if err := menu.Run(ctx); err != nil {
		log.Fatal("Failed to read input:", err)
	}
}

func serveCmd() {
	cfg := config.Load()
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", cfg.HTTPAddr, "Listen address")
	fs.Parse(os.Args[2:])

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := openStore(ctx, cfg)
	m := metrics.New()

	router := handler.NewRouter(
		handler.NewStudentHandler(service.NewStudentService(store), m, cfg.TopN),
		handler.NewUploadHandler(service.NewUploadService(store), m),
		handler.NewChartHandler(service.NewChartService(store), m),
		m,
	)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           handler.Wrap(router, cfg.AllowedOrigins, os.Stdout),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Println("Shutdown error:", err)
		}
	}()

	log.Printf("Server running on %s (storage: %s)", *addr, cfg.StorageDriver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("Server failed:", err)
	}
}
