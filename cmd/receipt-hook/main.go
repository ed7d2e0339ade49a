package main

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/zombor/receipt-hook/internal/pipeline"
	"github.com/zombor/receipt-hook/internal/storage"
	"github.com/zombor/receipt-hook/internal/webhook"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	// Values from a .env file act as environment variables; real ones win.
	_ = godotenv.Load()

	fs := ff.NewFlagSet("receipt-hook")
	var (
		fromEmail      = fs.StringLong("from-email", "", "Expected sender address (reserved, only logged)")
		subjectPrefix  = fs.StringLong("subject-prefix", "", "Expected subject prefix (reserved, only logged)")
		emailBucket    = fs.StringLong("email-bucket", "", "Bucket holding raw SES messages")
		emailKeyPrefix = fs.StringLong("email-key-prefix", "", "Key prefix prepended to the SES message id")
		webhookURL     = fs.StringLong("webhook-url", "", "Webhook endpoint receiving extracted receipts")
		deliveryPolicy = fs.StringLong("delivery-policy", string(pipeline.DeliveryFail), "On webhook failure: 'fail' the invocation or 'report' hook status ERROR")
		storageType    = fs.StringLong("storage", "s3", "Message storage: 's3' or 'local'")
		storagePath    = fs.StringLong("storage-path", "./mail", "Base directory for local storage")
		awsRegion      = fs.StringLong("aws-region", "", "AWS region for S3 (defaults to the AWS environment)")
		journalPath    = fs.StringLong("journal", "", "Invocation journal file path (empty disables)")
		eventPath      = fs.StringLong("event", "", "Process one SES event from this file ('-' for stdin) and exit")
		port           = fs.IntLong("port", 8080, "HTTP server port")
		authUser       = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass       = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		logLevel       = fs.StringLong("log-level", "info", "Log level: debug, info, warn or error")
		showVersion    = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_HOOK"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid log level %q\n", *logLevel)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := pipeline.Config{
		FromEmail:      *fromEmail,
		SubjectPrefix:  *subjectPrefix,
		EmailBucket:    *emailBucket,
		EmailKeyPrefix: *emailKeyPrefix,
		WebhookURL:     *webhookURL,
		DeliveryPolicy: pipeline.DeliveryPolicy(*deliveryPolicy),
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Initialize storage based on type
	var store storage.Store
	switch *storageType {
	case "s3":
		slog.Info("Initializing S3 storage...", "region", *awsRegion)
		s3Store, err := storage.NewS3Store(ctx, *awsRegion)
		if err != nil {
			slog.Error("Failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		store = s3Store
	case "local":
		slog.Info("Initializing local storage...", "path", *storagePath)
		localStore, err := storage.NewLocalStore(*storagePath)
		if err != nil {
			slog.Error("Failed to initialize local storage", "error", err)
			os.Exit(1)
		}
		store = localStore
	default:
		slog.Error("Invalid storage type", "type", *storageType, "valid", "s3 or local")
		os.Exit(1)
	}

	// Initialize journal
	var journal pipeline.Journal
	if *journalPath != "" {
		slog.Info("Initializing journal...", "path", *journalPath)
		boltJournal, err := pipeline.NewBoltJournal(*journalPath)
		if err != nil {
			slog.Error("Failed to initialize journal", "error", err)
			os.Exit(1)
		}
		journal = boltJournal
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := pipeline.NewMetrics(registry)

	sender := webhook.NewClient(cfg.WebhookURL)
	p := pipeline.NewPipeline(cfg, pipeline.DefaultSteps(store, sender), journal, metrics)

	if *eventPath != "" {
		code := runOnce(ctx, p, *eventPath)
		if journal != nil {
			journal.Close()
		}
		os.Exit(code)
	}

	basicAuth := pipeline.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := pipeline.NewServer(p, journal, registry, basicAuth)

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
	if journal != nil {
		journal.Close()
	}
}

// runOnce processes a single event file and returns the process exit code.
func runOnce(ctx context.Context, p *pipeline.Pipeline, path string) int {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		slog.Error("Failed to read event", "path", path, "error", err)
		return 1
	}

	result, err := p.Process(ctx, raw)
	if err != nil {
		// Detail was logged by the pipeline.
		return 1
	}
	fmt.Println(result.HookStatus)
	return 0
}
