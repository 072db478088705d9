package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/region23/apero/internal/apero"
	"github.com/region23/apero/internal/app"
	"github.com/region23/apero/internal/clock"
	"github.com/region23/apero/internal/config"
	"github.com/region23/apero/internal/notify"
	"github.com/region23/apero/internal/storage"
	"github.com/region23/apero/internal/storage/sqlite"
	"github.com/region23/apero/internal/tz"
	"github.com/region23/apero/pkg/errors"
	"github.com/region23/apero/pkg/logger"
)

const version = "1.0.0"

// Коды завершения
const (
	exitOK            = 0
	exitFailure       = 1
	exitNoAperoZone   = 2
	exitUnreadableDoc = 3
	exitPathNotFound  = 4
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// options флаги командной строки
type options struct {
	document    string
	envFile     string
	logLevel    string
	zones       bool
	history     int
	showVersion bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := pflag.NewFlagSet("apero", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.document, "document", "f", "", "path to the info document (overrides APERO_DOCUMENT)")
	fs.StringVar(&opts.envFile, "env-file", "", "load settings from this .env file instead of ./.env")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides APERO_LOG_LEVEL)")
	fs.BoolVar(&opts.zones, "zones", false, "list every zone where it is apéro time and exit")
	fs.IntVar(&opts.history, "history", 0, "show the last N journaled picks and exit, as --history or --history=N (requires APERO_HISTORY_DB)")
	fs.BoolVar(&opts.showVersion, "version", false, "print version and exit")
	fs.Lookup("history").NoOptDefVal = "-1"

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

// run содержит логику main и возвращает код завершения
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if err == pflag.ErrHelp {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitFailure
	}
	if opts.showVersion {
		fmt.Fprintln(stdout, "apero", version)
		return exitOK
	}

	overrides := []config.Option{
		config.WithDocument(opts.document),
		config.WithLogLevel(opts.logLevel),
	}
	var cfg *config.Config
	if opts.envFile != "" {
		cfg, err = config.LoadFile(opts.envFile, overrides...)
	} else {
		cfg, err = config.Load(overrides...)
	}
	if err != nil {
		return fail(stderr, errors.ErrConfigurationInvalid.WithError(err))
	}

	log := logger.NewWithWriter(cfg.LogLevel(), stderr)
	log.Debug("Configuration loaded", logger.String("document", cfg.Document.Path))

	catalog, err := tz.Common()
	if err != nil {
		return fail(stderr, err)
	}

	var store storage.Storage
	if cfg.History.Enabled() {
		s, err := sqlite.New(cfg.History.Path)
		if err != nil {
			return fail(stderr, errors.ErrHistoryStorage.WithContext(cfg.History.Path).WithError(err))
		}
		defer func() {
			if err := s.Close(); err != nil {
				log.Warn("Error closing history storage", logger.Error(err))
			}
		}()
		if err := s.Ping(ctx); err != nil {
			return fail(stderr, errors.ErrHistoryStorage.WithContext(cfg.History.Path).WithError(err))
		}
		store = s
	}

	var sender notify.Sender
	if cfg.Telegram.Enabled() {
		s, err := notify.NewTelegramSender(cfg.Telegram)
		if err != nil {
			return fail(stderr, errors.ErrNotifier.WithError(err))
		}
		sender = s
	}

	a := app.New(cfg, log, clock.Real{}, catalog, apero.NewSelector(nil), store, sender)

	switch {
	case opts.zones:
		err = a.ListZones(ctx, stdout)
	case opts.history != 0:
		err = a.ShowHistory(ctx, stdout, opts.history)
	default:
		err = a.Run(ctx, stdout)
	}
	if err != nil {
		return fail(stderr, err)
	}
	return exitOK
}

// fail печатает диагностику одной строкой и возвращает код завершения
func fail(stderr io.Writer, err error) int {
	fmt.Fprintln(stderr, "apero:", err)
	return exitCode(err)
}

// exitCode сопоставляет код ошибки коду завершения
func exitCode(err error) int {
	aerr, ok := errors.GetAperoError(err)
	if !ok {
		return exitFailure
	}
	switch aerr.Code {
	case errors.CodeNoAperoZone:
		return exitNoAperoZone
	case errors.CodeDocumentUnreadable:
		return exitUnreadableDoc
	case errors.CodePathNotFound:
		return exitPathNotFound
	}
	return exitFailure
}
