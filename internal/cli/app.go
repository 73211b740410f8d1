package cli

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jacentio/eventease/internal/config"
	"github.com/jacentio/eventease/model"
	"github.com/jacentio/eventease/service"
	"github.com/jacentio/eventease/store"
)

// app is the wired set of services one command runs against.
type app struct {
	config      config.Config
	logger      *slog.Logger
	events      *service.EventService
	attendances *service.AttendanceService
	close       func() error
}

// loadConfig merges file, environment and flags, in that order.
func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath, opts.getenv)
	if err != nil {
		return config.Config{}, err
	}
	if opts.Backend != "" {
		cfg.Backend = opts.Backend
	}
	if opts.Namespace != "" {
		cfg.Namespace = opts.Namespace
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func openApp(ctx context.Context, opts *RootOptions, cmd *cobra.Command, f *OutputFormatter) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err.Error(), err)
	}
	return openAppWith(ctx, cfg, opts, cmd, f)
}

func openAppWith(ctx context.Context, cfg config.Config, opts *RootOptions, cmd *cobra.Command, f *OutputFormatter) (*app, error) {
	logger := newLogger(opts, cmd.ErrOrStderr())

	kv, closeKV, err := cfg.Open(ctx)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeStorage, "cannot open "+cfg.Backend+" backend", err.Error(), err)
	}
	f.VerboseLog("Using %s backend (namespace %q)", cfg.Backend, cfg.Namespace)

	svcCfg := service.Config{Namespace: cfg.Namespace, Logger: logger}
	events, err := service.NewEventService(kv, svcCfg)
	if err != nil {
		_ = closeKV()
		return nil, f.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err.Error(), err)
	}
	attendances, err := service.NewAttendanceService(kv, svcCfg)
	if err != nil {
		_ = closeKV()
		return nil, f.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err.Error(), err)
	}

	return &app{
		config:      cfg,
		logger:      logger,
		events:      events,
		attendances: attendances,
		close:       closeKV,
	}, nil
}

// withApp opens the app, runs fn and closes the backend.
func withApp(opts *RootOptions, cmd *cobra.Command, fn func(ctx context.Context, a *app, f *OutputFormatter) error) error {
	f := newFormatter(opts, cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := openApp(ctx, opts, cmd, f)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.close(); err != nil {
			a.logger.Warn("closing backend", "error", err)
		}
	}()
	return fn(ctx, a, f)
}

// storageFailure reports a store error; anything else is unexpected but
// reported the same way.
func storageFailure(f *OutputFormatter, op string, err error) error {
	msg := op + " failed"
	if errors.Is(err, store.ErrStorageUnavailable) {
		msg = op + " failed: storage unavailable"
	}
	return f.Fail(ExitCommandError, ErrCodeStorage, msg, err.Error(), err)
}

// validationFailure reports field rule violations.
func validationFailure(f *OutputFormatter, err error) error {
	var verrs model.ValidationErrors
	if errors.As(err, &verrs) {
		return f.Fail(ExitFailure, ErrCodeValidation, "validation failed: "+verrs.Error(), []model.FieldError(verrs), err)
	}
	return f.Fail(ExitFailure, ErrCodeValidation, err.Error(), nil, err)
}

func parseID(f *OutputFormatter, what, arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 1 {
		return 0, f.Fail(ExitCommandError, ErrCodeUsage, "invalid "+what+" id "+strconv.Quote(arg), nil, nil)
	}
	return id, nil
}
