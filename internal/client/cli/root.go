package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/cartkeeper/internal/client/config"
	"github.com/iudanet/cartkeeper/internal/client/iocli"
)

// annotationNoApp команды, которым не нужны база и сервер
const annotationNoApp = "cartkeeper/no-app"

// BuildInfo version information set via ldflags during build
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	cli        *Cli
	app        *app
	ConfigPath string
	Server     string
	DB         string
	LogLevel   string
	Timeout    time.Duration
}

// Execute runs the command line and releases local resources afterwards.
func Execute(ctx context.Context, info BuildInfo, args []string) error {
	opts := &RootOptions{}
	cmd := NewRootCommand(info, opts)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if closeErr := opts.close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	return err
}

// NewRootCommand creates the root command for the cartkeeper CLI.
func NewRootCommand(info BuildInfo, opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cartkeeper",
		Short:         "cartkeeper - shopping cart client",
		Long:          "Shopping cart client with optimistic updates and server reconciliation.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[annotationNoApp] != "" {
				return nil
			}
			return opts.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "path to YAML config (default $"+config.EnvConfigPath+")")
	flags.StringVar(&opts.Server, "server", config.DefaultServer, "server URL")
	flags.StringVar(&opts.DB, "db", config.DefaultDB, "path to local database")
	flags.StringVar(&opts.LogLevel, "log-level", config.DefaultLogLevel, "log level (debug|info|warn|error)")
	flags.DurationVar(&opts.Timeout, "timeout", config.DefaultRequestTimeout, "timeout of reads, login and checkout (0 disables; add/remove are not limited)")

	cmd.AddCommand(
		newRegisterCommand(opts),
		newLoginCommand(opts),
		newLogoutCommand(opts),
		newStatusCommand(opts),
		newCartCommand(opts),
		newAddCommand(opts),
		newRemoveCommand(opts),
		newSyncCommand(opts),
		newCheckoutCommand(opts),
		newWatchCommand(opts),
		newAdminCommand(opts),
		newVersionCommand(info),
	)

	return cmd
}

// resolveConfig: файл настроек, затем явно заданные флаги
func (o *RootOptions) resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.Server = o.Server
	}
	if flags.Changed("db") {
		cfg.DB = o.DB
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.LogLevel
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout = o.Timeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (o *RootOptions) setup(cmd *cobra.Command) error {
	cfg, err := o.resolveConfig(cmd)
	if err != nil {
		return err
	}

	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))

	a, err := buildApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	o.app = a
	o.cli = New(iocli.New(cmd.InOrStdin(), cmd.OutOrStdout()), a.auth, a.manager)
	return nil
}

func (o *RootOptions) close() error {
	if o.app == nil {
		return nil
	}
	err := o.app.Close()
	o.app = nil
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
