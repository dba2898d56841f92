package main

import (
	"context"
	"io"
	"time"

	"github.com/agentuity/resource-console/api"
	"github.com/agentuity/resource-console/config"
	"github.com/agentuity/resource-console/env"
	"github.com/agentuity/resource-console/internal/filter"
	"github.com/agentuity/resource-console/logger"
	"github.com/agentuity/resource-console/query"
	"github.com/agentuity/resource-console/resilience"
	"github.com/agentuity/resource-console/resource"
	"github.com/agentuity/resource-console/tui"
	"github.com/agentuity/resource-console/view"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

// streams are the process's standard streams, swapped out in tests.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

func newRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	s := &streams{in: in, out: out, err: errOut}
	root := &cobra.Command{
		Use:           "resource-console",
		Short:         "Browse and edit products, recipes, posts, comments and todos",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default "+config.DefaultPath()+")")
	flags.String("env-file", ".env", "dotenv file to read")
	flags.String("base-url", "", "remote API base URL")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error")
	flags.String("log-format", "", "log format: console or json")

	for _, kind := range resource.Kinds {
		root.AddCommand(newResourceCommand(s, kind))
	}
	root.AddCommand(
		newOpenCommand(s),
		newShellCommand(s),
		newPrefetchCommand(s),
		newConfigCommand(s),
	)
	return root
}

// loadConfig layers the command line flags over config.Load.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(config.Options{ConfigFile: configFile, EnvFile: envFile})
	if err != nil {
		return cfg, err
	}
	cfg.BaseURL = env.FlagOrEnv(cmd, "base-url", config.EnvBaseURL, cfg.BaseURL)
	cfg.LogLevel = env.FlagOrEnv(cmd, "log-level", logger.LevelEnv, cfg.LogLevel)
	cfg.LogFormat = env.FlagOrEnv(cmd, "log-format", config.EnvLogFormat, cfg.LogFormat)
	return cfg, cfg.Validate()
}

// session is everything one command needs to drive the views.
type session struct {
	cfg    config.Config
	logger logger.Logger
	store  *query.Store
	app    *view.App
}

type sessionOptions struct {
	assumeYes bool
	where     string
}

func newSession(ctx context.Context, cmd *cobra.Command, s *streams, opts sessionOptions) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.LogFormat, cfg.Level())

	breakerConfig := resilience.DefaultBreakerConfig()
	breakerConfig.Counts = api.BreakerCounts
	client, err := api.New(log, cfg.BaseURL,
		api.WithRetry(cfg.Retry),
		api.WithCircuitBreaker(resilience.NewBreaker(breakerConfig)),
	)
	if err != nil {
		return nil, err
	}

	f, err := filter.Compile(opts.where)
	if err != nil {
		return nil, err
	}

	store := query.New(ctx,
		query.WithStaleTime(time.Duration(cfg.StaleTime)),
		query.WithGCTime(time.Duration(cfg.GCTime)),
		query.WithLogger(log),
	)

	interactive := tui.HasTTY && !opts.assumeYes
	var prompter view.Prompter = tui.NewLinePrompter(s.in, s.out, opts.assumeYes)
	appOpts := []view.AppOption{view.WithFilter(f)}
	if interactive {
		prompter = tui.NewHuhPrompter(s.out)
		appOpts = append(appOpts, view.WithWidth(tui.Width()), view.WithLoader(spinnerLoader))
	} else {
		appOpts = append(appOpts, view.WithWidth(tui.DefaultWidth))
	}

	app := view.New(store, resource.NewClients(client), prompter, log, appOpts...)
	log.Debug("session ready for %s", cfg.BaseURL)
	return &session{cfg: cfg, logger: log, store: store, app: app}, nil
}

func (s *session) Close() {
	s.app.Close()
	s.store.Close()
}

// spinnerLoader shows a spinner while a page loads.
func spinnerLoader(ctx context.Context, title string, load func(context.Context) error) error {
	var err error
	if serr := tui.ShowSpinner(ctx, "Loading "+title+"...", func() {
		err = load(ctx)
	}); serr != nil && err == nil {
		err = serr
	}
	return err
}

func newConfigCommand(s *streams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = config.DefaultPath()
			}
			if err := config.Save(path, cfg, force); err != nil {
				if errors.Is(err, config.ErrConfigExists) {
					return errors.WithHint(err, "use --force to overwrite it")
				}
				return err
			}
			tui.ShowSuccess(s.out, "Wrote %s", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}
