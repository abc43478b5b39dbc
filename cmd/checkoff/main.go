package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/google/uuid"
	"github.com/hylla/checkoff/internal/adapters/storage/sqlite"
	"github.com/hylla/checkoff/internal/app"
	"github.com/hylla/checkoff/internal/config"
	"github.com/hylla/checkoff/internal/domain"
	"github.com/hylla/checkoff/internal/platform"
	"github.com/hylla/checkoff/internal/tui"
	"github.com/spf13/cobra"
)

// version is stamped at build time; "dev" enables dev-mode paths by default.
var version = "dev"

// program is the subset of tea.Program the launcher needs.
type program interface {
	Run() (tea.Model, error)
}

// programFactory builds the TUI program. Tests swap it for a fake.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		// fang has already rendered the error.
		os.Exit(1)
	}
}

// run builds the command tree and executes it against args.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	root := newRootCommand(&cliState{})
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return fang.Execute(ctx, root, fang.WithVersion(version))
}

// cliState holds persistent flag values shared by every command.
type cliState struct {
	configPath string
	dbPath     string
	appName    string
	devMode    bool
}

// newRootCommand wires the root command, its persistent flags and all subcommands.
func newRootCommand(state *cliState) *cobra.Command {
	root := &cobra.Command{
		Use:   "checkoff",
		Short: "A two-list to-do manager for the terminal",
		Long: `checkoff keeps an active task list and a completed history.

Run it without arguments to open the interactive board, or use the
subcommands below to script the same operations.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return state.runTUI(cmd)
		},
	}

	appName := platform.DefaultAppName
	if envApp := strings.TrimSpace(os.Getenv("CHECKOFF_APP_NAME")); envApp != "" {
		appName = envApp
	}
	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv("CHECKOFF_DEV_MODE"); ok {
		defaultDevMode = envDev
	}

	flags := root.PersistentFlags()
	flags.StringVar(&state.configPath, "config", "", "path to config TOML")
	flags.StringVar(&state.dbPath, "db", "", "path to sqlite database")
	flags.StringVar(&state.appName, "app", appName, "application name for config/data path resolution")
	flags.BoolVar(&state.devMode, "dev", defaultDevMode, "use dev mode paths (<app>-dev)")

	root.AddCommand(
		newAddCommand(state),
		newListCommand(state),
		newDoneCommand(state),
		newReopenCommand(state),
		newEditCommand(state),
		newRemoveCommand(state),
		newExportCommand(state),
		newImportCommand(state),
		newPathsCommand(state),
	)
	return root
}

// session is one opened store plus the resolved config and logger around it.
type session struct {
	configPath string
	defaults   config.Config
	cfg        config.Config
	logger     *runtimeLogger
	repo       *sqlite.Repository
	svc        *app.Service
}

// resolvePaths applies app/dev flags and the path env overrides.
func (s *cliState) resolvePaths() (platform.Paths, string, string, bool, error) {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: s.appName,
		DevMode: s.devMode,
	})
	if err != nil {
		return platform.Paths{}, "", "", false, err
	}

	configPath := strings.TrimSpace(s.configPath)
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("CHECKOFF_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	dbPath := strings.TrimSpace(s.dbPath)
	dbOverridden := dbPath != ""
	if !dbOverridden {
		if envPath := strings.TrimSpace(os.Getenv("CHECKOFF_DB_PATH")); envPath != "" {
			dbPath = envPath
			dbOverridden = true
		} else {
			dbPath = paths.DBPath
		}
	}
	return paths, configPath, dbPath, dbOverridden, nil
}

// open resolves config, starts the logger and loads the task store.
func (s *cliState) open(ctx context.Context, command string, stderr io.Writer, console bool) (*session, error) {
	paths, configPath, dbPath, dbOverridden, err := s.resolvePaths()
	if err != nil {
		return nil, err
	}

	defaults := config.Default(dbPath)
	cfg, err := config.Load(configPath, defaults)
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if dbOverridden {
		cfg.Database.Path = dbPath
	}

	logger, err := newRuntimeLogger(stderr, s.appName, s.devMode, paths.LogDir, cfg, time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	logger.SetConsoleEnabled(console)

	sess := &session{
		configPath: configPath,
		defaults:   defaults,
		cfg:        cfg,
		logger:     logger,
	}

	logger.Info("startup configuration resolved", "app", s.appName, "dev_mode", s.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "db_path", cfg.Database.Path)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	logger.Info("opening sqlite repository", "db_path", cfg.Database.Path)
	repo, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("sqlite open failed", "db_path", cfg.Database.Path, "err", err)
		sess.Close(stderr)
		return nil, fmt.Errorf("open sqlite repository: %w", err)
	}
	sess.repo = repo

	svc, err := app.OpenService(ctx, repo, uuid.NewString, nil)
	if err != nil {
		logger.Error("task store load failed", "db_path", cfg.Database.Path, "err", err)
		sess.Close(stderr)
		return nil, fmt.Errorf("load task store: %w", err)
	}
	sess.svc = svc
	snap := svc.Snapshot()
	logger.Debug("task store loaded", "active", len(snap.Tasks), "history", len(snap.History))
	return sess, nil
}

// Close releases the repository and the dev log file.
func (sess *session) Close(stderr io.Writer) {
	if sess == nil {
		return
	}
	if sess.repo != nil {
		if err := sess.repo.Close(); err != nil {
			sess.logger.Warn("sqlite close failed", "db_path", sess.cfg.Database.Path, "err", err)
		}
	}
	if err := sess.logger.Close(); err != nil && sess.logger.shouldLogToSink(sess.logger.consoleSink) {
		_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", err)
	}
}

// mutated records one successful task mutation.
func (sess *session) mutated(action string, task domain.Task) {
	sess.logger.Debug("task mutation", "action", action, "task_id", task.ID, "completed", task.Completed)
}

// withSession opens a session around one command flow and logs its outcome.
func (s *cliState) withSession(cmd *cobra.Command, command string, fn func(context.Context, *session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	sess, err := s.open(ctx, command, cmd.ErrOrStderr(), true)
	if err != nil {
		return err
	}
	defer sess.Close(cmd.ErrOrStderr())

	sess.logger.Info("command flow start", "command", command)
	if err := fn(ctx, sess); err != nil {
		sess.logger.Error("command flow failed", "command", command, "err", err)
		return err
	}
	sess.logger.Info("command flow complete", "command", command)
	return nil
}

// runTUI launches the interactive board.
func (s *cliState) runTUI(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	// Runtime logs stay in the dev-file sink while the board owns the terminal.
	sess, err := s.open(ctx, "tui", cmd.ErrOrStderr(), false)
	if err != nil {
		return err
	}
	defer sess.Close(cmd.ErrOrStderr())
	logger := sess.logger
	logger.Info("command flow start", "command", "tui")

	m := tui.NewModel(
		sess.svc,
		tui.WithRuntimeConfig(toTUIRuntimeConfig(sess.cfg)),
		tui.WithReloadConfigCallback(func() (tui.RuntimeConfig, error) {
			logger.Info("runtime config reload requested", "config_path", sess.configPath)
			reloaded, err := loadRuntimeConfig(sess.configPath, sess.defaults)
			if err != nil {
				logger.Error("runtime config reload failed", "config_path", sess.configPath, "err", err)
				return tui.RuntimeConfig{}, err
			}
			logger.Info("runtime config reload complete", "config_path", sess.configPath)
			return reloaded, nil
		}),
		tui.WithMutationCallback(sess.mutated),
	)
	logger.Info("starting tui program loop")
	if _, err := programFactory(m).Run(); err != nil {
		logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	logger.Info("command flow complete", "command", "tui")
	return nil
}

// parseBoolEnv reads a boolean env var; ok is false when unset or unparsable.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// loadRuntimeConfig re-reads the config file for a TUI reload.
func loadRuntimeConfig(configPath string, defaults config.Config) (tui.RuntimeConfig, error) {
	cfg, err := config.Load(configPath, defaults)
	if err != nil {
		return tui.RuntimeConfig{}, fmt.Errorf("load config %q: %w", configPath, err)
	}
	return toTUIRuntimeConfig(cfg), nil
}

// toTUIRuntimeConfig maps persisted config values into runtime model options.
func toTUIRuntimeConfig(cfg config.Config) tui.RuntimeConfig {
	return tui.RuntimeConfig{
		Confirm: tui.ConfirmConfig{
			DeleteActive:    cfg.Confirm.DeleteActive,
			DeleteCompleted: cfg.Confirm.DeleteCompleted,
		},
		UI: tui.UIConfig{
			ShowHistory:    cfg.UI.ShowHistory,
			ShowTimestamps: cfg.UI.ShowTimestamps,
		},
		Keys: tui.KeyConfig{
			Add:    cfg.Keys.Add,
			Edit:   cfg.Keys.Edit,
			Delete: cfg.Keys.Delete,
			Toggle: cfg.Keys.Toggle,
			Copy:   cfg.Keys.Copy,
		},
	}
}
