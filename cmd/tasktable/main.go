package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tasktable/internal/config"
	"tasktable/internal/logging"
	"tasktable/internal/render"
	"tasktable/internal/storage"
	"tasktable/internal/task"
	"tasktable/internal/ui"
)

func main() {
	slog.SetDefault(logging.New(os.Stderr, "info"))
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "tasktable",
		Short:         "Track tasks with deadlines and priorities in the terminal.",
		Long:          `tasktable shows a list of tasks with done checkboxes, categories, deadlines, priorities and the days left until each deadline. Tasks live in memory for the length of the session.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(configPath)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.ResolveConfigPath(), "Path to the TOML config file.")
	rootCmd.AddCommand(newListCmd(&configPath))
	return rootCmd
}

func newListCmd(configPath *string) *cobra.Command {
	var (
		format string
		nowStr string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the seeded task list with days left.",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := render.ParseFormat(format)
			if err != nil {
				slog.Error("invalid format", "error", err)
				return err
			}
			cfg, loc, err := loadConfig(*configPath)
			if err != nil {
				slog.Error("failed to load config", "error", err, "path", *configPath)
				return err
			}
			log := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
			now, err := parseNow(nowStr, loc)
			if err != nil {
				log.Error("invalid --now", "error", err)
				return err
			}
			store, err := openStore(cfg, loc, log)
			if err != nil {
				log.Error("failed to seed tasks", "error", err)
				return err
			}
			return render.Write(cmd.OutOrStdout(), f, store.Tasks(), now)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json or yaml.")
	cmd.Flags().StringVar(&nowStr, "now", "", "Reference time for days left (RFC3339 or YYYY-MM-DD); defaults to the current time.")
	return cmd
}

func runTUI(configPath string) error {
	cfg, loc, err := loadConfig(configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err, "path", configPath)
		return err
	}
	log, closeLog, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		slog.Error("failed to open log file", "error", err, "path", cfg.LogFile)
		return err
	}
	defer closeLog()

	store, err := openStore(cfg, loc, log)
	if err != nil {
		slog.Error("failed to seed tasks", "error", err)
		return err
	}
	log.Info("starting", "tasks", store.Len(), "timezone", loc.String())
	if err := ui.Run(store, cfg, loc, log); err != nil {
		slog.Error("error running program", "error", err)
		return err
	}
	return nil
}

func loadConfig(path string) (config.Config, *time.Location, error) {
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return cfg, nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return cfg, nil, err
	}
	return cfg, loc, nil
}

func openStore(cfg config.Config, loc *time.Location, log *slog.Logger) (*storage.Store, error) {
	seed, err := cfg.SeedTasks(loc)
	if err != nil {
		return nil, err
	}
	return storage.New(seed, log), nil
}

func parseNow(v string, loc *time.Location) (time.Time, error) {
	if v == "" {
		return time.Now().In(loc), nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.In(loc), nil
	}
	t, err := time.ParseInLocation(task.InputLayout, v, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: want RFC3339 or YYYY-MM-DD", v)
	}
	return t, nil
}
