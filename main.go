package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/morphogen/config"
)

// app holds state shared by every subcommand.
type app struct {
	configPath string
	seed       int64
	verbose    bool

	cfg *config.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "morphogen",
		Short:         "grow creature bodies from genomes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config.yaml (empty = use defaults)")
	rootCmd.PersistentFlags().Int64Var(&a.seed, "seed", 0, "RNG seed (0 = time-based)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		a.randomCmd(),
		a.inspectCmd(),
		a.urdfCmd(),
		a.mutateCmd(),
		a.crossoverCmd(),
		a.motorsCmd(),
		a.surveyCmd(),
	)
	return rootCmd
}

// init loads the configuration and sets up logging. Command output goes to
// stdout, so logs are JSON on stderr.
func (a *app) init(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.seed == 0 {
		a.seed = time.Now().UnixNano()
	}
	slog.Debug("configured", "config", a.configPath, "seed", a.seed)
	return nil
}
