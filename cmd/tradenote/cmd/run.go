package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ldyuan/tradenote/bot"
	"github.com/ldyuan/tradenote/config"
	"github.com/ldyuan/tradenote/store"
	"github.com/ldyuan/tradenote/transport/console"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the bot loop from a config file",
	Long: `Start polling for messages and processing them until interrupted.

Without a chat client attached, messages are read line by line from stdin
using the form "partner: message"; replies are printed to stdout.

Example:
  tradenote run -f tradenote.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)

	timeout, _ := cfg.ParseConfirmTimeout()
	interval, _ := cfg.ParsePollInterval()

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	for _, partner := range cfg.Partners {
		if err := st.EnsureSchema(partner); err != nil {
			return fmt.Errorf("bootstrap schema for %s: %w", partner, err)
		}
		log.Info().Str("partner", partner).Msg("listening")
	}

	tr := console.New(os.Stdin, os.Stdout, cfg.Partners[0])
	b := bot.New(tr, st, interval, timeout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Dur("poll_interval", interval).
		Dur("confirm_timeout", timeout).
		Msg("bot started")

	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info().Msg("bot stopped")
	return nil
}
