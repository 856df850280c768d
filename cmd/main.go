// Command yourplaces runs the places API and its maintenance tasks.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"yourplaces/internal/config"
	"yourplaces/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const defaultConfigPath = "config.yml"

// configPath picks --config/-c out of args. Subcommands are built from the
// loaded config, so the path is needed before cobra parses anything.
func configPath(args []string) string {
	fs := pflag.NewFlagSet("yourplaces", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	fs.SetOutput(discard{})
	path := fs.StringP("config", "c", defaultConfigPath, "")

	if err := fs.Parse(args); err != nil && !errors.Is(err, pflag.ErrHelp) {
		return defaultConfigPath
	}

	return *path
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func rootCommand(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "yourplaces",
		Short:         "Share places with an address, a picture and a description",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", defaultConfigPath, "config file path")

	root.AddCommand(
		serveCommand(cfg),
		migrateCommand(cfg),
		userCommand(cfg),
		sweepCommand(cfg),
		JWTCommand(cfg),
	)

	return root
}

func main() {
	path := configPath(os.Args[1:])
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("could not load config %s: %v", path, err)
	}
	if err := logger.Setup(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("could not setup logger: %v", err)
	}

	ctx := context.Background()
	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "panic", zap.Any("panic", p))
			logger.Sync()

			panic(p)
		}
	}()

	err = rootCommand(cfg).ExecuteContext(ctx)
	if err != nil {
		logger.Error(ctx, "command failed", zap.Error(err))
		_, _ = fmt.Fprintln(os.Stderr, err)
	}
	logger.Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
