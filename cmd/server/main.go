package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/janisto/kyc-compliance/internal/platform/config"
	applog "github.com/janisto/kyc-compliance/internal/platform/logging"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

func newRootCommand() *cobra.Command {
	var envFile string
	var cfg config.Config

	root := &cobra.Command{
		Use:           "kyc",
		Short:         "KYC profile compliance service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var files []string
			if envFile != "" {
				files = append(files, envFile)
			}
			loaded, err := config.Load(files...)
			if err != nil {
				return err
			}
			if !applog.SetLevel(loaded.LogLevel) {
				applog.LogWarn(cmd.Context(), "unknown log level, keeping info")
			}
			cfg = loaded
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load before the environment (default .env)")

	serve := serverCommand(&cfg)
	root.AddCommand(serve)
	root.AddCommand(migrateCommand(&cfg))

	// Running without a subcommand starts the server.
	root.RunE = serve.RunE
	return root
}

func main() {
	defer func() {
		if err := applog.Sync(); err != nil {
			applog.LogError(context.Background(), "logger sync error", err)
		}
	}()
	if err := applog.Err(); err != nil {
		applog.LogError(context.Background(), "logger init error", err)
	}

	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		applog.LogError(context.Background(), "command failed", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
