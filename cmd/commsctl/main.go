package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unclebandit/fellowship-comms/cmd/commsctl/commands"
	"github.com/unclebandit/fellowship-comms/internal/apiclient"
	"github.com/unclebandit/fellowship-comms/internal/config"
	"github.com/unclebandit/fellowship-comms/internal/logging"
	"github.com/unclebandit/fellowship-comms/internal/service"
)

var (
	envFile string
	app     = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "commsctl",
		Short:         "Fellowship communications CLI",
		Long:          `Inspect members, price and submit SMS communications against a remote campaign store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Additional .env file to load")

	rootCmd.AddCommand(commands.MembersCmd(app))
	rootCmd.AddCommand(commands.StatsCmd(app))
	rootCmd.AddCommand(commands.EstimateCmd(app))
	rootCmd.AddCommand(commands.PreviewCmd(app))
	rootCmd.AddCommand(commands.SubmitCmd(app))
	rootCmd.AddCommand(commands.TestSMSCmd(app))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// initApp loads config and wires the API client into the campaign service.
func initApp() error {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.InitLogger(cfg.Env+"-cli", cfg.LogDir)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if !cfg.Features.SMS {
		logger.Warn("FEATURE_SMS is disabled, the remote store may reject communication calls")
	}

	client, err := apiclient.New(cfg.APIBaseURL, cfg.APIToken, logger)
	if err != nil {
		return err
	}
	logger.Debug("api client ready", zap.String("base_url", cfg.APIBaseURL))

	app.Ctx = context.Background()
	app.Cfg = cfg
	app.Logger = logger
	app.Client = client
	app.Campaigns = &service.CampaignService{
		Store:     client,
		Members:   client,
		Links:     service.Links{Ballot: cfg.BallotLink, Register: cfg.RegisterLink},
		UnitPrice: cfg.SMSUnitPrice,
		Logger:    logger,
	}
	return nil
}
