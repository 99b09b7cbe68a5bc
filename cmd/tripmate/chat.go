package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/tripmate/internal/adapters/terminal"
	"github.com/PabloGalante/tripmate/internal/domain"
)

type chatFlags struct {
	style      string
	budget     int
	days       int
	companions int
	exportDir  string
}

func newChatCmd(flags *globalFlags) *cobra.Command {
	var cf chatFlags

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Plan a trip interactively in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, flags, cf)
		},
	}

	cmd.Flags().StringVar(&cf.style, "style", "", "travel style (beach, city, nature, culture, food, adventure)")
	cmd.Flags().IntVar(&cf.budget, "budget", 0, "budget per person in USD")
	cmd.Flags().IntVar(&cf.days, "days", 0, "trip duration in days")
	cmd.Flags().IntVar(&cf.companions, "companions", -1, "number of companions")
	cmd.Flags().StringVar(&cf.exportDir, "export-dir", ".", "directory for /export files")
	return cmd
}

func runChat(cmd *cobra.Command, flags *globalFlags, cf chatFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if !flags.verbose {
		// Keep the conversation readable.
		cfg.LogLevel = "warn"
	}

	trip, err := applyChatFlags(cfg.Trip.TravelConfig(), cf)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	svc, err := buildService(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	repl := terminal.NewREPL(svc, cmd.InOrStdin(), cmd.OutOrStdout(), terminal.WithExportDir(cf.exportDir))
	return repl.Run(ctx, trip)
}

// applyChatFlags overrides the configured trip with any flags that were set.
func applyChatFlags(trip domain.TravelConfig, cf chatFlags) (domain.TravelConfig, error) {
	if cf.style != "" {
		style, err := domain.ParseTravelStyle(cf.style)
		if err != nil {
			return trip, err
		}
		trip.Style = style
	}
	if cf.budget > 0 {
		trip.BudgetPerPerson = cf.budget
	}
	if cf.days > 0 {
		trip.Days = cf.days
	}
	if cf.companions >= 0 {
		trip.Companions = cf.companions
	}
	return trip, trip.Validate()
}
