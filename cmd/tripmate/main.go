package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	provider   string
	model      string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:          "tripmate",
		Short:        "Travel-planning chat assistant",
		Long:         "Tripmate plans trips through a chat with an LLM, tuned by travel style, budget, duration and party size.",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to tripmate.yaml (default: ./tripmate.yaml if present)")
	cmd.PersistentFlags().StringVar(&flags.provider, "provider", "", "completion provider: openai, gemini, anthropic or mock")
	cmd.PersistentFlags().StringVar(&flags.model, "model", "", "model name override")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newChatCmd(flags))
	cmd.AddCommand(newCatalogCmd())
	cmd.AddCommand(newConvertCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tripmate %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	// A missing .env is fine; real deployments use the environment directly.
	_ = godotenv.Load()

	os.Exit(execute(newRootCmd()))
}
