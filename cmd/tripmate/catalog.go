package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/PabloGalante/tripmate/internal/app/catalog"
	"github.com/PabloGalante/tripmate/internal/domain"
)

func newCatalogCmd() *cobra.Command {
	var style string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show the travel options and quick questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := domain.DefaultTravelConfig()
			if style != "" {
				s, err := domain.ParseTravelStyle(style)
				if err != nil {
					return err
				}
				cfg.Style = s
			}

			out := cmd.OutOrStdout()
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(catalog.TravelOptions()); err != nil {
				return fmt.Errorf("failed to encode options: %w", err)
			}
			if err := enc.Close(); err != nil {
				return err
			}

			fmt.Fprintln(out, "\nquick_questions:")
			for _, q := range catalog.QuickQuestions(cfg) {
				fmt.Fprintf(out, "  [%d] %s: %s\n", q.Index, q.Label, q.Text)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&style, "style", "", "render quick questions for this style")
	return cmd
}

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert AMOUNT FROM TO",
		Short: "Convert an amount between currencies",
		Long:  "Converts using a fixed rate table. Supported: " + strings.Join(catalog.Currencies(), ", "),
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}
			conv, err := catalog.Convert(amount, args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (rate %.4f)\n",
				catalog.FormatMoney(conv.Amount, conv.From), conv.Formatted, conv.Rate)
			return nil
		},
	}
}
