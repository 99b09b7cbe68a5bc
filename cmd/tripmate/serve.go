package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpadapter "github.com/PabloGalante/tripmate/internal/adapters/http"
	"github.com/PabloGalante/tripmate/internal/observability"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Serves the chat API with JSON and server-sent-event endpoints.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags, port)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "port to listen on (default from config)")
	return cmd
}

func runServe(cmd *cobra.Command, flags *globalFlags, port string) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if port != "" {
		cfg.Port = port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := buildService(ctx, cfg, os.Stdout)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpadapter.NewServer(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown on signal.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	observability.Logger().Info("tripmate API listening", "port", cfg.Port, "mode", cfg.Mode)
	fmt.Fprintf(cmd.OutOrStdout(), "Tripmate API running at http://localhost:%s\n", cfg.Port)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
