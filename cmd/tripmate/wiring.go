package main

import (
	"context"
	"fmt"
	"io"

	"github.com/PabloGalante/tripmate/internal/adapters/llm"
	memstore "github.com/PabloGalante/tripmate/internal/adapters/storage/memory"
	"github.com/PabloGalante/tripmate/internal/app/conversation"
	"github.com/PabloGalante/tripmate/internal/config"
	"github.com/PabloGalante/tripmate/internal/domain"
	"github.com/PabloGalante/tripmate/internal/observability"
)

// loadConfig reads the config file and environment, then applies flag overrides.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyOverrides(flags.provider, flags.model); err != nil {
		return nil, err
	}
	if flags.verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// buildService wires provider, session store and conversation service.
func buildService(ctx context.Context, cfg *config.Config, logOut io.Writer) (*conversation.Service, error) {
	log := observability.Setup(logOut, cfg.LogFormat, cfg.LogLevel)

	provider, err := llm.New(ctx, llm.Config{
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		BaseURL:     cfg.BaseURL,
		GCPProject:  cfg.GCPProjectID,
		GCPLocation: cfg.GCPLocation,
	})
	if err != nil {
		return nil, fmt.Errorf("error initializing %s provider: %w", cfg.Provider, err)
	}
	log.Info("completion provider ready", "provider", provider.Name(), "model", cfg.Model)

	store := memstore.NewSessionStore[*conversation.Session](cfg.SessionTTL)
	store.OnEvicted(func(id domain.SessionID, _ *conversation.Session) {
		log.Info("session expired", "session_id", id)
	})
	log.Info("using in-memory session store", "ttl", cfg.SessionTTL.String())

	if !cfg.Configured() {
		log.Warn("no provider credential configured; turns will be rejected until one is supplied")
	}

	return conversation.NewService(provider, store, conversation.Settings{
		Credential:  cfg.APIKey,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
	}), nil
}
