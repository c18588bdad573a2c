// Package providers contains dependency injection providers for cardctl.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/cardmakerapp/cardmaker-go/internal/cardmaker"
	"github.com/cardmakerapp/cardmaker-go/internal/config"
	"github.com/cardmakerapp/cardmaker-go/internal/logger"
	"github.com/cardmakerapp/cardmaker-go/internal/session"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Format:      cfg.Logger.Format,
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Debug("starting cardctl",
		"environment", cfg.App.Environment,
		"endpoint", cfg.API.Endpoint,
		"session_path", cfg.Session.Path,
	)

	return log, nil
}

// SessionStoreHandle wraps the session store with shutdown capability.
type SessionStoreHandle struct {
	*session.Store
}

// Shutdown implements do.Shutdownable.
func (h *SessionStoreHandle) Shutdown() error {
	return h.Store.Close()
}

// ProvideSessionStore provides the durable session store.
func ProvideSessionStore(i do.Injector) (*SessionStoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	store, err := session.Open(cfg.Session.Path, log.Logger)
	if err != nil {
		return nil, err
	}
	return &SessionStoreHandle{Store: store}, nil
}

// ClientHandle wraps the API client with shutdown capability.
type ClientHandle struct {
	*cardmaker.Client
}

// Shutdown implements do.Shutdownable.
func (h *ClientHandle) Shutdown() error {
	h.Client.Close()
	return nil
}

// ProvideClient provides the CardMaker API client.
func ProvideClient(i do.Injector) (*ClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*SessionStoreHandle](i)

	opts := []cardmaker.Option{
		cardmaker.WithLogger(log.Logger),
		cardmaker.WithSessionStore(storeHandle.Store),
		cardmaker.WithHTTPClient(cfg.API.HTTPClient()),
	}
	if cfg.API.RateLimit > 0 {
		opts = append(opts, cardmaker.WithRateLimit(cfg.API.RateLimit, cfg.API.RateBurst))
	}
	if cfg.API.PropagateReads {
		opts = append(opts, cardmaker.WithPropagatingReads())
	}

	client, err := cardmaker.New(cfg.API.Endpoint, opts...)
	if err != nil {
		return nil, err
	}

	log.Debug("cardmaker client initialized", "endpoint", cfg.API.Endpoint)
	return &ClientHandle{Client: client}, nil
}
