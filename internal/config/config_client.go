package config

import (
	"fmt"
	"time"
)

// ClientApp holds the credentials and version used by the sync client.
type ClientApp struct {
	// Token is the bearer token scoping remote calls to a principal.
	Token string
	// Version is the client build version.
	Version string
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the remote store endpoint.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
	// ReconnectDelay is the initial subscription reconnect backoff.
	ReconnectDelay time.Duration
}

// ClientStorage holds the local replica settings.
type ClientStorage struct {
	// DSN is the SQLite connection string.
	DSN string
}

// ClientSync holds orchestrator and reconciler tuning.
type ClientSync struct {
	BatchWidth        int
	NotifyThrottle    time.Duration
	CollectionTimeout time.Duration
	Collections       []string
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// SyncInterval defines how often the background full sync runs.
	SyncInterval time.Duration
	// SyncOnce runs a single full sync and exits.
	SyncOnce bool
}

// ClientConfig is the client view of [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Sync    ClientSync
	Workers ClientWorkers
	Log     Log
}

// GetClientConfig builds and validates the client view from the merged
// structured configuration. args are the command-line arguments without the
// program name.
func GetClientConfig(args []string) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := NewClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

// NewClientConfig projects cfg onto the fields the client needs.
func NewClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			Token:   cfg.App.Token,
			Version: cfg.App.Version,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			ReconnectDelay: cfg.Adapter.ReconnectDelay,
		},
		Storage: ClientStorage{
			DSN: cfg.Storage.Local.DSN,
		},
		Sync: ClientSync{
			BatchWidth:        cfg.Sync.BatchWidth,
			NotifyThrottle:    cfg.Sync.NotifyThrottle,
			CollectionTimeout: cfg.Sync.CollectionTimeout,
			Collections:       cfg.Sync.Collections,
		},
		Workers: ClientWorkers{
			SyncInterval: cfg.Workers.SyncInterval,
			SyncOnce:     cfg.Workers.SyncOnce,
		},
		Log: cfg.Log,
	}
}
