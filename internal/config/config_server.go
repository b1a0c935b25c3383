package config

import (
	"fmt"
	"time"
)

// ServerApp holds token settings used by the remote store server.
type ServerApp struct {
	TokenSignKey  string
	TokenIssuer   string
	TokenDuration time.Duration
	Version       string
	IssueTokenFor string
}

// ServerConfig is the server view of [StructuredConfig].
type ServerConfig struct {
	App     ServerApp
	Storage DB
	Server  Server
	Log     Log
}

// GetServerConfig builds and validates the server view from the merged
// structured configuration.
func GetServerConfig(args []string) (*ServerConfig, error) {
	cfg, err := GetStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := NewServerConfig(cfg)
	return serverCfg, serverCfg.validate()
}

// NewServerConfig projects cfg onto the fields the server needs.
func NewServerConfig(cfg *StructuredConfig) *ServerConfig {
	return &ServerConfig{
		App: ServerApp{
			TokenSignKey:  cfg.App.TokenSignKey,
			TokenIssuer:   cfg.App.TokenIssuer,
			TokenDuration: cfg.App.TokenDuration,
			Version:       cfg.App.Version,
			IssueTokenFor: cfg.App.IssueTokenFor,
		},
		Storage: cfg.Storage.DB,
		Server:  cfg.Server,
		Log:     cfg.Log,
	}
}
