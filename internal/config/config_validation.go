// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"strings"

	"github.com/rs/zerolog"
)

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DSN == "" || strings.Contains(cfg.Storage.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 || cfg.Adapter.ReconnectDelay <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Sync.BatchWidth < 1 || cfg.Sync.NotifyThrottle < 0 || cfg.Sync.CollectionTimeout <= 0 {
		return ErrInvalidSyncConfigs
	}

	if cfg.Workers.SyncInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return validateLog(cfg.Log)
}

func (cfg *ServerConfig) validate() error {
	if cfg.Storage.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.App.TokenSignKey == "" || cfg.App.TokenDuration <= 0 {
		return ErrInvalidAppConfigs
	}

	return validateLog(cfg.Log)
}

func validateLog(cfg Log) error {
	if cfg.Level == "" {
		return nil
	}
	if _, err := zerolog.ParseLevel(cfg.Level); err != nil {
		return ErrInvalidLogConfigs
	}
	return nil
}
