package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
)

const defaultDotEnvFile = ".env"

type configBuilder struct {
	configs []*StructuredConfig
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*StructuredConfig, 0, 4),
	}
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	config := new(StructuredConfig)
	for _, cfg := range b.configs {
		if err := mergo.Merge(config, cfg); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	return config, nil
}

// withDotEnv loads KEY=VALUE pairs into the process environment without
// overriding variables that are already set. Missing files are ignored.
func (b *configBuilder) withDotEnv(paths ...string) *configBuilder {
	if len(paths) == 0 {
		paths = []string{defaultDotEnvFile}
	}

	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			b.err = errors.Join(b.err, fmt.Errorf("error loading %s: %w", path, err))
		}
	}

	return b
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *configBuilder) withFlags(args []string) *configBuilder {
	flags, err := parseFlags(args)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, flags)
	return b
}

func (b *configBuilder) withJSON() *configBuilder {
	var jsonPath string

	// the first source that names a file wins, matching field precedence
	for _, cfg := range b.configs {
		if cfg.JSONFilePath != "" {
			jsonPath = cfg.JSONFilePath
			break
		}
	}

	if jsonPath == "" {
		return b
	}

	jsonCfg, err := parseJSON(jsonPath)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.configs = append(b.configs, jsonCfg)

	return b
}

func (b *configBuilder) withDefaults() *configBuilder {
	b.configs = append(b.configs, defaultConfig())
	return b
}

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:   "clearmind",
			TokenDuration: 24 * time.Hour,
		},
		Storage: Storage{
			Local: Local{DSN: "clearmind.db"},
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 30 * time.Second,
		},
		Adapter: Adapter{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 15 * time.Second,
			ReconnectDelay: time.Second,
		},
		Sync: Sync{
			BatchWidth:        4,
			NotifyThrottle:    time.Second,
			CollectionTimeout: 30 * time.Second,
		},
		Workers: Workers{
			SyncInterval: 5 * time.Minute,
		},
		Log: Log{
			Level: "debug",
		},
	}
}
