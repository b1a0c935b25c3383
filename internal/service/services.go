package service

import (
	"fmt"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/broker"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/collection"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/config"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/logger"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/store"
)

// Services groups the server-side services.
type Services struct {
	AuthService    AuthService
	ItemService    ItemService
	AppInfoService AppInfoService
}

// NewServices wires the item service behind its validation wrapper. Every
// write is published on a single in-process hub shared by all subscribers.
func NewServices(storages *store.Storages, mapper *collection.Mapper, cfg config.ServerApp, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("app info service: %w", err)
	}

	items := NewItemService(storages.ItemRepository, mapper, broker.NewHub(), logger)

	return &Services{
		AuthService:    NewAuthService(cfg, logger),
		ItemService:    NewItemValidationService(mapper).Wrap(items),
		AppInfoService: appInfo,
	}, nil
}
