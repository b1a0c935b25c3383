package service

import (
	"context"

	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock -exclude_interfaces=ItemServiceWrapper

// ItemService is the remote store as seen by the HTTP layer. Every call is
// scoped to a principal and a remote collection name.
type ItemService interface {
	// FetchAll returns every item of the collection, tombstones included.
	FetchAll(ctx context.Context, principal, collection string) ([]models.Item, error)

	// BatchWrite upserts the valid items of req. Invalid items are skipped
	// and counted in the response.
	BatchWrite(ctx context.Context, principal, collection string, req models.BatchWriteRequest) (models.BatchWriteResponse, error)

	// PushOne upserts a single item stored under id.
	PushOne(ctx context.Context, principal, collection, id string, item models.Item) error

	// DeleteOne tombstones an item.
	DeleteOne(ctx context.Context, principal, collection, id string) error

	// Subscribe returns a channel signalled after every write to the
	// collection, and a cancel function releasing it.
	Subscribe(ctx context.Context, principal, collection string) (<-chan struct{}, func(), error)
}

// ItemServiceWrapper defines middleware composition for ItemService.
// Implementations wrap an existing ItemService to add behavior such as
// validation.
type ItemServiceWrapper interface {
	Wrap(ItemService) ItemService // returns a decorated ItemService applying additional behavior
}

// AuthService issues and verifies the bearer tokens that scope requests to a
// principal.
type AuthService interface {
	CreateToken(ctx context.Context, principal string) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// AppInfoService exposes build information of the running server.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// Publisher fans out "collection changed" signals per principal.
type Publisher interface {
	Publish(principal, collection string)
	Subscribe(principal, collection string) (<-chan struct{}, func())
}
