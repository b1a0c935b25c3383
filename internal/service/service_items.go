package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/collection"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/logger"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/store"
	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

type itemService struct {
	itemRepository store.ItemRepository
	mapper         *collection.Mapper
	publisher      Publisher
	now            func() time.Time

	logger *logger.Logger
}

func NewItemService(itemRepository store.ItemRepository, mapper *collection.Mapper, publisher Publisher, logger *logger.Logger) ItemService {
	return &itemService{
		itemRepository: itemRepository,
		mapper:         mapper,
		publisher:      publisher,
		now:            time.Now,
		logger:         logger,
	}
}

func (s *itemService) FetchAll(ctx context.Context, principal, collection string) ([]models.Item, error) {
	return s.itemRepository.GetAll(ctx, principal, collection)
}

// BatchWrite stores every item of req that decodes, validates and matches
// the collection's kind. When the same id appears more than once only the
// copy with the newest effective timestamp is kept; the later copy wins a tie.
func (s *itemService) BatchWrite(ctx context.Context, principal, collection string, req models.BatchWriteRequest) (models.BatchWriteResponse, error) {
	log := logger.FromContext(ctx).With().
		Str("func", "itemService.BatchWrite").
		Str("collection", collection).
		Logger()

	items, rejected := models.DecodeItems(req.Items)
	for _, r := range rejected {
		log.Warn().Err(r.Err).Int("index", r.Index).Str("id", r.ID).Msg("skipping invalid item")
	}

	def, _ := s.mapper.LookupRemote(collection)

	kept := make([]models.Item, 0, len(items))
	position := make(map[string]int, len(items))
	for _, item := range items {
		if def.Kind != "" && item.Kind != def.Kind {
			log.Warn().Str("id", item.ID).Str("kind", string(item.Kind)).Msg("skipping item of foreign kind")
			rejected = append(rejected, models.ItemRejection{ID: item.ID, Err: models.ErrUnknownKind})
			continue
		}

		if idx, dup := position[item.ID]; dup {
			if item.EffectiveMillis() >= kept[idx].EffectiveMillis() {
				kept[idx] = item
			}
			continue
		}
		position[item.ID] = len(kept)
		kept = append(kept, item)
	}

	resp := models.BatchWriteResponse{
		Written: len(kept),
		Skipped: len(req.Items) - len(kept),
	}
	if len(kept) == 0 {
		return resp, nil
	}

	if err := s.itemRepository.Upsert(ctx, principal, collection, kept...); err != nil {
		log.Err(err).Int("items", len(kept)).Msg("batch upsert failed")
		return models.BatchWriteResponse{}, fmt.Errorf("batch write: %w", err)
	}

	s.publisher.Publish(principal, collection)
	return resp, nil
}

func (s *itemService) PushOne(ctx context.Context, principal, collection, _ string, item models.Item) error {
	if err := s.itemRepository.Upsert(ctx, principal, collection, item); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "itemService.PushOne").Str("id", item.ID).Msg("upsert failed")
		return fmt.Errorf("push item: %w", err)
	}

	s.publisher.Publish(principal, collection)
	return nil
}

func (s *itemService) DeleteOne(ctx context.Context, principal, collection, id string) error {
	if _, err := s.itemRepository.SoftDelete(ctx, principal, collection, id, s.now()); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	s.publisher.Publish(principal, collection)
	return nil
}

func (s *itemService) Subscribe(_ context.Context, principal, collection string) (<-chan struct{}, func(), error) {
	ch, cancel := s.publisher.Subscribe(principal, collection)
	return ch, cancel, nil
}
