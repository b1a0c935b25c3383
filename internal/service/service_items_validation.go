package service

import (
	"context"
	"fmt"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/collection"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/validators"
	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

// ItemValidationService rejects requests without a principal, for a
// collection outside the mapping, or with malformed payloads before they
// reach the wrapped ItemService.
type ItemValidationService struct {
	inner     ItemService
	validator validators.Validator
	mapper    *collection.Mapper
}

func NewItemValidationService(mapper *collection.Mapper) ItemServiceWrapper {
	return &ItemValidationService{
		validator: validators.NewItemValidator(),
		mapper:    mapper,
	}
}

func (v *ItemValidationService) FetchAll(ctx context.Context, principal, collection string) ([]models.Item, error) {
	if _, err := v.scope(principal, collection); err != nil {
		return nil, err
	}

	return v.inner.FetchAll(ctx, principal, collection)
}

func (v *ItemValidationService) BatchWrite(ctx context.Context, principal, collection string, req models.BatchWriteRequest) (models.BatchWriteResponse, error) {
	if _, err := v.scope(principal, collection); err != nil {
		return models.BatchWriteResponse{}, err
	}

	// items themselves are checked one by one further down
	if err := v.validator.Validate(ctx, req); err != nil {
		return models.BatchWriteResponse{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return v.inner.BatchWrite(ctx, principal, collection, req)
}

func (v *ItemValidationService) PushOne(ctx context.Context, principal, collection, id string, item models.Item) error {
	def, err := v.scope(principal, collection)
	if err != nil {
		return err
	}

	if item.ID != id {
		return fmt.Errorf("%w: path %q, body %q", ErrIDMismatch, id, item.ID)
	}
	if err = v.validator.Validate(ctx, item); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	if item.Kind != def.Kind {
		return fmt.Errorf("%w: collection %q stores %q, got %q", ErrInvalidDataProvided, collection, def.Kind, item.Kind)
	}

	return v.inner.PushOne(ctx, principal, collection, id, item)
}

func (v *ItemValidationService) DeleteOne(ctx context.Context, principal, collection, id string) error {
	if _, err := v.scope(principal, collection); err != nil {
		return err
	}
	if err := v.validator.Validate(ctx, models.Item{ID: id}, validators.FieldID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return v.inner.DeleteOne(ctx, principal, collection, id)
}

func (v *ItemValidationService) Subscribe(ctx context.Context, principal, collection string) (<-chan struct{}, func(), error) {
	if _, err := v.scope(principal, collection); err != nil {
		return nil, nil, err
	}

	return v.inner.Subscribe(ctx, principal, collection)
}

func (v *ItemValidationService) Wrap(inner ItemService) ItemService {
	v.inner = inner
	return v
}

func (v *ItemValidationService) scope(principal, name string) (collection.Definition, error) {
	if principal == "" {
		return collection.Definition{}, ErrValidationNoPrincipal
	}

	def, ok := v.mapper.LookupRemote(name)
	if !ok {
		return def, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}

	return def, nil
}
