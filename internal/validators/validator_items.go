package validators

import (
	"context"
	"fmt"

	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

const (
	FieldID   = "id"
	FieldKind = "kind"
	FieldBody = "body"

	FieldItems  = "items"
	FieldLength = "length"
)

type ItemValidator struct {
}

func NewItemValidator() Validator {
	return &ItemValidator{}
}

func (v *ItemValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Item:
		return v.validateItem(ctx, value, fields...)
	case *models.Item:
		return v.validateItem(ctx, *value, fields...)

	case models.BatchWriteRequest:
		return v.validateBatchWriteRequest(ctx, value, fields...)
	case *models.BatchWriteRequest:
		return v.validateBatchWriteRequest(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *ItemValidator) validateItem(_ context.Context, item models.Item, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldKind, FieldBody}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if item.ID == "" {
				return ErrInvalidItemID
			}
		case FieldKind:
			if !models.KnownKind(item.Kind) {
				return fmt.Errorf("%w: %q", ErrInvalidKind, item.Kind)
			}
		case FieldBody:
			if len(item.Body) == 0 {
				continue
			}
			if _, err := item.Entity(); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidBody, err)
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}

	return nil
}

// validateBatchWriteRequest checks the envelope only. Individual items are
// validated one by one so that a bad item never rejects the whole batch.
func (v *ItemValidator) validateBatchWriteRequest(_ context.Context, req models.BatchWriteRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldItems, FieldLength}
	}

	for _, f := range fields {
		switch f {
		case FieldItems:
			if len(req.Items) == 0 {
				return ErrEmptyBatch
			}
		case FieldLength:
			if req.Length != len(req.Items) {
				return fmt.Errorf("%w: length %d, items %d", ErrLengthMismatch, req.Length, len(req.Items))
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}

	return nil
}
