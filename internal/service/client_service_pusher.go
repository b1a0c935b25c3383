package service

import (
	"context"
	"fmt"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/adapter"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/collection"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/logger"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/store"
	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

// ChangePusher forwards caller-originated local writes to the remote store.
type ChangePusher struct {
	remote adapter.RemoteStore
	mapper *collection.Mapper
}

// NewChangePusher builds a pusher over remote.
func NewChangePusher(remote adapter.RemoteStore, mapper *collection.Mapper) *ChangePusher {
	return &ChangePusher{remote: remote, mapper: mapper}
}

// Hook returns the pusher as a store.ChangeHook.
func (p *ChangePusher) Hook() store.ChangeHook {
	return p.Push
}

// Push sends one local change upstream. The local write has already
// succeeded; a failure here is caught up by the next full sync.
func (p *ChangePusher) Push(ctx context.Context, change models.LocalChange) error {
	remote, err := p.mapper.ToRemote(change.Collection)
	if err != nil {
		return err
	}

	if current := p.remote.Principal(); change.Principal != current {
		return fmt.Errorf("%w: change of %q while signed in as %q", ErrPrincipalChanged, change.Principal, current)
	}

	switch change.Op {
	case models.OpPut:
		err = p.remote.PushOne(ctx, remote, change.Item)
	case models.OpDelete:
		// The tombstone carries the local deletedAt, so the remote orders it
		// against newer edits like any other write.
		if !change.Item.Deleted {
			return fmt.Errorf("delete of %s carries a live item", change.Item.ID)
		}
		err = p.remote.PushOne(ctx, remote, change.Item)
	default:
		return fmt.Errorf("unsupported change op %s", change.Op)
	}

	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "ChangePusher.Push").
			Str("collection", change.Collection).
			Str("op", change.Op.String()).
			Str("id", change.Item.ID).
			Msg("push of local change failed")
		return fmt.Errorf("push %s %s: %w", change.Op, change.Item.ID, err)
	}

	return nil
}
