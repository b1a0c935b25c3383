package http

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/logger"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/utils"
	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

// snapshotWriteTimeout bounds a single snapshot frame write.
const snapshotWriteTimeout = 10 * time.Second

// subscribe upgrades the request to a websocket and streams the full
// collection snapshot once on connect and again after every change.
//
// The service subscription is taken before the upgrade so that unknown
// collections and missing principals are answered with a plain HTTP status.
func (h *Handler) subscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	collection := chi.URLParam(r, collectionParam)

	principal, ok := utils.GetPrincipalFromContext(ctx)
	if !ok {
		log.Error().Str("func", "*Handler.subscribe").Msg("no principal was given")
		utils.WriteError(w, ErrNoPrincipalInContext.Error(), http.StatusUnauthorized)
		return
	}

	signals, cancel, err := h.services.ItemService.Subscribe(ctx, principal, collection)
	if err != nil {
		log.Err(err).Str("func", "*Handler.subscribe").Str("collection", collection).Msg("error subscribing")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}
	defer cancel()

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Err(err).Str("func", "*Handler.subscribe").Msg("websocket upgrade failed")
		return
	}
	defer conn.CloseNow()

	// clients never send; CloseRead handles control frames and cancels on close
	ctx = conn.CloseRead(ctx)

	log.Info().Str("collection", collection).Msg("subscriber connected")

	if err = h.sendSnapshot(ctx, conn, principal, collection); err != nil {
		log.Warn().Err(err).Str("collection", collection).Msg("initial snapshot failed")
		return
	}

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("collection", collection).Msg("subscriber disconnected")
			return
		case _, open := <-signals:
			if !open {
				_ = conn.Close(websocket.StatusGoingAway, "subscription closed")
				return
			}
			if err = h.sendSnapshot(ctx, conn, principal, collection); err != nil {
				log.Warn().Err(err).Str("collection", collection).Msg("snapshot delivery failed")
				return
			}
		}
	}
}

func (h *Handler) sendSnapshot(ctx context.Context, conn *websocket.Conn, principal, collection string) error {
	items, err := h.services.ItemService.FetchAll(ctx, principal, collection)
	if err != nil {
		return err
	}

	raws, err := models.EncodeItems(items)
	if err != nil {
		return err
	}

	writeCtx, cancel := context.WithTimeout(ctx, snapshotWriteTimeout)
	defer cancel()

	return wsjson.Write(writeCtx, conn, models.SnapshotMessage{
		Collection: collection,
		Items:      raws,
		At:         time.Now().UTC(),
	})
}
