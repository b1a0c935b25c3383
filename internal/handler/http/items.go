package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/logger"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/utils"
	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

const (
	collectionParam = "collection"
	idParam         = "id"
)

func (h *Handler) fetchAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	collection := chi.URLParam(r, collectionParam)

	principal, ok := utils.GetPrincipalFromContext(ctx)
	if !ok {
		log.Error().Str("func", "*Handler.fetchAll").Msg("no principal was given")
		utils.WriteError(w, ErrNoPrincipalInContext.Error(), http.StatusUnauthorized)
		return
	}

	items, err := h.services.ItemService.FetchAll(ctx, principal, collection)
	if err != nil {
		log.Err(err).Str("func", "*Handler.fetchAll").Str("collection", collection).Msg("error fetching items")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}

	raws, err := models.EncodeItems(items)
	if err != nil {
		log.Err(err).Str("func", "*Handler.fetchAll").Str("collection", collection).Msg("error encoding items")
		utils.WriteError(w, "error encoding items", http.StatusInternalServerError)
		return
	}

	_, _ = utils.WriteJSON(w, models.ItemsResponse{Collection: collection, Items: raws}, http.StatusOK)
}

func (h *Handler) batchWrite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	collection := chi.URLParam(r, collectionParam)

	principal, ok := utils.GetPrincipalFromContext(ctx)
	if !ok {
		log.Error().Str("func", "*Handler.batchWrite").Msg("no principal was given")
		utils.WriteError(w, ErrNoPrincipalInContext.Error(), http.StatusUnauthorized)
		return
	}

	var req models.BatchWriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.batchWrite").Msg("invalid JSON was passed")
		utils.WriteError(w, ErrInvalidJSON.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.services.ItemService.BatchWrite(ctx, principal, collection, req)
	if err != nil {
		log.Err(err).Str("func", "*Handler.batchWrite").Str("collection", collection).Msg("error writing batch")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}

	_, _ = utils.WriteJSON(w, resp, http.StatusOK)
}

func (h *Handler) pushOne(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	collection := chi.URLParam(r, collectionParam)
	id := chi.URLParam(r, idParam)

	principal, ok := utils.GetPrincipalFromContext(ctx)
	if !ok {
		log.Error().Str("func", "*Handler.pushOne").Msg("no principal was given")
		utils.WriteError(w, ErrNoPrincipalInContext.Error(), http.StatusUnauthorized)
		return
	}

	var item models.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		log.Err(err).Str("func", "*Handler.pushOne").Msg("invalid JSON was passed")
		utils.WriteError(w, ErrInvalidJSON.Error(), http.StatusBadRequest)
		return
	}

	if err := h.services.ItemService.PushOne(ctx, principal, collection, id, item); err != nil {
		log.Err(err).Str("func", "*Handler.pushOne").Str("collection", collection).Str("id", id).Msg("error pushing item")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteOne(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	collection := chi.URLParam(r, collectionParam)
	id := chi.URLParam(r, idParam)

	principal, ok := utils.GetPrincipalFromContext(ctx)
	if !ok {
		log.Error().Str("func", "*Handler.deleteOne").Msg("no principal was given")
		utils.WriteError(w, ErrNoPrincipalInContext.Error(), http.StatusUnauthorized)
		return
	}

	if err := h.services.ItemService.DeleteOne(ctx, principal, collection, id); err != nil {
		log.Err(err).Str("func", "*Handler.deleteOne").Str("collection", collection).Str("id", id).Msg("error deleting item")
		utils.WriteError(w, err.Error(), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
