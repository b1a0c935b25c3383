package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/config"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/logger"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/utils"
	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

const (
	itemsPath     = "/api/collections/{collection}/items"
	itemPath      = "/api/collections/{collection}/items/{id}"
	subscribePath = "/api/collections/{collection}/subscribe"

	defaultReconnectDelay = time.Second
	maxReconnectDelay     = 30 * time.Second
)

type httpRemoteStore struct {
	client  *utils.HTTPClient
	baseURL string

	reconnectDelay time.Duration

	mu        sync.RWMutex
	token     string
	principal string

	logger *logger.Logger
}

// NewHTTPRemoteStore constructs an HTTP/REST implementation of [RemoteStore].
// It normalises and validates the base URL from adapterCfg.HTTPAddress and
// configures the underlying HTTP client with the request timeout. When
// appCfg.Token is set it is installed via SetToken.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL, or if the configured token is malformed.
func NewHTTPRemoteStore(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (RemoteStore, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	reconnectDelay := adapterCfg.ReconnectDelay
	if reconnectDelay <= 0 {
		reconnectDelay = defaultReconnectDelay
	}

	h := &httpRemoteStore{
		client:         utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout),
		baseURL:        baseURL,
		reconnectDelay: reconnectDelay,
		logger:         logger,
	}

	if err = h.SetToken(appCfg.Token); err != nil {
		return nil, err
	}

	return h, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [RemoteStore].
func (h *httpRemoteStore) SetToken(token string) error {
	token = strings.TrimSpace(token)

	var principal string
	if token != "" {
		var err error
		principal, err = utils.ParsePrincipalFromJWT(token)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidToken, err)
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = token
	h.principal = principal

	return nil
}

// Token implements [RemoteStore].
func (h *httpRemoteStore) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Principal implements [RemoteStore].
func (h *httpRemoteStore) Principal() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.principal
}

// FetchAll implements [RemoteStore]. It issues
// GET /api/collections/{collection}/items and decodes the items one by one;
// malformed entries are logged and dropped.
func (h *httpRemoteStore) FetchAll(ctx context.Context, collection string) ([]models.Item, error) {
	req, err := h.authedRequest(ctx, collection)
	if err != nil {
		return nil, err
	}

	var body models.ItemsResponse
	resp, err := req.SetResult(&body).Get(itemsPath)
	if err != nil {
		return nil, fmt.Errorf("fetch all request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	items, rejected := models.DecodeItems(body.Items)
	h.logRejections(ctx, "httpRemoteStore.FetchAll", collection, rejected)

	return items, nil
}

// BatchWrite implements [RemoteStore]. It issues
// PUT /api/collections/{collection}/items with a [models.BatchWriteRequest].
func (h *httpRemoteStore) BatchWrite(ctx context.Context, collection string, items []models.Item) error {
	if len(items) == 0 {
		return nil
	}

	req, err := h.authedRequest(ctx, collection)
	if err != nil {
		return err
	}

	raws, err := models.EncodeItems(items)
	if err != nil {
		return fmt.Errorf("batch write encode: %w", err)
	}

	var result models.BatchWriteResponse
	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(models.BatchWriteRequest{Items: raws, Length: len(raws)}).
		SetResult(&result).
		Put(itemsPath)
	if err != nil {
		return fmt.Errorf("batch write request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	if result.Skipped > 0 {
		logger.FromContext(ctx).Warn().
			Str("func", "httpRemoteStore.BatchWrite").
			Str("collection", collection).
			Int("written", result.Written).
			Int("skipped", result.Skipped).
			Msg("remote skipped invalid items")
	}

	return nil
}

// PushOne implements [RemoteStore]. It issues
// PUT /api/collections/{collection}/items/{id}.
func (h *httpRemoteStore) PushOne(ctx context.Context, collection string, item models.Item) error {
	req, err := h.authedRequest(ctx, collection)
	if err != nil {
		return err
	}

	resp, err := req.
		SetPathParam("id", item.ID).
		SetHeader("Content-Type", "application/json").
		SetBody(item).
		Put(itemPath)
	if err != nil {
		return fmt.Errorf("push one request: %w", err)
	}

	return mapHTTPError(resp)
}

// DeleteOne implements [RemoteStore]. It issues
// DELETE /api/collections/{collection}/items/{id}; the remote keeps a tombstone.
func (h *httpRemoteStore) DeleteOne(ctx context.Context, collection, id string) error {
	req, err := h.authedRequest(ctx, collection)
	if err != nil {
		return err
	}

	resp, err := req.SetPathParam("id", id).Delete(itemPath)
	if err != nil {
		return fmt.Errorf("delete one request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpRemoteStore) authedRequest(ctx context.Context, collection string) (*resty.Request, error) {
	token := h.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	return h.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetPathParam("collection", collection), nil
}

func (h *httpRemoteStore) logRejections(ctx context.Context, fn, collection string, rejected []models.ItemRejection) {
	if len(rejected) == 0 {
		return
	}

	log := logger.FromContext(ctx)
	for _, r := range rejected {
		log.Warn().Err(r.Err).
			Str("func", fn).
			Str("collection", collection).
			Str("id", r.ID).
			Int("index", r.Index).
			Msg("skipping malformed remote item")
	}
}
