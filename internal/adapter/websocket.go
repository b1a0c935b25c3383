package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/sethvargo/go-retry"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/logger"
	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

// snapshotReadLimit bounds a single snapshot frame.
const snapshotReadLimit = 32 << 20

type wsSubscription struct {
	collection string

	out    chan []models.Item
	cancel context.CancelFunc
	done   chan struct{}

	closeOnce sync.Once
}

func (s *wsSubscription) Snapshots() <-chan []models.Item {
	return s.out
}

func (s *wsSubscription) Close() error {
	s.closeOnce.Do(s.cancel)
	<-s.done
	return nil
}

// Subscribe implements [RemoteStore]. The first connection is opened
// synchronously so that authentication and routing errors surface to the
// caller. After that the producer reconnects with capped exponential backoff
// until the subscription is closed, ctx is cancelled or the server rejects
// the credentials.
func (h *httpRemoteStore) Subscribe(ctx context.Context, collection string) (Subscription, error) {
	token := h.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	wsURL, err := h.subscribeURL(collection)
	if err != nil {
		return nil, err
	}

	conn, err := dial(ctx, wsURL, token)
	if err != nil {
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &wsSubscription{
		collection: collection,
		out:        make(chan []models.Item),
		cancel:     cancel,
		done:       make(chan struct{}),
	}

	go h.produce(subCtx, sub, conn, wsURL, token)

	return sub, nil
}

func (h *httpRemoteStore) produce(ctx context.Context, sub *wsSubscription, conn *websocket.Conn, wsURL, token string) {
	log := h.logger.With().
		Str("func", "httpRemoteStore.Subscribe").
		Str("collection", sub.collection).
		Logger()

	defer close(sub.done)
	defer close(sub.out)

	for {
		err := h.readSnapshots(ctx, sub, conn)
		_ = conn.CloseNow()

		if ctx.Err() != nil {
			return
		}
		log.Warn().Err(err).Msg("subscription dropped, reconnecting")

		conn, err = h.reconnect(ctx, wsURL, token)
		if err != nil {
			if ctx.Err() == nil {
				log.Error().Err(err).Msg("subscription closed permanently")
			}
			return
		}
		log.Info().Msg("subscription reconnected")
	}
}

// readSnapshots forwards snapshots until the connection fails or ctx ends.
// The producer checks for cancellation before every send.
func (h *httpRemoteStore) readSnapshots(ctx context.Context, sub *wsSubscription, conn *websocket.Conn) error {
	for {
		var msg models.SnapshotMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			return err
		}

		items, rejected := models.DecodeItems(msg.Items)
		h.logRejections(ctx, "httpRemoteStore.Subscribe", sub.collection, rejected)

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case sub.out <- items:
		}
	}
}

func (h *httpRemoteStore) reconnect(ctx context.Context, wsURL, token string) (*websocket.Conn, error) {
	backoff := retry.WithCappedDuration(maxReconnectDelay, retry.NewExponential(h.reconnectDelay))

	var conn *websocket.Conn
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var dialErr error
		conn, dialErr = dial(ctx, wsURL, token)
		if dialErr == nil {
			return nil
		}
		if isPermanent(dialErr) {
			return dialErr
		}

		logger.FromContext(ctx).Debug().Err(dialErr).Str("url", wsURL).Msg("reconnect attempt failed")
		return retry.RetryableError(dialErr)
	})

	return conn, err
}

func dial(ctx context.Context, wsURL, token string) (*websocket.Conn, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, resp, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		if resp != nil {
			if mapped := mapStatus(resp.StatusCode, nil); mapped != nil {
				return nil, fmt.Errorf("subscribe: %w", mapped)
			}
		}
		return nil, fmt.Errorf("subscribe dial: %w", err)
	}

	conn.SetReadLimit(snapshotReadLimit)
	return conn, nil
}

func (h *httpRemoteStore) subscribeURL(collection string) (string, error) {
	var wsBase string
	switch {
	case strings.HasPrefix(h.baseURL, "https://"):
		wsBase = "wss://" + strings.TrimPrefix(h.baseURL, "https://")
	case strings.HasPrefix(h.baseURL, "http://"):
		wsBase = "ws://" + strings.TrimPrefix(h.baseURL, "http://")
	default:
		return "", errors.New("unsupported base url scheme")
	}

	return wsBase + strings.Replace(subscribePath, "{collection}", url.PathEscape(collection), 1), nil
}
