package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/utils"
	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

// snapshotServer accepts websocket connections and lets each connection
// handler decide what to send.
func snapshotServer(t *testing.T, handle func(ctx context.Context, conn *websocket.Conn, attempt int32)) *httptest.Server {
	t.Helper()
	var attempts atomic.Int32

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/collections/journal_entries/subscribe" {
			utils.WriteError(w, "unknown collection", http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") == "" {
			utils.WriteError(w, "", http.StatusUnauthorized)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.CloseNow()

		handle(r.Context(), conn, attempts.Add(1))
	}))
}

func sendSnapshot(ctx context.Context, conn *websocket.Conn, raws ...json.RawMessage) error {
	return wsjson.Write(ctx, conn, models.SnapshotMessage{
		Collection: "journal_entries",
		Items:      raws,
		At:         time.Now(),
	})
}

func receive(t *testing.T, sub Subscription) []models.Item {
	t.Helper()
	select {
	case items, ok := <-sub.Snapshots():
		require.True(t, ok, "snapshot channel closed unexpectedly")
		return items
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestSubscribe_DeliversSnapshots(t *testing.T) {
	srv := snapshotServer(t, func(ctx context.Context, conn *websocket.Conn, _ int32) {
		ctx = conn.CloseRead(ctx)
		_ = sendSnapshot(ctx, conn, rawItem(t, "j1"))
		_ = sendSnapshot(ctx, conn, rawItem(t, "j1"), json.RawMessage(`{"broken":true}`), rawItem(t, "j2"))
		<-ctx.Done()
	})
	defer srv.Close()

	sub, err := newTestAdapter(t, srv.URL).Subscribe(context.Background(), "journal_entries")
	require.NoError(t, err)
	defer sub.Close()

	first := receive(t, sub)
	require.Len(t, first, 1)
	assert.Equal(t, "j1", first[0].ID)

	second := receive(t, sub)
	require.Len(t, second, 2, "malformed entries are dropped from the snapshot")
	assert.Equal(t, "j2", second[1].ID)
}

func TestSubscribe_CloseIsIdempotentAndClosesChannel(t *testing.T) {
	srv := snapshotServer(t, func(ctx context.Context, conn *websocket.Conn, _ int32) {
		ctx = conn.CloseRead(ctx)
		// keeps pushing so that the producer is blocked on send when Close runs
		for ctx.Err() == nil {
			if err := sendSnapshot(ctx, conn, rawItem(t, "j1")); err != nil {
				return
			}
		}
	})
	defer srv.Close()

	sub, err := newTestAdapter(t, srv.URL).Subscribe(context.Background(), "journal_entries")
	require.NoError(t, err)

	receive(t, sub)

	done := make(chan struct{})
	go func() {
		assert.NoError(t, sub.Close())
		assert.NoError(t, sub.Close())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return")
	}

	_, ok := <-sub.Snapshots()
	assert.False(t, ok, "no snapshot is delivered after Close returns")
}

func TestSubscribe_Reconnects(t *testing.T) {
	srv := snapshotServer(t, func(ctx context.Context, conn *websocket.Conn, attempt int32) {
		ctx = conn.CloseRead(ctx)
		if attempt == 1 {
			_ = sendSnapshot(ctx, conn, rawItem(t, "before"))
			_ = conn.Close(websocket.StatusGoingAway, "restart")
			return
		}
		_ = sendSnapshot(ctx, conn, rawItem(t, "after"))
		<-ctx.Done()
	})
	defer srv.Close()

	sub, err := newTestAdapter(t, srv.URL).Subscribe(context.Background(), "journal_entries")
	require.NoError(t, err)
	defer sub.Close()

	assert.Equal(t, "before", receive(t, sub)[0].ID)
	assert.Equal(t, "after", receive(t, sub)[0].ID)
}

func TestSubscribe_Rejected(t *testing.T) {
	srv := snapshotServer(t, func(context.Context, *websocket.Conn, int32) {})
	defer srv.Close()

	_, err := newTestAdapter(t, srv.URL).Subscribe(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubscribe_ContextCancelStopsProducer(t *testing.T) {
	srv := snapshotServer(t, func(ctx context.Context, conn *websocket.Conn, _ int32) {
		<-conn.CloseRead(ctx).Done()
	})
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := newTestAdapter(t, srv.URL).Subscribe(ctx, "journal_entries")
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-sub.Snapshots():
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("producer did not stop on cancellation")
	}
	assert.NoError(t, sub.Close())
}

func TestSubscribeURL(t *testing.T) {
	a := newTestAdapter(t, "https://sync.example.com")
	got, err := a.subscribeURL("mood entries")
	require.NoError(t, err)
	assert.Equal(t, "wss://sync.example.com/api/collections/mood%20entries/subscribe", got)
}
