package domain

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"
)

// Hub はセッションIDから送信口を引くための登録簿です。
// Roomのゴルーチンから呼ばれ、登録と解除はエンドポイント側のゴルーチンから呼ばれます。
type Hub struct {
	mu      sync.RWMutex
	senders map[SessionID]Sender
}

func NewHub() *Hub {
	return &Hub{senders: make(map[SessionID]Sender)}
}

func (h *Hub) Register(sessionID SessionID, sender Sender) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.senders[sessionID] = sender
}

func (h *Hub) Unregister(sessionID SessionID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.senders, sessionID)
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.senders)
}

func (h *Hub) SendTo(ctx context.Context, sessionID SessionID, data []byte) {
	h.mu.RLock()
	sender, ok := h.senders[sessionID]
	h.mu.RUnlock()
	if !ok {
		slog.DebugContext(ctx, "hub: session not registered", "sessionID", sessionID)
		return
	}
	h.send(ctx, sessionID, sender, data)
}

func (h *Hub) Broadcast(ctx context.Context, data []byte) {
	h.BroadcastExcept(ctx, "", data)
}

// BroadcastExcept はexcept以外の全セッションへ送信します。exceptが空なら全員に送ります。
func (h *Hub) BroadcastExcept(ctx context.Context, except SessionID, data []byte) {
	h.mu.RLock()
	ids := slices.Sorted(maps.Keys(h.senders))
	targets := make([]Sender, 0, len(ids))
	for _, id := range ids {
		targets = append(targets, h.senders[id])
	}
	h.mu.RUnlock()

	for i, id := range ids {
		if id == except {
			continue
		}
		h.send(ctx, id, targets[i], data)
	}
}

func (h *Hub) send(ctx context.Context, sessionID SessionID, sender Sender, data []byte) {
	if err := sender.Send(data); err != nil {
		slog.WarnContext(ctx, "hub: send failed, message dropped", "sessionID", sessionID, "err", err)
	}
}
