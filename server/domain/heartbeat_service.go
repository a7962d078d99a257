package domain

import (
	"context"
	"log/slog"
	"time"
)

// Pinger はpingを送りpongを待ちます。
type Pinger interface {
	Ping(ctx context.Context) error
}

// HeartbeatService は定期的にpingを送信する死活監視サービスです。
// pongが返ればonPongを呼びます。失敗はログに残すだけで、切断の判断はIdle判定に任せます。
type HeartbeatService struct {
	pingInterval time.Duration
	sessionID    SessionID
	pinger       Pinger
	onPong       func()
}

// NewHeartbeatService は新しいHeartbeatServiceを生成します。
func NewHeartbeatService(pingInterval time.Duration, sessionID SessionID, pinger Pinger, onPong func()) *HeartbeatService {
	return &HeartbeatService{
		pingInterval: pingInterval,
		sessionID:    sessionID,
		pinger:       pinger,
		onPong:       onPong,
	}
}

// Run はpingInterval間隔でpingを送信します。
// ctxがキャンセルされると終了します。pingIntervalが0以下なら何もしません。
func (h *HeartbeatService) Run(ctx context.Context) {
	if h.pingInterval <= 0 {
		return
	}
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.ping(ctx)
		}
	}
}

func (h *HeartbeatService) ping(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, h.pingInterval)
	defer cancel()
	if err := h.pinger.Ping(pingCtx); err != nil {
		if ctx.Err() == nil {
			slog.DebugContext(ctx, "heartbeat: ping failed", "sessionID", h.sessionID, "err", err)
		}
		return
	}
	if h.onPong != nil {
		h.onPong()
	}
}
