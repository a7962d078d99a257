package domain

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrBackpressure は書き込みチャネルが満杯の場合に返されるエラーです。
	ErrBackpressure = errors.New("write channel is full, apply backpressure")
	// ErrEndpointClosed は閉じたエンドポイントへ送信した場合に返されるエラーです。
	ErrEndpointClosed = errors.New("session endpoint is closed")
	// ErrInitializationFailed はセッションエンドポイントの初期化に失敗した場合に返されるエラーです。
	ErrInitializationFailed = errors.New("failed to initialize session endpoint")
)

const (
	defaultWriteQueueSize = 1024
	idleCheckInterval     = time.Second
	leaveTimeout          = time.Second
)

// EndpointConfig はSessionEndpointのタイミング設定です。0以下の値はその機能を無効にします。
type EndpointConfig struct {
	PingInterval time.Duration
	IdleTimeout  time.Duration
}

type SessionEndpoint struct {
	ctx    context.Context
	cancel context.CancelFunc

	session    *Session
	connection *Connection
	dispatcher Dispatcher
	hub        *Hub
	config     EndpointConfig

	ctrlCh  chan endpointEvent // 制御用チャネル
	writeCh chan []byte        // 書き込み用チャネル

	// lifecycle
	closed atomic.Bool
}

func NewSessionEndpoint(session *Session, connection *Connection, dispatcher Dispatcher, hub *Hub, config EndpointConfig) (*SessionEndpoint, error) {
	if session == nil || connection == nil || dispatcher == nil || hub == nil {
		return nil, ErrInitializationFailed
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &SessionEndpoint{
		ctx:        ctx,
		cancel:     cancel,
		session:    session,
		connection: connection,
		dispatcher: dispatcher,
		hub:        hub,
		config:     config,
		ctrlCh:     make(chan endpointEvent, 16),
		writeCh:    make(chan []byte, defaultWriteQueueSize),
	}, nil
}

// Run はセッションをHubに登録してRoomへ参加させ、接続が閉じるまでブロックします。
// 戻る前に必ずRoomから離脱させます。
func (se *SessionEndpoint) Run(ctx context.Context) error {
	id := se.session.ID()
	se.hub.Register(id, se)
	defer se.hub.Unregister(id)

	if err := se.dispatcher.Join(ctx, id); err != nil {
		se.close()
		return err
	}
	slog.InfoContext(ctx, "session joined", "sessionID", id)
	defer se.leave(ctx)

	heartbeat := NewHeartbeatService(se.config.PingInterval, id, se.connection, func() {
		se.sendCtrlEvent(se.ctx, endpointEvent{kind: evPong})
	})

	eg, egCtx := errgroup.WithContext(se.ctx)
	eg.Go(func() error {
		se.ownerLoop(egCtx)
		return nil
	})
	eg.Go(func() error {
		se.readLoop(egCtx)
		return nil
	})
	eg.Go(func() error {
		se.writeLoop(egCtx)
		return nil
	})
	eg.Go(func() error {
		heartbeat.Run(egCtx)
		return nil
	})
	eg.Go(func() error {
		// サーバー停止時にエンドポイントも閉じる
		select {
		case <-ctx.Done():
			se.close()
		case <-egCtx.Done():
		}
		return nil
	})
	return eg.Wait()
}

func (se *SessionEndpoint) leave(ctx context.Context) {
	leaveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), leaveTimeout)
	defer cancel()
	if err := se.dispatcher.Leave(leaveCtx, se.session.ID()); err != nil {
		slog.WarnContext(ctx, "session leave failed", "sessionID", se.session.ID(), "err", err)
		return
	}
	slog.InfoContext(ctx, "session left", "sessionID", se.session.ID())
}

// Send はwriteChに積むだけでブロックしません。
func (se *SessionEndpoint) Send(data []byte) error {
	if se.closed.Load() {
		return ErrEndpointClosed
	}
	select {
	case se.writeCh <- data:
		return nil
	default:
		return ErrBackpressure
	}
}

func (se *SessionEndpoint) Close(ctx context.Context) {
	se.sendCtrlEvent(ctx, endpointEvent{kind: evClose})
}

func (se *SessionEndpoint) ForceClose() {
	se.close()
}

// ownerLoop は論理セッションの状態を監視し、必要に応じて接続の管理を行います。
func (se *SessionEndpoint) ownerLoop(ctx context.Context) {
	ticker := time.NewTicker(idleCheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-se.ctrlCh:
			se.handleControlEvent(ctx, ev)
		case <-ticker.C:
			if _, reason := se.session.IsIdle(se.config.IdleTimeout); reason.ShouldClose() {
				se.handleControlEvent(ctx, endpointEvent{
					kind: evClose,
					err:  errors.New("idle: " + reason.String()),
				})
			}
		}
	}
}

func (se *SessionEndpoint) readLoop(ctx context.Context) {
	for {
		data, err := se.connection.Read(ctx)
		if err != nil {
			se.sendCtrlEvent(ctx, endpointEvent{kind: evReadError, err: err})
			return
		}
		se.session.TouchRead()
		if err := se.dispatcher.Dispatch(ctx, se.session.ID(), data); err != nil {
			slog.WarnContext(ctx, "session: dispatch failed, message dropped", "sessionID", se.session.ID(), "err", err)
		}
	}
}

func (se *SessionEndpoint) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case data := <-se.writeCh:
			if err := se.connection.Write(ctx, data); err != nil {
				se.sendCtrlEvent(ctx, endpointEvent{kind: evWriteError, err: err})
				return
			}
			se.session.TouchWrite()
		}
	}
}

func (se *SessionEndpoint) close() {
	if !se.closed.CompareAndSwap(false, true) {
		return
	}
	se.cancel()
	se.session.Close()
	se.connection.Close()
}

// handleControlEvent は制御チャネルからのイベントを処理し論理セッションの状態を更新する唯一の関数です。
func (se *SessionEndpoint) handleControlEvent(ctx context.Context, ev endpointEvent) {
	switch ev.kind {
	case evClose:
		if ev.err != nil {
			slog.InfoContext(ctx, "session closing", "sessionID", se.session.ID(), "reason", ev.err)
		}
		se.close()
	case evPong:
		se.session.TouchPong()
	case evReadError, evWriteError:
		if ctx.Err() == nil {
			slog.DebugContext(ctx, "session i/o failed", "sessionID", se.session.ID(), "err", ev.err)
		}
		se.close()
	default:
		slog.WarnContext(ctx, "unknown endpoint event kind", "kind", ev.kind)
	}
}

func (se *SessionEndpoint) sendCtrlEvent(ctx context.Context, ev endpointEvent) {
	select {
	case se.ctrlCh <- ev:
	case <-ctx.Done():
	}
}
