package domain

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

type RoomID string

var (
	ErrRoomBusy    = errors.New("room inbox is full")
	ErrRoomStopped = errors.New("room is not running")
)

const defaultInboxSize = 1024

type roomMessageKind uint8

const (
	roomJoin roomMessageKind = iota + 1
	roomLeave
	roomData
)

type roomMessage struct {
	kind      roomMessageKind
	sessionID SessionID
	data      []byte
}

// Room はApplicationを単一のゴルーチンで駆動する実行コンテキストです。
// 受信メッセージの処理とTickは同じゴルーチンで直列に実行されるため、Tickの途中にハンドラが割り込むことはありません。
type Room struct {
	ID          RoomID
	application Application

	inbox        chan roomMessage
	done         chan struct{}
	tickInterval time.Duration
}

func NewRoom(id RoomID, application Application, tickInterval time.Duration) *Room {
	return &Room{
		ID:           id,
		application:  application,
		inbox:        make(chan roomMessage, defaultInboxSize),
		done:         make(chan struct{}),
		tickInterval: tickInterval,
	}
}

// Join は参加をキューに積みます。参加と離脱は落とせないのでブロックします。
func (r *Room) Join(ctx context.Context, sessionID SessionID) error {
	return r.enqueueWait(ctx, roomMessage{kind: roomJoin, sessionID: sessionID})
}

func (r *Room) Leave(ctx context.Context, sessionID SessionID) error {
	return r.enqueueWait(ctx, roomMessage{kind: roomLeave, sessionID: sessionID})
}

// Dispatch はデータメッセージをキューに積みます。満杯ならErrRoomBusyを返して捨てます。
func (r *Room) Dispatch(ctx context.Context, sessionID SessionID, data []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.done:
		return ErrRoomStopped
	case r.inbox <- roomMessage{kind: roomData, sessionID: sessionID, data: data}:
		return nil
	default:
		return ErrRoomBusy
	}
}

func (r *Room) enqueueWait(ctx context.Context, msg roomMessage) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.done:
		return ErrRoomStopped
	case r.inbox <- msg:
		return nil
	}
}

func (r *Room) Run(ctx context.Context) error {
	defer close(r.done)

	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "room started", "roomID", r.ID, "tickInterval", r.tickInterval)
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "room stopped", "roomID", r.ID)
			return nil
		case msg := <-r.inbox:
			r.handleMessage(ctx, msg)
		case <-ticker.C:
			r.application.Tick(ctx)
		}
	}
}

func (r *Room) handleMessage(ctx context.Context, msg roomMessage) {
	switch msg.kind {
	case roomJoin:
		r.application.Join(ctx, msg.sessionID)
	case roomLeave:
		r.application.Leave(ctx, msg.sessionID)
	case roomData:
		if err := r.application.HandleMessage(ctx, msg.sessionID, msg.data); err != nil {
			slog.WarnContext(ctx, "room: message discarded", "sessionID", msg.sessionID, "err", err)
		}
	default:
		slog.WarnContext(ctx, "room: unknown message kind", "kind", msg.kind)
	}
}
