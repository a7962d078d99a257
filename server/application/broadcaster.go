package application

import (
	"context"
	"log/slog"

	"skirmish/server/domain"
)

//go:generate go tool mockgen -destination=./mocks/broadcaster_mock.go -package=mocks . EventBroadcaster

// EventBroadcaster はイベントを1セッションまたは全セッションへ届けます。
// 送信の失敗はトランスポート側の責務で、呼び出し側には返りません。
type EventBroadcaster interface {
	SendTo(ctx context.Context, sessionID domain.SessionID, ev Event)
	Broadcast(ctx context.Context, ev Event)
	BroadcastExcept(ctx context.Context, except domain.SessionID, ev Event)
}

// CodecBroadcaster はイベントをCodecでエンコードしてPublisherに渡します。
type CodecBroadcaster struct {
	codec     domain.Codec
	publisher domain.Publisher
}

func NewCodecBroadcaster(codec domain.Codec, publisher domain.Publisher) *CodecBroadcaster {
	return &CodecBroadcaster{codec: codec, publisher: publisher}
}

func (b *CodecBroadcaster) SendTo(ctx context.Context, sessionID domain.SessionID, ev Event) {
	if data, ok := b.encode(ctx, ev); ok {
		b.publisher.SendTo(ctx, sessionID, data)
	}
}

func (b *CodecBroadcaster) Broadcast(ctx context.Context, ev Event) {
	if data, ok := b.encode(ctx, ev); ok {
		b.publisher.Broadcast(ctx, data)
	}
}

func (b *CodecBroadcaster) BroadcastExcept(ctx context.Context, except domain.SessionID, ev Event) {
	if data, ok := b.encode(ctx, ev); ok {
		b.publisher.BroadcastExcept(ctx, except, data)
	}
}

func (b *CodecBroadcaster) encode(ctx context.Context, ev Event) ([]byte, bool) {
	data, err := b.codec.Encode(ev.EventName(), ev)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode event", "event", ev.EventName(), "err", err)
		return nil, false
	}
	return data, true
}
