package domain

import "context"

// Dispatcher はサーバー層からアプリケーション層へのイベント配送を担当します。
type Dispatcher interface {
	Join(ctx context.Context, sessionID SessionID) error
	Leave(ctx context.Context, sessionID SessionID) error
	// Dispatch は通常のデータイベントを配送します。
	Dispatch(ctx context.Context, sessionID SessionID, data []byte) error
}

// Sender は1セッションへの送信口です。
type Sender interface {
	Send(data []byte) error
}

// Publisher はエンコード済みメッセージをセッションへ配信します。
type Publisher interface {
	SendTo(ctx context.Context, sessionID SessionID, data []byte)
	Broadcast(ctx context.Context, data []byte)
	BroadcastExcept(ctx context.Context, except SessionID, data []byte)
}
