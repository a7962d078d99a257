package domain

import "context"

//go:generate go tool mockgen -destination=./mocks/application_mock.go -package=mocks . Application

// Application はRoomの単一ゴルーチン上で実行されるゲームロジックです。
// Roomは全メソッドを直列に呼び出すため、実装側でロックを取る必要はありません。
type Application interface {
	Join(ctx context.Context, sessionID SessionID)
	Leave(ctx context.Context, sessionID SessionID)
	HandleMessage(ctx context.Context, sessionID SessionID, data []byte) error
	Tick(ctx context.Context)
}
