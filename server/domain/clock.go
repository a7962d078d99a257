package domain

import "time"

// Clock は単調増加する現在時刻を提供します。テストでは時間を手動で進める実装に差し替えます。
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
