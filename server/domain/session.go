package domain

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// SessionID は接続ごとに払い出されるセッション識別子です。接続が続く限り変化しません。
type SessionID string

func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

func (id SessionID) String() string { return string(id) }

func (id SessionID) IsEmpty() bool { return id == "" }

// Session は1接続の論理的な接続状態を表す構造体です。
type Session struct {
	id SessionID

	// activity
	lastRead  atomic.Int64
	lastWrite atomic.Int64
	lastPong  atomic.Int64

	// lifecycle
	closed atomic.Bool
}

func NewSession() *Session {
	s := &Session{
		id: NewSessionID(),
	}
	now := time.Now().UnixNano()
	s.lastRead.Store(now)
	s.lastWrite.Store(now)
	s.lastPong.Store(now)
	return s
}

func (s *Session) ID() SessionID { return s.id }

func (s *Session) TouchRead() {
	s.lastRead.Store(time.Now().UnixNano())
}

func (s *Session) TouchWrite() {
	s.lastWrite.Store(time.Now().UnixNano())
}

func (s *Session) TouchPong() {
	s.lastPong.Store(time.Now().UnixNano())
}

// Close は初回呼び出し時のみtrueを返します。
func (s *Session) Close() bool {
	return s.closed.CompareAndSwap(false, true)
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

func (s *Session) IsIdle(timeout time.Duration) (bool, IdleReason) {
	if timeout <= 0 {
		return false, IdleDisabled
	}
	var reason IdleReason
	if isIdleSince(s.lastRead.Load(), timeout) {
		reason |= IdleRead
	}
	if isIdleSince(s.lastWrite.Load(), timeout) {
		reason |= IdleWrite
	}
	if isIdleSince(s.lastPong.Load(), timeout) {
		reason |= IdlePong
	}
	return reason != IdleNone, reason
}

func isIdleSince(lastNano int64, timeout time.Duration) bool {
	return time.Since(time.Unix(0, lastNano)) > timeout
}
