package domain_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	domain "skirmish/server/domain"
)

type fakePinger struct {
	calls atomic.Int32
	err   error
}

func (p *fakePinger) Ping(ctx context.Context) error {
	p.calls.Add(1)
	return p.err
}

func TestHeartbeatService_CallsOnPong(t *testing.T) {
	pinger := &fakePinger{}
	pongs := make(chan struct{}, 16)

	hb := domain.NewHeartbeatService(20*time.Millisecond, domain.NewSessionID(), pinger, func() {
		select {
		case pongs <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	go hb.Run(ctx)

	select {
	case <-pongs:
	case <-ctx.Done():
		t.Fatal("timed out waiting for pong")
	}
}

func TestHeartbeatService_PingFailureSkipsOnPong(t *testing.T) {
	pinger := &fakePinger{err: errors.New("connection closed")}
	var pongs atomic.Int32

	hb := domain.NewHeartbeatService(10*time.Millisecond, domain.NewSessionID(), pinger, func() { pongs.Add(1) })

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	hb.Run(ctx)

	if pinger.calls.Load() == 0 {
		t.Fatal("ping was never sent")
	}
	if got := pongs.Load(); got != 0 {
		t.Errorf("pongs = %d, want 0", got)
	}
}

func TestHeartbeatService_StopsOnContextCancel(t *testing.T) {
	hb := domain.NewHeartbeatService(50*time.Millisecond, domain.NewSessionID(), &fakePinger{}, nil)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		hb.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
		// 正常終了
	case <-time.After(1 * time.Second):
		t.Fatal("HeartbeatService did not stop after context cancel")
	}
}

func TestHeartbeatService_DisabledReturnsImmediately(t *testing.T) {
	pinger := &fakePinger{}
	hb := domain.NewHeartbeatService(0, domain.NewSessionID(), pinger, nil)
	hb.Run(context.Background())
	if got := pinger.calls.Load(); got != 0 {
		t.Errorf("ping calls = %d, want 0", got)
	}
}
