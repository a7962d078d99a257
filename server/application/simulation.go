package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"skirmish/server/domain"
)

const (
	DefaultTickInterval = 33 * time.Millisecond
	DefaultMoveSpeed    = 5.0 // units/s
	DefaultRespawnDelay = 3 * time.Second
	DefaultMeleeDamage  = 10
	PackRestoreAmount   = 25
)

type Config struct {
	TickInterval time.Duration
	RespawnDelay time.Duration // 0 ならリスポーンしない
	MoveSpeed    float64
	SpawnPoint   Vector2
}

func DefaultConfig() Config {
	return Config{
		TickInterval: DefaultTickInterval,
		RespawnDelay: DefaultRespawnDelay,
		MoveSpeed:    DefaultMoveSpeed,
	}
}

// Simulation はゲームの権威的な状態を持ち、domain.Application としてRoomから駆動されます。
// 全メソッドはRoomのゴルーチンから直列に呼ばれる前提で、ロックを持ちません。
type Simulation struct {
	config Config
	clock  domain.Clock
	codec  domain.Codec
	events EventBroadcaster
	state  *SimulationState
}

func NewSimulation(config Config, clock domain.Clock, codec domain.Codec, events EventBroadcaster) *Simulation {
	return &Simulation{
		config: config,
		clock:  clock,
		codec:  codec,
		events: events,
		state:  NewSimulationState(),
	}
}

func (s *Simulation) State() *SimulationState { return s.state }

// Join はプレイヤーを生成し、本人に初期状態を、他の全員にspawnを送ります。
func (s *Simulation) Join(ctx context.Context, sessionID domain.SessionID) {
	if _, ok := s.state.Players[sessionID]; ok {
		slog.WarnContext(ctx, "player already joined", "sessionID", sessionID)
		return
	}
	player := NewPlayer(sessionID, s.config.SpawnPoint)
	loadout := NewPlayerLoadout(s.clock)
	s.state.AddPlayer(player, loadout)

	s.events.SendTo(ctx, sessionID, s.initialState(sessionID))
	s.sendFullInventory(ctx, sessionID)
	s.events.BroadcastExcept(ctx, sessionID, SpawnEvent{Player: *player})
	slog.InfoContext(ctx, "player joined", "sessionID", sessionID, "players", len(s.state.Players))
}

func (s *Simulation) Leave(ctx context.Context, sessionID domain.SessionID) {
	if !s.state.RemovePlayer(sessionID) {
		return
	}
	s.events.Broadcast(ctx, PlayerLeftEvent{SessionID: sessionID})
	slog.InfoContext(ctx, "player left", "sessionID", sessionID, "players", len(s.state.Players))
}

// HandleMessage は受信バイト列をコマンドにして処理します。
// 返すエラーは壊れた入力や未知のコマンドだけで、呼び出し側はログに残して捨てます。
func (s *Simulation) HandleMessage(ctx context.Context, sessionID domain.SessionID, data []byte) error {
	cmd, err := ParseCommand(s.codec, data)
	if err != nil {
		return err
	}
	return s.Handle(ctx, sessionID, cmd)
}

// Handle はコマンドを同期的に処理します。武器のクールダウンなどによる拒否は
// actionRejected として本人に通知し、エラーとしては返しません。
func (s *Simulation) Handle(ctx context.Context, sessionID domain.SessionID, cmd Command) error {
	if _, ok := cmd.(UnknownCommand); ok {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.CommandName())
	}
	player, ok := s.state.Players[sessionID]
	if !ok {
		return fmt.Errorf("%s from %s: %w", cmd.CommandName(), sessionID, ErrPlayerNotFound)
	}

	var err error
	switch c := cmd.(type) {
	case MoveInputCommand:
		s.handleMoveInput(sessionID, c)
	case AimCommand:
		s.events.BroadcastExcept(ctx, sessionID, AimEvent{SessionID: sessionID, Direction: c.Direction})
	case ShootCommand:
		err = s.handleShoot(ctx, player, c)
	case InventorySwitchCommand:
		err = s.handleInventorySwitch(ctx, player, c)
	case UseItemCommand:
		err = s.handleUseItem(ctx, player, c)
	case ThrowGrenadeCommand:
		err = s.handleThrowGrenade(ctx, player, c)
	case MeleeAttackCommand:
		err = s.handleMeleeAttack(ctx, player, c)
	case BulletCollideCommand:
		s.handleBulletCollide(ctx, c)
	case ReloadCommand:
		err = s.handleReload(ctx, player)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
	if err != nil {
		s.reject(ctx, sessionID, cmd.CommandName(), err)
	}
	return nil
}

func (s *Simulation) reject(ctx context.Context, sessionID domain.SessionID, action string, err error) {
	reason := Reason(err)
	slog.DebugContext(ctx, "action rejected", "sessionID", sessionID, "action", action, "reason", reason)
	s.events.SendTo(ctx, sessionID, ActionRejectedEvent{Action: action, Reason: reason})
}

func (s *Simulation) initialState(sessionID domain.SessionID) InitialStateEvent {
	ev := InitialStateEvent{
		SessionID: sessionID,
		Players:   make([]Player, 0, len(s.state.Players)),
		Bullets:   make([]BulletState, 0, len(s.state.Bullets)),
		Grenades:  make([]GrenadeState, 0, len(s.state.Grenades)),
	}
	for _, id := range s.state.PlayerIDs() {
		ev.Players = append(ev.Players, *s.state.Players[id])
	}
	for _, id := range s.state.BulletIDs() {
		ev.Bullets = append(ev.Bullets, newBulletState(s.state.Bullets[id]))
	}
	for _, id := range s.state.GrenadeIDs() {
		ev.Grenades = append(ev.Grenades, newGrenadeState(s.state.Grenades[id]))
	}
	return ev
}

func (s *Simulation) sendFullInventory(ctx context.Context, sessionID domain.SessionID) {
	inv, ok := s.state.Inventories[sessionID]
	if !ok {
		return
	}
	s.events.SendTo(ctx, sessionID, FullInventoryUpdateEvent{
		SessionID:        sessionID,
		Slots:            inv.Slots(),
		CurrentSlotIndex: inv.CurrentSlot(),
		Ammo:             s.state.Ammo[sessionID].Snapshot(),
	})
}

func (s *Simulation) sendWeaponUpdate(ctx context.Context, sessionID domain.SessionID, weaponName string) {
	ws, ok := s.state.Weapons[sessionID]
	if !ok {
		return
	}
	if view, ok := ws.View(weaponName); ok {
		s.events.SendTo(ctx, sessionID, WeaponUpdateEvent{WeaponView: view})
	}
}

// damage はダメージを適用してhealthUpdateを配信し、死亡したならplayerKilledも配信します。
func (s *Simulation) damage(ctx context.Context, target *Player, amount int, killer domain.SessionID, cause string) {
	died := ApplyDamage(target, amount)
	s.events.Broadcast(ctx, newHealthUpdate(target))
	if !died {
		return
	}
	target.diedAt = s.clock.Now()
	delete(s.state.Inputs, target.SessionID)
	s.events.Broadcast(ctx, PlayerKilledEvent{SessionID: target.SessionID, KillerID: killer, Cause: cause})
	slog.DebugContext(ctx, "player killed", "sessionID", target.SessionID, "killer", killer, "cause", cause)
}
