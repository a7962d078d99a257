package application

import (
	"fmt"
	"sync"

	"skirmish/server/domain"
)

// BotAction はボットが1tickで送る入力です。
type BotAction struct {
	Move  Vector2
	Aim   Vector2
	Shoot bool
}

// BotController はボットの意思決定インターフェースです。
type BotController interface {
	Decide(self Player, players []Player, bullets []BulletState) BotAction
}

// BotWorld はボットがサーバーから受け取ったイベントで組み立てる世界の写しです。
// 受信ループと判断ループから並行に触られるのでロックで守ります。
type BotWorld struct {
	mu        sync.Mutex
	sessionID domain.SessionID
	players   map[domain.SessionID]*Player
	bullets   map[string]BulletState
}

func NewBotWorld() *BotWorld {
	return &BotWorld{
		players: make(map[domain.SessionID]*Player),
		bullets: make(map[string]BulletState),
	}
}

func (w *BotWorld) SessionID() domain.SessionID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sessionID
}

// Self は自分のプレイヤーの写しを返します。
func (w *BotWorld) Self() (Player, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, ok := w.players[w.sessionID]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

// Apply はサーバーから届いた1メッセージを世界に反映します。知らないイベントは無視します。
func (w *BotWorld) Apply(codec domain.Codec, data []byte) error {
	env, err := codec.Decode(data)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	switch env.Type {
	case InitialStateEvent{}.EventName():
		var ev InitialStateEvent
		if err := codec.DecodePayload(env, &ev); err != nil {
			return fmt.Errorf("%s: %w", env.Type, err)
		}
		w.sessionID = ev.SessionID
		clear(w.players)
		clear(w.bullets)
		for _, p := range ev.Players {
			w.players[p.SessionID] = &p
		}
		for _, b := range ev.Bullets {
			w.bullets[b.ID] = b
		}
	case SpawnEvent{}.EventName():
		var ev SpawnEvent
		if err := codec.DecodePayload(env, &ev); err != nil {
			return fmt.Errorf("%s: %w", env.Type, err)
		}
		w.players[ev.Player.SessionID] = &ev.Player
	case PositionUpdateEvent{}.EventName():
		var ev PositionUpdateEvent
		if err := codec.DecodePayload(env, &ev); err != nil {
			return fmt.Errorf("%s: %w", env.Type, err)
		}
		if p, ok := w.players[ev.SessionID]; ok {
			p.Position = ev.Position
		}
	case HealthUpdateEvent{}.EventName():
		var ev HealthUpdateEvent
		if err := codec.DecodePayload(env, &ev); err != nil {
			return fmt.Errorf("%s: %w", env.Type, err)
		}
		if p, ok := w.players[ev.SessionID]; ok {
			p.Health, p.Shield = ev.Health, ev.Shield
			p.IsAlive = ev.Health > 0
		}
	case InventoryUpdateEvent{}.EventName():
		var ev InventoryUpdateEvent
		if err := codec.DecodePayload(env, &ev); err != nil {
			return fmt.Errorf("%s: %w", env.Type, err)
		}
		if p, ok := w.players[ev.SessionID]; ok {
			p.CurrentSlotIndex, p.CurrentWeapon = ev.CurrentSlotIndex, ev.CurrentWeapon
		}
	case PlayerLeftEvent{}.EventName():
		var ev PlayerLeftEvent
		if err := codec.DecodePayload(env, &ev); err != nil {
			return fmt.Errorf("%s: %w", env.Type, err)
		}
		delete(w.players, ev.SessionID)
	case ServerSpawnEvent{}.EventName():
		var ev ServerSpawnEvent
		if err := codec.DecodePayload(env, &ev); err != nil {
			return fmt.Errorf("%s: %w", env.Type, err)
		}
		if ev.Bullet != nil {
			w.bullets[ev.Bullet.ID] = *ev.Bullet
		}
	case BulletMoveEvent{}.EventName():
		var ev BulletMoveEvent
		if err := codec.DecodePayload(env, &ev); err != nil {
			return fmt.Errorf("%s: %w", env.Type, err)
		}
		if b, ok := w.bullets[ev.ID]; ok {
			b.Position = ev.Position
			w.bullets[ev.ID] = b
		}
	case UnspawnEvent{}.EventName():
		var ev UnspawnEvent
		if err := codec.DecodePayload(env, &ev); err != nil {
			return fmt.Errorf("%s: %w", env.Type, err)
		}
		delete(w.bullets, ev.ID)
	}
	return nil
}

// Decide は自分が生存していればコントローラに判断させます。
func (w *BotWorld) Decide(controller BotController) (BotAction, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	self, ok := w.players[w.sessionID]
	if !ok || !self.IsAlive {
		return BotAction{}, false
	}
	players := make([]Player, 0, len(w.players))
	for _, p := range w.players {
		players = append(players, *p)
	}
	bullets := make([]BulletState, 0, len(w.bullets))
	for _, b := range w.bullets {
		bullets = append(bullets, b)
	}
	return controller.Decide(*self, players, bullets), true
}
