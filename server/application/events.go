package application

import "skirmish/server/domain"

// Event はクライアントへ送る名前付きイベントです。
type Event interface {
	EventName() string
}

const (
	ObjectBullet  = "bullet"
	ObjectGrenade = "grenade"
)

type BulletState struct {
	ID         string           `json:"id"`
	Activator  domain.SessionID `json:"activator"`
	Position   Vector2          `json:"position"`
	Direction  Vector2          `json:"direction"`
	Speed      float64          `json:"speed"`
	Damage     int              `json:"damage"`
	BulletType BulletType       `json:"bulletType"`
}

func newBulletState(b *Bullet) BulletState {
	return BulletState{
		ID:         b.ID,
		Activator:  b.Activator,
		Position:   b.Position,
		Direction:  b.Direction,
		Speed:      b.Speed,
		Damage:     b.Damage,
		BulletType: b.BulletType,
	}
}

type GrenadeState struct {
	ID              string           `json:"id"`
	Activator       domain.SessionID `json:"activator"`
	Position        Vector2          `json:"position"`
	Direction       Vector2          `json:"direction"`
	Speed           float64          `json:"speed"`
	ExplosionRadius float64          `json:"explosionRadius"`
}

func newGrenadeState(g *Grenade) GrenadeState {
	return GrenadeState{
		ID:              g.ID,
		Activator:       g.Activator,
		Position:        g.Position,
		Direction:       g.Direction,
		Speed:           g.Speed,
		ExplosionRadius: g.ExplosionRadius,
	}
}

type InitialStateEvent struct {
	SessionID domain.SessionID `json:"sessionId"`
	Players   []Player         `json:"players"`
	Bullets   []BulletState    `json:"bullets"`
	Grenades  []GrenadeState   `json:"grenades"`
}

type SpawnEvent struct {
	Player Player `json:"player"`
}

// ServerSpawnEvent は弾かグレネードの生成です。ObjectTypeでどちらかを区別します。
type ServerSpawnEvent struct {
	ObjectType string        `json:"objectType"`
	Bullet     *BulletState  `json:"bullet,omitempty"`
	Grenade    *GrenadeState `json:"grenade,omitempty"`
}

type PositionUpdateEvent struct {
	SessionID domain.SessionID `json:"sessionId"`
	Position  Vector2          `json:"position"`
}

type BulletMoveEvent struct {
	ID       string  `json:"id"`
	Position Vector2 `json:"position"`
}

type GrenadeMoveEvent struct {
	ID       string  `json:"id"`
	Position Vector2 `json:"position"`
}

type UnspawnEvent struct {
	ObjectType string `json:"objectType"`
	ID         string `json:"id"`
}

type HealthUpdateEvent struct {
	SessionID domain.SessionID `json:"sessionId"`
	Health    int              `json:"health"`
	MaxHealth int              `json:"maxHealth"`
	Shield    int              `json:"shield"`
	MaxShield int              `json:"maxShield"`
}

func newHealthUpdate(p *Player) HealthUpdateEvent {
	return HealthUpdateEvent{
		SessionID: p.SessionID,
		Health:    p.Health,
		MaxHealth: p.MaxHealth,
		Shield:    p.Shield,
		MaxShield: p.MaxShield,
	}
}

type PlayerKilledEvent struct {
	SessionID domain.SessionID `json:"sessionId"`
	KillerID  domain.SessionID `json:"killerId"`
	Cause     string           `json:"cause"`
}

type InventoryUpdateEvent struct {
	SessionID        domain.SessionID `json:"sessionId"`
	CurrentSlotIndex int              `json:"currentSlotIndex"`
	CurrentWeapon    string           `json:"currentWeapon"`
}

type FullInventoryUpdateEvent struct {
	SessionID        domain.SessionID `json:"sessionId"`
	Slots            []*Item          `json:"slots"`
	CurrentSlotIndex int              `json:"currentSlotIndex"`
	Ammo             map[AmmoType]int `json:"ammo"`
}

type GrenadeExplodeEvent struct {
	ID        string           `json:"id"`
	Activator domain.SessionID `json:"activator"`
	Position  Vector2          `json:"position"`
	Radius    float64          `json:"radius"`
}

type PlayerLeftEvent struct {
	SessionID domain.SessionID `json:"sessionId"`
}

type AimEvent struct {
	SessionID domain.SessionID `json:"sessionId"`
	Direction Vector2          `json:"direction"`
}

type MeleeAttackEvent struct {
	SessionID domain.SessionID `json:"sessionId"`
	TargetID  domain.SessionID `json:"targetId"`
	Damage    int              `json:"damage"`
}

type WeaponUpdateEvent struct {
	WeaponView
}

type ActionRejectedEvent struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

func (InitialStateEvent) EventName() string { return "initialState" }
func (SpawnEvent) EventName() string { return "spawn" }
func (ServerSpawnEvent) EventName() string { return "serverSpawn" }
func (PositionUpdateEvent) EventName() string { return "serverPositionUpdate" }
func (BulletMoveEvent) EventName() string { return "bulletMove" }
func (GrenadeMoveEvent) EventName() string { return "grenadeMove" }
func (UnspawnEvent) EventName() string { return "serverUnspawn" }
func (HealthUpdateEvent) EventName() string { return "healthUpdate" }
func (PlayerKilledEvent) EventName() string { return "playerKilled" }
func (InventoryUpdateEvent) EventName() string { return "inventoryUpdate" }
func (FullInventoryUpdateEvent) EventName() string { return "fullInventoryUpdate" }
func (GrenadeExplodeEvent) EventName() string { return "grenadeExplode" }
func (PlayerLeftEvent) EventName() string { return "player_left" }
func (AimEvent) EventName() string { return "aim" }
func (MeleeAttackEvent) EventName() string { return "meleeAttack" }
func (WeaponUpdateEvent) EventName() string { return "weaponUpdate" }
func (ActionRejectedEvent) EventName() string { return "actionRejected" }
