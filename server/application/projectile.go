package application

import (
	"math"
	"time"

	"skirmish/server/domain"

	"github.com/oklog/ulid/v2"
)

const (
	GrenadeInitialSpeed    = 0.4
	GrenadeFriction        = 0.97
	GrenadeMinSpeed        = 0.02
	GrenadeLifetime        = 3000 * time.Millisecond
	GrenadeExplosionRadius = 5.0
	GrenadeDamage          = 75
)

// Bullet は飛行中の弾です。発射者には当たりません。
type Bullet struct {
	ID          string
	Activator   domain.SessionID
	Position    Vector2
	Direction   Vector2
	Speed       float64
	Lifetime    time.Duration
	HasCollided bool
	Damage      int
	BulletType  BulletType
}

func NewBullet(activator domain.SessionID, spawn ProjectileSpawn, cfg WeaponConfig) *Bullet {
	return &Bullet{
		ID:         ulid.Make().String(),
		Activator:  activator,
		Position:   spawn.Position,
		Direction:  spawn.Direction.Normalize(),
		Speed:      cfg.BulletSpeed,
		Lifetime:   cfg.BulletLifetime,
		Damage:     cfg.Damage,
		BulletType: cfg.BulletType,
	}
}

// Advance は1tick分進めます。
func (b *Bullet) Advance(delta time.Duration) {
	b.Position = b.Position.Add(b.Direction.Scale(b.Speed))
	b.Lifetime -= delta
}

func (b *Bullet) Expired() bool {
	return b.Lifetime <= 0 || b.HasCollided
}

// Grenade は摩擦で減速しながら転がり、寿命が尽きると爆発します。
type Grenade struct {
	ID              string
	Activator       domain.SessionID
	Position        Vector2
	Direction       Vector2
	Speed           float64
	Friction        float64
	MinSpeed        float64
	Lifetime        time.Duration
	HasExploded     bool
	ExplosionRadius float64
	Damage          int
}

func NewGrenade(activator domain.SessionID, position, direction Vector2) *Grenade {
	return &Grenade{
		ID:              ulid.Make().String(),
		Activator:       activator,
		Position:        position,
		Direction:       direction.Normalize(),
		Speed:           GrenadeInitialSpeed,
		Friction:        GrenadeFriction,
		MinSpeed:        GrenadeMinSpeed,
		Lifetime:        GrenadeLifetime,
		ExplosionRadius: GrenadeExplosionRadius,
		Damage:          GrenadeDamage,
	}
}

// Advance は速度を減衰させてから移動します。MinSpeed以下になった速度は0に丸めます。
func (g *Grenade) Advance(delta time.Duration) {
	if g.Speed > g.MinSpeed {
		g.Speed *= g.Friction
	} else {
		g.Speed = 0
	}
	if g.Speed > 0 {
		g.Position = g.Position.Add(g.Direction.Scale(g.Speed))
	}
	g.Lifetime -= delta
}

func (g *Grenade) Expired() bool {
	return g.Lifetime <= 0 || g.HasExploded
}

// ExplosionDamage は爆心からの距離に応じた減衰ダメージです。半径ちょうどで0になります。
func ExplosionDamage(base int, distance, radius float64) int {
	if radius <= 0 || distance >= radius {
		return 0
	}
	return int(math.Floor(float64(base) * (1 - distance/radius)))
}
