package application

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"time"
)

// Tick は固定間隔で1ステップ進めます。手順の順序は固定です。
//  1. 移動
//  2. 弾の前進と命中判定
//  3. 弾の削除
//  4. グレネードの前進と爆発
//  5. グレネードの削除
//  6. リロードタイマー
//  7. リスポーン
func (s *Simulation) Tick(ctx context.Context) {
	s.Step(ctx, s.config.TickInterval)
}

// Step はdelta分だけシミュレーションを進めます。テストから時間を指定して呼べます。
func (s *Simulation) Step(ctx context.Context, delta time.Duration) {
	s.stepMovement(ctx, delta)
	s.removeBullets(ctx, s.stepBullets(ctx, delta))
	s.removeGrenades(ctx, s.stepGrenades(ctx, delta))
	s.stepWeaponTimers(ctx, delta)
	s.stepRespawns(ctx)
}

func (s *Simulation) stepMovement(ctx context.Context, delta time.Duration) {
	dist := s.config.MoveSpeed * delta.Seconds()
	for _, id := range slices.Sorted(maps.Keys(s.state.Inputs)) {
		p, ok := s.state.Players[id]
		if !ok || !p.IsAlive {
			continue
		}
		p.Position = p.Position.Add(s.state.Inputs[id].Normalize().Scale(dist))
		s.events.Broadcast(ctx, PositionUpdateEvent{SessionID: id, Position: p.Position})
	}
}

// stepBullets は全弾を進め、削除すべき弾のIDを返します。削除は走査の後でまとめて行います。
func (s *Simulation) stepBullets(ctx context.Context, delta time.Duration) []string {
	var removed []string
	for _, id := range s.state.BulletIDs() {
		b := s.state.Bullets[id]
		b.Advance(delta)
		if !b.HasCollided {
			if target, hit := FindBulletHit(b, s.state.Players); hit {
				b.HasCollided = true
				s.damage(ctx, target, b.Damage, b.Activator, string(b.BulletType))
				removed = append(removed, id)
				continue
			}
		}
		if b.Expired() {
			removed = append(removed, id)
			continue
		}
		s.events.Broadcast(ctx, BulletMoveEvent{ID: id, Position: b.Position})
	}
	return removed
}

func (s *Simulation) removeBullets(ctx context.Context, ids []string) {
	for _, id := range ids {
		delete(s.state.Bullets, id)
		s.events.Broadcast(ctx, UnspawnEvent{ObjectType: ObjectBullet, ID: id})
	}
}

func (s *Simulation) stepGrenades(ctx context.Context, delta time.Duration) []string {
	var removed []string
	for _, id := range s.state.GrenadeIDs() {
		g := s.state.Grenades[id]
		g.Advance(delta)
		switch {
		case g.Lifetime <= 0 && !g.HasExploded:
			s.explode(ctx, g)
			removed = append(removed, id)
		case g.Expired():
			removed = append(removed, id)
		default:
			s.events.Broadcast(ctx, GrenadeMoveEvent{ID: id, Position: g.Position})
		}
	}
	return removed
}

// explode は半径内の生存プレイヤー全員に減衰ダメージを与えます。投げた本人も対象です。
func (s *Simulation) explode(ctx context.Context, g *Grenade) {
	g.HasExploded = true
	for _, pid := range s.state.PlayerIDs() {
		p := s.state.Players[pid]
		if !p.IsAlive {
			continue
		}
		dmg := ExplosionDamage(g.Damage, p.Position.Distance(g.Position), g.ExplosionRadius)
		if dmg <= 0 {
			continue
		}
		s.damage(ctx, p, dmg, g.Activator, ObjectGrenade)
	}
	s.events.Broadcast(ctx, GrenadeExplodeEvent{
		ID:        g.ID,
		Activator: g.Activator,
		Position:  g.Position,
		Radius:    g.ExplosionRadius,
	})
}

func (s *Simulation) removeGrenades(ctx context.Context, ids []string) {
	for _, id := range ids {
		delete(s.state.Grenades, id)
		s.events.Broadcast(ctx, UnspawnEvent{ObjectType: ObjectGrenade, ID: id})
	}
}

func (s *Simulation) stepWeaponTimers(ctx context.Context, delta time.Duration) {
	for _, id := range slices.Sorted(maps.Keys(s.state.Weapons)) {
		if weapon, done := s.state.Weapons[id].Update(delta); done {
			s.sendWeaponUpdate(ctx, id, weapon)
		}
	}
}

// stepRespawns は死亡からRespawnDelay経過したプレイヤーを初期装備で復活させます。
// 死亡中に受けた移動入力は残るので、復活直後からその入力で動きます。
func (s *Simulation) stepRespawns(ctx context.Context) {
	if s.config.RespawnDelay <= 0 {
		return
	}
	now := s.clock.Now()
	for _, id := range s.state.PlayerIDs() {
		p := s.state.Players[id]
		if p.IsAlive || now.Sub(p.diedAt) < s.config.RespawnDelay {
			continue
		}
		s.respawn(ctx, p)
	}
}

func (s *Simulation) respawn(ctx context.Context, p *Player) {
	loadout := NewPlayerLoadout(s.clock)
	s.state.SetLoadout(p.SessionID, loadout)
	p.respawn(s.config.SpawnPoint)
	p.Equip(loadout.Inventory)

	s.events.Broadcast(ctx, SpawnEvent{Player: *p})
	s.events.Broadcast(ctx, newHealthUpdate(p))
	s.sendFullInventory(ctx, p.SessionID)
	slog.DebugContext(ctx, "player respawned", "sessionID", p.SessionID)
}
