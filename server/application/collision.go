package application

import (
	"maps"
	"slices"

	"skirmish/server/domain"
)

// HitRadius 以内にいるプレイヤーに弾が当たります。
// 毎tickの位置だけで判定するため、1tickの移動量がこれを超える弾はすり抜けることがあります。
const HitRadius = 0.5

// FindBulletHit は発射者を除く生存プレイヤーのうち、HitRadius以内で最も近いプレイヤーを返します。
func FindBulletHit(b *Bullet, players map[domain.SessionID]*Player) (*Player, bool) {
	var (
		hit  *Player
		best = HitRadius
	)
	for _, id := range slices.Sorted(maps.Keys(players)) {
		p := players[id]
		if id == b.Activator || !p.IsAlive {
			continue
		}
		d := p.Position.Distance(b.Position)
		if d <= best && (hit == nil || d < best) {
			hit, best = p, d
		}
	}
	return hit, hit != nil
}
