package application

import (
	"math"
	"math/rand/v2"
)

const (
	botDangerDist = 3.0  // 弾丸回避を始める距離
	botNoiseAngle = 0.52 // ±30度 (π/6 ≈ 0.52 rad)
	rushChance    = 0.02 // 毎tick 2% の確率で突撃
	botFireRange  = 12.0 // この距離以内なら撃つ
)

// RuleBotController はルールベースのボットAIです。
// ボットごとに異なる個性パラメータを持ちます。
type RuleBotController struct {
	CloseRange float64 // 後退を始める距離
	MidRange   float64 // ストレイフを始める距離
	StrafeSign float64 // +1: 反時計回り, -1: 時計回り
}

// NewRuleBotController はランダムな個性を持つボットAIを生成します。
func NewRuleBotController() *RuleBotController {
	strafeSign := 1.0
	if rand.Float64() < 0.5 {
		strafeSign = -1.0
	}
	return &RuleBotController{
		CloseRange: 3.0 + rand.Float64()*4.0,   // 3〜7
		MidRange:   10.0 + rand.Float64()*10.0, // 10〜20
		StrafeSign: strafeSign,
	}
}

func (r *RuleBotController) Decide(self Player, players []Player, bullets []BulletState) BotAction {
	nearest, found := r.findNearestEnemy(self, players)

	var action BotAction
	if found {
		toEnemy := nearest.Position.Sub(self.Position)
		if dist := toEnemy.Magnitude(); dist > 0.001 {
			action.Aim = toEnemy.Normalize()
			action.Shoot = dist <= botFireRange
		}
	}

	// 被弾回避を優先
	if dir, ok := r.evadeBullet(self, bullets); ok {
		action.Move = addNoise(dir)
		return action
	}
	if action.Aim.IsZero() {
		return action
	}

	dist := nearest.Position.Distance(self.Position)
	n := action.Aim

	// ランダム突撃: 一定確率で距離に関係なく接近
	if rand.Float64() < rushChance {
		action.Move = addNoise(n)
		return action
	}

	switch {
	case dist < r.CloseRange:
		// 近距離: 後退
		action.Move = n.Scale(-1)
	case dist < r.MidRange:
		// 中距離: 横移動（ストレイフ方向はボットごとに異なる）
		action.Move = Vector2{X: -n.Y * r.StrafeSign, Y: n.X * r.StrafeSign}
	default:
		// 遠距離: 接近
		action.Move = n
	}
	action.Move = addNoise(action.Move)
	return action
}

// evadeBullet は自分に向かってくる弾丸を回避する方向を返します。
func (r *RuleBotController) evadeBullet(self Player, bullets []BulletState) (Vector2, bool) {
	closestDist := math.MaxFloat64
	var closest *BulletState

	for i := range bullets {
		b := &bullets[i]
		if b.Activator == self.SessionID {
			continue
		}
		toSelf := self.Position.Sub(b.Position)
		dist := toSelf.Magnitude()
		if dist > botDangerDist {
			continue
		}
		// 弾丸が自分に向かっているか確認（内積 > 0）
		if toSelf.X*b.Direction.X+toSelf.Y*b.Direction.Y <= 0 {
			continue
		}
		if dist < closestDist {
			closestDist = dist
			closest = b
		}
	}

	if closest == nil || closest.Direction.IsZero() {
		return Vector2{}, false
	}
	// 弾丸の進行方向に対して垂直に回避
	d := closest.Direction.Normalize()
	return Vector2{X: -d.Y, Y: d.X}, true
}

// findNearestEnemy は最寄りの生存敵を探します。
func (r *RuleBotController) findNearestEnemy(self Player, players []Player) (Player, bool) {
	var nearest Player
	found := false
	nearestDist := math.MaxFloat64
	for _, other := range players {
		if other.SessionID == self.SessionID || !other.IsAlive {
			continue
		}
		if d := other.Position.Distance(self.Position); d < nearestDist {
			nearest, nearestDist, found = other, d, true
		}
	}
	return nearest, found
}

// addNoise は方向ベクトルにランダムな角度ノイズを加えます。
func addNoise(dir Vector2) Vector2 {
	return dir.Rotate((rand.Float64()*2 - 1) * botNoiseAngle)
}
