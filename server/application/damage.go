package application

// ApplyDamage はシールド、体力の順にダメージを吸収させます。
// この呼び出しで死亡した場合だけtrueを返すので、キルイベントは1回しか出ません。
func ApplyDamage(p *Player, amount int) bool {
	if !p.IsAlive || amount <= 0 {
		return false
	}
	absorbed := min(p.Shield, amount)
	p.Shield -= absorbed
	p.Health -= amount - absorbed
	if p.Health > 0 {
		return false
	}
	p.Health = 0
	p.IsAlive = false
	return true
}
