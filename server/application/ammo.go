package application

// AmmoManager はプレイヤー1人分の予備弾薬を管理します。弾倉の弾はWeaponSystemが持ちます。
type AmmoManager struct {
	ammo    map[AmmoType]int
	maxAmmo map[AmmoType]int
}

func NewAmmoManager() *AmmoManager {
	return &AmmoManager{
		ammo: map[AmmoType]int{
			AmmoPistol:  60,
			AmmoRifle:   30,
			AmmoSniper:  0,
			AmmoShotgun: 0,
		},
		maxAmmo: map[AmmoType]int{
			AmmoPistol:  120,
			AmmoRifle:   90,
			AmmoSniper:  30,
			AmmoShotgun: 24,
		},
	}
}

func (m *AmmoManager) Get(t AmmoType) int { return m.ammo[t] }

func (m *AmmoManager) Max(t AmmoType) int { return m.maxAmmo[t] }

func (m *AmmoManager) Has(t AmmoType, amount int) bool {
	return m.ammo[t] >= amount
}

// Use は足りなければ何もせずfalseを返します。
func (m *AmmoManager) Use(t AmmoType, amount int) bool {
	if amount < 0 || !m.Has(t, amount) {
		return false
	}
	m.ammo[t] -= amount
	return true
}

// Add は既に上限ならfalseを返します。
func (m *AmmoManager) Add(t AmmoType, amount int) bool {
	current, limit := m.ammo[t], m.maxAmmo[t]
	if current >= limit {
		return false
	}
	m.ammo[t] = max(0, min(current+amount, limit))
	return true
}

func (m *AmmoManager) Set(t AmmoType, amount int) {
	m.ammo[t] = max(0, min(amount, m.maxAmmo[t]))
}

func (m *AmmoManager) Snapshot() map[AmmoType]int {
	out := make(map[AmmoType]int, len(m.ammo))
	for k, v := range m.ammo {
		out[k] = v
	}
	return out
}
