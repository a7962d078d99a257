package application

import (
	"time"

	"skirmish/server/domain"
)

const (
	DefaultMaxHealth = 100
	DefaultMaxShield = 100
)

// Player はフィールド上のプレイヤーです。sessionIDは接続中は変わりません。
type Player struct {
	SessionID        domain.SessionID `json:"sessionId"`
	Position         Vector2          `json:"position"`
	Health           int              `json:"health"`
	MaxHealth        int              `json:"maxHealth"`
	Shield           int              `json:"shield"`
	MaxShield        int              `json:"maxShield"`
	IsAlive          bool             `json:"isAlive"`
	CurrentWeapon    string           `json:"currentWeapon"`
	CurrentSlotIndex int              `json:"currentSlotIndex"`

	diedAt time.Time
}

func NewPlayer(sessionID domain.SessionID, position Vector2) *Player {
	return &Player{
		SessionID:     sessionID,
		Position:      position,
		Health:        DefaultMaxHealth,
		MaxHealth:     DefaultMaxHealth,
		MaxShield:     DefaultMaxShield,
		IsAlive:       true,
		CurrentWeapon: WeaponHand,
	}
}

// Heal は体力を回復し、実際に回復した量を返します。死亡中は回復しません。
func (p *Player) Heal(amount int) int {
	if !p.IsAlive || amount <= 0 {
		return 0
	}
	before := p.Health
	p.Health = min(p.MaxHealth, p.Health+amount)
	return p.Health - before
}

func (p *Player) AddShield(amount int) int {
	if !p.IsAlive || amount <= 0 {
		return 0
	}
	before := p.Shield
	p.Shield = min(p.MaxShield, p.Shield+amount)
	return p.Shield - before
}

// Equip はインベントリの選択中アイテムをプレイヤーの表示状態に反映します。
func (p *Player) Equip(inv *Inventory) {
	p.CurrentSlotIndex = inv.CurrentSlot()
	item, ok := inv.CurrentItem()
	switch {
	case !ok:
		p.CurrentWeapon = ""
	case item.Type == ItemHand:
		p.CurrentWeapon = WeaponHand
	case item.Type == ItemWeapon:
		p.CurrentWeapon = item.WeaponName
	default:
		p.CurrentWeapon = ""
	}
}

// respawn は体力を満タンにしシールドを0にして復活させます。
func (p *Player) respawn(position Vector2) {
	p.Position = position
	p.Health = p.MaxHealth
	p.Shield = 0
	p.IsAlive = true
	p.diedAt = time.Time{}
}
