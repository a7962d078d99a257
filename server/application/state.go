package application

import (
	"maps"
	"slices"

	"skirmish/server/domain"
)

// SimulationState はシミュレーションの全エンティティを保持します。
// 変更してよいのはRoomのゴルーチン上で動くコマンドハンドラとTickだけです。
type SimulationState struct {
	Players     map[domain.SessionID]*Player
	Inventories map[domain.SessionID]*Inventory
	Ammo        map[domain.SessionID]*AmmoManager
	Weapons     map[domain.SessionID]*WeaponSystem
	Inputs      map[domain.SessionID]Vector2
	Bullets     map[string]*Bullet
	Grenades    map[string]*Grenade
}

func NewSimulationState() *SimulationState {
	return &SimulationState{
		Players:     make(map[domain.SessionID]*Player),
		Inventories: make(map[domain.SessionID]*Inventory),
		Ammo:        make(map[domain.SessionID]*AmmoManager),
		Weapons:     make(map[domain.SessionID]*WeaponSystem),
		Inputs:      make(map[domain.SessionID]Vector2),
		Bullets:     make(map[string]*Bullet),
		Grenades:    make(map[string]*Grenade),
	}
}

// Loadout はプレイヤー1人分の装備一式です。
type Loadout struct {
	Inventory *Inventory
	Ammo      *AmmoManager
	Weapons   *WeaponSystem
}

func NewPlayerLoadout(clock domain.Clock) Loadout {
	inv := NewLoadout()
	ammo := NewAmmoManager()
	return Loadout{
		Inventory: inv,
		Ammo:      ammo,
		Weapons:   NewWeaponSystem(clock, ammo, inv),
	}
}

func (s *SimulationState) AddPlayer(p *Player, l Loadout) {
	s.Players[p.SessionID] = p
	s.SetLoadout(p.SessionID, l)
	p.Equip(l.Inventory)
}

func (s *SimulationState) SetLoadout(id domain.SessionID, l Loadout) {
	s.Inventories[id] = l.Inventory
	s.Ammo[id] = l.Ammo
	s.Weapons[id] = l.Weapons
}

// RemovePlayer はプレイヤーに紐づく全ての状態をまとめて削除します。
// 発射済みの弾とグレネードは残ります。
func (s *SimulationState) RemovePlayer(id domain.SessionID) bool {
	_, ok := s.Players[id]
	delete(s.Players, id)
	delete(s.Inventories, id)
	delete(s.Ammo, id)
	delete(s.Weapons, id)
	delete(s.Inputs, id)
	return ok
}

func (s *SimulationState) PlayerIDs() []domain.SessionID {
	return slices.Sorted(maps.Keys(s.Players))
}

func (s *SimulationState) BulletIDs() []string {
	return slices.Sorted(maps.Keys(s.Bullets))
}

func (s *SimulationState) GrenadeIDs() []string {
	return slices.Sorted(maps.Keys(s.Grenades))
}
