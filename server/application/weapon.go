package application

import (
	"math"
	"math/rand/v2"
	"time"

	"skirmish/server/domain"
)

// WeaponState は武器ごとの可変状態です。
type WeaponState struct {
	CurrentAmmo  int
	IsReloading  bool
	NextFireTime time.Time
}

// ProjectileSpawn は発射する弾1発分の初期位置と向きです。
type ProjectileSpawn struct {
	Position  Vector2
	Direction Vector2
}

type Shot struct {
	Weapon      WeaponConfig
	Projectiles []ProjectileSpawn
}

// WeaponView は weaponUpdate で所有者に送る武器の状態です。
type WeaponView struct {
	WeaponName          string   `json:"weaponName"`
	CurrentAmmo         int      `json:"currentAmmo"`
	MagazineCapacity    int      `json:"magazineCapacity"`
	ReserveAmmo         int      `json:"reserveAmmo"`
	AmmoType            AmmoType `json:"ammoType"`
	IsReloading         bool     `json:"isReloading"`
	ReloadTimeRemaining int64    `json:"reloadTimeRemaining"` // ms
}

// WeaponSystem はプレイヤー1人分の射撃とリロードの状態機械です。
// リロード中の武器は常に高々1つで、インスタンスはプレイヤー間で共有しません。
type WeaponSystem struct {
	clock     domain.Clock
	ammo      *AmmoManager
	inventory *Inventory
	states    map[string]*WeaponState

	reloading       string
	reloadRemaining time.Duration

	randFloat func() float64
}

func NewWeaponSystem(clock domain.Clock, ammo *AmmoManager, inventory *Inventory) *WeaponSystem {
	ws := &WeaponSystem{
		clock:     clock,
		ammo:      ammo,
		inventory: inventory,
		states:    make(map[string]*WeaponState, len(weaponConfigs)),
		randFloat: rand.Float64,
	}
	for name, cfg := range weaponConfigs {
		ws.states[name] = &WeaponState{CurrentAmmo: cfg.MagazineCapacity}
	}
	return ws
}

// SetRand は散弾の乱数源を差し替えます。[0,1) を返す関数を渡します。
func (ws *WeaponSystem) SetRand(f func() float64) {
	ws.randFloat = f
}

func (ws *WeaponSystem) State(weaponName string) (WeaponState, bool) {
	s, ok := ws.states[weaponName]
	if !ok {
		return WeaponState{}, false
	}
	return *s, true
}

// Reloading はリロード中の武器名を返します。リロードしていなければ空文字です。
func (ws *WeaponSystem) Reloading() string { return ws.reloading }

func (ws *WeaponSystem) TryShoot(position, direction Vector2, weaponName string) (Shot, error) {
	cfg, ok := weaponConfigs[weaponName]
	if !ok {
		return Shot{}, ErrInvalidWeapon
	}
	state, ok := ws.states[weaponName]
	if !ok {
		return Shot{}, ErrWeaponNotFound
	}
	if state.IsReloading {
		return Shot{}, ErrReloading
	}
	now := ws.clock.Now()
	if now.Before(state.NextFireTime) {
		return Shot{}, ErrFireRateCooldown
	}
	if state.CurrentAmmo <= 0 {
		return Shot{}, ErrMagazineEmpty
	}

	state.CurrentAmmo--
	state.NextFireTime = now.Add(cfg.FireRate)

	aim := direction.Normalize()
	shot := Shot{Weapon: cfg}
	if cfg.PelletsPerShot > 0 {
		shot.Projectiles = make([]ProjectileSpawn, 0, cfg.PelletsPerShot)
		for range cfg.PelletsPerShot {
			offset := (ws.randFloat() - 0.5) * cfg.SpreadAngle
			shot.Projectiles = append(shot.Projectiles, ProjectileSpawn{
				Position:  position,
				Direction: aim.Rotate(offset * math.Pi / 180),
			})
		}
		return shot, nil
	}
	shot.Projectiles = []ProjectileSpawn{{Position: position, Direction: aim}}
	return shot, nil
}

// TryReload は装備中の武器のリロードを開始します。
func (ws *WeaponSystem) TryReload() (WeaponConfig, error) {
	item, ok := ws.inventory.CurrentItem()
	if !ok || item.Type != ItemWeapon {
		return WeaponConfig{}, ErrNoWeaponEquipped
	}
	cfg, ok := weaponConfigs[item.WeaponName]
	if !ok {
		return WeaponConfig{}, ErrInvalidWeapon
	}
	state, ok := ws.states[item.WeaponName]
	if !ok {
		return WeaponConfig{}, ErrWeaponNotFound
	}
	if ws.reloading != "" || state.IsReloading {
		return WeaponConfig{}, ErrAlreadyReloading
	}
	if state.CurrentAmmo >= cfg.MagazineCapacity {
		return WeaponConfig{}, ErrMagazineFull
	}
	if !ws.ammo.Has(cfg.AmmoType, 1) {
		return WeaponConfig{}, ErrNoReserveAmmo
	}

	state.IsReloading = true
	ws.reloading = cfg.Name
	ws.reloadRemaining = cfg.ReloadTime
	return cfg, nil
}

// Update はリロードタイマーを進めます。リロードが完了した場合はその武器名とtrueを返します。
func (ws *WeaponSystem) Update(delta time.Duration) (string, bool) {
	if ws.reloading == "" {
		return "", false
	}
	ws.reloadRemaining -= delta
	if ws.reloadRemaining > 0 {
		return "", false
	}
	name := ws.reloading
	ws.completeReload(name)
	ws.reloading = ""
	ws.reloadRemaining = 0
	return name, true
}

func (ws *WeaponSystem) completeReload(weaponName string) {
	cfg := weaponConfigs[weaponName]
	state := ws.states[weaponName]
	load := min(cfg.MagazineCapacity-state.CurrentAmmo, ws.ammo.Get(cfg.AmmoType))
	if load > 0 && ws.ammo.Use(cfg.AmmoType, load) {
		state.CurrentAmmo += load
	}
	state.IsReloading = false
}

// OnWeaponSwitch は進行中のリロードを取り消し、切替先の発射クールダウンをリセットします。
// 既に弾倉へ移した弾は戻しません。
func (ws *WeaponSystem) OnWeaponSwitch(weaponName string) {
	if ws.reloading != "" {
		if s, ok := ws.states[ws.reloading]; ok {
			s.IsReloading = false
		}
		ws.reloading = ""
		ws.reloadRemaining = 0
	}
	if s, ok := ws.states[weaponName]; ok {
		s.NextFireTime = time.Time{}
	}
}

func (ws *WeaponSystem) View(weaponName string) (WeaponView, bool) {
	cfg, ok := weaponConfigs[weaponName]
	if !ok {
		return WeaponView{}, false
	}
	state := ws.states[weaponName]
	v := WeaponView{
		WeaponName:       weaponName,
		CurrentAmmo:      state.CurrentAmmo,
		MagazineCapacity: cfg.MagazineCapacity,
		ReserveAmmo:      ws.ammo.Get(cfg.AmmoType),
		AmmoType:         cfg.AmmoType,
		IsReloading:      state.IsReloading,
	}
	if state.IsReloading && ws.reloading == weaponName {
		v.ReloadTimeRemaining = ws.reloadRemaining.Milliseconds()
	}
	return v, true
}
