package application

import (
	"maps"
	"slices"
	"time"
)

// AmmoType は予備弾薬の種別です。
type AmmoType string

const (
	AmmoPistol  AmmoType = "pistol"
	AmmoRifle   AmmoType = "rifle"
	AmmoSniper  AmmoType = "sniper"
	AmmoShotgun AmmoType = "shotgun"
)

// BulletType は弾の種別です。生成時に速度・寿命・ダメージが決まります。
type BulletType string

const (
	BulletPistol  BulletType = "Pistol"
	BulletRifle   BulletType = "Rifle"
	BulletSniper  BulletType = "Sniper"
	BulletShotgun BulletType = "Shotgun"
)

const (
	WeaponPistol  = "Pistol"
	WeaponSMG     = "SMG"
	WeaponRifle   = "Rifle"
	WeaponSniper  = "Sniper"
	WeaponShotgun = "Shotgun"
	WeaponHand    = "Hand"
)

// WeaponConfig は武器ごとの固定データです。実行中に変更されることはありません。
type WeaponConfig struct {
	Name             string
	Damage           int
	FireRate         time.Duration
	MagazineCapacity int
	ReloadTime       time.Duration
	BulletSpeed      float64 // units/tick
	BulletLifetime   time.Duration
	AmmoType         AmmoType
	BulletType       BulletType
	PelletsPerShot   int     // 0 なら単発
	SpreadAngle      float64 // 度
}

var weaponConfigs = map[string]WeaponConfig{
	WeaponPistol: {
		Name:             WeaponPistol,
		Damage:           15,
		FireRate:         400 * time.Millisecond,
		MagazineCapacity: 12,
		ReloadTime:       1500 * time.Millisecond,
		BulletSpeed:      0.5,
		BulletLifetime:   2000 * time.Millisecond,
		AmmoType:         AmmoPistol,
		BulletType:       BulletPistol,
	},
	WeaponSMG: {
		Name:             WeaponSMG,
		Damage:           10,
		FireRate:         100 * time.Millisecond,
		MagazineCapacity: 30,
		ReloadTime:       2000 * time.Millisecond,
		BulletSpeed:      0.55,
		BulletLifetime:   1800 * time.Millisecond,
		AmmoType:         AmmoPistol,
		BulletType:       BulletPistol,
	},
	WeaponRifle: {
		Name:             WeaponRifle,
		Damage:           25,
		FireRate:         200 * time.Millisecond,
		MagazineCapacity: 30,
		ReloadTime:       2500 * time.Millisecond,
		BulletSpeed:      0.7,
		BulletLifetime:   2500 * time.Millisecond,
		AmmoType:         AmmoRifle,
		BulletType:       BulletRifle,
	},
	WeaponSniper: {
		Name:             WeaponSniper,
		Damage:           75,
		FireRate:         1200 * time.Millisecond,
		MagazineCapacity: 5,
		ReloadTime:       3000 * time.Millisecond,
		BulletSpeed:      1.2,
		BulletLifetime:   3000 * time.Millisecond,
		AmmoType:         AmmoSniper,
		BulletType:       BulletSniper,
	},
	WeaponShotgun: {
		Name:             WeaponShotgun,
		Damage:           12,
		FireRate:         800 * time.Millisecond,
		MagazineCapacity: 8,
		ReloadTime:       2500 * time.Millisecond,
		BulletSpeed:      0.45,
		BulletLifetime:   1500 * time.Millisecond,
		AmmoType:         AmmoShotgun,
		BulletType:       BulletShotgun,
		PelletsPerShot:   8,
		SpreadAngle:      15,
	},
}

func LookupWeapon(name string) (WeaponConfig, bool) {
	cfg, ok := weaponConfigs[name]
	return cfg, ok
}

// WeaponNames は武器名を辞書順で返します。
func WeaponNames() []string {
	return slices.Sorted(maps.Keys(weaponConfigs))
}
