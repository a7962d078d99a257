package application

import "errors"

// 操作が拒否された理由。Reasonで安定したコード文字列に変換して actionRejected に載せます。
var (
	ErrInvalidWeapon    = errors.New("invalid weapon")
	ErrWeaponNotFound   = errors.New("weapon state not found")
	ErrReloading        = errors.New("reloading")
	ErrFireRateCooldown = errors.New("fire rate cooldown")
	ErrMagazineEmpty    = errors.New("magazine empty")
	ErrAlreadyReloading = errors.New("already reloading")
	ErrMagazineFull     = errors.New("magazine full")
	ErrNoReserveAmmo    = errors.New("no reserve ammo")
	ErrNoWeaponEquipped = errors.New("no weapon equipped")
	ErrSlotOutOfRange   = errors.New("slot out of range")
	ErrSlotEmpty        = errors.New("slot empty")
	ErrSlotReserved     = errors.New("slot is reserved for hand")
	ErrNotConsumable    = errors.New("item is not consumable")
	ErrNoGrenade        = errors.New("no grenade in inventory")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrPlayerDead       = errors.New("player is dead")
	ErrNotMelee         = errors.New("active item is not hand")
	ErrUnknownCommand   = errors.New("unknown command")
	ErrInvalidCommand   = errors.New("invalid command")
)

var reasons = []struct {
	err  error
	code string
}{
	{ErrInvalidWeapon, "InvalidWeapon"},
	{ErrWeaponNotFound, "WeaponNotFound"},
	{ErrReloading, "Reloading"},
	{ErrFireRateCooldown, "FireRateCooldown"},
	{ErrMagazineEmpty, "MagazineEmpty"},
	{ErrAlreadyReloading, "AlreadyReloading"},
	{ErrMagazineFull, "MagazineFull"},
	{ErrNoReserveAmmo, "NoReserveAmmo"},
	{ErrNoWeaponEquipped, "NoWeaponEquipped"},
	{ErrSlotOutOfRange, "SlotOutOfRange"},
	{ErrSlotEmpty, "SlotEmpty"},
	{ErrSlotReserved, "SlotReserved"},
	{ErrNotConsumable, "NotConsumable"},
	{ErrNoGrenade, "NoGrenade"},
	{ErrPlayerNotFound, "PlayerNotFound"},
	{ErrPlayerDead, "PlayerDead"},
	{ErrNotMelee, "NotMelee"},
	{ErrUnknownCommand, "UnknownCommand"},
	{ErrInvalidCommand, "InvalidCommand"},
}

// Reason はエラーを理由コードに変換します。該当しなければ "Internal" を返します。
func Reason(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.code
		}
	}
	return "Internal"
}
