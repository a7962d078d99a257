package application

import (
	"fmt"

	"skirmish/server/domain"
	"skirmish/utils"
)

// Command はクライアントから届くコマンドの閉じた直和型です。
type Command interface {
	CommandName() string
	validate() error
}

type MoveInputCommand struct {
	Horizontal float64 `json:"horizontal"`
	Vertical   float64 `json:"vertical"`
}

type AimCommand struct {
	Direction Vector2 `json:"direction"`
}

type ShootCommand struct {
	Position   Vector2 `json:"position"`
	Direction  Vector2 `json:"direction"`
	WeaponName string  `json:"weaponName"`
}

type InventorySwitchCommand struct {
	SlotIndex  int    `json:"slotIndex"`
	WeaponName string `json:"weaponName"`
}

type UseItemCommand struct {
	SlotIndex int `json:"slotIndex"`
}

type ThrowGrenadeCommand struct {
	Position  Vector2 `json:"position"`
	Direction Vector2 `json:"direction"`
}

type MeleeAttackCommand struct {
	TargetID domain.SessionID `json:"targetId"`
	Damage   int              `json:"damage"`
}

type BulletCollideCommand struct {
	ID string `json:"id"`
}

type ReloadCommand struct{}

// UnknownCommand は知らないtypeのメッセージです。エラーではなく1つの種類として扱います。
type UnknownCommand struct {
	Type string
}

func (MoveInputCommand) CommandName() string { return "moveInput" }
func (AimCommand) CommandName() string { return "aim" }
func (ShootCommand) CommandName() string { return "shoot" }
func (InventorySwitchCommand) CommandName() string { return "inventorySwitch" }
func (UseItemCommand) CommandName() string { return "useItem" }
func (ThrowGrenadeCommand) CommandName() string { return "throwGrenade" }
func (MeleeAttackCommand) CommandName() string { return "meleeAttack" }
func (BulletCollideCommand) CommandName() string { return "bulletCollide" }
func (ReloadCommand) CommandName() string { return "reload" }
func (c UnknownCommand) CommandName() string { return c.Type }

func (c MoveInputCommand) validate() error {
	if !utils.Finite(c.Horizontal, c.Vertical) {
		return fmt.Errorf("%w: non-finite input", ErrInvalidCommand)
	}
	return nil
}

func (c AimCommand) validate() error {
	if !utils.Finite(c.Direction.X, c.Direction.Y) {
		return fmt.Errorf("%w: non-finite direction", ErrInvalidCommand)
	}
	return nil
}

func (c ShootCommand) validate() error {
	return validateThrow(c.Position, c.Direction)
}

func (c ThrowGrenadeCommand) validate() error {
	return validateThrow(c.Position, c.Direction)
}

func validateThrow(position, direction Vector2) error {
	if !utils.Finite(position.X, position.Y, direction.X, direction.Y) {
		return fmt.Errorf("%w: non-finite vector", ErrInvalidCommand)
	}
	if direction.IsZero() {
		return fmt.Errorf("%w: zero direction", ErrInvalidCommand)
	}
	return nil
}

func (InventorySwitchCommand) validate() error { return nil }
func (UseItemCommand) validate() error { return nil }
func (ReloadCommand) validate() error { return nil }
func (UnknownCommand) validate() error { return nil }

func (c MeleeAttackCommand) validate() error {
	if c.TargetID.IsEmpty() {
		return fmt.Errorf("%w: missing targetId", ErrInvalidCommand)
	}
	return nil
}

func (c BulletCollideCommand) validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: missing bullet id", ErrInvalidCommand)
	}
	return nil
}

// ParseCommand はエンベロープをデコードしてコマンドに変換します。
// 壊れたメッセージはErrInvalidCommandでラップして返します。
func ParseCommand(codec domain.Codec, data []byte) (Command, error) {
	env, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCommand, err)
	}
	switch env.Type {
	case "moveInput":
		return decodeCommand[MoveInputCommand](codec, env)
	case "aim":
		return decodeCommand[AimCommand](codec, env)
	case "shoot":
		return decodeCommand[ShootCommand](codec, env)
	case "inventorySwitch":
		return decodeCommand[InventorySwitchCommand](codec, env)
	case "useItem":
		return decodeCommand[UseItemCommand](codec, env)
	case "throwGrenade":
		return decodeCommand[ThrowGrenadeCommand](codec, env)
	case "meleeAttack":
		return decodeCommand[MeleeAttackCommand](codec, env)
	case "bulletCollide":
		return decodeCommand[BulletCollideCommand](codec, env)
	case "reload":
		return decodeCommand[ReloadCommand](codec, env)
	default:
		return UnknownCommand{Type: env.Type}, nil
	}
}

func decodeCommand[T Command](codec domain.Codec, env domain.Envelope) (Command, error) {
	var cmd T
	if err := codec.DecodePayload(env, &cmd); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidCommand, env.Type, err)
	}
	if err := cmd.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", env.Type, err)
	}
	return cmd, nil
}
