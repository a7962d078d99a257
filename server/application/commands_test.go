package application

import (
	"errors"
	"testing"

	"skirmish/server/domain"
)

func TestParseCommand(t *testing.T) {
	codec := domain.JSONCodec{}
	tests := []struct {
		name string
		in   string
		want Command
	}{
		{"moveInput", `{"type":"moveInput","payload":{"horizontal":1,"vertical":-1}}`, MoveInputCommand{Horizontal: 1, Vertical: -1}},
		{"shoot", `{"type":"shoot","payload":{"position":{"x":1,"y":2},"direction":{"x":0,"y":1},"weaponName":"Rifle"}}`,
			ShootCommand{Position: Vector2{X: 1, Y: 2}, Direction: Vector2{Y: 1}, WeaponName: "Rifle"}},
		{"inventorySwitch", `{"type":"inventorySwitch","payload":{"slotIndex":2,"weaponName":"Rifle"}}`, InventorySwitchCommand{SlotIndex: 2, WeaponName: "Rifle"}},
		{"meleeAttack", `{"type":"meleeAttack","payload":{"targetId":"abc"}}`, MeleeAttackCommand{TargetID: "abc"}},
		{"reload without payload", `{"type":"reload"}`, ReloadCommand{}},
		{"unknown", `{"type":"dance","payload":{}}`, UnknownCommand{Type: "dance"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(codec, []byte(tt.in))
			if err != nil {
				t.Fatalf("ParseCommand error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseCommand = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseCommand_Invalid(t *testing.T) {
	codec := domain.JSONCodec{}
	inputs := []string{
		``,
		`not json`,
		`{"payload":{}}`,
		`{"type":"shoot","payload":{"position":{"x":0,"y":0},"direction":{"x":0,"y":0}}}`,
		`{"type":"useItem","payload":{"slotIndex":"two"}}`,
		`{"type":"meleeAttack","payload":{}}`,
		`{"type":"bulletCollide","payload":{}}`,
	}
	for _, in := range inputs {
		if _, err := ParseCommand(codec, []byte(in)); !errors.Is(err, ErrInvalidCommand) {
			t.Errorf("ParseCommand(%q) error = %v, want %v", in, err, ErrInvalidCommand)
		}
	}
}

func TestParseCommand_Msgpack(t *testing.T) {
	codec := domain.MsgpackCodec{}
	data, err := codec.Encode("useItem", UseItemCommand{SlotIndex: 3})
	if err != nil {
		t.Fatal(err)
	}
	got, err := ParseCommand(codec, data)
	if err != nil {
		t.Fatalf("ParseCommand error = %v", err)
	}
	if got != (UseItemCommand{SlotIndex: 3}) {
		t.Errorf("ParseCommand = %#v, want slot 3", got)
	}
}

func TestReason(t *testing.T) {
	if got := Reason(ErrFireRateCooldown); got != "FireRateCooldown" {
		t.Errorf("Reason = %q, want FireRateCooldown", got)
	}
	wrapped := errors.Join(errors.New("context"), ErrSlotEmpty)
	if got := Reason(wrapped); got != "SlotEmpty" {
		t.Errorf("Reason(wrapped) = %q, want SlotEmpty", got)
	}
	if got := Reason(errors.New("boom")); got != "Internal" {
		t.Errorf("Reason(other) = %q, want Internal", got)
	}
}
