package application

import (
	"context"
	"log/slog"

	"skirmish/server/domain"
)

// handleMoveInput は次のtickで使う入力を更新します。0入力は移動停止です。
func (s *Simulation) handleMoveInput(sessionID domain.SessionID, c MoveInputCommand) {
	input := Vector2{X: c.Horizontal, Y: c.Vertical}
	if input.IsZero() {
		delete(s.state.Inputs, sessionID)
		return
	}
	s.state.Inputs[sessionID] = input
}

func (s *Simulation) handleShoot(ctx context.Context, player *Player, c ShootCommand) error {
	if !player.IsAlive {
		return ErrPlayerDead
	}
	weaponName := c.WeaponName
	if weaponName == "" {
		weaponName = player.CurrentWeapon
	}
	// 持っていない武器は撃てない。未知の名前はTryShootがInvalidWeaponで弾く
	if _, known := LookupWeapon(weaponName); known && !s.state.Inventories[player.SessionID].HasWeapon(weaponName) {
		return ErrWeaponNotFound
	}
	shot, err := s.state.Weapons[player.SessionID].TryShoot(c.Position, c.Direction, weaponName)
	if err != nil {
		return err
	}
	for _, spawn := range shot.Projectiles {
		b := NewBullet(player.SessionID, spawn, shot.Weapon)
		s.state.Bullets[b.ID] = b
		bs := newBulletState(b)
		s.events.Broadcast(ctx, ServerSpawnEvent{ObjectType: ObjectBullet, Bullet: &bs})
	}
	s.sendWeaponUpdate(ctx, player.SessionID, weaponName)
	return nil
}

func (s *Simulation) handleReload(ctx context.Context, player *Player) error {
	if !player.IsAlive {
		return ErrPlayerDead
	}
	cfg, err := s.state.Weapons[player.SessionID].TryReload()
	if err != nil {
		return err
	}
	slog.DebugContext(ctx, "reload started", "sessionID", player.SessionID, "weapon", cfg.Name, "reloadTime", cfg.ReloadTime)
	s.sendWeaponUpdate(ctx, player.SessionID, cfg.Name)
	return nil
}

// handleInventorySwitch はスロットを切り替えます。武器の判定はクライアントの申告ではなくインベントリの中身で行います。
func (s *Simulation) handleInventorySwitch(ctx context.Context, player *Player, c InventorySwitchCommand) error {
	if !player.IsAlive {
		return ErrPlayerDead
	}
	inv := s.state.Inventories[player.SessionID]
	if err := inv.SwitchToSlot(c.SlotIndex); err != nil {
		return err
	}
	player.Equip(inv)
	s.state.Weapons[player.SessionID].OnWeaponSwitch(player.CurrentWeapon)

	s.events.Broadcast(ctx, InventoryUpdateEvent{
		SessionID:        player.SessionID,
		CurrentSlotIndex: player.CurrentSlotIndex,
		CurrentWeapon:    player.CurrentWeapon,
	})
	if _, ok := LookupWeapon(player.CurrentWeapon); ok {
		s.sendWeaponUpdate(ctx, player.SessionID, player.CurrentWeapon)
	}
	return nil
}

// handleUseItem は回復パックとシールドパックだけを扱います。グレネードは throwGrenade で使います。
func (s *Simulation) handleUseItem(ctx context.Context, player *Player, c UseItemCommand) error {
	if !player.IsAlive {
		return ErrPlayerDead
	}
	inv := s.state.Inventories[player.SessionID]
	if err := checkSlot(c.SlotIndex); err != nil {
		return err
	}
	item, ok := inv.ItemAt(c.SlotIndex)
	if !ok {
		return ErrSlotEmpty
	}
	if item.Type != ItemHealth && item.Type != ItemShield {
		return ErrNotConsumable
	}
	if _, err := inv.UseConsumable(c.SlotIndex); err != nil {
		return err
	}
	switch item.Type {
	case ItemHealth:
		player.Heal(PackRestoreAmount)
	case ItemShield:
		player.AddShield(PackRestoreAmount)
	}
	s.events.Broadcast(ctx, newHealthUpdate(player))
	s.syncInventory(ctx, player, inv)
	return nil
}

func (s *Simulation) handleThrowGrenade(ctx context.Context, player *Player, c ThrowGrenadeCommand) error {
	if !player.IsAlive {
		return ErrPlayerDead
	}
	inv := s.state.Inventories[player.SessionID]
	slot, ok := inv.FindSlot(ItemGrenade)
	if !ok {
		return ErrNoGrenade
	}
	if _, err := inv.UseConsumable(slot); err != nil {
		return err
	}
	g := NewGrenade(player.SessionID, c.Position, c.Direction)
	s.state.Grenades[g.ID] = g
	gs := newGrenadeState(g)
	s.events.Broadcast(ctx, ServerSpawnEvent{ObjectType: ObjectGrenade, Grenade: &gs})
	s.syncInventory(ctx, player, inv)
	return nil
}

// syncInventory は消費後のインベントリを本人に送り、選択スロットが変わっていれば全員に知らせます。
func (s *Simulation) syncInventory(ctx context.Context, player *Player, inv *Inventory) {
	s.sendFullInventory(ctx, player.SessionID)
	if inv.CurrentSlot() == player.CurrentSlotIndex {
		return
	}
	player.Equip(inv)
	s.events.Broadcast(ctx, InventoryUpdateEvent{
		SessionID:        player.SessionID,
		CurrentSlotIndex: player.CurrentSlotIndex,
		CurrentWeapon:    player.CurrentWeapon,
	})
}

// handleMeleeAttack は選択中のアイテムがHandの時だけ近接攻撃を通します。射程は判定しません。
func (s *Simulation) handleMeleeAttack(ctx context.Context, player *Player, c MeleeAttackCommand) error {
	if !player.IsAlive {
		return ErrPlayerDead
	}
	item, ok := s.state.Inventories[player.SessionID].CurrentItem()
	if !ok || item.Type != ItemHand {
		return ErrNotMelee
	}
	if c.TargetID == player.SessionID {
		return ErrInvalidCommand
	}
	target, ok := s.state.Players[c.TargetID]
	if !ok {
		return ErrPlayerNotFound
	}
	if !target.IsAlive {
		return ErrPlayerDead
	}
	dmg := c.Damage
	if dmg <= 0 {
		dmg = DefaultMeleeDamage
	}
	s.events.Broadcast(ctx, MeleeAttackEvent{SessionID: player.SessionID, TargetID: target.SessionID, Damage: dmg})
	s.damage(ctx, target, dmg, player.SessionID, "melee")
	return nil
}

func (s *Simulation) handleBulletCollide(ctx context.Context, c BulletCollideCommand) {
	b, ok := s.state.Bullets[c.ID]
	if !ok {
		slog.DebugContext(ctx, "bulletCollide for unknown bullet", "bulletID", c.ID)
		return
	}
	b.HasCollided = true
}
