package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"skirmish/server/application"
	"skirmish/server/application/mocks"
	"skirmish/server/domain"

	"go.uber.org/mock/gomock"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type sentEvent struct {
	to     domain.SessionID // 空ならブロードキャスト
	except domain.SessionID
	event  application.Event
}

// recorder は送られたイベントを順番に記録するEventBroadcasterです。
type recorder struct {
	events []sentEvent
}

func (r *recorder) SendTo(ctx context.Context, id domain.SessionID, ev application.Event) {
	r.events = append(r.events, sentEvent{to: id, event: ev})
}

func (r *recorder) Broadcast(ctx context.Context, ev application.Event) {
	r.events = append(r.events, sentEvent{event: ev})
}

func (r *recorder) BroadcastExcept(ctx context.Context, except domain.SessionID, ev application.Event) {
	r.events = append(r.events, sentEvent{except: except, event: ev})
}

func (r *recorder) names() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.event.EventName())
	}
	return out
}

func (r *recorder) count(name string) int {
	n := 0
	for _, e := range r.events {
		if e.event.EventName() == name {
			n++
		}
	}
	return n
}

func (r *recorder) reset() { r.events = nil }

func newTestSimulation(t *testing.T) (*application.Simulation, *recorder, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	rec := &recorder{}
	cfg := application.DefaultConfig()
	sim := application.NewSimulation(cfg, clock, domain.JSONCodec{}, rec)
	return sim, rec, clock
}

func mustHandle(t *testing.T, sim *application.Simulation, id domain.SessionID, cmd application.Command) {
	t.Helper()
	if err := sim.Handle(context.Background(), id, cmd); err != nil {
		t.Fatalf("Handle(%s) error = %v", cmd.CommandName(), err)
	}
}

func giveWeapon(t *testing.T, sim *application.Simulation, id domain.SessionID, slot int, name string) {
	t.Helper()
	item := application.Item{Type: application.ItemWeapon, Name: name, WeaponName: name}
	if err := sim.State().Inventories[id].AddItem(slot, item); err != nil {
		t.Fatalf("AddItem(%d, %s) error = %v", slot, name, err)
	}
}

func rejections(rec *recorder) []string {
	var reasons []string
	for _, e := range rec.events {
		if rej, ok := e.event.(application.ActionRejectedEvent); ok {
			reasons = append(reasons, rej.Reason)
		}
	}
	return reasons
}

func sameNames(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestSimulation_JoinSendsInitialState(t *testing.T) {
	sim, rec, _ := newTestSimulation(t)
	ctx := context.Background()

	sim.Join(ctx, "a")
	rec.reset()
	sim.Join(ctx, "b")

	if len(rec.events) != 3 {
		t.Fatalf("events = %v, want 3 events", rec.names())
	}
	initial, ok := rec.events[0].event.(application.InitialStateEvent)
	if !ok || rec.events[0].to != "b" {
		t.Fatalf("first event = %#v, want initialState to b", rec.events[0])
	}
	if initial.SessionID != "b" || len(initial.Players) != 2 {
		t.Errorf("initialState = %+v, want self b and 2 players", initial)
	}
	inv, ok := rec.events[1].event.(application.FullInventoryUpdateEvent)
	if !ok || rec.events[1].to != "b" || len(inv.Slots) != application.InventorySlots {
		t.Errorf("second event = %#v, want fullInventoryUpdate to b", rec.events[1])
	}
	if rec.events[2].event.EventName() != "spawn" || rec.events[2].except != "b" {
		t.Errorf("third event = %#v, want spawn to everyone but b", rec.events[2])
	}
}

func TestSimulation_LeaveRemovesEverything(t *testing.T) {
	sim, rec, _ := newTestSimulation(t)
	ctx := context.Background()
	sim.Join(ctx, "a")
	mustHandle(t, sim, "a", application.MoveInputCommand{Horizontal: 1})
	rec.reset()

	sim.Leave(ctx, "a")

	st := sim.State()
	if len(st.Players)+len(st.Inventories)+len(st.Ammo)+len(st.Weapons)+len(st.Inputs) != 0 {
		t.Errorf("state not cleared: %+v", st)
	}
	if got := rec.names(); len(got) != 1 || got[0] != "player_left" {
		t.Errorf("events = %v, want [player_left]", got)
	}
	sim.Leave(ctx, "a")
	if len(rec.events) != 1 {
		t.Error("second leave should be a no-op")
	}
}

func TestSimulation_Movement(t *testing.T) {
	sim, rec, _ := newTestSimulation(t)
	ctx := context.Background()
	sim.Join(ctx, "a")
	mustHandle(t, sim, "a", application.MoveInputCommand{Horizontal: 3, Vertical: 4})
	rec.reset()

	sim.Step(ctx, time.Second)

	p := sim.State().Players["a"]
	want := application.Vector2{X: 3, Y: 4}
	if d := p.Position.Distance(want); d > 1e-9 {
		t.Errorf("Position = %v, want %v", p.Position, want)
	}
	if rec.count("serverPositionUpdate") != 1 {
		t.Errorf("events = %v, want one serverPositionUpdate", rec.names())
	}

	mustHandle(t, sim, "a", application.MoveInputCommand{})
	rec.reset()
	sim.Step(ctx, time.Second)
	if rec.count("serverPositionUpdate") != 0 {
		t.Errorf("zero input still moves: %v", rec.names())
	}
}

func TestSimulation_ShootHitsAndKills(t *testing.T) {
	sim, rec, clock := newTestSimulation(t)
	ctx := context.Background()
	sim.Join(ctx, "a")
	sim.Join(ctx, "b")
	sim.State().Players["b"].Position = application.Vector2{X: 0.7}
	giveWeapon(t, sim, "a", 3, application.WeaponSniper)
	rec.reset()

	mustHandle(t, sim, "a", application.ShootCommand{Direction: application.Vector2{X: 1}, WeaponName: application.WeaponSniper})
	if rec.count("serverSpawn") != 1 || rec.count("weaponUpdate") != 1 {
		t.Fatalf("events = %v, want serverSpawn and weaponUpdate", rec.names())
	}
	rec.reset()

	// 狙撃は1tickで1.2進むので、(0.7,0)のbから0.5以内
	sim.Step(ctx, 33*time.Millisecond)
	b := sim.State().Players["b"]
	if b.Health != 25 {
		t.Errorf("b.Health = %d, want 25", b.Health)
	}
	if len(sim.State().Bullets) != 0 {
		t.Errorf("bullets = %d, want 0", len(sim.State().Bullets))
	}
	want := []string{"healthUpdate", "serverUnspawn"}
	if got := rec.names(); len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("events = %v, want %v", got, want)
	}

	clock.Advance(1200 * time.Millisecond)
	rec.reset()
	mustHandle(t, sim, "a", application.ShootCommand{Direction: application.Vector2{X: 1}, WeaponName: application.WeaponSniper})
	sim.Step(ctx, 33*time.Millisecond)
	if b.IsAlive || b.Health != 0 {
		t.Errorf("b = %+v, want dead", b)
	}
	if rec.count("playerKilled") != 1 {
		t.Errorf("events = %v, want one playerKilled", rec.names())
	}
}

func TestSimulation_RejectionsGoToOwner(t *testing.T) {
	sim, rec, _ := newTestSimulation(t)
	ctx := context.Background()
	sim.Join(ctx, "a")
	rec.reset()

	mustHandle(t, sim, "a", application.ShootCommand{Direction: application.Vector2{X: 1}, WeaponName: application.WeaponPistol})
	mustHandle(t, sim, "a", application.ShootCommand{Direction: application.Vector2{X: 1}, WeaponName: application.WeaponPistol})

	last := rec.events[len(rec.events)-1]
	rej, ok := last.event.(application.ActionRejectedEvent)
	if !ok || last.to != "a" {
		t.Fatalf("last event = %#v, want actionRejected to a", last)
	}
	if rej.Action != "shoot" || rej.Reason != "FireRateCooldown" {
		t.Errorf("actionRejected = %+v, want shoot/FireRateCooldown", rej)
	}
}

func TestSimulation_HandleMessageErrors(t *testing.T) {
	sim, _, _ := newTestSimulation(t)
	ctx := context.Background()
	sim.Join(ctx, "a")

	if err := sim.HandleMessage(ctx, "a", []byte(`{"type":"dance"}`)); !errors.Is(err, application.ErrUnknownCommand) {
		t.Errorf("unknown command error = %v, want %v", err, application.ErrUnknownCommand)
	}
	if err := sim.HandleMessage(ctx, "a", []byte(`{oops`)); !errors.Is(err, application.ErrInvalidCommand) {
		t.Errorf("malformed error = %v, want %v", err, application.ErrInvalidCommand)
	}
	if err := sim.HandleMessage(ctx, "ghost", []byte(`{"type":"reload"}`)); !errors.Is(err, application.ErrPlayerNotFound) {
		t.Errorf("unknown player error = %v, want %v", err, application.ErrPlayerNotFound)
	}
	if err := sim.HandleMessage(ctx, "a", []byte(`{"type":"moveInput","payload":{"horizontal":1,"vertical":0}}`)); err != nil {
		t.Errorf("valid message error = %v", err)
	}
}

func TestSimulation_UseItem(t *testing.T) {
	sim, rec, _ := newTestSimulation(t)
	ctx := context.Background()
	sim.Join(ctx, "a")
	p := sim.State().Players["a"]
	p.Health = 50
	rec.reset()

	mustHandle(t, sim, "a", application.UseItemCommand{SlotIndex: 3})
	if p.Health != 75 {
		t.Errorf("Health = %d, want 75", p.Health)
	}
	mustHandle(t, sim, "a", application.UseItemCommand{SlotIndex: 4})
	if p.Shield != 25 {
		t.Errorf("Shield = %d, want 25", p.Shield)
	}
	if _, ok := sim.State().Inventories["a"].ItemAt(3); ok {
		t.Error("health pack slot should be empty")
	}

	rec.reset()
	mustHandle(t, sim, "a", application.UseItemCommand{SlotIndex: 5})
	mustHandle(t, sim, "a", application.UseItemCommand{SlotIndex: 3})
	var reasons []string
	for _, e := range rec.events {
		if rej, ok := e.event.(application.ActionRejectedEvent); ok {
			reasons = append(reasons, rej.Reason)
		}
	}
	if len(reasons) != 2 || reasons[0] != "NotConsumable" || reasons[1] != "SlotEmpty" {
		t.Errorf("reasons = %v, want [NotConsumable SlotEmpty]", reasons)
	}
}

func TestSimulation_InventorySwitchAndReload(t *testing.T) {
	sim, rec, _ := newTestSimulation(t)
	ctx := context.Background()
	sim.Join(ctx, "a")
	rec.reset()

	mustHandle(t, sim, "a", application.InventorySwitchCommand{SlotIndex: 1})
	p := sim.State().Players["a"]
	if p.CurrentWeapon != application.WeaponPistol || p.CurrentSlotIndex != 1 {
		t.Errorf("player = %+v, want Pistol in slot 1", p)
	}
	if rec.count("inventoryUpdate") != 1 || rec.count("weaponUpdate") != 1 {
		t.Errorf("events = %v", rec.names())
	}

	mustHandle(t, sim, "a", application.ShootCommand{Direction: application.Vector2{X: 1}})
	mustHandle(t, sim, "a", application.ReloadCommand{})
	if sim.State().Weapons["a"].Reloading() != application.WeaponPistol {
		t.Fatal("pistol should be reloading")
	}
	rec.reset()
	sim.Step(ctx, 1500*time.Millisecond)
	if sim.State().Weapons["a"].Reloading() != "" {
		t.Error("reload should be complete")
	}
	var update *application.WeaponUpdateEvent
	for _, e := range rec.events {
		if ev, ok := e.event.(application.WeaponUpdateEvent); ok && e.to == "a" {
			update = &ev
		}
	}
	if update == nil || update.CurrentAmmo != 12 || update.ReserveAmmo != 59 {
		t.Errorf("weaponUpdate = %+v, want 12 rounds and 59 reserve", update)
	}
}

// グレネードは寿命で爆発し、投げた本人も巻き込まれる
func TestSimulation_GrenadeExplosion(t *testing.T) {
	sim, rec, _ := newTestSimulation(t)
	ctx := context.Background()
	sim.Join(ctx, "a")
	sim.Join(ctx, "b")
	sim.State().Players["b"].Position = application.Vector2{X: 100}

	mustHandle(t, sim, "a", application.ThrowGrenadeCommand{Direction: application.Vector2{X: 1}})
	if len(sim.State().Grenades) != 1 {
		t.Fatalf("grenades = %d, want 1", len(sim.State().Grenades))
	}
	if item, _ := sim.State().Inventories["a"].ItemAt(5); item.Amount != 2 {
		t.Errorf("grenade stack = %d, want 2", item.Amount)
	}

	var g *application.Grenade
	for _, v := range sim.State().Grenades {
		g = v
	}
	rec.reset()
	sim.Step(ctx, application.GrenadeLifetime)

	a := sim.State().Players["a"]
	want := application.ExplosionDamage(application.GrenadeDamage, g.Position.Distance(a.Position), application.GrenadeExplosionRadius)
	if a.Health != 100-want {
		t.Errorf("a.Health = %d, want %d", a.Health, 100-want)
	}
	if sim.State().Players["b"].Health != 100 {
		t.Error("b outside radius took damage")
	}
	if rec.count("grenadeExplode") != 1 || rec.count("serverUnspawn") != 1 {
		t.Errorf("events = %v", rec.names())
	}
	if len(sim.State().Grenades) != 0 {
		t.Error("grenade not removed")
	}
}

func TestSimulation_MeleeAttack(t *testing.T) {
	sim, rec, _ := newTestSimulation(t)
	ctx := context.Background()
	sim.Join(ctx, "a")
	sim.Join(ctx, "b")
	rec.reset()

	mustHandle(t, sim, "a", application.MeleeAttackCommand{TargetID: "b"})
	if got := sim.State().Players["b"].Health; got != 100-application.DefaultMeleeDamage {
		t.Errorf("b.Health = %d, want %d", got, 100-application.DefaultMeleeDamage)
	}
	if rec.count("meleeAttack") != 1 || rec.count("healthUpdate") != 1 {
		t.Errorf("events = %v", rec.names())
	}

	mustHandle(t, sim, "a", application.InventorySwitchCommand{SlotIndex: 2})
	rec.reset()
	mustHandle(t, sim, "a", application.MeleeAttackCommand{TargetID: "b", Damage: 50})
	if rej, ok := rec.events[0].event.(application.ActionRejectedEvent); !ok || rej.Reason != "NotMelee" {
		t.Errorf("event = %#v, want NotMelee rejection", rec.events[0])
	}
}

func TestSimulation_Respawn(t *testing.T) {
	sim, rec, clock := newTestSimulation(t)
	ctx := context.Background()
	sim.Join(ctx, "a")
	sim.Join(ctx, "b")
	sim.State().Players["b"].Position = application.Vector2{X: 7}
	sim.State().Inventories["b"].UseConsumable(5)

	for sim.State().Players["b"].IsAlive {
		mustHandle(t, sim, "a", application.MeleeAttackCommand{TargetID: "b", Damage: 40})
	}
	rec.reset()
	clock.Advance(2 * time.Second)
	sim.Step(ctx, 33*time.Millisecond)
	if rec.count("spawn") != 0 {
		t.Fatal("respawned before delay")
	}
	clock.Advance(time.Second)
	sim.Step(ctx, 33*time.Millisecond)

	b := sim.State().Players["b"]
	if !b.IsAlive || b.Health != b.MaxHealth || b.Shield != 0 || b.Position != (application.Vector2{}) {
		t.Errorf("b = %+v, want respawned at spawn point", b)
	}
	if item, _ := sim.State().Inventories["b"].ItemAt(5); item.Amount != 3 {
		t.Errorf("grenades = %d, want fresh loadout with 3", item.Amount)
	}
	if rec.count("spawn") != 1 {
		t.Errorf("events = %v, want one spawn", rec.names())
	}
}

func TestSimulation_AimUsesBroadcaster(t *testing.T) {
	ctrl := gomock.NewController(t)
	events := mocks.NewMockEventBroadcaster(ctrl)
	clock := &fakeClock{now: time.Unix(0, 0)}
	sim := application.NewSimulation(application.DefaultConfig(), clock, domain.JSONCodec{}, events)
	ctx := context.Background()

	events.EXPECT().SendTo(gomock.Any(), domain.SessionID("a"), gomock.Any()).Times(2)
	events.EXPECT().BroadcastExcept(gomock.Any(), domain.SessionID("a"), gomock.Any())
	sim.Join(ctx, "a")

	dir := application.Vector2{X: 0, Y: 1}
	events.EXPECT().BroadcastExcept(gomock.Any(), domain.SessionID("a"), application.AimEvent{SessionID: "a", Direction: dir})
	if err := sim.Handle(ctx, "a", application.AimCommand{Direction: dir}); err != nil {
		t.Fatalf("Handle error = %v", err)
	}
}

func TestSimulation_ShootRequiresOwnedWeapon(t *testing.T) {
	sim, rec, _ := newTestSimulation(t)
	ctx := context.Background()
	sim.Join(ctx, "a")
	rec.reset()

	mustHandle(t, sim, "a", application.ShootCommand{Direction: application.Vector2{X: 1}, WeaponName: application.WeaponSniper})
	if got := rejections(rec); len(got) != 1 || got[0] != "WeaponNotFound" {
		t.Errorf("rejections = %v, want [WeaponNotFound]", got)
	}
	// 手ぶらで武器名なしなら選択中のHandで撃とうとして弾かれる
	mustHandle(t, sim, "a", application.ShootCommand{Direction: application.Vector2{X: 1}})
	if len(sim.State().Bullets) != 0 {
		t.Errorf("bullets = %d, want 0", len(sim.State().Bullets))
	}
	if got := rejections(rec); len(got) != 2 {
		t.Errorf("rejections = %v, want 2", got)
	}
}

func killWithMelee(t *testing.T, sim *application.Simulation, attacker, target domain.SessionID) {
	t.Helper()
	for sim.State().Players[target].IsAlive {
		mustHandle(t, sim, attacker, application.MeleeAttackCommand{TargetID: target, Damage: 100})
	}
}

func TestSimulation_DeadPlayerCannotSwitch(t *testing.T) {
	sim, rec, _ := newTestSimulation(t)
	ctx := context.Background()
	sim.Join(ctx, "a")
	sim.Join(ctx, "b")
	killWithMelee(t, sim, "a", "b")
	rec.reset()

	mustHandle(t, sim, "b", application.InventorySwitchCommand{SlotIndex: 1})
	if got := sim.State().Inventories["b"].CurrentSlot(); got != application.HandSlot {
		t.Errorf("CurrentSlot = %d, want %d", got, application.HandSlot)
	}
	if got := rejections(rec); len(got) != 1 || got[0] != "PlayerDead" {
		t.Errorf("rejections = %v, want [PlayerDead]", got)
	}
	if rec.count("inventoryUpdate") != 0 {
		t.Errorf("events = %v, want no inventoryUpdate", rec.names())
	}
}

// 死亡中に押し続けた移動入力は復活後もそのまま効く
func TestSimulation_InputDuringDeathSurvivesRespawn(t *testing.T) {
	sim, rec, clock := newTestSimulation(t)
	ctx := context.Background()
	sim.Join(ctx, "a")
	sim.Join(ctx, "b")
	killWithMelee(t, sim, "a", "b")

	mustHandle(t, sim, "b", application.MoveInputCommand{Horizontal: 1})
	clock.Advance(application.DefaultRespawnDelay)
	sim.Step(ctx, time.Second)
	b := sim.State().Players["b"]
	if !b.IsAlive {
		t.Fatal("b should have respawned")
	}
	if b.Position != (application.Vector2{}) {
		t.Errorf("Position = %v, want spawn point on the respawn tick", b.Position)
	}

	rec.reset()
	sim.Step(ctx, time.Second)
	want := application.Vector2{X: application.DefaultMoveSpeed}
	if d := b.Position.Distance(want); d > 1e-9 {
		t.Errorf("Position = %v, want %v", b.Position, want)
	}
	if rec.count("serverPositionUpdate") != 1 {
		t.Errorf("events = %v, want one serverPositionUpdate", rec.names())
	}
}

func TestSimulation_StepPaths(t *testing.T) {
	const tick = 33 * time.Millisecond
	east := application.Vector2{X: 1}

	tests := []struct {
		name  string
		setup func(t *testing.T, sim *application.Simulation)
		delta time.Duration
		want  []string
		check func(t *testing.T, sim *application.Simulation)
	}{
		{
			name: "bullet in flight moves",
			setup: func(t *testing.T, sim *application.Simulation) {
				mustHandle(t, sim, "a", application.ShootCommand{Direction: east, WeaponName: application.WeaponPistol})
			},
			delta: tick,
			want:  []string{"bulletMove"},
			check: func(t *testing.T, sim *application.Simulation) {
				if len(sim.State().Bullets) != 1 {
					t.Errorf("bullets = %d, want 1", len(sim.State().Bullets))
				}
			},
		},
		{
			name: "collided bullet is removed without damage",
			setup: func(t *testing.T, sim *application.Simulation) {
				// 1tick後に弾はちょうどbの位置に来る
				sim.State().Players["b"].Position = application.Vector2{X: 0.5}
				mustHandle(t, sim, "a", application.ShootCommand{Direction: east, WeaponName: application.WeaponPistol})
				id := sim.State().BulletIDs()[0]
				mustHandle(t, sim, "a", application.BulletCollideCommand{ID: id})
			},
			delta: tick,
			want:  []string{"serverUnspawn"},
			check: func(t *testing.T, sim *application.Simulation) {
				if len(sim.State().Bullets) != 0 {
					t.Errorf("bullets = %d, want 0", len(sim.State().Bullets))
				}
				if got := sim.State().Players["b"].Health; got != 100 {
					t.Errorf("b.Health = %d, want 100", got)
				}
			},
		},
		{
			name: "expired bullet is removed",
			setup: func(t *testing.T, sim *application.Simulation) {
				mustHandle(t, sim, "a", application.ShootCommand{Direction: east, WeaponName: application.WeaponPistol})
			},
			delta: 2000 * time.Millisecond,
			want:  []string{"serverUnspawn"},
			check: func(t *testing.T, sim *application.Simulation) {
				if len(sim.State().Bullets) != 0 {
					t.Errorf("bullets = %d, want 0", len(sim.State().Bullets))
				}
			},
		},
		{
			name: "grenade in flight moves",
			setup: func(t *testing.T, sim *application.Simulation) {
				mustHandle(t, sim, "a", application.ThrowGrenadeCommand{Direction: east})
			},
			delta: tick,
			want:  []string{"grenadeMove"},
			check: func(t *testing.T, sim *application.Simulation) {
				if len(sim.State().Grenades) != 1 {
					t.Errorf("grenades = %d, want 1", len(sim.State().Grenades))
				}
			},
		},
		{
			name: "dead player with pending input does not move",
			setup: func(t *testing.T, sim *application.Simulation) {
				killWithMelee(t, sim, "a", "b")
				mustHandle(t, sim, "b", application.MoveInputCommand{Vertical: 1})
			},
			delta: tick,
			want:  []string{},
			check: func(t *testing.T, sim *application.Simulation) {
				if got := sim.State().Players["b"].Position; got != (application.Vector2{Y: 20}) {
					t.Errorf("b.Position = %v, want unchanged", got)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim, rec, _ := newTestSimulation(t)
			ctx := context.Background()
			sim.Join(ctx, "a")
			sim.Join(ctx, "b")
			sim.State().Players["b"].Position = application.Vector2{Y: 20}
			tt.setup(t, sim)
			rec.reset()

			sim.Step(ctx, tt.delta)

			if got := rec.names(); !sameNames(got, tt.want) {
				t.Errorf("events = %v, want %v", got, tt.want)
			}
			tt.check(t, sim)
		})
	}
}
