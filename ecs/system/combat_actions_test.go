package system

import (
	"testing"

	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/entity"
	"github.com/FranklyNathan/BrambleWars-sub002/event"

	"github.com/yohamta/donburi"
)

func TestShieldBlocksDamage(t *testing.T) {
	r := newTestRules(t, 5, 5)
	rec := event.NewRecorder(r.World)
	hero := spawn(r, player("Hazel", core.Tile{X: 1, Y: 1}, 3))
	foe := spawn(r, enemy("Foe", core.Tile{X: 2, Y: 1}))
	foe.AddComponent(component.ShieldComponent)

	if r.Actions.ApplyDirectDamage(foe, 99, true, hero, DamageOptions{}) {
		t.Error("blocked damage should report false")
	}
	if hp := unitOf(foe).HP; hp != 20 {
		t.Errorf("hp = %d, want 20", hp)
	}
	if foe.HasComponent(component.ShieldComponent) {
		t.Error("shield should be consumed")
	}
	if foe.HasComponent(component.PendingDamageComponent) {
		t.Error("blocked hit should not start the HP drain")
	}
	if event.Count[event.UnitDied](rec) != 0 || event.Count[event.DamageNumberShown](rec) != 0 {
		t.Errorf("events = %v", rec.Events)
	}
	if event.Count[event.DamageBlocked](rec) != 1 {
		t.Error("blocked marker should be shown")
	}
}

func TestApplyDirectDamageLethal(t *testing.T) {
	r := newTestRules(t, 5, 5)
	rec := event.NewRecorder(r.World)
	hero := spawn(r, player("Hazel", core.Tile{X: 1, Y: 1}, 3))
	foe := spawn(r, enemy("Foe", core.Tile{X: 2, Y: 1}))

	if !r.Actions.ApplyDirectDamage(foe, 7.9, false, hero, DamageOptions{}) {
		t.Fatal("damage should apply")
	}
	if hp := unitOf(foe).HP; hp != 13 {
		t.Errorf("hp = %d, want 13 (floored)", hp)
	}
	pd := component.PendingDamageComponent.Get(foe)
	if pd.FromHP != 20 || pd.ToHP != 13 || pd.Timer != r.Config.Timers.HPDrainTicks {
		t.Errorf("pending damage = %+v", pd)
	}

	r.Actions.ApplyDirectDamage(foe, 50, false, hero, DamageOptions{SuppressMarker: true, Cause: "slash"})
	if hp := unitOf(foe).HP; hp != 0 {
		t.Errorf("hp = %d, want 0", hp)
	}
	if got := component.PendingDamageComponent.Get(foe).FromHP; got != 20 {
		t.Errorf("drain should keep its starting HP, got %d", got)
	}
	if event.Count[event.DamageNumberShown](rec) != 1 {
		t.Error("suppressed marker should not be shown")
	}
	if event.Count[event.UnitDied](rec) != 1 {
		t.Fatal("death should be announced once")
	}
	for _, e := range rec.Events {
		if died, ok := e.(event.UnitDied); ok {
			if died.Victim != foe.Entity() || died.Killer != hero.Entity() || died.Cause != "slash" {
				t.Errorf("died = %+v", died)
			}
		}
	}

	if r.Actions.ApplyDirectDamage(foe, 5, false, hero, DamageOptions{}) {
		t.Error("damage on a dead unit should be a no-op")
	}
	if event.Count[event.UnitDied](rec) != 1 {
		t.Error("dead unit must not die twice")
	}
}

func TestObstacleFadesOutInsteadOfDying(t *testing.T) {
	r := newTestRules(t, 5, 5)
	rec := event.NewRecorder(r.World)
	hero := spawn(r, player("Hazel", core.Tile{X: 1, Y: 1}, 3))
	rock := spawn(r, component.UnitSpec{
		Name: "Boulder", Team: core.TeamNeutral, Tile: core.Tile{X: 2, Y: 1},
		Base: core.Stats{MaxHP: 5}, Obstacle: &component.Obstacle{Kind: "rock"},
	})

	r.Actions.ApplyDirectDamage(rock, 10, false, hero, DamageOptions{})
	if event.Count[event.UnitDied](rec) != 0 {
		t.Error("obstacles should not publish unit_died")
	}
	if !rock.HasComponent(component.FadeOutComponent) {
		t.Fatal("obstacle should fade out")
	}

	for i := 0; i < r.Config.Timers.FadeOutTicks; i++ {
		UpdateEffectTimerSystem(r)
	}
	entity.FlushDeferred(r.World, nil)
	if r.World.Valid(rock.Entity()) {
		t.Error("faded obstacle should be removed")
	}
}

func TestParalysisAura(t *testing.T) {
	r := newTestRules(t, 8, 8)
	spec := enemy("Eel", core.Tile{X: 3, Y: 3})
	spec.Passives = []core.PassiveID{core.PassiveParalysisAura}
	eel := spawn(r, spec)
	near := spawn(r, player("Near", core.Tile{X: 3, Y: 5}, 3))
	far := spawn(r, player("Far", core.Tile{X: 6, Y: 3}, 3))
	ally := spawn(r, enemy("Ally", core.Tile{X: 3, Y: 4}))
	hermit := spawn(r, component.UnitSpec{Name: "Hermit", Team: core.TeamNeutral, Tile: core.Tile{X: 4, Y: 3}})

	r.Actions.ApplyDirectDamage(eel, 1, false, near, DamageOptions{})
	if !r.Query.HasStatus(near, core.StatusParalyzed) {
		t.Error("enemy within 2 should be paralyzed")
	}
	if r.Query.HasStatus(far, core.StatusParalyzed) || r.Query.HasStatus(ally, core.StatusParalyzed) {
		t.Error("only nearby enemies of the holder are paralyzed")
	}
	if r.Query.HasStatus(hermit, core.StatusParalyzed) {
		t.Error("neutral units are not enemies of the holder")
	}
	if tint := component.TintComponent.Get(near); tint.Color != component.TintParalyzed {
		t.Errorf("tint = %q, want paralyzed", tint.Color)
	}
	if got := component.StatusComponent.Get(near).Effects[core.StatusParalyzed]; got != 1 {
		t.Errorf("paralysis turns = %d, want 1", got)
	}
}

func TestApplyDirectHeal(t *testing.T) {
	r := newTestRules(t, 5, 5)
	hero := spawn(r, player("Hazel", core.Tile{X: 1, Y: 1}, 3))
	unitOf(hero).HP = 15

	if !r.Actions.ApplyDirectHeal(hero, 3.7) || unitOf(hero).HP != 18 {
		t.Errorf("hp = %d, want 18", unitOf(hero).HP)
	}
	r.Actions.ApplyDirectHeal(hero, 100)
	if unitOf(hero).HP != 20 {
		t.Errorf("heal should clamp to max, got %d", unitOf(hero).HP)
	}
	unitOf(hero).HP = 0
	if r.Actions.ApplyDirectHeal(hero, 5) || unitOf(hero).HP != 0 {
		t.Error("dead units cannot be healed")
	}
	if r.Actions.ApplyDirectHeal(nil, 5) {
		t.Error("nil target should report false")
	}
}

func TestGrantExpCoalescesAndQueuesLevelUp(t *testing.T) {
	r := newTestRules(t, 5, 5)
	rec := event.NewRecorder(r.World)
	hero := spawn(r, player("Hazel", core.Tile{X: 1, Y: 1}, 3))
	foe := spawn(r, enemy("Foe", core.Tile{X: 2, Y: 1}))

	r.Actions.GrantExp(hero, 40)
	bar := component.ExpBarComponent.Get(hero)
	if bar.Phase != component.ExpBarFilling || bar.From != 0 || bar.Gain != 40 {
		t.Fatalf("bar = %+v", bar)
	}
	UpdateEffectTimerSystem(r)
	r.Actions.GrantExp(hero, 70)
	bar = component.ExpBarComponent.Get(hero)
	if bar.Gain != 110 || bar.From != 0 || bar.Timer != r.Config.Timers.ExpFillTicks {
		t.Errorf("coalesced bar = %+v", bar)
	}
	if unitOf(hero).Exp != 110 {
		t.Errorf("exp = %d, want 110", unitOf(hero).Exp)
	}
	if unitOf(hero).Level != 1 {
		t.Error("level up must not be applied synchronously")
	}
	if !hero.HasComponent(component.PendingLevelUpComponent) {
		t.Error("pending level up marker missing")
	}
	if event.Count[event.ExpGainStarted](rec) != 2 {
		t.Errorf("exp events = %d", event.Count[event.ExpGainStarted](rec))
	}

	r.Actions.GrantExp(foe, 50)
	if unitOf(foe).Exp != 0 || foe.HasComponent(component.ExpBarComponent) {
		t.Error("enemies do not gain exp")
	}

	unitOf(hero).Level = r.Config.Balance.LevelCap
	r.Actions.GrantExp(hero, 30)
	if unitOf(hero).Exp != 0 {
		t.Errorf("exp at cap = %d, want 0", unitOf(hero).Exp)
	}
}

func TestConvertUnitAllegiance(t *testing.T) {
	r := newTestRules(t, 5, 5)
	spec := enemy("Turncoat", core.Tile{X: 2, Y: 2})
	spec.Passives = []core.PassiveID{core.PassiveDesperate}
	spec.Weapons = []string{"bramble_sword"}
	foe := spawn(r, spec)
	u := unitOf(foe)
	u.HP = 3
	u.HasActed = true
	u.Facing = core.DirLeft
	component.StatusComponent.Get(foe).Effects[core.StatusStunned] = 2
	MarkPendingActed(foe)

	hooked := false
	ok := r.Actions.ConvertUnitAllegiance(foe, core.TeamPlayer, ConvertOptions{
		PreRecalc: func(e *donburi.Entry) {
			hooked = true
			component.UnitComponent.Get(e).Base.Attack += 4
		},
	})
	if !ok || !hooked {
		t.Fatal("conversion should run the hook")
	}
	if u.Team != core.TeamPlayer || u.HasActed || u.Facing != core.DirDown {
		t.Errorf("unit = %+v", u)
	}
	if foe.HasComponent(component.PendingActedComponent) {
		t.Error("pending acted should be cleared")
	}
	if len(component.StatusComponent.Get(foe).Effects) != 0 {
		t.Error("statuses should be cleared")
	}
	if u.Final.Attack != 7 {
		t.Errorf("final attack = %d, want 7", u.Final.Attack)
	}
	if u.HP != u.Final.MaxHP {
		t.Errorf("hp = %d, want full", u.HP)
	}

	reg := entity.GetRegistry(r.World)
	if len(reg.Rosters[core.TeamEnemy]) != 0 || len(reg.PassiveProviders[core.TeamEnemy]) != 0 {
		t.Error("old team should forget the unit")
	}
	if len(reg.Rosters[core.TeamPlayer]) != 1 || len(reg.PassiveProviders[core.TeamPlayer]) != 1 {
		t.Error("new team should register the unit")
	}

	u.HP = 2
	r.Actions.ConvertUnitAllegiance(foe, core.TeamEnemy, ConvertOptions{SkipRestore: true})
	if u.HP != 2 {
		t.Errorf("skip restore should keep HP, got %d", u.HP)
	}
}

func TestConvertToCurrentTeamChangesNothing(t *testing.T) {
	r := newTestRules(t, 5, 5)
	foe := spawn(r, enemy("Stayer", core.Tile{X: 2, Y: 2}))
	u := unitOf(foe)
	u.HP = 3
	u.HasActed = true
	component.StatusComponent.Get(foe).Effects[core.StatusStunned] = 2

	if r.Actions.ConvertUnitAllegiance(foe, core.TeamEnemy, ConvertOptions{}) {
		t.Error("converting to the current team should report false")
	}
	if u.HP != 3 || !u.HasActed || !r.Query.HasStatus(foe, core.StatusStunned) {
		t.Errorf("unit changed: hp=%d hasActed=%v statuses=%v", u.HP, u.HasActed, component.StatusComponent.Get(foe).Effects)
	}
	if roster := entity.GetRegistry(r.World).Rosters[core.TeamEnemy]; len(roster) != 1 {
		t.Errorf("enemy roster = %v", roster)
	}
}

func TestDamageAndHealTint(t *testing.T) {
	r := newTestRules(t, 5, 5)
	hero := spawn(r, player("Hazel", core.Tile{X: 1, Y: 1}, 3))
	foe := spawn(r, enemy("Foe", core.Tile{X: 2, Y: 1}))

	r.Actions.ApplyDirectDamage(foe, 4, false, hero, DamageOptions{})
	if !foe.HasComponent(component.TintComponent) {
		t.Fatal("damage should tint the target")
	}
	if tint := component.TintComponent.Get(foe); tint.Color != component.TintDamage || tint.Timer != r.Config.Timers.TintTicks {
		t.Errorf("tint = %+v", tint)
	}
	r.Actions.ApplyDirectHeal(foe, 2)
	if tint := component.TintComponent.Get(foe); tint.Color != component.TintHeal {
		t.Errorf("heal should recolor the tint, got %q", tint.Color)
	}

	for i := 0; i < r.Config.Timers.TintTicks; i++ {
		UpdateEffectTimerSystem(r)
	}
	if foe.HasComponent(component.TintComponent) {
		t.Error("tint should expire after TintTicks")
	}

	shielded := spawn(r, enemy("Warded", core.Tile{X: 3, Y: 3}))
	shielded.AddComponent(component.ShieldComponent)
	r.Actions.ApplyDirectDamage(shielded, 4, false, hero, DamageOptions{})
	if shielded.HasComponent(component.TintComponent) {
		t.Error("blocked damage should not tint")
	}
}
