package battle

import (
	"testing"

	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/data"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/entity"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/system"
	"github.com/FranklyNathan/BrambleWars-sub002/event"

	"github.com/yohamta/donburi"
)

// sureRoller は判定をすべて成功させる乱数です。
type sureRoller struct{}

func (sureRoller) Float64() float64 { return 0 }
func (sureRoller) Intn(int) int     { return 0 }

type fixture struct {
	t    *testing.T
	r    *system.Rules
	c    *Controller
	rec  *event.Recorder
	turn *system.TurnEndSystem
}

func newFixture(t *testing.T, width, height int) *fixture {
	t.Helper()
	gdm := data.NewGameDataManager()
	for _, a := range []*core.AttackDefinition{
		{ID: "slash", Power: 10, Accuracy: 100, Use: core.UsePhysical, Targeting: core.TargetCycle, MinRange: 1, MaxRange: 1},
		{ID: "hurl", Power: 6, Accuracy: 100, Use: core.UsePhysical, Targeting: core.TargetGroundAim, MinRange: 2, MaxRange: 3, AreaRadius: 1},
		{ID: "blink", Use: core.UseUtility, Targeting: core.TargetCycle, MinRange: 1, MaxRange: 1, SecondaryRange: 2},
	} {
		if err := gdm.AddAttackDefinition(a); err != nil {
			t.Fatal(err)
		}
	}
	for _, w := range []*core.WeaponDefinition{
		{ID: "bramble_sword", Bonus: core.Stats{Attack: 3}, Price: 100, Attacks: []string{"slash"}},
		{ID: "trail_boots", Movement: 1, Price: 80},
	} {
		if err := gdm.AddWeaponDefinition(w); err != nil {
			t.Fatal(err)
		}
	}

	w := donburi.NewWorld()
	entity.EnsureWorldState(w, width, height, 32)
	r := system.NewRules(w, data.DefaultConfig(), gdm, sureRoller{}, nil)
	f := &fixture{t: t, r: r}
	f.rec = event.NewRecorder(w)
	f.turn = system.NewTurnEndSystem(r)
	f.c = NewController(r)
	return f
}

func (f *fixture) spawn(spec component.UnitSpec) *donburi.Entry {
	if spec.Base.MaxHP == 0 {
		spec.Base.MaxHP = 30
	}
	e := entity.CreateUnit(f.r.World, spec)
	system.RecalculateStats(f.r.Query, e)
	u := component.UnitComponent.Get(e)
	u.HP = u.Final.MaxHP
	u.Wisp = u.Final.MaxWisp
	return e
}

func (f *fixture) press(keys ...core.Key) {
	for _, k := range keys {
		f.c.HandleKey(k)
	}
}

// tick はホストの1フレーム分のシステムを回します。
func (f *fixture) tick() {
	system.UpdateMovementSystem(f.r)
	system.UpdateEffectTimerSystem(f.r)
	system.UpdateActionCompletionSystem(f.r)
	f.turn.Update()
	entity.FlushDeferred(f.r.World, func(e *donburi.Entry) { system.RecalculateStats(f.r.Query, e) })
}

// settle は移動と演出が終わるまで tick を回します。
func (f *fixture) settle() {
	for i := 0; i < 100; i++ {
		f.tick()
		if !f.busy() {
			return
		}
	}
	f.t.Fatal("world did not settle")
}

func (f *fixture) busy() bool {
	busy := false
	for _, e := range f.r.Query.UnitsOnBoard() {
		if e.HasComponent(component.MovePathComponent) || e.HasComponent(component.LungeComponent) ||
			e.HasComponent(component.PendingDamageComponent) || e.HasComponent(component.PendingActedComponent) {
			busy = true
		}
	}
	return busy
}

func (f *fixture) expectState(want core.PlayerTurnState) {
	f.t.Helper()
	if got := f.c.State(); got != want {
		f.t.Fatalf("state = %s, want %s", got, want)
	}
}

func hero(name string, tile core.Tile, move int, weapons ...string) component.UnitSpec {
	return component.UnitSpec{Name: name, Team: core.TeamPlayer, Tile: tile, Movement: move, Weapons: weapons}
}

func foe(name string, tile core.Tile) component.UnitSpec {
	return component.UnitSpec{Name: name, Team: core.TeamEnemy, Tile: tile, Movement: 2}
}
