package system

import (
	"testing"

	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/data"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/entity"

	"github.com/yohamta/donburi"
)

// fixedRoller は常に同じ値を返す乱数です。
type fixedRoller struct {
	f float64
	n int
}

func (r fixedRoller) Float64() float64 { return r.f }
func (r fixedRoller) Intn(n int) int {
	if r.n >= n {
		return n - 1
	}
	return r.n
}

// alwaysHit は命中・会心とも確率が0より大きければ成功します。
var alwaysHit = fixedRoller{f: 0, n: 0}

func testDefinitions(t *testing.T) *data.GameDataManager {
	t.Helper()
	gdm := data.NewGameDataManager()
	attacks := []*core.AttackDefinition{
		{ID: "slash", Power: 10, Accuracy: 100, Use: core.UsePhysical, Targeting: core.TargetCycle, MinRange: 1, MaxRange: 1},
		{ID: "ember", Power: 8, Accuracy: 90, Use: core.UseMagical, Targeting: core.TargetCycle, Origin: core.OriginFlame, WispCost: 2, MinRange: 1, MaxRange: 2},
		{ID: "mend", Power: 5, Accuracy: 100, Use: core.UseMagical, Targeting: core.TargetCycle, Heals: true, MinRange: 1, MaxRange: 1},
		{ID: "rally", Use: core.UseUtility, Targeting: core.TargetNone},
		{ID: "soulpierce", Power: 7, Accuracy: 100, Use: core.UsePhysical, Targeting: core.TargetCycle, TrueDamage: true, MinRange: 1, MaxRange: 1},
	}
	for _, a := range attacks {
		if err := gdm.AddAttackDefinition(a); err != nil {
			t.Fatal(err)
		}
	}
	weapons := []*core.WeaponDefinition{
		{ID: "bramble_sword", Bonus: core.Stats{Attack: 3}, Price: 100, Attacks: []string{"slash"}},
		{ID: "cinder_staff", Bonus: core.Stats{Magic: 2}, SpiritBurn: 1.5, Price: 150, Attacks: []string{"ember"}},
		{ID: "choir_lance", Bonus: core.Stats{Attack: 1}, HarmonyBonus: 0.1, Price: 120},
		{ID: "trail_boots", Movement: 1, Price: 80},
	}
	for _, w := range weapons {
		if err := gdm.AddWeaponDefinition(w); err != nil {
			t.Fatal(err)
		}
	}
	if err := gdm.AddPromotionDefinition(&core.PromotionDefinition{ID: "thornknight", FromClass: "squire", Bonus: core.Stats{Attack: 2, MaxHP: 5}, Movement: 1}); err != nil {
		t.Fatal(err)
	}
	return gdm
}

// newTestRules はマップを持つワールドと Rules を作ります。
func newTestRules(t *testing.T, width, height int) *Rules {
	t.Helper()
	w := donburi.NewWorld()
	entity.EnsureWorldState(w, width, height, 32)
	return NewRules(w, data.DefaultConfig(), testDefinitions(t), alwaysHit, nil)
}

func spawn(r *Rules, spec component.UnitSpec) *donburi.Entry {
	if spec.Base.MaxHP == 0 {
		spec.Base.MaxHP = 20
	}
	e := entity.CreateUnit(r.World, spec)
	RecalculateStats(r.Query, e)
	u := component.UnitComponent.Get(e)
	u.HP = u.Final.MaxHP
	u.Wisp = u.Final.MaxWisp
	return e
}

func player(name string, tile core.Tile, move int) component.UnitSpec {
	return component.UnitSpec{Name: name, Team: core.TeamPlayer, Tile: tile, Movement: move}
}

func enemy(name string, tile core.Tile) component.UnitSpec {
	return component.UnitSpec{Name: name, Team: core.TeamEnemy, Tile: tile, Movement: 3}
}

func unitOf(e *donburi.Entry) *component.Unit {
	return component.UnitComponent.Get(e)
}
