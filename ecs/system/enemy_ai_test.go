package system

import (
	"testing"

	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/entity"

	"github.com/yohamta/donburi"
)

// runEnemyPhase は敵フェイズが終わるまでシステムを回します。
func runEnemyPhase(t *testing.T, r *Rules) {
	t.Helper()
	entity.GetPhase(r.World).Active = core.TeamEnemy
	s := NewEnemyPhaseSystem(r)
	for i := 0; i < 200; i++ {
		done := s.Update()
		UpdateMovementSystem(r)
		UpdateEffectTimerSystem(r)
		if done {
			return
		}
	}
	t.Fatal("enemy phase did not finish")
}

func TestSelectHighestPowerAttack(t *testing.T) {
	attacks := []*core.AttackDefinition{{ID: "jab", Power: 4}, {ID: "maul", Power: 9}, {ID: "bash", Power: 9}}
	if got := SelectHighestPowerAttack(attacks); got.ID != "maul" {
		t.Errorf("got %s, want maul", got.ID)
	}
	if SelectHighestPowerAttack(nil) != nil {
		t.Error("empty list selects nothing")
	}
}

func TestSortStrategies(t *testing.T) {
	r := newTestRules(t, 5, 5)
	a := spawn(r, player("Ash", core.Tile{X: 0, Y: 0}, 3))
	b := spawn(r, player("Birch", core.Tile{X: 1, Y: 0}, 3))
	unitOf(a).HP = 4
	unitOf(b).Final.Defense = 9
	candidates := []*donburi.Entry{a, b}

	if got := (&HunterStrategy{}).SelectTarget(r, nil, candidates); got != a {
		t.Error("hunter should pick the weakest")
	}
	if got := (&CrusherStrategy{}).SelectTarget(r, nil, candidates); got != b {
		t.Error("crusher should pick the toughest")
	}
	if got := (&JokerStrategy{}).SelectTarget(r, nil, candidates); got != a {
		t.Error("joker uses the roller index")
	}
	if candidates[0] != a {
		t.Error("strategies must not reorder the caller's slice")
	}
}

func TestEnemyApproachesWhenNothingInReach(t *testing.T) {
	r := newTestRules(t, 6, 1)
	spawn(r, player("Ash", core.Tile{X: 0, Y: 0}, 3))
	spec := enemy("Gnarl", core.Tile{X: 5, Y: 0})
	spec.Weapons = []string{"bramble_sword"}
	gnarl := spawn(r, spec)

	runEnemyPhase(t, r)
	if got := TileOf(gnarl); got != (core.Tile{X: 2, Y: 0}) {
		t.Errorf("tile = %v, want (2,0)", got)
	}
	if p := entity.GetPhase(r.World); p.Active != core.TeamPlayer || p.Turn != 2 {
		t.Errorf("phase = %+v", p)
	}
}

func TestEnemyStrategyPicksTarget(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		wantTile core.Tile
		wantHurt string
	}{
		{"hunter finishes the weakest", "", core.Tile{X: 2, Y: 1}, "Ash"},
		{"counter answers the last attacker", "counter", core.Tile{X: 3, Y: 2}, "Birch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRules(t, 5, 5)
			ash := spawn(r, player("Ash", core.Tile{X: 2, Y: 0}, 3))
			birch := spawn(r, player("Birch", core.Tile{X: 4, Y: 2}, 3))
			unitOf(ash).HP = 5
			spec := enemy("Gnarl", core.Tile{X: 2, Y: 2})
			spec.Weapons = []string{"bramble_sword"}
			spec.Base.MaxHP = 60
			spec.AI = tt.strategy
			gnarl := spawn(r, spec)

			slash, _ := r.Data.Attack("slash")
			if _, ok := r.ExecuteAttack(AttackRequest{Attacker: birch, Attack: slash, Targets: []*donburi.Entry{gnarl}, Focus: TileOf(gnarl)}); !ok {
				t.Fatal("opening attack failed")
			}
			if tt.strategy != "" {
				if last := component.AIComponent.Get(gnarl).LastAttacker; last == nil || last.Entity() != birch.Entity() {
					t.Fatal("history should remember Birch")
				}
			}
			birchHP := unitOf(birch).HP

			runEnemyPhase(t, r)
			if got := TileOf(gnarl); got != tt.wantTile {
				t.Errorf("tile = %v, want %v", got, tt.wantTile)
			}
			hurt := map[string]bool{"Ash": unitOf(ash).HP < 5, "Birch": unitOf(birch).HP < birchHP}
			for name, h := range hurt {
				if h != (name == tt.wantHurt) {
					t.Errorf("%s hurt = %v", name, h)
				}
			}
		})
	}
}

func TestParalysisAuraCostsAttackerItsNextAction(t *testing.T) {
	r := newTestRules(t, 6, 1)
	spec := player("Burdock", core.Tile{X: 0, Y: 0}, 3)
	spec.Base.MaxHP = 60
	spec.Passives = []core.PassiveID{core.PassiveParalysisAura}
	burdock := spawn(r, spec)
	foeSpec := enemy("Gnarl", core.Tile{X: 1, Y: 0})
	foeSpec.Weapons = []string{"bramble_sword"}
	gnarl := spawn(r, foeSpec)

	runEnemyPhase(t, r)
	hp := unitOf(burdock).HP
	if hp >= 60 {
		t.Fatal("Gnarl should strike Burdock")
	}
	if !r.Query.HasStatus(gnarl, core.StatusParalyzed) {
		t.Fatal("paralysis should outlast the phase it was applied in")
	}

	StartPlayerPhase(r)
	EndPhase(r, core.TeamPlayer)
	runEnemyPhase(t, r)
	if unitOf(burdock).HP != hp || TileOf(gnarl) != (core.Tile{X: 1, Y: 0}) {
		t.Error("paralyzed unit should sit out the enemy phase")
	}
	if r.Query.HasStatus(gnarl, core.StatusParalyzed) {
		t.Error("paralysis should wear off at the end of the skipped phase")
	}

	runEnemyPhase(t, r)
	if unitOf(burdock).HP >= hp {
		t.Error("Gnarl should act again once the paralysis is gone")
	}
}
