package main

import (
	"fmt"

	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/entity"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/system"
)

// demoUnits はデモ戦場に並べるユニットです。
var demoUnits = []component.UnitSpec{
	{
		Name: "Rowan", Team: core.TeamPlayer, Class: "squire", Tile: core.Tile{X: 2, Y: 5},
		Base:     core.Stats{MaxHP: 26, MaxWisp: 6, Attack: 7, Defense: 5, Magic: 1, Resistance: 2, Wit: 4, Weight: 6},
		Growths:  core.Stats{MaxHP: 70, Attack: 50, Defense: 40, Wit: 30},
		Movement: 4,
		Passives: []core.PassiveID{core.PassiveFrostWalker},
		Weapons:  []string{"bramble_sword", "trail_boots"},
	},
	{
		Name: "Ivy", Team: core.TeamPlayer, Class: "acolyte", Origin: core.OriginFlame, Tile: core.Tile{X: 1, Y: 6},
		Base:     core.Stats{MaxHP: 20, MaxWisp: 14, Attack: 2, Defense: 2, Magic: 7, Resistance: 6, Wit: 6, Weight: 4},
		Growths:  core.Stats{MaxHP: 50, Magic: 60, Resistance: 40, Wit: 40},
		Movement: 4,
		Passives: []core.PassiveID{core.PassiveFastLearner},
		Attacks:  []string{"mend", "thornburst"},
		Weapons:  []string{"cinder_staff"},
	},
	{
		Name: "Burdock", Team: core.TeamPlayer, Class: "squire", Tile: core.Tile{X: 2, Y: 7},
		Base:     core.Stats{MaxHP: 32, MaxWisp: 4, Attack: 9, Defense: 7, Wit: 2, Weight: 9},
		Growths:  core.Stats{MaxHP: 80, Attack: 40, Defense: 50},
		Movement: 3,
		Passives: []core.PassiveID{core.PassiveParalysisAura, core.PassiveBurrow},
		Attacks:  []string{"quake"},
		Weapons:  []string{"choir_lance"},
	},
	{
		Name: "Gnarl", Team: core.TeamEnemy, Class: "brute", Tile: core.Tile{X: 12, Y: 4},
		Base:      core.Stats{MaxHP: 24, Attack: 6, Defense: 4, Wit: 3, Weight: 8},
		Movement:  4,
		ExpReward: 30,
		Weapons:   []string{"bramble_sword"},
		AI:        "hunter",
	},
	{
		Name: "Sootcap", Team: core.TeamEnemy, Class: "hexer", Origin: core.OriginFlame, Tile: core.Tile{X: 13, Y: 6},
		Base:      core.Stats{MaxHP: 18, MaxWisp: 12, Magic: 6, Resistance: 4, Wit: 7, Weight: 3},
		Movement:  3,
		ExpReward: 35,
		Weapons:   []string{"cinder_staff"},
		AI:        "counter",
	},
	{
		Name: "Mirebeast", Team: core.TeamEnemy, Class: "brute", Origin: core.OriginTide, Tile: core.Tile{X: 12, Y: 8},
		Base:      core.Stats{MaxHP: 30, Attack: 7, Defense: 6, Wit: 1, Weight: 12},
		Movement:  3,
		CanSwim:   true,
		ExpReward: 40,
		Passives:  []core.PassiveID{core.PassivePristine},
		Attacks:   []string{"slash"},
		AI:        "crusher",
	},
	{
		Name: "Thornling", Team: core.TeamEnemy, Class: "brute", Tile: core.Tile{X: 14, Y: 5},
		Base:      core.Stats{MaxHP: 16, Attack: 5, Defense: 2, Wit: 5, Weight: 4},
		Movement:  5,
		ExpReward: 25,
		Attacks:   []string{"slash"},
		AI:        "assist",
	},
}

// demoObstacles は岩とモグラ塚です。
var demoObstacles = []component.UnitSpec{
	{Name: "Boulder", Team: core.TeamNeutral, Tile: core.Tile{X: 7, Y: 3}, Base: core.Stats{MaxHP: 20, Weight: 20},
		Obstacle: &component.Obstacle{Kind: "rock"}},
	{Name: "Boulder", Team: core.TeamNeutral, Tile: core.Tile{X: 7, Y: 8}, Base: core.Stats{MaxHP: 20, Weight: 20},
		Obstacle: &component.Obstacle{Kind: "rock"}},
	{Name: "Molehill", Team: core.TeamNeutral, Tile: core.Tile{X: 3, Y: 9}, Base: core.Stats{MaxHP: 1},
		Obstacle: &component.Obstacle{Kind: "molehill", Passable: true, Indestructible: true}},
	{Name: "Molehill", Team: core.TeamNeutral, Tile: core.Tile{X: 9, Y: 2}, Base: core.Stats{MaxHP: 1},
		Obstacle: &component.Obstacle{Kind: "molehill", Passable: true, Indestructible: true}},
}

// buildDemoScenario は地形を敷き、ユニットと障害物を配置します。
func buildDemoScenario(r *system.Rules) error {
	m := entity.GetMap(r.World)
	if m.Width < 16 || m.Height < 12 {
		return fmt.Errorf("デモ戦場には 16x12 以上のマップが必要です (%dx%d)", m.Width, m.Height)
	}

	for y := 4; y <= 7; y++ {
		m.Terrain[core.Tile{X: 8, Y: y}] = core.TerrainWater
		m.Terrain[core.Tile{X: 9, Y: y}] = core.TerrainWater
	}
	for x := 10; x <= 11; x++ {
		for y := 9; y <= 10; y++ {
			m.Terrain[core.Tile{X: x, Y: y}] = core.TerrainMud
		}
	}
	m.Ledges[component.Edge{From: core.Tile{X: 5, Y: 2}, To: core.Tile{X: 5, Y: 1}}] = true
	m.ShopTiles[core.Tile{X: 3, Y: 3}] = true
	m.WinTiles[core.Tile{X: 14, Y: 1}] = true

	reg := entity.GetRegistry(r.World)
	reg.Gold[core.TeamPlayer] = r.Config.Balance.StartingGold

	for _, spec := range append(append([]component.UnitSpec(nil), demoUnits...), demoObstacles...) {
		for _, id := range spec.Weapons {
			if _, ok := r.Data.Weapon(id); !ok {
				return fmt.Errorf("%s の武器 %q が定義されていません", spec.Name, id)
			}
		}
		e := entity.CreateUnit(r.World, spec)
		system.RecalculateStats(r.Query, e)
		u := component.UnitComponent.Get(e)
		u.HP = u.Final.MaxHP
		u.Wisp = u.Final.MaxWisp
	}
	return nil
}
