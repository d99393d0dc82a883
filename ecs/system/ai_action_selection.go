package system

import (
	"sort"

	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"

	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
)

// EnemyPlan は敵ユニット1体分の行動計画です。
// Path が空なら移動せず、Attack が nil なら移動だけで行動を終えます。
type EnemyPlan struct {
	Unit        *donburi.Entry
	Attack      *core.AttackDefinition
	Destination core.Tile
	Path        []core.Tile
	Waypoints   []core.Point
}

// SelectHighestPowerAttack は威力の最も高い技を選びます。同じ威力なら先に並んでいる方です。
func SelectHighestPowerAttack(attacks []*core.AttackDefinition) *core.AttackDefinition {
	var best *core.AttackDefinition
	for _, a := range attacks {
		if best == nil || a.Power > best.Power {
			best = a
		}
	}
	return best
}

// aiUsableAttacks は敵AIが扱える技(対象を1体選ぶ攻撃技で、Wispが足りるもの)を返します。
func aiUsableAttacks(q *WorldQuery, entry *donburi.Entry) []*core.AttackDefinition {
	u := component.UnitComponent.Get(entry)
	var attacks []*core.AttackDefinition
	for _, a := range q.UnitAttacks(entry) {
		if a.Heals || !a.DealsDamage() || a.Targeting != core.TargetCycle || u.Wisp < a.WispCost {
			continue
		}
		attacks = append(attacks, a)
	}
	return attacks
}

// targetsFrom は unit が origin に立ったときに attack の射程に入る対象を返します。
func (q *WorldQuery) targetsFrom(unit *donburi.Entry, attack *core.AttackDefinition, origin core.Tile) []*donburi.Entry {
	return q.findTargets(unit, attack, func(t core.Tile) bool {
		d := origin.Manhattan(t)
		return d >= attack.MinRange && d <= attack.MaxRange
	})
}

func sortTilesBy(tiles []core.Tile, key func(core.Tile) int) {
	sort.Slice(tiles, func(i, j int) bool {
		ki, kj := key(tiles[i]), key(tiles[j])
		if ki != kj {
			return ki < kj
		}
		return tileLess(tiles[i], tiles[j])
	})
}

// landingTiles は移動範囲のうち止まれるマスを、移動コスト・座標の順に返します。
func landingTiles(mr *MoveRange) []core.Tile {
	var tiles []core.Tile
	for t, info := range mr.Reachable {
		if info.Landable {
			tiles = append(tiles, t)
		}
	}
	sortTilesBy(tiles, func(t core.Tile) int { return mr.CostSoFar[t] })
	return tiles
}

// aiSelectAction は敵ユニットの行動を決めます。
//  1. 使える技から威力の最も高いものを選びます。
//  2. 移動範囲内から攻撃できる相手を集め、戦略で1体に絞ります。その相手を狙えるマスのうち
//     移動コストが最も小さいマスへ移動します。
//  3. 攻撃できる相手がいなければ、最も近いプレイヤーユニットへ近づきます。
func aiSelectAction(r *Rules, entry *donburi.Entry) EnemyPlan {
	q := r.Query
	start := TileOf(entry)
	plan := EnemyPlan{Unit: entry, Destination: start}
	mr := ComputeReachable(q, entry)
	if mr == nil {
		return plan
	}
	tiles := landingTiles(mr)

	if attack := SelectHighestPowerAttack(aiUsableAttacks(q, entry)); attack != nil {
		reachFrom := make(map[donburi.Entity]core.Tile)
		var candidates []*donburi.Entry
		for _, t := range tiles {
			for _, target := range q.targetsFrom(entry, attack, t) {
				if _, seen := reachFrom[target.Entity()]; seen || component.UnitComponent.Get(target).Team == core.TeamNeutral {
					continue
				}
				reachFrom[target.Entity()] = t
				candidates = append(candidates, target)
			}
		}
		sortByTile(candidates)
		if target := strategyFor(r, entry).SelectTarget(r, entry, candidates); target != nil {
			plan.Attack = attack
			plan.Destination = reachFrom[target.Entity()]
			r.Logger.WithFields(logrus.Fields{
				"unit":   unitName(entry),
				"attack": attack.ID,
				"target": unitName(target),
				"tile":   plan.Destination.String(),
			}).Debug("敵AIが攻撃対象を決めました")
		}
	}

	if plan.Attack == nil {
		plan.Destination = approachTile(q, entry, tiles, start)
	}
	if plan.Destination != start {
		plan.Path = ReconstructTilePath(mr, nil, start, plan.Destination)
		plan.Waypoints = ReconstructPath(mr, nil, start, plan.Destination, q.Map().TileSize)
	}
	return plan
}

// approachTile は最も近いプレイヤーユニットとの距離が縮まるマスを返します。縮まらなければ start です。
func approachTile(q *WorldQuery, entry *donburi.Entry, tiles []core.Tile, start core.Tile) core.Tile {
	var foes []core.Tile
	for _, e := range q.TeamUnits(core.TeamPlayer) {
		if isStanding(e) && !e.HasComponent(component.CarriedTag) {
			foes = append(foes, TileOf(e))
		}
	}
	if len(foes) == 0 {
		return start
	}
	nearest := func(t core.Tile) int {
		best := -1
		for _, f := range foes {
			if d := t.Manhattan(f); best < 0 || d < best {
				best = d
			}
		}
		return best
	}
	best, bestDist := start, nearest(start)
	for _, t := range tiles {
		if d := nearest(t); d < bestDist {
			best, bestDist = t, d
		}
	}
	return best
}
