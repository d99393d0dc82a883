package system

import (
	"container/heap"
	"math/rand"
	"testing"

	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"

	"github.com/yohamta/donburi"
)

func TestComputeReachableOpenDiamond(t *testing.T) {
	r := newTestRules(t, 11, 11)
	hero := spawn(r, player("Hazel", core.Tile{X: 5, Y: 5}, 5))

	mr := ComputeReachable(r.Query, hero)
	if got := len(mr.Reachable); got != 61 {
		t.Fatalf("reachable = %d, want 61", got)
	}
	for tile, info := range mr.Reachable {
		if !info.Landable {
			t.Errorf("%v should be landable", tile)
		}
		if d := tile.Manhattan(core.Tile{X: 5, Y: 5}); info.Cost != d {
			t.Errorf("%v cost = %d, want %d", tile, info.Cost, d)
		}
	}
}

func TestComputeReachableClippedByBounds(t *testing.T) {
	r := newTestRules(t, 10, 10)
	hero := spawn(r, player("Hazel", core.Tile{X: 0, Y: 0}, 5))

	mr := ComputeReachable(r.Query, hero)
	// x, y >= 0 かつ x+y <= 5 のマス
	if got := len(mr.Reachable); got != 21 {
		t.Fatalf("reachable = %d, want 21", got)
	}
}

func TestTraversableButNotLandable(t *testing.T) {
	r := newTestRules(t, 6, 1)
	hero := spawn(r, player("Hazel", core.Tile{X: 0, Y: 0}, 4))
	spawn(r, player("Ally", core.Tile{X: 1, Y: 0}, 3))
	spawn(r, enemy("Foe", core.Tile{X: 3, Y: 0}))

	mr := ComputeReachable(r.Query, hero)
	if !mr.IsReachable(core.Tile{X: 1, Y: 0}) || mr.IsLandable(core.Tile{X: 1, Y: 0}) {
		t.Error("ally tile should be traversable but not landable")
	}
	if !mr.IsLandable(core.Tile{X: 2, Y: 0}) {
		t.Error("tile behind the ally should be landable")
	}
	if mr.IsReachable(core.Tile{X: 3, Y: 0}) || mr.IsReachable(core.Tile{X: 4, Y: 0}) {
		t.Error("enemy should block a ground unit")
	}
}

func TestSlipstreamPassesEnemies(t *testing.T) {
	r := newTestRules(t, 4, 1)
	spec := player("Wren", core.Tile{X: 0, Y: 0}, 3)
	spec.Passives = []core.PassiveID{core.PassiveSlipstream}
	hero := spawn(r, spec)
	spawn(r, enemy("Foe", core.Tile{X: 1, Y: 0}))

	mr := ComputeReachable(r.Query, hero)
	if mr.IsLandable(core.Tile{X: 1, Y: 0}) {
		t.Error("enemy tile must not be landable")
	}
	if !mr.IsLandable(core.Tile{X: 2, Y: 0}) {
		t.Error("slipstream should pass through the enemy")
	}
}

func TestSlipstreamStopsAtNeutralUnits(t *testing.T) {
	r := newTestRules(t, 4, 1)
	spec := player("Wren", core.Tile{X: 0, Y: 0}, 3)
	spec.Passives = []core.PassiveID{core.PassiveSlipstream}
	hero := spawn(r, spec)
	spawn(r, component.UnitSpec{Name: "Hermit", Team: core.TeamNeutral, Tile: core.Tile{X: 1, Y: 0}})

	mr := ComputeReachable(r.Query, hero)
	if mr.IsReachable(core.Tile{X: 1, Y: 0}) || mr.IsReachable(core.Tile{X: 2, Y: 0}) {
		t.Error("slipstream only passes enemies")
	}
}

func TestTerrainRules(t *testing.T) {
	r := newTestRules(t, 5, 1)
	m := r.Query.Map()
	m.Terrain[core.Tile{X: 1, Y: 0}] = core.TerrainMud
	m.Terrain[core.Tile{X: 3, Y: 0}] = core.TerrainWater

	walker := spawn(r, player("Hazel", core.Tile{X: 0, Y: 0}, 4))
	mr := ComputeReachable(r.Query, walker)
	if got := mr.CostSoFar[core.Tile{X: 2, Y: 0}]; got != 3 {
		t.Errorf("cost through mud = %d, want 3", got)
	}
	if mr.IsReachable(core.Tile{X: 3, Y: 0}) {
		t.Error("water should block a walker")
	}

	flySpec := player("Kite", core.Tile{X: 0, Y: 0}, 4)
	flySpec.CanFly = true
	component.PositionComponent.Get(walker).Tile = core.Tile{X: 4, Y: 0}
	flier := spawn(r, flySpec)
	mr = ComputeReachable(r.Query, flier)
	if got := mr.CostSoFar[core.Tile{X: 3, Y: 0}]; got != 3 {
		t.Errorf("flier cost over water = %d, want 3", got)
	}
}

func TestLedgeIsDirectional(t *testing.T) {
	r := newTestRules(t, 3, 1)
	r.Query.Map().Ledges[component.Edge{From: core.Tile{X: 1, Y: 0}, To: core.Tile{X: 0, Y: 0}}] = true

	left := spawn(r, player("Left", core.Tile{X: 0, Y: 0}, 2))
	if mr := ComputeReachable(r.Query, left); !mr.IsReachable(core.Tile{X: 2, Y: 0}) {
		t.Error("ledge should allow the downhill direction")
	}
	component.PositionComponent.Get(left).Tile = core.Tile{X: 2, Y: 0}
	if mr := ComputeReachable(r.Query, left); mr.IsReachable(core.Tile{X: 0, Y: 0}) {
		t.Error("ledge should block the uphill direction")
	}
}

func TestParalyzedUnitCannotMove(t *testing.T) {
	r := newTestRules(t, 5, 5)
	hero := spawn(r, player("Hazel", core.Tile{X: 2, Y: 2}, 4))
	component.StatusComponent.Get(hero).Effects[core.StatusParalyzed] = 1

	mr := ComputeReachable(r.Query, hero)
	if len(mr.Reachable) != 1 || !mr.IsLandable(core.Tile{X: 2, Y: 2}) {
		t.Errorf("reachable = %v", mr.Reachable)
	}
}

// referenceCosts は優先度付きキューによる素朴な Dijkstra 法です。
func referenceCosts(q *WorldQuery, unit *donburi.Entry) map[core.Tile]int {
	budget := q.UnitMovement(unit)
	start := TileOf(unit)
	dist := map[core.Tile]int{start: 0}
	pq := &tileHeap{{tile: start}}
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(tileCost)
		if cur.cost > dist[cur.tile] {
			continue
		}
		for _, n := range cur.tile.Neighbors() {
			if !q.Map().InBounds(n) || !q.CanTraverse(unit, cur.tile, n) {
				continue
			}
			c := cur.cost + q.StepCost(unit, n)
			if c > budget {
				continue
			}
			if old, ok := dist[n]; !ok || c < old {
				dist[n] = c
				heap.Push(pq, tileCost{tile: n, cost: c})
			}
		}
	}
	return dist
}

type tileCost struct {
	tile core.Tile
	cost int
}

type tileHeap []tileCost

func (h tileHeap) Len() int            { return len(h) }
func (h tileHeap) Less(i, j int) bool  { return h[i].cost < h[j].cost }
func (h tileHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *tileHeap) Push(x interface{}) { *h = append(*h, x.(tileCost)) }
func (h *tileHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func TestComputeReachableMatchesDijkstra(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for trial := 0; trial < 40; trial++ {
		r := newTestRules(t, 7, 7)
		m := r.Query.Map()
		for y := 0; y < 7; y++ {
			for x := 0; x < 7; x++ {
				switch rnd.Intn(6) {
				case 0:
					m.Terrain[core.Tile{X: x, Y: y}] = core.TerrainMud
				case 1:
					m.Terrain[core.Tile{X: x, Y: y}] = core.TerrainWater
				}
			}
		}
		for i := 0; i < 4; i++ {
			from := core.Tile{X: rnd.Intn(7), Y: rnd.Intn(7)}
			m.Ledges[component.Edge{From: from, To: from.Neighbors()[rnd.Intn(4)]}] = true
		}
		start := core.Tile{X: 3, Y: 3}
		delete(m.Terrain, start)
		hero := spawn(r, player("Hazel", start, 2+rnd.Intn(5)))
		for i := 0; i < 3; i++ {
			tile := core.Tile{X: rnd.Intn(7), Y: rnd.Intn(7)}
			if tile == start || r.Query.UnitAt(tile, nil) != nil {
				continue
			}
			if i%2 == 0 {
				spawn(r, enemy("Foe", tile))
			} else {
				spawn(r, player("Ally", tile, 1))
			}
		}

		mr := ComputeReachable(r.Query, hero)
		want := referenceCosts(r.Query, hero)
		if len(mr.CostSoFar) != len(want) {
			t.Fatalf("trial %d: reachable %d tiles, reference %d", trial, len(mr.CostSoFar), len(want))
		}
		budget := r.Query.UnitMovement(hero)
		for tile, cost := range want {
			got, ok := mr.CostSoFar[tile]
			if !ok || got != cost {
				t.Fatalf("trial %d: %v cost = %d (%v), want %d", trial, tile, got, ok, cost)
			}
			if got > budget {
				t.Fatalf("trial %d: %v over budget", trial, tile)
			}
			if mr.Reachable[tile].Landable != r.Query.IsTileLandable(tile, hero) && tile != start {
				t.Fatalf("trial %d: %v landable mismatch", trial, tile)
			}
		}
	}
}

func TestReconstructPathFollowsOptimalTrail(t *testing.T) {
	r := newTestRules(t, 5, 5)
	start := core.Tile{X: 0, Y: 0}
	hero := spawn(r, player("Hazel", start, 4))
	mr := ComputeReachable(r.Query, hero)
	goal := core.Tile{X: 2, Y: 2}

	trail := []core.Tile{{X: 0, Y: 1}, {X: 0, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2}}
	got := ReconstructTilePath(mr, trail, start, goal)
	if len(got) != mr.CostSoFar[goal] {
		t.Fatalf("path length %d, want %d", len(got), mr.CostSoFar[goal])
	}
	for i, tile := range trail {
		if got[i] != tile {
			t.Fatalf("path = %v, want %v", got, trail)
		}
	}

	plain := ReconstructTilePath(mr, nil, start, goal)
	if len(plain) != len(got) || plain[len(plain)-1] != goal {
		t.Errorf("predecessor-only path = %v", plain)
	}
	for i := 1; i < len(plain); i++ {
		if !plain[i].IsAdjacent(plain[i-1]) {
			t.Fatalf("path not contiguous: %v", plain)
		}
	}
}

func TestReconstructPathIgnoresDetourTrail(t *testing.T) {
	r := newTestRules(t, 5, 5)
	start := core.Tile{X: 0, Y: 0}
	hero := spawn(r, player("Hazel", start, 4))
	mr := ComputeReachable(r.Query, hero)

	// (1,0) から (1,1) に戻る遠回りの軌跡
	trail := []core.Tile{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 1}}
	got := ReconstructTilePath(mr, trail, start, core.Tile{X: 1, Y: 1})
	if len(got) != 2 {
		t.Fatalf("path = %v, want 2 steps", got)
	}
	if got[0] != (core.Tile{X: 1, Y: 0}) {
		t.Errorf("path = %v, should prefer the trail tile (1,0)", got)
	}
}

func TestReconstructPathEdgeCases(t *testing.T) {
	r := newTestRules(t, 5, 5)
	start := core.Tile{X: 0, Y: 0}
	hero := spawn(r, player("Hazel", start, 2))
	mr := ComputeReachable(r.Query, hero)

	if p := ReconstructPath(mr, nil, start, core.Tile{X: 4, Y: 4}, 32); p != nil {
		t.Errorf("unreachable goal should yield nil, got %v", p)
	}
	if p := ReconstructPath(mr, nil, start, start, 32); p == nil || len(p) != 0 {
		t.Errorf("goal == start should yield an empty path, got %v", p)
	}

	broken := NewMoveRange(start)
	broken.Reachable[core.Tile{X: 2, Y: 0}] = ReachInfo{Cost: 2, Landable: true}
	broken.CostSoFar[core.Tile{X: 2, Y: 0}] = 2
	if p := ReconstructPath(broken, nil, start, core.Tile{X: 2, Y: 0}, 32); p != nil {
		t.Errorf("broken chain should yield nil, got %v", p)
	}

	wp := ReconstructPath(mr, nil, start, core.Tile{X: 1, Y: 1}, 32)
	if len(wp) != 2 || wp[1] != (core.Point{X: 32, Y: 32}) {
		t.Errorf("waypoints = %v", wp)
	}
}
