package system

import (
	"github.com/FranklyNathan/BrambleWars-sub002/core"

	"github.com/yohamta/donburi"
)

// ReachInfo は到達可能なマスの情報です。
// Landable が false のマスは通過はできますが、移動の終点にはできません。
type ReachInfo struct {
	Cost     int
	Landable bool
}

// MoveRange はユニット選択時に計算される移動範囲です。選択解除で破棄されます。
type MoveRange struct {
	Start       core.Tile
	Reachable   map[core.Tile]ReachInfo
	Predecessor map[core.Tile]core.Tile
	CostSoFar   map[core.Tile]int

	// legal は経路復元時にカーソル軌跡のマスから進めるかを確かめます。nil なら確認しません。
	legal func(from, to core.Tile) bool
}

// NewMoveRange は開始マスだけを含む空の移動範囲を作ります。
func NewMoveRange(start core.Tile) *MoveRange {
	return &MoveRange{
		Start:       start,
		Reachable:   map[core.Tile]ReachInfo{start: {Cost: 0, Landable: true}},
		Predecessor: make(map[core.Tile]core.Tile),
		CostSoFar:   map[core.Tile]int{start: 0},
	}
}

// IsReachable は tile が範囲内かを返します。
func (mr *MoveRange) IsReachable(tile core.Tile) bool {
	if mr == nil {
		return false
	}
	_, ok := mr.Reachable[tile]
	return ok
}

// IsLandable は tile が移動の終点にできるかを返します。
func (mr *MoveRange) IsLandable(tile core.Tile) bool {
	if mr == nil {
		return false
	}
	info, ok := mr.Reachable[tile]
	return ok && info.Landable
}

// ComputeReachable は unit の移動範囲を計算します。
// 上下左右の4方向に進む幅優先探索で、泥に入るときだけコストが2になります。
// 既に記録されたコストより安く到達できた場合はそのマスを再度キューに積みます。
func ComputeReachable(q *WorldQuery, unit *donburi.Entry) *MoveRange {
	if unit == nil {
		return nil
	}
	start := TileOf(unit)
	mr := NewMoveRange(start)
	mr.legal = func(from, to core.Tile) bool { return q.CanTraverse(unit, from, to) }

	budget := q.UnitMovement(unit)
	m := q.Map()

	queue := []core.Tile{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curCost := mr.CostSoFar[cur]

		for _, next := range cur.Neighbors() {
			if !m.InBounds(next) {
				continue
			}
			cost := curCost + q.StepCost(unit, next)
			if cost > budget {
				continue
			}
			if prev, seen := mr.CostSoFar[next]; seen && cost >= prev {
				continue
			}
			if !q.CanTraverse(unit, cur, next) {
				continue
			}
			mr.CostSoFar[next] = cost
			mr.Predecessor[next] = cur
			mr.Reachable[next] = ReachInfo{Cost: cost, Landable: q.IsTileLandable(next, unit)}
			queue = append(queue, next)
		}
	}
	return mr
}

// ReconstructTilePath は start から goal までのマス列を返します。start は含みません。
// 各ステップでカーソル軌跡の新しいものから順に見て、隣接していて最短経路上にあるマスがあれば
// それを優先し、なければ探索時の直前マスをたどります。goal が範囲外、または直前マスの連鎖が
// 途切れている場合は nil を返します。
func ReconstructTilePath(mr *MoveRange, trail []core.Tile, start, goal core.Tile) []core.Tile {
	if mr == nil || !mr.IsReachable(goal) {
		return nil
	}
	if goal == start {
		return []core.Tile{}
	}

	var reversed []core.Tile
	cur := goal
	for steps := 0; cur != start; steps++ {
		if steps > len(mr.CostSoFar) {
			return nil
		}
		reversed = append(reversed, cur)
		next, ok := mr.stepBack(cur, trail)
		if !ok {
			return nil
		}
		cur = next
	}

	path := make([]core.Tile, len(reversed))
	for i, t := range reversed {
		path[len(reversed)-1-i] = t
	}
	return path
}

// stepBack は cur の一つ手前のマスを決めます。
func (mr *MoveRange) stepBack(cur core.Tile, trail []core.Tile) (core.Tile, bool) {
	pred, hasPred := mr.Predecessor[cur]
	if !hasPred {
		return core.Tile{}, false
	}
	want := mr.CostSoFar[pred]
	for i := len(trail) - 1; i >= 0; i-- {
		t := trail[i]
		if !t.IsAdjacent(cur) {
			continue
		}
		cost, ok := mr.CostSoFar[t]
		if !ok || cost != want {
			continue
		}
		if mr.legal != nil && !mr.legal(t, cur) {
			continue
		}
		return t, true
	}
	return pred, true
}

// ReconstructPath は ReconstructTilePath の結果を移動システム用のピクセル座標列に変換します。
func ReconstructPath(mr *MoveRange, trail []core.Tile, start, goal core.Tile, tileSize int) []core.Point {
	tiles := ReconstructTilePath(mr, trail, start, goal)
	if tiles == nil {
		return nil
	}
	waypoints := make([]core.Point, 0, len(tiles))
	for _, t := range tiles {
		waypoints = append(waypoints, core.TileToPixel(t, tileSize))
	}
	return waypoints
}
