package battle

import (
	"sort"

	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/system"

	"github.com/yohamta/donburi"
)

// cycleTiles は候補マスの選択を左右に循環させます。
func cycleTiles(ctx *InputContext, state core.PlayerTurnState, key core.Key, face bool) {
	ctx.Index = wrap(ctx.Index, cycleDelta(key), len(ctx.Tiles))
	ctx.focusTarget(state, ctx.Tiles[ctx.Index], ctx.Index, face)
}

// cycleTargets は候補ユニットの選択を左右に循環させます。
func cycleTargets(ctx *InputContext, state core.PlayerTurnState, key core.Key, face bool) {
	ctx.Index = wrap(ctx.Index, cycleDelta(key), len(ctx.Targets))
	ctx.focusTarget(state, system.TileOf(ctx.Targets[ctx.Index]), ctx.Index, face)
}

// --- cycle_targeting ---

type cycleTargetingState struct{}

func (s *cycleTargetingState) HandleKey(ctx *InputContext, key core.Key) Transition {
	switch {
	case key.IsArrow():
		cycleTargets(ctx, core.StateCycleTargeting, key, true)
		return stay()
	case key == core.KeyCancel:
		return backToMenu(ctx)
	case key == core.KeyConfirm:
		target := ctx.Targets[ctx.Index]
		if ctx.Attack.SecondaryRange > 0 {
			tiles := secondaryTiles(ctx, target)
			if len(tiles) == 0 {
				return reject("no destination for target")
			}
			ctx.Secondary = tiles
			ctx.SecondaryIndex = 0
			ctx.focusTarget(core.StateSecondaryTarget, tiles[0], 0, false)
			return goTo(core.StateSecondaryTarget)
		}
		return ctx.executeAttack([]*donburi.Entry{target}, system.TileOf(target), nil)
	}
	return stay()
}

// secondaryTiles は対象を移せるマス(対象から SecondaryRange 以内で着地可能)を返します。
func secondaryTiles(ctx *InputContext, target *donburi.Entry) []core.Tile {
	q := ctx.query()
	var tiles []core.Tile
	for _, t := range q.TilesInRange(system.TileOf(target), 1, ctx.Attack.SecondaryRange) {
		if q.IsTileLandable(t, target) && (ctx.Selected == nil || t != system.TileOf(ctx.Selected)) {
			tiles = append(tiles, t)
		}
	}
	sort.Slice(tiles, func(i, j int) bool {
		if tiles[i].Y != tiles[j].Y {
			return tiles[i].Y < tiles[j].Y
		}
		return tiles[i].X < tiles[j].X
	})
	return tiles
}

// --- secondary_targeting ---

type secondaryTargetingState struct{}

func (s *secondaryTargetingState) HandleKey(ctx *InputContext, key core.Key) Transition {
	switch {
	case key.IsArrow():
		ctx.SecondaryIndex = wrap(ctx.SecondaryIndex, cycleDelta(key), len(ctx.Secondary))
		ctx.focusTarget(core.StateSecondaryTarget, ctx.Secondary[ctx.SecondaryIndex], ctx.SecondaryIndex, false)
		return stay()
	case key == core.KeyCancel:
		ctx.Secondary = nil
		ctx.SecondaryIndex = 0
		ctx.focusTarget(core.StateCycleTargeting, system.TileOf(ctx.Targets[ctx.Index]), ctx.Index, true)
		return goTo(core.StateCycleTargeting)
	case key == core.KeyConfirm:
		target := ctx.Targets[ctx.Index]
		dest := ctx.Secondary[ctx.SecondaryIndex]
		return ctx.executeAttack([]*donburi.Entry{target}, system.TileOf(target), &dest)
	}
	return stay()
}

// --- ground_aiming ---

// groundAimingState は照準を射程内で自由に動かし、照準を中心とした範囲に技を撃ちます。
type groundAimingState struct{}

func (s *groundAimingState) HandleKey(ctx *InputContext, key core.Key) Transition {
	switch {
	case key.IsArrow():
		dir, _ := core.DirectionFromKey(key)
		next := ctx.Aim.Step(dir)
		origin := system.TileOf(ctx.Selected)
		d := origin.Manhattan(next)
		if d < ctx.Attack.MinRange || d > ctx.Attack.MaxRange || !ctx.query().Map().InBounds(next) {
			return stay()
		}
		ctx.Aim = next
		ctx.setCursor(next)
		return stay()
	case key == core.KeyCancel:
		return backToMenu(ctx)
	case key == core.KeyConfirm:
		targets := ctx.query().FindTargetsInArea(ctx.Selected, ctx.Attack, ctx.Aim)
		return ctx.executeAttack(targets, ctx.Aim, nil)
	}
	return stay()
}

// --- tile_cycling ---

type tileCyclingState struct{}

func (s *tileCyclingState) HandleKey(ctx *InputContext, key core.Key) Transition {
	switch {
	case key.IsArrow():
		cycleTiles(ctx, core.StateTileCycling, key, true)
		return stay()
	case key == core.KeyCancel:
		return backToMenu(ctx)
	case key == core.KeyConfirm:
		tile := ctx.Tiles[ctx.Index]
		q := ctx.query()
		var targets []*donburi.Entry
		if ctx.Attack.AreaRadius > 0 {
			targets = q.FindTargetsInArea(ctx.Selected, ctx.Attack, tile)
		} else {
			targets = q.FindTargetsOnTiles(ctx.Selected, ctx.Attack, []core.Tile{tile})
		}
		return ctx.executeAttack(targets, tile, nil)
	}
	return stay()
}

// --- rescue_targeting / shove_targeting / take_targeting ---

// targetListState は隣接ユニットを選ぶ運搬系の行動です。どの行動かは現在の状態で決まります。
type targetListState struct{}

func (s *targetListState) HandleKey(ctx *InputContext, key core.Key) Transition {
	state := ctx.State()
	switch {
	case key.IsArrow():
		cycleTargets(ctx, state, key, false)
		return stay()
	case key == core.KeyCancel:
		return backToMenu(ctx)
	case key == core.KeyConfirm:
		target := ctx.Targets[ctx.Index]
		var ok bool
		switch state {
		case core.StateRescueTargeting:
			ok = ctx.Rules.Rescue(ctx.Selected, target)
		case core.StateShoveTargeting:
			ok = ctx.Rules.Shove(ctx.Selected, target)
		case core.StateTakeTargeting:
			ok = ctx.Rules.Take(ctx.Selected, target)
		}
		if !ok {
			return reject("action not allowed")
		}
		return ctx.finalize()
	}
	return stay()
}

// --- drop_targeting ---

type dropTargetingState struct{}

func (s *dropTargetingState) HandleKey(ctx *InputContext, key core.Key) Transition {
	switch {
	case key.IsArrow():
		cycleTiles(ctx, core.StateDropTargeting, key, false)
		return stay()
	case key == core.KeyCancel:
		return backToMenu(ctx)
	case key == core.KeyConfirm:
		if !ctx.Rules.Drop(ctx.Selected, ctx.Tiles[ctx.Index]) {
			return reject("cannot drop here")
		}
		return ctx.finalize()
	}
	return stay()
}

// --- burrow_teleport_selecting ---

type burrowState struct{}

func (s *burrowState) HandleKey(ctx *InputContext, key core.Key) Transition {
	switch {
	case key.IsArrow():
		cycleTiles(ctx, core.StateBurrowTeleport, key, false)
		return stay()
	case key == core.KeyCancel:
		return backToMenu(ctx)
	case key == core.KeyConfirm:
		if !ctx.Rules.Burrow(ctx.Selected, ctx.Tiles[ctx.Index]) {
			return reject("cannot burrow here")
		}
		ctx.markCommitted()
		return ctx.finalize()
	}
	return stay()
}
