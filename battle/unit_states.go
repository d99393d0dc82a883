package battle

import (
	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/system"

	"github.com/yohamta/donburi"
)

// --- unit_selected ---

type unitSelectedState struct{}

func (s *unitSelectedState) HandleKey(ctx *InputContext, key core.Key) Transition {
	switch {
	case key.IsArrow():
		if ctx.moveCursor(key) {
			ctx.recordTrail(ctx.Cursor)
		}
		return stay()

	case key == core.KeyCancel:
		if ctx.Selected != nil && ctx.Selected.Valid() {
			ctx.setCursor(system.TileOf(ctx.Selected))
		}
		ctx.clearScratch()
		return goTo(core.StateFreeRoam)

	case key == core.KeyConfirm:
		unit := ctx.Selected
		start := system.TileOf(unit)
		if ctx.Cursor == start {
			ctx.takeSnapshot(unit)
			ctx.openActionMenu()
			return goTo(core.StateActionMenu)
		}
		if !ctx.Range.IsLandable(ctx.Cursor) {
			return reject("tile is not reachable")
		}
		tileSize := ctx.query().Map().TileSize
		tiles := system.ReconstructTilePath(ctx.Range, ctx.Trail, start, ctx.Cursor)
		if len(tiles) == 0 {
			return reject("no path to tile")
		}
		waypoints := system.ReconstructPath(ctx.Range, ctx.Trail, start, ctx.Cursor, tileSize)
		ctx.takeSnapshot(unit)
		system.StartMove(unit, tiles, waypoints)
		return goTo(core.StateUnitMoving)
	}
	return stay()
}

// --- unit_moving ---

// unitMovingState は入力を受け付けません。移動システムの MoveFinished で行動メニューに進みます。
type unitMovingState struct{}

func (s *unitMovingState) HandleKey(_ *InputContext, _ core.Key) Transition {
	return stay()
}

// --- action_menu ---

type actionMenuState struct{}

func (s *actionMenuState) HandleKey(ctx *InputContext, key core.Key) Transition {
	switch {
	case menuDelta(key) != 0:
		ctx.MenuIndex = wrap(ctx.MenuIndex, menuDelta(key), len(ctx.Menu))
		ctx.publishListSelection(ctx.MenuIndex, ctx.Menu[ctx.MenuIndex].Label)
		return stay()
	case key == core.KeyCancel:
		if !ctx.undoMove() {
			return reject("move already committed")
		}
		return goTo(core.StateUnitSelected)
	case key == core.KeyConfirm:
		return s.choose(ctx, ctx.Menu[ctx.MenuIndex])
	}
	return stay()
}

func (s *actionMenuState) choose(ctx *InputContext, opt MenuOption) Transition {
	q := ctx.query()
	unit := ctx.Selected

	switch opt.Kind {
	case OptionWait:
		return ctx.finalize()

	case OptionAttack:
		return s.chooseAttack(ctx, opt.Attack)

	case OptionRescue, OptionShove, OptionTake:
		var targets []*donburi.Entry
		state := core.StateRescueTargeting
		switch opt.Kind {
		case OptionRescue:
			targets = q.FindRescuableUnits(unit)
		case OptionShove:
			targets = q.FindShoveTargets(unit)
			state = core.StateShoveTargeting
		case OptionTake:
			targets = q.FindTakeTargets(unit)
			state = core.StateTakeTargeting
		}
		if len(targets) == 0 {
			return reject("no target")
		}
		ctx.Targets = targets
		ctx.Index = 0
		ctx.focusTarget(state, system.TileOf(targets[0]), 0, false)
		return goTo(state)

	case OptionDrop:
		tiles := q.FindValidDropTiles(unit)
		if len(tiles) == 0 {
			return reject("no drop tile")
		}
		ctx.Tiles = tiles
		ctx.Index = 0
		ctx.focusTarget(core.StateDropTargeting, tiles[0], 0, false)
		return goTo(core.StateDropTargeting)

	case OptionEquip:
		ctx.Weapons = append([]string(nil), unitOf(unit).Weapons...)
		ctx.ListIndex = 0
		ctx.publishListSelection(0, ctx.Weapons[0])
		return goTo(core.StateWeaponSelect)

	case OptionShop:
		ctx.Stock = ctx.Rules.Data.ShopStock()
		ctx.ListIndex = 0
		ctx.publishListSelection(0, ctx.Stock[0].ID)
		return goTo(core.StateShopMenu)

	case OptionPromote:
		ctx.Promotions = ctx.Rules.Data.PromotionsFor(unitOf(unit).Class)
		ctx.ListIndex = 0
		ctx.publishListSelection(0, ctx.Promotions[0].ID)
		return goTo(core.StatePromotionSelect)

	case OptionBurrow:
		tiles := q.FindBurrowTiles(unit)
		if len(tiles) == 0 {
			return reject("no molehill")
		}
		ctx.Tiles = tiles
		ctx.Index = 0
		ctx.focusTarget(core.StateBurrowTeleport, tiles[0], 0, false)
		return goTo(core.StateBurrowTeleport)
	}
	return stay()
}

// chooseAttack は技の対象選択方式に応じて次の状態を決めます。
// 対象を選ばない技はその場で実行して行動を確定します。
func (s *actionMenuState) chooseAttack(ctx *InputContext, attack *core.AttackDefinition) Transition {
	q := ctx.query()
	unit := ctx.Selected
	here := system.TileOf(unit)
	ctx.Attack = attack
	ctx.Index = 0

	switch attack.Targeting {
	case core.TargetCycle:
		targets := q.FindValidTargetsForAttack(unit, attack)
		if len(targets) == 0 {
			return reject("no target in range")
		}
		ctx.Targets = targets
		ctx.focusTarget(core.StateCycleTargeting, system.TileOf(targets[0]), 0, true)
		return goTo(core.StateCycleTargeting)

	case core.TargetGroundAim:
		tiles := q.TilesInRange(here, attack.MinRange, attack.MaxRange)
		if len(tiles) == 0 {
			return reject("no tile in range")
		}
		ctx.Aim = nearestTile(here, tiles)
		ctx.setCursor(ctx.Aim)
		return goTo(core.StateGroundAiming)

	case core.TargetTileCycle, core.TargetDirection:
		var tiles []core.Tile
		if attack.Targeting == core.TargetDirection {
			m := q.Map()
			for _, n := range here.Neighbors() {
				if m.InBounds(n) {
					tiles = append(tiles, n)
				}
			}
		} else {
			tiles = q.TilesInRange(here, attack.MinRange, attack.MaxRange)
		}
		if len(tiles) == 0 {
			return reject("no tile in range")
		}
		ctx.Tiles = tiles
		ctx.focusTarget(core.StateTileCycling, tiles[0], 0, true)
		return goTo(core.StateTileCycling)

	case core.TargetAutoAll:
		return ctx.executeAttack(q.FindValidTargetsForAttack(unit, attack), here, nil)
	}
	return ctx.executeAttack(nil, here, nil)
}

// nearestTile は origin に最も近いマスを返します。同じ距離なら先に現れたものです。
func nearestTile(origin core.Tile, tiles []core.Tile) core.Tile {
	best := tiles[0]
	for _, t := range tiles[1:] {
		if origin.Manhattan(t) < origin.Manhattan(best) {
			best = t
		}
	}
	return best
}

// backToMenu は行動メニューを作り直して戻ります。
func backToMenu(ctx *InputContext) Transition {
	ctx.openActionMenu()
	return goTo(core.StateActionMenu)
}

// --- weapon_select ---

type weaponSelectState struct{}

func (s *weaponSelectState) HandleKey(ctx *InputContext, key core.Key) Transition {
	switch {
	case menuDelta(key) != 0:
		ctx.ListIndex = wrap(ctx.ListIndex, menuDelta(key), len(ctx.Weapons))
		ctx.publishListSelection(ctx.ListIndex, ctx.Weapons[ctx.ListIndex])
		return stay()
	case key == core.KeyCancel:
		return backToMenu(ctx)
	case key == core.KeyConfirm:
		if !ctx.Rules.EquipWeapon(ctx.Selected, ctx.Weapons[ctx.ListIndex]) {
			return reject("cannot equip")
		}
		return backToMenu(ctx)
	}
	return stay()
}

// --- shop_menu ---

// shopMenuState は武器を購入します。購入すると移動の取り消しはできなくなります。
type shopMenuState struct{}

func (s *shopMenuState) HandleKey(ctx *InputContext, key core.Key) Transition {
	switch {
	case menuDelta(key) != 0:
		ctx.ListIndex = wrap(ctx.ListIndex, menuDelta(key), len(ctx.Stock))
		ctx.publishListSelection(ctx.ListIndex, ctx.Stock[ctx.ListIndex].ID)
		return stay()
	case key == core.KeyCancel:
		return backToMenu(ctx)
	case key == core.KeyConfirm:
		if !ctx.Rules.BuyWeapon(ctx.Selected, ctx.Stock[ctx.ListIndex].ID) {
			return reject("not enough gold")
		}
		ctx.markCommitted()
		return stay()
	}
	return stay()
}

// --- promotion_select ---

type promotionSelectState struct{}

func (s *promotionSelectState) HandleKey(ctx *InputContext, key core.Key) Transition {
	switch {
	case menuDelta(key) != 0:
		ctx.ListIndex = wrap(ctx.ListIndex, menuDelta(key), len(ctx.Promotions))
		ctx.publishListSelection(ctx.ListIndex, ctx.Promotions[ctx.ListIndex].ID)
		return stay()
	case key == core.KeyCancel:
		return backToMenu(ctx)
	case key == core.KeyConfirm:
		if !ctx.Rules.Promote(ctx.Selected, ctx.Promotions[ctx.ListIndex]) {
			return reject("cannot promote")
		}
		ctx.markCommitted()
		return ctx.finalize()
	}
	return stay()
}
