package battle

import (
	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/entity"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/system"
	"github.com/FranklyNathan/BrambleWars-sub002/event"

	"github.com/sirupsen/logrus"
)

// --- free_roam ---

type freeRoamState struct{}

func (s *freeRoamState) HandleKey(ctx *InputContext, key core.Key) Transition {
	q := ctx.query()
	switch {
	case key.IsArrow():
		if ctx.moveCursor(key) {
			ctx.Hover = nil
			if hovered := q.UnitAt(ctx.Cursor, nil); hovered != nil {
				ctx.Hover = system.ComputeReachable(q, hovered)
			}
		}
		return stay()

	case key == core.KeyConfirm:
		unit := q.UnitAt(ctx.Cursor, nil)
		if unit == nil {
			ctx.openMapMenu()
			return goTo(core.StateMapMenu)
		}
		if unitOf(unit).Team != core.TeamPlayer {
			ctx.clearScratch()
			ctx.Inspected = unit
			ctx.Hover = system.ComputeReachable(q, unit)
			return goTo(core.StateEnemyRangeDisplay)
		}
		if !ctx.canCommand(unit) {
			return reject("unit cannot act")
		}
		ctx.selectUnit(unit)
		return goTo(core.StateUnitSelected)

	case key == core.KeyInfo:
		unit := q.UnitAt(ctx.Cursor, nil)
		if unit == nil {
			return stay()
		}
		ctx.clearScratch()
		ctx.Inspected = unit
		ctx.InfoNode = InfoStats
		event.Publish(ctx.Rules.World, event.UnitInfoMenuSelectionChanged{Unit: unit.Entity(), Node: string(InfoStats)})
		return goTo(core.StateUnitInfoLocked)
	}
	return stay()
}

// --- enemy_range_display ---

// enemyRangeState は敵の移動範囲を表示します。方向キーは表示を閉じてそのままカーソルを動かします。
type enemyRangeState struct{}

func (s *enemyRangeState) HandleKey(ctx *InputContext, key core.Key) Transition {
	switch {
	case key.IsArrow():
		ctx.clearScratch()
		ctx.moveCursor(key)
		return goTo(core.StateFreeRoam)
	case key == core.KeyConfirm, key == core.KeyCancel:
		ctx.clearScratch()
		return goTo(core.StateFreeRoam)
	}
	return stay()
}

// --- unit_info_locked ---

type unitInfoState struct{}

func (s *unitInfoState) HandleKey(ctx *InputContext, key core.Key) Transition {
	switch {
	case key.IsArrow():
		next, ok := unitInfoGraph.Next(ctx.InfoNode, key)
		if !ok {
			return stay()
		}
		ctx.InfoNode = next
		if ctx.Inspected != nil && ctx.Inspected.Valid() {
			event.Publish(ctx.Rules.World, event.UnitInfoMenuSelectionChanged{Unit: ctx.Inspected.Entity(), Node: string(next)})
		}
		return stay()
	case key == core.KeyCancel, key == core.KeyInfo:
		ctx.clearScratch()
		return goTo(core.StateFreeRoam)
	}
	return stay()
}

// --- map_menu ---

func (ctx *InputContext) openMapMenu() {
	ctx.clearScratch()
	ctx.Menu = []MenuOption{{Kind: OptionEndTurn, Label: "end turn"}}
	if entity.GetPhase(ctx.Rules.World).DraftAvailable {
		ctx.Menu = append(ctx.Menu, MenuOption{Kind: OptionDraft, Label: "draft"})
	}
	ctx.publishListSelection(0, ctx.Menu[0].Label)
}

type mapMenuState struct{}

func (s *mapMenuState) HandleKey(ctx *InputContext, key core.Key) Transition {
	switch {
	case menuDelta(key) != 0:
		ctx.MenuIndex = wrap(ctx.MenuIndex, menuDelta(key), len(ctx.Menu))
		ctx.publishListSelection(ctx.MenuIndex, ctx.Menu[ctx.MenuIndex].Label)
		return stay()
	case key == core.KeyCancel:
		ctx.clearScratch()
		return goTo(core.StateFreeRoam)
	case key == core.KeyConfirm:
		switch ctx.Menu[ctx.MenuIndex].Kind {
		case OptionEndTurn:
			ctx.endTurn()
			ctx.clearScratch()
			return goTo(core.StateFreeRoam)
		case OptionDraft:
			ctx.DraftPick = nil
			return goTo(core.StateDraftMode)
		}
	}
	return stay()
}

// endTurn はまだ行動できるプレイヤーユニットすべてに行動済みの印を付けます。
// 印を付けるユニットがいなければその場でフェイズ終了を判定します。
func (ctx *InputContext) endTurn() {
	r := ctx.Rules
	marked := 0
	for _, e := range r.Query.TeamUnits(core.TeamPlayer) {
		u := unitOf(e)
		if !u.IsAlive() || u.HasActed || e.HasComponent(component.PendingActedComponent) {
			continue
		}
		system.MarkPendingActed(e)
		marked++
	}
	r.Logger.WithField("units", marked).Info("ターン終了を選びました")
	if marked == 0 {
		system.CheckPlayerTurnEnd(r)
	}
}

// --- draft_mode ---

// draftState は出撃前の配置入れ替えです。2体を順に選ぶと位置を交換します。
type draftState struct{}

func (s *draftState) HandleKey(ctx *InputContext, key core.Key) Transition {
	switch {
	case key.IsArrow():
		ctx.moveCursor(key)
		return stay()
	case key == core.KeyCancel:
		ctx.DraftPick = nil
		ctx.openMapMenu()
		return goTo(core.StateMapMenu)
	case key == core.KeyConfirm:
		unit := ctx.query().UnitAt(ctx.Cursor, nil)
		if unit == nil || unitOf(unit).Team != core.TeamPlayer {
			return reject("no player unit to draft")
		}
		if ctx.DraftPick == nil || !ctx.DraftPick.Valid() {
			ctx.DraftPick = unit
			return stay()
		}
		first := ctx.DraftPick
		ctx.DraftPick = nil
		if first.Entity() == unit.Entity() {
			return stay()
		}
		a, b := system.TileOf(first), system.TileOf(unit)
		system.PlaceUnit(ctx.Rules.World, first, b)
		system.PlaceUnit(ctx.Rules.World, unit, a)
		ctx.Rules.Logger.WithFields(logrus.Fields{
			"first":  unitOf(first).Name,
			"second": unitOf(unit).Name,
		}).Info("配置を入れ替えました")
		return stay()
	}
	return stay()
}
