package battle

import (
	"github.com/FranklyNathan/BrambleWars-sub002/core"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/component"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/entity"
	"github.com/FranklyNathan/BrambleWars-sub002/ecs/system"

	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
)

func unitOf(entry *donburi.Entry) *component.Unit {
	return component.UnitComponent.Get(entry)
}

// canCommand はプレイヤーが今このユニットに命令できるかを返します。
func (ctx *InputContext) canCommand(entry *donburi.Entry) bool {
	u := unitOf(entry)
	if u.Team != core.TeamPlayer || u.HasActed || entry.HasComponent(component.PendingActedComponent) {
		return false
	}
	q := ctx.query()
	return !q.HasStatus(entry, core.StatusStunned) && !q.HasStatus(entry, core.StatusParalyzed)
}

// selectUnit はユニットを選択し、移動範囲を計算します。
func (ctx *InputContext) selectUnit(entry *donburi.Entry) {
	ctx.clearScratch()
	ctx.Selected = entry
	ctx.Range = system.ComputeReachable(ctx.query(), entry)
	ctx.Trail = []core.Tile{system.TileOf(entry)}
}

// recordTrail はカーソル軌跡に tile を加えます。既に通ったマスに戻った場合はそこまで巻き戻します。
func (ctx *InputContext) recordTrail(tile core.Tile) {
	for i, t := range ctx.Trail {
		if t == tile {
			ctx.Trail = ctx.Trail[:i+1]
			return
		}
	}
	ctx.Trail = append(ctx.Trail, tile)
}

// takeSnapshot は移動前の状態を記録します。行動メニューからの取り消しでこの状態に戻します。
func (ctx *InputContext) takeSnapshot(entry *donburi.Entry) {
	u := unitOf(entry)
	snap := component.MoveSnapshot{
		Tile:   system.TileOf(entry),
		Facing: u.Facing,
		HP:     u.HP,
	}
	if !entry.HasComponent(component.MoveSnapshotComponent) {
		entry.AddComponent(component.MoveSnapshotComponent)
	}
	component.MoveSnapshotComponent.SetValue(entry, snap)
}

// markCommitted は取り返しのつかない行動(購入など)をしたことを記録し、以降の取り消しを禁止します。
func (ctx *InputContext) markCommitted() {
	if ctx.Selected != nil && ctx.Selected.HasComponent(component.MoveSnapshotComponent) {
		component.MoveSnapshotComponent.Get(ctx.Selected).Committed = true
	}
}

// undoMove はスナップショットまで巻き戻します。凍らせた水と生成した囮も元に戻します。
// 確定済みの場合は何もせず false を返します。
func (ctx *InputContext) undoMove() bool {
	entry := ctx.Selected
	if entry == nil || !entry.HasComponent(component.MoveSnapshotComponent) {
		return false
	}
	snap := component.MoveSnapshotComponent.Get(entry)
	if snap.Committed {
		return false
	}
	w := ctx.Rules.World
	m := ctx.query().Map()

	cancelled := entity.CancelQueuedAdds(w, entry.Entity())
	for _, t := range snap.FrozenTiles {
		delete(m.Frozen, t)
	}
	for _, e := range snap.Spawned {
		if w.Valid(e) {
			entity.MarkForDeletion(w.Entry(e))
		}
	}
	if entry.HasComponent(component.MovePathComponent) {
		entry.RemoveComponent(component.MovePathComponent)
	}

	u := unitOf(entry)
	system.PlaceUnit(w, entry, snap.Tile)
	u.Facing = snap.Facing
	u.HP = snap.HP
	if u.HP > u.Final.MaxHP {
		u.HP = u.Final.MaxHP
	}
	ctx.Rules.Logger.WithFields(logrus.Fields{
		"unit":      u.Name,
		"tile":      snap.Tile.String(),
		"unfrozen":  len(snap.FrozenTiles),
		"despawned": len(snap.Spawned) + cancelled,
	}).Info("移動を取り消しました")
	entry.RemoveComponent(component.MoveSnapshotComponent)

	ctx.selectUnit(entry)
	ctx.setCursor(snap.Tile)
	return true
}

// finalize はすべての行動の終わりに通る共通処理です。
// 行動済みの印を付け(HasActed は演出完了後に立つ)、作業データを捨ててカーソルをユニットに戻します。
func (ctx *InputContext) finalize() Transition {
	entry := ctx.Selected
	if entry != nil && entry.Valid() {
		system.MarkPendingActed(entry)
		if entry.HasComponent(component.MoveSnapshotComponent) {
			entry.RemoveComponent(component.MoveSnapshotComponent)
		}
		ctx.setCursor(system.TileOf(entry))
		entity.GetPhase(ctx.Rules.World).DraftAvailable = false
	}
	ctx.clearScratch()
	return goTo(core.StateFreeRoam)
}

// usable は技を今使えるかを返します。
func (ctx *InputContext) usable(entry *donburi.Entry, attack *core.AttackDefinition) bool {
	if unitOf(entry).Wisp < attack.WispCost {
		return false
	}
	q := ctx.query()
	switch attack.Targeting {
	case core.TargetCycle, core.TargetAutoAll:
		return len(q.FindValidTargetsForAttack(entry, attack)) > 0
	case core.TargetGroundAim, core.TargetTileCycle:
		return len(q.TilesInRange(system.TileOf(entry), attack.MinRange, attack.MaxRange)) > 0
	}
	return true
}

// buildActionMenu は選択中ユニットが今取れる行動を並べます。待機は常に最後です。
func (ctx *InputContext) buildActionMenu() []MenuOption {
	entry := ctx.Selected
	q := ctx.query()
	r := ctx.Rules
	u := unitOf(entry)

	var menu []MenuOption
	for _, a := range q.UnitAttacks(entry) {
		if ctx.usable(entry, a) {
			label := a.Name
			if label == "" {
				label = a.ID
			}
			menu = append(menu, MenuOption{Kind: OptionAttack, Label: label, Attack: a})
		}
	}
	if len(q.FindRescuableUnits(entry)) > 0 {
		menu = append(menu, MenuOption{Kind: OptionRescue, Label: "rescue"})
	}
	if system.IsCarrying(entry) && len(q.FindValidDropTiles(entry)) > 0 {
		menu = append(menu, MenuOption{Kind: OptionDrop, Label: "drop"})
	}
	if len(q.FindTakeTargets(entry)) > 0 {
		menu = append(menu, MenuOption{Kind: OptionTake, Label: "take"})
	}
	if len(q.FindShoveTargets(entry)) > 0 {
		menu = append(menu, MenuOption{Kind: OptionShove, Label: "shove"})
	}
	if len(u.Weapons) > 1 {
		menu = append(menu, MenuOption{Kind: OptionEquip, Label: "equip"})
	}
	if q.Map().ShopTiles[system.TileOf(entry)] && len(r.Data.ShopStock()) > 0 {
		menu = append(menu, MenuOption{Kind: OptionShop, Label: "shop"})
	}
	if !u.Promoted && len(r.Data.PromotionsFor(u.Class)) > 0 {
		menu = append(menu, MenuOption{Kind: OptionPromote, Label: "promote"})
	}
	if u.HasPassive(core.PassiveBurrow) && len(q.FindBurrowTiles(entry)) > 0 {
		menu = append(menu, MenuOption{Kind: OptionBurrow, Label: "burrow"})
	}
	return append(menu, MenuOption{Kind: OptionWait, Label: "wait"})
}

// openActionMenu は行動メニューを作り直し、先頭を選択します。
func (ctx *InputContext) openActionMenu() {
	ctx.Menu = ctx.buildActionMenu()
	ctx.MenuIndex = 0
	ctx.Attack = nil
	ctx.Targets = nil
	ctx.Tiles = nil
	ctx.Index = 0
	ctx.publishListSelection(0, ctx.Menu[0].Label)
}

// executeAttack は選択中の技を実行して行動を確定します。
func (ctx *InputContext) executeAttack(targets []*donburi.Entry, focus core.Tile, dest *core.Tile) Transition {
	_, ok := ctx.Rules.ExecuteAttack(system.AttackRequest{
		Attacker:    ctx.Selected,
		Attack:      ctx.Attack,
		Targets:     targets,
		Focus:       focus,
		Destination: dest,
	})
	if !ok {
		return reject("attack could not be used")
	}
	return ctx.finalize()
}
